package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kuohsuan/acg-forum/internal/middleware"
	"github.com/kuohsuan/acg-forum/internal/repository"
)

// VoteHandler bundles dependencies for voting.
type VoteHandler struct {
	Votes *repository.VoteRepo
}

func NewVoteHandler(v *repository.VoteRepo) *VoteHandler { return &VoteHandler{Votes: v} }

type castVoteReq struct {
	Value int8 `json:"value"` // +1 or -1
}

// Cast records the principal's vote on a post.  Voting again simply
// replaces the earlier vote; the response carries the post's new score.
func (h *VoteHandler) Cast(c echo.Context) error {
	u, ok := middleware.Principal(c)
	if !ok {
		return errors.New("cast vote reached without principal")
	}

	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || postID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}
	var req castVoteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Votes.Cast(ctx, postID, u.ID, req.Value); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidVote):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "vote value must be +1 or -1"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cast vote failed"})
		}
	}

	score, err := h.Votes.ScoreByPost(ctx, postID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "score": score})
}
