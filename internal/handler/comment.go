package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kuohsuan/acg-forum/internal/middleware"
	"github.com/kuohsuan/acg-forum/internal/repository"
)

// CommentHandler bundles dependencies for the comment endpoints.
type CommentHandler struct {
	Comments *repository.CommentRepo
}

func NewCommentHandler(cm *repository.CommentRepo) *CommentHandler {
	return &CommentHandler{Comments: cm}
}

type createCommentReq struct {
	Content string `json:"content"`
}

// Create adds a comment to a post as the authenticated principal.
func (h *CommentHandler) Create(c echo.Context) error {
	u, ok := middleware.Principal(c)
	if !ok {
		return errors.New("create comment reached without principal")
	}

	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || postID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}
	var req createCommentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Comments.Create(ctx, postID, u.ID, req.Content)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create comment failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"id": id, "post_id": postID})
}

// ListByPost returns a post's comments oldest-first.  Public.
func (h *CommentHandler) ListByPost(c echo.Context) error {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || postID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	comments, err := h.Comments.ListByPost(ctx, postID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, comments)
}
