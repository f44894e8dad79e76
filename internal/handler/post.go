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
	"github.com/kuohsuan/acg-forum/internal/queue"
	"github.com/kuohsuan/acg-forum/internal/repository"
	"github.com/kuohsuan/acg-forum/internal/service/queuepub"
)

// PostHandler bundles dependencies for the post endpoints.
type PostHandler struct {
	Posts  *repository.PostRepo
	Boards *repository.BoardRepo
}

func NewPostHandler(p *repository.PostRepo, b *repository.BoardRepo) *PostHandler {
	return &PostHandler{Posts: p, Boards: b}
}

// ----- DTOs -----

type createPostReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	BoardID uint64 `json:"board_id"`
}

// Create makes a new post owned by the authenticated principal and
// publishes a post.created event.  Publishing is best-effort: a broker
// outage must not fail the request.
func (h *PostHandler) Create(c echo.Context) error {
	u, ok := middleware.Principal(c)
	if !ok {
		return errors.New("create post reached without principal")
	}

	var req createPostReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Content) == "" || req.BoardID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/content/board_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	board, err := h.Boards.GetByID(ctx, req.BoardID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "board not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	id, err := h.Posts.Create(ctx, req.Title, req.Content, u.ID, board.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "board not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create post failed"})
	}

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	_ = queuepub.PublishPostCreated(ctx, queue.PostCreatedEvent{
		PostID:     post.ID,
		BoardID:    board.ID,
		BoardName:  board.Name,
		AuthorID:   u.ID,
		AuthorName: u.Username,
		Title:      post.Title,
		CreatedAt:  post.CreatedAt.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, post)
}

// List returns posts newest-first.  Optional query params: board_id to
// filter, skip/limit for paging (limit clamped to 100).  Public; sits
// behind the response cache.
func (h *PostHandler) List(c echo.Context) error {
	boardID, _ := strconv.ParseUint(c.QueryParam("board_id"), 10, 64)
	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	if skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 100
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	posts, err := h.Posts.List(ctx, boardID, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, posts)
}

// Get returns a single post with its vote score.
func (h *PostHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, post)
}
