package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kuohsuan/acg-forum/internal/repository"
)

// BoardHandler exposes the public board listing.
type BoardHandler struct {
	Boards *repository.BoardRepo
}

func NewBoardHandler(b *repository.BoardRepo) *BoardHandler { return &BoardHandler{Boards: b} }

// List returns all boards ordered by id.  Public; sits behind the
// response cache.
func (h *BoardHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	boards, err := h.Boards.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, boards)
}
