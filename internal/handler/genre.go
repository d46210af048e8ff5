package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"moviecatalog/internal/repository"
)

// GenreHandler serves the global genre catalog consumed by the web
// client's filter UI. Genres are read-only over HTTP.
type GenreHandler struct {
	Genres *repository.GenreRepo
}

func NewGenreHandler(genres *repository.GenreRepo) *GenreHandler {
	return &GenreHandler{Genres: genres}
}

// List handles GET /v1/genres.
func (h *GenreHandler) List(c echo.Context) error {
	items, err := h.Genres.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
