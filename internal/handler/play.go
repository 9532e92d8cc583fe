package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-reservation/internal/model"
	"github.com/iliyamo/theatre-reservation/internal/repository"
)

type playReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	GenreIDs    []uint64 `json:"genres"`
	ActorIDs    []uint64 `json:"actors"`
}

// CreatePlay handles POST /v1/plays.  Genre and actor links are written
// together with the play; a dangling reference fails the whole insert.
func (h *CatalogHandler) CreatePlay(c echo.Context) error {
	var req playReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	p := &model.Play{
		Title:       req.Title,
		Description: req.Description,
		GenreIDs:    req.GenreIDs,
		ActorIDs:    req.ActorIDs,
	}
	if err := h.Plays.Create(c.Request().Context(), p); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown genre or actor reference"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create play failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

// ListPlays handles GET /v1/plays with optional ?genres= and ?actors=
// filters on referenced genre/actor IDs.
func (h *CatalogHandler) ListPlays(c echo.Context) error {
	var genreID, actorID *uint64
	if raw := c.QueryParam("genres"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid genres filter"})
		}
		genreID = &n
	}
	if raw := c.QueryParam("actors"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid actors filter"})
		}
		actorID = &n
	}
	items, err := h.Plays.List(c.Request().Context(), genreID, actorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// GetPlay handles GET /v1/plays/:id and returns the detail shape with
// genres and actors resolved.
func (h *CatalogHandler) GetPlay(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}
	p, err := h.Plays.GetDetail(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrPlayNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "play not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, p)
}

// UpdatePlay handles PUT /v1/plays/:id.  Genre and actor links are
// replaced wholesale with the request's lists.
func (h *CatalogHandler) UpdatePlay(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}
	var req playReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	p := &model.Play{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		GenreIDs:    req.GenreIDs,
		ActorIDs:    req.ActorIDs,
	}
	if err := h.Plays.Update(c.Request().Context(), p); err != nil {
		switch err {
		case repository.ErrPlayNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "play not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown genre or actor reference"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update play failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// DeletePlay handles DELETE /v1/plays/:id.  A play with scheduled
// performances cannot be removed.
func (h *CatalogHandler) DeletePlay(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}
	if err := h.Plays.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrPlayNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "play not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "play has scheduled performances"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete play failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
