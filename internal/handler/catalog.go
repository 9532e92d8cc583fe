package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-reservation/internal/model"
	"github.com/iliyamo/theatre-reservation/internal/repository"
)

// CatalogHandler bundles the repositories behind the catalog endpoints:
// genres, actors, plays, halls and performances.  Reads are public,
// writes require the admin role (enforced at the router).
type CatalogHandler struct {
	Genres       *repository.GenreRepo
	Actors       *repository.ActorRepo
	Plays        *repository.PlayRepo
	Halls        *repository.HallRepo
	Performances *repository.PerformanceRepo
}

// NewCatalogHandler constructs a CatalogHandler and panics if any
// dependency is nil.
func NewCatalogHandler(g *repository.GenreRepo, a *repository.ActorRepo, p *repository.PlayRepo, h *repository.HallRepo, perf *repository.PerformanceRepo) *CatalogHandler {
	if g == nil || a == nil || p == nil || h == nil || perf == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Genres: g, Actors: a, Plays: p, Halls: h, Performances: perf}
}

// ----- genres -----

type genreReq struct {
	Name string `json:"name"`
}

// CreateGenre handles POST /v1/genres.
func (h *CatalogHandler) CreateGenre(c echo.Context) error {
	var req genreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	g := &model.Genre{Name: req.Name}
	if err := h.Genres.Create(c.Request().Context(), g); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "genre name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create genre failed"})
	}
	return c.JSON(http.StatusCreated, g)
}

// ListGenres handles GET /v1/genres.
func (h *CatalogHandler) ListGenres(c echo.Context) error {
	items, err := h.Genres.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// GetGenre handles GET /v1/genres/:id.
func (h *CatalogHandler) GetGenre(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}
	g, err := h.Genres.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrGenreNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "genre not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, g)
}

// UpdateGenre handles PUT /v1/genres/:id.
func (h *CatalogHandler) UpdateGenre(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}
	var req genreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	g := &model.Genre{ID: id, Name: req.Name}
	if err := h.Genres.Update(c.Request().Context(), g); err != nil {
		switch err {
		case repository.ErrGenreNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "genre not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "genre name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update genre failed"})
	}
	return c.JSON(http.StatusOK, g)
}

// DeleteGenre handles DELETE /v1/genres/:id.  A genre still referenced
// by a play cannot be removed.
func (h *CatalogHandler) DeleteGenre(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}
	if err := h.Genres.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrGenreNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "genre not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "genre is referenced by plays"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete genre failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- actors -----

type actorReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// CreateActor handles POST /v1/actors.
func (h *CatalogHandler) CreateActor(c echo.Context) error {
	var req actorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name and last_name required"})
	}
	a := &model.Actor{FirstName: req.FirstName, LastName: req.LastName}
	if err := h.Actors.Create(c.Request().Context(), a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create actor failed"})
	}
	return c.JSON(http.StatusCreated, a)
}

// ListActors handles GET /v1/actors.
func (h *CatalogHandler) ListActors(c echo.Context) error {
	items, err := h.Actors.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// GetActor handles GET /v1/actors/:id.
func (h *CatalogHandler) GetActor(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}
	a, err := h.Actors.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrActorNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "actor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, a)
}

// UpdateActor handles PUT /v1/actors/:id.
func (h *CatalogHandler) UpdateActor(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}
	var req actorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name and last_name required"})
	}
	a := &model.Actor{ID: id, FirstName: req.FirstName, LastName: req.LastName}
	if err := h.Actors.Update(c.Request().Context(), a); err != nil {
		if err == repository.ErrActorNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "actor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update actor failed"})
	}
	return c.JSON(http.StatusOK, a)
}

// DeleteActor handles DELETE /v1/actors/:id.
func (h *CatalogHandler) DeleteActor(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}
	if err := h.Actors.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrActorNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "actor not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "actor is referenced by plays"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete actor failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
