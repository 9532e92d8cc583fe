package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-reservation/internal/model"
	"github.com/iliyamo/theatre-reservation/internal/repository"
)

// hallResp mirrors the hall JSON shape with the derived capacity
// attached.
type hallResp struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Rows        uint32 `json:"rows"`
	SeatsPerRow uint32 `json:"seats_in_row"`
	Capacity    uint64 `json:"capacity"`
}

func toHallResp(h *model.Hall) hallResp {
	return hallResp{
		ID:          h.ID,
		Name:        h.Name,
		Rows:        h.Rows,
		SeatsPerRow: h.SeatsPerRow,
		Capacity:    h.Capacity(),
	}
}

// CreateHall handles POST /v1/halls.  Both dimensions must be positive;
// they define the bounds every ticket for the hall is validated against.
func (h *CatalogHandler) CreateHall(c echo.Context) error {
	var req struct {
		Name        string `json:"name"`
		Rows        uint32 `json:"rows"`
		SeatsPerRow uint32 `json:"seats_in_row"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Rows == 0 || req.SeatsPerRow == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, rows and seats_in_row are required and must be greater than zero"})
	}
	hall := &model.Hall{Name: req.Name, Rows: req.Rows, SeatsPerRow: req.SeatsPerRow}
	if err := h.Halls.Create(c.Request().Context(), hall); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create hall failed"})
	}
	return c.JSON(http.StatusCreated, toHallResp(hall))
}

// ListHalls handles GET /v1/halls.
func (h *CatalogHandler) ListHalls(c echo.Context) error {
	items, err := h.Halls.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]hallResp, 0, len(items))
	for i := range items {
		out = append(out, toHallResp(&items[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// GetHall handles GET /v1/halls/:id.
func (h *CatalogHandler) GetHall(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}
	hall, err := h.Halls.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrHallNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toHallResp(hall))
}

// UpdateHall handles PUT /v1/halls/:id.  Only the name can change:
// dimensions are the bounds already-sold tickets were validated
// against, so they are immutable once the hall exists.
func (h *CatalogHandler) UpdateHall(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	hall := &model.Hall{ID: id, Name: req.Name}
	if err := h.Halls.Update(c.Request().Context(), hall); err != nil {
		if err == repository.ErrHallNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update hall failed"})
	}
	fresh, err := h.Halls.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toHallResp(fresh))
}

// DeleteHall handles DELETE /v1/halls/:id.  A hall hosting performances
// cannot be removed.
func (h *CatalogHandler) DeleteHall(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}
	if err := h.Halls.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrHallNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "hall has scheduled performances"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete hall failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
