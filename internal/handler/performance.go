package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-reservation/internal/model"
	"github.com/iliyamo/theatre-reservation/internal/repository"
)

type performanceReq struct {
	PlayID   uint64 `json:"play"`
	HallID   uint64 `json:"theatre_hall"`
	ShowTime string `json:"show_time"`
}

func (r performanceReq) parse() (*model.Performance, error) {
	ts, err := time.Parse(time.RFC3339, r.ShowTime)
	if err != nil {
		return nil, err
	}
	return &model.Performance{PlayID: r.PlayID, HallID: r.HallID, ShowTime: ts}, nil
}

// CreatePerformance handles POST /v1/performances.
func (h *CatalogHandler) CreatePerformance(c echo.Context) error {
	var req performanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.PlayID == 0 || req.HallID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "play and theatre_hall required"})
	}
	p, err := req.parse()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_time must be RFC3339"})
	}
	if err := h.Performances.Create(c.Request().Context(), p); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown play or hall reference"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create performance failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

// ListPerformances handles GET /v1/performances with optional ?play=
// and ?date= (YYYY-MM-DD, UTC day) filters.
func (h *CatalogHandler) ListPerformances(c echo.Context) error {
	var playID *uint64
	var day *time.Time
	if raw := c.QueryParam("play"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid play filter"})
		}
		playID = &n
	}
	if raw := c.QueryParam("date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date filter, expected YYYY-MM-DD"})
		}
		day = &d
	}
	items, err := h.Performances.List(c.Request().Context(), playID, day)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// GetPerformance handles GET /v1/performances/:id and returns the
// detail shape with the play and hall records embedded.
func (h *CatalogHandler) GetPerformance(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}
	p, err := h.Performances.GetDetail(c.Request().Context(), id, h.Plays, h.Halls)
	if err != nil {
		if err == repository.ErrPerformanceNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "performance not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, p)
}

// UpdatePerformance handles PUT /v1/performances/:id.
func (h *CatalogHandler) UpdatePerformance(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}
	var req performanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.PlayID == 0 || req.HallID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "play and theatre_hall required"})
	}
	p, err := req.parse()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_time must be RFC3339"})
	}
	p.ID = id
	if err := h.Performances.Update(c.Request().Context(), p); err != nil {
		switch err {
		case repository.ErrPerformanceNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "performance not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown play or hall reference"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update performance failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// DeletePerformance handles DELETE /v1/performances/:id.  A performance
// with sold tickets cannot be removed.
func (h *CatalogHandler) DeletePerformance(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}
	if err := h.Performances.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrPerformanceNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "performance not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "performance has sold tickets"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete performance failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
