package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-reservation/internal/booking"
	"github.com/iliyamo/theatre-reservation/internal/model"
	"github.com/iliyamo/theatre-reservation/internal/queue"
	"github.com/iliyamo/theatre-reservation/internal/repository"
)

// ReservationCreator runs the booking transaction.  *booking.Engine is
// the production implementation; tests substitute their own.
type ReservationCreator interface {
	CreateReservation(ctx context.Context, userID, performanceID uint64, seats []booking.SeatRef) (*model.Reservation, error)
	Performance(ctx context.Context, id uint64) (*booking.PerformanceInfo, error)
}

// ReservationReader serves the owner-scoped read and cancel paths.
// *repository.ReservationRepo is the production implementation.
type ReservationReader interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
	GetByIDForUser(ctx context.Context, reservationID, userID uint64) (*model.Reservation, error)
	DeleteByIDForUser(ctx context.Context, reservationID, userID uint64) error
}

// PublishFunc sends a reservation event to the broker.  It runs on a
// background goroutine after commit; failures never affect the HTTP
// response.
type PublishFunc func(ctx context.Context, event queue.ReservationCreatedEvent) error

// ReservationHandler serves the customer-facing reservation endpoints.
type ReservationHandler struct {
	Engine  ReservationCreator
	Store   ReservationReader
	Publish PublishFunc // nil disables event publishing
}

// NewReservationHandler constructs a ReservationHandler and panics if
// the engine or store is nil.
func NewReservationHandler(engine ReservationCreator, store ReservationReader, publish PublishFunc) *ReservationHandler {
	if engine == nil || store == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Engine: engine, Store: store, Publish: publish}
}

type reservationReq struct {
	PerformanceID uint64            `json:"performance"`
	Tickets       []booking.SeatRef `json:"tickets"`
}

// Create handles POST /v1/reservations.  The requested seats are
// claimed atomically: either the reservation and every ticket commit
// together, or nothing is persisted.  The first invalid or taken seat
// rejects the whole request.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.PerformanceID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "performance required"})
	}

	ctx := c.Request().Context()
	res, err := h.Engine.CreateReservation(ctx, userID, req.PerformanceID, req.Tickets)
	if err != nil {
		var oob *booking.OutOfBoundsError
		var taken *booking.SeatTakenError
		switch {
		case errors.Is(err, booking.ErrNoSeatsRequested):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one ticket is required"})
		case errors.Is(err, booking.ErrPerformanceNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "performance not found"})
		case errors.As(err, &oob):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": oob.Error()})
		case errors.As(err, &taken):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": taken.Error()})
		}
		c.Logger().Errorf("create reservation: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}

	if h.Publish != nil {
		h.publishCreated(res, userID, req.PerformanceID)
	}
	return c.JSON(http.StatusCreated, res)
}

// publishCreated enriches and emits the reservation.created event on a
// background goroutine.  The reservation is already committed; a lost
// event is acceptable, a blocked response is not.
func (h *ReservationHandler) publishCreated(res *model.Reservation, userID, performanceID uint64) {
	seats := make([]queue.SeatPosition, 0, len(res.Tickets))
	for _, t := range res.Tickets {
		seats = append(seats, queue.SeatPosition{Row: t.Row, Seat: t.Seat})
	}
	ev := queue.ReservationCreatedEvent{
		ReservationID: res.ID,
		UserID:        userID,
		PerformanceID: performanceID,
		Seats:         seats,
		CreatedAt:     res.CreatedAt.UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if perf, err := h.Engine.Performance(ctx, performanceID); err == nil {
			ev.PlayTitle = perf.PlayTitle
			ev.HallName = perf.HallName
			ev.ShowTime = perf.ShowTime.UTC().Format(time.RFC3339)
		}
		_ = h.Publish(ctx, ev)
	}()
}

// List handles GET /v1/reservations and returns only the caller's
// reservations, newest first.
func (h *ReservationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Store.ListByUser(c.Request().Context(), userID)
	if err != nil {
		c.Logger().Errorf("list reservations: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /v1/reservations/:id.  Another user's reservation is
// indistinguishable from a missing one.
func (h *ReservationHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}
	res, err := h.Store.GetByIDForUser(c.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		c.Logger().Errorf("get reservation: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, res)
}

// Cancel handles DELETE /v1/reservations/:id.  Deleting the
// reservation releases its seats; the tickets go with it by cascade.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}
	if err := h.Store.DeleteByIDForUser(c.Request().Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your reservation"})
		}
		c.Logger().Errorf("cancel reservation: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel reservation failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
