package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-reservation/internal/handler"
	"github.com/iliyamo/theatre-reservation/internal/middleware"
	"github.com/iliyamo/theatre-reservation/internal/repository"
)

// RegisterReservations registers the reservation endpoints under /v1.
// All routes require a valid JWT; both customers and admins can book.
// The optional rate limiter guards the booking endpoint against
// hammering, which matters most on the seat-claiming write path.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(repository.RoleCustomer, repository.RoleAdmin),
	)
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/reservations", h.Create)
	g.GET("/reservations", h.List)
	g.GET("/reservations/:id", h.Get)
	g.DELETE("/reservations/:id", h.Cancel)
}
