package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theatre-reservation/internal/handler"
	"github.com/iliyamo/theatre-reservation/internal/middleware"
	"github.com/iliyamo/theatre-reservation/internal/repository"
)

// RegisterCatalog registers the catalog endpoints under /v1.  Reads are
// open to everyone, guests included; writes require a valid JWT with
// the ADMIN role.  The optional cache middleware is applied to the read
// group only, so admin writes are never served from cache.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	read := e.Group("/v1")
	if cache != nil {
		read.Use(cache)
	}
	read.GET("/genres", h.ListGenres)
	read.GET("/genres/:id", h.GetGenre)
	read.GET("/actors", h.ListActors)
	read.GET("/actors/:id", h.GetActor)
	read.GET("/plays", h.ListPlays)
	read.GET("/plays/:id", h.GetPlay)
	read.GET("/theatre-halls", h.ListHalls)
	read.GET("/theatre-halls/:id", h.GetHall)
	read.GET("/performances", h.ListPerformances)
	read.GET("/performances/:id", h.GetPerformance)

	admin := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(repository.RoleAdmin),
	)
	admin.POST("/genres", h.CreateGenre)
	admin.PUT("/genres/:id", h.UpdateGenre)
	admin.DELETE("/genres/:id", h.DeleteGenre)
	admin.POST("/actors", h.CreateActor)
	admin.PUT("/actors/:id", h.UpdateActor)
	admin.DELETE("/actors/:id", h.DeleteActor)
	admin.POST("/plays", h.CreatePlay)
	admin.PUT("/plays/:id", h.UpdatePlay)
	admin.DELETE("/plays/:id", h.DeletePlay)
	admin.POST("/theatre-halls", h.CreateHall)
	admin.PUT("/theatre-halls/:id", h.UpdateHall)
	admin.DELETE("/theatre-halls/:id", h.DeleteHall)
	admin.POST("/performances", h.CreatePerformance)
	admin.PUT("/performances/:id", h.UpdatePerformance)
	admin.DELETE("/performances/:id", h.DeletePerformance)
}
