package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"moviecatalog/internal/handler"    // import the handlers that implement business logic
	"moviecatalog/internal/middleware" // import middleware for JWT authentication
	"moviecatalog/internal/repository"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance: the health check and the public genre
// catalog used by the client's filter UI.
func RegisterRoutes(e *echo.Echo, g *handler.GenreHandler) {
	e.GET("/healthz", handler.Health)
	e.GET("/v1/genres", g.List)
}

// RegisterAuth registers the authentication routes and the protected
// group. Unauthenticated operations live under /v1/auth; everything
// else under /v1 runs behind the JWT middleware, which also verifies
// that the token's subject still resolves to an existing account.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, m *handler.MovieHandler, jwtSecret string, users *repository.UserRepo) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret, users))
	auth.GET("/me", a.Me)

	auth.POST("/movies", m.Create)
	auth.GET("/movies", m.List)
	auth.GET("/movies/:id", m.GetOne)
	auth.PATCH("/movies/:id", m.Update)
	auth.DELETE("/movies/:id", m.Delete)
}
