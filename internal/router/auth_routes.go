package router

import (
	"github.com/labstack/echo/v4"

	"github.com/geoproof/proof-of-attendance/internal/handler"
	"github.com/geoproof/proof-of-attendance/internal/middleware"
)

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware. Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Session-establishing operations. Each handler generates or
	// exchanges tokens, so none of these routes carry the JWT middleware.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access issues a new
	// access token without rotation.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts a refresh token in the body or a bearer token, so
	// it stays outside the protected group.
	g.POST("/logout", a.Logout)

	// Protected identity endpoint. Roles in the response are resolved
	// live against the registry, not baked into the token.
	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireAccount())
	auth.GET("/me", a.Me)

	// Alias kept at the top level so clients can terminate a session at
	// either path with the same body.
	e.POST("/v1/logout", a.Logout)
}
