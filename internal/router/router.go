package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/bookmyvenue/venue-booking/internal/handler"
	"github.com/bookmyvenue/venue-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring systems to verify that the
	// service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT authentication: the handler accepts a
	// JSON body containing a `refresh_token` and invalidates that token.
	g.POST("/logout", a.Logout)

	// Any authenticated role may query its own identity.
	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "OWNER", "CUSTOMER"),
	)
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints.  Extra
// middleware (response cache, rate limiting) is attached per route so
// the rest of the API is unaffected by it.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, mw ...echo.MiddlewareFunc) {
	// List of all published venues.
	e.GET("/v1/venues", b.ListVenues, mw...)
	// Venue detail with images, amenities, menu options and the
	// bookable sessions derived from its price variants.
	e.GET("/v1/venues/:id", b.GetVenue, mw...)
}
