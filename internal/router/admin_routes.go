package router

import (
	"github.com/labstack/echo/v4"

	"github.com/bookmyvenue/venue-booking/internal/handler"
	"github.com/bookmyvenue/venue-booking/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.  The
// admin reviews newly submitted venue listings; the privilege comes
// from the role on the identity record, verified on every request.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	g.GET("/venues", a.ListPendingVenues)
	g.PATCH("/venues/:id/status", a.TransitionVenue)
}
