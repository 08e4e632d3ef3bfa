package router

import (
	"github.com/labstack/echo/v4"

	"github.com/bookmyvenue/venue-booking/internal/handler"
	"github.com/bookmyvenue/venue-booking/internal/middleware"
)

// RegisterOwner registers OWNER-scoped endpoints under /v1.
// All routes require a valid JWT and the OWNER role.
func RegisterOwner(e *echo.Echo, v *handler.VenueHandler, b *handler.OwnerBookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)

	// ---- Venues ----
	g.POST("/venues", v.CreateVenue)
	g.PUT("/venues/:id", v.UpdateVenue)
	g.PATCH("/venues/:id", v.UpdateVenue) // allow partial-style updates via PATCH as well
	g.GET("/my-venues", v.ListMyVenues)

	// ---- Booking review ----
	g.GET("/owner/bookings", b.ListOwnerBookings)
	g.PATCH("/owner/bookings/:id/status", b.TransitionBooking)
}
