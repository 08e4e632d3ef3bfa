package router

import (
	"github.com/labstack/echo/v4"

	"github.com/bookmyvenue/venue-booking/internal/handler"
	"github.com/bookmyvenue/venue-booking/internal/middleware"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT and the CUSTOMER role.  Customers submit
// booking requests and view their own bookings.
func RegisterCustomer(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	// Booking admission: validates the request, checks the slot and
	// persists a Pending booking in one conditional write.
	g.POST("/bookings", h.CreateBooking)
	g.GET("/my-bookings", h.ListMyBookings)
	g.GET("/bookings/:id", h.GetBooking)
}
