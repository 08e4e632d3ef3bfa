package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bookmyvenue/venue-booking/internal/model"
	"github.com/bookmyvenue/venue-booking/internal/queue"
	"github.com/bookmyvenue/venue-booking/internal/repository"
)

// BookingStore is the persistence surface the booking endpoints need.
// The concrete implementation is repository.BookingRepo; tests supply
// an in-memory fake.
type BookingStore interface {
	CreateIfSlotFree(ctx context.Context, b *model.Booking) error
	ListByCustomer(ctx context.Context, customerID uint64) ([]model.Booking, error)
	GetByIDForCustomer(ctx context.Context, bookingID, customerID uint64) (*model.Booking, error)
}

// VenueCatalog resolves the venue a booking targets.
type VenueCatalog interface {
	GetByID(ctx context.Context, id uint64) (*model.Venue, error)
}

// UserDirectory resolves display names for denormalization.
type UserDirectory interface {
	DisplayName(ctx context.Context, id uint64) (string, error)
}

// BookingHandler serves the customer-facing booking endpoints.
// Publish sends a lifecycle event after a successful write; it is best
// effort and may be nil (nothing is published then).
type BookingHandler struct {
	Bookings BookingStore
	Venues   VenueCatalog
	Users    UserDirectory
	Publish  func(ctx context.Context, ev queue.BookingEvent) error
}

func NewBookingHandler(b BookingStore, v VenueCatalog, u UserDirectory,
	publish func(ctx context.Context, ev queue.BookingEvent) error) *BookingHandler {
	return &BookingHandler{Bookings: b, Venues: v, Users: u, Publish: publish}
}

type createBookingReq struct {
	VenueID        uint64 `json:"venue_id"`
	EventDate      string `json:"event_date"` // YYYY-MM-DD
	Session        string `json:"session"`
	Guests         int64  `json:"guests"`
	Amount         int64  `json:"amount"` // client-side quoted price, must be positive
	Message        string `json:"message"`
	MenuPreference string `json:"menu_preference"`
}

// bookingResult is the admission response shape: success flag, a
// human-readable message and per-field error lists.
type bookingResult struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Booking *model.Booking      `json:"booking,omitempty"`
}

// CreateBooking admits a booking request.  Field validation reports
// every failing field at once; nothing is persisted unless all checks
// pass AND the (venue, date, session) slot is free of non-Rejected
// bookings.  The stored total is the venue's current price for the
// session, not the client-supplied amount.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, bookingResult{
			Success: false,
			Message: "Invalid data provided. Please check the form.",
		})
	}

	fieldErrs := map[string][]string{}
	req.EventDate = strings.TrimSpace(req.EventDate)
	if req.EventDate == "" {
		fieldErrs["date"] = append(fieldErrs["date"], "Please select a date.")
	} else if _, err := time.Parse("2006-01-02", req.EventDate); err != nil {
		fieldErrs["date"] = append(fieldErrs["date"], "That's not a valid date!")
	}
	if req.Guests <= 0 {
		fieldErrs["guests"] = append(fieldErrs["guests"], "Number of guests must be positive.")
	}
	if req.Amount <= 0 {
		fieldErrs["price"] = append(fieldErrs["price"], "Please select a session to see the price.")
	}
	req.Session = strings.TrimSpace(req.Session)
	if req.Session == "" {
		fieldErrs["session"] = append(fieldErrs["session"], "Please select a booking session.")
	}
	if len(fieldErrs) > 0 {
		return c.JSON(http.StatusBadRequest, bookingResult{
			Success: false,
			Message: "Invalid data provided. Please check the form.",
			Errors:  fieldErrs,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	venue, err := h.Venues.GetByID(ctx, req.VenueID)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, bookingResult{
				Success: false,
				Message: "Venue not found.",
			})
		}
		return c.JSON(http.StatusInternalServerError, bookingResult{
			Success: false,
			Message: "Database error. Failed to create booking.",
		})
	}
	// An unpublished venue is not bookable and reads the same as a
	// missing one.
	if venue.Status != model.VenuePublished {
		return c.JSON(http.StatusNotFound, bookingResult{
			Success: false,
			Message: "Venue not found.",
		})
	}
	price, offered := venue.SessionPrice(req.Session)
	if !offered {
		return c.JSON(http.StatusBadRequest, bookingResult{
			Success: false,
			Message: "Invalid data provided. Please check the form.",
			Errors:  map[string][]string{"session": {"This venue does not offer the selected session."}},
		})
	}

	customerName, err := h.Users.DisplayName(ctx, customerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, bookingResult{
			Success: false,
			Message: "Database error. Failed to create booking.",
		})
	}

	b := &model.Booking{
		Reference:    uuid.NewString(),
		VenueID:      venue.ID,
		CustomerID:   customerID,
		EventDate:    req.EventDate,
		Session:      req.Session,
		Guests:       uint32(req.Guests),
		TotalAmount:  price,
		Status:       model.BookingPending,
		VenueName:    venue.Name,
		CustomerName: customerName,
	}
	if m := strings.TrimSpace(req.Message); m != "" {
		b.Message = &m
	}
	if m := strings.TrimSpace(req.MenuPreference); m != "" {
		b.MenuPreference = &m
	}

	if err := h.Bookings.CreateIfSlotFree(ctx, b); err != nil {
		if errors.Is(err, repository.ErrSlotUnavailable) {
			return c.JSON(http.StatusConflict, bookingResult{
				Success: false,
				Message: "Booking failed. The selected session is unavailable.",
				Errors:  map[string][]string{"date": {"This session is already booked for this date. Please choose another."}},
			})
		}
		return c.JSON(http.StatusInternalServerError, bookingResult{
			Success: false,
			Message: "Database error. Failed to create booking.",
		})
	}

	h.publishEvent(queue.BookingRequested, b)

	return c.JSON(http.StatusCreated, bookingResult{
		Success: true,
		Message: "Booking request for " + b.EventDate + " has been sent!",
		Booking: b,
	})
}

// ListMyBookings returns the caller's bookings, newest first.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Bookings.ListByCustomer(ctx, customerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": items})
}

// GetBooking returns one of the caller's bookings by id.  A booking
// belonging to someone else reads the same as a missing one.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	customerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByIDForCustomer(ctx, bookingID, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, b)
}

// publishEvent sends a lifecycle event with its own short deadline so a
// slow broker cannot stall the response.  Failures are ignored here;
// the publisher logs them.
func (h *BookingHandler) publishEvent(kind string, b *model.Booking) {
	if h.Publish == nil {
		return
	}
	ev := queue.BookingEvent{
		Kind:         kind,
		BookingID:    b.ID,
		Reference:    b.Reference,
		VenueID:      b.VenueID,
		VenueName:    b.VenueName,
		CustomerID:   b.CustomerID,
		CustomerName: b.CustomerName,
		EventDate:    b.EventDate,
		Session:      b.Session,
		Guests:       b.Guests,
		TotalAmount:  b.TotalAmount,
		OccurredAt:   time.Now().UTC().Format(time.RFC3339),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = h.Publish(ctx, ev)
}
