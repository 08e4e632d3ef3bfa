package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookmyvenue/venue-booking/internal/model"
	"github.com/bookmyvenue/venue-booking/internal/queue"
	"github.com/bookmyvenue/venue-booking/internal/repository"
)

// OwnerBookingStore is the persistence surface the owner review
// endpoints need.
type OwnerBookingStore interface {
	ListForOwner(ctx context.Context, ownerID uint64) ([]model.Booking, error)
	TransitionForOwner(ctx context.Context, bookingID, ownerID uint64, to string) error
	GetByID(ctx context.Context, bookingID uint64) (*model.Booking, error)
}

// OwnerBookingHandler serves the owner-side booking review endpoints.
type OwnerBookingHandler struct {
	Bookings OwnerBookingStore
	Publish  func(ctx context.Context, ev queue.BookingEvent) error
}

func NewOwnerBookingHandler(b OwnerBookingStore,
	publish func(ctx context.Context, ev queue.BookingEvent) error) *OwnerBookingHandler {
	return &OwnerBookingHandler{Bookings: b, Publish: publish}
}

// ListOwnerBookings returns booking requests across all of the caller's
// venues, newest first.
func (h *OwnerBookingHandler) ListOwnerBookings(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Bookings.ListForOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": items})
}

type transitionReq struct {
	Status string `json:"status"`
}

// TransitionBooking moves a Pending booking to Approved or Rejected on
// behalf of the venue owner.  A booking that already left Pending is a
// 409; repeating a decision is never a silent overwrite.
func (h *OwnerBookingHandler) TransitionBooking(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req transitionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status != model.BookingApproved && req.Status != model.BookingRejected {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be Approved or Rejected"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bookings.TransitionForOwner(ctx, bookingID, ownerID, req.Status); err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your venue"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not pending"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}

	b, err := h.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		// The transition committed; reply with what we know.
		return c.JSON(http.StatusOK, echo.Map{"id": bookingID, "status": req.Status})
	}
	h.publishReviewEvent(req.Status, b)
	return c.JSON(http.StatusOK, b)
}

func (h *OwnerBookingHandler) publishReviewEvent(status string, b *model.Booking) {
	if h.Publish == nil {
		return
	}
	kind := queue.BookingApproved
	if status == model.BookingRejected {
		kind = queue.BookingRejected
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
