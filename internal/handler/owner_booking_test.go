package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bookmyvenue/venue-booking/internal/model"
	"github.com/bookmyvenue/venue-booking/internal/queue"
	"github.com/bookmyvenue/venue-booking/internal/repository"
)

type fakeOwnerBookingStore struct {
	bookings    map[uint64]*model.Booking
	venueOwners map[uint64]uint64 // venue id -> owner id
}

func (f *fakeOwnerBookingStore) ListForOwner(_ context.Context, ownerID uint64) ([]model.Booking, error) {
	out := make([]model.Booking, 0)
	for _, b := range f.bookings {
		if f.venueOwners[b.VenueID] == ownerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeOwnerBookingStore) TransitionForOwner(_ context.Context, bookingID, ownerID uint64, to string) error {
	b, ok := f.bookings[bookingID]
	if !ok {
		return repository.ErrBookingNotFound
	}
	if f.venueOwners[b.VenueID] != ownerID {
		return repository.ErrForbidden
	}
	if b.Status != model.BookingPending {
		return repository.ErrConflict
	}
	b.Status = to
	return nil
}

func (f *fakeOwnerBookingStore) GetByID(_ context.Context, bookingID uint64) (*model.Booking, error) {
	b, ok := f.bookings[bookingID]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func newOwnerStore() *fakeOwnerBookingStore {
	return &fakeOwnerBookingStore{
		bookings: map[uint64]*model.Booking{
			1: {
				ID: 1, Reference: "ref-1", VenueID: 10, CustomerID: 7,
				EventDate: "2025-03-01", Session: model.SessionDay,
				Guests: 50, TotalAmount: 1500, Status: model.BookingPending,
				VenueName: "Grand Palace", CustomerName: "Asha Rao",
			},
		},
		venueOwners: map[uint64]uint64{10: 100},
	}
}

func patchStatus(t *testing.T, h *OwnerBookingHandler, ownerID uint64, bookingID, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/v1/owner/bookings/"+bookingID+"/status", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(bookingID)
	c.Set("user_id", ownerID)
	if err := h.TransitionBooking(c); err != nil {
		t.Fatalf("TransitionBooking returned error: %v", err)
	}
	return rec
}

func TestTransitionBookingApprove(t *testing.T) {
	store := newOwnerStore()
	var published []queue.BookingEvent
	h := NewOwnerBookingHandler(store, func(_ context.Context, ev queue.BookingEvent) error {
		published = append(published, ev)
		return nil
	})

	rec := patchStatus(t, h, 100, "1", `{"status":"Approved"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if store.bookings[1].Status != model.BookingApproved {
		t.Errorf("expected Approved, got %q", store.bookings[1].Status)
	}
	if len(published) != 1 || published[0].Kind != queue.BookingApproved {
		t.Errorf("expected one 'approved' event, got %+v", published)
	}
}

// A booking that already left Pending must never be silently
// overwritten: the second decision is a 409 and the stored status
// keeps the first decision.
func TestTransitionBookingTwiceConflicts(t *testing.T) {
	store := newOwnerStore()
	h := NewOwnerBookingHandler(store, nil)

	if rec := patchStatus(t, h, 100, "1", `{"status":"Approved"}`); rec.Code != http.StatusOK {
		t.Fatalf("first transition should succeed, got %d", rec.Code)
	}
	rec := patchStatus(t, h, 100, "1", `{"status":"Rejected"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second transition must be 409, got %d", rec.Code)
	}
	if store.bookings[1].Status != model.BookingApproved {
		t.Errorf("first decision must stand, got %q", store.bookings[1].Status)
	}
}

func TestTransitionBookingReject(t *testing.T) {
	store := newOwnerStore()
	h := NewOwnerBookingHandler(store, nil)

	rec := patchStatus(t, h, 100, "1", `{"status":"Rejected"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if store.bookings[1].Status != model.BookingRejected {
		t.Errorf("expected Rejected, got %q", store.bookings[1].Status)
	}
}

func TestTransitionBookingForeignOwnerForbidden(t *testing.T) {
	store := newOwnerStore()
	h := NewOwnerBookingHandler(store, nil)

	rec := patchStatus(t, h, 999, "1", `{"status":"Approved"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if store.bookings[1].Status != model.BookingPending {
		t.Errorf("status must be untouched, got %q", store.bookings[1].Status)
	}
}

func TestTransitionBookingNotFound(t *testing.T) {
	h := NewOwnerBookingHandler(newOwnerStore(), nil)
	rec := patchStatus(t, h, 100, "42", `{"status":"Approved"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTransitionBookingInvalidTarget(t *testing.T) {
	store := newOwnerStore()
	h := NewOwnerBookingHandler(store, nil)

	for _, status := range []string{"Pending", "Done", ""} {
		rec := patchStatus(t, h, 100, "1", `{"status":"`+status+`"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %q: expected 400, got %d", status, rec.Code)
		}
	}
	if store.bookings[1].Status != model.BookingPending {
		t.Errorf("status must be untouched, got %q", store.bookings[1].Status)
	}
}

func TestListOwnerBookingsScopedToOwner(t *testing.T) {
	store := newOwnerStore()
	store.bookings[2] = &model.Booking{
		ID: 2, VenueID: 20, CustomerID: 9, EventDate: "2025-04-01",
		Session: model.SessionNight, Status: model.BookingPending,
	}
	store.venueOwners[20] = 200
	h := NewOwnerBookingHandler(store, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/owner/bookings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(100))
	if err := h.ListOwnerBookings(c); err != nil {
		t.Fatalf("ListOwnerBookings: %v", err)
	}
	var out struct {
		Bookings []model.Booking `json:"bookings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Bookings) != 1 || out.Bookings[0].ID != 1 {
		t.Errorf("expected only owner 100's bookings, got %+v", out.Bookings)
	}
}
