package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookmyvenue/venue-booking/internal/model"
	"github.com/bookmyvenue/venue-booking/internal/queue"
	"github.com/bookmyvenue/venue-booking/internal/repository"
)

// ----- in-memory fakes -----

type fakeBookingStore struct {
	bookings []model.Booking
	nextID   uint64
}

func (f *fakeBookingStore) CreateIfSlotFree(_ context.Context, b *model.Booking) error {
	for _, e := range f.bookings {
		if e.VenueID == b.VenueID && e.EventDate == b.EventDate &&
			e.Session == b.Session && e.Status != model.BookingRejected {
			return repository.ErrSlotUnavailable
		}
	}
	f.nextID++
	b.ID = f.nextID
	b.Status = model.BookingPending
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	f.bookings = append(f.bookings, *b)
	return nil
}

func (f *fakeBookingStore) ListByCustomer(_ context.Context, customerID uint64) ([]model.Booking, error) {
	out := make([]model.Booking, 0)
	for _, b := range f.bookings {
		if b.CustomerID == customerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) GetByIDForCustomer(_ context.Context, bookingID, customerID uint64) (*model.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == bookingID && b.CustomerID == customerID {
			cp := b
			return &cp, nil
		}
	}
	return nil, repository.ErrBookingNotFound
}

type fakeVenueCatalog struct {
	venues map[uint64]*model.Venue
}

func (f *fakeVenueCatalog) GetByID(_ context.Context, id uint64) (*model.Venue, error) {
	v, ok := f.venues[id]
	if !ok {
		return nil, repository.ErrVenueNotFound
	}
	return v, nil
}

type fakeUserDirectory struct {
	names map[uint64]string
}

func (f *fakeUserDirectory) DisplayName(_ context.Context, id uint64) (string, error) {
	return f.names[id], nil
}

// ----- helpers -----

func price(n uint32) *uint32 { return &n }

func publishedHall(id uint64, name string, day, night uint32) *model.Venue {
	return &model.Venue{
		ID:         id,
		OwnerID:    100,
		Name:       name,
		Type:       model.VenueFunctionHall,
		Location:   "Riverside",
		Capacity:   200,
		PriceDay:   price(day),
		PriceNight: price(night),
		Images:     []model.VenueImage{{URL: "https://img.example/1.jpg", Hint: "front lawn"}},
		Status:     model.VenuePublished,
	}
}

type admissionResp struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
	Booking *model.Booking      `json:"booking"`
}

func postBooking(t *testing.T, h *BookingHandler, userID uint64, body string) (int, admissionResp) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	if err := h.CreateBooking(c); err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}
	var out admissionResp
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, rec.Body.String())
	}
	return rec.Code, out
}

func newBookingHandler(store *fakeBookingStore, venues ...*model.Venue) *BookingHandler {
	cat := &fakeVenueCatalog{venues: map[uint64]*model.Venue{}}
	for _, v := range venues {
		cat.venues[v.ID] = v
	}
	users := &fakeUserDirectory{names: map[uint64]string{7: "Asha Rao"}}
	return NewBookingHandler(store, cat, users, nil)
}

// ----- tests -----

func TestCreateBookingSuccess(t *testing.T) {
	store := &fakeBookingStore{}
	h := newBookingHandler(store, publishedHall(1, "Grand Palace", 1500, 1800))

	var published []queue.BookingEvent
	h.Publish = func(_ context.Context, ev queue.BookingEvent) error {
		published = append(published, ev)
		return nil
	}

	code, resp := postBooking(t, h, 7, `{
		"venue_id": 1, "event_date": "2025-03-01", "session": "day",
		"guests": 50, "amount": 1500, "message": "birthday party"
	}`)

	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	if !resp.Success {
		t.Fatalf("expected success, got %+v", resp)
	}
	if resp.Message != "Booking request for 2025-03-01 has been sent!" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if len(store.bookings) != 1 {
		t.Fatalf("expected 1 persisted booking, got %d", len(store.bookings))
	}
	b := store.bookings[0]
	if b.Status != model.BookingPending {
		t.Errorf("expected Pending status, got %q", b.Status)
	}
	if b.TotalAmount != 1500 {
		t.Errorf("expected stored total 1500 (venue price), got %d", b.TotalAmount)
	}
	if b.VenueName != "Grand Palace" || b.CustomerName != "Asha Rao" {
		t.Errorf("denormalized names wrong: venue=%q customer=%q", b.VenueName, b.CustomerName)
	}
	if b.Reference == "" {
		t.Error("expected a non-empty reference code")
	}
	if b.Message == nil || *b.Message != "birthday party" {
		t.Errorf("message not carried: %v", b.Message)
	}
	if resp.Booking == nil || resp.Booking.ID != b.ID {
		t.Errorf("response does not echo the persisted booking: %+v", resp.Booking)
	}
	if len(published) != 1 || published[0].Kind != queue.BookingRequested {
		t.Errorf("expected one 'requested' event, got %+v", published)
	}
}

func TestCreateBookingFieldValidation(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
		want  string
	}{
		{"zero guests",
			`{"venue_id":1,"event_date":"2025-03-01","session":"day","guests":0,"amount":1500}`,
			"guests", "Number of guests must be positive."},
		{"negative guests",
			`{"venue_id":1,"event_date":"2025-03-01","session":"day","guests":-3,"amount":1500}`,
			"guests", "Number of guests must be positive."},
		{"zero amount",
			`{"venue_id":1,"event_date":"2025-03-01","session":"day","guests":50,"amount":0}`,
			"price", "Please select a session to see the price."},
		{"empty session",
			`{"venue_id":1,"event_date":"2025-03-01","session":"","guests":50,"amount":1500}`,
			"session", "Please select a booking session."},
		{"missing date",
			`{"venue_id":1,"session":"day","guests":50,"amount":1500}`,
			"date", "Please select a date."},
		{"malformed date",
			`{"venue_id":1,"event_date":"01/03/2025","session":"day","guests":50,"amount":1500}`,
			"date", "That's not a valid date!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeBookingStore{}
			h := newBookingHandler(store, publishedHall(1, "Grand Palace", 1500, 1800))

			code, resp := postBooking(t, h, 7, tc.body)
			if code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", code)
			}
			if resp.Success {
				t.Error("expected success=false")
			}
			if resp.Message != "Invalid data provided. Please check the form." {
				t.Errorf("unexpected message %q", resp.Message)
			}
			msgs := resp.Errors[tc.field]
			if len(msgs) == 0 || msgs[0] != tc.want {
				t.Errorf("expected %q error %q, got %v", tc.field, tc.want, resp.Errors)
			}
			if len(store.bookings) != 0 {
				t.Errorf("nothing should be persisted on validation failure, got %d", len(store.bookings))
			}
		})
	}
}

func TestCreateBookingReportsAllFieldErrorsAtOnce(t *testing.T) {
	store := &fakeBookingStore{}
	h := newBookingHandler(store, publishedHall(1, "Grand Palace", 1500, 1800))

	code, resp := postBooking(t, h, 7, `{"venue_id":1,"guests":0,"amount":0,"session":""}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	for _, field := range []string{"date", "guests", "price", "session"} {
		if len(resp.Errors[field]) == 0 {
			t.Errorf("expected an error for field %q, got %v", field, resp.Errors)
		}
	}
}

func TestCreateBookingSlotConflict(t *testing.T) {
	store := &fakeBookingStore{}
	h := newBookingHandler(store, publishedHall(1, "Grand Palace", 1500, 1800))

	if code, _ := postBooking(t, h, 7, `{"venue_id":1,"event_date":"2025-03-01","session":"day","guests":50,"amount":1500}`); code != http.StatusCreated {
		t.Fatalf("setup booking failed with %d", code)
	}

	code, resp := postBooking(t, h, 9, `{"venue_id":1,"event_date":"2025-03-01","session":"day","guests":20,"amount":1500}`)
	if code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", code)
	}
	if resp.Message != "Booking failed. The selected session is unavailable." {
		t.Errorf("unexpected message %q", resp.Message)
	}
	msgs := resp.Errors["date"]
	if len(msgs) == 0 || msgs[0] != "This session is already booked for this date. Please choose another." {
		t.Errorf("expected the date conflict error, got %v", resp.Errors)
	}
	if len(store.bookings) != 1 {
		t.Errorf("conflicting request must persist nothing, have %d bookings", len(store.bookings))
	}
}

func TestCreateBookingRejectedDoesNotBlockSlot(t *testing.T) {
	store := &fakeBookingStore{}
	store.nextID = 1
	store.bookings = append(store.bookings, model.Booking{
		ID: 1, VenueID: 1, CustomerID: 5, EventDate: "2025-03-01",
		Session: model.SessionDay, Status: model.BookingRejected,
	})
	h := newBookingHandler(store, publishedHall(1, "Grand Palace", 1500, 1800))

	code, _ := postBooking(t, h, 7, `{"venue_id":1,"event_date":"2025-03-01","session":"day","guests":50,"amount":1500}`)
	if code != http.StatusCreated {
		t.Fatalf("a Rejected booking must not block the slot; got %d", code)
	}
}

// Two sessions of the same day are independent slots: after the day
// session is taken, a second day request fails but a night request for
// the same date succeeds at the night price.
func TestCreateBookingDayAndNightAreSeparateSlots(t *testing.T) {
	store := &fakeBookingStore{}
	h := newBookingHandler(store, publishedHall(1, "Lakeside Hall", 1500, 1800))

	code, resp := postBooking(t, h, 7, `{"venue_id":1,"event_date":"2025-03-01","session":"day","guests":50,"amount":1500}`)
	if code != http.StatusCreated || !resp.Success {
		t.Fatalf("day booking should succeed, got %d %+v", code, resp)
	}
	if resp.Booking.TotalAmount != 1500 {
		t.Errorf("day total should be 1500, got %d", resp.Booking.TotalAmount)
	}

	code, resp = postBooking(t, h, 9, `{"venue_id":1,"event_date":"2025-03-01","session":"day","guests":30,"amount":1500}`)
	if code != http.StatusConflict {
		t.Fatalf("second day booking should conflict, got %d", code)
	}
	if resp.Message != "Booking failed. The selected session is unavailable." {
		t.Errorf("unexpected conflict message %q", resp.Message)
	}

	code, resp = postBooking(t, h, 9, `{"venue_id":1,"event_date":"2025-03-01","session":"night","guests":30,"amount":1800}`)
	if code != http.StatusCreated || !resp.Success {
		t.Fatalf("night booking should succeed, got %d %+v", code, resp)
	}
	if resp.Booking.TotalAmount != 1800 {
		t.Errorf("night total should be 1800, got %d", resp.Booking.TotalAmount)
	}
	if len(store.bookings) != 2 {
		t.Errorf("expected 2 persisted bookings, got %d", len(store.bookings))
	}
}

func TestCreateBookingVenueNotFound(t *testing.T) {
	store := &fakeBookingStore{}
	h := newBookingHandler(store) // no venues at all

	code, resp := postBooking(t, h, 7, `{"venue_id":42,"event_date":"2025-03-01","session":"day","guests":50,"amount":1500}`)
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if resp.Success {
		t.Error("expected success=false")
	}
}

func TestCreateBookingUnpublishedVenueNotBookable(t *testing.T) {
	v := publishedHall(1, "Grand Palace", 1500, 1800)
	v.Status = model.VenuePending
	store := &fakeBookingStore{}
	h := newBookingHandler(store, v)

	code, _ := postBooking(t, h, 7, `{"venue_id":1,"event_date":"2025-03-01","session":"day","guests":50,"amount":1500}`)
	if code != http.StatusNotFound {
		t.Fatalf("pending venue should read as missing, got %d", code)
	}
	if len(store.bookings) != 0 {
		t.Errorf("nothing should be persisted, got %d", len(store.bookings))
	}
}

func TestCreateBookingSessionNotOffered(t *testing.T) {
	store := &fakeBookingStore{}
	h := newBookingHandler(store, publishedHall(1, "Grand Palace", 1500, 1800))

	// A hall does not price 12hr slots.
	code, resp := postBooking(t, h, 7, `{"venue_id":1,"event_date":"2025-03-01","session":"12hr","guests":50,"amount":1500}`)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if len(resp.Errors["session"]) == 0 {
		t.Errorf("expected a session field error, got %v", resp.Errors)
	}
	if len(store.bookings) != 0 {
		t.Errorf("nothing should be persisted, got %d", len(store.bookings))
	}
}

func TestListMyBookingsScopedToCaller(t *testing.T) {
	store := &fakeBookingStore{}
	h := newBookingHandler(store, publishedHall(1, "Grand Palace", 1500, 1800))

	postBooking(t, h, 7, `{"venue_id":1,"event_date":"2025-03-01","session":"day","guests":50,"amount":1500}`)
	postBooking(t, h, 9, `{"venue_id":1,"event_date":"2025-03-02","session":"day","guests":20,"amount":1500}`)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/my-bookings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(7))
	if err := h.ListMyBookings(c); err != nil {
		t.Fatalf("ListMyBookings: %v", err)
	}
	var out struct {
		Bookings []model.Booking `json:"bookings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Bookings) != 1 || out.Bookings[0].CustomerID != 7 {
		t.Errorf("expected only caller's bookings, got %+v", out.Bookings)
	}
}

func TestGetBookingForeignReadsAsMissing(t *testing.T) {
	store := &fakeBookingStore{}
	h := newBookingHandler(store, publishedHall(1, "Grand Palace", 1500, 1800))
	postBooking(t, h, 7, `{"venue_id":1,"event_date":"2025-03-01","session":"day","guests":50,"amount":1500}`)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/bookings/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("user_id", uint64(9)) // not the owner of the booking
	if err := h.GetBooking(c); err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("foreign booking must read as missing, got %d", rec.Code)
	}
}

func TestCreateBookingPublishFailureDoesNotFailRequest(t *testing.T) {
	store := &fakeBookingStore{}
	h := newBookingHandler(store, publishedHall(1, "Grand Palace", 1500, 1800))
	h.Publish = func(_ context.Context, _ queue.BookingEvent) error {
		return context.DeadlineExceeded
	}

	code, resp := postBooking(t, h, 7, `{"venue_id":1,"event_date":"2025-03-01","session":"day","guests":50,"amount":1500}`)
	if code != http.StatusCreated || !resp.Success {
		t.Fatalf("publish failure must not fail the booking, got %d %+v", code, resp)
	}
	if len(store.bookings) != 1 {
		t.Errorf("booking should be persisted, got %d", len(store.bookings))
	}
}
