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
	"github.com/bookmyvenue/venue-booking/internal/repository"
)

type fakeVenueReviewStore struct {
	venues map[uint64]*model.Venue
}

func (f *fakeVenueReviewStore) ListPending(_ context.Context) ([]*model.Venue, error) {
	out := make([]*model.Venue, 0)
	for _, v := range f.venues {
		if v.Status == model.VenuePending {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVenueReviewStore) UpdateStatusFrom(_ context.Context, id uint64, from, to string) error {
	v, ok := f.venues[id]
	if !ok {
		return repository.ErrVenueNotFound
	}
	if v.Status != from {
		return repository.ErrConflict
	}
	v.Status = to
	return nil
}

func (f *fakeVenueReviewStore) GetByID(_ context.Context, id uint64) (*model.Venue, error) {
	v, ok := f.venues[id]
	if !ok {
		return nil, repository.ErrVenueNotFound
	}
	cp := *v
	return &cp, nil
}

func newReviewStore() *fakeVenueReviewStore {
	v := publishedHall(1, "Grand Palace", 1500, 1800)
	v.Status = model.VenuePending
	return &fakeVenueReviewStore{venues: map[uint64]*model.Venue{1: v}}
}

func patchVenueStatus(t *testing.T, h *AdminHandler, venueID, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/v1/admin/venues/"+venueID+"/status", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(venueID)
	if err := h.TransitionVenue(c); err != nil {
		t.Fatalf("TransitionVenue returned error: %v", err)
	}
	return rec
}

func TestTransitionVenuePublish(t *testing.T) {
	store := newReviewStore()
	h := NewAdminHandler(store)

	rec := patchVenueStatus(t, h, "1", `{"status":"Published"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if store.venues[1].Status != model.VenuePublished {
		t.Errorf("expected Published, got %q", store.venues[1].Status)
	}
}

func TestTransitionVenueTwiceConflicts(t *testing.T) {
	store := newReviewStore()
	h := NewAdminHandler(store)

	if rec := patchVenueStatus(t, h, "1", `{"status":"Rejected"}`); rec.Code != http.StatusOK {
		t.Fatalf("first decision should succeed, got %d", rec.Code)
	}
	rec := patchVenueStatus(t, h, "1", `{"status":"Published"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second decision must be 409, got %d", rec.Code)
	}
	if store.venues[1].Status != model.VenueRejected {
		t.Errorf("first decision must stand, got %q", store.venues[1].Status)
	}
}

func TestTransitionVenueNotFound(t *testing.T) {
	h := NewAdminHandler(newReviewStore())
	rec := patchVenueStatus(t, h, "42", `{"status":"Published"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTransitionVenueInvalidTarget(t *testing.T) {
	store := newReviewStore()
	h := NewAdminHandler(store)

	for _, status := range []string{"Pending", "Approved", ""} {
		rec := patchVenueStatus(t, h, "1", `{"status":"`+status+`"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %q: expected 400, got %d", status, rec.Code)
		}
	}
	if store.venues[1].Status != model.VenuePending {
		t.Errorf("status must be untouched, got %q", store.venues[1].Status)
	}
}

func TestListPendingVenues(t *testing.T) {
	store := newReviewStore()
	store.venues[2] = publishedHall(2, "Open Hall", 1000, 1200) // already Published
	h := NewAdminHandler(store)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/venues", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.ListPendingVenues(c); err != nil {
		t.Fatalf("ListPendingVenues: %v", err)
	}
	var out struct {
		Venues []model.Venue `json:"venues"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Venues) != 1 || out.Venues[0].ID != 1 {
		t.Errorf("expected only the pending venue, got %+v", out.Venues)
	}
}
