package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookmyvenue/venue-booking/internal/model"
	"github.com/bookmyvenue/venue-booking/internal/repository"
)

// VenueReviewStore is the persistence surface the admin review
// endpoints need.
type VenueReviewStore interface {
	ListPending(ctx context.Context) ([]*model.Venue, error)
	UpdateStatusFrom(ctx context.Context, id uint64, from, to string) error
	GetByID(ctx context.Context, id uint64) (*model.Venue, error)
}

// AdminHandler serves the admin listing-review endpoints.
type AdminHandler struct {
	Venues VenueReviewStore
}

func NewAdminHandler(v VenueReviewStore) *AdminHandler { return &AdminHandler{Venues: v} }

// ListPendingVenues returns the review queue, oldest submission first.
func (h *AdminHandler) ListPendingVenues(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Venues.ListPending(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"venues": items})
}

// TransitionVenue moves a Pending venue to Published or Rejected.  A
// venue that already left Pending is a 409; a second review decision
// never overwrites the first.
func (h *AdminHandler) TransitionVenue(c echo.Context) error {
	venueID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	var req transitionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status != model.VenuePublished && req.Status != model.VenueRejected {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be Published or Rejected"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Venues.UpdateStatusFrom(ctx, venueID, model.VenuePending, req.Status); err != nil {
		switch {
		case errors.Is(err, repository.ErrVenueNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "venue is not pending"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}

	v, err := h.Venues.GetByID(ctx, venueID)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"id": venueID, "status": req.Status})
	}
	return c.JSON(http.StatusOK, v)
}
