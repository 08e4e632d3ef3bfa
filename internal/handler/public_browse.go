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

// VenueBrowseStore is the persistence surface the public browse
// endpoints need.
type VenueBrowseStore interface {
	ListPublished(ctx context.Context) ([]*model.Venue, error)
	GetByID(ctx context.Context, id uint64) (*model.Venue, error)
}

// BrowseHandler serves the anonymous venue browse endpoints.
type BrowseHandler struct {
	Venues VenueBrowseStore
}

func NewBrowseHandler(v VenueBrowseStore) *BrowseHandler { return &BrowseHandler{Venues: v} }

// ListVenues returns all published venues, newest first.  Responses
// are cached by the Redis response-cache middleware.
func (h *BrowseHandler) ListVenues(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Venues.ListPublished(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"venues": items})
}

// GetVenue returns one published venue with its bookable sessions.  An
// unpublished venue reads the same as a missing one.
func (h *BrowseHandler) GetVenue(c echo.Context) error {
	venueID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v, err := h.Venues.GetByID(ctx, venueID)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if v.Status != model.VenuePublished {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"venue": v, "sessions": v.Sessions()})
}
