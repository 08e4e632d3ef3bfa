package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookmyvenue/venue-booking/internal/model"
	"github.com/bookmyvenue/venue-booking/internal/repository"
)

// VenueStore is the persistence surface the owner venue endpoints need.
type VenueStore interface {
	Create(ctx context.Context, v *model.Venue) error
	Update(ctx context.Context, ownerID uint64, v *model.Venue) error
	ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Venue, error)
	GetByID(ctx context.Context, id uint64) (*model.Venue, error)
}

// VenueHandler serves the owner-facing venue management endpoints.
type VenueHandler struct {
	Venues VenueStore
}

func NewVenueHandler(v VenueStore) *VenueHandler { return &VenueHandler{Venues: v} }

type venueReq struct {
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Location    string             `json:"location"`
	Description string             `json:"description"`
	Capacity    int64              `json:"capacity"`
	PriceDay    *uint32            `json:"price_day"`
	PriceNight  *uint32            `json:"price_night"`
	Price12hr   *uint32            `json:"price_12hr"`
	Price24hr   *uint32            `json:"price_24hr"`
	Rules       string             `json:"rules"`
	Images      []model.VenueImage `json:"images"`
	VideoURL    string             `json:"video_url"`
	Amenities   []string           `json:"amenities"`
	MenuOptions []string           `json:"menu_options"`
}

// validate checks the venue payload and returns per-field error lists.
// The price variants must match the venue type: farmhouses rent in
// 12/24 hour slots, halls in day/night events.
func (req *venueReq) validate() map[string][]string {
	errs := map[string][]string{}
	if strings.TrimSpace(req.Name) == "" {
		errs["name"] = append(errs["name"], "Venue name is required.")
	}
	switch req.Type {
	case model.VenueFarmhouse, model.VenueFunctionHall, model.VenueBanquetHall, model.VenueOther:
	case "":
		errs["type"] = append(errs["type"], "Venue type is required.")
	default:
		errs["type"] = append(errs["type"], "Unknown venue type.")
	}
	if strings.TrimSpace(req.Location) == "" {
		errs["location"] = append(errs["location"], "Location is required.")
	}
	if strings.TrimSpace(req.Description) == "" {
		errs["description"] = append(errs["description"], "Description is required.")
	}
	if req.Capacity < 1 {
		errs["capacity"] = append(errs["capacity"], "Capacity must be at least 1.")
	}
	if len(req.Images) == 0 {
		errs["images"] = append(errs["images"], "At least one image is required.")
	}
	switch req.Type {
	case model.VenueFarmhouse:
		if !positive(req.Price12hr) || !positive(req.Price24hr) {
			errs["price_day"] = append(errs["price_day"], "Please fill in the prices for the selected venue type.")
		}
	case model.VenueFunctionHall, model.VenueBanquetHall:
		if !positive(req.PriceDay) || !positive(req.PriceNight) {
			errs["price_day"] = append(errs["price_day"], "Please fill in the prices for the selected venue type.")
		}
	}
	return errs
}

func positive(p *uint32) bool { return p != nil && *p > 0 }

// toModel builds a Venue from the payload.  Price variants that do not
// apply to the type are dropped so a hall can never carry farmhouse
// slot prices and vice versa.
func (req *venueReq) toModel() *model.Venue {
	v := &model.Venue{
		Name:        strings.TrimSpace(req.Name),
		Type:        req.Type,
		Location:    strings.TrimSpace(req.Location),
		Description: strings.TrimSpace(req.Description),
		Capacity:    uint32(req.Capacity),
		Rules:       strings.TrimSpace(req.Rules),
		Images:      req.Images,
		VideoURL:    strings.TrimSpace(req.VideoURL),
		Amenities:   req.Amenities,
		MenuOptions: req.MenuOptions,
	}
	switch req.Type {
	case model.VenueFarmhouse:
		v.Price12hr = req.Price12hr
		v.Price24hr = req.Price24hr
	case model.VenueFunctionHall, model.VenueBanquetHall:
		v.PriceDay = req.PriceDay
		v.PriceNight = req.PriceNight
	default:
		v.PriceDay = req.PriceDay
		v.PriceNight = req.PriceNight
		v.Price12hr = req.Price12hr
		v.Price24hr = req.Price24hr
	}
	return v
}

// CreateVenue creates a new venue listing for the caller.  The listing
// always starts Pending regardless of the payload; it becomes visible
// only after admin review.
func (h *VenueHandler) CreateVenue(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req venueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := req.validate(); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	v := req.toModel()
	v.OwnerID = ownerID

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Venues.Create(ctx, v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create venue failed"})
	}
	return c.JSON(http.StatusCreated, v)
}

// UpdateVenue rewrites an existing venue owned by the caller.  The
// lifecycle status is not editable here; edits keep whatever state the
// venue is in.
func (h *VenueHandler) UpdateVenue(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	venueID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	var req venueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := req.validate(); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	v := req.toModel()
	v.ID = venueID
	v.OwnerID = ownerID

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Venues.Update(ctx, ownerID, v); err != nil {
		switch {
		case errors.Is(err, repository.ErrVenueNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your venue"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update venue failed"})
		}
	}

	// Re-read so the response carries current status and timestamps.
	out, err := h.Venues.GetByID(ctx, venueID)
	if err != nil {
		return c.JSON(http.StatusOK, v)
	}
	return c.JSON(http.StatusOK, out)
}

// ListMyVenues returns all of the caller's venues regardless of status.
func (h *VenueHandler) ListMyVenues(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Venues.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"venues": items})
}
