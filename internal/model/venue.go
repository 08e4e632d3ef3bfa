package model

import "time"

// Venue lifecycle states.  Every venue starts Pending and is moved to
// Published or Rejected by the admin review flow.  Both end states are
// terminal; there is no reopen path.
const (
	VenuePending   = "Pending"
	VenuePublished = "Published"
	VenueRejected  = "Rejected"
)

// Venue types.  The type determines which booking sessions a venue
// must price: farmhouses rent in 12/24 hour slots, halls rent in
// day/night events.
const (
	VenueFarmhouse    = "Farmhouse"
	VenueFunctionHall = "Function Hall"
	VenueBanquetHall  = "Banquet Hall"
	VenueOther        = "Other"
)

// Booking session tags.  Each tag maps to one price column on the
// venue; a session without a price cannot be booked.
const (
	SessionDay    = "day"
	SessionNight  = "night"
	Session12Hour = "12hr"
	Session24Hour = "24hr"
)

// VenueImage is one entry in a venue's ordered media list.  The hint
// is a short description used as alt text by clients.
type VenueImage struct {
	URL  string `json:"url"`  // venue_images.url
	Hint string `json:"hint"` // venue_images.hint
}

// Venue represents a bookable property listed by an owner.  It
// corresponds to a row in the `venues` table plus the dependent
// venue_images, venue_amenities and venue_menu_options rows.  At
// least one image is required before a venue may be created.
//
// Fields:
//  ID          – primary key identifier.
//  OwnerID     – user ID of the venue owner.
//  Name        – display name of the venue.
//  Type        – Farmhouse, Function Hall, Banquet Hall or Other.
//  Location    – free-text location string.
//  Description – free-text description.
//  Capacity    – maximum guest count (positive).
//  PriceDay    – price for a day event (halls; nullable).
//  PriceNight  – price for a night event (halls; nullable).
//  Price12hr   – price for a 12 hour slot (farmhouses; nullable).
//  Price24hr   – price for a 24 hour slot (farmhouses; nullable).
//  Rules       – free-text house rules.
//  Images      – ordered media references, at least one.
//  VideoURL    – optional walkthrough video URL.
//  Amenities   – amenity tag identifiers.
//  MenuOptions – menu-option tag identifiers.
//  Status      – Pending, Published or Rejected.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Venue struct {
	ID          uint64       `json:"id"`
	OwnerID     uint64       `json:"owner_id"`
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	Location    string       `json:"location"`
	Description string       `json:"description"`
	Capacity    uint32       `json:"capacity"`
	PriceDay    *uint32      `json:"price_day,omitempty"`
	PriceNight  *uint32      `json:"price_night,omitempty"`
	Price12hr   *uint32      `json:"price_12hr,omitempty"`
	Price24hr   *uint32      `json:"price_24hr,omitempty"`
	Rules       string       `json:"rules,omitempty"`
	Images      []VenueImage `json:"images"`
	VideoURL    string       `json:"video_url,omitempty"`
	Amenities   []string     `json:"amenities"`
	MenuOptions []string     `json:"menu_options"`
	Status      string       `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// SessionPrice returns the venue's price for the given session tag
// and whether that session is offered at all.  A session is offered
// only when its price column is set.
func (v *Venue) SessionPrice(session string) (uint32, bool) {
	var p *uint32
	switch session {
	case SessionDay:
		p = v.PriceDay
	case SessionNight:
		p = v.PriceNight
	case Session12Hour:
		p = v.Price12hr
	case Session24Hour:
		p = v.Price24hr
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Sessions lists the session tags this venue offers, in a fixed
// order, derived from which price columns are set.
func (v *Venue) Sessions() []string {
	out := make([]string, 0, 4)
	for _, s := range []string{SessionDay, SessionNight, Session12Hour, Session24Hour} {
		if _, ok := v.SessionPrice(s); ok {
			out = append(out, s)
		}
	}
	return out
}
