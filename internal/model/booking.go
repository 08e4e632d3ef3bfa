package model

import "time"

// Booking lifecycle states.  A booking is created Pending and is
// moved to Approved or Rejected by the venue owner.  Both end states
// are terminal.  A Pending booking already holds its slot: the
// admission check treats any non-Rejected booking as blocking.
const (
	BookingPending  = "Pending"
	BookingApproved = "Approved"
	BookingRejected = "Rejected"
)

// Booking records a customer's request for one venue, date and
// session.  It corresponds to a row in the `bookings` table.  The
// venue and customer names are denormalized convenience copies taken
// at submission time so that list views need no joins.
//
// Fields:
//  ID             – primary key identifier.
//  Reference      – opaque client-facing reference code.
//  VenueID        – venue being booked.
//  CustomerID     – user who requested the booking.
//  EventDate      – requested calendar day (YYYY-MM-DD).
//  Session        – session tag, one of the venue's priced sessions.
//  Guests         – number of guests (positive).
//  Message        – optional free-text message to the owner.
//  MenuPreference – optional menu-option tag.
//  TotalAmount    – venue's price for the session at submission time.
//  Status         – Pending, Approved or Rejected.
//  VenueName      – denormalized venue name.
//  CustomerName   – denormalized customer display name.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Booking struct {
	ID             uint64    `json:"id"`
	Reference      string    `json:"reference"`
	VenueID        uint64    `json:"venue_id"`
	CustomerID     uint64    `json:"customer_id"`
	EventDate      string    `json:"event_date"`
	Session        string    `json:"session"`
	Guests         uint32    `json:"guests"`
	Message        *string   `json:"message,omitempty"`
	MenuPreference *string   `json:"menu_preference,omitempty"`
	TotalAmount    uint32    `json:"total_amount"`
	Status         string    `json:"status"`
	VenueName      string    `json:"venue_name"`
	CustomerName   string    `json:"customer_name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
