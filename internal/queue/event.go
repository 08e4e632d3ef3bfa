// Package queue defines message payloads exchanged over the message broker.
package queue

// Booking event kinds.  One event is published when a booking is
// admitted and one for each review decision.
const (
	BookingRequested = "requested"
	BookingApproved  = "approved"
	BookingRejected  = "rejected"
)

// BookingEvent is published on every booking lifecycle change.  It
// carries enough information for downstream consumers to log, notify or
// feed analytics without querying the primary database.
type BookingEvent struct {
	Kind         string `json:"kind"`
	BookingID    uint64 `json:"booking_id"`
	Reference    string `json:"reference"`
	VenueID      uint64 `json:"venue_id"`
	VenueName    string `json:"venue_name"`
	CustomerID   uint64 `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	EventDate    string `json:"event_date"`
	Session      string `json:"session"`
	Guests       uint32 `json:"guests"`
	TotalAmount  uint32 `json:"total_amount"`
	OccurredAt   string `json:"occurred_at"`
}
