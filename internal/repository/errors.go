// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver-specific errors.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a guarded status transition finds the
// row no longer in the expected prior state, e.g. approving a booking
// that has already been rejected.  Handlers should translate this into
// an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrSlotUnavailable is returned by the booking conditional insert when
// a non-Rejected booking already holds the same (venue, date, session)
// slot.  Nothing is persisted in that case.
var ErrSlotUnavailable = errors.New("slot unavailable")

// ErrVenueNotFound is returned when a venue cannot be found.
var ErrVenueNotFound = errors.New("venue not found")

// ErrBookingNotFound is returned when a booking cannot be found.
var ErrBookingNotFound = errors.New("booking not found")
