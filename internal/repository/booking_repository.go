// This file defines the booking repository.  Bookings are the admission
// records of the marketplace: one row per requested (venue, date, session)
// slot.  The slot invariant — no two non-Rejected bookings for the same
// slot — is enforced here with a conditional insert so that the conflict
// check and the write are a single statement with no window between them.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bookmyvenue/venue-booking/internal/model"
)

// BookingRepo provides persistence for bookings.  All timestamp fields
// are stored in UTC; event_date is a DATE column at calendar-day
// granularity.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, reference, venue_id, customer_id, event_date, session, guests,
	message, menu_preference, total_amount, status, venue_name, customer_name,
	created_at, updated_at`

// CreateIfSlotFree inserts a new Pending booking provided no other
// non-Rejected booking holds the same (venue, event date, session)
// slot.  The existence check and the insert are one statement, so two
// concurrent submissions for the same slot cannot both succeed.  When
// the slot is taken, ErrSlotUnavailable is returned and nothing is
// persisted.  On success the ID and timestamps are populated on the
// passed model.
func (r *BookingRepo) CreateIfSlotFree(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings
			   (reference, venue_id, customer_id, event_date, session, guests,
				message, menu_preference, total_amount, status, venue_name, customer_name)
			   SELECT ?,?,?,?,?,?,?,?,?,?,?,?
			   FROM DUAL
			   WHERE NOT EXISTS (
				   SELECT 1 FROM bookings
				   WHERE venue_id = ? AND event_date = ? AND session = ? AND status <> ?
			   )`
	res, err := r.db.ExecContext(ctx, q,
		b.Reference, b.VenueID, b.CustomerID, b.EventDate, b.Session, b.Guests,
		b.Message, b.MenuPreference, b.TotalAmount, model.BookingPending,
		b.VenueName, b.CustomerName,
		b.VenueID, b.EventDate, b.Session, model.BookingRejected)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSlotUnavailable
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	b.Status = model.BookingPending

	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

// ListByCustomer returns all bookings created by the given user, newest
// first.  When none exist an empty slice is returned.
func (r *BookingRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE customer_id = ? ORDER BY created_at DESC`
	return r.queryMany(ctx, q, customerID)
}

// GetByIDForCustomer returns a single booking provided it belongs to
// the given user.  Ownership is enforced in the query, so a foreign
// booking reads the same as a missing one (ErrBookingNotFound).
func (r *BookingRepo) GetByIDForCustomer(ctx context.Context, bookingID, customerID uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? AND customer_id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, bookingID, customerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetByID returns a booking without an ownership predicate.  Callers
// must have verified access already; the review flow uses it to build
// the lifecycle event after a transition.
func (r *BookingRepo) GetByID(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, bookingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// ListForOwner returns bookings across all venues belonging to the
// given owner, newest first.
func (r *BookingRepo) ListForOwner(ctx context.Context, ownerID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + prefixedBookingColumns + `
			   FROM bookings b
			   JOIN venues v ON v.id = b.venue_id
			   WHERE v.owner_id = ?
			   ORDER BY b.created_at DESC`
	return r.queryMany(ctx, q, ownerID)
}

const prefixedBookingColumns = `b.id, b.reference, b.venue_id, b.customer_id, b.event_date, b.session,
	b.guests, b.message, b.menu_preference, b.total_amount, b.status, b.venue_name, b.customer_name,
	b.created_at, b.updated_at`

// TransitionForOwner moves a booking from Pending to the target status
// on behalf of the venue owner.  It verifies that the booking exists
// and that the caller owns the venue (ErrBookingNotFound /
// ErrForbidden), then applies a guarded update that only succeeds while
// the stored status is still Pending.  A booking already in a terminal
// state yields ErrConflict; the update is never a blind overwrite.
func (r *BookingRepo) TransitionForOwner(ctx context.Context, bookingID, ownerID uint64, to string) error {
	const checkQ = `SELECT v.owner_id
					FROM bookings b
					JOIN venues v ON v.id = b.venue_id
					WHERE b.id = ?`
	var actualOwnerID uint64
	if err := r.db.QueryRowContext(ctx, checkQ, bookingID).Scan(&actualOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return err
	}
	if actualOwnerID != ownerID {
		return ErrForbidden
	}
	const q = `UPDATE bookings SET status = ?, updated_at = CURRENT_TIMESTAMP
			   WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, to, bookingID, model.BookingPending)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

func (r *BookingRepo) queryMany(ctx context.Context, query string, args ...interface{}) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanBooking(s scanner) (*model.Booking, error) {
	var b model.Booking
	var eventDate time.Time
	var message, menuPref sql.NullString
	if err := s.Scan(
		&b.ID, &b.Reference, &b.VenueID, &b.CustomerID, &eventDate, &b.Session,
		&b.Guests, &message, &menuPref, &b.TotalAmount, &b.Status,
		&b.VenueName, &b.CustomerName, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.EventDate = eventDate.Format("2006-01-02")
	if message.Valid {
		m := message.String
		b.Message = &m
	}
	if menuPref.Valid {
		m := menuPref.String
		b.MenuPreference = &m
	}
	return &b, nil
}
