// Package repository contains data access logic separated from HTTP handlers.
// This file defines repository methods for venues.  A venue row carries the
// scalar listing fields; its ordered image list and amenity/menu tag sets
// live in dependent tables and are written together with the venue inside
// one transaction.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/bookmyvenue/venue-booking/internal/model"
)

// VenueRepo encapsulates all database queries related to venues.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the provided DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

const venueColumns = `id, owner_id, name, type, location, description, capacity,
	price_day, price_night, price_12hr, price_24hr, rules, video_url, status,
	created_at, updated_at`

// Create inserts a new venue with its images and tag sets in a single
// transaction.  The venue always starts in Pending status regardless of
// what the caller set.  On success the ID and timestamp fields are
// populated on the passed model.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO venues
			   (owner_id, name, type, location, description, capacity,
				price_day, price_night, price_12hr, price_24hr, rules, video_url, status)
			   VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q,
		v.OwnerID, v.Name, v.Type, v.Location, v.Description, v.Capacity,
		v.PriceDay, v.PriceNight, v.Price12hr, v.Price24hr, v.Rules, v.VideoURL,
		model.VenuePending)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	v.Status = model.VenuePending

	if err := r.writeMediaTx(ctx, tx, v); err != nil {
		return err
	}

	// Query back timestamps so callers receive a fully populated record.
	const sel = `SELECT created_at, updated_at FROM venues WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, v.ID).Scan(&v.CreatedAt, &v.UpdatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// writeMediaTx inserts the venue's images, amenities and menu options.
// Callers must have deleted any previous rows first when updating.
func (r *VenueRepo) writeMediaTx(ctx context.Context, tx *sql.Tx, v *model.Venue) error {
	if len(v.Images) > 0 {
		q := `INSERT INTO venue_images (venue_id, position, url, hint) VALUES `
		args := make([]interface{}, 0, len(v.Images)*4)
		for i, img := range v.Images {
			if i > 0 {
				q += ","
			}
			q += "(?,?,?,?)"
			args = append(args, v.ID, i, img.URL, img.Hint)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	for table, tags := range map[string][]string{
		"venue_amenities":    v.Amenities,
		"venue_menu_options": v.MenuOptions,
	} {
		if len(tags) == 0 {
			continue
		}
		q := `INSERT INTO ` + table + ` (venue_id, tag) VALUES `
		args := make([]interface{}, 0, len(tags)*2)
		for i, tag := range tags {
			if i > 0 {
				q += ","
			}
			q += "(?,?)"
			args = append(args, v.ID, tag)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

// GetByID fetches a venue with its images and tag sets.  It returns
// ErrVenueNotFound when no row exists.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	const q = `SELECT ` + venueColumns + ` FROM venues WHERE id = ?`
	v, err := scanVenue(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	if err := r.loadMedia(ctx, map[uint64]*model.Venue{v.ID: v}); err != nil {
		return nil, err
	}
	return v, nil
}

// ListPublished returns all venues visible to the public browse flow,
// newest first, with images and tags populated.
func (r *VenueRepo) ListPublished(ctx context.Context) ([]*model.Venue, error) {
	return r.list(ctx, `SELECT `+venueColumns+` FROM venues WHERE status = ? ORDER BY created_at DESC`, model.VenuePublished)
}

// ListByOwner returns all venues belonging to an owner regardless of
// status, newest first.
func (r *VenueRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Venue, error) {
	return r.list(ctx, `SELECT `+venueColumns+` FROM venues WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
}

// ListPending returns venues awaiting admin review, oldest first so the
// review queue is worked in submission order.
func (r *VenueRepo) ListPending(ctx context.Context) ([]*model.Venue, error) {
	return r.list(ctx, `SELECT `+venueColumns+` FROM venues WHERE status = ? ORDER BY created_at ASC`, model.VenuePending)
}

func (r *VenueRepo) list(ctx context.Context, query string, args ...interface{}) ([]*model.Venue, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	byID := make(map[uint64]*model.Venue)
	out := make([]*model.Venue, 0)
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		byID[v.ID] = v
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	if err := r.loadMedia(ctx, byID); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites a venue's listing fields, images and tags provided it
// belongs to the given owner.  Status is not touched here; edits keep
// whatever lifecycle state the venue is in.  Returns ErrVenueNotFound
// when the venue does not exist and ErrForbidden when it is owned by
// someone else.
func (r *VenueRepo) Update(ctx context.Context, ownerID uint64, v *model.Venue) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var dbOwnerID uint64
	if err := tx.QueryRowContext(ctx, `SELECT owner_id FROM venues WHERE id = ?`, v.ID).Scan(&dbOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVenueNotFound
		}
		return err
	}
	if dbOwnerID != ownerID {
		return ErrForbidden
	}

	const q = `UPDATE venues
			   SET name = ?, type = ?, location = ?, description = ?, capacity = ?,
				   price_day = ?, price_night = ?, price_12hr = ?, price_24hr = ?,
				   rules = ?, video_url = ?, updated_at = CURRENT_TIMESTAMP
			   WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q,
		v.Name, v.Type, v.Location, v.Description, v.Capacity,
		v.PriceDay, v.PriceNight, v.Price12hr, v.Price24hr,
		v.Rules, v.VideoURL, v.ID); err != nil {
		return err
	}
	for _, table := range []string{"venue_images", "venue_amenities", "venue_menu_options"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE venue_id = ?`, v.ID); err != nil {
			return err
		}
	}
	if err := r.writeMediaTx(ctx, tx, v); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// UpdateStatusFrom transitions a venue's status, but only when the
// stored status still equals the expected prior state.  When zero rows
// are affected the venue either does not exist (ErrVenueNotFound) or
// has already left the prior state (ErrConflict).  This guard keeps
// repeated review calls from silently overwriting a terminal state.
func (r *VenueRepo) UpdateStatusFrom(ctx context.Context, id uint64, from, to string) error {
	const q = `UPDATE venues SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, to, id, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM venues WHERE id = ?)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrVenueNotFound
	}
	return ErrConflict
}

// loadMedia populates Images, Amenities and MenuOptions for all venues
// in the map using one batched query per table.
func (r *VenueRepo) loadMedia(ctx context.Context, venues map[uint64]*model.Venue) error {
	ids := make([]interface{}, 0, len(venues))
	placeholders := make([]string, 0, len(venues))
	for id, v := range venues {
		ids = append(ids, id)
		placeholders = append(placeholders, "?")
		v.Images = []model.VenueImage{}
		v.Amenities = []string{}
		v.MenuOptions = []string{}
	}
	in := strings.Join(placeholders, ",")

	imgQ := `SELECT venue_id, url, hint FROM venue_images WHERE venue_id IN (` + in + `) ORDER BY venue_id, position`
	rows, err := r.db.QueryContext(ctx, imgQ, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var vid uint64
		var img model.VenueImage
		if err := rows.Scan(&vid, &img.URL, &img.Hint); err != nil {
			return err
		}
		if v, ok := venues[vid]; ok {
			v.Images = append(v.Images, img)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, t := range []struct {
		table  string
		append func(v *model.Venue, tag string)
	}{
		{"venue_amenities", func(v *model.Venue, tag string) { v.Amenities = append(v.Amenities, tag) }},
		{"venue_menu_options", func(v *model.Venue, tag string) { v.MenuOptions = append(v.MenuOptions, tag) }},
	} {
		tagQ := `SELECT venue_id, tag FROM ` + t.table + ` WHERE venue_id IN (` + in + `) ORDER BY venue_id, tag`
		trows, err := r.db.QueryContext(ctx, tagQ, ids...)
		if err != nil {
			return err
		}
		for trows.Next() {
			var vid uint64
			var tag string
			if err := trows.Scan(&vid, &tag); err != nil {
				trows.Close()
				return err
			}
			if v, ok := venues[vid]; ok {
				t.append(v, tag)
			}
		}
		if err := trows.Err(); err != nil {
			trows.Close()
			return err
		}
		trows.Close()
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanVenue.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanVenue(s scanner) (*model.Venue, error) {
	var v model.Venue
	var priceDay, priceNight, price12, price24 sql.NullInt64
	var rules, videoURL sql.NullString
	if err := s.Scan(
		&v.ID, &v.OwnerID, &v.Name, &v.Type, &v.Location, &v.Description, &v.Capacity,
		&priceDay, &priceNight, &price12, &price24, &rules, &videoURL, &v.Status,
		&v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		return nil, err
	}
	v.PriceDay = nullPrice(priceDay)
	v.PriceNight = nullPrice(priceNight)
	v.Price12hr = nullPrice(price12)
	v.Price24hr = nullPrice(price24)
	if rules.Valid {
		v.Rules = rules.String
	}
	if videoURL.Valid {
		v.VideoURL = videoURL.String
	}
	return &v, nil
}

func nullPrice(n sql.NullInt64) *uint32 {
	if !n.Valid {
		return nil
	}
	p := uint32(n.Int64)
	return &p
}
