package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/bookmyvenue/venue-booking/internal/model"
	"github.com/bookmyvenue/venue-booking/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")
var ErrPhoneExists = errors.New("phone already exists")

const userColumns = "id,email,phone,display_name,password_hash,role,is_active,created_at,updated_at"

// Create inserts a user and returns its ID.  The phone number is
// optional; when present it must be unique so that phone login stays
// unambiguous.
func (r *UserRepo) Create(ctx context.Context, email, password, name, role string, phone *string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, phone, display_name, password_hash, role) VALUES (?,?,?,?,?)",
		email, phone, name, hash, role)
	if err != nil {
		// 1062 = duplicate key; disambiguate by which unique index tripped
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			if strings.Contains(strings.ToLower(err.Error()), "phone") {
				return 0, ErrPhoneExists
			}
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByPhone fetches a user by phone number.  Used by login when the
// identifier does not look like an email address.
func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE phone=? LIMIT 1", strings.TrimSpace(phone))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// DisplayName returns the display name for a user id.  The admission
// flow uses it to denormalize the customer name onto new bookings.
func (r *UserRepo) DisplayName(ctx context.Context, id uint64) (string, error) {
	var name string
	err := r.DB.QueryRowContext(ctx,
		"SELECT display_name FROM users WHERE id=? LIMIT 1", id).Scan(&name)
	return name, err
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg interface{}) (model.User, error) {
	var u model.User
	var phone sql.NullString
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &phone, &u.DisplayName, &u.PasswordHash,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return u, err
	}
	if phone.Valid {
		p := phone.String
		u.Phone = &p
	}
	return u, nil
}
