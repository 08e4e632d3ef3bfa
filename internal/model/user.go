package model

import "time"

// Role names stored on the users table.  The role is assigned at
// signup and never changes afterwards.  ADMIN is granted only when
// the registration email matches the configured admin address.
const (
	RoleCustomer = "CUSTOMER"
	RoleOwner    = "OWNER"
	RoleAdmin    = "ADMIN"
)

// User represents an application account as stored in the `users`
// table.  Customers request bookings, owners register venues and an
// admin reviews pending venue listings.  Login is accepted by email
// or by phone number, so the phone column carries a unique index
// when present.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  Phone        – optional phone number (nullable, unique when set).
//  DisplayName  – human-friendly name shown on bookings.
//  PasswordHash – bcrypt hashed password.
//  Role         – CUSTOMER, OWNER or ADMIN.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	Phone        *string   // users.phone (nullable)
	DisplayName  string    // users.display_name
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is never stored; only its
// SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
