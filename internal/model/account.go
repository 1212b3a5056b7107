package model

import "time"

// Account represents an authenticated account as stored in the
// `accounts` table. The address is the protocol-level identity used by
// the attendance core; the password hash only guards the HTTP session.
// Json tags are omitted because these structs are used internally by the
// repository layer; handlers define their own response types.
//
// Fields:
//
//	ID           – primary key identifier.
//	Address      – unique account address (protocol identity).
//	PasswordHash – bcrypt hashed password.
//	IsActive     – whether the account is active.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type Account struct {
	ID           uint64    // accounts.id
	Address      string    // accounts.address
	PasswordHash string    // accounts.password_hash
	IsActive     bool      // accounts.is_active
	CreatedAt    time.Time // accounts.created_at
	UpdatedAt    time.Time // accounts.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to an account; only the SHA-256 hash of the
// token value is stored.
//
// Fields:
//
//	ID        – primary key identifier.
//	AccountID – owner of the token.
//	TokenHash – SHA-256 hex digest of the token value.
//	ExpiresAt – expiration timestamp.
//	RevokedAt – when the token was revoked (null if still active).
//	CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	AccountID uint64     // refresh_tokens.account_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
