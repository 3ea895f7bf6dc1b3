package domain

import "time"

// Role controls access to the admin API.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is an account known to the identity provider.
type User struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier.
	ID string `json:"id"`

	// Email is stored lowercased and is unique across users.
	Email string `json:"email"`

	// ─────────────────────────────
	// Profile
	// ─────────────────────────────

	Name string `json:"name"`
	Role Role   `json:"role"`

	// ─────────────────────────────
	// Credentials & liveness
	// ─────────────────────────────

	// PasswordHash is the argon2id encoded hash. Never serialized to clients.
	PasswordHash string `json:"-"`

	// IsActive marks whether the account may log in. Admins can
	// deactivate accounts without deleting them.
	IsActive bool `json:"isActive"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	CreatedAt time.Time `json:"createdAt"`

	// LastLogin is updated on every successful login. Zero until then.
	LastLogin time.Time `json:"lastLogin,omitempty"`
}
