// Package auth provides accounts, authentication and session handling.
package auth

import (
	"net/mail"
	"strings"
	"time"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/security"
)

// Account is the single identity record. What an account may do is decided
// by its Role through security.Policy.
type Account struct {
	ID           int64         `db:"id" json:"id"`
	Name         string        `db:"name" json:"name"`
	Email        string        `db:"email" json:"email"`
	PhoneNumber  *string       `db:"phone_number" json:"phoneNumber,omitempty"`
	PasswordHash string        `db:"password_hash" json:"-"`
	Role         security.Role `db:"role" json:"role"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
}

// Validate validates account data.
func (a *Account) Validate() error {
	a.Name = strings.TrimSpace(a.Name)
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))

	if a.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if _, err := mail.ParseAddress(a.Email); err != nil {
		return apperror.NewValidation("email is invalid").WithDetail("field", "email")
	}
	if !a.Role.Valid() {
		return apperror.NewValidation("unknown role").WithDetail("field", "role")
	}
	return nil
}

// Actor returns the security view of the account.
func (a *Account) Actor() security.Actor {
	return security.Actor{AccountID: a.ID, Role: a.Role}
}

// RefreshToken represents a refresh token for JWT refresh.
// Only the SHA-256 hash is stored.
type RefreshToken struct {
	ID        int64      `db:"id"`
	AccountID int64      `db:"account_id"`
	TokenHash string     `db:"token_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	CreatedAt time.Time  `db:"created_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

// IsValid checks if refresh token is valid.
func (t *RefreshToken) IsValid() bool {
	if t.RevokedAt != nil {
		return false
	}
	return time.Now().Before(t.ExpiresAt)
}

// TokenPair contains access and refresh tokens.
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	TokenType    string    `json:"tokenType"`
}

// Credentials for login.
type Credentials struct {
	Email    string
	Password string
}

// SignupRequest carries public self-registration data.
type SignupRequest struct {
	Name        string
	Email       string
	Password    string
	Role        string // Admin or User; empty means User
	PhoneNumber string
}

// ClerkRequest carries admin-issued clerk account data.
type ClerkRequest struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
}

// AccountPatch is a partial account update. Nil fields are left unchanged.
type AccountPatch struct {
	Name        *string
	Email       *string
	PhoneNumber *string
	Password    *string
}

// AccountFilter narrows account listings.
type AccountFilter struct {
	Role security.Role
}
