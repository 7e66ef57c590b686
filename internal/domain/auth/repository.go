package auth

import (
	"context"
	"time"
)

// AccountRepository defines account storage operations.
type AccountRepository interface {
	// Create inserts an account. Returns Duplicate when email or phone is taken.
	Create(ctx context.Context, account *Account) error

	// GetByID retrieves account by ID.
	GetByID(ctx context.Context, accountID int64) (*Account, error)

	// GetByEmail retrieves account by (lower-cased) email.
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// GetByPhone retrieves account by E.164 phone number.
	GetByPhone(ctx context.Context, phone string) (*Account, error)

	// Update stores name, email, phone, password hash and role.
	Update(ctx context.Context, account *Account) error

	// Delete removes an account.
	Delete(ctx context.Context, accountID int64) error

	// List retrieves accounts ordered by id.
	List(ctx context.Context, filter AccountFilter) ([]Account, error)

	// HasDependents reports whether supply requests or journal rows reference the account.
	HasDependents(ctx context.Context, accountID int64) (bool, error)
}

// TokenRepository stores refresh tokens.
type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, token *RefreshToken) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenID int64) error
	RevokeAllAccountTokens(ctx context.Context, accountID int64) error
}

// TokenRevoker blacklists access tokens until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
