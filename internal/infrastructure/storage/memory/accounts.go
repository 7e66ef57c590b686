package memory

import (
	"context"
	"strings"
	"time"

	"inventrack/internal/core/apperror"
	"inventrack/internal/domain/auth"
)

// AccountRepo implements auth.AccountRepository.
type AccountRepo struct {
	s *Store
}

var _ auth.AccountRepository = (*AccountRepo)(nil)

func checkUnique(d *data, a *auth.Account) error {
	for _, other := range d.accounts {
		if other.ID == a.ID {
			continue
		}
		if strings.EqualFold(other.Email, a.Email) {
			return apperror.NewDuplicate("account", "email", a.Email)
		}
		if a.PhoneNumber != nil && other.PhoneNumber != nil && *other.PhoneNumber == *a.PhoneNumber {
			return apperror.NewDuplicate("account", "phone_number", *a.PhoneNumber)
		}
	}
	return nil
}

// Create implements auth.AccountRepository.
func (r *AccountRepo) Create(ctx context.Context, a *auth.Account) error {
	return r.s.with(ctx, func(d *data) error {
		if err := checkUnique(d, a); err != nil {
			return err
		}
		a.ID = d.next("accounts")
		if a.CreatedAt.IsZero() {
			a.CreatedAt = time.Now().UTC()
		}
		d.accounts[a.ID] = *a
		return nil
	})
}

// GetByID implements auth.AccountRepository.
func (r *AccountRepo) GetByID(ctx context.Context, accountID int64) (*auth.Account, error) {
	var out *auth.Account
	err := r.s.with(ctx, func(d *data) error {
		a, ok := d.accounts[accountID]
		if !ok {
			return apperror.NewNotFound("account", accountID)
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *AccountRepo) find(ctx context.Context, match func(auth.Account) bool, key string) (*auth.Account, error) {
	var out *auth.Account
	err := r.s.with(ctx, func(d *data) error {
		for _, a := range sorted(d.accounts) {
			if match(a) {
				out = &a
				return nil
			}
		}
		return apperror.NewNotFound("account", key)
	})
	return out, err
}

// GetByEmail implements auth.AccountRepository.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*auth.Account, error) {
	return r.find(ctx, func(a auth.Account) bool { return strings.EqualFold(a.Email, email) }, email)
}

// GetByPhone implements auth.AccountRepository.
func (r *AccountRepo) GetByPhone(ctx context.Context, phone string) (*auth.Account, error) {
	return r.find(ctx, func(a auth.Account) bool {
		return a.PhoneNumber != nil && *a.PhoneNumber == phone
	}, phone)
}

// Update implements auth.AccountRepository.
func (r *AccountRepo) Update(ctx context.Context, a *auth.Account) error {
	return r.s.with(ctx, func(d *data) error {
		current, ok := d.accounts[a.ID]
		if !ok {
			return apperror.NewNotFound("account", a.ID)
		}
		if err := checkUnique(d, a); err != nil {
			return err
		}
		a.CreatedAt = current.CreatedAt
		d.accounts[a.ID] = *a
		return nil
	})
}

// Delete implements auth.AccountRepository.
func (r *AccountRepo) Delete(ctx context.Context, accountID int64) error {
	return r.s.with(ctx, func(d *data) error {
		if _, ok := d.accounts[accountID]; !ok {
			return apperror.NewNotFound("account", accountID)
		}
		delete(d.accounts, accountID)
		for id, t := range d.tokens {
			if t.AccountID == accountID {
				delete(d.tokens, id)
			}
		}
		for id, p := range d.payments {
			if p.AccountID != nil && *p.AccountID == accountID {
				p.AccountID = nil
				d.payments[id] = p
			}
		}
		return nil
	})
}

// List implements auth.AccountRepository.
func (r *AccountRepo) List(ctx context.Context, filter auth.AccountFilter) ([]auth.Account, error) {
	out := []auth.Account{}
	err := r.s.with(ctx, func(d *data) error {
		for _, a := range sorted(d.accounts) {
			if filter.Role != "" && a.Role != filter.Role {
				continue
			}
			out = append(out, a)
		}
		return nil
	})
	return out, err
}

// HasDependents implements auth.AccountRepository.
func (r *AccountRepo) HasDependents(ctx context.Context, accountID int64) (bool, error) {
	found := false
	err := r.s.with(ctx, func(d *data) error {
		for _, sr := range d.supply {
			if sr.ClerkID == accountID {
				found = true
				return nil
			}
		}
		for _, t := range d.transactions {
			if t.AccountID == accountID {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

// TokenRepo implements auth.TokenRepository.
type TokenRepo struct {
	s *Store
}

var _ auth.TokenRepository = (*TokenRepo)(nil)

// SaveRefreshToken implements auth.TokenRepository.
func (r *TokenRepo) SaveRefreshToken(ctx context.Context, t *auth.RefreshToken) error {
	return r.s.with(ctx, func(d *data) error {
		t.ID = d.next("refresh_tokens")
		d.tokens[t.ID] = *t
		return nil
	})
}

// GetRefreshToken implements auth.TokenRepository.
func (r *TokenRepo) GetRefreshToken(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	var out *auth.RefreshToken
	err := r.s.with(ctx, func(d *data) error {
		for _, t := range d.tokens {
			if t.TokenHash == tokenHash {
				out = &t
				return nil
			}
		}
		return apperror.NewNotFound("refresh token", "")
	})
	return out, err
}

// RevokeRefreshToken implements auth.TokenRepository.
func (r *TokenRepo) RevokeRefreshToken(ctx context.Context, tokenID int64) error {
	return r.s.with(ctx, func(d *data) error {
		t, ok := d.tokens[tokenID]
		if !ok {
			return apperror.NewNotFound("refresh token", tokenID)
		}
		now := time.Now()
		t.RevokedAt = &now
		d.tokens[tokenID] = t
		return nil
	})
}

// RevokeAllAccountTokens implements auth.TokenRepository.
func (r *TokenRepo) RevokeAllAccountTokens(ctx context.Context, accountID int64) error {
	return r.s.with(ctx, func(d *data) error {
		now := time.Now()
		for id, t := range d.tokens {
			if t.AccountID == accountID && t.RevokedAt == nil {
				t.RevokedAt = &now
				d.tokens[id] = t
			}
		}
		return nil
	})
}
