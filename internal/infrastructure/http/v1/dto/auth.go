package dto

import (
	"time"

	"inventrack/internal/core/entity"
	"inventrack/internal/domain/auth"
)

// --- Request DTOs ---

// SignupRequest for public registration.
type SignupRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,max=72"`
	Role        string `json:"role" binding:"omitempty,oneof=Admin User Clerk"`
	PhoneNumber string `json:"phoneNumber"`
}

// ToAuthRequest converts to domain request.
func (r *SignupRequest) ToAuthRequest() auth.SignupRequest {
	return auth.SignupRequest{
		Name:        r.Name,
		Email:       r.Email,
		Password:    r.Password,
		Role:        r.Role,
		PhoneNumber: r.PhoneNumber,
	}
}

// ClerkRequest for admin-created clerk accounts.
type ClerkRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,max=72"`
	PhoneNumber string `json:"phoneNumber"`
}

// ToAuthRequest converts to domain request.
func (r *ClerkRequest) ToAuthRequest() auth.ClerkRequest {
	return auth.ClerkRequest{
		Name:        r.Name,
		Email:       r.Email,
		Password:    r.Password,
		PhoneNumber: r.PhoneNumber,
	}
}

// LoginRequest for account login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ToCredentials converts to domain credentials.
func (r *LoginRequest) ToCredentials() auth.Credentials {
	return auth.Credentials{Email: r.Email, Password: r.Password}
}

// RefreshTokenRequest for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AccountPatchRequest is a partial clerk update.
type AccountPatchRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email" binding:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber"`
	Password    *string `json:"password" binding:"omitempty,max=72"`
}

// ToPatch converts to domain patch.
func (r *AccountPatchRequest) ToPatch() auth.AccountPatch {
	return auth.AccountPatch{
		Name:        r.Name,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Password:    r.Password,
	}
}

// ChangeRoleRequest for PATCH /users/:id.
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=Admin Clerk User"`
}

// --- Response DTOs ---

// TokenResponse represents token pair response.
type TokenResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	TokenType    string    `json:"tokenType"`
}

// FromTokenPair creates response from domain token pair.
func FromTokenPair(tp *auth.TokenPair) *TokenResponse {
	return &TokenResponse{
		AccessToken:  tp.AccessToken,
		RefreshToken: tp.RefreshToken,
		ExpiresAt:    tp.ExpiresAt,
		TokenType:    tp.TokenType,
	}
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromAccount creates response from domain account.
func FromAccount(a *auth.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		PhoneNumber: a.PhoneNumber,
		Role:        string(a.Role),
		CreatedAt:   a.CreatedAt,
	}
}

// FromAccounts converts a slice of accounts.
func FromAccounts(accounts []auth.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, FromAccount(&accounts[i]))
	}
	return out
}

// LoginResponse is returned by login endpoints.
type LoginResponse struct {
	Tokens  *TokenResponse  `json:"tokens"`
	Account AccountResponse `json:"account"`
}

// SessionResponse describes the current access token.
type SessionResponse struct {
	AccountID int64     `json:"accountId"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ProfileResponse is the account with its activity history.
type ProfileResponse struct {
	Account      AccountResponse      `json:"account"`
	Transactions []entity.Transaction `json:"transactions"`
}
