package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"inventrack/internal/core/apperror"
	appctx "inventrack/internal/core/context"
	"inventrack/internal/core/security"
	"inventrack/internal/core/tx"
	"inventrack/internal/domain/notify"
	"inventrack/pkg/logger"
	"inventrack/pkg/phone"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	PasswordMinLength  int
	RefreshTokenExpiry time.Duration
	// AllowAdminSignup lets the public signup endpoint create Admin accounts.
	AllowAdminSignup bool
	// PhoneRegion is used to normalize phone numbers written without a country code.
	PhoneRegion string
	BcryptCost  int
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		PasswordMinLength:  8,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		PhoneRegion:        phone.DefaultRegion,
		BcryptCost:         bcrypt.DefaultCost,
	}
}

// Service provides account and session logic.
type Service struct {
	accounts   AccountRepository
	tokens     TokenRepository
	revoker    TokenRevoker
	txManager  tx.Manager
	jwtService *JWTService
	authz      security.Authorizer
	notifier   notify.Notifier
	config     ServiceConfig
}

// NewService creates a new auth service.
func NewService(
	accounts AccountRepository,
	tokens TokenRepository,
	revoker TokenRevoker,
	txManager tx.Manager,
	jwtService *JWTService,
	authz security.Authorizer,
	notifier notify.Notifier,
	config ServiceConfig,
) *Service {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &Service{
		accounts:   accounts,
		tokens:     tokens,
		revoker:    revoker,
		txManager:  txManager,
		jwtService: jwtService,
		authz:      authz,
		notifier:   notifier,
		config:     config,
	}
}

// Signup registers an Admin or User account and sends a welcome mail.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*Account, error) {
	role := security.RoleUser
	if strings.TrimSpace(req.Role) != "" {
		parsed, err := security.ParseRole(req.Role)
		if err != nil {
			return nil, err
		}
		role = parsed
	}

	switch role {
	case security.RoleUser:
	case security.RoleAdmin:
		if !s.config.AllowAdminSignup {
			return nil, apperror.NewForbidden("admin signup is disabled")
		}
	default:
		return nil, apperror.NewValidation("role must be Admin or User").
			WithDetail("field", "role")
	}

	return s.createAccount(ctx, req.Name, req.Email, req.Password, req.PhoneNumber, role)
}

// CreateClerk creates a clerk account. Admin only.
func (s *Service) CreateClerk(ctx context.Context, actor security.Actor, req ClerkRequest) (*Account, error) {
	if err := s.authz.Authorize(actor, security.CapManageAccounts); err != nil {
		return nil, err
	}
	return s.createAccount(ctx, req.Name, req.Email, req.Password, req.PhoneNumber, security.RoleClerk)
}

func (s *Service) createAccount(ctx context.Context, name, email, password, rawPhone string, role security.Role) (*Account, error) {
	if err := s.checkPassword(password); err != nil {
		return nil, err
	}

	account := &Account{
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(rawPhone) != "" {
		normalized, err := s.normalizePhone(rawPhone)
		if err != nil {
			return nil, err
		}
		account.PhoneNumber = &normalized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	account.PasswordHash = string(hash)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if existing, err := s.accounts.GetByEmail(ctx, account.Email); err == nil && existing != nil {
			return apperror.NewDuplicate("account", "email", account.Email)
		} else if err != nil && !apperror.IsNotFound(err) {
			return fmt.Errorf("check email exists: %w", err)
		}

		if err := s.accounts.Create(ctx, account); err != nil {
			return fmt.Errorf("create account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "account created",
		"account_id", account.ID,
		"email", account.Email,
		"role", account.Role,
	)

	notify.SendAfterCommit(ctx, s.notifier, notify.Recipient{
		Name:  account.Name,
		Email: account.Email,
		Role:  account.Role.String(),
	})

	return account, nil
}

// Login authenticates an account and returns tokens.
func (s *Service) Login(ctx context.Context, creds Credentials) (*TokenPair, *Account, error) {
	account, err := s.accounts.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(creds.Email)))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, nil, fmt.Errorf("get account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	tokens, err := s.generateTokenPair(ctx, account)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	logger.Info(ctx, "account logged in",
		"account_id", account.ID,
		"role", account.Role)

	return tokens, account, nil
}

// ClerkLogin is Login restricted to clerk accounts.
func (s *Service) ClerkLogin(ctx context.Context, creds Credentials) (*TokenPair, *Account, error) {
	account, err := s.accounts.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(creds.Email)))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, nil, fmt.Errorf("get account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}
	if account.Role != security.RoleClerk {
		return nil, nil, apperror.NewForbidden("access denied: account is not a clerk")
	}

	tokens, err := s.generateTokenPair(ctx, account)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}
	return tokens, account, nil
}

// RefreshToken rotates a refresh token and issues a new pair.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.tokens.GetRefreshToken(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid refresh token")
	}
	if !token.IsValid() {
		return nil, apperror.NewUnauthorized("refresh token expired or revoked")
	}

	account, err := s.accounts.GetByID(ctx, token.AccountID)
	if err != nil {
		return nil, apperror.NewUnauthorized("account not found")
	}

	if err := s.tokens.RevokeRefreshToken(ctx, token.ID); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}

	return s.generateTokenPair(ctx, account)
}

// Logout revokes the caller's access token and every refresh token of the account.
func (s *Service) Logout(ctx context.Context, user *appctx.UserContext) error {
	if user == nil {
		return apperror.NewUnauthorized("not authenticated")
	}

	if s.revoker != nil && user.TokenID != "" {
		ttl := time.Until(user.ExpiresAt)
		if ttl > 0 {
			if err := s.revoker.Revoke(ctx, user.TokenID, ttl); err != nil {
				return fmt.Errorf("revoke access token: %w", err)
			}
		}
	}

	if err := s.tokens.RevokeAllAccountTokens(ctx, user.AccountID); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}

	logger.Info(ctx, "account logged out", "account_id", user.AccountID)
	return nil
}

// GetAccount returns an account by id.
func (s *Service) GetAccount(ctx context.Context, accountID int64) (*Account, error) {
	return s.accounts.GetByID(ctx, accountID)
}

// ListAccounts lists accounts. Admin only.
func (s *Service) ListAccounts(ctx context.Context, actor security.Actor, filter AccountFilter) ([]Account, error) {
	if err := s.authz.Authorize(actor, security.CapManageAccounts); err != nil {
		return nil, err
	}
	return s.accounts.List(ctx, filter)
}

// ChangeRole sets the role of an account. Admin only.
func (s *Service) ChangeRole(ctx context.Context, actor security.Actor, accountID int64, role security.Role) (*Account, error) {
	if err := s.authz.Authorize(actor, security.CapManageAccounts); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperror.NewValidation("unknown role").WithDetail("field", "role")
	}

	var account *Account
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		account, err = s.accounts.GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		account.Role = role
		return s.accounts.Update(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "account role changed",
		"target_account_id", accountID,
		"new_role", role)

	return account, nil
}

// ListClerks lists clerk accounts. Admin only.
func (s *Service) ListClerks(ctx context.Context, actor security.Actor) ([]Account, error) {
	return s.ListAccounts(ctx, actor, AccountFilter{Role: security.RoleClerk})
}

// UpdateClerk edits a clerk account. Admin only.
func (s *Service) UpdateClerk(ctx context.Context, actor security.Actor, accountID int64, patch AccountPatch) (*Account, error) {
	if err := s.authz.Authorize(actor, security.CapManageAccounts); err != nil {
		return nil, err
	}

	var account *Account
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		account, err = s.getClerk(ctx, accountID)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			account.Name = *patch.Name
		}
		if patch.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*patch.Email))
			if email != account.Email {
				if other, err := s.accounts.GetByEmail(ctx, email); err == nil && other != nil {
					return apperror.NewDuplicate("account", "email", email)
				} else if err != nil && !apperror.IsNotFound(err) {
					return fmt.Errorf("check email exists: %w", err)
				}
			}
			account.Email = email
		}
		if patch.PhoneNumber != nil {
			if strings.TrimSpace(*patch.PhoneNumber) == "" {
				account.PhoneNumber = nil
			} else {
				normalized, err := s.normalizePhone(*patch.PhoneNumber)
				if err != nil {
					return err
				}
				account.PhoneNumber = &normalized
			}
		}
		if patch.Password != nil {
			if err := s.checkPassword(*patch.Password); err != nil {
				return err
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), s.config.BcryptCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			account.PasswordHash = string(hash)
		}

		if err := account.Validate(); err != nil {
			return err
		}
		return s.accounts.Update(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteClerk removes a clerk account. Admin only.
// Clerks that own supply requests or journal rows cannot be deleted.
func (s *Service) DeleteClerk(ctx context.Context, actor security.Actor, accountID int64) error {
	if err := s.authz.Authorize(actor, security.CapManageAccounts); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.getClerk(ctx, accountID); err != nil {
			return err
		}
		has, err := s.accounts.HasDependents(ctx, accountID)
		if err != nil {
			return fmt.Errorf("check dependents: %w", err)
		}
		if has {
			return apperror.NewConflict("clerk has supply requests or transactions").
				WithDetail("account_id", accountID)
		}
		return s.accounts.Delete(ctx, accountID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "clerk deleted", "target_account_id", accountID)
	return nil
}

func (s *Service) getClerk(ctx context.Context, accountID int64) (*Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Role != security.RoleClerk {
		return nil, apperror.NewNotFound("clerk", accountID)
	}
	return account, nil
}

// checkPassword enforces the length bounds. bcrypt rejects input over 72 bytes.
func (s *Service) checkPassword(password string) error {
	if len(password) < s.config.PasswordMinLength {
		return apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}
	if len(password) > MaxPasswordBytes {
		return apperror.NewValidation(
			fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes),
		).WithDetail("field", "password")
	}
	return nil
}

func (s *Service) normalizePhone(raw string) (string, error) {
	normalized, err := phone.Normalize(raw, s.config.PhoneRegion)
	if err != nil {
		if errors.Is(err, phone.ErrInvalidNumber) {
			return "", apperror.NewValidation("phone number is invalid").WithDetail("field", "phoneNumber")
		}
		return "", err
	}
	return normalized, nil
}

// generateTokenPair creates access and refresh tokens.
func (s *Service) generateTokenPair(ctx context.Context, account *Account) (*TokenPair, error) {
	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(account)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshTokenRaw, err := generateRandomToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	now := time.Now()
	refreshToken := &RefreshToken{
		AccountID: account.ID,
		TokenHash: hashToken(refreshTokenRaw),
		ExpiresAt: now.Add(s.config.RefreshTokenExpiry),
		CreatedAt: now,
	}
	if err := s.tokens.SaveRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenRaw,
		ExpiresAt:    expiresAt,
		TokenType:    "Bearer",
	}, nil
}

// hashToken creates SHA256 hash of token.
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// generateRandomToken generates a random token string.
func generateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
