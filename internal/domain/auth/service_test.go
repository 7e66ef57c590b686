package auth_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/core/security"
	"inventrack/internal/domain/auth"
	"inventrack/internal/domain/notify"
	"inventrack/internal/infrastructure/cache"
	"inventrack/internal/infrastructure/storage/memory"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Recipient
}

func (n *recordingNotifier) Welcome(_ context.Context, to notify.Recipient) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, to)
	return nil
}

type fixture struct {
	store    *memory.Store
	svc      *auth.Service
	jwt      *auth.JWTService
	notifier *recordingNotifier
}

func newFixture(t *testing.T, allowAdminSignup bool) *fixture {
	t.Helper()
	store := memory.New()
	blacklist := cache.NewMemoryTokenBlacklist()
	jwtSvc := auth.NewJWTService(auth.DefaultJWTConfig("test-secret-test-secret-test-secret"), blacklist)

	cfg := auth.DefaultServiceConfig()
	cfg.BcryptCost = bcrypt.MinCost
	cfg.AllowAdminSignup = allowAdminSignup

	notifier := &recordingNotifier{}
	return &fixture{
		store:    store,
		svc:      auth.NewService(store.Accounts(), store.Tokens(), blacklist, store, jwtSvc, security.DefaultPolicy(), notifier, cfg),
		jwt:      jwtSvc,
		notifier: notifier,
	}
}

func (f *fixture) admin(t *testing.T) security.Actor {
	t.Helper()
	a := &auth.Account{Name: "Root", Email: "root@example.com", Role: security.RoleAdmin}
	require.NoError(t, f.store.Accounts().Create(context.Background(), a))
	return a.Actor()
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	account, err := f.svc.Signup(ctx, auth.SignupRequest{
		Name:        "Akinyi",
		Email:       "  Akinyi@Example.com ",
		Password:    "s3cret-pass",
		PhoneNumber: "0712345678",
	})
	require.NoError(t, err)
	assert.Equal(t, security.RoleUser, account.Role)
	assert.Equal(t, "akinyi@example.com", account.Email)
	require.NotNil(t, account.PhoneNumber)
	assert.Equal(t, "+254712345678", *account.PhoneNumber)
	assert.NotEqual(t, "s3cret-pass", account.PasswordHash)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "akinyi@example.com", f.notifier.sent[0].Email)

	_, err = f.svc.Signup(ctx, auth.SignupRequest{Name: "Again", Email: "akinyi@example.com", Password: "s3cret-pass"})
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicate))

	_, err = f.svc.Signup(ctx, auth.SignupRequest{Name: "Other", Email: "other@example.com", Password: "s3cret-pass", PhoneNumber: "+254712345678"})
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicate))
}

func TestSignup_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	tests := []struct {
		name string
		req  auth.SignupRequest
		code string
	}{
		{"short password", auth.SignupRequest{Name: "A", Email: "a@example.com", Password: "short"}, apperror.CodeValidation},
		{"password over 72 bytes", auth.SignupRequest{Name: "A", Email: "a@example.com", Password: strings.Repeat("x", 80)}, apperror.CodeValidation},
		{"bad email", auth.SignupRequest{Name: "A", Email: "not-an-email", Password: "long-enough"}, apperror.CodeValidation},
		{"missing name", auth.SignupRequest{Email: "a@example.com", Password: "long-enough"}, apperror.CodeValidation},
		{"bad phone", auth.SignupRequest{Name: "A", Email: "a@example.com", Password: "long-enough", PhoneNumber: "12"}, apperror.CodeValidation},
		{"clerk self signup", auth.SignupRequest{Name: "A", Email: "a@example.com", Password: "long-enough", Role: "Clerk"}, apperror.CodeValidation},
		{"admin signup disabled", auth.SignupRequest{Name: "A", Email: "a@example.com", Password: "long-enough", Role: "Admin"}, apperror.CodeForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Signup(ctx, tt.req)
			assert.True(t, apperror.IsCode(err, tt.code), "got %v", err)
		})
	}
	assert.Empty(t, f.notifier.sent)
}

func TestSignup_AdminWhenAllowed(t *testing.T) {
	f := newFixture(t, true)
	account, err := f.svc.Signup(context.Background(), auth.SignupRequest{
		Name: "Boss", Email: "boss@example.com", Password: "long-enough", Role: "Admin",
	})
	require.NoError(t, err)
	assert.Equal(t, security.RoleAdmin, account.Role)
}

func TestLoginAndRefresh(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	_, err := f.svc.Signup(ctx, auth.SignupRequest{Name: "Kamau", Email: "kamau@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, _, err = f.svc.Login(ctx, auth.Credentials{Email: "kamau@example.com", Password: "wrong-horse"})
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
	_, _, err = f.svc.Login(ctx, auth.Credentials{Email: "nobody@example.com", Password: "correct-horse"})
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))

	pair, account, err := f.svc.Login(ctx, auth.Credentials{Email: "KAMAU@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.NotEmpty(t, pair.RefreshToken)

	user, err := f.jwt.ValidateToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, account.ID, user.AccountID)
	assert.Equal(t, string(security.RoleUser), user.Role)

	rotated, err := f.svc.RefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	_, err = f.svc.RefreshToken(ctx, pair.RefreshToken)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized), "refresh tokens are single use")

	_, err = f.svc.RefreshToken(ctx, "garbage")
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
}

func TestClerkLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	admin := f.admin(t)

	_, err := f.svc.Signup(ctx, auth.SignupRequest{Name: "Plain", Email: "plain@example.com", Password: "long-enough"})
	require.NoError(t, err)
	_, err = f.svc.CreateClerk(ctx, admin, auth.ClerkRequest{Name: "Clerk", Email: "clerk@example.com", Password: "long-enough"})
	require.NoError(t, err)

	_, _, err = f.svc.ClerkLogin(ctx, auth.Credentials{Email: "plain@example.com", Password: "long-enough"})
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))

	_, _, err = f.svc.ClerkLogin(ctx, auth.Credentials{Email: "clerk@example.com", Password: "nope-nope"})
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))

	_, account, err := f.svc.ClerkLogin(ctx, auth.Credentials{Email: "clerk@example.com", Password: "long-enough"})
	require.NoError(t, err)
	assert.Equal(t, security.RoleClerk, account.Role)
}

func TestLogoutRevokesTokens(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	_, err := f.svc.Signup(ctx, auth.SignupRequest{Name: "Njeri", Email: "njeri@example.com", Password: "long-enough"})
	require.NoError(t, err)
	pair, _, err := f.svc.Login(ctx, auth.Credentials{Email: "njeri@example.com", Password: "long-enough"})
	require.NoError(t, err)

	user, err := f.jwt.ValidateToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), user.ExpiresAt, time.Minute)

	require.NoError(t, f.svc.Logout(ctx, user))

	_, err = f.jwt.ValidateToken(ctx, pair.AccessToken)
	assert.Error(t, err)
	_, err = f.svc.RefreshToken(ctx, pair.RefreshToken)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))

	assert.True(t, apperror.IsCode(f.svc.Logout(ctx, nil), apperror.CodeUnauthorized))
}

func TestClerkManagement(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	admin := f.admin(t)

	clerk, err := f.svc.CreateClerk(ctx, admin, auth.ClerkRequest{Name: "Wafula", Email: "wafula@example.com", Password: "long-enough"})
	require.NoError(t, err)
	assert.Equal(t, security.RoleClerk, clerk.Role)

	_, err = f.svc.CreateClerk(ctx, clerk.Actor(), auth.ClerkRequest{Name: "X", Email: "x@example.com", Password: "long-enough"})
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))

	clerks, err := f.svc.ListClerks(ctx, admin)
	require.NoError(t, err)
	require.Len(t, clerks, 1)
	assert.Equal(t, clerk.ID, clerks[0].ID)

	name := "Wafula M."
	phoneNumber := "0722000111"
	updated, err := f.svc.UpdateClerk(ctx, admin, clerk.ID, auth.AccountPatch{Name: &name, PhoneNumber: &phoneNumber})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	require.NotNil(t, updated.PhoneNumber)
	assert.Equal(t, "+254722000111", *updated.PhoneNumber)

	long := strings.Repeat("p", auth.MaxPasswordBytes+1)
	_, err = f.svc.UpdateClerk(ctx, admin, clerk.ID, auth.AccountPatch{Password: &long})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	maxed := strings.Repeat("p", auth.MaxPasswordBytes)
	_, err = f.svc.UpdateClerk(ctx, admin, clerk.ID, auth.AccountPatch{Password: &maxed})
	require.NoError(t, err)

	taken := "root@example.com"
	_, err = f.svc.UpdateClerk(ctx, admin, clerk.ID, auth.AccountPatch{Email: &taken})
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicate))

	_, err = f.svc.UpdateClerk(ctx, admin, admin.AccountID, auth.AccountPatch{Name: &name})
	assert.True(t, apperror.IsNotFound(err), "admins are not clerks")

	require.NoError(t, f.store.Journal().Create(ctx, &entity.Transaction{
		AccountID: clerk.ID, Type: entity.TransactionSale, Quantity: 1, CreatedAt: time.Now(),
	}))
	err = f.svc.DeleteClerk(ctx, admin, clerk.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))

	spare, err := f.svc.CreateClerk(ctx, admin, auth.ClerkRequest{Name: "Spare", Email: "spare@example.com", Password: "long-enough"})
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteClerk(ctx, admin, spare.ID))
	_, err = f.svc.GetAccount(ctx, spare.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestChangeRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	admin := f.admin(t)

	account, err := f.svc.Signup(ctx, auth.SignupRequest{Name: "Mutua", Email: "mutua@example.com", Password: "long-enough"})
	require.NoError(t, err)

	_, err = f.svc.ChangeRole(ctx, account.Actor(), account.ID, security.RoleAdmin)
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))

	_, err = f.svc.ChangeRole(ctx, admin, account.ID, security.Role("Owner"))
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	changed, err := f.svc.ChangeRole(ctx, admin, account.ID, security.RoleClerk)
	require.NoError(t, err)
	assert.Equal(t, security.RoleClerk, changed.Role)

	users, err := f.svc.ListAccounts(ctx, admin, auth.AccountFilter{Role: security.RoleClerk})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, account.ID, users[0].ID)

	_, err = f.svc.ChangeRole(ctx, admin, 999, security.RoleUser)
	assert.True(t, apperror.IsNotFound(err))
}
