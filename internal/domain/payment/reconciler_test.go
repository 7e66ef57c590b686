package payment_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/core/security"
	"inventrack/internal/core/types"
	"inventrack/internal/domain/auth"
	"inventrack/internal/domain/payment"
	"inventrack/internal/infrastructure/cache"
	"inventrack/internal/infrastructure/storage/memory"
)

var paidAt = time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC)

type fixture struct {
	store       *memory.Store
	reconciler  *payment.Reconciler
	inventoryID int64
	payerID     int64
	admin       security.Actor
	user        security.Actor
}

func newFixture(t *testing.T, guard payment.DeliveryGuard) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	cat := &entity.Category{Name: "Beverages"}
	require.NoError(t, store.Categories().Create(ctx, cat))
	p := &entity.Product{Name: "Soda", CategoryID: cat.ID, BuyPrice: types.MustMoney("30"), SellPrice: types.MustMoney("50")}
	require.NoError(t, store.Products().Create(ctx, p))

	inv := &entity.Inventory{ProductID: p.ID, Quantity: 24, PaymentStatus: entity.PaymentUnpaid}
	require.NoError(t, store.Ledger().CreateInventory(ctx, inv))

	msisdn := "+254712345678"
	payer := &auth.Account{Name: "Wanjiru", Email: "wanjiru@example.com", PhoneNumber: &msisdn, Role: security.RoleUser}
	require.NoError(t, store.Accounts().Create(ctx, payer))
	admin := &auth.Account{Name: "Otieno", Email: "otieno@example.com", Role: security.RoleAdmin}
	require.NoError(t, store.Accounts().Create(ctx, admin))

	r := payment.NewReconciler(
		store.Payments(), store.Ledger(), store.Accounts(), guard, store,
		security.DefaultPolicy(), payment.Config{},
	).WithClock(func() time.Time { return paidAt })

	return &fixture{
		store:       store,
		reconciler:  r,
		inventoryID: inv.ID,
		payerID:     payer.ID,
		admin:       admin.Actor(),
		user:        payer.Actor(),
	}
}

func (f *fixture) payments(t *testing.T) []entity.Payment {
	t.Helper()
	list, err := f.store.Payments().List(context.Background())
	require.NoError(t, err)
	return list
}

func TestReconcile_ByInventoryReference(t *testing.T) {
	f := newFixture(t, cache.NewMemoryDeliveryGuard())

	ack := f.reconciler.Reconcile(context.Background(), payment.Confirmation{
		TransID:   "QGH7X1",
		Reference: strconv.FormatInt(f.inventoryID, 10),
		MSISDN:    "254700000000",
		Amount:    "720.00",
	})
	assert.Equal(t, payment.Ack{ResultCode: payment.ResultAccepted, ResultDesc: payment.DescAccepted}, ack)

	list := f.payments(t)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].InventoryID)
	assert.Equal(t, f.inventoryID, *list[0].InventoryID)
	assert.Nil(t, list[0].AccountID)
	assert.Equal(t, "720", list[0].Amount.String())
	assert.Equal(t, paidAt, list[0].PaymentDate)
}

func TestReconcile_FallsBackToPhone(t *testing.T) {
	f := newFixture(t, cache.NewMemoryDeliveryGuard())

	ack := f.reconciler.Reconcile(context.Background(), payment.Confirmation{
		TransID:   "QGH7X2",
		Reference: "9999",
		MSISDN:    "254712345678",
		Amount:    "100",
	})
	assert.Equal(t, payment.ResultAccepted, ack.ResultCode)

	list := f.payments(t)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].AccountID)
	assert.Equal(t, f.payerID, *list[0].AccountID)
	assert.Equal(t, "9999", list[0].Reference)
}

func TestReconcile_Rejections(t *testing.T) {
	f := newFixture(t, cache.NewMemoryDeliveryGuard())
	ctx := context.Background()

	tests := []struct {
		name string
		in   payment.Confirmation
		desc string
	}{
		{"non numeric amount", payment.Confirmation{TransID: "A1", MSISDN: "254712345678", Amount: "ten"}, payment.DescInvalidAmount},
		{"negative amount", payment.Confirmation{TransID: "A2", MSISDN: "254712345678", Amount: "-5"}, payment.DescInvalidAmount},
		{"unknown phone", payment.Confirmation{TransID: "A3", MSISDN: "254799999999", Amount: "5"}, payment.DescUserNotFound},
		{"no phone no reference", payment.Confirmation{TransID: "A4", Amount: "5"}, payment.DescUserNotFound},
		{"garbage phone", payment.Confirmation{TransID: "A5", MSISDN: "abc", Amount: "5"}, payment.DescUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := f.reconciler.Reconcile(ctx, tt.in)
			assert.Equal(t, payment.ResultRejected, ack.ResultCode)
			assert.Equal(t, tt.desc, ack.ResultDesc)
		})
	}
	assert.Empty(t, f.payments(t))
}

func TestReconcile_DuplicateDeliveryRecordedOnce(t *testing.T) {
	f := newFixture(t, cache.NewMemoryDeliveryGuard())
	ctx := context.Background()
	c := payment.Confirmation{TransID: "QGH7X3", MSISDN: "254712345678", Amount: "250"}

	first := f.reconciler.Reconcile(ctx, c)
	second := f.reconciler.Reconcile(ctx, c)
	assert.Equal(t, payment.ResultAccepted, first.ResultCode)
	assert.Equal(t, payment.ResultAccepted, second.ResultCode)
	assert.Len(t, f.payments(t), 1)
}

func TestReconcile_UnmatchedReleasesClaim(t *testing.T) {
	guard := cache.NewMemoryDeliveryGuard()
	f := newFixture(t, guard)
	ctx := context.Background()
	c := payment.Confirmation{TransID: "QGH7X4", MSISDN: "254711111111", Amount: "80"}

	ack := f.reconciler.Reconcile(ctx, c)
	assert.Equal(t, payment.DescUserNotFound, ack.ResultDesc)

	claimed, err := guard.Claim(ctx, c.TransID, time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed, "a failed delivery must be retryable")
}

type brokenGuard struct{}

func (brokenGuard) Claim(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis: connection refused")
}
func (brokenGuard) Release(context.Context, string) error { return nil }

func TestReconcile_GuardOutageStillRecords(t *testing.T) {
	f := newFixture(t, brokenGuard{})

	ack := f.reconciler.Reconcile(context.Background(), payment.Confirmation{
		TransID: "QGH7X5", MSISDN: "0712345678", Amount: "40",
	})
	assert.Equal(t, payment.ResultAccepted, ack.ResultCode)
	assert.Len(t, f.payments(t), 1)
}

func TestValidate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	assert.Equal(t, payment.ResultAccepted, f.reconciler.Validate(ctx, payment.Confirmation{Amount: "12.5"}).ResultCode)
	ack := f.reconciler.Validate(ctx, payment.Confirmation{Amount: ""})
	assert.Equal(t, payment.ResultRejected, ack.ResultCode)
	assert.Equal(t, payment.DescInvalidAmount, ack.ResultDesc)
}

func TestRecordManual(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	p, err := f.reconciler.RecordManual(ctx, f.admin, payment.ManualInput{InventoryID: f.inventoryID, Amount: types.MustMoney("300")})
	require.NoError(t, err)
	assert.Equal(t, paidAt, p.PaymentDate)
	require.NotNil(t, p.InventoryID)
	assert.Equal(t, f.inventoryID, *p.InventoryID)

	_, err = f.reconciler.RecordManual(ctx, f.user, payment.ManualInput{InventoryID: f.inventoryID, Amount: types.MustMoney("1")})
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))

	_, err = f.reconciler.RecordManual(ctx, f.admin, payment.ManualInput{InventoryID: 999, Amount: types.MustMoney("1")})
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.reconciler.RecordManual(ctx, f.admin, payment.ManualInput{InventoryID: f.inventoryID, Amount: types.MustMoney("-1")})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	list, err := f.reconciler.List(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.reconciler.List(ctx, f.user)
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden), "users do not see payments")
}
