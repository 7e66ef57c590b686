package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
)

func TestStore_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()

	boom := errors.New("boom")
	err := s.RunInTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, s.Categories().Create(ctx, &entity.Category{Name: "Ghost"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := s.Categories().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_RollbackOnPanic(t *testing.T) {
	ctx := context.Background()
	s := New()

	assert.Panics(t, func() {
		_ = s.RunInTransaction(ctx, func(ctx context.Context) error {
			_ = s.Categories().Create(ctx, &entity.Category{Name: "Ghost"})
			panic("half way")
		})
	})

	list, err := s.Categories().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_ReadOnlyDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.ReadOnly(ctx, func(ctx context.Context) error {
		return s.Categories().Create(ctx, &entity.Category{Name: "Ghost"})
	})
	require.NoError(t, err)

	list, err := s.Categories().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_NestedTransactionJoinsOuter(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.RunInTransaction(ctx, func(ctx context.Context) error {
			return s.Categories().Create(ctx, &entity.Category{Name: "Tea"})
		})
	})
	require.NoError(t, err)

	c, err := s.Categories().GetByName(ctx, "TEA")
	require.NoError(t, err)
	assert.Equal(t, "Tea", c.Name)
}

func TestLedger_Components(t *testing.T) {
	ctx := context.Background()
	s := New()

	cat := &entity.Category{Name: "Spices"}
	require.NoError(t, s.Categories().Create(ctx, cat))
	p := &entity.Product{Name: "Pilau masala", CategoryID: cat.ID}
	require.NoError(t, s.Products().Create(ctx, p))

	l := s.Ledger()
	require.NoError(t, l.CreateInventory(ctx, &entity.Inventory{ProductID: p.ID, Quantity: 10, SpoiltQuantity: 3, PaymentStatus: entity.PaymentPaid}))
	require.NoError(t, l.CreatePurchase(ctx, &entity.Purchase{ProductID: p.ID, Quantity: 4}))
	sale := &entity.Sale{ProductID: p.ID, Quantity: 6}
	require.NoError(t, l.CreateSale(ctx, sale))
	require.NoError(t, l.CreateSaleReturn(ctx, &entity.SaleReturn{SaleID: sale.ID, Quantity: 2}))

	c, err := l.GetComponents(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StockComponents{ProductID: p.ID, Usable: 7, Purchased: 4, Sold: 6, Returned: 2}, c)
	assert.Equal(t, 7, c.Effective())

	returned, err := l.ReturnedQuantity(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, returned)

	assert.True(t, apperror.IsNotFound(l.CreatePurchase(ctx, &entity.Purchase{ProductID: 999, Quantity: 1})))
	assert.True(t, apperror.IsCode(s.Categories().Create(ctx, &entity.Category{Name: "spices"}), apperror.CodeDuplicate))
}
