package stock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/core/types"
	"inventrack/internal/domain/registers/stock"
	"inventrack/internal/infrastructure/storage/memory"
)

var fixedNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*stock.Engine, int64) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	cat := &entity.Category{Name: "Produce"}
	require.NoError(t, store.Categories().Create(ctx, cat))

	p := &entity.Product{
		Name:       "Tomatoes",
		CategoryID: cat.ID,
		BuyPrice:   types.MustMoney("40"),
		SellPrice:  types.MustMoney("60"),
	}
	require.NoError(t, store.Products().Create(ctx, p))

	engine := stock.NewEngine(store.Ledger(), store).WithClock(func() time.Time { return fixedNow })
	return engine, p.ID
}

func TestEngine_PurchaseRaisesStock(t *testing.T) {
	ctx := context.Background()
	engine, pid := setup(t)

	p, err := engine.RecordPurchase(ctx, stock.PurchaseInput{ProductID: pid, Quantity: 10, UnitPrice: types.MustMoney("40")})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, fixedNow, p.PurchaseDate)
	assert.True(t, p.Total().Equal(types.MustMoney("400")))

	qty, err := engine.EffectiveStock(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, 10, qty)
}

func TestEngine_PurchaseValidation(t *testing.T) {
	ctx := context.Background()
	engine, pid := setup(t)

	_, err := engine.RecordPurchase(ctx, stock.PurchaseInput{ProductID: pid, Quantity: 0})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = engine.RecordPurchase(ctx, stock.PurchaseInput{ProductID: pid, Quantity: 1, UnitPrice: types.MustMoney("-1")})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = engine.RecordPurchase(ctx, stock.PurchaseInput{ProductID: 999, Quantity: 1})
	assert.True(t, apperror.IsNotFound(err))
}

func TestEngine_SaleUsesSellPriceByDefault(t *testing.T) {
	ctx := context.Background()
	engine, pid := setup(t)

	_, err := engine.RecordPurchase(ctx, stock.PurchaseInput{ProductID: pid, Quantity: 5, UnitPrice: types.MustMoney("40")})
	require.NoError(t, err)

	sale, err := engine.RecordSale(ctx, stock.SaleInput{ProductID: pid, Quantity: 2})
	require.NoError(t, err)
	assert.True(t, sale.Price.Equal(types.MustMoney("60")))
	assert.True(t, sale.Total().Equal(types.MustMoney("120")))

	custom := types.MustMoney("55.50")
	sale, err = engine.RecordSale(ctx, stock.SaleInput{ProductID: pid, Quantity: 1, UnitPrice: &custom})
	require.NoError(t, err)
	assert.True(t, sale.Price.Equal(custom))

	qty, err := engine.EffectiveStock(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, 2, qty)
}

func TestEngine_SaleInsufficientStock(t *testing.T) {
	ctx := context.Background()
	engine, pid := setup(t)

	_, err := engine.RecordInventory(ctx, stock.InventoryInput{ProductID: pid, Quantity: 5, SpoiltQuantity: 2})
	require.NoError(t, err)

	_, err = engine.RecordSale(ctx, stock.SaleInput{ProductID: pid, Quantity: 4})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, 4, appErr.Details["requested"])
	assert.Equal(t, 3, appErr.Details["available"])

	sales, err := engine.ListSales(ctx, stock.LedgerFilter{})
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestEngine_SaleUnknownProduct(t *testing.T) {
	engine, _ := setup(t)
	_, err := engine.RecordSale(context.Background(), stock.SaleInput{ProductID: 42, Quantity: 1})
	assert.True(t, apperror.IsNotFound(err))
}

func TestEngine_ReturnLimits(t *testing.T) {
	ctx := context.Background()
	engine, pid := setup(t)

	_, err := engine.RecordPurchase(ctx, stock.PurchaseInput{ProductID: pid, Quantity: 10, UnitPrice: types.MustMoney("40")})
	require.NoError(t, err)
	sale, err := engine.RecordSale(ctx, stock.SaleInput{ProductID: pid, Quantity: 3})
	require.NoError(t, err)

	ret, err := engine.RecordReturn(ctx, sale.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, sale.ID, ret.SaleID)

	_, err = engine.RecordReturn(ctx, sale.ID, 2)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = engine.RecordReturn(ctx, sale.ID, 1)
	require.NoError(t, err)

	returns, err := engine.ListSaleReturns(ctx, sale.ID)
	require.NoError(t, err)
	assert.Len(t, returns, 2)

	qty, err := engine.EffectiveStock(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, 10, qty)

	_, err = engine.RecordReturn(ctx, 999, 1)
	assert.True(t, apperror.IsNotFound(err))

	_, err = engine.RecordReturn(ctx, sale.ID, 0)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestEngine_Spoilage(t *testing.T) {
	ctx := context.Background()
	engine, pid := setup(t)

	inv, err := engine.RecordInventory(ctx, stock.InventoryInput{ProductID: pid, Quantity: 10, SpoiltQuantity: 1})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentUnpaid, inv.PaymentStatus)

	inv, err = engine.RecordSpoilage(ctx, inv.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, inv.SpoiltQuantity)

	_, err = engine.RecordSpoilage(ctx, inv.ID, 6)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	qty, err := engine.EffectiveStock(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, 5, qty)
}

func TestEngine_SpoilageCannotDriveStockNegative(t *testing.T) {
	ctx := context.Background()
	engine, pid := setup(t)

	inv, err := engine.RecordInventory(ctx, stock.InventoryInput{ProductID: pid, Quantity: 4})
	require.NoError(t, err)
	_, err = engine.RecordSale(ctx, stock.SaleInput{ProductID: pid, Quantity: 3})
	require.NoError(t, err)

	_, err = engine.RecordSpoilage(ctx, inv.ID, 2)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))

	stored, err := engine.GetInventory(ctx, inv.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.SpoiltQuantity)
}

func TestEngine_InventoryValidation(t *testing.T) {
	ctx := context.Background()
	engine, pid := setup(t)

	tests := []struct {
		name string
		in   stock.InventoryInput
	}{
		{"negative quantity", stock.InventoryInput{ProductID: pid, Quantity: -1}},
		{"spoilt above quantity", stock.InventoryInput{ProductID: pid, Quantity: 2, SpoiltQuantity: 3}},
		{"unknown payment status", stock.InventoryInput{ProductID: pid, Quantity: 2, PaymentStatus: "later"}},
		{"missing product", stock.InventoryInput{Quantity: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.RecordInventory(ctx, tt.in)
			assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
		})
	}

	_, err := engine.RecordInventory(ctx, stock.InventoryInput{ProductID: 999, Quantity: 1})
	assert.True(t, apperror.IsNotFound(err))
}

func TestEngine_StockLevels(t *testing.T) {
	ctx := context.Background()
	engine, pid := setup(t)

	_, err := engine.RecordInventory(ctx, stock.InventoryInput{ProductID: pid, Quantity: 8, PaymentStatus: entity.PaymentPaid})
	require.NoError(t, err)
	_, err = engine.RecordSale(ctx, stock.SaleInput{ProductID: pid, Quantity: 5})
	require.NoError(t, err)

	levels, err := engine.StockLevels(ctx)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, stock.StockLevel{ProductID: pid, Quantity: 3}, levels[0])

	_, err = engine.EffectiveStock(ctx, 999)
	assert.True(t, apperror.IsNotFound(err))
}

func TestEngine_ListSalesNewestFirst(t *testing.T) {
	ctx := context.Background()
	engine, pid := setup(t)

	_, err := engine.RecordPurchase(ctx, stock.PurchaseInput{ProductID: pid, Quantity: 10, UnitPrice: types.MustMoney("40")})
	require.NoError(t, err)
	for i := 1; i <= 3; i++ {
		_, err := engine.RecordSale(ctx, stock.SaleInput{ProductID: pid, Quantity: i})
		require.NoError(t, err)
	}

	sales, err := engine.ListSales(ctx, stock.LedgerFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, 3, sales[0].Quantity)
	assert.Equal(t, 2, sales[1].Quantity)

	sales, err = engine.ListSales(ctx, stock.LedgerFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, 1, sales[0].Quantity)
}

func TestEngine_ConcurrentSalesNeverOversell(t *testing.T) {
	ctx := context.Background()
	engine, pid := setup(t)

	_, err := engine.RecordPurchase(ctx, stock.PurchaseInput{ProductID: pid, Quantity: 10, UnitPrice: types.MustMoney("40")})
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		short     int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.RecordSale(ctx, stock.SaleInput{ProductID: pid, Quantity: 1})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if apperror.IsCode(err, apperror.CodeInsufficientStock) {
				short++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 15, short)

	qty, err := engine.EffectiveStock(ctx, pid)
	require.NoError(t, err)
	assert.Zero(t, qty)
}
