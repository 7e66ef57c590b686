package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/core/types"
	"inventrack/internal/domain/analytics"
	"inventrack/internal/domain/registers/stock"
	"inventrack/internal/infrastructure/storage/memory"
)

var now = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

func days(n int) time.Time { return now.Add(-time.Duration(n) * 24 * time.Hour) }

type ledger struct {
	store  *memory.Store
	engine *stock.Engine
	svc    *analytics.Service
	bread  int64
	milk   int64
}

func newLedger(t *testing.T) *ledger {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	cat := &entity.Category{Name: "Groceries"}
	require.NoError(t, store.Categories().Create(ctx, cat))

	product := func(name, bp, sp string) int64 {
		p := &entity.Product{Name: name, CategoryID: cat.ID, BuyPrice: types.MustMoney(bp), SellPrice: types.MustMoney(sp)}
		require.NoError(t, store.Products().Create(ctx, p))
		return p.ID
	}

	return &ledger{
		store:  store,
		engine: stock.NewEngine(store.Ledger(), store).WithClock(func() time.Time { return now }),
		svc:    analytics.NewService(store.Ledger(), store).WithClock(func() time.Time { return now }),
		bread:  product("Bread", "50", "65"),
		milk:   product("Milk", "45", "60"),
	}
}

func (l *ledger) purchase(t *testing.T, productID int64, qty int, price string) {
	t.Helper()
	_, err := l.engine.RecordPurchase(context.Background(), stock.PurchaseInput{
		ProductID: productID, Quantity: qty, UnitPrice: types.MustMoney(price), Date: days(30),
	})
	require.NoError(t, err)
}

func (l *ledger) sell(t *testing.T, productID int64, qty int, price string, at time.Time) *entity.Sale {
	t.Helper()
	p := types.MustMoney(price)
	sale, err := l.engine.RecordSale(context.Background(), stock.SaleInput{
		ProductID: productID, Quantity: qty, UnitPrice: &p, Date: at,
	})
	require.NoError(t, err)
	return sale
}

func TestService_Totals(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)

	l.purchase(t, l.bread, 20, "50")
	l.purchase(t, l.milk, 10, "45")
	sale := l.sell(t, l.bread, 4, "65", days(1))
	l.sell(t, l.milk, 2, "60", days(2))
	_, err := l.engine.RecordReturn(ctx, sale.ID, 1)
	require.NoError(t, err)

	revenue, err := l.svc.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "380", revenue.String())

	cost, err := l.svc.TotalPurchaseCost(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1450", cost.String())

	income, err := l.svc.TotalIncome(ctx)
	require.NoError(t, err)
	assert.Equal(t, "-1070", income.String())

	returned, err := l.svc.TotalSaleReturns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, returned)

	summary, err := l.svc.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, summary.TotalRevenue.Equal(revenue))
	assert.True(t, summary.TotalPurchase.Equal(cost))
	assert.True(t, summary.TotalIncome.Equal(income))
	assert.Equal(t, 1, summary.TotalSaleReturns)
	require.NotNil(t, summary.BestSeller)
	assert.Equal(t, l.bread, summary.BestSeller.ProductID)
}

func TestService_EmptyLedger(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)

	revenue, err := l.svc.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.True(t, revenue.IsZero())

	ranking, err := l.svc.ProductSalesRanking(ctx)
	require.NoError(t, err)
	assert.Empty(t, ranking)

	series, err := l.svc.DailyRevenueSeries(ctx)
	require.NoError(t, err)
	assert.Empty(t, series)

	summary, err := l.svc.Summary(ctx)
	require.NoError(t, err)
	assert.Nil(t, summary.BestSeller)

	_, err = l.svc.BestSellerInWindow(ctx, analytics.BestSellerWindowDays)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_RankingTiesGoToLowerID(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)

	l.purchase(t, l.bread, 10, "50")
	l.purchase(t, l.milk, 10, "45")
	l.sell(t, l.milk, 3, "60", days(1))
	l.sell(t, l.bread, 3, "65", days(1))

	ranking, err := l.svc.ProductSalesRanking(ctx)
	require.NoError(t, err)
	require.Len(t, ranking, 2)
	assert.Equal(t, analytics.ProductSales{ProductID: l.bread, ProductName: "Bread", Quantity: 3}, ranking[0])
	assert.Equal(t, l.milk, ranking[1].ProductID)
}

func TestService_BestSellerWindow(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)

	l.purchase(t, l.bread, 50, "50")
	l.purchase(t, l.milk, 50, "45")
	l.sell(t, l.bread, 30, "65", days(20))
	l.sell(t, l.milk, 2, "60", days(3))

	best, err := l.svc.BestSellerInWindow(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, l.milk, best.ProductID)
	assert.Equal(t, 2, best.Quantity)

	best, err = l.svc.BestSellerInWindow(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, l.bread, best.ProductID)

	_, err = l.svc.BestSellerInWindow(ctx, 1)
	assert.True(t, apperror.IsNotFound(err))

	_, err = l.svc.BestSellerInWindow(ctx, 0)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestService_DailySeries(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)

	l.purchase(t, l.bread, 20, "50")
	l.sell(t, l.bread, 2, "65", days(2))
	l.sell(t, l.bread, 3, "70", days(2).Add(time.Hour))
	l.sell(t, l.bread, 1, "65", days(1))

	revenue, err := l.svc.DailyRevenueSeries(ctx)
	require.NoError(t, err)
	require.Len(t, revenue, 2)
	assert.Equal(t, days(2).Format(time.DateOnly), revenue[0].Date)
	assert.Equal(t, "135", revenue[0].Amount.String(), "unit prices summed")
	assert.Equal(t, "65", revenue[1].Amount.String())

	profit, err := l.svc.DailyProfitSeries(ctx)
	require.NoError(t, err)
	require.Len(t, profit, 2)
	assert.Equal(t, "340", profit[0].Amount.String(), "line totals summed")
	assert.Equal(t, "65", profit[1].Amount.String())
}
