// Package analytics computes sales and purchase figures by replaying the
// ledger. Nothing here writes, and nothing is cached.
package analytics

import (
	"context"
	"time"

	"inventrack/internal/core/entity"
	"inventrack/internal/core/types"
)

// LedgerReader is the read side the aggregator replays.
type LedgerReader interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
	// ListSalesSince returns sales with sale_date >= since; nil means all.
	ListSalesSince(ctx context.Context, since *time.Time) ([]entity.Sale, error)
	ListAllPurchases(ctx context.Context) ([]entity.Purchase, error)
	ListAllSaleReturns(ctx context.Context) ([]entity.SaleReturn, error)
}

// ProductSales is one row of the sales ranking.
type ProductSales struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"product"`
	Quantity    int    `json:"totalQuantity"`
}

// DailyPoint is one day of a series. Date is YYYY-MM-DD in UTC.
type DailyPoint struct {
	Date   string      `json:"date"`
	Amount types.Money `json:"amount"`
}

// Summary is the dashboard view of every total.
type Summary struct {
	TotalRevenue     types.Money   `json:"totalRevenue"`
	TotalPurchase    types.Money   `json:"totalPurchase"`
	TotalIncome      types.Money   `json:"totalIncome"`
	TotalSaleReturns int           `json:"totalSaleReturns"`
	BestSeller       *ProductSales `json:"bestSeller,omitempty"`
}
