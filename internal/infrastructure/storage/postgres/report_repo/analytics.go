// Package report_repo provides the PostgreSQL ledger reader behind analytics.
package report_repo

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"

	"inventrack/internal/core/entity"
	"inventrack/internal/domain/analytics"
	"inventrack/internal/infrastructure/storage/postgres"
)

// AnalyticsRepo implements analytics.LedgerReader.
type AnalyticsRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ analytics.LedgerReader = (*AnalyticsRepo)(nil)

// NewAnalyticsRepo creates a new analytics reader.
func NewAnalyticsRepo(txManager *postgres.TxManager) *AnalyticsRepo {
	return &AnalyticsRepo{txManager: txManager, builder: postgres.Builder()}
}

// ListProducts implements analytics.LedgerReader.
func (r *AnalyticsRepo) ListProducts(ctx context.Context) ([]entity.Product, error) {
	q := r.builder.Select(postgres.ExtractDBColumns[entity.Product]()...).From("products").OrderBy("id")
	return postgres.SelectAll[entity.Product](ctx, r.txManager.GetQuerier(ctx), q)
}

// ListSalesSince implements analytics.LedgerReader.
func (r *AnalyticsRepo) ListSalesSince(ctx context.Context, since *time.Time) ([]entity.Sale, error) {
	return postgres.SelectAll[entity.Sale](ctx, r.txManager.GetQuerier(ctx), r.salesQuery(since))
}

func (r *AnalyticsRepo) salesQuery(since *time.Time) squirrel.SelectBuilder {
	q := r.builder.Select(postgres.ExtractDBColumns[entity.Sale]()...).From("sales")
	if since != nil {
		q = q.Where(squirrel.GtOrEq{"sale_date": *since})
	}
	return q.OrderBy("id")
}

// ListAllPurchases implements analytics.LedgerReader.
func (r *AnalyticsRepo) ListAllPurchases(ctx context.Context) ([]entity.Purchase, error) {
	q := r.builder.Select(postgres.ExtractDBColumns[entity.Purchase]()...).From("purchases").OrderBy("id")
	return postgres.SelectAll[entity.Purchase](ctx, r.txManager.GetQuerier(ctx), q)
}

// ListAllSaleReturns implements analytics.LedgerReader.
func (r *AnalyticsRepo) ListAllSaleReturns(ctx context.Context) ([]entity.SaleReturn, error) {
	q := r.builder.Select(postgres.ExtractDBColumns[entity.SaleReturn]()...).From("sale_returns").OrderBy("id")
	return postgres.SelectAll[entity.SaleReturn](ctx, r.txManager.GetQuerier(ctx), q)
}
