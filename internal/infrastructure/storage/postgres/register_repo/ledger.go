// Package register_repo provides PostgreSQL implementations for the stock
// ledger, payments and the activity journal.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/domain/registers/stock"
	"inventrack/internal/infrastructure/storage/postgres"
)

const (
	productsTable    = "products"
	inventoryTable   = "inventory"
	salesTable       = "sales"
	saleReturnsTable = "sale_returns"
	purchasesTable   = "purchases"
)

var (
	productColumns    = postgres.ExtractDBColumns[entity.Product]()
	inventoryColumns  = postgres.ExtractDBColumns[entity.Inventory]()
	saleColumns       = postgres.ExtractDBColumns[entity.Sale]()
	saleReturnColumns = postgres.ExtractDBColumns[entity.SaleReturn]()
	purchaseColumns   = postgres.ExtractDBColumns[entity.Purchase]()
)

// componentsSelect derives effective stock inputs per product from the ledger.
const componentsSelect = `
	SELECT p.id AS product_id,
		COALESCE((SELECT SUM(i.quantity - i.spoilt_quantity) FROM inventory i WHERE i.product_id = p.id), 0) AS usable,
		COALESCE((SELECT SUM(pu.quantity) FROM purchases pu WHERE pu.product_id = p.id), 0) AS purchased,
		COALESCE((SELECT SUM(s.quantity) FROM sales s WHERE s.product_id = p.id), 0) AS sold,
		COALESCE((SELECT SUM(r.quantity) FROM sale_returns r JOIN sales s ON s.id = r.sale_id WHERE s.product_id = p.id), 0) AS returned
	FROM products p`

// LedgerRepo implements stock.Repository.
type LedgerRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ stock.Repository = (*LedgerRepo)(nil)

// NewLedgerRepo creates a new stock ledger repository.
func NewLedgerRepo(txManager *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{txManager: txManager, builder: postgres.Builder()}
}

func (r *LedgerRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// GetProduct implements stock.Repository.
func (r *LedgerRepo) GetProduct(ctx context.Context, productID int64) (*entity.Product, error) {
	q := r.builder.Select(productColumns...).From(productsTable).Where(squirrel.Eq{"id": productID})
	return postgres.SelectOne[entity.Product](ctx, r.querier(ctx), q, "product", productID)
}

// LockProduct implements stock.Repository.
func (r *LedgerRepo) LockProduct(ctx context.Context, productID int64) (*entity.Product, error) {
	q := r.builder.Select(productColumns...).From(productsTable).Where(squirrel.Eq{"id": productID}).Suffix("FOR UPDATE")
	return postgres.SelectOne[entity.Product](ctx, r.querier(ctx), q, "product", productID)
}

// GetComponents implements stock.Repository.
func (r *LedgerRepo) GetComponents(ctx context.Context, productID int64) (entity.StockComponents, error) {
	items, err := postgres.SelectAll[entity.StockComponents](ctx, r.querier(ctx),
		squirrel.Expr(componentsSelect+" WHERE p.id = $1", productID))
	if err != nil {
		return entity.StockComponents{}, fmt.Errorf("stock components: %w", err)
	}
	if len(items) == 0 {
		return entity.StockComponents{ProductID: productID}, nil
	}
	return items[0], nil
}

// ListComponents implements stock.Repository.
func (r *LedgerRepo) ListComponents(ctx context.Context) ([]entity.StockComponents, error) {
	items, err := postgres.SelectAll[entity.StockComponents](ctx, r.querier(ctx),
		squirrel.Expr(componentsSelect+" ORDER BY p.id"))
	if err != nil {
		return nil, fmt.Errorf("stock components: %w", err)
	}
	return items, nil
}

// insert stores row and writes the generated id into dst.
func (r *LedgerRepo) insert(ctx context.Context, table string, row any, dst *int64) error {
	sql, args, err := r.builder.Insert(table).SetMap(postgres.InsertMap(row)).Suffix("RETURNING id").ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(dst); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// CreatePurchase implements stock.Repository.
func (r *LedgerRepo) CreatePurchase(ctx context.Context, p *entity.Purchase) error {
	return r.insert(ctx, purchasesTable, p, &p.ID)
}

// CreateSale implements stock.Repository.
func (r *LedgerRepo) CreateSale(ctx context.Context, s *entity.Sale) error {
	return r.insert(ctx, salesTable, s, &s.ID)
}

// CreateSaleReturn implements stock.Repository.
func (r *LedgerRepo) CreateSaleReturn(ctx context.Context, ret *entity.SaleReturn) error {
	return r.insert(ctx, saleReturnsTable, ret, &ret.ID)
}

// CreateInventory implements stock.Repository.
func (r *LedgerRepo) CreateInventory(ctx context.Context, inv *entity.Inventory) error {
	return r.insert(ctx, inventoryTable, inv, &inv.ID)
}

// GetSale implements stock.Repository.
func (r *LedgerRepo) GetSale(ctx context.Context, saleID int64) (*entity.Sale, error) {
	q := r.builder.Select(saleColumns...).From(salesTable).Where(squirrel.Eq{"id": saleID})
	return postgres.SelectOne[entity.Sale](ctx, r.querier(ctx), q, "sale", saleID)
}

// LockSale implements stock.Repository.
func (r *LedgerRepo) LockSale(ctx context.Context, saleID int64) (*entity.Sale, error) {
	q := r.builder.Select(saleColumns...).From(salesTable).Where(squirrel.Eq{"id": saleID}).Suffix("FOR UPDATE")
	return postgres.SelectOne[entity.Sale](ctx, r.querier(ctx), q, "sale", saleID)
}

// ReturnedQuantity implements stock.Repository.
func (r *LedgerRepo) ReturnedQuantity(ctx context.Context, saleID int64) (int, error) {
	var n int
	err := r.querier(ctx).QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM sale_returns WHERE sale_id = $1`, saleID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("returned quantity: %w", err)
	}
	return n, nil
}

// GetInventory implements stock.Repository.
func (r *LedgerRepo) GetInventory(ctx context.Context, inventoryID int64) (*entity.Inventory, error) {
	q := r.builder.Select(inventoryColumns...).From(inventoryTable).Where(squirrel.Eq{"id": inventoryID})
	return postgres.SelectOne[entity.Inventory](ctx, r.querier(ctx), q, "inventory", inventoryID)
}

// LockInventory implements stock.Repository.
func (r *LedgerRepo) LockInventory(ctx context.Context, inventoryID int64) (*entity.Inventory, error) {
	q := r.builder.Select(inventoryColumns...).From(inventoryTable).Where(squirrel.Eq{"id": inventoryID}).Suffix("FOR UPDATE")
	return postgres.SelectOne[entity.Inventory](ctx, r.querier(ctx), q, "inventory", inventoryID)
}

// UpdateSpoilt implements stock.Repository.
func (r *LedgerRepo) UpdateSpoilt(ctx context.Context, inventoryID int64, spoilt int) error {
	tag, err := r.querier(ctx).Exec(ctx,
		`UPDATE inventory SET spoilt_quantity = $2 WHERE id = $1`, inventoryID, spoilt)
	if err != nil {
		return fmt.Errorf("update spoilt quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("inventory", inventoryID)
	}
	return nil
}

// ListInventory implements stock.Repository. Ordered by id.
func (r *LedgerRepo) ListInventory(ctx context.Context, filter stock.InventoryFilter) ([]entity.Inventory, error) {
	return postgres.SelectAll[entity.Inventory](ctx, r.querier(ctx), inventoryListQuery(r.builder, filter))
}

func inventoryListQuery(b squirrel.StatementBuilderType, filter stock.InventoryFilter) squirrel.SelectBuilder {
	q := b.Select(inventoryColumns...).From(inventoryTable)
	if filter.ProductID > 0 {
		q = q.Where(squirrel.Eq{"product_id": filter.ProductID})
	}
	if filter.PaymentStatus != "" {
		q = q.Where(squirrel.Eq{"payment_status": filter.PaymentStatus})
	}
	return q.OrderBy("id")
}

// ListSales implements stock.Repository. Newest first.
func (r *LedgerRepo) ListSales(ctx context.Context, filter stock.LedgerFilter) ([]entity.Sale, error) {
	return postgres.SelectAll[entity.Sale](ctx, r.querier(ctx), ledgerListQuery(r.builder, salesTable, saleColumns, filter))
}

// ListPurchases implements stock.Repository. Newest first.
func (r *LedgerRepo) ListPurchases(ctx context.Context, filter stock.LedgerFilter) ([]entity.Purchase, error) {
	return postgres.SelectAll[entity.Purchase](ctx, r.querier(ctx), ledgerListQuery(r.builder, purchasesTable, purchaseColumns, filter))
}

func ledgerListQuery(b squirrel.StatementBuilderType, table string, columns []string, filter stock.LedgerFilter) squirrel.SelectBuilder {
	q := b.Select(columns...).From(table)
	if filter.ProductID > 0 {
		q = q.Where(squirrel.Eq{"product_id": filter.ProductID})
	}
	return postgres.Paginate(q.OrderBy("id DESC"), filter.Limit, filter.Offset)
}

// ListSaleReturns implements stock.Repository. Ordered by id.
func (r *LedgerRepo) ListSaleReturns(ctx context.Context, saleID int64) ([]entity.SaleReturn, error) {
	q := r.builder.Select(saleReturnColumns...).From(saleReturnsTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("id")
	return postgres.SelectAll[entity.SaleReturn](ctx, r.querier(ctx), q)
}
