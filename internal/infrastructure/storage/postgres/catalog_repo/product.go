package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/domain/catalogs/product"
	"inventrack/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[entity.Product]
}

var _ product.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{NewBaseCatalogRepo[entity.Product](txManager, productsTable, "product")}
}

// Create implements product.Repository.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	newID, err := r.Insert(ctx, p)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewValidation("category does not exist").WithDetail("field", "categoryId")
		}
		return err
	}
	p.ID = newID
	return nil
}

// Update implements product.Repository. created_at is immutable.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	sql, args, err := r.updateQuery(p).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", p.ID)
	}
	return nil
}

func (r *ProductRepo) updateQuery(p *entity.Product) squirrel.UpdateBuilder {
	return r.Builder().
		Update(productsTable).
		SetMap(postgres.InsertMap(p, "created_at")).
		Where(squirrel.Eq{"id": p.ID})
}

// Delete implements product.Repository. Must run inside a unit of work.
func (r *ProductRepo) Delete(ctx context.Context, productID int64) error {
	if _, err := r.GetByID(ctx, productID); err != nil {
		return err
	}
	if err := postgres.ExecuteBatch(ctx, r.txManager, cascadeDeleteProduct(productID)); err != nil {
		return fmt.Errorf("delete product %d: %w", productID, err)
	}
	return nil
}

// cascadeDeleteProduct lists the statements removing a product and its ledger.
// Journal and payment rows survive with their inventory reference cleared.
func cascadeDeleteProduct(productID int64) []postgres.BatchQuery {
	const inventoryOfProduct = `SELECT id FROM inventory WHERE product_id = $1`
	return []postgres.BatchQuery{
		{SQL: `UPDATE transactions SET inventory_id = NULL WHERE inventory_id IN (` + inventoryOfProduct + `)`, Args: []any{productID}},
		{SQL: `UPDATE payments SET inventory_id = NULL WHERE inventory_id IN (` + inventoryOfProduct + `)`, Args: []any{productID}},
		{SQL: `DELETE FROM inventory WHERE product_id = $1`, Args: []any{productID}},
		{SQL: `DELETE FROM sale_returns WHERE sale_id IN (SELECT id FROM sales WHERE product_id = $1)`, Args: []any{productID}},
		{SQL: `DELETE FROM sales WHERE product_id = $1`, Args: []any{productID}},
		{SQL: `DELETE FROM purchases WHERE product_id = $1`, Args: []any{productID}},
		{SQL: `DELETE FROM supplier_products WHERE product_id = $1`, Args: []any{productID}},
		{SQL: `DELETE FROM supply_requests WHERE product_id = $1`, Args: []any{productID}},
		{SQL: `DELETE FROM products WHERE id = $1`, Args: []any{productID}},
	}
}

// List implements product.Repository. Ordered by id.
func (r *ProductRepo) List(ctx context.Context, filter product.Filter) ([]entity.Product, error) {
	return r.FindAll(ctx, r.listQuery(filter))
}

func (r *ProductRepo) listQuery(filter product.Filter) squirrel.SelectBuilder {
	q := r.baseSelect()
	if filter.CategoryID > 0 {
		q = q.Where(squirrel.Eq{"category_id": filter.CategoryID})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
	}
	return q.OrderBy("id")
}
