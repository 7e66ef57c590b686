package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/domain/catalogs/supplier"
	"inventrack/internal/infrastructure/storage/postgres"
)

const (
	suppliersTable        = "suppliers"
	supplierProductsTable = "supplier_products"
)

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	*BaseCatalogRepo[entity.Supplier]
	offers *BaseCatalogRepo[entity.SupplierProduct]
}

var _ supplier.Repository = (*SupplierRepo)(nil)

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txManager *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[entity.Supplier](txManager, suppliersTable, "supplier"),
		offers:          NewBaseCatalogRepo[entity.SupplierProduct](txManager, supplierProductsTable, "supplier product"),
	}
}

// Create implements supplier.Repository.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	newID, err := r.Insert(ctx, s)
	if err != nil {
		return err
	}
	s.ID = newID
	return nil
}

// List implements supplier.Repository. Ordered by id.
func (r *SupplierRepo) List(ctx context.Context) ([]entity.Supplier, error) {
	return r.FindAll(ctx, r.baseSelect().OrderBy("id"))
}

// CreateOffer implements supplier.Repository.
func (r *SupplierRepo) CreateOffer(ctx context.Context, sp *entity.SupplierProduct) error {
	newID, err := r.offers.Insert(ctx, sp)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewValidation("supplier or product does not exist")
		}
		return err
	}
	sp.ID = newID
	return nil
}

// ListOffers implements supplier.Repository.
func (r *SupplierRepo) ListOffers(ctx context.Context, supplierID int64) ([]entity.SupplierProduct, error) {
	q := r.offers.baseSelect()
	if supplierID > 0 {
		q = q.Where(squirrel.Eq{"supplier_id": supplierID})
	}
	return r.offers.FindAll(ctx, q.OrderBy("id"))
}
