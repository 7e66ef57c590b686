// Package supplier manages suppliers and the products they offer.
package supplier

import (
	"context"
	"fmt"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/core/tx"
	"inventrack/pkg/logger"
)

// Repository defines supplier persistence.
type Repository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, supplierID int64) (*entity.Supplier, error)
	List(ctx context.Context) ([]entity.Supplier, error)

	CreateOffer(ctx context.Context, sp *entity.SupplierProduct) error
	// ListOffers returns offers ordered by id; supplierID 0 means all suppliers.
	ListOffers(ctx context.Context, supplierID int64) ([]entity.SupplierProduct, error)
}

// ProductLookup resolves offered products.
type ProductLookup interface {
	GetProduct(ctx context.Context, productID int64) (*entity.Product, error)
}

// Service provides supplier operations.
type Service struct {
	repo     Repository
	products ProductLookup
	txm      tx.Manager
}

// NewService creates a new supplier service.
func NewService(repo Repository, products ProductLookup, txm tx.Manager) *Service {
	return &Service{repo: repo, products: products, txm: txm}
}

// Create adds a supplier.
func (s *Service) Create(ctx context.Context, sup *entity.Supplier) error {
	if err := sup.Validate(); err != nil {
		return err
	}
	if err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, sup)
	}); err != nil {
		return err
	}

	logger.Info(ctx, "supplier created", "supplier_id", sup.ID, "name", sup.Name)
	return nil
}

// Get returns a supplier.
func (s *Service) Get(ctx context.Context, supplierID int64) (*entity.Supplier, error) {
	return s.repo.GetByID(ctx, supplierID)
}

// List returns all suppliers.
func (s *Service) List(ctx context.Context) ([]entity.Supplier, error) {
	return s.repo.List(ctx)
}

// AddOffer records that a supplier offers a product at a price.
func (s *Service) AddOffer(ctx context.Context, sp *entity.SupplierProduct) error {
	if err := sp.Validate(); err != nil {
		return err
	}

	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, sp.SupplierID); err != nil {
			return asReference(err, "supplierId", sp.SupplierID)
		}
		if _, err := s.products.GetProduct(ctx, sp.ProductID); err != nil {
			return asReference(err, "productId", sp.ProductID)
		}
		if err := s.repo.CreateOffer(ctx, sp); err != nil {
			return fmt.Errorf("create supplier product: %w", err)
		}
		return nil
	})
}

// ListOffers returns supplier offers.
func (s *Service) ListOffers(ctx context.Context, supplierID int64) ([]entity.SupplierProduct, error) {
	return s.repo.ListOffers(ctx, supplierID)
}

// asReference turns a missing referenced row into a field validation error.
func asReference(err error, field string, value int64) error {
	if apperror.IsNotFound(err) {
		return apperror.NewValidation(field+" does not exist").
			WithDetail("field", field).
			WithDetail("value", value)
	}
	return err
}
