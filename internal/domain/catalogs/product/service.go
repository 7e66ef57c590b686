// Package product manages the product catalog.
package product

import (
	"context"
	"fmt"
	"time"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/core/tx"
	"inventrack/pkg/logger"
)

// Repository defines product persistence.
type Repository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, productID int64) (*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	// Delete removes the product and every ledger row that depends on it:
	// inventory (journal and payment references are nulled), sales with their
	// returns, purchases, supplier offers and supply requests.
	Delete(ctx context.Context, productID int64) error
	List(ctx context.Context, filter Filter) ([]entity.Product, error)
}

// CategoryLookup resolves the category a product belongs to.
type CategoryLookup interface {
	GetByID(ctx context.Context, categoryID int64) (*entity.Category, error)
}

// Filter narrows product listings.
type Filter struct {
	CategoryID int64
	Search     string
}

// Service provides product operations.
type Service struct {
	repo       Repository
	categories CategoryLookup
	txm        tx.Manager
}

// NewService creates a new product service.
func NewService(repo Repository, categories CategoryLookup, txm tx.Manager) *Service {
	return &Service{repo: repo, categories: categories, txm: txm}
}

// Create adds a product to an existing category.
func (s *Service) Create(ctx context.Context, p *entity.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkCategory(ctx, p.CategoryID); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, p); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "product created", "product_id", p.ID, "name", p.Name)
	return nil
}

// Update replaces the editable fields of a product.
func (s *Service) Update(ctx context.Context, p *entity.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		if current.CategoryID != p.CategoryID {
			if err := s.checkCategory(ctx, p.CategoryID); err != nil {
				return err
			}
		}
		p.CreatedAt = current.CreatedAt
		if err := s.repo.Update(ctx, p); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		return nil
	})
}

// Delete removes a product with all its dependents.
func (s *Service) Delete(ctx context.Context, productID int64) error {
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, productID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, productID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "product deleted", "product_id", productID)
	return nil
}

// Get returns a product.
func (s *Service) Get(ctx context.Context, productID int64) (*entity.Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// List returns products ordered by id.
func (s *Service) List(ctx context.Context, filter Filter) ([]entity.Product, error) {
	return s.repo.List(ctx, filter)
}

// ListByCategory returns the products of one category.
func (s *Service) ListByCategory(ctx context.Context, categoryID int64) ([]entity.Product, error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, Filter{CategoryID: categoryID})
}

func (s *Service) checkCategory(ctx context.Context, categoryID int64) error {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewValidation("category does not exist").
				WithDetail("field", "categoryId").
				WithDetail("value", categoryID)
		}
		return err
	}
	return nil
}
