// Package category manages product categories.
package category

import (
	"context"
	"fmt"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/core/tx"
	"inventrack/pkg/logger"
)

// Repository defines category persistence.
type Repository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, categoryID int64) (*entity.Category, error)
	// GetByName matches case-insensitively.
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	List(ctx context.Context) ([]entity.Category, error)
}

// Service provides category operations.
type Service struct {
	repo Repository
	txm  tx.Manager
}

// NewService creates a new category service.
func NewService(repo Repository, txm tx.Manager) *Service {
	return &Service{repo: repo, txm: txm}
}

// Create adds a category. Names are unique.
func (s *Service) Create(ctx context.Context, c *entity.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if existing, err := s.repo.GetByName(ctx, c.Name); err == nil && existing != nil {
			return apperror.NewDuplicate("category", "name", c.Name)
		} else if err != nil && !apperror.IsNotFound(err) {
			return fmt.Errorf("check category name: %w", err)
		}
		return s.repo.Create(ctx, c)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "category created", "category_id", c.ID, "name", c.Name)
	return nil
}

// Get returns a category.
func (s *Service) Get(ctx context.Context, categoryID int64) (*entity.Category, error) {
	return s.repo.GetByID(ctx, categoryID)
}

// List returns all categories ordered by name.
func (s *Service) List(ctx context.Context) ([]entity.Category, error) {
	return s.repo.List(ctx)
}
