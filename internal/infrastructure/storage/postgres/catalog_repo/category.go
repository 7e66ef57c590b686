package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/domain/catalogs/category"
	"inventrack/internal/infrastructure/storage/postgres"
)

const categoriesTable = "categories"

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	*BaseCatalogRepo[entity.Category]
}

var _ category.Repository = (*CategoryRepo)(nil)

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(txManager *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{NewBaseCatalogRepo[entity.Category](txManager, categoriesTable, "category")}
}

// Create implements category.Repository.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	newID, err := r.Insert(ctx, c)
	if err != nil {
		if _, ok := postgres.UniqueViolation(err); ok {
			return apperror.NewDuplicate("category", "name", c.Name).WithCause(err)
		}
		return err
	}
	c.ID = newID
	return nil
}

// GetByName implements category.Repository.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	c, err := r.FindOne(ctx, r.baseSelect().Where(squirrel.Expr("lower(name) = lower(?)", name)))
	if apperror.IsNotFound(err) {
		return nil, apperror.NewNotFound("category", name)
	}
	return c, err
}

// List implements category.Repository. Ordered by name.
func (r *CategoryRepo) List(ctx context.Context) ([]entity.Category, error) {
	return r.FindAll(ctx, r.baseSelect().OrderBy("name", "id"))
}
