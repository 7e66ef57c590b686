package catalog_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventrack/internal/core/entity"
	"inventrack/internal/core/types"
	"inventrack/internal/domain/catalogs/product"
)

func TestBaseCatalogRepo_Columns(t *testing.T) {
	repo := NewCategoryRepo(nil)
	sql, args, err := repo.baseSelect().ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id, name, description FROM categories", sql)
	assert.Empty(t, args)
}

func TestProductRepo_ListQuery(t *testing.T) {
	repo := NewProductRepo(nil)

	tests := []struct {
		name     string
		filter   product.Filter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "no filter",
			wantSQL: "SELECT id, name, category_id, bp, sp, image_url, created_at FROM products ORDER BY id",
		},
		{
			name:     "by category",
			filter:   product.Filter{CategoryID: 4},
			wantSQL:  "SELECT id, name, category_id, bp, sp, image_url, created_at FROM products WHERE category_id = $1 ORDER BY id",
			wantArgs: []any{int64(4)},
		},
		{
			name:     "category and search",
			filter:   product.Filter{CategoryID: 4, Search: "milk"},
			wantSQL:  "SELECT id, name, category_id, bp, sp, image_url, created_at FROM products WHERE category_id = $1 AND name ILIKE $2 ORDER BY id",
			wantArgs: []any{int64(4), "%milk%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := repo.listQuery(tt.filter).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			if len(tt.wantArgs) == 0 {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestProductRepo_UpdateQuery_SkipsImmutableColumns(t *testing.T) {
	repo := NewProductRepo(nil)
	p := &entity.Product{
		ID:         3,
		Name:       "Milk",
		CategoryID: 1,
		BuyPrice:   types.MustMoney("40"),
		SellPrice:  types.MustMoney("55"),
		CreatedAt:  time.Now(),
	}

	sql, args, err := repo.updateQuery(p).ToSql()
	require.NoError(t, err)

	// squirrel sorts SetMap keys.
	assert.Equal(t, "UPDATE products SET bp = $1, category_id = $2, image_url = $3, name = $4, sp = $5 WHERE id = $6", sql)
	assert.Len(t, args, 6)
	assert.Equal(t, int64(3), args[5])
}

func TestCascadeDeleteProduct(t *testing.T) {
	stmts := cascadeDeleteProduct(9)
	require.NotEmpty(t, stmts)

	last := stmts[len(stmts)-1]
	assert.Equal(t, "DELETE FROM products WHERE id = $1", last.SQL)
	for _, s := range stmts {
		assert.Equal(t, []any{int64(9)}, s.Args)
	}

	// Inventory references are cleared before the inventory rows go.
	assert.Contains(t, stmts[0].SQL, "UPDATE transactions")
	assert.Contains(t, stmts[1].SQL, "UPDATE payments")
	assert.Contains(t, stmts[2].SQL, "DELETE FROM inventory")
}
