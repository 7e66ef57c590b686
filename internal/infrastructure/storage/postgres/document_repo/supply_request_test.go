package document_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventrack/internal/core/entity"
	"inventrack/internal/domain/documents/supply_request"
)

func TestSupplyRequestRepo_StatusQuery(t *testing.T) {
	repo := NewSupplyRequestRepo(nil)

	sql, args, err := repo.statusQuery(7, entity.SupplyApproved, 2, entity.SupplyCompleted).ToSql()
	require.NoError(t, err)

	// squirrel.Eq renders keys sorted.
	assert.Equal(t,
		"UPDATE supply_requests SET status = $1, version = version + 1, updated_at = now() WHERE id = $2 AND status = $3 AND version = $4",
		sql)
	assert.Equal(t, []any{entity.SupplyCompleted, int64(7), entity.SupplyApproved, 2}, args)
}

func TestSupplyRequestRepo_UpdateQuery_RequiresPending(t *testing.T) {
	repo := NewSupplyRequestRepo(nil)
	sr := &entity.SupplyRequest{ID: 3, ProductID: 4, Quantity: 12, ClerkID: 5}

	sql, args, err := repo.updateQuery(sr, 1).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE supply_requests SET product_id = $1, quantity = $2, clerk_id = $3, version = version + 1, updated_at = now() WHERE id = $4 AND status = $5 AND version = $6",
		sql)
	assert.Equal(t, []any{int64(4), 12, int64(5), int64(3), entity.SupplyPending, 1}, args)
}

func TestSupplyRequestRepo_ListQuery(t *testing.T) {
	repo := NewSupplyRequestRepo(nil)

	sql, args, err := repo.listQuery(supply_request.Filter{Status: entity.SupplyPending, ClerkID: 9}).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, product_id, quantity, clerk_id, status, version, created_at, updated_at FROM supply_requests WHERE status = $1 AND clerk_id = $2 ORDER BY id",
		sql)
	assert.Equal(t, []any{entity.SupplyPending, int64(9)}, args)
}
