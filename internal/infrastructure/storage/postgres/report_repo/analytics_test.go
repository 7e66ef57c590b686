package report_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsRepo_SalesQuery(t *testing.T) {
	repo := NewAnalyticsRepo(nil)

	sql, args, err := repo.salesQuery(nil).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, product_id, quantity, price, sale_date FROM sales ORDER BY id", sql)
	assert.Empty(t, args)

	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sql, args, err = repo.salesQuery(&since).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, product_id, quantity, price, sale_date FROM sales WHERE sale_date >= $1 ORDER BY id", sql)
	assert.Equal(t, []any{since}, args)
}
