package register_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventrack/internal/core/entity"
	"inventrack/internal/domain/registers/stock"
	"inventrack/internal/infrastructure/storage/postgres"
)

func TestLedgerListQuery(t *testing.T) {
	b := postgres.Builder()

	tests := []struct {
		name     string
		filter   stock.LedgerFilter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "all",
			wantSQL: "SELECT id, product_id, quantity, price, sale_date FROM sales ORDER BY id DESC",
		},
		{
			name:     "product page",
			filter:   stock.LedgerFilter{ProductID: 2, Limit: 10, Offset: 20},
			wantSQL:  "SELECT id, product_id, quantity, price, sale_date FROM sales WHERE product_id = $1 ORDER BY id DESC LIMIT 10 OFFSET 20",
			wantArgs: []any{int64(2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := ledgerListQuery(b, salesTable, saleColumns, tt.filter).ToSql()
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

func TestInventoryListQuery(t *testing.T) {
	sql, args, err := inventoryListQuery(postgres.Builder(), stock.InventoryFilter{
		ProductID:     5,
		PaymentStatus: entity.PaymentUnpaid,
	}).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, product_id, quantity, spoilt_quantity, payment_status, created_at FROM inventory WHERE product_id = $1 AND payment_status = $2 ORDER BY id",
		sql)
	assert.Equal(t, []any{int64(5), entity.PaymentUnpaid}, args)
}

func TestComponentColumnsMatchEntity(t *testing.T) {
	cols := postgres.ExtractDBColumns[entity.StockComponents]()
	for _, c := range cols {
		assert.Contains(t, componentsSelect, "AS "+c)
	}
}
