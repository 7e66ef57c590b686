package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoData(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	tables := demoData(demoConfig{Now: now, AdminEmail: "a@x.io", AdminPassword: "h1", ClerkEmail: "c@x.io", ClerkPassword: "h2"})

	names := make([]string, 0, len(tables))
	for _, tbl := range tables {
		names = append(names, tbl.Table)
		for _, row := range tbl.Rows {
			require.Len(t, row, len(tbl.Columns), tbl.Table)
		}
	}
	assert.Equal(t, []string{"accounts", "categories", "products", "inventory", "purchases", "sales"}, names)

	// Stock per product never goes negative: usable + purchased - sold >= 0.
	stock := map[int64]int{}
	for _, row := range tables[3].Rows {
		stock[row[1].(int64)] += row[2].(int) - row[3].(int)
	}
	for _, row := range tables[4].Rows {
		stock[row[1].(int64)] += row[2].(int)
	}
	for _, row := range tables[5].Rows {
		stock[row[1].(int64)] -= row[2].(int)
	}
	require.Len(t, stock, len(demoProducts))
	for pid, qty := range stock {
		assert.GreaterOrEqual(t, qty, 0, "product %d", pid)
	}
}

func TestResetSequenceSQL(t *testing.T) {
	assert.Equal(t,
		"SELECT setval(pg_get_serial_sequence('sales', 'id'), COALESCE((SELECT max(id) FROM sales), 0) + 1, false)",
		resetSequenceSQL("sales"))
}
