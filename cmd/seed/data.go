package main

import (
	"fmt"
	"time"

	"inventrack/internal/core/entity"
	"inventrack/internal/core/security"
	"inventrack/internal/core/types"
)

const truncateSQL = `TRUNCATE transactions, payments, supply_requests, sale_returns, sales, purchases,
	inventory, supplier_products, suppliers, products, categories, refresh_tokens, accounts
	RESTART IDENTITY CASCADE`

// resetSequenceSQL moves a BIGSERIAL sequence past the seeded ids.
func resetSequenceSQL(table string) string {
	return fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT max(id) FROM %s), 0) + 1, false)`,
		table, table)
}

type demoConfig struct {
	Now           time.Time
	AdminEmail    string
	AdminPassword string // bcrypt hash
	ClerkEmail    string
	ClerkPassword string // bcrypt hash
}

type seedTable struct {
	Table   string
	Columns []string
	Rows    [][]any
}

type demoProduct struct {
	name     string
	category int64
	bp, sp   string
}

var demoCategories = []string{"Dairy", "Bakery", "Beverages", "Produce"}

var demoProducts = []demoProduct{
	{"Fresh Milk 500ml", 1, "45.00", "60.00"},
	{"Yoghurt 250ml", 1, "55.00", "75.00"},
	{"White Bread 400g", 2, "50.00", "65.00"},
	{"Mandazi Pack", 2, "30.00", "45.00"},
	{"Soda 300ml", 3, "35.00", "50.00"},
	{"Mineral Water 1L", 3, "40.00", "60.00"},
	{"Tomatoes 1kg", 4, "80.00", "120.00"},
	{"Sukuma Wiki Bunch", 4, "15.00", "25.00"},
}

// demoData returns rows in foreign key order. Every product gets 60 units of
// intake and at most 5 units sold per day over a week, so stock never goes
// negative.
func demoData(cfg demoConfig) []seedTable {
	accounts := seedTable{
		Table:   "accounts",
		Columns: []string{"id", "name", "email", "password_hash", "role", "created_at"},
		Rows: [][]any{
			{int64(1), "Admin", cfg.AdminEmail, cfg.AdminPassword, string(security.RoleAdmin), cfg.Now},
			{int64(2), "Clerk", cfg.ClerkEmail, cfg.ClerkPassword, string(security.RoleClerk), cfg.Now},
		},
	}

	categories := seedTable{Table: "categories", Columns: []string{"id", "name", "description"}}
	for i, name := range demoCategories {
		categories.Rows = append(categories.Rows, []any{int64(i + 1), name, name + " products"})
	}

	products := seedTable{Table: "products", Columns: []string{"id", "name", "category_id", "bp", "sp", "image_url", "created_at"}}
	inventory := seedTable{Table: "inventory", Columns: []string{"id", "product_id", "quantity", "spoilt_quantity", "payment_status", "created_at"}}
	purchases := seedTable{Table: "purchases", Columns: []string{"id", "product_id", "quantity", "price", "purchase_date"}}
	sales := seedTable{Table: "sales", Columns: []string{"id", "product_id", "quantity", "price", "sale_date"}}

	statuses := []entity.PaymentStatus{entity.PaymentPaid, entity.PaymentUnpaid, entity.PaymentPartial}
	var saleID int64
	for i, p := range demoProducts {
		id := int64(i + 1)
		bp := types.MustMoney(p.bp)
		sp := types.MustMoney(p.sp)

		products.Rows = append(products.Rows, []any{id, p.name, p.category, bp, sp, "", cfg.Now})
		inventory.Rows = append(inventory.Rows, []any{id, id, 60, i % 3, string(statuses[i%len(statuses)]), cfg.Now.AddDate(0, 0, -8)})
		purchases.Rows = append(purchases.Rows, []any{id, id, 20, bp, cfg.Now.AddDate(0, 0, -7)})

		for day := 1; day <= 7; day++ {
			saleID++
			qty := 1 + (i+day)%5
			sales.Rows = append(sales.Rows, []any{saleID, id, qty, sp, cfg.Now.AddDate(0, 0, -day)})
		}
	}

	return []seedTable{accounts, categories, products, inventory, purchases, sales}
}
