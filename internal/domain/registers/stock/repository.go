// Package stock provides the stock accounting engine: every operation that
// changes a product's effective on-hand quantity goes through it.
package stock

import (
	"context"

	"inventrack/internal/core/entity"
)

// Repository defines ledger storage used by the engine.
// Lock* methods take a row lock for the rest of the current transaction.
type Repository interface {
	// Products

	// GetProduct returns a product or NotFound.
	GetProduct(ctx context.Context, productID int64) (*entity.Product, error)

	// LockProduct returns a product and locks its row; serializes stock checks per product.
	LockProduct(ctx context.Context, productID int64) (*entity.Product, error)

	// Effective stock inputs

	// GetComponents returns ledger sums for one product (zeros when it has no rows).
	GetComponents(ctx context.Context, productID int64) (entity.StockComponents, error)

	// ListComponents returns ledger sums for every product, ordered by product id.
	ListComponents(ctx context.Context) ([]entity.StockComponents, error)

	// Ledger rows

	CreatePurchase(ctx context.Context, p *entity.Purchase) error
	CreateSale(ctx context.Context, s *entity.Sale) error
	CreateSaleReturn(ctx context.Context, r *entity.SaleReturn) error
	CreateInventory(ctx context.Context, inv *entity.Inventory) error

	// GetSale returns a sale or NotFound.
	GetSale(ctx context.Context, saleID int64) (*entity.Sale, error)

	// LockSale returns a sale and locks its row; serializes returns against it.
	LockSale(ctx context.Context, saleID int64) (*entity.Sale, error)

	// ReturnedQuantity sums all returns recorded for a sale.
	ReturnedQuantity(ctx context.Context, saleID int64) (int, error)

	// GetInventory returns an inventory row or NotFound.
	GetInventory(ctx context.Context, inventoryID int64) (*entity.Inventory, error)

	// LockInventory returns an inventory row and locks it.
	LockInventory(ctx context.Context, inventoryID int64) (*entity.Inventory, error)

	// UpdateSpoilt sets spoilt_quantity on an inventory row.
	UpdateSpoilt(ctx context.Context, inventoryID int64, spoilt int) error

	// Listing

	ListInventory(ctx context.Context, filter InventoryFilter) ([]entity.Inventory, error)
	ListSales(ctx context.Context, filter LedgerFilter) ([]entity.Sale, error)
	ListPurchases(ctx context.Context, filter LedgerFilter) ([]entity.Purchase, error)
	ListSaleReturns(ctx context.Context, saleID int64) ([]entity.SaleReturn, error)
}

// InventoryFilter narrows inventory listings.
type InventoryFilter struct {
	ProductID     int64
	PaymentStatus entity.PaymentStatus
}

// LedgerFilter narrows sale/purchase listings.
type LedgerFilter struct {
	ProductID int64
	Limit     int
	Offset    int
}
