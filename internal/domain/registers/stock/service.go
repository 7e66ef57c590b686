package stock

import (
	"context"
	"fmt"
	"time"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/core/tx"
	"inventrack/internal/core/types"
	"inventrack/pkg/logger"
)

// Engine maintains a non-negative effective stock per product.
// Effective stock is never cached: it is derived from ledger sums inside the
// same unit of work as the mutation that depends on it.
type Engine struct {
	repo  Repository
	txm   tx.Manager
	clock func() time.Time
}

// NewEngine creates a new stock accounting engine.
func NewEngine(repo Repository, txm tx.Manager) *Engine {
	return &Engine{
		repo:  repo,
		txm:   txm,
		clock: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source (tests, seeding).
func (e *Engine) WithClock(clock func() time.Time) *Engine {
	e.clock = clock
	return e
}

// PurchaseInput describes an inbound stock movement.
type PurchaseInput struct {
	ProductID int64
	Quantity  int
	UnitPrice types.Money
	Date      time.Time // zero means now
}

// SaleInput describes an outbound stock movement.
type SaleInput struct {
	ProductID int64
	Quantity  int
	UnitPrice *types.Money // nil means the product's sell price
	Date      time.Time    // zero means now
}

// InventoryInput describes a stock intake snapshot.
type InventoryInput struct {
	ProductID      int64
	Quantity       int
	SpoiltQuantity int
	PaymentStatus  entity.PaymentStatus
}

// StockLevel is the effective stock of one product.
type StockLevel struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func (e *Engine) dateOrNow(d time.Time) time.Time {
	if d.IsZero() {
		return e.clock()
	}
	return d.UTC()
}

// RecordPurchase appends a Purchase row, raising effective stock by quantity.
func (e *Engine) RecordPurchase(ctx context.Context, in PurchaseInput) (*entity.Purchase, error) {
	if in.Quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", in.Quantity)
	}
	if in.UnitPrice.IsNegative() {
		return nil, apperror.NewValidation("price must not be negative").WithDetail("field", "price")
	}

	purchase := &entity.Purchase{
		ProductID:    in.ProductID,
		Quantity:     in.Quantity,
		Price:        in.UnitPrice,
		PurchaseDate: e.dateOrNow(in.Date),
	}

	err := e.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := e.repo.GetProduct(ctx, in.ProductID); err != nil {
			return err
		}
		if err := e.repo.CreatePurchase(ctx, purchase); err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase recorded",
		"purchase_id", purchase.ID,
		"product_id", purchase.ProductID,
		"quantity", purchase.Quantity,
	)

	return purchase, nil
}

// RecordSale appends a Sale row, lowering effective stock by quantity.
// The sale is rejected with InsufficientStock when stock would go negative.
func (e *Engine) RecordSale(ctx context.Context, in SaleInput) (*entity.Sale, error) {
	if in.Quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", in.Quantity)
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, apperror.NewValidation("price must not be negative").WithDetail("field", "price")
	}

	var sale *entity.Sale
	err := e.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		product, err := e.repo.LockProduct(ctx, in.ProductID)
		if err != nil {
			return err
		}

		components, err := e.repo.GetComponents(ctx, in.ProductID)
		if err != nil {
			return fmt.Errorf("get stock components: %w", err)
		}
		if available := components.Effective(); available < in.Quantity {
			return apperror.NewInsufficientStock(in.ProductID, in.Quantity, available)
		}

		price := product.SellPrice
		if in.UnitPrice != nil {
			price = *in.UnitPrice
		}

		sale = &entity.Sale{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			Price:     price,
			SaleDate:  e.dateOrNow(in.Date),
		}
		if err := e.repo.CreateSale(ctx, sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale recorded",
		"sale_id", sale.ID,
		"product_id", sale.ProductID,
		"quantity", sale.Quantity,
	)

	return sale, nil
}

// RecordReturn appends a SaleReturn row for an existing sale.
// The cumulative returned quantity can never exceed the sold quantity.
func (e *Engine) RecordReturn(ctx context.Context, saleID int64, quantity int) (*entity.SaleReturn, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", quantity)
	}

	ret := &entity.SaleReturn{
		SaleID:     saleID,
		Quantity:   quantity,
		ReturnDate: e.clock(),
	}

	err := e.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		sale, err := e.repo.LockSale(ctx, saleID)
		if err != nil {
			return err
		}

		returned, err := e.repo.ReturnedQuantity(ctx, saleID)
		if err != nil {
			return fmt.Errorf("sum returns: %w", err)
		}

		if remaining := sale.Quantity - returned; quantity > remaining {
			return apperror.NewValidation("return exceeds quantity still returnable for this sale").
				WithDetail("field", "quantity").
				WithDetail("sold", sale.Quantity).
				WithDetail("already_returned", returned).
				WithDetail("requested", quantity)
		}

		if err := e.repo.CreateSaleReturn(ctx, ret); err != nil {
			return fmt.Errorf("create sale return: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale return recorded",
		"return_id", ret.ID,
		"sale_id", saleID,
		"quantity", quantity,
	)

	return ret, nil
}

// RecordSpoilage marks quantity units of an inventory intake as spoilt.
// Fails when spoilt would exceed the intake quantity, or when the product's
// effective stock cannot absorb the loss.
func (e *Engine) RecordSpoilage(ctx context.Context, inventoryID int64, quantity int) (*entity.Inventory, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", quantity)
	}

	var inv *entity.Inventory
	err := e.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := e.repo.GetInventory(ctx, inventoryID)
		if err != nil {
			return err
		}

		// product before inventory, same order as every other writer
		if _, err := e.repo.LockProduct(ctx, current.ProductID); err != nil {
			return err
		}
		inv, err = e.repo.LockInventory(ctx, inventoryID)
		if err != nil {
			return err
		}

		if inv.SpoiltQuantity+quantity > inv.Quantity {
			return apperror.NewValidation("spoilt quantity would exceed recorded quantity").
				WithDetail("field", "quantity").
				WithDetail("quantity", inv.Quantity).
				WithDetail("spoilt", inv.SpoiltQuantity).
				WithDetail("requested", quantity)
		}

		components, err := e.repo.GetComponents(ctx, inv.ProductID)
		if err != nil {
			return fmt.Errorf("get stock components: %w", err)
		}
		if available := components.Effective(); available < quantity {
			return apperror.NewInsufficientStock(inv.ProductID, quantity, available)
		}

		inv.SpoiltQuantity += quantity
		if err := e.repo.UpdateSpoilt(ctx, inv.ID, inv.SpoiltQuantity); err != nil {
			return fmt.Errorf("update spoilt quantity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "spoilage recorded",
		"inventory_id", inv.ID,
		"product_id", inv.ProductID,
		"quantity", quantity,
		"spoilt_total", inv.SpoiltQuantity,
	)

	return inv, nil
}

// RecordInventory stores a stock intake snapshot.
func (e *Engine) RecordInventory(ctx context.Context, in InventoryInput) (*entity.Inventory, error) {
	if in.PaymentStatus == "" {
		in.PaymentStatus = entity.PaymentUnpaid
	}

	inv := &entity.Inventory{
		ProductID:      in.ProductID,
		Quantity:       in.Quantity,
		SpoiltQuantity: in.SpoiltQuantity,
		PaymentStatus:  in.PaymentStatus,
		CreatedAt:      e.clock(),
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	err := e.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := e.repo.GetProduct(ctx, in.ProductID); err != nil {
			return err
		}
		if err := e.repo.CreateInventory(ctx, inv); err != nil {
			return fmt.Errorf("create inventory: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "inventory recorded",
		"inventory_id", inv.ID,
		"product_id", inv.ProductID,
		"quantity", inv.Quantity,
	)

	return inv, nil
}

// EffectiveStock returns the product's on-hand quantity computed from the ledger.
func (e *Engine) EffectiveStock(ctx context.Context, productID int64) (int, error) {
	var qty int
	err := e.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := e.repo.GetProduct(ctx, productID); err != nil {
			return err
		}
		components, err := e.repo.GetComponents(ctx, productID)
		if err != nil {
			return fmt.Errorf("get stock components: %w", err)
		}
		qty = components.Effective()
		return nil
	})
	return qty, err
}

// StockLevels returns effective stock for every product, ordered by product id.
func (e *Engine) StockLevels(ctx context.Context) ([]StockLevel, error) {
	var levels []StockLevel
	err := e.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		all, err := e.repo.ListComponents(ctx)
		if err != nil {
			return fmt.Errorf("list stock components: %w", err)
		}
		levels = make([]StockLevel, 0, len(all))
		for _, c := range all {
			levels = append(levels, StockLevel{ProductID: c.ProductID, Quantity: c.Effective()})
		}
		return nil
	})
	return levels, err
}

// --- Read side passthroughs used by the HTTP layer ---

// GetSale returns a sale.
func (e *Engine) GetSale(ctx context.Context, saleID int64) (*entity.Sale, error) {
	return e.repo.GetSale(ctx, saleID)
}

// GetInventory returns an inventory row.
func (e *Engine) GetInventory(ctx context.Context, inventoryID int64) (*entity.Inventory, error) {
	return e.repo.GetInventory(ctx, inventoryID)
}

// ListInventory lists inventory rows.
func (e *Engine) ListInventory(ctx context.Context, filter InventoryFilter) ([]entity.Inventory, error) {
	return e.repo.ListInventory(ctx, filter)
}

// ListSales lists sales, newest first.
func (e *Engine) ListSales(ctx context.Context, filter LedgerFilter) ([]entity.Sale, error) {
	return e.repo.ListSales(ctx, filter)
}

// ListPurchases lists purchases, newest first.
func (e *Engine) ListPurchases(ctx context.Context, filter LedgerFilter) ([]entity.Purchase, error) {
	return e.repo.ListPurchases(ctx, filter)
}

// ListSaleReturns lists returns recorded against a sale.
func (e *Engine) ListSaleReturns(ctx context.Context, saleID int64) ([]entity.SaleReturn, error) {
	if _, err := e.repo.GetSale(ctx, saleID); err != nil {
		return nil, err
	}
	return e.repo.ListSaleReturns(ctx, saleID)
}
