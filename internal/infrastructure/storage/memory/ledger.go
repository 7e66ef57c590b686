package memory

import (
	"context"
	"time"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/domain/registers/stock"
)

// LedgerRepo implements stock.Repository and analytics.LedgerReader.
type LedgerRepo struct {
	s *Store
}

var _ stock.Repository = (*LedgerRepo)(nil)

// GetProduct implements stock.Repository.
func (r *LedgerRepo) GetProduct(ctx context.Context, productID int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.with(ctx, func(d *data) error {
		p, ok := d.products[productID]
		if !ok {
			return apperror.NewNotFound("product", productID)
		}
		out = &p
		return nil
	})
	return out, err
}

// LockProduct implements stock.Repository. The store lock already serializes
// units of work.
func (r *LedgerRepo) LockProduct(ctx context.Context, productID int64) (*entity.Product, error) {
	return r.GetProduct(ctx, productID)
}

func components(d *data, productID int64) entity.StockComponents {
	c := entity.StockComponents{ProductID: productID}
	for _, inv := range d.inventory {
		if inv.ProductID == productID {
			c.Usable += inv.Usable()
		}
	}
	for _, p := range d.purchases {
		if p.ProductID == productID {
			c.Purchased += p.Quantity
		}
	}
	for _, s := range d.sales {
		if s.ProductID == productID {
			c.Sold += s.Quantity
		}
	}
	for _, ret := range d.returns {
		if sale, ok := d.sales[ret.SaleID]; ok && sale.ProductID == productID {
			c.Returned += ret.Quantity
		}
	}
	return c
}

// GetComponents implements stock.Repository.
func (r *LedgerRepo) GetComponents(ctx context.Context, productID int64) (entity.StockComponents, error) {
	var out entity.StockComponents
	err := r.s.with(ctx, func(d *data) error {
		out = components(d, productID)
		return nil
	})
	return out, err
}

// ListComponents implements stock.Repository.
func (r *LedgerRepo) ListComponents(ctx context.Context) ([]entity.StockComponents, error) {
	var out []entity.StockComponents
	err := r.s.with(ctx, func(d *data) error {
		for _, p := range sorted(d.products) {
			out = append(out, components(d, p.ID))
		}
		return nil
	})
	return out, err
}

// CreatePurchase implements stock.Repository.
func (r *LedgerRepo) CreatePurchase(ctx context.Context, p *entity.Purchase) error {
	return r.s.with(ctx, func(d *data) error {
		if _, ok := d.products[p.ProductID]; !ok {
			return apperror.NewNotFound("product", p.ProductID)
		}
		p.ID = d.next("purchases")
		d.purchases[p.ID] = *p
		return nil
	})
}

// CreateSale implements stock.Repository.
func (r *LedgerRepo) CreateSale(ctx context.Context, s *entity.Sale) error {
	return r.s.with(ctx, func(d *data) error {
		if _, ok := d.products[s.ProductID]; !ok {
			return apperror.NewNotFound("product", s.ProductID)
		}
		s.ID = d.next("sales")
		d.sales[s.ID] = *s
		return nil
	})
}

// CreateSaleReturn implements stock.Repository.
func (r *LedgerRepo) CreateSaleReturn(ctx context.Context, ret *entity.SaleReturn) error {
	return r.s.with(ctx, func(d *data) error {
		if _, ok := d.sales[ret.SaleID]; !ok {
			return apperror.NewNotFound("sale", ret.SaleID)
		}
		ret.ID = d.next("sale_returns")
		d.returns[ret.ID] = *ret
		return nil
	})
}

// CreateInventory implements stock.Repository.
func (r *LedgerRepo) CreateInventory(ctx context.Context, inv *entity.Inventory) error {
	return r.s.with(ctx, func(d *data) error {
		if _, ok := d.products[inv.ProductID]; !ok {
			return apperror.NewNotFound("product", inv.ProductID)
		}
		inv.ID = d.next("inventory")
		d.inventory[inv.ID] = *inv
		return nil
	})
}

// GetSale implements stock.Repository.
func (r *LedgerRepo) GetSale(ctx context.Context, saleID int64) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.s.with(ctx, func(d *data) error {
		s, ok := d.sales[saleID]
		if !ok {
			return apperror.NewNotFound("sale", saleID)
		}
		out = &s
		return nil
	})
	return out, err
}

// LockSale implements stock.Repository.
func (r *LedgerRepo) LockSale(ctx context.Context, saleID int64) (*entity.Sale, error) {
	return r.GetSale(ctx, saleID)
}

// ReturnedQuantity implements stock.Repository.
func (r *LedgerRepo) ReturnedQuantity(ctx context.Context, saleID int64) (int, error) {
	total := 0
	err := r.s.with(ctx, func(d *data) error {
		for _, ret := range d.returns {
			if ret.SaleID == saleID {
				total += ret.Quantity
			}
		}
		return nil
	})
	return total, err
}

// GetInventory implements stock.Repository.
func (r *LedgerRepo) GetInventory(ctx context.Context, inventoryID int64) (*entity.Inventory, error) {
	var out *entity.Inventory
	err := r.s.with(ctx, func(d *data) error {
		inv, ok := d.inventory[inventoryID]
		if !ok {
			return apperror.NewNotFound("inventory", inventoryID)
		}
		out = &inv
		return nil
	})
	return out, err
}

// LockInventory implements stock.Repository.
func (r *LedgerRepo) LockInventory(ctx context.Context, inventoryID int64) (*entity.Inventory, error) {
	return r.GetInventory(ctx, inventoryID)
}

// UpdateSpoilt implements stock.Repository.
func (r *LedgerRepo) UpdateSpoilt(ctx context.Context, inventoryID int64, spoilt int) error {
	return r.s.with(ctx, func(d *data) error {
		inv, ok := d.inventory[inventoryID]
		if !ok {
			return apperror.NewNotFound("inventory", inventoryID)
		}
		inv.SpoiltQuantity = spoilt
		d.inventory[inventoryID] = inv
		return nil
	})
}

// ListInventory implements stock.Repository.
func (r *LedgerRepo) ListInventory(ctx context.Context, filter stock.InventoryFilter) ([]entity.Inventory, error) {
	out := []entity.Inventory{}
	err := r.s.with(ctx, func(d *data) error {
		for _, inv := range sorted(d.inventory) {
			if filter.ProductID > 0 && inv.ProductID != filter.ProductID {
				continue
			}
			if filter.PaymentStatus != "" && inv.PaymentStatus != filter.PaymentStatus {
				continue
			}
			out = append(out, inv)
		}
		return nil
	})
	return out, err
}

// ListSales implements stock.Repository. Newest first.
func (r *LedgerRepo) ListSales(ctx context.Context, filter stock.LedgerFilter) ([]entity.Sale, error) {
	var out []entity.Sale
	err := r.s.with(ctx, func(d *data) error {
		for _, s := range reversed(sorted(d.sales)) {
			if filter.ProductID > 0 && s.ProductID != filter.ProductID {
				continue
			}
			out = append(out, s)
		}
		return nil
	})
	return page(out, filter.Limit, filter.Offset), err
}

// ListPurchases implements stock.Repository. Newest first.
func (r *LedgerRepo) ListPurchases(ctx context.Context, filter stock.LedgerFilter) ([]entity.Purchase, error) {
	var out []entity.Purchase
	err := r.s.with(ctx, func(d *data) error {
		for _, p := range reversed(sorted(d.purchases)) {
			if filter.ProductID > 0 && p.ProductID != filter.ProductID {
				continue
			}
			out = append(out, p)
		}
		return nil
	})
	return page(out, filter.Limit, filter.Offset), err
}

// ListSaleReturns implements stock.Repository.
func (r *LedgerRepo) ListSaleReturns(ctx context.Context, saleID int64) ([]entity.SaleReturn, error) {
	out := []entity.SaleReturn{}
	err := r.s.with(ctx, func(d *data) error {
		for _, ret := range sorted(d.returns) {
			if ret.SaleID == saleID {
				out = append(out, ret)
			}
		}
		return nil
	})
	return out, err
}

// --- analytics.LedgerReader ---

// ListProducts returns every product ordered by id.
func (r *LedgerRepo) ListProducts(ctx context.Context) ([]entity.Product, error) {
	var out []entity.Product
	err := r.s.with(ctx, func(d *data) error {
		out = sorted(d.products)
		return nil
	})
	return out, err
}

// ListSalesSince returns sales on or after since, ordered by id.
func (r *LedgerRepo) ListSalesSince(ctx context.Context, since *time.Time) ([]entity.Sale, error) {
	var out []entity.Sale
	err := r.s.with(ctx, func(d *data) error {
		for _, s := range sorted(d.sales) {
			if since != nil && s.SaleDate.Before(*since) {
				continue
			}
			out = append(out, s)
		}
		return nil
	})
	return out, err
}

// ListAllPurchases returns every purchase ordered by id.
func (r *LedgerRepo) ListAllPurchases(ctx context.Context) ([]entity.Purchase, error) {
	var out []entity.Purchase
	err := r.s.with(ctx, func(d *data) error {
		out = sorted(d.purchases)
		return nil
	})
	return out, err
}

// ListAllSaleReturns returns every sale return ordered by id.
func (r *LedgerRepo) ListAllSaleReturns(ctx context.Context) ([]entity.SaleReturn, error) {
	var out []entity.SaleReturn
	err := r.s.with(ctx, func(d *data) error {
		out = sorted(d.returns)
		return nil
	})
	return out, err
}

func page[V any](in []V, limit, offset int) []V {
	if offset > 0 {
		if offset >= len(in) {
			return []V{}
		}
		in = in[offset:]
	}
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	if in == nil {
		return []V{}
	}
	return in
}
