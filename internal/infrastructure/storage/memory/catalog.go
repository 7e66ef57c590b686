package memory

import (
	"context"
	"strings"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/domain/catalogs/category"
	"inventrack/internal/domain/catalogs/product"
	"inventrack/internal/domain/catalogs/supplier"
)

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	s *Store
}

var _ category.Repository = (*CategoryRepo)(nil)

// Create implements category.Repository.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	return r.s.with(ctx, func(d *data) error {
		for _, other := range d.categories {
			if strings.EqualFold(other.Name, c.Name) {
				return apperror.NewDuplicate("category", "name", c.Name)
			}
		}
		c.ID = d.next("categories")
		d.categories[c.ID] = *c
		return nil
	})
}

// GetByID implements category.Repository.
func (r *CategoryRepo) GetByID(ctx context.Context, categoryID int64) (*entity.Category, error) {
	var out *entity.Category
	err := r.s.with(ctx, func(d *data) error {
		c, ok := d.categories[categoryID]
		if !ok {
			return apperror.NewNotFound("category", categoryID)
		}
		out = &c
		return nil
	})
	return out, err
}

// GetByName implements category.Repository.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	var out *entity.Category
	err := r.s.with(ctx, func(d *data) error {
		for _, c := range d.categories {
			if strings.EqualFold(c.Name, name) {
				out = &c
				return nil
			}
		}
		return apperror.NewNotFound("category", name)
	})
	return out, err
}

// List implements category.Repository. Ordered by name.
func (r *CategoryRepo) List(ctx context.Context) ([]entity.Category, error) {
	var out []entity.Category
	err := r.s.with(ctx, func(d *data) error {
		out = sorted(d.categories)
		return nil
	})
	sortBy(out, func(a, b entity.Category) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) })
	return out, err
}

// ProductRepo implements product.Repository.
type ProductRepo struct {
	s *Store
}

var _ product.Repository = (*ProductRepo)(nil)

// Create implements product.Repository.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.s.with(ctx, func(d *data) error {
		if _, ok := d.categories[p.CategoryID]; !ok {
			return apperror.NewNotFound("category", p.CategoryID)
		}
		p.ID = d.next("products")
		d.products[p.ID] = *p
		return nil
	})
}

// GetByID implements product.Repository.
func (r *ProductRepo) GetByID(ctx context.Context, productID int64) (*entity.Product, error) {
	return (&LedgerRepo{s: r.s}).GetProduct(ctx, productID)
}

// Update implements product.Repository.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	return r.s.with(ctx, func(d *data) error {
		if _, ok := d.products[p.ID]; !ok {
			return apperror.NewNotFound("product", p.ID)
		}
		d.products[p.ID] = *p
		return nil
	})
}

// Delete implements product.Repository with the same cascade as the schema.
func (r *ProductRepo) Delete(ctx context.Context, productID int64) error {
	return r.s.with(ctx, func(d *data) error {
		if _, ok := d.products[productID]; !ok {
			return apperror.NewNotFound("product", productID)
		}

		for id, inv := range d.inventory {
			if inv.ProductID != productID {
				continue
			}
			delete(d.inventory, id)
			for tid, t := range d.transactions {
				if t.InventoryID != nil && *t.InventoryID == id {
					t.InventoryID = nil
					d.transactions[tid] = t
				}
			}
			for pid, p := range d.payments {
				if p.InventoryID != nil && *p.InventoryID == id {
					p.InventoryID = nil
					d.payments[pid] = p
				}
			}
		}
		for id, s := range d.sales {
			if s.ProductID != productID {
				continue
			}
			delete(d.sales, id)
			for rid, ret := range d.returns {
				if ret.SaleID == id {
					delete(d.returns, rid)
				}
			}
		}
		for id, p := range d.purchases {
			if p.ProductID == productID {
				delete(d.purchases, id)
			}
		}
		for id, o := range d.offers {
			if o.ProductID == productID {
				delete(d.offers, id)
			}
		}
		for id, sr := range d.supply {
			if sr.ProductID == productID {
				delete(d.supply, id)
			}
		}

		delete(d.products, productID)
		return nil
	})
}

// List implements product.Repository.
func (r *ProductRepo) List(ctx context.Context, filter product.Filter) ([]entity.Product, error) {
	out := []entity.Product{}
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	err := r.s.with(ctx, func(d *data) error {
		for _, p := range sorted(d.products) {
			if filter.CategoryID > 0 && p.CategoryID != filter.CategoryID {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
				continue
			}
			out = append(out, p)
		}
		return nil
	})
	return out, err
}

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	s *Store
}

var _ supplier.Repository = (*SupplierRepo)(nil)

// Create implements supplier.Repository.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	return r.s.with(ctx, func(d *data) error {
		s.ID = d.next("suppliers")
		d.suppliers[s.ID] = *s
		return nil
	})
}

// GetByID implements supplier.Repository.
func (r *SupplierRepo) GetByID(ctx context.Context, supplierID int64) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.s.with(ctx, func(d *data) error {
		s, ok := d.suppliers[supplierID]
		if !ok {
			return apperror.NewNotFound("supplier", supplierID)
		}
		out = &s
		return nil
	})
	return out, err
}

// List implements supplier.Repository.
func (r *SupplierRepo) List(ctx context.Context) ([]entity.Supplier, error) {
	var out []entity.Supplier
	err := r.s.with(ctx, func(d *data) error {
		out = sorted(d.suppliers)
		return nil
	})
	return out, err
}

// CreateOffer implements supplier.Repository.
func (r *SupplierRepo) CreateOffer(ctx context.Context, sp *entity.SupplierProduct) error {
	return r.s.with(ctx, func(d *data) error {
		sp.ID = d.next("supplier_products")
		d.offers[sp.ID] = *sp
		return nil
	})
}

// ListOffers implements supplier.Repository.
func (r *SupplierRepo) ListOffers(ctx context.Context, supplierID int64) ([]entity.SupplierProduct, error) {
	out := []entity.SupplierProduct{}
	err := r.s.with(ctx, func(d *data) error {
		for _, o := range sorted(d.offers) {
			if supplierID > 0 && o.SupplierID != supplierID {
				continue
			}
			out = append(out, o)
		}
		return nil
	})
	return out, err
}
