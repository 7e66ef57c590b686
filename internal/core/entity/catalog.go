// Package entity holds the persistent data model shared by the domain services
// and the storage implementations.
package entity

import (
	"strings"
	"time"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/types"
)

// Category groups products. Name is unique.
type Category struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

// Validate implements Validatable interface.
func (c *Category) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	return nil
}

// Product is a sellable item. BuyPrice is what the shop pays a supplier,
// SellPrice what it charges a customer.
type Product struct {
	ID         int64       `db:"id" json:"id"`
	Name       string      `db:"name" json:"name"`
	CategoryID int64       `db:"category_id" json:"categoryId"`
	BuyPrice   types.Money `db:"bp" json:"bp"`
	SellPrice  types.Money `db:"sp" json:"sp"`
	ImageURL   string      `db:"image_url" json:"imageUrl"`
	CreatedAt  time.Time   `db:"created_at" json:"createdAt"`
}

// Validate implements Validatable interface.
func (p *Product) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if p.CategoryID <= 0 {
		return apperror.NewValidation("category is required").WithDetail("field", "categoryId")
	}
	if p.BuyPrice.IsNegative() {
		return apperror.NewValidation("bp must not be negative").WithDetail("field", "bp")
	}
	if p.SellPrice.IsNegative() {
		return apperror.NewValidation("sp must not be negative").WithDetail("field", "sp")
	}
	return nil
}

// Supplier provides products.
type Supplier struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	ContactInfo string `db:"contact_info" json:"contactInfo"`
}

// Validate implements Validatable interface.
func (s *Supplier) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	return nil
}

// SupplierProduct is a supplier's offer for a product.
type SupplierProduct struct {
	ID         int64       `db:"id" json:"id"`
	SupplierID int64       `db:"supplier_id" json:"supplierId"`
	ProductID  int64       `db:"product_id" json:"productId"`
	Quantity   int         `db:"quantity" json:"quantity"`
	Price      types.Money `db:"price" json:"price"`
}

// Validate implements Validatable interface.
func (sp *SupplierProduct) Validate() error {
	if sp.SupplierID <= 0 {
		return apperror.NewValidation("supplier is required").WithDetail("field", "supplierId")
	}
	if sp.ProductID <= 0 {
		return apperror.NewValidation("product is required").WithDetail("field", "productId")
	}
	if sp.Quantity < 0 {
		return apperror.NewValidation("quantity must not be negative").WithDetail("field", "quantity")
	}
	if sp.Price.IsNegative() {
		return apperror.NewValidation("price must not be negative").WithDetail("field", "price")
	}
	return nil
}
