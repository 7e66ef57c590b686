package dto

import (
	"inventrack/internal/core/entity"
)

// CategoryRequest creates a category.
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ToEntity converts to domain entity.
func (r *CategoryRequest) ToEntity() *entity.Category {
	return &entity.Category{Name: r.Name, Description: r.Description}
}

// ProductRequest creates or replaces a product.
type ProductRequest struct {
	Name       string `json:"name" binding:"required"`
	CategoryID int64  `json:"categoryId" binding:"required,min=1"`
	BuyPrice   string `json:"bp" binding:"required,money"`
	SellPrice  string `json:"sp" binding:"required,money"`
	ImageURL   string `json:"imageUrl" binding:"omitempty,url"`
}

// ToEntity converts to domain entity.
func (r *ProductRequest) ToEntity() *entity.Product {
	return &entity.Product{
		Name:       r.Name,
		CategoryID: r.CategoryID,
		BuyPrice:   parseMoney(r.BuyPrice),
		SellPrice:  parseMoney(r.SellPrice),
		ImageURL:   r.ImageURL,
	}
}

// ProductFilter narrows GET /products.
type ProductFilter struct {
	CategoryID int64  `form:"categoryId" binding:"omitempty,min=1"`
	Search     string `form:"search"`
}

// SupplierRequest creates a supplier.
type SupplierRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactInfo string `json:"contactInfo"`
}

// ToEntity converts to domain entity.
func (r *SupplierRequest) ToEntity() *entity.Supplier {
	return &entity.Supplier{Name: r.Name, ContactInfo: r.ContactInfo}
}

// SupplierProductRequest records a supplier's offer.
type SupplierProductRequest struct {
	SupplierID int64  `json:"supplierId" binding:"required,min=1"`
	ProductID  int64  `json:"productId" binding:"required,min=1"`
	Quantity   int    `json:"quantity" binding:"min=0"`
	Price      string `json:"price" binding:"required,money"`
}

// ToEntity converts to domain entity.
func (r *SupplierProductRequest) ToEntity() *entity.SupplierProduct {
	return &entity.SupplierProduct{
		SupplierID: r.SupplierID,
		ProductID:  r.ProductID,
		Quantity:   r.Quantity,
		Price:      parseMoney(r.Price),
	}
}

// SupplierProductFilter narrows GET /supplier-products.
type SupplierProductFilter struct {
	SupplierID int64 `form:"supplierId" binding:"omitempty,min=1"`
}
