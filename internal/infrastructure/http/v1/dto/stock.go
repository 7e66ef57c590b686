package dto

import (
	"time"

	"inventrack/internal/core/entity"
	"inventrack/internal/core/types"
	"inventrack/internal/domain/registers/stock"
)

// InventoryRequest records an intake snapshot.
type InventoryRequest struct {
	ProductID      int64  `json:"productId" binding:"required,min=1"`
	Quantity       int    `json:"quantity" binding:"min=0"`
	SpoiltQuantity int    `json:"spoiltQuantity" binding:"min=0"`
	PaymentStatus  string `json:"paymentStatus" binding:"required,payment_status"`
}

// ToInput converts to engine input.
func (r *InventoryRequest) ToInput() stock.InventoryInput {
	return stock.InventoryInput{
		ProductID:      r.ProductID,
		Quantity:       r.Quantity,
		SpoiltQuantity: r.SpoiltQuantity,
		PaymentStatus:  entity.PaymentStatus(r.PaymentStatus),
	}
}

// InventoryFilter narrows GET /inventory.
type InventoryFilter struct {
	ProductID     int64  `form:"productId" binding:"omitempty,min=1"`
	PaymentStatus string `form:"paymentStatus" binding:"omitempty,payment_status"`
}

// ToFilter converts to engine filter.
func (f *InventoryFilter) ToFilter() stock.InventoryFilter {
	return stock.InventoryFilter{
		ProductID:     f.ProductID,
		PaymentStatus: entity.PaymentStatus(f.PaymentStatus),
	}
}

// QuantityRequest carries a single quantity (spoilage, returns).
type QuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// SaleRequest records a sale. Price defaults to the product's sell price.
type SaleRequest struct {
	ProductID int64      `json:"productId" binding:"required,min=1"`
	Quantity  int        `json:"quantity" binding:"required,min=1"`
	Price     *string    `json:"price" binding:"omitempty,money"`
	SaleDate  *time.Time `json:"saleDate"`
}

// ToInput converts to engine input.
func (r *SaleRequest) ToInput() stock.SaleInput {
	in := stock.SaleInput{ProductID: r.ProductID, Quantity: r.Quantity}
	if r.Price != nil {
		p := parseMoney(*r.Price)
		in.UnitPrice = &p
	}
	if r.SaleDate != nil {
		in.Date = *r.SaleDate
	}
	return in
}

// PurchaseRequest records a purchase.
type PurchaseRequest struct {
	ProductID    int64      `json:"productId" binding:"required,min=1"`
	Quantity     int        `json:"quantity" binding:"required,min=1"`
	Price        string     `json:"price" binding:"required,money"`
	PurchaseDate *time.Time `json:"purchaseDate"`
}

// ToInput converts to engine input.
func (r *PurchaseRequest) ToInput() stock.PurchaseInput {
	in := stock.PurchaseInput{ProductID: r.ProductID, Quantity: r.Quantity, UnitPrice: parseMoney(r.Price)}
	if r.PurchaseDate != nil {
		in.Date = *r.PurchaseDate
	}
	return in
}

// LedgerQuery narrows GET /sales and GET /purchases.
type LedgerQuery struct {
	PaginationRequest
	ProductID int64 `form:"productId" binding:"omitempty,min=1"`
}

// ToFilter converts to engine filter.
func (q *LedgerQuery) ToFilter() stock.LedgerFilter {
	q.Defaults()
	return stock.LedgerFilter{ProductID: q.ProductID, Limit: q.Limit, Offset: q.Offset}
}

// SaleResponse is a sale with its computed total.
type SaleResponse struct {
	entity.Sale
	Total types.Money `json:"total"`
}

// FromSales adds totals to sales.
func FromSales(sales []entity.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, SaleResponse{Sale: s, Total: s.Total()})
	}
	return out
}

// StockResponse is the effective stock of one product.
type StockResponse struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}
