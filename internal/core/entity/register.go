package entity

import (
	"time"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/types"
)

// PaymentStatus of an inventory intake.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPaid, PaymentUnpaid, PaymentPartial:
		return true
	}
	return false
}

// Inventory is a stock intake snapshot for a product.
// Invariant: 0 <= SpoiltQuantity <= Quantity.
type Inventory struct {
	ID             int64         `db:"id" json:"id"`
	ProductID      int64         `db:"product_id" json:"productId"`
	Quantity       int           `db:"quantity" json:"quantity"`
	SpoiltQuantity int           `db:"spoilt_quantity" json:"spoiltQuantity"`
	PaymentStatus  PaymentStatus `db:"payment_status" json:"paymentStatus"`
	CreatedAt      time.Time     `db:"created_at" json:"createdAt"`
}

// Usable returns the units of this intake that count toward stock.
func (i *Inventory) Usable() int {
	return i.Quantity - i.SpoiltQuantity
}

// Validate implements Validatable interface.
func (i *Inventory) Validate() error {
	if i.ProductID <= 0 {
		return apperror.NewValidation("product is required").WithDetail("field", "productId")
	}
	if i.Quantity < 0 {
		return apperror.NewValidation("quantity must not be negative").WithDetail("field", "quantity")
	}
	if i.SpoiltQuantity < 0 || i.SpoiltQuantity > i.Quantity {
		return apperror.NewValidation("spoilt quantity must be between 0 and quantity").
			WithDetail("field", "spoiltQuantity").
			WithDetail("quantity", i.Quantity).
			WithDetail("spoiltQuantity", i.SpoiltQuantity)
	}
	if !i.PaymentStatus.Valid() {
		return apperror.NewValidation("unknown payment status").
			WithDetail("field", "paymentStatus").
			WithDetail("value", i.PaymentStatus)
	}
	return nil
}

// Sale is an outbound stock movement.
type Sale struct {
	ID        int64       `db:"id" json:"id"`
	ProductID int64       `db:"product_id" json:"productId"`
	Quantity  int         `db:"quantity" json:"quantity"`
	Price     types.Money `db:"price" json:"price"`
	SaleDate  time.Time   `db:"sale_date" json:"saleDate"`
}

// Total returns price * quantity.
func (s *Sale) Total() types.Money {
	return types.LineTotal(s.Price, s.Quantity)
}

// SaleReturn puts sold units back into stock.
type SaleReturn struct {
	ID         int64     `db:"id" json:"id"`
	SaleID     int64     `db:"sale_id" json:"saleId"`
	Quantity   int       `db:"quantity" json:"quantity"`
	ReturnDate time.Time `db:"return_date" json:"returnDate"`
}

// Purchase is an inbound stock movement.
type Purchase struct {
	ID           int64       `db:"id" json:"id"`
	ProductID    int64       `db:"product_id" json:"productId"`
	Quantity     int         `db:"quantity" json:"quantity"`
	Price        types.Money `db:"price" json:"price"`
	PurchaseDate time.Time   `db:"purchase_date" json:"purchaseDate"`
}

// Total returns price * quantity.
func (p *Purchase) Total() types.Money {
	return types.LineTotal(p.Price, p.Quantity)
}

// Payment is money received, bound to an inventory intake or to an account.
type Payment struct {
	ID          int64       `db:"id" json:"id"`
	InventoryID *int64      `db:"inventory_id" json:"inventoryId,omitempty"`
	AccountID   *int64      `db:"account_id" json:"accountId,omitempty"`
	Amount      types.Money `db:"amount" json:"amount"`
	Reference   string      `db:"reference" json:"reference,omitempty"`
	PaymentDate time.Time   `db:"payment_date" json:"paymentDate"`
}

// TransactionType classifies an activity journal row.
type TransactionType string

const (
	TransactionSale     TransactionType = "sale"
	TransactionPurchase TransactionType = "purchase"
	TransactionReturn   TransactionType = "return"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionSale, TransactionPurchase, TransactionReturn:
		return true
	}
	return false
}

// Transaction is an activity journal row: who did what to which intake.
type Transaction struct {
	ID          int64           `db:"id" json:"id"`
	AccountID   int64           `db:"account_id" json:"accountId"`
	InventoryID *int64          `db:"inventory_id" json:"inventoryId,omitempty"`
	Type        TransactionType `db:"transaction_type" json:"transactionType"`
	Quantity    int             `db:"quantity" json:"quantity"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// StockComponents are the ledger sums effective stock is derived from.
type StockComponents struct {
	ProductID int64 `db:"product_id"`
	Usable    int   `db:"usable"`    // sum(inventory.quantity - inventory.spoilt_quantity)
	Purchased int   `db:"purchased"` // sum(purchases.quantity)
	Sold      int   `db:"sold"`      // sum(sales.quantity)
	Returned  int   `db:"returned"`  // sum(sale_returns.quantity) over the product's sales
}

// Effective returns usable + purchased - sold + returned.
func (c StockComponents) Effective() int {
	return c.Usable + c.Purchased - c.Sold + c.Returned
}
