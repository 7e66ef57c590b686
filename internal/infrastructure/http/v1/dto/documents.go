package dto

import (
	"encoding/json"
	"strconv"
	"time"

	"inventrack/internal/core/entity"
	"inventrack/internal/domain/audit"
	"inventrack/internal/domain/documents/supply_request"
	"inventrack/internal/domain/payment"
)

// SupplyRequestCreate submits a supply request.
type SupplyRequestCreate struct {
	ProductID int64 `json:"productId" binding:"required,min=1"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// SupplyRequestPatch edits a pending supply request.
type SupplyRequestPatch struct {
	ProductID *int64 `json:"productId" binding:"omitempty,min=1"`
	Quantity  *int   `json:"quantity" binding:"omitempty,min=1"`
	ClerkID   *int64 `json:"clerkId" binding:"omitempty,min=1"`
}

// ToPatch converts to workflow patch.
func (r *SupplyRequestPatch) ToPatch() supply_request.Patch {
	return supply_request.Patch{ProductID: r.ProductID, Quantity: r.Quantity, ClerkID: r.ClerkID}
}

// SupplyRequestFilter narrows GET /supply-requests.
type SupplyRequestFilter struct {
	Status  string `form:"status"`
	ClerkID int64  `form:"clerkId" binding:"omitempty,min=1"`
}

// ToFilter converts to workflow filter.
func (f *SupplyRequestFilter) ToFilter() supply_request.Filter {
	return supply_request.Filter{Status: entity.SupplyStatus(f.Status), ClerkID: f.ClerkID}
}

// CompleteResponse reports the completed request and the purchase it booked.
type CompleteResponse struct {
	Request  *entity.SupplyRequest `json:"request"`
	Purchase *entity.Purchase      `json:"purchase"`
}

// PaymentRequest records a manual payment against an inventory intake.
type PaymentRequest struct {
	InventoryID int64      `json:"inventoryId" binding:"required,min=1"`
	Amount      string     `json:"amount" binding:"required,money"`
	PaymentDate *time.Time `json:"paymentDate"`
}

// ToInput converts to reconciler input.
func (r *PaymentRequest) ToInput() payment.ManualInput {
	in := payment.ManualInput{InventoryID: r.InventoryID, Amount: parseMoney(r.Amount)}
	if r.PaymentDate != nil {
		in.Date = *r.PaymentDate
	}
	return in
}

// MpesaCallback is the C2B validation/confirmation body. Amount arrives as
// either a JSON number or a string.
type MpesaCallback struct {
	TransID       string `json:"TransID"`
	BillRefNumber string `json:"BillRefNumber"`
	MSISDN        string `json:"MSISDN"`
	TransAmount   any    `json:"TransAmount"`
	Amount        any    `json:"Amount"`
}

// ToConfirmation converts to reconciler input.
func (r MpesaCallback) ToConfirmation() payment.Confirmation {
	amount := r.TransAmount
	if amount == nil {
		amount = r.Amount
	}
	return payment.Confirmation{
		TransID:   r.TransID,
		Reference: r.BillRefNumber,
		MSISDN:    r.MSISDN,
		Amount:    amountString(amount),
	}
}

func amountString(v any) string {
	switch a := v.(type) {
	case nil:
		return ""
	case string:
		return a
	case float64:
		return strconv.FormatFloat(a, 'f', -1, 64)
	case json.Number:
		return a.String()
	default:
		b, _ := json.Marshal(a)
		return string(b)
	}
}

// TransactionRequest records an activity journal row.
type TransactionRequest struct {
	InventoryID     *int64 `json:"inventoryId" binding:"omitempty,min=1"`
	TransactionType string `json:"transactionType" binding:"required,oneof=sale purchase return"`
	Quantity        int    `json:"quantity" binding:"required,min=1"`
}

// ToEntry converts to journal entry.
func (r *TransactionRequest) ToEntry() audit.Entry {
	return audit.Entry{
		InventoryID: r.InventoryID,
		Type:        entity.TransactionType(r.TransactionType),
		Quantity:    r.Quantity,
	}
}
