package entity

import (
	"time"

	"inventrack/internal/core/apperror"
)

// SupplyStatus is the workflow state of a supply request.
type SupplyStatus string

const (
	SupplyPending   SupplyStatus = "pending"
	SupplyApproved  SupplyStatus = "approved"
	SupplyRejected  SupplyStatus = "rejected"
	SupplyCompleted SupplyStatus = "Completed"
)

// supplyTransitions lists the allowed next states. Rejected and Completed are terminal.
var supplyTransitions = map[SupplyStatus][]SupplyStatus{
	SupplyPending:  {SupplyApproved, SupplyRejected},
	SupplyApproved: {SupplyCompleted},
}

// Valid reports whether s is a known status.
func (s SupplyStatus) Valid() bool {
	switch s {
	case SupplyPending, SupplyApproved, SupplyRejected, SupplyCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s SupplyStatus) CanTransitionTo(next SupplyStatus) bool {
	for _, allowed := range supplyTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s SupplyStatus) IsTerminal() bool {
	return len(supplyTransitions[s]) == 0
}

// SupplyRequest is a clerk's request to restock a product.
// Version is bumped on every write and guards status changes.
type SupplyRequest struct {
	ID        int64        `db:"id" json:"id"`
	ProductID int64        `db:"product_id" json:"productId"`
	Quantity  int          `db:"quantity" json:"quantity"`
	ClerkID   int64        `db:"clerk_id" json:"clerkId"`
	Status    SupplyStatus `db:"status" json:"status"`
	Version   int          `db:"version" json:"version"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time    `db:"updated_at" json:"updatedAt"`
}

// CanModify checks if the request's fields may still be edited.
// Only pending requests are editable.
func (r *SupplyRequest) CanModify() error {
	if r.Status != SupplyPending {
		return apperror.NewInvalidTransition("supply request", string(r.Status), "edited").
			WithDetail("id", r.ID)
	}
	return nil
}

// CheckTransition returns InvalidTransition if r cannot move to next.
func (r *SupplyRequest) CheckTransition(next SupplyStatus) error {
	if !r.Status.CanTransitionTo(next) {
		return apperror.NewInvalidTransition("supply request", string(r.Status), string(next)).
			WithDetail("id", r.ID)
	}
	return nil
}
