package memory

import (
	"context"
	"time"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/domain/audit"
	"inventrack/internal/domain/documents/supply_request"
	"inventrack/internal/domain/payment"
)

// SupplyRequestRepo implements supply_request.Repository.
type SupplyRequestRepo struct {
	s *Store
}

var _ supply_request.Repository = (*SupplyRequestRepo)(nil)

// Create implements supply_request.Repository.
func (r *SupplyRequestRepo) Create(ctx context.Context, sr *entity.SupplyRequest) error {
	return r.s.with(ctx, func(d *data) error {
		if _, ok := d.products[sr.ProductID]; !ok {
			return apperror.NewNotFound("product", sr.ProductID)
		}
		sr.ID = d.next("supply_requests")
		if sr.Version == 0 {
			sr.Version = 1
		}
		d.supply[sr.ID] = *sr
		return nil
	})
}

// GetByID implements supply_request.Repository.
func (r *SupplyRequestRepo) GetByID(ctx context.Context, requestID int64) (*entity.SupplyRequest, error) {
	var out *entity.SupplyRequest
	err := r.s.with(ctx, func(d *data) error {
		sr, ok := d.supply[requestID]
		if !ok {
			return apperror.NewNotFound("supply request", requestID)
		}
		out = &sr
		return nil
	})
	return out, err
}

// List implements supply_request.Repository.
func (r *SupplyRequestRepo) List(ctx context.Context, filter supply_request.Filter) ([]entity.SupplyRequest, error) {
	out := []entity.SupplyRequest{}
	err := r.s.with(ctx, func(d *data) error {
		for _, sr := range sorted(d.supply) {
			if filter.Status != "" && sr.Status != filter.Status {
				continue
			}
			if filter.ClerkID > 0 && sr.ClerkID != filter.ClerkID {
				continue
			}
			out = append(out, sr)
		}
		return nil
	})
	return out, err
}

// Update implements supply_request.Repository.
func (r *SupplyRequestRepo) Update(ctx context.Context, sr *entity.SupplyRequest, expectedVersion int) (bool, error) {
	ok := false
	err := r.s.with(ctx, func(d *data) error {
		current, found := d.supply[sr.ID]
		if !found || current.Status != entity.SupplyPending || current.Version != expectedVersion {
			return nil
		}
		current.ProductID = sr.ProductID
		current.Quantity = sr.Quantity
		current.ClerkID = sr.ClerkID
		current.Version++
		current.UpdatedAt = time.Now().UTC()
		d.supply[sr.ID] = current
		ok = true
		return nil
	})
	return ok, err
}

// CompareAndSetStatus implements supply_request.Repository.
func (r *SupplyRequestRepo) CompareAndSetStatus(ctx context.Context, requestID int64, from entity.SupplyStatus, version int, to entity.SupplyStatus) (bool, error) {
	ok := false
	err := r.s.with(ctx, func(d *data) error {
		current, found := d.supply[requestID]
		if !found || current.Status != from || current.Version != version {
			return nil
		}
		current.Status = to
		current.Version++
		current.UpdatedAt = time.Now().UTC()
		d.supply[requestID] = current
		ok = true
		return nil
	})
	return ok, err
}

// Delete implements supply_request.Repository.
func (r *SupplyRequestRepo) Delete(ctx context.Context, requestID int64) error {
	return r.s.with(ctx, func(d *data) error {
		if _, ok := d.supply[requestID]; !ok {
			return apperror.NewNotFound("supply request", requestID)
		}
		delete(d.supply, requestID)
		return nil
	})
}

// PaymentRepo implements payment.Repository.
type PaymentRepo struct {
	s *Store
}

var _ payment.Repository = (*PaymentRepo)(nil)

// Create implements payment.Repository.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	return r.s.with(ctx, func(d *data) error {
		p.ID = d.next("payments")
		d.payments[p.ID] = *p
		return nil
	})
}

// List implements payment.Repository.
func (r *PaymentRepo) List(ctx context.Context) ([]entity.Payment, error) {
	var out []entity.Payment
	err := r.s.with(ctx, func(d *data) error {
		out = reversed(sorted(d.payments))
		return nil
	})
	return out, err
}

// JournalRepo implements audit.Repository.
type JournalRepo struct {
	s *Store
}

var _ audit.Repository = (*JournalRepo)(nil)

// Create implements audit.Repository.
func (r *JournalRepo) Create(ctx context.Context, t *entity.Transaction) error {
	return r.s.with(ctx, func(d *data) error {
		if _, ok := d.accounts[t.AccountID]; !ok {
			return apperror.NewNotFound("account", t.AccountID)
		}
		t.ID = d.next("transactions")
		d.transactions[t.ID] = *t
		return nil
	})
}

// ListByAccount implements audit.Repository.
func (r *JournalRepo) ListByAccount(ctx context.Context, accountID int64) ([]entity.Transaction, error) {
	out := []entity.Transaction{}
	err := r.s.with(ctx, func(d *data) error {
		for _, t := range reversed(sorted(d.transactions)) {
			if t.AccountID == accountID {
				out = append(out, t)
			}
		}
		return nil
	})
	return out, err
}
