// Package supply_request provides the supply request workflow:
// a clerk asks for stock, an admin approves or rejects, and completing an
// approved request books the purchase.
package supply_request

import (
	"context"
	"fmt"
	"time"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/core/security"
	"inventrack/internal/core/tx"
	"inventrack/internal/domain/auth"
	"inventrack/internal/domain/registers/stock"
	"inventrack/pkg/logger"
)

// ProductLookup resolves requested products.
type ProductLookup interface {
	GetProduct(ctx context.Context, productID int64) (*entity.Product, error)
}

// AccountLookup resolves the clerk a request is assigned to.
type AccountLookup interface {
	GetByID(ctx context.Context, accountID int64) (*auth.Account, error)
}

// PurchaseRecorder books the inbound movement of a completed request.
type PurchaseRecorder interface {
	RecordPurchase(ctx context.Context, in stock.PurchaseInput) (*entity.Purchase, error)
}

// Patch is a partial edit of a pending request. Nil fields are left unchanged.
type Patch struct {
	ProductID *int64
	Quantity  *int
	ClerkID   *int64
}

// Workflow drives supply requests through their states.
type Workflow struct {
	repo      Repository
	products  ProductLookup
	accounts  AccountLookup
	purchases PurchaseRecorder
	txm       tx.Manager
	authz     security.Authorizer
	clock     func() time.Time
}

// NewWorkflow creates a new supply request workflow.
func NewWorkflow(
	repo Repository,
	products ProductLookup,
	accounts AccountLookup,
	purchases PurchaseRecorder,
	txm tx.Manager,
	authz security.Authorizer,
) *Workflow {
	return &Workflow{
		repo:      repo,
		products:  products,
		accounts:  accounts,
		purchases: purchases,
		txm:       txm,
		authz:     authz,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// Submit creates a pending request owned by actor.
func (w *Workflow) Submit(ctx context.Context, actor security.Actor, productID int64, quantity int) (*entity.SupplyRequest, error) {
	if err := w.authz.Authorize(actor, security.CapSubmitSupply); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", quantity)
	}

	now := w.clock()
	req := &entity.SupplyRequest{
		ProductID: productID,
		Quantity:  quantity,
		ClerkID:   actor.AccountID,
		Status:    entity.SupplyPending,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := w.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := w.checkProduct(ctx, productID); err != nil {
			return err
		}
		if err := w.repo.Create(ctx, req); err != nil {
			return fmt.Errorf("create supply request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "supply request submitted",
		"request_id", req.ID,
		"product_id", req.ProductID,
		"quantity", req.Quantity,
		"clerk_id", req.ClerkID)

	return req, nil
}

// Decide approves or rejects a pending request. Admin only.
func (w *Workflow) Decide(ctx context.Context, actor security.Actor, requestID int64, outcome entity.SupplyStatus) (*entity.SupplyRequest, error) {
	if err := w.authz.Authorize(actor, security.CapDecideSupply); err != nil {
		return nil, err
	}
	if outcome != entity.SupplyApproved && outcome != entity.SupplyRejected {
		return nil, apperror.NewValidation("outcome must be approved or rejected").
			WithDetail("field", "status").
			WithDetail("value", outcome)
	}

	var req *entity.SupplyRequest
	err := w.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		req, err = w.transition(ctx, requestID, outcome)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "supply request decided",
		"request_id", req.ID,
		"status", req.Status)

	return req, nil
}

// Complete marks an approved request Completed and records the purchase at
// the product's buy price, in one unit of work. Admin only.
func (w *Workflow) Complete(ctx context.Context, actor security.Actor, requestID int64) (*entity.SupplyRequest, *entity.Purchase, error) {
	if err := w.authz.Authorize(actor, security.CapCompleteSupply); err != nil {
		return nil, nil, err
	}

	var (
		req      *entity.SupplyRequest
		purchase *entity.Purchase
	)
	err := w.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		req, err = w.transition(ctx, requestID, entity.SupplyCompleted)
		if err != nil {
			return err
		}

		product, err := w.products.GetProduct(ctx, req.ProductID)
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}

		purchase, err = w.purchases.RecordPurchase(ctx, stock.PurchaseInput{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			UnitPrice: product.BuyPrice,
		})
		if err != nil {
			return fmt.Errorf("record purchase: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "supply request completed",
		"request_id", req.ID,
		"purchase_id", purchase.ID)

	return req, purchase, nil
}

// transition moves a request to next with a compare-and-set on the status and
// version it was read at. Must run inside a unit of work.
func (w *Workflow) transition(ctx context.Context, requestID int64, next entity.SupplyStatus) (*entity.SupplyRequest, error) {
	req, err := w.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := req.CheckTransition(next); err != nil {
		return nil, err
	}

	ok, err := w.repo.CompareAndSetStatus(ctx, req.ID, req.Status, req.Version, next)
	if err != nil {
		return nil, fmt.Errorf("set supply request status: %w", err)
	}
	if !ok {
		return nil, w.lostRace(ctx, req, next)
	}

	req.Status = next
	req.Version++
	req.UpdatedAt = w.clock()
	return req, nil
}

// lostRace explains a compare-and-set miss: a status change by someone else is
// an invalid transition, anything else is a concurrent edit.
func (w *Workflow) lostRace(ctx context.Context, seen *entity.SupplyRequest, next entity.SupplyStatus) error {
	current, err := w.repo.GetByID(ctx, seen.ID)
	if err != nil {
		return err
	}
	if current.Status != seen.Status {
		return apperror.NewInvalidTransition("supply request", string(current.Status), string(next)).
			WithDetail("id", current.ID)
	}
	return apperror.NewConcurrentModification("supply request", seen.ID)
}

// Update edits a pending request. Clerks may edit only their own requests and
// cannot reassign them.
func (w *Workflow) Update(ctx context.Context, actor security.Actor, requestID int64, patch Patch) (*entity.SupplyRequest, error) {
	if err := w.authz.Authorize(actor, security.CapSubmitSupply); err != nil {
		return nil, err
	}

	var req *entity.SupplyRequest
	err := w.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		req, err = w.repo.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && req.ClerkID != actor.AccountID {
			return apperror.NewForbidden("supply request belongs to another clerk").
				WithDetail("id", req.ID)
		}
		if err := req.CanModify(); err != nil {
			return err
		}

		if patch.ProductID != nil && *patch.ProductID != req.ProductID {
			if err := w.checkProduct(ctx, *patch.ProductID); err != nil {
				return err
			}
			req.ProductID = *patch.ProductID
		}
		if patch.Quantity != nil {
			if *patch.Quantity <= 0 {
				return apperror.NewValidation("quantity must be positive").
					WithDetail("field", "quantity").
					WithDetail("value", *patch.Quantity)
			}
			req.Quantity = *patch.Quantity
		}
		if patch.ClerkID != nil && *patch.ClerkID != req.ClerkID {
			if !actor.IsAdmin() {
				return apperror.NewForbidden("only admins can reassign supply requests")
			}
			if err := w.checkClerk(ctx, *patch.ClerkID); err != nil {
				return err
			}
			req.ClerkID = *patch.ClerkID
		}

		ok, err := w.repo.Update(ctx, req, req.Version)
		if err != nil {
			return fmt.Errorf("update supply request: %w", err)
		}
		if !ok {
			current, err := w.repo.GetByID(ctx, requestID)
			if err != nil {
				return err
			}
			if err := current.CanModify(); err != nil {
				return err
			}
			return apperror.NewConcurrentModification("supply request", requestID)
		}
		req.Version++
		req.UpdatedAt = w.clock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Delete removes a request: admins any, clerks only their own pending ones.
func (w *Workflow) Delete(ctx context.Context, actor security.Actor, requestID int64) error {
	if err := w.authz.Authorize(actor, security.CapSubmitSupply); err != nil {
		return err
	}

	err := w.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		req, err := w.repo.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() {
			if req.ClerkID != actor.AccountID {
				return apperror.NewForbidden("supply request belongs to another clerk").
					WithDetail("id", req.ID)
			}
			if err := req.CanModify(); err != nil {
				return err
			}
		}
		return w.repo.Delete(ctx, requestID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "supply request deleted", "request_id", requestID)
	return nil
}

// Get returns a request.
func (w *Workflow) Get(ctx context.Context, actor security.Actor, requestID int64) (*entity.SupplyRequest, error) {
	if err := w.authz.Authorize(actor, security.CapViewOperations); err != nil {
		return nil, err
	}
	return w.repo.GetByID(ctx, requestID)
}

// List returns requests ordered by id.
func (w *Workflow) List(ctx context.Context, actor security.Actor, filter Filter) ([]entity.SupplyRequest, error) {
	if err := w.authz.Authorize(actor, security.CapViewOperations); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("value", filter.Status)
	}
	return w.repo.List(ctx, filter)
}

func (w *Workflow) checkProduct(ctx context.Context, productID int64) error {
	if _, err := w.products.GetProduct(ctx, productID); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewValidation("product unknown").
				WithDetail("field", "productId").
				WithDetail("value", productID)
		}
		return err
	}
	return nil
}

func (w *Workflow) checkClerk(ctx context.Context, accountID int64) error {
	account, err := w.accounts.GetByID(ctx, accountID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewValidation("clerk unknown").
				WithDetail("field", "clerkId").
				WithDetail("value", accountID)
		}
		return err
	}
	if account.Role != security.RoleClerk && account.Role != security.RoleAdmin {
		return apperror.NewValidation("supply requests can only be assigned to clerks or admins").
			WithDetail("field", "clerkId").
			WithDetail("value", accountID)
	}
	return nil
}
