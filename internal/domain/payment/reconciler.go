// Package payment records money received, either entered by an admin or
// delivered by the mobile money provider's confirmation callback.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/core/security"
	"inventrack/internal/core/tx"
	"inventrack/internal/core/types"
	"inventrack/pkg/logger"
	"inventrack/pkg/phone"
)

// Provider result codes.
const (
	ResultAccepted = 0
	ResultRejected = 1
)

// Ack descriptions.
const (
	DescAccepted       = "Accepted"
	DescInvalidAmount  = "Invalid amount format"
	DescUserNotFound   = "User not found"
	DescInternalError  = "Internal error"
	DescInvalidRequest = "Invalid request"
)

// DefaultDedupeTTL is how long a processed TransID is remembered.
const DefaultDedupeTTL = 72 * time.Hour

// Confirmation is a provider payment notification.
type Confirmation struct {
	TransID   string
	Reference string
	MSISDN    string
	Amount    string
}

// Ack is the provider-facing reply. It is always delivered with HTTP 200.
type Ack struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

func accepted() Ack            { return Ack{ResultCode: ResultAccepted, ResultDesc: DescAccepted} }
func rejected(desc string) Ack { return Ack{ResultCode: ResultRejected, ResultDesc: desc} }

// Rejected builds a rejection ack for requests that never reach reconciliation.
func Rejected(desc string) Ack { return rejected(desc) }

// Config holds reconciler settings.
type Config struct {
	PhoneRegion string
	DedupeTTL   time.Duration
}

// ManualInput is an admin-entered payment against an inventory intake.
type ManualInput struct {
	InventoryID int64
	Amount      types.Money
	Date        time.Time // zero means now
}

// Reconciler binds incoming payments to inventory or accounts.
type Reconciler struct {
	repo      Repository
	inventory InventoryLookup
	accounts  AccountLookup
	guard     DeliveryGuard
	txm       tx.Manager
	authz     security.Authorizer
	config    Config
	clock     func() time.Time
}

// NewReconciler creates a new payment reconciler.
func NewReconciler(
	repo Repository,
	inventory InventoryLookup,
	accounts AccountLookup,
	guard DeliveryGuard,
	txm tx.Manager,
	authz security.Authorizer,
	config Config,
) *Reconciler {
	if config.PhoneRegion == "" {
		config.PhoneRegion = phone.DefaultRegion
	}
	if config.DedupeTTL <= 0 {
		config.DedupeTTL = DefaultDedupeTTL
	}
	return &Reconciler{
		repo:      repo,
		inventory: inventory,
		accounts:  accounts,
		guard:     guard,
		txm:       txm,
		authz:     authz,
		config:    config,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source.
func (r *Reconciler) WithClock(clock func() time.Time) *Reconciler {
	r.clock = clock
	return r
}

var errNoMatch = errors.New("no inventory or account matches payment")

// Validate answers the provider's validation callback.
func (r *Reconciler) Validate(ctx context.Context, c Confirmation) Ack {
	if _, err := parseAmount(c.Amount); err != nil {
		logger.Warn(ctx, "payment validation rejected", "trans_id", c.TransID, "amount", c.Amount)
		return rejected(DescInvalidAmount)
	}
	return accepted()
}

// Reconcile records a confirmed payment. It never fails: every outcome is an Ack.
// A reference naming an existing inventory id wins; otherwise the payer's
// phone number must match an account.
func (r *Reconciler) Reconcile(ctx context.Context, c Confirmation) Ack {
	amount, err := parseAmount(c.Amount)
	if err != nil {
		logger.Warn(ctx, "payment confirmation rejected",
			"trans_id", c.TransID,
			"amount", c.Amount,
			"reason", DescInvalidAmount)
		return rejected(DescInvalidAmount)
	}

	claimed := false
	if c.TransID != "" && r.guard != nil {
		ok, err := r.guard.Claim(ctx, c.TransID, r.config.DedupeTTL)
		switch {
		case err != nil:
			logger.Warn(ctx, "payment dedupe unavailable, processing delivery",
				"trans_id", c.TransID,
				"error", err)
		case !ok:
			logger.Info(ctx, "duplicate payment confirmation acknowledged", "trans_id", c.TransID)
			return accepted()
		default:
			claimed = true
		}
	}

	payment := &entity.Payment{
		Amount:      amount,
		Reference:   strings.TrimSpace(c.Reference),
		PaymentDate: r.clock(),
	}

	err = r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.resolve(ctx, c, payment); err != nil {
			return err
		}
		if err := r.repo.Create(ctx, payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		return nil
	})
	if err != nil {
		if claimed {
			if relErr := r.guard.Release(ctx, c.TransID); relErr != nil {
				logger.Warn(ctx, "release payment claim failed", "trans_id", c.TransID, "error", relErr)
			}
		}
		if errors.Is(err, errNoMatch) {
			logger.Warn(ctx, "payment confirmation unmatched",
				"trans_id", c.TransID,
				"reference", c.Reference)
			return rejected(DescUserNotFound)
		}
		logger.Error(ctx, "payment confirmation failed",
			"trans_id", c.TransID,
			"error", err)
		return rejected(DescInternalError)
	}

	logger.Info(ctx, "payment reconciled",
		"payment_id", payment.ID,
		"trans_id", c.TransID,
		"amount", payment.Amount.String())

	return accepted()
}

// resolve binds p to an inventory intake or an account.
func (r *Reconciler) resolve(ctx context.Context, c Confirmation, p *entity.Payment) error {
	if ref, err := strconv.ParseInt(strings.TrimSpace(c.Reference), 10, 64); err == nil && ref > 0 {
		inv, err := r.inventory.GetInventory(ctx, ref)
		switch {
		case err == nil:
			p.InventoryID = &inv.ID
			return nil
		case !apperror.IsNotFound(err):
			return fmt.Errorf("get inventory: %w", err)
		}
	}

	if strings.TrimSpace(c.MSISDN) == "" {
		return errNoMatch
	}
	normalized, err := phone.Normalize(c.MSISDN, r.config.PhoneRegion)
	if err != nil {
		return errNoMatch
	}
	account, err := r.accounts.GetByPhone(ctx, normalized)
	if err != nil {
		if apperror.IsNotFound(err) {
			return errNoMatch
		}
		return fmt.Errorf("get account by phone: %w", err)
	}
	p.AccountID = &account.ID
	return nil
}

// RecordManual stores an admin-entered payment against an inventory intake.
func (r *Reconciler) RecordManual(ctx context.Context, actor security.Actor, in ManualInput) (*entity.Payment, error) {
	if err := r.authz.Authorize(actor, security.CapRecordPayment); err != nil {
		return nil, err
	}
	if in.InventoryID <= 0 {
		return nil, apperror.NewValidation("inventory is required").WithDetail("field", "inventoryId")
	}
	if in.Amount.IsNegative() {
		return nil, apperror.NewValidation("amount must not be negative").WithDetail("field", "amount")
	}

	date := in.Date
	if date.IsZero() {
		date = r.clock()
	}
	payment := &entity.Payment{
		InventoryID: &in.InventoryID,
		Amount:      in.Amount,
		PaymentDate: date.UTC(),
	}

	err := r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := r.inventory.GetInventory(ctx, in.InventoryID); err != nil {
			return err
		}
		if err := r.repo.Create(ctx, payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "payment recorded",
		"payment_id", payment.ID,
		"inventory_id", in.InventoryID,
		"amount", payment.Amount.String())

	return payment, nil
}

// List returns payments, newest first.
func (r *Reconciler) List(ctx context.Context, actor security.Actor) ([]entity.Payment, error) {
	if err := r.authz.Authorize(actor, security.CapViewOperations); err != nil {
		return nil, err
	}
	return r.repo.List(ctx)
}

func parseAmount(raw string) (types.Money, error) {
	amount, err := types.NewMoneyFromString(raw)
	if err != nil {
		return types.Zero(), err
	}
	if amount.IsNegative() {
		return types.Zero(), errors.New("negative amount")
	}
	return amount, nil
}
