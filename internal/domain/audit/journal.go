// Package audit keeps the activity journal: who recorded a sale, purchase or
// return against which inventory intake.
package audit

import (
	"context"
	"fmt"
	"time"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/core/security"
	"inventrack/internal/core/tx"
	"inventrack/pkg/logger"
)

// Repository stores journal rows.
type Repository interface {
	Create(ctx context.Context, t *entity.Transaction) error
	// ListByAccount returns the account's rows, newest first.
	ListByAccount(ctx context.Context, accountID int64) ([]entity.Transaction, error)
}

// InventoryLookup checks that a referenced intake exists.
type InventoryLookup interface {
	GetInventory(ctx context.Context, inventoryID int64) (*entity.Inventory, error)
}

// Entry is the caller-supplied part of a journal row.
type Entry struct {
	InventoryID *int64
	Type        entity.TransactionType
	Quantity    int
}

// Journal records account activity.
type Journal struct {
	repo      Repository
	inventory InventoryLookup
	txm       tx.Manager
	authz     security.Authorizer
}

// NewJournal creates a new activity journal.
func NewJournal(repo Repository, inventory InventoryLookup, txm tx.Manager, authz security.Authorizer) *Journal {
	return &Journal{repo: repo, inventory: inventory, txm: txm, authz: authz}
}

// Record appends a journal row for actor.
func (j *Journal) Record(ctx context.Context, actor security.Actor, e Entry) (*entity.Transaction, error) {
	if err := j.authz.Authorize(actor, security.CapRecordActivity); err != nil {
		return nil, err
	}
	if !e.Type.Valid() {
		return nil, apperror.NewValidation("transaction type must be sale, purchase or return").
			WithDetail("field", "transactionType").
			WithDetail("value", e.Type)
	}
	if e.Quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", e.Quantity)
	}

	row := &entity.Transaction{
		AccountID:   actor.AccountID,
		InventoryID: e.InventoryID,
		Type:        e.Type,
		Quantity:    e.Quantity,
		CreatedAt:   time.Now().UTC(),
	}

	err := j.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if e.InventoryID != nil {
			if _, err := j.inventory.GetInventory(ctx, *e.InventoryID); err != nil {
				return err
			}
		}
		if err := j.repo.Create(ctx, row); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug(ctx, "activity recorded",
		"transaction_id", row.ID,
		"type", row.Type,
		"quantity", row.Quantity)

	return row, nil
}

// History returns an account's journal, newest first.
func (j *Journal) History(ctx context.Context, accountID int64) ([]entity.Transaction, error) {
	return j.repo.ListByAccount(ctx, accountID)
}
