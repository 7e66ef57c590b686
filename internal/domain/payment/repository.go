package payment

import (
	"context"
	"time"

	"inventrack/internal/core/entity"
	"inventrack/internal/domain/auth"
)

// Repository stores payments.
type Repository interface {
	Create(ctx context.Context, p *entity.Payment) error
	// List returns payments, newest first.
	List(ctx context.Context) ([]entity.Payment, error)
}

// InventoryLookup resolves a payment reference to an inventory intake.
type InventoryLookup interface {
	GetInventory(ctx context.Context, inventoryID int64) (*entity.Inventory, error)
}

// AccountLookup resolves a payer's phone number to an account.
type AccountLookup interface {
	GetByPhone(ctx context.Context, phone string) (*auth.Account, error)
}

// DeliveryGuard remembers provider transaction ids already processed.
type DeliveryGuard interface {
	// Claim returns false when transID was claimed before and not released.
	Claim(ctx context.Context, transID string, ttl time.Duration) (bool, error)
	// Release forgets a claim so a retried delivery is processed again.
	Release(ctx context.Context, transID string) error
}
