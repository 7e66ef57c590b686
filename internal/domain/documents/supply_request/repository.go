package supply_request

import (
	"context"

	"inventrack/internal/core/entity"
)

// Repository defines supply request persistence.
//
// Writes that change an existing row are compare-and-set on the version read
// by the caller: they report false, without error, when another writer got
// there first. Each successful write bumps Version.
type Repository interface {
	Create(ctx context.Context, r *entity.SupplyRequest) error
	GetByID(ctx context.Context, requestID int64) (*entity.SupplyRequest, error)
	List(ctx context.Context, filter Filter) ([]entity.SupplyRequest, error)

	// Update stores product, quantity and clerk of a pending request whose
	// version still equals expectedVersion.
	Update(ctx context.Context, r *entity.SupplyRequest, expectedVersion int) (bool, error)

	// CompareAndSetStatus moves a request from one status to another when it is
	// still at (from, version).
	CompareAndSetStatus(ctx context.Context, requestID int64, from entity.SupplyStatus, version int, to entity.SupplyStatus) (bool, error)

	Delete(ctx context.Context, requestID int64) error
}

// Filter narrows supply request listings.
type Filter struct {
	Status  entity.SupplyStatus
	ClerkID int64
}
