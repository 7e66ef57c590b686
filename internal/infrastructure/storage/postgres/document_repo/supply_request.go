// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/domain/documents/supply_request"
	"inventrack/internal/infrastructure/storage/postgres"
)

const supplyRequestsTable = "supply_requests"

var supplyRequestColumns = postgres.ExtractDBColumns[entity.SupplyRequest]()

// SupplyRequestRepo implements supply_request.Repository.
// Writes are compare-and-set on (status, version).
type SupplyRequestRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ supply_request.Repository = (*SupplyRequestRepo)(nil)

// NewSupplyRequestRepo creates a new supply request repository.
func NewSupplyRequestRepo(txManager *postgres.TxManager) *SupplyRequestRepo {
	return &SupplyRequestRepo{txManager: txManager, builder: postgres.Builder()}
}

// Create implements supply_request.Repository.
func (r *SupplyRequestRepo) Create(ctx context.Context, sr *entity.SupplyRequest) error {
	if sr.Version == 0 {
		sr.Version = 1
	}
	sql, args, err := r.builder.Insert(supplyRequestsTable).SetMap(postgres.InsertMap(sr)).Suffix("RETURNING id").ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&sr.ID); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewNotFound("product", sr.ProductID)
		}
		return fmt.Errorf("insert supply request: %w", err)
	}
	return nil
}

// GetByID implements supply_request.Repository.
func (r *SupplyRequestRepo) GetByID(ctx context.Context, requestID int64) (*entity.SupplyRequest, error) {
	q := r.builder.Select(supplyRequestColumns...).From(supplyRequestsTable).Where(squirrel.Eq{"id": requestID})
	return postgres.SelectOne[entity.SupplyRequest](ctx, r.txManager.GetQuerier(ctx), q, "supply request", requestID)
}

// List implements supply_request.Repository. Ordered by id.
func (r *SupplyRequestRepo) List(ctx context.Context, filter supply_request.Filter) ([]entity.SupplyRequest, error) {
	return postgres.SelectAll[entity.SupplyRequest](ctx, r.txManager.GetQuerier(ctx), r.listQuery(filter))
}

func (r *SupplyRequestRepo) listQuery(filter supply_request.Filter) squirrel.SelectBuilder {
	q := r.builder.Select(supplyRequestColumns...).From(supplyRequestsTable)
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.ClerkID > 0 {
		q = q.Where(squirrel.Eq{"clerk_id": filter.ClerkID})
	}
	return q.OrderBy("id")
}

// Update implements supply_request.Repository.
func (r *SupplyRequestRepo) Update(ctx context.Context, sr *entity.SupplyRequest, expectedVersion int) (bool, error) {
	return r.exec(ctx, r.updateQuery(sr, expectedVersion))
}

func (r *SupplyRequestRepo) updateQuery(sr *entity.SupplyRequest, expectedVersion int) squirrel.UpdateBuilder {
	return r.builder.Update(supplyRequestsTable).
		Set("product_id", sr.ProductID).
		Set("quantity", sr.Quantity).
		Set("clerk_id", sr.ClerkID).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": sr.ID, "status": entity.SupplyPending, "version": expectedVersion})
}

// CompareAndSetStatus implements supply_request.Repository.
func (r *SupplyRequestRepo) CompareAndSetStatus(ctx context.Context, requestID int64, from entity.SupplyStatus, version int, to entity.SupplyStatus) (bool, error) {
	return r.exec(ctx, r.statusQuery(requestID, from, version, to))
}

func (r *SupplyRequestRepo) statusQuery(requestID int64, from entity.SupplyStatus, version int, to entity.SupplyStatus) squirrel.UpdateBuilder {
	return r.builder.Update(supplyRequestsTable).
		Set("status", to).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": requestID, "status": from, "version": version})
}

func (r *SupplyRequestRepo) exec(ctx context.Context, q squirrel.UpdateBuilder) (bool, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build update: %w", err)
	}
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("update supply request: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Delete implements supply_request.Repository.
func (r *SupplyRequestRepo) Delete(ctx context.Context, requestID int64) error {
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, `DELETE FROM supply_requests WHERE id = $1`, requestID)
	if err != nil {
		return fmt.Errorf("delete supply request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("supply request", requestID)
	}
	return nil
}
