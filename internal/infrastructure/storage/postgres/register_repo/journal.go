package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/domain/audit"
	"inventrack/internal/infrastructure/storage/postgres"
)

const transactionsTable = "transactions"

var transactionColumns = postgres.ExtractDBColumns[entity.Transaction]()

// JournalRepo implements audit.Repository over the transactions table.
type JournalRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ audit.Repository = (*JournalRepo)(nil)

// NewJournalRepo creates a new journal repository.
func NewJournalRepo(txManager *postgres.TxManager) *JournalRepo {
	return &JournalRepo{txManager: txManager, builder: postgres.Builder()}
}

// Create implements audit.Repository.
func (r *JournalRepo) Create(ctx context.Context, t *entity.Transaction) error {
	sql, args, err := r.builder.Insert(transactionsTable).SetMap(postgres.InsertMap(t)).Suffix("RETURNING id").ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&t.ID); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewNotFound("account", t.AccountID)
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListByAccount implements audit.Repository.
func (r *JournalRepo) ListByAccount(ctx context.Context, accountID int64) ([]entity.Transaction, error) {
	q := r.builder.Select(transactionColumns...).From(transactionsTable).
		Where(squirrel.Eq{"account_id": accountID}).
		OrderBy("id DESC")
	return postgres.SelectAll[entity.Transaction](ctx, r.txManager.GetQuerier(ctx), q)
}
