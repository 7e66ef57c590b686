// Package auth_repo provides PostgreSQL implementations for auth repositories.
package auth_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"inventrack/internal/core/apperror"
	"inventrack/internal/domain/auth"
	"inventrack/internal/infrastructure/storage/postgres"
)

const accountsTable = "accounts"

var accountColumns = postgres.ExtractDBColumns[auth.Account]()

// AccountRepo implements auth.AccountRepository.
type AccountRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ auth.AccountRepository = (*AccountRepo)(nil)

// NewAccountRepo creates a new account repository.
func NewAccountRepo(txManager *postgres.TxManager) *AccountRepo {
	return &AccountRepo{txManager: txManager, builder: postgres.Builder()}
}

// Create implements auth.AccountRepository.
func (r *AccountRepo) Create(ctx context.Context, account *auth.Account) error {
	sql, args, err := r.builder.
		Insert(accountsTable).
		SetMap(postgres.InsertMap(account)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&account.ID); err != nil {
		return duplicateOr(err, account, "insert account")
	}
	return nil
}

// GetByID implements auth.AccountRepository.
func (r *AccountRepo) GetByID(ctx context.Context, accountID int64) (*auth.Account, error) {
	return r.getOne(ctx, squirrel.Eq{"id": accountID}, accountID)
}

// GetByEmail implements auth.AccountRepository.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*auth.Account, error) {
	return r.getOne(ctx, squirrel.Expr("lower(email) = ?", strings.ToLower(email)), email)
}

// GetByPhone implements auth.AccountRepository.
func (r *AccountRepo) GetByPhone(ctx context.Context, phone string) (*auth.Account, error) {
	return r.getOne(ctx, squirrel.Eq{"phone_number": phone}, phone)
}

func (r *AccountRepo) getOne(ctx context.Context, where squirrel.Sqlizer, key any) (*auth.Account, error) {
	sql, args, err := r.builder.Select(accountColumns...).From(accountsTable).Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var account auth.Account
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &account, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("account", key)
		}
		return nil, fmt.Errorf("query account: %w", err)
	}
	return &account, nil
}

// Update implements auth.AccountRepository.
func (r *AccountRepo) Update(ctx context.Context, account *auth.Account) error {
	sql, args, err := r.builder.
		Update(accountsTable).
		SetMap(postgres.InsertMap(account, "created_at")).
		Where(squirrel.Eq{"id": account.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return duplicateOr(err, account, "update account")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("account", account.ID)
	}
	return nil
}

// Delete implements auth.AccountRepository. Refresh tokens go with the
// account; payments keep their rows with account_id cleared.
func (r *AccountRepo) Delete(ctx context.Context, accountID int64) error {
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, `DELETE FROM accounts WHERE id = $1`, accountID)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewConflict("account is referenced by supply requests or transactions").
				WithDetail("id", accountID).
				WithCause(err)
		}
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("account", accountID)
	}
	return nil
}

// List implements auth.AccountRepository.
func (r *AccountRepo) List(ctx context.Context, filter auth.AccountFilter) ([]auth.Account, error) {
	q := r.builder.Select(accountColumns...).From(accountsTable).OrderBy("id")
	if filter.Role != "" {
		q = q.Where(squirrel.Eq{"role": filter.Role})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	accounts := []auth.Account{}
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &accounts, sql, args...); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// HasDependents implements auth.AccountRepository.
func (r *AccountRepo) HasDependents(ctx context.Context, accountID int64) (bool, error) {
	var found bool
	err := r.txManager.GetQuerier(ctx).QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM supply_requests WHERE clerk_id = $1)
		    OR EXISTS (SELECT 1 FROM transactions WHERE account_id = $1)
	`, accountID).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("check account dependents: %w", err)
	}
	return found, nil
}

func duplicateOr(err error, account *auth.Account, op string) error {
	constraint, ok := postgres.UniqueViolation(err)
	if !ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	if strings.Contains(constraint, "phone") {
		phone := ""
		if account.PhoneNumber != nil {
			phone = *account.PhoneNumber
		}
		return apperror.NewDuplicate("account", "phone number", phone).WithCause(err)
	}
	return apperror.NewDuplicate("account", "email", account.Email).WithCause(err)
}
