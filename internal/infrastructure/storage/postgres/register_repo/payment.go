package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"inventrack/internal/core/entity"
	"inventrack/internal/domain/payment"
	"inventrack/internal/infrastructure/storage/postgres"
)

const paymentsTable = "payments"

var paymentColumns = postgres.ExtractDBColumns[entity.Payment]()

// PaymentRepo implements payment.Repository.
type PaymentRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ payment.Repository = (*PaymentRepo)(nil)

// NewPaymentRepo creates a new payment repository.
func NewPaymentRepo(txManager *postgres.TxManager) *PaymentRepo {
	return &PaymentRepo{txManager: txManager, builder: postgres.Builder()}
}

// Create implements payment.Repository.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	sql, args, err := r.builder.Insert(paymentsTable).SetMap(postgres.InsertMap(p)).Suffix("RETURNING id").ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&p.ID); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// List implements payment.Repository.
func (r *PaymentRepo) List(ctx context.Context) ([]entity.Payment, error) {
	q := r.builder.Select(paymentColumns...).From(paymentsTable).OrderBy("id DESC")
	return postgres.SelectAll[entity.Payment](ctx, r.txManager.GetQuerier(ctx), q)
}
