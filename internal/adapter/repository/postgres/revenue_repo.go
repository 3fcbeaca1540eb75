package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andviana23/trato-sub001/internal/domain"
	"github.com/andviana23/trato-sub001/internal/usecase"
)

// RevenueRepository implements usecase.RevenueRepository. The UNIQUE
// constraint on payment_id is the idempotency barrier for the whole
// pipeline.
type RevenueRepository struct {
	pool *pgxpool.Pool
}

// NewRevenueRepository creates a new RevenueRepository.
func NewRevenueRepository(pool *pgxpool.Pool) *RevenueRepository {
	return &RevenueRepository{pool: pool}
}

func (r *RevenueRepository) db(tx usecase.Transaction) dbtx {
	if tx == nil {
		return r.pool
	}
	return tx.(*Tx).PgxTx()
}

// Create inserts a revenue record. A payment_id collision maps to
// domain.ErrDuplicatePayment.
func (r *RevenueRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.RevenueRecord) error {
	_, err := r.db(tx).Exec(ctx, `
		INSERT INTO revenue_records (id, payment_id, customer_id, value, description, ledger_entry_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID,
		record.PaymentID,
		record.CustomerID,
		decimalToNumeric(record.Value),
		record.Description,
		record.LedgerEntryID,
		timeToPgTimestamptz(record.CreatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return fmt.Errorf("%w: payment %s", domain.ErrDuplicatePayment, record.PaymentID)
		}

		return err
	}

	return nil
}

// GetByPaymentID retrieves a revenue record by its external payment id.
func (r *RevenueRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.RevenueRecord, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, payment_id, customer_id, value, description, ledger_entry_id, created_at
		FROM revenue_records
		WHERE payment_id = $1`,
		paymentID,
	)

	var record domain.RevenueRecord
	var value pgtype.Numeric

	err := row.Scan(
		&record.ID,
		&record.PaymentID,
		&record.CustomerID,
		&value,
		&record.Description,
		&record.LedgerEntryID,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRevenueRecordNotFound
		}

		return nil, err
	}

	record.Value = numericToDecimal(value)

	return &record, nil
}

// Delete removes a revenue record by ID.
func (r *RevenueRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM revenue_records WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRevenueRecordNotFound
	}

	return nil
}
