package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andviana23/trato-sub001/internal/domain"
	"github.com/andviana23/trato-sub001/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

func (r *EntryRepository) db(tx usecase.Transaction) dbtx {
	if tx == nil {
		return r.pool
	}
	return tx.(*Tx).PgxTx()
}

const entryColumns = `id, entry_date, competence_date, document_number, description, amount, side,
	debit_account_id, credit_account_id, unit_id, status, created_by, created_at`

// Create inserts a ledger entry, inside the given transaction when one is
// provided.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	_, err := r.db(tx).Exec(ctx, `
		INSERT INTO ledger_entries (id, entry_date, competence_date, document_number, description,
			amount, side, debit_account_id, credit_account_id, unit_id, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		entry.ID,
		timeToPgTimestamptz(entry.EntryDate),
		timeToPgTimestamptz(entry.CompetenceDate),
		entry.DocumentNumber,
		entry.Description,
		decimalToNumeric(entry.Amount),
		string(entry.Side),
		entry.DebitAccountID,
		entry.CreditAccountID,
		entry.UnitID,
		string(entry.Status),
		entry.CreatedBy,
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// Delete removes a ledger entry. Used only as the compensating action when
// the paired revenue record write fails outside a transaction.
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ledger_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// GetByID retrieves a ledger entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE id = $1`, id)
	return scanEntry(row)
}

// ListConfirmedByPeriod returns confirmed entries for a unit whose
// competence date falls inside the period.
func (r *EntryRepository) ListConfirmedByPeriod(ctx context.Context, unitID string, period domain.Period) ([]*domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM ledger_entries
		WHERE unit_id = $1
		  AND status = 'confirmed'
		  AND competence_date >= $2
		  AND competence_date <= $3
		ORDER BY competence_date, id`,
		unitID, timeToPgTimestamptz(period.From), timeToPgTimestamptz(period.To),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// SumByAccount aggregates confirmed entry amounts per account for a unit and
// period, split into debit-side and credit-side totals.
func (r *EntryRepository) SumByAccount(ctx context.Context, unitID string, period domain.Period) ([]*domain.AccountBalance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.code, a.name, a.type,
			COALESCE(SUM(e.amount) FILTER (WHERE e.debit_account_id = a.id), 0)  AS debit_total,
			COALESCE(SUM(e.amount) FILTER (WHERE e.credit_account_id = a.id), 0) AS credit_total
		FROM accounts a
		JOIN ledger_entries e
		  ON e.debit_account_id = a.id OR e.credit_account_id = a.id
		WHERE e.unit_id = $1
		  AND e.status = 'confirmed'
		  AND e.competence_date >= $2
		  AND e.competence_date <= $3
		GROUP BY a.id, a.code, a.name, a.type
		ORDER BY a.code`,
		unitID, timeToPgTimestamptz(period.From), timeToPgTimestamptz(period.To),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []*domain.AccountBalance
	for rows.Next() {
		var b domain.AccountBalance
		var typ string
		var debit, credit pgtype.Numeric

		if err := rows.Scan(&b.AccountID, &b.Code, &b.Name, &typ, &debit, &credit); err != nil {
			return nil, err
		}

		b.Type = domain.AccountType(typ)
		b.DebitTotal = numericToDecimal(debit)
		b.CreditTotal = numericToDecimal(credit)

		balances = append(balances, &b)
	}

	return balances, rows.Err()
}

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var entry domain.LedgerEntry
	var amount pgtype.Numeric
	var side, status string

	err := row.Scan(
		&entry.ID,
		&entry.EntryDate,
		&entry.CompetenceDate,
		&entry.DocumentNumber,
		&entry.Description,
		&amount,
		&side,
		&entry.DebitAccountID,
		&entry.CreditAccountID,
		&entry.UnitID,
		&status,
		&entry.CreatedBy,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	entry.Amount = numericToDecimal(amount)
	entry.Side = domain.EntrySide(side)
	entry.Status = domain.EntryStatus(status)

	return &entry, nil
}
