package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andviana23/trato-sub001/internal/domain"
)

// CustomerRepository implements usecase.CustomerRepository.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// GetByExternalID retrieves a customer by the payment gateway's identifier.
func (r *CustomerRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Customer, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, external_id, name, email, unit_id, created_at
		FROM customers
		WHERE external_id = $1`,
		externalID,
	)

	var customer domain.Customer

	err := row.Scan(
		&customer.ID,
		&customer.ExternalID,
		&customer.Name,
		&customer.Email,
		&customer.UnitID,
		&customer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}

		return nil, err
	}

	return &customer, nil
}
