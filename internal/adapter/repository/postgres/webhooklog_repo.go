package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andviana23/trato-sub001/internal/domain"
)

// WebhookLogRepository implements usecase.WebhookLogRepository. Rows are
// append-only.
type WebhookLogRepository struct {
	pool *pgxpool.Pool
}

// NewWebhookLogRepository creates a new WebhookLogRepository.
func NewWebhookLogRepository(pool *pgxpool.Pool) *WebhookLogRepository {
	return &WebhookLogRepository{pool: pool}
}

// Create appends one audit row.
func (r *WebhookLogRepository) Create(ctx context.Context, log *domain.WebhookLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO webhook_logs (id, event, payload, signature, processed, processed_at, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		log.ID,
		log.Event,
		log.Payload,
		log.Signature,
		log.Processed,
		log.ProcessedAt,
		log.Error,
		timeToPgTimestamptz(log.CreatedAt),
	)

	return err
}

// List returns audit rows newest first.
func (r *WebhookLogRepository) List(ctx context.Context, limit, offset int) ([]*domain.WebhookLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, event, payload, signature, processed, processed_at, error, created_at
		FROM webhook_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.WebhookLog
	for rows.Next() {
		var log domain.WebhookLog

		err := rows.Scan(
			&log.ID,
			&log.Event,
			&log.Payload,
			&log.Signature,
			&log.Processed,
			&log.ProcessedAt,
			&log.Error,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}
