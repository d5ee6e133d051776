package operations

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles operation_history PostgreSQL operations.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new history Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert writes one operation record.
func (r *Repository) Insert(ctx context.Context, rec *Record) error {
	params, err := json.Marshal(rec.InputParams)
	if err != nil {
		return fmt.Errorf("marshaling input params: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO operation_history (id, user_id, operation_type, input_params, output_result, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.UserID, rec.OperationType, params, rec.OutputResult, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting operation record: %w", err)
	}
	return nil
}

// CountInWindow counts records of one operation type for a user with
// created_at in [start, end).
func (r *Repository) CountInWindow(ctx context.Context, userID uuid.UUID, operationType string, start, end time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM operation_history
		 WHERE user_id = $1 AND operation_type = $2 AND created_at >= $3 AND created_at < $4`,
		userID, operationType, start, end,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting operations in window: %w", err)
	}
	return count, nil
}

// ListByUser returns a user's most recent records, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, operation_type, input_params, output_result, created_at
		 FROM operation_history
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing operation history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var params []byte
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.OperationType, &params, &rec.OutputResult, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning operation record: %w", err)
		}
		if len(params) > 0 {
			if err := json.Unmarshal(params, &rec.InputParams); err != nil {
				return nil, fmt.Errorf("unmarshaling input params: %w", err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating operation history: %w", err)
	}
	return records, nil
}
