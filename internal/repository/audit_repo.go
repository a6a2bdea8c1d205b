// Package repository persists diagnostic records around the validation core.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ValidationAttempt is one recorded validation outcome. The validator itself
// never touches these; the serving layer records them for observability.
type ValidationAttempt struct {
	ID        int64
	Field     string
	Value     string
	Valid     bool
	Reason    string
	CreatedAt time.Time
}

// ValidationAuditRepository stores validation attempts
type ValidationAuditRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewValidationAuditRepository creates a new validation audit repository
func NewValidationAuditRepository(db *sql.DB, logger *zap.Logger) *ValidationAuditRepository {
	return &ValidationAuditRepository{
		db:     db,
		logger: logger,
	}
}

// Record inserts a new validation attempt
func (r *ValidationAuditRepository) Record(ctx context.Context, attempt *ValidationAttempt) error {
	query := `
		INSERT INTO validation_attempts (field, value, valid, reason, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}

	result, err := r.db.ExecContext(ctx, query,
		attempt.Field,
		attempt.Value,
		attempt.Valid,
		attempt.Reason,
		attempt.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to record validation attempt", zap.Error(err))
		return fmt.Errorf("failed to record validation attempt: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get attempt ID: %w", err)
	}
	attempt.ID = id

	return nil
}

// ListRecent returns the most recent validation attempts, newest first
func (r *ValidationAuditRepository) ListRecent(ctx context.Context, limit int) ([]*ValidationAttempt, error) {
	query := `
		SELECT id, field, value, valid, reason, created_at
		FROM validation_attempts
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list validation attempts", zap.Error(err))
		return nil, fmt.Errorf("failed to list validation attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*ValidationAttempt
	for rows.Next() {
		var a ValidationAttempt
		if err := rows.Scan(&a.ID, &a.Field, &a.Value, &a.Valid, &a.Reason, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan validation attempt: %w", err)
		}
		attempts = append(attempts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate validation attempts: %w", err)
	}

	return attempts, nil
}
