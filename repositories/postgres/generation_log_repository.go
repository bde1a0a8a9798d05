package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/upb/blog-ai-gateway/models"
	"github.com/upb/blog-ai-gateway/repositories"
	"github.com/upb/blog-ai-gateway/services"
	"go.uber.org/zap"
)

const generationLogColumns = `id, request_id, task_type, strategy, model, provider, attempt, fallback,
		       status, error_message, prompt_chars, response_chars, prompt_tokens,
		       completion_tokens, latency_ms, created_at`

// GenerationLogRepository implements the repositories.GenerationLogRepository interface
type GenerationLogRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewGenerationLogRepository creates a new generation log repository
func NewGenerationLogRepository(db *DB, logger *zap.Logger) repositories.GenerationLogRepository {
	return &GenerationLogRepository{
		db:     db,
		logger: logger,
	}
}

// Insert inserts a new generation log entry
func (r *GenerationLogRepository) Insert(ctx context.Context, log *models.GenerationLog) error {
	query := `
		INSERT INTO generation_logs (
			id, request_id, task_type, strategy, model, provider, attempt, fallback,
			status, error_message, prompt_chars, response_chars, prompt_tokens,
			completion_tokens, latency_ms, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.RequestID,
		log.TaskType,
		log.Strategy,
		log.Model,
		log.Provider,
		log.Attempt,
		log.Fallback,
		log.Status,
		log.ErrorMessage,
		log.PromptChars,
		log.ResponseChars,
		log.PromptTokens,
		log.CompletionTokens,
		log.LatencyMs,
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert generation log: %w", err)
	}

	r.logger.Debug("generation log inserted",
		zap.String("id", log.ID.String()),
		zap.String("model", log.Model),
		zap.String("status", string(log.Status)))
	return nil
}

// GetByID retrieves a generation log by ID
func (r *GenerationLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.GenerationLog, error) {
	query := `
		SELECT ` + generationLogColumns + `
		FROM generation_logs
		WHERE id = $1
	`

	log, err := scanGenerationLog(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.ErrGenerationLogNotFound
		}
		return nil, fmt.Errorf("failed to get generation log: %w", err)
	}
	return log, nil
}

// ListRecent retrieves generation logs, newest first, with pagination
func (r *GenerationLogRepository) ListRecent(ctx context.Context, limit, offset int) ([]*models.GenerationLog, error) {
	query := `
		SELECT ` + generationLogColumns + `
		FROM generation_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	return r.queryGenerationLogs(ctx, query, limit, offset)
}

// ListByModel retrieves generation logs for one model, newest first, with pagination
func (r *GenerationLogRepository) ListByModel(ctx context.Context, model string, limit, offset int) ([]*models.GenerationLog, error) {
	query := `
		SELECT ` + generationLogColumns + `
		FROM generation_logs
		WHERE model = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryGenerationLogs(ctx, query, model, limit, offset)
}

// CountByStatus counts attempts per status created at or after since
func (r *GenerationLogRepository) CountByStatus(ctx context.Context, since time.Time) (map[models.GenerationStatus]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM generation_logs
		WHERE created_at >= $1
		GROUP BY status
	`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count generation logs: %w", err)
	}
	defer rows.Close()

	counts := map[models.GenerationStatus]int{
		models.GenerationSucceeded: 0,
		models.GenerationFailed:    0,
	}
	for rows.Next() {
		var (
			status models.GenerationStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status counts: %w", err)
	}
	return counts, nil
}

// queryGenerationLogs is a helper method to query multiple generation logs
func (r *GenerationLogRepository) queryGenerationLogs(ctx context.Context, query string, args ...interface{}) ([]*models.GenerationLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query generation logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*models.GenerationLog, 0)
	for rows.Next() {
		log, err := scanGenerationLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generation log: %w", err)
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating generation log rows: %w", err)
	}
	return logs, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGenerationLog(row rowScanner) (*models.GenerationLog, error) {
	log := &models.GenerationLog{}
	err := row.Scan(
		&log.ID,
		&log.RequestID,
		&log.TaskType,
		&log.Strategy,
		&log.Model,
		&log.Provider,
		&log.Attempt,
		&log.Fallback,
		&log.Status,
		&log.ErrorMessage,
		&log.PromptChars,
		&log.ResponseChars,
		&log.PromptTokens,
		&log.CompletionTokens,
		&log.LatencyMs,
		&log.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return log, nil
}
