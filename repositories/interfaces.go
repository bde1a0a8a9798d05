package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/upb/blog-ai-gateway/models"
)

// GenerationLogRepository handles generation audit trail operations
type GenerationLogRepository interface {
	// Insert inserts a new generation log entry
	Insert(ctx context.Context, log *models.GenerationLog) error

	// GetByID retrieves a generation log by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.GenerationLog, error)

	// ListRecent retrieves generation logs, newest first, with pagination
	ListRecent(ctx context.Context, limit, offset int) ([]*models.GenerationLog, error)

	// ListByModel retrieves generation logs for one model, newest first, with pagination
	ListByModel(ctx context.Context, model string, limit, offset int) ([]*models.GenerationLog, error)

	// CountByStatus counts attempts per status created at or after since
	CountByStatus(ctx context.Context, since time.Time) (map[models.GenerationStatus]int, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	GenerationLogs GenerationLogRepository
}
