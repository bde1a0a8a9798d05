package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/upb/blog-ai-gateway/middleware"
	"github.com/upb/blog-ai-gateway/models"
	"github.com/upb/blog-ai-gateway/repositories"
	"github.com/upb/blog-ai-gateway/services/routing"
	"go.uber.org/zap"
)

// Service persists router attempts asynchronously.
// It implements routing.Recorder; a full buffer drops the record instead of slowing generation.
type Service struct {
	repo        repositories.GenerationLogRepository
	logger      *zap.Logger
	eventChan   chan *models.GenerationLog
	workerCount int
	bufferSize  int
	wg          sync.WaitGroup
	started     bool
	stopped     bool
	mu          sync.Mutex

	written int64
	failed  int64
	dropped int64
}

var _ routing.Recorder = (*Service)(nil)

// Config holds configuration for the audit Service
type Config struct {
	BufferSize  int // Size of the event buffer channel
	WorkerCount int // Number of concurrent workers
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BufferSize:  1000,
		WorkerCount: 4,
	}
}

// NewService creates a new audit Service
func NewService(repo repositories.GenerationLogRepository, logger *zap.Logger, config Config) *Service {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig().BufferSize
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultConfig().WorkerCount
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		repo:        repo,
		logger:      logger,
		eventChan:   make(chan *models.GenerationLog, config.BufferSize),
		workerCount: config.WorkerCount,
		bufferSize:  config.BufferSize,
	}
}

// Start starts the background workers
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("audit service already started")
	}

	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.started = true
	s.logger.Info("started audit service",
		zap.Int("worker_count", s.workerCount),
		zap.Int("buffer_size", s.bufferSize))

	return nil
}

// Stop stops accepting records and waits for queued ones to be written
func (s *Service) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return fmt.Errorf("audit service not running")
	}
	s.stopped = true
	pending := len(s.eventChan)
	close(s.eventChan)
	s.mu.Unlock()

	s.logger.Info("stopping audit service", zap.Int("pending_events", pending))

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("audit service stopped gracefully")
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("audit service stop timeout after %v", timeout)
	}
}

// Record converts a router attempt into a generation log and queues it
func (s *Service) Record(ctx context.Context, rec routing.AttemptRecord) {
	log := models.NewGenerationLog(
		middleware.GetRequestIDFromContext(ctx),
		string(rec.TaskType),
		string(rec.Strategy),
		rec.Model,
	).
		WithAttempt(rec.Provider, rec.Attempt, rec.Fallback).
		WithUsage(rec.PromptChars, rec.ResponseChars, rec.Usage.PromptTokens, rec.Usage.CompletionTokens, rec.Latency).
		WithError(rec.Err)

	_ = s.LogEvent(log)
}

// LogEvent queues a log without blocking. Returns an error when the buffer is full.
func (s *Service) LogEvent(log *models.GenerationLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.stopped {
		return fmt.Errorf("audit service not running")
	}

	select {
	case s.eventChan <- log:
		return nil
	default:
		s.dropped++
		s.logger.Warn("audit event channel full, dropping event",
			zap.String("model", log.Model),
			zap.String("request_id", log.RequestID),
			zap.Int("attempt", log.Attempt))
		return fmt.Errorf("audit event buffer full")
	}
}

// worker processes events from the channel
func (s *Service) worker(id int) {
	defer s.wg.Done()

	s.logger.Debug("audit worker started", zap.Int("worker_id", id))

	for log := range s.eventChan {
		err := s.processEvent(log)

		s.mu.Lock()
		if err != nil {
			s.failed++
		} else {
			s.written++
		}
		s.mu.Unlock()

		if err != nil {
			s.logger.Error("failed to write generation log",
				zap.Int("worker_id", id),
				zap.Error(err),
				zap.String("model", log.Model),
				zap.String("request_id", log.RequestID))
		}
	}

	s.logger.Debug("audit worker stopped", zap.Int("worker_id", id))
}

func (s *Service) processEvent(log *models.GenerationLog) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.repo.Insert(ctx, log); err != nil {
		return fmt.Errorf("failed to insert generation log: %w", err)
	}
	return nil
}

// GetStats returns statistics about the audit service
func (s *Service) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		BufferSize:    s.bufferSize,
		PendingEvents: len(s.eventChan),
		WorkerCount:   s.workerCount,
		Started:       s.started && !s.stopped,
		Written:       s.written,
		Failed:        s.failed,
		Dropped:       s.dropped,
	}
}

// Stats represents audit service statistics
type Stats struct {
	BufferSize    int   `json:"buffer_size"`
	PendingEvents int   `json:"pending_events"`
	WorkerCount   int   `json:"worker_count"`
	Started       bool  `json:"started"`
	Written       int64 `json:"written"`
	Failed        int64 `json:"failed"`
	Dropped       int64 `json:"dropped"`
}
