package models

import (
	"time"

	"github.com/google/uuid"
)

// GenerationStatus is the outcome of one backend attempt
type GenerationStatus string

const (
	GenerationSucceeded GenerationStatus = "succeeded"
	GenerationFailed    GenerationStatus = "failed"
)

// GenerationLog records a single backend attempt made by the router.
// A request that fell back produces two rows sharing a RequestID.
type GenerationLog struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	RequestID        string           `json:"request_id" db:"request_id"`
	TaskType         string           `json:"task_type" db:"task_type"`
	Strategy         string           `json:"strategy" db:"strategy"`
	Model            string           `json:"model" db:"model"`
	Provider         string           `json:"provider" db:"provider"`
	Attempt          int              `json:"attempt" db:"attempt"`
	Fallback         bool             `json:"fallback" db:"fallback"`
	Status           GenerationStatus `json:"status" db:"status"`
	ErrorMessage     *string          `json:"error_message,omitempty" db:"error_message"`
	PromptChars      int              `json:"prompt_chars" db:"prompt_chars"`
	ResponseChars    int              `json:"response_chars" db:"response_chars"`
	PromptTokens     int              `json:"prompt_tokens" db:"prompt_tokens"`
	CompletionTokens int              `json:"completion_tokens" db:"completion_tokens"`
	LatencyMs        int64            `json:"latency_ms" db:"latency_ms"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
}

// NewGenerationLog creates a succeeded log entry for model
func NewGenerationLog(requestID, taskType, strategy, model string) *GenerationLog {
	return &GenerationLog{
		ID:        uuid.New(),
		RequestID: requestID,
		TaskType:  taskType,
		Strategy:  strategy,
		Model:     model,
		Attempt:   1,
		Status:    GenerationSucceeded,
		CreatedAt: time.Now().UTC(),
	}
}

// WithAttempt sets the provider and attempt position
func (g *GenerationLog) WithAttempt(provider string, attempt int, fallback bool) *GenerationLog {
	g.Provider = provider
	g.Attempt = attempt
	g.Fallback = fallback
	return g
}

// WithUsage sets size, token and latency figures
func (g *GenerationLog) WithUsage(promptChars, responseChars, promptTokens, completionTokens int, latency time.Duration) *GenerationLog {
	g.PromptChars = promptChars
	g.ResponseChars = responseChars
	g.PromptTokens = promptTokens
	g.CompletionTokens = completionTokens
	g.LatencyMs = latency.Milliseconds()
	return g
}

// WithError marks the attempt failed
func (g *GenerationLog) WithError(err error) *GenerationLog {
	if err == nil {
		return g
	}
	msg := err.Error()
	g.Status = GenerationFailed
	g.ErrorMessage = &msg
	return g
}

// Succeeded reports whether the attempt returned text
func (g *GenerationLog) Succeeded() bool {
	return g.Status == GenerationSucceeded
}

// TotalTokens is the sum of prompt and completion tokens
func (g *GenerationLog) TotalTokens() int {
	return g.PromptTokens + g.CompletionTokens
}
