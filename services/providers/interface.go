package providers

import (
	"context"
	"errors"
	"time"
)

// Provider is a single hosted text-generation backend family.
type Provider interface {
	// Name returns the provider family (e.g., "gemini", "openai", "anthropic")
	Name() string

	// Configured reports whether a credential is present. An unconfigured
	// provider fails every call with a configuration error.
	Configured() bool

	// Generate sends one prompt to the backend and returns the extracted text
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
}

// GenerateRequest is the provider-neutral input for one backend call
type GenerateRequest struct {
	// Model identifier (e.g., "gpt-4o", "claude-3-5-sonnet-20241022")
	Model string `json:"model"`

	// Prompt is the user turn sent to the model
	Prompt string `json:"prompt"`

	// SystemPrompt is an optional instruction preamble
	SystemPrompt string `json:"system_prompt,omitempty"`

	// MaxTokens limits the response length; zero uses the provider default
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls randomness; nil uses the provider default
	Temperature *float64 `json:"temperature,omitempty"`
}

// GenerateResponse is the provider-neutral output of one backend call
type GenerateResponse struct {
	Text     string        `json:"text"`
	Model    string        `json:"model"`
	Provider string        `json:"provider"`
	Usage    Usage         `json:"usage"`
	Latency  time.Duration `json:"latency"`
}

// Usage represents token usage statistics
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ProviderConfig holds common configuration for providers
type ProviderConfig struct {
	// APIKey for authentication; empty means the provider is unconfigured
	APIKey string

	// BaseURL for the API (optional override)
	BaseURL string

	// Timeout for requests
	Timeout time.Duration

	// Additional headers
	Headers map[string]string

	// DefaultMaxTokens applies when a request does not set MaxTokens
	DefaultMaxTokens int
}

// DefaultProviderConfig returns a sensible default configuration
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		Timeout:          30 * time.Second,
		Headers:          make(map[string]string),
		DefaultMaxTokens: 2048,
	}
}

// ProviderError represents an error from a provider
type ProviderError struct {
	// Provider that generated the error
	Provider string

	// Code is the error code
	Code string

	// Message is the error message
	Message string

	// StatusCode is the HTTP status code (if applicable)
	StatusCode int

	// Retryable indicates the failure is transient (429 or 5xx)
	Retryable bool

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	msg := e.Provider + ": " + e.Message
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap implements error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a new provider error
func NewProviderError(provider, code, message string, statusCode int, retryable bool, cause error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  retryable,
		Cause:      cause,
	}
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Retryable
	}
	return false
}

// RetryableStatus reports whether an HTTP status code signals a transient failure
func RetryableStatus(statusCode int) bool {
	return statusCode == 429 || statusCode >= 500
}
