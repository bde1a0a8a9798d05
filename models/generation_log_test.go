package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerationLog(t *testing.T) {
	log := NewGenerationLog("req-1", "seo", "smart", "claude-3-5-sonnet-20241022")

	assert.NotEqual(t, uuid.Nil, log.ID)
	assert.Equal(t, "req-1", log.RequestID)
	assert.Equal(t, "seo", log.TaskType)
	assert.Equal(t, 1, log.Attempt)
	assert.True(t, log.Succeeded())
	assert.Nil(t, log.ErrorMessage)
	assert.False(t, log.CreatedAt.IsZero())
}

func TestGenerationLog_Builders(t *testing.T) {
	log := NewGenerationLog("req-2", "simple", "cost-optimized", "gemini-1.5-flash").
		WithAttempt("gemini", 2, true).
		WithUsage(120, 48, 30, 12, 1500*time.Millisecond).
		WithError(errors.New("quota exceeded"))

	assert.Equal(t, "gemini", log.Provider)
	assert.Equal(t, 2, log.Attempt)
	assert.True(t, log.Fallback)
	assert.Equal(t, int64(1500), log.LatencyMs)
	assert.Equal(t, 42, log.TotalTokens())
	assert.False(t, log.Succeeded())
	require.NotNil(t, log.ErrorMessage)
	assert.Equal(t, "quota exceeded", *log.ErrorMessage)
}

func TestGenerationLog_WithNilError(t *testing.T) {
	log := NewGenerationLog("req-3", "simple", "smart", "gpt-4o").WithError(nil)

	assert.True(t, log.Succeeded())
	assert.Nil(t, log.ErrorMessage)
}

func TestGenerationLog_JSONOmitsEmptyError(t *testing.T) {
	data, err := json.Marshal(NewGenerationLog("req-4", "simple", "smart", "gpt-4o"))
	require.NoError(t, err)

	assert.NotContains(t, string(data), "error_message")
	assert.Contains(t, string(data), `"status":"succeeded"`)
}
