package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/upb/blog-ai-gateway/services"
	"github.com/upb/blog-ai-gateway/services/providers"
)

// contentGenerator is the subset of *genai.Models the adapter calls
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Adapter implements the Provider interface on top of the Gemini API SDK
type Adapter struct {
	config providers.ProviderConfig
	models contentGenerator
}

// NewAdapter builds a Gemini adapter. Without an API key no SDK client is
// created and every call fails with a configuration error.
func NewAdapter(ctx context.Context, config providers.ProviderConfig) (*Adapter, error) {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	a := &Adapter{config: config}
	if config.APIKey == "" {
		return a, nil
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: config.Timeout},
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	a.models = client.Models
	return a, nil
}

// Name returns the provider name
func (a *Adapter) Name() string {
	return providers.FamilyGemini
}

// Configured reports whether an API key is set
func (a *Adapter) Configured() bool {
	return a.config.APIKey != "" && a.models != nil
}

// Generate sends the prompt as a single user turn
func (a *Adapter) Generate(ctx context.Context, req *providers.GenerateRequest) (*providers.GenerateResponse, error) {
	if !a.Configured() {
		return nil, services.NewConfigurationError(a.Name())
	}

	startTime := time.Now()

	resp, err := a.models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), a.buildConfig(req))
	if err != nil {
		return nil, a.wrapError(err)
	}

	out := &providers.GenerateResponse{
		Text:     extractText(resp),
		Model:    req.Model,
		Provider: a.Name(),
		Latency:  time.Since(startTime),
	}
	if resp != nil && resp.UsageMetadata != nil {
		out.Usage = providers.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return out, nil
}

func (a *Adapter) buildConfig(req *providers.GenerateRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = a.config.DefaultMaxTokens
	}
	if maxTokens > 0 {
		cfg.MaxOutputTokens = int32(maxTokens)
	}
	if req.Temperature != nil {
		t := float32(*req.Temperature)
		cfg.Temperature = &t
	}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.SystemPrompt}}}
	}
	return cfg
}

// wrapError converts SDK failures into provider errors
func (a *Adapter) wrapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return providers.NewProviderError(
			a.Name(),
			apiErr.Status,
			apiErr.Message,
			apiErr.Code,
			providers.RetryableStatus(apiErr.Code),
			err,
		)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return providers.NewProviderError(a.Name(), "HTTP_ERROR", "request aborted", 0, true, err)
	}
	return providers.NewProviderError(a.Name(), "SDK_ERROR", "generate content failed", 0, false, err)
}

// extractText concatenates the text parts of the first candidate, skipping thoughts
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}
