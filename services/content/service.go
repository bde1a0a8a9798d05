package content

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/upb/blog-ai-gateway/services"
	"github.com/upb/blog-ai-gateway/services/routing"
)

const (
	defaultSummaryWords = 50
	maxSummaryWords     = 300
)

// Generator is the part of the router the content operations depend on
type Generator interface {
	Execute(ctx context.Context, req routing.GenerationRequest) (*routing.GenerationResult, error)
	HighestQualityModel() (string, error)
}

// Service builds task-specific prompts on top of the router and parses the replies.
// Router errors are returned unchanged; malformed replies fall back to defaults.
type Service struct {
	generator Generator
	logger    *zap.Logger
}

// NewService creates a new content service
func NewService(generator Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{generator: generator, logger: logger}
}

// GenerateTitles suggests headlines for a topic using the highest-quality model
func (s *Service) GenerateTitles(ctx context.Context, topic string) ([]TitleSuggestion, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, requiredField("topic")
	}

	text, err := s.generateWithBestModel(ctx, routing.TaskCreative, titlesPrompt(topic))
	if err != nil {
		return nil, err
	}

	titles, ok := ExtractJSON[[]TitleSuggestion](text, nil)
	if !ok {
		var wrapped struct {
			Titles []TitleSuggestion `json:"titles"`
		}
		wrapped, ok = ExtractJSON(text, wrapped, "titles")
		titles = wrapped.Titles
	}

	titles = cleanTitles(titles)
	if !ok || len(titles) == 0 {
		s.logger.Warn("title reply held no usable JSON, using defaults", zap.Int("response_chars", len(text)))
		return DefaultTitles(topic), nil
	}
	return titles, nil
}

// AnalyzeSEO scores a post for search visibility using the highest-quality model
func (s *Service) AnalyzeSEO(ctx context.Context, req SEORequest) (*SEOAnalysis, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, requiredField("title")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, requiredField("content")
	}

	text, err := s.generateWithBestModel(ctx, routing.TaskSEO, seoPrompt(req))
	if err != nil {
		return nil, err
	}

	analysis, ok := ExtractJSON(text, DefaultSEOAnalysis(), "score")
	if !ok {
		s.logger.Warn("SEO reply held no usable JSON, using defaults", zap.Int("response_chars", len(text)))
		return &analysis, nil
	}

	if analysis.KeywordDensity == nil {
		analysis.KeywordDensity = map[string]float64{}
	}
	if analysis.Suggestions == nil {
		analysis.Suggestions = []string{}
	}
	return &analysis, nil
}

// FactCheck lists the factual claims in content with a verdict for each
func (s *Service) FactCheck(ctx context.Context, content string) (*FactCheckResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, requiredField("content")
	}

	text, err := s.generate(ctx, routing.TaskAnalysis, factCheckPrompt(content))
	if err != nil {
		return nil, err
	}

	result, ok := ExtractJSON(text, DefaultFactCheck(), "claims", "overall_accuracy")
	if !ok {
		s.logger.Warn("fact-check reply held no usable JSON, using defaults", zap.Int("response_chars", len(text)))
		return &result, nil
	}

	if result.Claims == nil {
		result.Claims = []ClaimCheck{}
	}
	for i := range result.Claims {
		result.Claims[i].Verdict = normalizeVerdict(result.Claims[i].Verdict)
	}
	result.OverallAccuracy = normalizeVerdict(result.OverallAccuracy)
	return &result, nil
}

// ChangeTone rewrites content in one of the supported tones
func (s *Service) ChangeTone(ctx context.Context, content, tone string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", requiredField("content")
	}
	tone = strings.ToLower(strings.TrimSpace(tone))
	if !IsValidTone(tone) {
		return "", services.NewDomainError(services.ErrorTypeValidation, "unsupported tone", nil).
			WithDetail("tone", tone).
			WithDetail("allowed", Tones)
	}

	text, err := s.generate(ctx, routing.TaskCreative, tonePrompt(content, tone))
	if err != nil {
		return "", err
	}
	return cleanText(text), nil
}

// Summarize produces a listing excerpt of at most maxWords words
func (s *Service) Summarize(ctx context.Context, content string, maxWords int) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", requiredField("content")
	}
	if maxWords <= 0 {
		maxWords = defaultSummaryWords
	}
	if maxWords > maxSummaryWords {
		maxWords = maxSummaryWords
	}

	text, err := s.generate(ctx, routing.TaskSimple, summaryPrompt(content, maxWords))
	if err != nil {
		return "", err
	}
	return limitWords(cleanText(text), maxWords), nil
}

func (s *Service) generate(ctx context.Context, task routing.TaskType, prompt string) (string, error) {
	res, err := s.generator.Execute(ctx, routing.GenerationRequest{
		Prompt:       prompt,
		SystemPrompt: editorSystemPrompt,
		TaskType:     task,
	})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

func (s *Service) generateWithBestModel(ctx context.Context, task routing.TaskType, prompt string) (string, error) {
	model, err := s.generator.HighestQualityModel()
	if err != nil {
		return "", err
	}

	res, err := s.generator.Execute(ctx, routing.GenerationRequest{
		Prompt:       prompt,
		SystemPrompt: editorSystemPrompt,
		TaskType:     task,
		Model:        model,
	})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

func requiredField(field string) error {
	return services.NewDomainError(services.ErrorTypeValidation, field+" is required", nil).WithDetail("field", field)
}

func cleanTitles(in []TitleSuggestion) []TitleSuggestion {
	out := make([]TitleSuggestion, 0, len(in))
	for _, t := range in {
		t.Title = strings.TrimSpace(t.Title)
		if t.Title == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

func normalizeVerdict(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case VerdictAccurate:
		return VerdictAccurate
	case VerdictInaccurate:
		return VerdictInaccurate
	default:
		return VerdictUnverifiable
	}
}

func limitWords(s string, max int) string {
	words := strings.Fields(s)
	if len(words) <= max {
		return s
	}
	return strings.Join(words[:max], " ")
}
