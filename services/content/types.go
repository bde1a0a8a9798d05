package content

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Score is a 0-100 rating. Models often answer with fractions or quoted numbers;
// decoding rounds to the nearest integer and clamps to the range.
type Score int

// UnmarshalJSON accepts a JSON number or a numeric string
func (s *Score) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		var str string
		if json.Unmarshal(data, &str) != nil {
			return fmt.Errorf("score must be a number, got %s", data)
		}
		if f, err = strconv.ParseFloat(str, 64); err != nil {
			return fmt.Errorf("score must be a number, got %q", str)
		}
	}
	*s = clampScore(math.Round(f))
	return nil
}

func clampScore(f float64) Score {
	switch {
	case math.IsNaN(f) || f < 0:
		return 0
	case f > 100:
		return 100
	default:
		return Score(f)
	}
}

// TitleSuggestion is one candidate headline with a model-assigned score (0-100)
type TitleSuggestion struct {
	Title string `json:"title"`
	Score Score  `json:"score"`
}

// SEORequest is the input to an SEO review
type SEORequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Keywords []string `json:"keywords,omitempty"`
}

// SEOAnalysis is the structured result of an SEO review
type SEOAnalysis struct {
	Score           Score              `json:"score"`
	Readability     string             `json:"readability"`
	KeywordDensity  map[string]float64 `json:"keyword_density"`
	Suggestions     []string           `json:"suggestions"`
	MetaDescription string             `json:"meta_description"`
}

// Claim verdicts
const (
	VerdictAccurate     = "accurate"
	VerdictInaccurate   = "inaccurate"
	VerdictUnverifiable = "unverifiable"
)

// ClaimCheck is the verdict on one factual statement
type ClaimCheck struct {
	Claim       string `json:"claim"`
	Verdict     string `json:"verdict"`
	Explanation string `json:"explanation"`
}

// FactCheckResult lists the checked claims and an overall verdict
type FactCheckResult struct {
	Claims          []ClaimCheck `json:"claims"`
	OverallAccuracy string       `json:"overall_accuracy"`
}

// Tones accepted by ChangeTone
var Tones = []string{"professional", "casual", "friendly", "formal", "humorous", "persuasive"}

// IsValidTone reports whether tone is one of Tones
func IsValidTone(tone string) bool {
	for _, t := range Tones {
		if t == tone {
			return true
		}
	}
	return false
}

// DefaultTitles is returned when the model output holds no usable title list
func DefaultTitles(topic string) []TitleSuggestion {
	return []TitleSuggestion{
		{Title: topic + ": A Complete Guide", Score: 80},
		{Title: "Everything You Need to Know About " + topic, Score: 75},
	}
}

// DefaultSEOAnalysis is returned when the model output holds no usable analysis
func DefaultSEOAnalysis() SEOAnalysis {
	return SEOAnalysis{
		Score:          50,
		Readability:    "unknown",
		KeywordDensity: map[string]float64{},
		Suggestions:    []string{"Automatic analysis was unavailable; review keyword placement and the meta description manually."},
	}
}

// DefaultFactCheck is returned when the model output holds no usable verdicts
func DefaultFactCheck() FactCheckResult {
	return FactCheckResult{
		Claims:          []ClaimCheck{},
		OverallAccuracy: VerdictUnverifiable,
	}
}
