package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	type payload struct {
		Score int `json:"score"`
	}

	tests := []struct {
		name   string
		text   string
		want   payload
		wantOK bool
	}{
		{"bare object", `{"score": 90}`, payload{90}, true},
		{"object inside prose", "Sure! Here is the analysis: {\"score\": 72} Let me know.", payload{72}, true},
		{"fenced block", "Result:\n```json\n{\"score\": 64}\n```\nThanks", payload{64}, true},
		{"skips broken candidate", `{"score": } and then {"score": 11}`, payload{11}, true},
		{"no json", "I could not analyze this post.", payload{-1}, false},
		{"empty", "", payload{-1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.text, payload{-1})
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSON_Array(t *testing.T) {
	text := "Here are some ideas [see below]:\n[{\"title\": \"A\", \"score\": 90}, {\"title\": \"B\", \"score\": 70}]"

	got, ok := ExtractJSON[[]TitleSuggestion](text, nil)

	assert.True(t, ok)
	assert.Equal(t, []TitleSuggestion{{"A", 90}, {"B", 70}}, got)
}

func TestExtractJSON_RequiredKeys(t *testing.T) {
	type analysis struct {
		Score       Score              `json:"score"`
		Density     map[string]float64 `json:"keyword_density"`
		Suggestions []string           `json:"suggestions"`
	}
	fallback := analysis{Score: 50}

	tests := []struct {
		name   string
		text   string
		want   analysis
		wantOK bool
	}{
		{
			name:   "unrelated object before payload",
			text:   `Note {"x": 1}. {"score": 78}`,
			want:   analysis{Score: 78},
			wantOK: true,
		},
		{
			name:   "nested object of a rejected value is not the payload",
			text:   `{"score": "high", "keyword_density": {"coffee": 2.1}, "suggestions": ["Add an H2"]}`,
			want:   fallback,
			wantOK: false,
		},
		{
			name:   "object without the key",
			text:   `{"readability": "good"}`,
			want:   fallback,
			wantOK: false,
		},
		{
			name:   "array never satisfies keys",
			text:   `[{"score": 10}]`,
			want:   fallback,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.text, fallback, "score")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSON_SkipsWholeRejectedValue(t *testing.T) {
	type title struct {
		Title string `json:"title"`
	}

	// the object decodes as a value but not as []title; its inner array must not be picked
	got, ok := ExtractJSON[[]title](`{"items": [{"title": "inner"}]}`, nil)

	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestScore_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    Score
		wantErr bool
	}{
		{`88`, 88, false},
		{`92.5`, 93, false},
		{`78.4`, 78, false},
		{`"85"`, 85, false},
		{`140`, 100, false},
		{`-3`, 0, false},
		{`"high"`, 0, true},
		{`true`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var s Score
			err := json.Unmarshal([]byte(tt.in), &s)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "hello there", cleanText("  \"hello there\"\n"))
	assert.Equal(t, "it's", cleanText("it's"))
	assert.Equal(t, "", cleanText("   "))
}
