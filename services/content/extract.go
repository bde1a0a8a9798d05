package content

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")

// ExtractJSON finds the first JSON object or array in text that decodes into T.
// Fenced code blocks are tried before the surrounding prose. When anyOfKeys is
// non-empty the value must be an object holding at least one of those keys.
// A rejected value is skipped whole, so objects nested inside it are never
// mistaken for the payload. When nothing qualifies, fallback is returned with ok=false.
func ExtractJSON[T any](text string, fallback T, anyOfKeys ...string) (T, bool) {
	candidates := make([]string, 0, 4)
	for _, m := range fencedBlock.FindAllStringSubmatch(text, -1) {
		candidates = append(candidates, m[1])
	}
	candidates = append(candidates, text)

	for _, candidate := range candidates {
		if v, ok := decodeFirst[T](candidate, anyOfKeys); ok {
			return v, true
		}
	}
	return fallback, false
}

// decodeFirst scans s for '{' or '[' and returns the first well-formed value that
// decodes into T and carries one of keys. Scanning resumes after a rejected value.
func decodeFirst[T any](s string, keys []string) (T, bool) {
	var zero T
	for i := 0; i < len(s); i++ {
		if s[i] != '{' && s[i] != '[' {
			continue
		}

		var raw json.RawMessage
		dec := json.NewDecoder(strings.NewReader(s[i:]))
		if err := dec.Decode(&raw); err != nil {
			continue
		}

		if hasAnyKey(raw, keys) {
			var v T
			if err := json.Unmarshal(raw, &v); err == nil {
				return v, true
			}
		}
		i += int(dec.InputOffset()) - 1
	}
	return zero, false
}

func hasAnyKey(raw json.RawMessage, keys []string) bool {
	if len(keys) == 0 {
		return true
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}
	for _, k := range keys {
		if _, ok := fields[k]; ok {
			return true
		}
	}
	return false
}

// cleanText trims whitespace and a single pair of wrapping quotes from model output
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}
