package content

import (
	"fmt"
	"strings"
)

const editorSystemPrompt = "You are an experienced blog editor. Follow the requested output format exactly."

// maxContentChars caps how much of a post is embedded in a prompt
const maxContentChars = 6000

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func titlesPrompt(topic string) string {
	return fmt.Sprintf(`Suggest 5 compelling blog post titles about "%s".
Score each title from 0 to 100 for click-through potential and clarity.
Respond with a JSON array only, in this shape:
[{"title": "...", "score": 85}]`, topic)
}

func seoPrompt(req SEORequest) string {
	keywords := "none provided"
	if len(req.Keywords) > 0 {
		keywords = strings.Join(req.Keywords, ", ")
	}

	return fmt.Sprintf(`Analyze the SEO quality of this blog post.

Title: %s
Target keywords: %s

Content:
%s

Respond with a JSON object only, in this shape:
{"score": 0-100, "readability": "poor|fair|good|excellent", "keyword_density": {"keyword": 1.5}, "suggestions": ["..."], "meta_description": "under 160 characters"}`,
		req.Title, keywords, truncate(req.Content, maxContentChars))
}

func factCheckPrompt(content string) string {
	return fmt.Sprintf(`Identify the factual claims in the following text and assess each one.
Use the verdicts "accurate", "inaccurate" or "unverifiable".

Text:
%s

Respond with a JSON object only, in this shape:
{"claims": [{"claim": "...", "verdict": "accurate", "explanation": "..."}], "overall_accuracy": "accurate"}`,
		truncate(content, maxContentChars))
}

func tonePrompt(content, tone string) string {
	return fmt.Sprintf(`Rewrite the following text in a %s tone. Keep the meaning and every fact intact.
Return only the rewritten text, with no preamble.

Text:
%s`, tone, truncate(content, maxContentChars))
}

func summaryPrompt(content string, maxWords int) string {
	return fmt.Sprintf(`Write an excerpt of at most %d words for a blog post listing, based on the text below.
Return only the excerpt.

Text:
%s`, maxWords, truncate(content, maxContentChars))
}
