package summarize

import (
	"context"
	"encoding/json"
	"strings"
)

// Summary is the fixed shape requested from every provider: a short free-text
// summary plus up to five short facts.
type Summary struct {
	Summary   string   `json:"summary"`
	CoolFacts []string `json:"cool_facts"`
}

type Provider interface {
	Name() string
	Summarize(ctx context.Context, readme string) (*Summary, error)
}

const promptTemplate = `You are an expert summarizer for GitHub repositories.
Given the README content below, please do the following:
1. Write a brief summary (1-3 sentences) of the repository.
2. List up to 5 interesting or cool facts about this repository based solely on the README content.

README:
%s

Respond only in this JSON format:
{
  "summary": "<Brief summary here>",
  "cool_facts": [
    "<Fact 1>",
    "<Fact 2>"
  ]
}
`

// parseOutput extracts a Summary from raw model output. Code fences are
// stripped first; malformed JSON coerces to the raw text with no facts rather
// than failing.
func parseOutput(raw string) *Summary {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[len("```"):]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	cleaned = strings.TrimSpace(cleaned)

	var s Summary
	if err := json.Unmarshal([]byte(cleaned), &s); err != nil || s.Summary == "" {
		return &Summary{Summary: cleaned, CoolFacts: []string{}}
	}
	if s.CoolFacts == nil {
		s.CoolFacts = []string{}
	}
	if len(s.CoolFacts) > 5 {
		s.CoolFacts = s.CoolFacts[:5]
	}
	return &s
}
