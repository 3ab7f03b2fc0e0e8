package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Veraticus/moneyspice/internal/model"
)

var (
	thinkBlock = regexp.MustCompile(`(?is)<think(?:ing)?>.*?</think(?:ing)?>`)
	jsonFence  = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
)

type rawSuggestion struct {
	CategoryPath string          `json:"category_path"`
	Category     string          `json:"category"`
	UUID         string          `json:"uuid"`
	Reasoning    string          `json:"reasoning"`
	Confidence   json.RawMessage `json:"confidence"`
}

// ParseCandidates extracts candidates from a model response. Reasoning
// blocks and markdown fences are removed first. Each suggestion yields its
// UUID as a candidate followed by its path, so resolution can fall back to
// the path when the model garbles the identifier; both share one confidence.
func ParseCandidates(text string) ([]model.Candidate, error) {
	body := extractJSON(text)
	if body == "" {
		return nil, fmt.Errorf("%w: no JSON object found", ErrNoSuggestions)
	}

	var payload struct {
		Suggestions []rawSuggestion `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}

	var out []model.Candidate
	for _, s := range payload.Suggestions {
		conf := parseConfidence(s.Confidence)
		path := strings.TrimSpace(s.CategoryPath)
		if path == "" {
			path = strings.TrimSpace(s.Category)
		}
		for _, text := range []string{strings.TrimSpace(s.UUID), path} {
			if text == "" {
				continue
			}
			out = append(out, model.Candidate{RawText: text, Confidence: conf, Reasoning: s.Reasoning})
		}
	}
	if len(out) == 0 {
		return nil, ErrNoSuggestions
	}
	return out, nil
}

func extractJSON(text string) string {
	text = thinkBlock.ReplaceAllString(text, "")
	if m := jsonFence.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// parseConfidence accepts numbers, numeric strings and percentages.
// Values above 1 are read as percentages.
func parseConfidence(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	pct := strings.HasSuffix(s, "%")
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	if pct || v > 1 {
		v /= 100
	}
	v = max(0, min(1, v))
	return &v
}
