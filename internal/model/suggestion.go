package model

// MatchStage records which resolution tier validated a candidate.
type MatchStage int

// Resolution tiers, in the order they are attempted.
const (
	StageExactID MatchStage = iota + 1
	StageExactPath
	StageFuzzy
)

func (s MatchStage) String() string {
	switch s {
	case StageExactID:
		return "exact-id"
	case StageExactPath:
		return "exact-path"
	case StageFuzzy:
		return "fuzzy"
	default:
		return "unknown"
	}
}

// Candidate is one raw, unvalidated category proposal from the language model.
type Candidate struct {
	Confidence *float64 `json:"confidence,omitempty"`
	RawText    string   `json:"raw_text"`
	Reasoning  string   `json:"reasoning,omitempty"`
}

// Score returns the confidence, treating a missing value as zero.
func (c Candidate) Score() float64 {
	if c.Confidence == nil {
		return 0
	}
	return *c.Confidence
}

// ValidatedSuggestion is a candidate that resolved to an assignable category.
type ValidatedSuggestion struct {
	Candidate Candidate
	Category  Category
	Stage     MatchStage
}
