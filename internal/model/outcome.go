package model

import "time"

// OutcomeKind is the terminal decision of one interactive session.
type OutcomeKind int

// Outcome kinds.
const (
	OutcomeAccepted OutcomeKind = iota + 1
	OutcomeSkipped
	OutcomeQuit
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// SelectionOutcome is produced exactly once per transaction. Category is only
// set for OutcomeAccepted.
type SelectionOutcome struct {
	Category Category
	Kind     OutcomeKind
}

// Accepted builds an accepted outcome.
func Accepted(c Category) SelectionOutcome {
	return SelectionOutcome{Kind: OutcomeAccepted, Category: c}
}

// Skipped builds a skip outcome.
func Skipped() SelectionOutcome {
	return SelectionOutcome{Kind: OutcomeSkipped}
}

// Quit builds a quit outcome.
func Quit() SelectionOutcome {
	return SelectionOutcome{Kind: OutcomeQuit}
}

// Decision is the audit record of one applied outcome.
type Decision struct {
	DecidedAt     time.Time
	TransactionID string
	CategoryID    string
	CategoryPath  string
	Outcome       OutcomeKind
	Stage         MatchStage // zero when the category came from search
	DryRun        bool
}
