package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/moneyspice/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrInvalidDecision  = errors.New("invalid decision")
	ErrEmptyCandidates  = errors.New("candidate list cannot be empty")
	ErrInvalidCandidate = errors.New("invalid candidate")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateCandidates(candidates []model.Candidate) error {
	if len(candidates) == 0 {
		return ErrEmptyCandidates
	}
	for i, c := range candidates {
		if strings.TrimSpace(c.RawText) == "" {
			return fmt.Errorf("%w: candidate %d has no text", ErrInvalidCandidate, i)
		}
	}
	return nil
}

func validateDecision(d model.Decision) error {
	if strings.TrimSpace(d.TransactionID) == "" {
		return fmt.Errorf("%w: missing transaction id", ErrInvalidDecision)
	}
	switch d.Outcome {
	case model.OutcomeAccepted:
		if d.CategoryID == "" || d.CategoryPath == "" {
			return fmt.Errorf("%w: accepted decision without category", ErrInvalidDecision)
		}
	case model.OutcomeSkipped, model.OutcomeQuit:
	default:
		return fmt.Errorf("%w: unknown outcome %d", ErrInvalidDecision, d.Outcome)
	}
	return nil
}
