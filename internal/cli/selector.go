package cli

import (
	"context"

	"github.com/Veraticus/moneyspice/internal/model"
	"github.com/Veraticus/moneyspice/internal/selection"
)

type discarder interface {
	Discard()
}

// KeySelector runs selection sessions against a key source and draws them
// with a Renderer.
type KeySelector struct {
	source   func() selection.KeySource
	renderer *Renderer
}

// NewKeySelector shares one key source across all sessions.
func NewKeySelector(keys selection.KeySource, renderer *Renderer) *KeySelector {
	return &KeySelector{
		source:   func() selection.KeySource { return keys },
		renderer: renderer,
	}
}

// NewScriptedSelector types the same keys for every transaction. Test mode
// uses it with "n".
func NewScriptedSelector(script string, renderer *Renderer) *KeySelector {
	return &KeySelector{
		source:   func() selection.KeySource { return selection.Script(script) },
		renderer: renderer,
	}
}

// Select drives one session to its outcome.
func (s *KeySelector) Select(ctx context.Context, _ model.Transaction, m *selection.Machine) (model.SelectionOutcome, error) {
	keys := s.source()
	if d, ok := keys.(discarder); ok {
		d.Discard()
	}

	var render func(selection.State)
	if s.renderer != nil {
		s.renderer.Reset()
		render = func(st selection.State) { s.renderer.State(st, m.Suggestions()) }
	}
	return selection.Drive(ctx, m, keys, render), nil
}
