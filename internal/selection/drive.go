package selection

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/Veraticus/moneyspice/internal/model"
)

// KeySource delivers one keystroke at a time. ReadKey returns io.EOF when
// input is exhausted and must return promptly once ctx is done.
type KeySource interface {
	ReadKey(ctx context.Context) (rune, error)
}

// Drive runs the machine to completion against a key source. render, if
// non-nil, is called with every state before the next key is read and with
// the terminal state. Cancellation, end of input and read errors all end
// the session with Quit.
func Drive(ctx context.Context, m *Machine, keys KeySource, render func(State)) model.SelectionOutcome {
	state := m.Initial()
	for {
		if render != nil {
			render(state)
		}

		var ev Event
		if ctx.Err() != nil {
			ev = Interrupt()
		} else {
			r, err := keys.ReadKey(ctx)
			switch {
			case err == nil:
				ev = Key(r)
			case errors.Is(err, io.EOF):
				ev = EndOfInput()
			default:
				if ctx.Err() == nil {
					slog.Debug("Key read failed, treating as quit", "error", err)
				}
				ev = Interrupt()
			}
		}

		next, outcome := m.Step(state, ev)
		state = next
		if outcome != nil {
			if render != nil {
				render(state)
			}
			return *outcome
		}
	}
}

// ScriptedKeys replays a fixed key sequence and then reports end of input.
// It is used when no terminal is available.
type ScriptedKeys struct {
	keys []rune
	pos  int
	mu   sync.Mutex
}

// Script creates a scripted key source from a string.
func Script(keys string) *ScriptedKeys {
	return &ScriptedKeys{keys: []rune(keys)}
}

// ReadKey returns the next scripted key.
func (s *ScriptedKeys) ReadKey(ctx context.Context) (rune, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.keys) {
		return 0, io.EOF
	}
	r := s.keys[s.pos]
	s.pos++
	return r, nil
}
