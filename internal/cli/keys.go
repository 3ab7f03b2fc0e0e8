package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/Veraticus/moneyspice/internal/selection"
)

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// LineKeys turns line-buffered input into keys: every rune of a line
// followed by Enter. It serves pipes and terminals that cannot be put into
// raw mode.
type LineKeys struct {
	reader  *LineReader
	pending []rune
	mu      sync.Mutex
}

// NewLineKeys creates a key source over r.
func NewLineKeys(r io.Reader) *LineKeys {
	return &LineKeys{reader: NewLineReader(r)}
}

// ReadKey returns the next key, reading another line when needed.
func (l *LineKeys) ReadKey(ctx context.Context) (rune, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.pending) == 0 {
		line, err := l.reader.ReadLine(ctx)
		if err != nil {
			return 0, err
		}
		l.pending = append([]rune(line), selection.KeyEnter)
	}

	r := l.pending[0]
	l.pending = l.pending[1:]
	return r, nil
}

// Discard drops the rest of the current line so it does not leak into the
// next session.
func (l *LineKeys) Discard() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = nil
}

type keyResult struct {
	err error
	key rune
}

// TerminalKeys reads single keystrokes from a terminal in raw mode.
type TerminalKeys struct {
	file     *os.File
	oldState *term.State
	keys     chan keyResult
	start    sync.Once
}

// NewTerminalKeys puts f into raw mode. Close restores it.
func NewTerminalKeys(f *os.File) (*TerminalKeys, error) {
	oldState, err := term.MakeRaw(int(f.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	return &TerminalKeys{
		file:     f,
		oldState: oldState,
		keys:     make(chan keyResult, 16),
	}, nil
}

// ReadKey blocks until a key arrives or ctx is done.
func (t *TerminalKeys) ReadKey(ctx context.Context) (rune, error) {
	t.start.Do(func() { go t.pump() })

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res, ok := <-t.keys:
		if !ok {
			return 0, io.EOF
		}
		return res.key, res.err
	}
}

// pump reads keys for the lifetime of the terminal. Reads cannot be
// interrupted, so a single goroutine owns the file.
func (t *TerminalKeys) pump() {
	defer close(t.keys)
	br := bufio.NewReader(t.file)
	for {
		r, err := readKey(br)
		if err != nil {
			if err != io.EOF {
				t.keys <- keyResult{err: err}
			}
			return
		}
		t.keys <- keyResult{key: r}
	}
}

// readKey returns the next keystroke. Escape sequences sent by cursor and
// function keys are dropped whole; only an Esc that arrives on its own is
// returned as KeyEsc.
func readKey(br *bufio.Reader) (rune, error) {
	for {
		r, _, err := br.ReadRune()
		if err != nil {
			return 0, err
		}
		if r != selection.KeyEsc || br.Buffered() == 0 {
			return r, nil
		}
		next, err := br.Peek(1)
		if err != nil || (next[0] != '[' && next[0] != 'O') {
			return r, nil
		}
		if err := skipSequence(br); err != nil {
			return 0, err
		}
	}
}

// skipSequence consumes the introducer and the bytes of a CSI or SS3
// sequence up to and including its final byte.
func skipSequence(br *bufio.Reader) error {
	intro, err := br.ReadByte()
	if err != nil {
		return err
	}
	for {
		b, err := br.ReadByte()
		if err != nil {
			return err
		}
		if intro == 'O' || (b >= 0x40 && b <= 0x7e) {
			return nil
		}
	}
}

// Close restores the terminal state.
func (t *TerminalKeys) Close() error {
	if err := term.Restore(int(t.file.Fd()), t.oldState); err != nil {
		return fmt.Errorf("failed to restore terminal: %w", err)
	}
	return nil
}
