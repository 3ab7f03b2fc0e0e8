package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/moneyspice/internal/selection"
)

func TestLineKeys(t *testing.T) {
	keys := NewLineKeys(strings.NewReader("s\n café \n\n"))
	ctx := context.Background()

	var got []rune
	for {
		r, err := keys.ReadKey(ctx)
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			break
		}
		got = append(got, r)
	}

	assert.Equal(t, []rune{
		's', selection.KeyEnter,
		'c', 'a', 'f', 'é', selection.KeyEnter,
		selection.KeyEnter,
	}, got)
}

func TestLineKeys_Discard(t *testing.T) {
	keys := NewLineKeys(strings.NewReader("abc\nd\n"))
	ctx := context.Background()

	r, err := keys.ReadKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, 'a', r)

	keys.Discard()

	r, err = keys.ReadKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, 'd', r)
}

func TestIsTerminal_NotATerminal(t *testing.T) {
	assert.False(t, IsTerminal(nil))

	f, err := createTempFile(t)
	require.NoError(t, err)
	assert.False(t, IsTerminal(f))
}

func TestReadKey_EscapeSequences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []rune
	}{
		{"arrow keys", "\x1b[A\x1b[Bq", []rune{'q'}},
		{"application cursor keys", "\x1bOCn", []rune{'n'}},
		{"function key with parameters", "\x1b[15~1", []rune{'1'}},
		{"lone escape", "\x1b", []rune{selection.KeyEsc}},
		{"escape then text", "\x1bq", []rune{selection.KeyEsc, 'q'}},
		{"plain keys", "sé\r", []rune{'s', 'é', selection.KeyEnter}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			br := bufio.NewReader(strings.NewReader(tt.input))

			var got []rune
			for {
				r, err := readKey(br)
				if err != nil {
					require.ErrorIs(t, err, io.EOF)
					break
				}
				got = append(got, r)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
