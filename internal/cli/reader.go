package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when a read is abandoned because its context
// ended.
var ErrInputCancelled = errors.New("input canceled")

// LineReader reads lines on a background goroutine. A read abandoned by its
// context does not lose the line: it is returned by the next ReadLine.
type LineReader struct {
	src   *bufio.Reader
	lines chan string
	err   error // set before lines is closed
	start sync.Once
}

// NewLineReader creates a line reader over r.
func NewLineReader(r io.Reader) *LineReader {
	if r == nil {
		panic("reader cannot be nil")
	}
	return &LineReader{
		src:   bufio.NewReader(r),
		lines: make(chan string),
	}
}

func (r *LineReader) pump() {
	for {
		line, err := r.src.ReadString('\n')
		if line != "" || err == nil {
			r.lines <- strings.TrimSpace(line)
		}
		if err != nil {
			r.err = err
			close(r.lines)
			return
		}
	}
}

// ReadLine returns the next line with surrounding whitespace removed. A
// final line without a newline is returned before the reader's error,
// usually io.EOF.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}
	r.start.Do(func() { go r.pump() })

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case line, ok := <-r.lines:
		if !ok {
			return "", r.err
		}
		return line, nil
	}
}
