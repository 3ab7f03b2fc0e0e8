// Package moneymoney talks to the MoneyMoney application on macOS through
// its AppleScript interface.
package moneymoney

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"

	"github.com/Veraticus/moneyspice/internal/common"
)

// ErrScriptFailed is returned when osascript exits with an error.
var ErrScriptFailed = errors.New("AppleScript execution failed")

// Runner executes an AppleScript program and returns its standard output.
type Runner interface {
	Run(ctx context.Context, script string) ([]byte, error)
}

// OSAScript runs scripts with the osascript binary.
type OSAScript struct {
	// Path to osascript; defaults to "osascript" on $PATH.
	Path string
}

// Run executes script with osascript -e.
func (o OSAScript) Run(ctx context.Context, script string) ([]byte, error) {
	bin := o.Path
	if bin == "" {
		bin = "osascript"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-e", script)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", common.ErrAppUnavailable, bin)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		// -600: application isn't running.
		if strings.Contains(msg, "(-600)") {
			return nil, fmt.Errorf("%w: %s", common.ErrAppUnavailable, msg)
		}
		return nil, fmt.Errorf("%w: %s", ErrScriptFailed, msg)
	}
	return stdout.Bytes(), nil
}
