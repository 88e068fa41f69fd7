package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTeXCommand is the KaTeX command-line renderer (npm package "katex").
const DefaultTeXCommand = "katex"

// defaultTeXTimeout bounds a single expression render.
const defaultTeXTimeout = 5 * time.Second

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, stdin string, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

// Run executes name with args, feeding stdin and capturing both streams.
func (r *ExecRunner) Run(ctx context.Context, stdin string, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- command comes from configuration
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// CommandTeX renders TeX by invoking an external KaTeX-compatible CLI that
// reads the expression on stdin and writes HTML on stdout.
type CommandTeX struct {
	Runner  CommandRunner
	Path    string
	Timeout time.Duration
}

// NewCommandTeX creates a CommandTeX for the given binary.
// An empty path uses DefaultTeXCommand from PATH.
func NewCommandTeX(path string) *CommandTeX {
	if path == "" {
		path = DefaultTeXCommand
	}
	return &CommandTeX{Runner: &ExecRunner{}, Path: path, Timeout: defaultTeXTimeout}
}

// RenderTeX implements TeXRenderer.
func (c *CommandTeX) RenderTeX(expr string, display bool) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTeXTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// katex exits non-zero on a parse error unless --no-throw-on-error is set.
	var args []string
	if display {
		args = append(args, "--display-mode")
	}

	stdout, stderr, err := c.Runner.Run(ctx, expr, c.Path, args...)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTeXCommand, strings.TrimSpace(stderr), err)
	}
	out := strings.TrimSpace(stdout)
	if out == "" {
		return "", fmt.Errorf("%w: empty output", ErrTeXCommand)
	}
	return out, nil
}

// Compile-time interface check.
var _ TeXRenderer = (*CommandTeX)(nil)
