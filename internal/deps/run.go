package deps

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ToolError reports a failed external command with its captured stderr.
type ToolError struct {
	Tool   string
	Args   []string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s: %v", e.Tool, e.Err)
	}
	if i := strings.LastIndexByte(msg, '\n'); i >= 0 {
		msg = msg[i+1:]
	}
	return fmt.Sprintf("%s: %v: %s", e.Tool, e.Err, msg)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Run executes tool with args and returns its stdout. A non-zero exit yields
// a *ToolError carrying stderr.
func Run(ctx context.Context, tool string, args ...string) ([]byte, error) {
	// #nosec G204 - tool names come from configuration, not file contents
	cmd := exec.CommandContext(ctx, tool, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s cancelled: %w", tool, ctx.Err())
		}
		return nil, &ToolError{Tool: tool, Args: args, Stderr: stderr.String(), Err: err}
	}
	return stdout.Bytes(), nil
}
