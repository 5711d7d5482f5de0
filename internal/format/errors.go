package format

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// MissingToolError reports that the formatter executable is not on PATH.
type MissingToolError struct {
	Tool string
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("missing %s: please install it and make sure it is on your PATH", e.Tool)
}

// ToolError reports that the formatter failed on a single file.
type ToolError struct {
	Path    string
	Output  string
	Wrapped error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason())
}

// Reason describes why the tool failed, without the file path.
func (e *ToolError) Reason() string {
	reason := e.Wrapped.Error()
	var exitErr *exec.ExitError
	if errors.As(e.Wrapped, &exitErr) {
		reason = fmt.Sprintf("exit status %d", exitErr.ExitCode())
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		reason += ": " + out
	}
	return reason
}

func (e *ToolError) Unwrap() error { return e.Wrapped }
