// Package format runs the external code formatter over selected files.
package format

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
)

// DefaultTool is the formatter used when none is configured.
const DefaultTool = "clang-format"

var lookPath = exec.LookPath

// Formatter formats a single file in place.
type Formatter interface {
	Format(ctx context.Context, path string) error
}

// CheckTool resolves the formatter executable on PATH.
func CheckTool(name string) (string, error) {
	if name == "" {
		name = DefaultTool
	}
	path, err := lookPath(name)
	if err != nil {
		return "", &MissingToolError{Tool: name}
	}
	return path, nil
}

var _ Formatter = (*ClangFormat)(nil)

// ClangFormat invokes clang-format, taking style from the nearest .clang-format file
// and refusing to fall back to a built-in style.
type ClangFormat struct {
	// Tool is the executable name or path.
	Tool string
	// Dir is the working directory of the tool, normally the project root.
	Dir    string
	Logger *slog.Logger
}

// NewClangFormat creates a ClangFormat running tool from dir.
func NewClangFormat(tool, dir string, logger *slog.Logger) *ClangFormat {
	if tool == "" {
		tool = DefaultTool
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ClangFormat{Tool: tool, Dir: dir, Logger: logger.With("component", "formatter")}
}

// Args returns the command-line arguments used to format path.
func (c *ClangFormat) Args(path string) []string {
	return []string{"-i", path, "-style", "file", "-fallback-style", "none"}
}

func (c *ClangFormat) Format(ctx context.Context, path string) error {
	args := c.Args(path)
	if c.Logger != nil {
		c.Logger.Debug("running formatter", "tool", c.Tool, "args", args, "dir", c.Dir)
	}

	cmd := exec.CommandContext(ctx, c.Tool, args...)
	cmd.Dir = c.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = errors.Join(err, ctxErr)
		}
		return &ToolError{Path: path, Output: string(out), Wrapped: err}
	}
	return nil
}
