package repo

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
)

// lookPath is a variable for exec.LookPath to allow mocking in tests.
var lookPath = exec.LookPath

// CheckGit verifies that git is available in PATH.
func CheckGit() error {
	if _, err := lookPath("git"); err != nil {
		return &GitUnavailableError{}
	}
	return nil
}

// CLIGitter is the concrete implementation of Gitter using the git CLI.
type CLIGitter struct {
	dir    string
	logger *slog.Logger
}

// NewCLIGitter creates a CLIGitter that runs git in dir.
func NewCLIGitter(dir string, logger *slog.Logger) *CLIGitter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CLIGitter{dir: dir, logger: logger.With("component", "git")}
}

// output runs git with args in the gitter's directory and returns stdout.
func (g *CLIGitter) output(ctx context.Context, args ...string) ([]byte, error) {
	g.logger.Debug("running git", "args", strings.Join(args, " "), "dir", g.dir)

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, &CommandError{Args: args, Stderr: strings.TrimSpace(stderr.String()), Wrapped: err}
	}
	return out, nil
}

// paths runs a path-listing git command with -z and returns the listed paths.
// NUL separation keeps names with spaces or non-ASCII characters unquoted.
func (g *CLIGitter) paths(ctx context.Context, args ...string) ([]string, error) {
	zArgs := append([]string{args[0], "-z"}, args[1:]...)
	out, err := g.output(ctx, zArgs...)
	if err != nil {
		return nil, err
	}
	var res []string
	for _, p := range strings.Split(string(out), "\x00") {
		if p != "" {
			res = append(res, p)
		}
	}
	return res, nil
}

// revision runs git and returns the first line of its output as a Revision.
func (g *CLIGitter) revision(ctx context.Context, args ...string) (Revision, error) {
	out, err := g.output(ctx, args...)
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return Revision(line), nil
		}
	}
	return "", &CommandError{Args: args, Wrapped: errors.New("no output")}
}

func (g *CLIGitter) IsRepo(ctx context.Context) bool {
	out, err := g.output(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

func (g *CLIGitter) ModifiedFiles(ctx context.Context) ([]string, error) {
	return g.paths(ctx, "ls-files", "-m")
}

func (g *CLIGitter) StagedFiles(ctx context.Context) ([]string, error) {
	// --relative keeps paths relative to dir, matching ls-files.
	return g.paths(ctx, "diff", "--name-only", "--cached", "--relative")
}

func (g *CLIGitter) UntrackedFiles(ctx context.Context) ([]string, error) {
	return g.paths(ctx, "ls-files", "-o", "--exclude-standard")
}

func (g *CLIGitter) Upstream(ctx context.Context) (Revision, error) {
	return g.revision(ctx, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}")
}

func (g *CLIGitter) MergeBase(ctx context.Context, rev Revision) (Revision, error) {
	return g.revision(ctx, "merge-base", Head.String(), rev.String())
}

func (g *CLIGitter) RemoteDefaultBranch(ctx context.Context) (Revision, error) {
	return g.revision(ctx, "symbolic-ref", "refs/remotes/"+DefaultRemote+"/HEAD")
}

func (g *CLIGitter) RootCommit(ctx context.Context) (Revision, error) {
	return g.revision(ctx, "rev-list", "--max-parents=0", Head.String())
}

func (g *CLIGitter) ChangedFiles(ctx context.Context, base Revision) ([]string, error) {
	return g.paths(ctx, "diff", "--name-only", "--relative", base.String()+".."+Head.String())
}
