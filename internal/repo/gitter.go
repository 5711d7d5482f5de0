// Package repo wraps the git queries srcfmt uses to pick files.
package repo

import (
	"context"
)

// DefaultRemote is the remote whose symbolic HEAD names the default branch.
const DefaultRemote = "origin"

// Revision represents a specific git point-in-time (ref name or hash).
type Revision string

func (r Revision) String() string { return string(r) }

// Head is the currently checked-out commit.
const Head Revision = "HEAD"

// Gitter defines the git operations used to discover files. Returned file paths
// are relative to the directory the Gitter operates in.
type Gitter interface {
	// IsRepo reports whether the directory is inside a git work tree.
	IsRepo(ctx context.Context) bool

	// ModifiedFiles lists tracked files with unstaged modifications.
	ModifiedFiles(ctx context.Context) ([]string, error)

	// StagedFiles lists files with staged changes.
	StagedFiles(ctx context.Context) ([]string, error)

	// UntrackedFiles lists untracked files that are not ignored.
	UntrackedFiles(ctx context.Context) ([]string, error)

	// Upstream returns the configured upstream of the current branch, e.g. "origin/main".
	Upstream(ctx context.Context) (Revision, error)

	// MergeBase returns the best common ancestor of HEAD and rev.
	MergeBase(ctx context.Context, rev Revision) (Revision, error)

	// RemoteDefaultBranch returns the ref the default remote's HEAD points to.
	RemoteDefaultBranch(ctx context.Context) (Revision, error)

	// RootCommit returns the first parentless commit reachable from HEAD.
	RootCommit(ctx context.Context) (Revision, error)

	// ChangedFiles lists the files changed between base and HEAD.
	ChangedFiles(ctx context.Context, base Revision) ([]string, error)
}
