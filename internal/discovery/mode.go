package discovery

// Mode selects where candidate files come from.
type Mode int

const (
	// ModeExplicit uses the files and directories given on the command line.
	ModeExplicit Mode = iota
	// ModeAll lists every file under the format directories.
	ModeAll
	// ModeDirty uses modified, staged and untracked files from git.
	ModeDirty
	// ModeBranchDiff uses the files changed on the current branch.
	ModeBranchDiff
)

// String describes the mode for display.
func (m Mode) String() string {
	switch m {
	case ModeExplicit:
		return "explicit files/directories"
	case ModeAll:
		return "all files in format dirs"
	case ModeDirty:
		return "git dirty files"
	case ModeBranchDiff:
		return "current branch changes"
	default:
		return "unknown"
	}
}

// NeedsGit reports whether the mode queries git.
func (m Mode) NeedsGit() bool {
	return m == ModeDirty || m == ModeBranchDiff
}
