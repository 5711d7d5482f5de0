package repo

import (
	"fmt"
	"strings"
)

type GitUnavailableError struct{}

func (e *GitUnavailableError) Error() string {
	return "git not found: please install git (https://git-scm.com)"
}

type NotARepositoryError struct {
	Dir string
}

func (e *NotARepositoryError) Error() string {
	return fmt.Sprintf("%s is not inside a git repository", e.Dir)
}

// CommandError reports a failed git invocation together with what git printed on stderr.
type CommandError struct {
	Args    []string
	Stderr  string
	Wrapped error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s failed: %v", strings.Join(e.Args, " "), e.Wrapped)
	if e.Stderr != "" {
		msg += " (" + e.Stderr + ")"
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Wrapped }
