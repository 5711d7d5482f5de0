package app

import (
	"fmt"
)

// FormatFailuresError reports that one or more files could not be formatted.
type FormatFailuresError struct {
	Failed int
	Total  int
}

func (e *FormatFailuresError) Error() string {
	return fmt.Sprintf("%d of %d files failed to format", e.Failed, e.Total)
}

// PositionalArgsError reports paths given alongside --modified or --all.
type PositionalArgsError struct {
	Args []string
}

func (e *PositionalArgsError) Error() string {
	return fmt.Sprintf("paths %q cannot be combined with --modified or --all", e.Args)
}

// ConfigLoadError reports that the project configuration could not be loaded.
type ConfigLoadError struct {
	Root    string
	Wrapped error
}

func (e *ConfigLoadError) Error() string {
	return fmt.Sprintf("configuration error in %s: %v", e.Root, e.Wrapped)
}

func (e *ConfigLoadError) Unwrap() error { return e.Wrapped }

// InvalidRootError reports a project root that does not exist or is not a directory.
type InvalidRootError struct {
	Path    string
	Wrapped error
}

func (e *InvalidRootError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("project root %s: %v", e.Path, e.Wrapped)
	}
	return fmt.Sprintf("project root %s is not a directory", e.Path)
}

func (e *InvalidRootError) Unwrap() error { return e.Wrapped }
