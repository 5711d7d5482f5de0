package config

import (
	"fmt"
)

type InvalidYAMLError struct {
	Path    string
	Wrapped error
}

func (e *InvalidYAMLError) Error() string {
	return fmt.Sprintf("%s is not a valid yaml document: %v", e.Path, e.Wrapped)
}

func (e *InvalidYAMLError) Unwrap() error { return e.Wrapped }

type InvalidConfigError struct {
	Path    string
	Wrapped error
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("%s is invalid: %v", e.Path, e.Wrapped)
}

func (e *InvalidConfigError) Unwrap() error { return e.Wrapped }

type MissingPropertyError struct {
	Property string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("missing required property: %s", e.Property)
}

type InvalidPatternError struct {
	Pattern string
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("excludePatterns entry '%s' is not a valid glob pattern", e.Pattern)
}

type AbsoluteFormatDirError struct {
	Dir string
}

func (e *AbsoluteFormatDirError) Error() string {
	return fmt.Sprintf("formatDirs entry '%s' must be relative to the project root", e.Dir)
}
