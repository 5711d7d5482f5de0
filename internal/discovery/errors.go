package discovery

import (
	"fmt"
)

// DirtyFilesError reports that the dirty file set could not be determined.
type DirtyFilesError struct {
	Wrapped error
}

func (e *DirtyFilesError) Error() string {
	return fmt.Sprintf("could not list dirty files: %v", e.Wrapped)
}

func (e *DirtyFilesError) Unwrap() error { return e.Wrapped }

type UnknownModeError struct {
	Mode Mode
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("unknown discovery mode %d", int(e.Mode))
}
