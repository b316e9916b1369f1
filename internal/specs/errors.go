package specs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRootNotFound reports that the configured spec root does not exist.
var ErrRootNotFound = errors.New("spec root not found")

// ResolutionErrorKind distinguishes "nothing to search" from "nothing matched".
type ResolutionErrorKind int

const (
	NotFound ResolutionErrorKind = iota
	EmptyResult
)

func (k ResolutionErrorKind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case EmptyResult:
		return "empty_result"
	default:
		return "unknown"
	}
}

// ResolutionError is a recoverable spec discovery outcome. Callers report it
// as a warning and stop early instead of failing the process.
type ResolutionError struct {
	Kind        ResolutionErrorKind
	Root        string
	Identifiers []string
	Err         error
}

func (e *ResolutionError) Error() string {
	switch e.Kind {
	case NotFound:
		return fmt.Sprintf("spec root %s does not exist", e.Root)
	case EmptyResult:
		if len(e.Identifiers) == 0 {
			return fmt.Sprintf("no spec files found in %s", e.Root)
		}
		return fmt.Sprintf("no spec files matching [%s] found in %s", strings.Join(e.Identifiers, ", "), e.Root)
	default:
		return "spec resolution failed"
	}
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// AsResolutionError reports whether err carries a *ResolutionError.
func AsResolutionError(err error) (*ResolutionError, bool) {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
