package branch

import (
	"errors"
	"fmt"
)

var ErrTooManyPaths = errors.New("too many paths")

// UnsupportedError reports source the restriction algebra cannot model.
// Generation for the whole function stops on it.
type UnsupportedError struct {
	Construct string
	Line      int
	Reason    string
}

func (e *UnsupportedError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("unsupported construct %q at line %d: %s", e.Construct, e.Line, e.Reason)
	}
	return fmt.Sprintf("unsupported construct %q: %s", e.Construct, e.Reason)
}

func unsupported(construct string, line int, format string, args ...any) error {
	return &UnsupportedError{Construct: construct, Line: line, Reason: fmt.Sprintf(format, args...)}
}
