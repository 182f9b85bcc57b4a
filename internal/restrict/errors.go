package restrict

import "errors"

var (
	// ErrImpossible reports that no value satisfies both sides of a merge.
	ErrImpossible = errors.New("impossible restriction")

	// ErrNoInteger reports that a restriction admits no integer value.
	ErrNoInteger = errors.New("no integer satisfies restriction")

	ErrNoInverse        = errors.New("restriction has no inverse")
	ErrInvalidBetween   = errors.New("invalid between restriction")
	ErrNoMergeRule      = errors.New("no merge rule")
	ErrArgumentMismatch = errors.New("restrictions belong to different arguments")
)

// Unsatisfiable reports whether err means that a path cannot be taken by any
// value, as opposed to an internal failure.
func Unsatisfiable(err error) bool {
	return errors.Is(err, ErrImpossible) || errors.Is(err, ErrNoInteger)
}
