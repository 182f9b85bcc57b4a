package restrict

import (
	"fmt"
	"strings"
)

type Argument struct {
	Name   string
	Domain Domain
}

func NewArgument(name string) Argument {
	return Argument{Name: name, Domain: LookupDomain(name)}
}

// ArgumentRestrictions is the conjunction of restrictions collected for one
// argument. It is a persistent list: With and Extend share the existing
// chain and never modify it, so values derived from a common prefix are
// independent.
type ArgumentRestrictions struct {
	arg  Argument
	tail *link
	n    int
}

type link struct {
	r    Restriction
	prev *link
}

func NewArgumentRestrictions(arg Argument, rs ...Restriction) ArgumentRestrictions {
	out := ArgumentRestrictions{arg: arg}
	for _, r := range rs {
		out = out.With(r)
	}
	return out
}

func (a ArgumentRestrictions) Argument() Argument { return a.arg }

func (a ArgumentRestrictions) Len() int { return a.n }

func (a ArgumentRestrictions) With(r Restriction) ArgumentRestrictions {
	return ArgumentRestrictions{arg: a.arg, tail: &link{r: r, prev: a.tail}, n: a.n + 1}
}

// Extend appends other's restrictions. Nothing is merged until Satisfy.
func (a ArgumentRestrictions) Extend(other ArgumentRestrictions) (ArgumentRestrictions, error) {
	if a.arg.Name != other.arg.Name {
		return ArgumentRestrictions{}, fmt.Errorf("%w: %q and %q", ErrArgumentMismatch, a.arg.Name, other.arg.Name)
	}
	out := a
	for _, r := range other.Restrictions() {
		out = out.With(r)
	}
	return out, nil
}

// Restrictions returns the chain in insertion order.
func (a ArgumentRestrictions) Restrictions() []Restriction {
	out := make([]Restriction, a.n)
	i := a.n - 1
	for l := a.tail; l != nil; l = l.prev {
		out[i] = l.r
		i--
	}
	return out
}

// Combine folds the chain left to right through Merge, starting from Null.
func (a ArgumentRestrictions) Combine() (Restriction, error) {
	acc := Null()
	for _, r := range a.Restrictions() {
		var err error
		acc, err = Merge(acc, r)
		if err != nil {
			return Restriction{}, err
		}
	}
	return acc, nil
}

// Satisfy derives one value meeting every restriction in the chain.
//
// The domain's pick is re-checked against the raw chain: a merged bound
// forgets excluded values that lie strictly inside it, so the candidate is
// moved away from the bound's edge until it clears every exclusion. The walk
// is bounded by the number of excluded values.
func (a ArgumentRestrictions) Satisfy() (int, error) {
	combined, err := a.Combine()
	if err != nil {
		return 0, err
	}

	domain := a.arg.Domain
	if domain == nil {
		domain = Integers{}
	}
	v, err := domain.Pick(combined)
	if err != nil {
		return 0, err
	}

	raw := a.Restrictions()
	step := 1
	if combined.kind == KindLessThan {
		step = -1
	}
	for range exclusions(raw) + 1 {
		if withinAll(raw, v) {
			return v, nil
		}
		v += step
		if !combined.Within(v) {
			break
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrNoInteger, a)
}

func withinAll(rs []Restriction, v int) bool {
	for _, r := range rs {
		if !r.Within(v) {
			return false
		}
	}
	return true
}

func exclusions(rs []Restriction) int {
	n := 0
	for _, r := range rs {
		switch r.kind {
		case KindNotEqual:
			n++
		case KindNotIn:
			n += len(r.set)
		}
	}
	return n
}

func (a ArgumentRestrictions) String() string {
	if a.n == 0 {
		return a.arg.Name + " any"
	}
	parts := make([]string, 0, a.n)
	for _, r := range a.Restrictions() {
		parts = append(parts, a.arg.Name+" "+r.String())
	}
	return strings.Join(parts, " and ")
}
