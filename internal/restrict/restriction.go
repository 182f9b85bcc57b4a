// Package restrict models the admissible values of a single integer variable
// as a conjunction of simple predicates, and merges them.
package restrict

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindEqual
	KindNotEqual
	KindNotIn
	KindLessThan
	KindGreaterThan
	KindBetween

	numKinds
)

var kindNames = [numKinds]string{
	KindNull:        "null",
	KindEqual:       "equal",
	KindNotEqual:    "not_equal",
	KindNotIn:       "not_in",
	KindLessThan:    "less_than",
	KindGreaterThan: "greater_than",
	KindBetween:     "between",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Restriction is an immutable predicate over one variable. The zero value is
// Null and admits every value.
//
// For Between, value/inclusive hold the LessThan edge and low/lowInclusive
// hold the GreaterThan edge.
type Restriction struct {
	kind         Kind
	value        int
	inclusive    bool
	low          int
	lowInclusive bool
	set          []int
}

func Null() Restriction { return Restriction{} }

func Equal(v int) Restriction { return Restriction{kind: KindEqual, value: v} }

func NotEqual(v int) Restriction { return Restriction{kind: KindNotEqual, value: v} }

// NotIn excludes every value in values. The set is stored sorted and
// deduplicated.
func NotIn(values ...int) Restriction {
	set := slices.Clone(values)
	slices.Sort(set)
	return Restriction{kind: KindNotIn, set: slices.Compact(set)}
}

func LessThan(v int, inclusive bool) Restriction {
	return Restriction{kind: KindLessThan, value: v, inclusive: inclusive}
}

func GreaterThan(v int, inclusive bool) Restriction {
	return Restriction{kind: KindGreaterThan, value: v, inclusive: inclusive}
}

// NewBetween builds the conjunction of a LessThan and a GreaterThan.
// lt's threshold must not be below gt's, and equal thresholds are only valid
// when both bounds are inclusive.
func NewBetween(lt, gt Restriction) (Restriction, error) {
	if lt.kind != KindLessThan || gt.kind != KindGreaterThan {
		return Restriction{}, fmt.Errorf("%w: want less_than and greater_than, got %s and %s", ErrInvalidBetween, lt.kind, gt.kind)
	}
	if lt.value < gt.value {
		return Restriction{}, fmt.Errorf("%w: %s is below %s", ErrInvalidBetween, lt, gt)
	}
	if lt.value == gt.value && !(lt.inclusive && gt.inclusive) {
		return Restriction{}, fmt.Errorf("%w: %s and %s meet at an open edge", ErrInvalidBetween, lt, gt)
	}
	return Restriction{
		kind:         KindBetween,
		value:        lt.value,
		inclusive:    lt.inclusive,
		low:          gt.value,
		lowInclusive: gt.inclusive,
	}, nil
}

func (r Restriction) Kind() Kind { return r.kind }

// Value is the payload of Equal, NotEqual, LessThan and GreaterThan.
func (r Restriction) Value() int { return r.value }

func (r Restriction) Inclusive() bool { return r.inclusive }

// Values returns a copy of the NotIn set.
func (r Restriction) Values() []int { return slices.Clone(r.set) }

// Bounds splits a Between into its LessThan and GreaterThan halves.
func (r Restriction) Bounds() (lt, gt Restriction, ok bool) {
	if r.kind != KindBetween {
		return Restriction{}, Restriction{}, false
	}
	return LessThan(r.value, r.inclusive), GreaterThan(r.low, r.lowInclusive), true
}

// Within reports whether x satisfies r.
func (r Restriction) Within(x int) bool {
	switch r.kind {
	case KindNull:
		return true
	case KindEqual:
		return x == r.value
	case KindNotEqual:
		return x != r.value
	case KindNotIn:
		_, found := slices.BinarySearch(r.set, x)
		return !found
	case KindLessThan:
		if r.inclusive {
			return x <= r.value
		}
		return x < r.value
	case KindGreaterThan:
		if r.inclusive {
			return x >= r.value
		}
		return x > r.value
	case KindBetween:
		lt, gt, _ := r.Bounds()
		return lt.Within(x) && gt.Within(x)
	}
	return false
}

// Equal reports structural equality.
func (r Restriction) Equal(o Restriction) bool {
	if r.kind != o.kind {
		return false
	}
	switch r.kind {
	case KindNull:
		return true
	case KindEqual, KindNotEqual:
		return r.value == o.value
	case KindNotIn:
		return slices.Equal(r.set, o.set)
	case KindLessThan, KindGreaterThan:
		return r.value == o.value && r.inclusive == o.inclusive
	case KindBetween:
		return r.value == o.value && r.inclusive == o.inclusive &&
			r.low == o.low && r.lowInclusive == o.lowInclusive
	}
	return false
}

// Inverse returns the negation of r. Only Equal, NotEqual, LessThan and
// GreaterThan have one.
func (r Restriction) Inverse() (Restriction, error) {
	switch r.kind {
	case KindEqual:
		return NotEqual(r.value), nil
	case KindNotEqual:
		return Equal(r.value), nil
	case KindLessThan:
		return GreaterThan(r.value, !r.inclusive), nil
	case KindGreaterThan:
		return LessThan(r.value, !r.inclusive), nil
	}
	return Restriction{}, fmt.Errorf("%w: %s", ErrNoInverse, r.kind)
}

// upper is the largest integer admitted by a LessThan edge.
func (r Restriction) upper() int {
	if r.inclusive {
		return r.value
	}
	return r.value - 1
}

// lower is the smallest integer admitted by a GreaterThan edge.
func (r Restriction) lower() int {
	if r.inclusive {
		return r.value
	}
	return r.value + 1
}

func (r Restriction) String() string {
	switch r.kind {
	case KindNull:
		return "any"
	case KindEqual:
		return "== " + strconv.Itoa(r.value)
	case KindNotEqual:
		return "!= " + strconv.Itoa(r.value)
	case KindNotIn:
		parts := make([]string, len(r.set))
		for i, v := range r.set {
			parts[i] = strconv.Itoa(v)
		}
		return "not in {" + strings.Join(parts, ", ") + "}"
	case KindLessThan:
		if r.inclusive {
			return "<= " + strconv.Itoa(r.value)
		}
		return "< " + strconv.Itoa(r.value)
	case KindGreaterThan:
		if r.inclusive {
			return ">= " + strconv.Itoa(r.value)
		}
		return "> " + strconv.Itoa(r.value)
	case KindBetween:
		lt, gt, _ := r.Bounds()
		return lt.String() + " and " + gt.String()
	}
	return r.kind.String()
}
