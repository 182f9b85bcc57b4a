package restrict

import (
	"fmt"
	"slices"
)

type mergeFunc func(a, b Restriction) (Restriction, error)

// mergeTable holds one rule per ordered pair of kinds. Every unordered pair is
// registered once and installed in both orientations.
var mergeTable [numKinds][numKinds]mergeFunc

func rule(a, b Kind, fn mergeFunc) {
	mergeTable[a][b] = fn
	if a != b {
		mergeTable[b][a] = func(x, y Restriction) (Restriction, error) { return fn(y, x) }
	}
}

func init() {
	for k := KindNull; k < numKinds; k++ {
		rule(KindNull, k, mergeNull)
	}

	rule(KindEqual, KindEqual, mergeEqualEqual)
	rule(KindEqual, KindNotEqual, mergeEqualNotEqual)
	rule(KindEqual, KindNotIn, mergeEqualNotIn)
	rule(KindEqual, KindLessThan, mergeEqualBound)
	rule(KindEqual, KindGreaterThan, mergeEqualBound)
	rule(KindEqual, KindBetween, mergeEqualBound)

	rule(KindNotEqual, KindNotEqual, mergeNotEqualNotEqual)
	rule(KindNotEqual, KindNotIn, mergeNotEqualNotIn)
	rule(KindNotEqual, KindLessThan, mergeNotEqualLess)
	rule(KindNotEqual, KindGreaterThan, mergeNotEqualGreater)
	rule(KindNotEqual, KindBetween, mergeNotEqualBetween)

	rule(KindNotIn, KindNotIn, mergeNotInNotIn)
	rule(KindNotIn, KindLessThan, mergeNotInBound)
	rule(KindNotIn, KindGreaterThan, mergeNotInBound)
	rule(KindNotIn, KindBetween, mergeNotInBound)

	rule(KindLessThan, KindLessThan, mergeLessLess)
	rule(KindLessThan, KindGreaterThan, mergeLessGreater)
	rule(KindLessThan, KindBetween, func(lt, bt Restriction) (Restriction, error) {
		return mergeBetweenLess(bt, lt)
	})

	rule(KindGreaterThan, KindGreaterThan, mergeGreaterGreater)
	rule(KindGreaterThan, KindBetween, func(gt, bt Restriction) (Restriction, error) {
		return mergeBetweenGreater(bt, gt)
	})

	rule(KindBetween, KindBetween, mergeBetweenBetween)
}

// Merge returns the restriction equivalent to "a and b". When no value can
// satisfy both, the error wraps ErrImpossible. The outcome does not depend on
// operand order.
func Merge(a, b Restriction) (Restriction, error) {
	if a.kind >= numKinds || b.kind >= numKinds {
		return Restriction{}, fmt.Errorf("%w for %s and %s", ErrNoMergeRule, a.kind, b.kind)
	}
	fn := mergeTable[a.kind][b.kind]
	if fn == nil {
		return Restriction{}, fmt.Errorf("%w for %s and %s", ErrNoMergeRule, a.kind, b.kind)
	}
	return fn(a, b)
}

func impossible(a, b Restriction) error {
	return fmt.Errorf("%w: %s and %s", ErrImpossible, a, b)
}

func mergeNull(_, b Restriction) (Restriction, error) { return b, nil }

func mergeEqualEqual(a, b Restriction) (Restriction, error) {
	if a.value == b.value {
		return a, nil
	}
	return Restriction{}, impossible(a, b)
}

func mergeEqualNotEqual(eq, ne Restriction) (Restriction, error) {
	if eq.value == ne.value {
		return Restriction{}, impossible(eq, ne)
	}
	return eq, nil
}

func mergeEqualNotIn(eq, ni Restriction) (Restriction, error) {
	if !ni.Within(eq.value) {
		return Restriction{}, impossible(eq, ni)
	}
	return eq, nil
}

func mergeEqualBound(eq, b Restriction) (Restriction, error) {
	if !b.Within(eq.value) {
		return Restriction{}, impossible(eq, b)
	}
	return eq, nil
}

func mergeNotEqualNotEqual(a, b Restriction) (Restriction, error) {
	if a.value == b.value {
		return a, nil
	}
	return NotIn(a.value, b.value), nil
}

func mergeNotEqualNotIn(ne, ni Restriction) (Restriction, error) {
	if !ni.Within(ne.value) {
		return ni, nil
	}
	return NotIn(append(slices.Clone(ni.set), ne.value)...), nil
}

// A value strictly inside a half-open range does not change its edge, so it
// is dropped. Excluding the edge itself tightens the bound onto the value.
func mergeNotEqualLess(ne, lt Restriction) (Restriction, error) {
	if lt.Within(ne.value) && ne.value == lt.upper() {
		return LessThan(ne.value, false), nil
	}
	return lt, nil
}

func mergeNotEqualGreater(ne, gt Restriction) (Restriction, error) {
	if gt.Within(ne.value) && ne.value == gt.lower() {
		return GreaterThan(ne.value, false), nil
	}
	return gt, nil
}

// mergeNotEqualBetween tightens an integer edge the value sits on. A value
// strictly inside the interval cannot be expressed by a Between and is left
// for Satisfy, which checks every raw restriction.
func mergeNotEqualBetween(ne, bt Restriction) (Restriction, error) {
	if !bt.Within(ne.value) {
		return bt, nil
	}
	lt, gt, _ := bt.Bounds()
	switch ne.value {
	case lt.upper():
		return mergeLessGreater(LessThan(ne.value, false), gt)
	case gt.lower():
		return mergeLessGreater(lt, GreaterThan(ne.value, false))
	}
	return bt, nil
}

func mergeNotInNotIn(a, b Restriction) (Restriction, error) {
	return NotIn(append(slices.Clone(a.set), b.set...)...), nil
}

// mergeNotInBound excludes the set members one by one, walking inward from
// each edge so that runs of excluded values next to an edge are all consumed.
func mergeNotInBound(ni, b Restriction) (Restriction, error) {
	asc := slices.Clone(ni.set)
	desc := slices.Clone(asc)
	slices.Reverse(desc)

	var walks [][]int
	switch b.kind {
	case KindLessThan:
		walks = [][]int{desc}
	case KindGreaterThan:
		walks = [][]int{asc}
	default:
		walks = [][]int{asc, desc}
	}

	out := b
	for _, values := range walks {
		for _, v := range values {
			var err error
			out, err = Merge(NotEqual(v), out)
			if err != nil {
				return Restriction{}, err
			}
		}
	}
	return out, nil
}

func mergeLessLess(a, b Restriction) (Restriction, error) {
	switch {
	case a.value == b.value:
		if !a.inclusive {
			return a, nil
		}
		return b, nil
	case a.value < b.value:
		return a, nil
	default:
		return b, nil
	}
}

func mergeGreaterGreater(a, b Restriction) (Restriction, error) {
	switch {
	case a.value == b.value:
		if !a.inclusive {
			return a, nil
		}
		return b, nil
	case a.value > b.value:
		return a, nil
	default:
		return b, nil
	}
}

// mergeLessGreater compares the integer edges, so an open interval holding
// no integer is impossible and one holding a single integer is an Equal.
func mergeLessGreater(lt, gt Restriction) (Restriction, error) {
	hi, lo := lt.upper(), gt.lower()
	switch {
	case hi < lo:
		return Restriction{}, impossible(lt, gt)
	case hi == lo:
		return Equal(hi), nil
	}
	return NewBetween(lt, gt)
}

func mergeBetweenLess(bt, lt Restriction) (Restriction, error) {
	btLT, btGT, _ := bt.Bounds()
	tighter, err := mergeLessLess(btLT, lt)
	if err != nil {
		return Restriction{}, err
	}
	return mergeLessGreater(tighter, btGT)
}

func mergeBetweenGreater(bt, gt Restriction) (Restriction, error) {
	btLT, btGT, _ := bt.Bounds()
	tighter, err := mergeGreaterGreater(btGT, gt)
	if err != nil {
		return Restriction{}, err
	}
	return mergeLessGreater(btLT, tighter)
}

func mergeBetweenBetween(a, b Restriction) (Restriction, error) {
	aLT, aGT, _ := a.Bounds()
	bLT, bGT, _ := b.Bounds()
	lt, err := mergeLessLess(aLT, bLT)
	if err != nil {
		return Restriction{}, err
	}
	gt, err := mergeGreaterGreater(aGT, bGT)
	if err != nil {
		return Restriction{}, err
	}
	return mergeLessGreater(lt, gt)
}
