package restrict

import (
	"fmt"
	"slices"
)

// Domain picks one concrete value admitted by a merged restriction.
type Domain interface {
	Name() string
	Pick(r Restriction) (int, error)
}

// domains maps argument names to their domain. Names without an entry are
// integers.
var domains = map[string]Domain{}

func LookupDomain(name string) Domain {
	if d, ok := domains[name]; ok {
		return d
	}
	return Integers{}
}

// Integers picks the smallest value each kind naturally offers.
type Integers struct{}

func (Integers) Name() string { return "int" }

func (Integers) Pick(r Restriction) (int, error) {
	switch r.kind {
	case KindNull:
		return 0, nil
	case KindEqual:
		return r.value, nil
	case KindNotEqual:
		return r.value + 1, nil
	case KindNotIn:
		// Linear probe upward from 1; terminates because the set is finite.
		i := 1
		for {
			if _, found := slices.BinarySearch(r.set, i); !found {
				return i, nil
			}
			i++
		}
	case KindLessThan:
		return r.upper(), nil
	case KindGreaterThan:
		return r.lower(), nil
	case KindBetween:
		// The smallest admitted integer: gt.value itself when the lower edge
		// is inclusive, gt.value+1 otherwise.
		lt, gt, _ := r.Bounds()
		v := gt.lower()
		if !lt.Within(v) {
			return 0, fmt.Errorf("%w: %s", ErrNoInteger, r)
		}
		return v, nil
	}
	return 0, fmt.Errorf("%w: cannot pick from %s", ErrNoInteger, r.kind)
}
