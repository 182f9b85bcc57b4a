package branch

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/awmpietro/autocase/internal/restrict"
)

type Step struct {
	Node    int
	Test    Test
	Outcome bool
}

// Path is one root-to-leaf walk with the value derived for it.
type Path struct {
	Steps        []Step
	Restrictions restrict.ArgumentRestrictions
	Value        int
}

func (p Path) Trace() string {
	if len(p.Steps) == 0 {
		return "no branches"
	}
	parts := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		parts[i] = fmt.Sprintf("%s: %t", s.Test, s.Outcome)
	}
	return strings.Join(parts, " -> ")
}

// Explorer enumerates the paths of a tree lazily, depth first, true outcome
// before false. Paths whose restrictions cannot be satisfied are dropped.
// An Explorer is single use and not safe for concurrent use.
type Explorer struct {
	tree     *Tree
	stack    []frame
	bare     bool
	yielded  int
	pruned   int
	maxPaths int
	observer PathObserver
	err      error
}

type frame struct {
	node  int
	acc   restrict.ArgumentRestrictions
	trace *stepLink
	next  uint8
}

type stepLink struct {
	step Step
	prev *stepLink
	n    int
}

func (l *stepLink) push(s Step) *stepLink {
	n := 1
	if l != nil {
		n = l.n + 1
	}
	return &stepLink{step: s, prev: l, n: n}
}

func (l *stepLink) steps() []Step {
	if l == nil {
		return nil
	}
	out := make([]Step, l.n)
	for c := l; c != nil; c = c.prev {
		out[c.n-1] = c.step
	}
	return out
}

type ExplorerOption func(*Explorer)

// WithMaxPaths stops the enumeration with ErrTooManyPaths once n paths have
// been produced and another one is found.
func WithMaxPaths(n int) ExplorerOption {
	return func(e *Explorer) {
		e.maxPaths = n
	}
}

func WithPathObserver(observer PathObserver) ExplorerOption {
	return func(e *Explorer) {
		e.observer = observer
	}
}

func NewExplorer(tree *Tree, opts ...ExplorerOption) *Explorer {
	e := &Explorer{tree: tree}
	for _, opt := range opts {
		opt(e)
	}

	start := restrict.NewArgumentRestrictions(tree.Arg)
	if tree.Root == Leaf {
		e.bare = true
		e.stack = []frame{{node: Leaf, acc: start}}
		return e
	}
	e.stack = []frame{{node: tree.Root, acc: start}}
	return e
}

// Next returns the next satisfiable path, or false when the enumeration is
// exhausted or stopped by an error (see Err).
func (e *Explorer) Next() (Path, bool) {
	if e.err != nil {
		return Path{}, false
	}

	if e.bare {
		e.bare = false
		acc := e.stack[0].acc
		e.stack = nil
		return e.complete(acc, nil)
	}

	for len(e.stack) > 0 {
		top := len(e.stack) - 1
		f := e.stack[top]
		if f.next > 1 {
			e.stack = e.stack[:top]
			continue
		}
		outcome := f.next == 0
		e.stack[top].next++

		n := e.tree.Node(f.node)
		acc := f.acc.With(n.Restriction(outcome))
		trace := f.trace.push(Step{Node: n.ID, Test: n.Test, Outcome: outcome})

		if next := n.Next(outcome); next != Leaf {
			e.stack = append(e.stack, frame{node: next, acc: acc, trace: trace})
			continue
		}

		if p, ok := e.complete(acc, trace); ok {
			return p, true
		}
		if e.err != nil {
			return Path{}, false
		}
	}
	return Path{}, false
}

func (e *Explorer) complete(acc restrict.ArgumentRestrictions, trace *stepLink) (Path, bool) {
	start := time.Now()
	depth := 0
	if trace != nil {
		depth = trace.n
	}

	v, err := acc.Satisfy()
	if err != nil {
		if !restrict.Unsatisfiable(err) {
			e.err = fmt.Errorf("satisfy %s: %w", acc, err)
			return Path{}, false
		}
		e.pruned++
		e.observe(depth, true, time.Since(start))
		return Path{}, false
	}

	if e.maxPaths > 0 && e.yielded >= e.maxPaths {
		e.err = fmt.Errorf("%w: %s has more than %d", ErrTooManyPaths, e.tree.Func, e.maxPaths)
		return Path{}, false
	}
	e.yielded++
	e.observe(depth, false, time.Since(start))

	return Path{Steps: trace.steps(), Restrictions: acc, Value: v}, true
}

func (e *Explorer) observe(depth int, pruned bool, d time.Duration) {
	if e.observer == nil {
		return
	}
	e.observer.ObservePath(e.tree.Func, depth, pruned, d)
}

// Err returns the error that stopped the enumeration, if any.
func (e *Explorer) Err() error { return e.err }

// Pruned counts the paths dropped as unsatisfiable so far.
func (e *Explorer) Pruned() int { return e.pruned }

func (e *Explorer) Paths() iter.Seq[Path] {
	return func(yield func(Path) bool) {
		for {
			p, ok := e.Next()
			if !ok || !yield(p) {
				return
			}
		}
	}
}

// Explore collects every satisfiable path of tree.
func Explore(tree *Tree, opts ...ExplorerOption) ([]Path, error) {
	e := NewExplorer(tree, opts...)
	var out []Path
	for p := range e.Paths() {
		out = append(out, p)
	}
	return out, e.Err()
}
