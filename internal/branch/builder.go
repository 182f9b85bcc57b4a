package branch

import (
	"fmt"

	"github.com/awmpietro/autocase/internal/restrict"
)

type Builder struct{}

func NewBuilder() *Builder { return &Builder{} }

// Build turns a parsed function into a branch tree. It fails with an
// *UnsupportedError when any reachable test cannot be modeled; no partial
// tree is returned.
func (b *Builder) Build(fn *Function) (*Tree, error) {
	if fn == nil {
		return nil, fmt.Errorf("function is nil")
	}
	if len(fn.Params) != 1 {
		return nil, unsupported(fn.Name, fn.Line, "want exactly one parameter, got %d", len(fn.Params))
	}

	s := &buildState{param: fn.Params[0]}
	roots, terminal, err := s.collect(fn.Body)
	if err != nil {
		return nil, err
	}

	t := &Tree{
		Func:  fn.Target(),
		Arg:   restrict.NewArgument(fn.Params[0]),
		Roots: roots,
	}
	t.Root = s.link(roots, terminal, Leaf)
	t.Nodes = s.nodes
	return t, nil
}

type buildState struct {
	param string
	nodes []Node
	terms []terminals
}

type terminals struct {
	body, els bool
}

// collect registers the conditionals of one statement list in document order.
// Scanning stops at the first return or raise, and after an if whose both
// arms end the function; what follows is unreachable.
func (s *buildState) collect(body []Stmt) ([]int, bool, error) {
	var kids []int
	for _, st := range body {
		switch st := st.(type) {
		case *If:
			id, err := s.add(st)
			if err != nil {
				return nil, false, err
			}
			kids = append(kids, id)
			if s.terms[id].body && s.terms[id].els {
				return kids, true, nil
			}
		case *Return, *Raise:
			return kids, true, nil
		}
	}
	return kids, false, nil
}

func (s *buildState) add(st *If) (int, error) {
	test, t, f, err := parseCondition(st.Cond, s.param, st.Line)
	if err != nil {
		return 0, err
	}

	id := len(s.nodes)
	s.nodes = append(s.nodes, Node{ID: id, Test: test, True: t, False: f, NextTrue: Leaf, NextFalse: Leaf})
	s.terms = append(s.terms, terminals{})

	body, bodyTerm, err := s.collect(st.Body)
	if err != nil {
		return 0, err
	}
	els, elseTerm, err := s.collect(st.Else)
	if err != nil {
		return 0, err
	}

	s.nodes[id].Children = body
	s.nodes[id].ElseChildren = els
	s.terms[id] = terminals{body: bodyTerm, els: elseTerm}
	return id, nil
}

// link wires next pointers for a sibling list and returns the entry point of
// the list. cont is where control goes once the list is done, unless the list
// ends the function.
//
// For sibling i, the continuation is sibling i+1 (or the list's own
// continuation). An outcome enters the first nested conditional of its arm
// when there is one, and otherwise falls through to that continuation.
func (s *buildState) link(kids []int, terminal bool, cont int) int {
	next := cont
	if terminal {
		next = Leaf
	}
	for i := len(kids) - 1; i >= 0; i-- {
		id := kids[i]
		n := &s.nodes[id]
		n.NextTrue = s.link(n.Children, s.terms[id].body, next)
		n.NextFalse = s.link(n.ElseChildren, s.terms[id].els, next)
		next = id
	}
	return next
}
