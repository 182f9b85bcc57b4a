package branch

import (
	"strconv"

	"github.com/awmpietro/autocase/internal/restrict"
)

// Function is the parsed form of a target function, as produced by a source
// frontend. Only the statement shapes below matter for branch wiring.
type Function struct {
	Package string
	Name    string
	Params  []string
	Results []string
	Body    []Stmt
	Line    int
}

// Target is the package-qualified name of the function.
func (f *Function) Target() string {
	if f.Package == "" {
		return f.Name
	}
	return f.Package + "." + f.Name
}

// ReturnsError reports whether the last result is an error.
func (f *Function) ReturnsError() bool {
	return len(f.Results) > 0 && f.Results[len(f.Results)-1] == "error"
}

type Stmt interface{ stmt() }

type If struct {
	Cond string
	Body []Stmt
	Else []Stmt
	Line int
}

type Return struct {
	Values []string
	Line   int
}

// Raise ends the function with a failure: a panic, or a non-nil error as the
// last result.
type Raise struct {
	Value string
	Panic bool
	Line  int
}

// Other is any statement that does not affect branch structure.
type Other struct {
	Text string
	Line int
}

func (*If) stmt()     {}
func (*Return) stmt() {}
func (*Raise) stmt()  {}
func (*Other) stmt()  {}

// Leaf marks an outcome after which no further conditional is reached.
const Leaf = -1

// Test is a single comparison of the argument against an integer literal,
// normalized so the argument is on the left.
type Test struct {
	Source string
	Var    string
	Op     string
	Value  int
	Line   int
}

func (t Test) String() string {
	return t.Var + " " + t.Op + " " + strconv.Itoa(t.Value)
}

type Node struct {
	ID           int
	Test         Test
	True         restrict.Restriction
	False        restrict.Restriction
	NextTrue     int
	NextFalse    int
	Children     []int
	ElseChildren []int
}

func (n *Node) Next(outcome bool) int {
	if outcome {
		return n.NextTrue
	}
	return n.NextFalse
}

func (n *Node) Restriction(outcome bool) restrict.Restriction {
	if outcome {
		return n.True
	}
	return n.False
}

// Tree is an arena of branch nodes. Next links only point forward in
// document order, so the graph is acyclic.
type Tree struct {
	Func  string
	Arg   restrict.Argument
	Nodes []Node
	Roots []int
	Root  int
}

func (t *Tree) Node(id int) *Node { return &t.Nodes[id] }
