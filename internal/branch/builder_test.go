package branch

import (
	"errors"
	"testing"

	"github.com/awmpietro/autocase/internal/restrict"
)

func fn(body ...Stmt) *Function {
	return &Function{Name: "f", Params: []string{"a"}, Results: []string{"string"}, Body: body}
}

func ret(v string) *Return { return &Return{Values: []string{v}} }

type wiring struct {
	test         string
	nextT, nextF int
}

func checkWiring(t *testing.T, tree *Tree, root int, want []wiring) {
	t.Helper()
	if tree.Root != root {
		t.Fatalf("expected root %d, got %d", root, tree.Root)
	}
	if len(tree.Nodes) != len(want) {
		t.Fatalf("expected %d nodes, got %d", len(want), len(tree.Nodes))
	}
	for i, w := range want {
		n := tree.Node(i)
		if n.Test.String() != w.test {
			t.Fatalf("node %d: expected test %q, got %q", i, w.test, n.Test.String())
		}
		if n.NextTrue != w.nextT || n.NextFalse != w.nextF {
			t.Fatalf("node %d (%s): expected next true=%d false=%d, got true=%d false=%d",
				i, w.test, w.nextT, w.nextF, n.NextTrue, n.NextFalse)
		}
	}
}

func TestBuild_ElseChain(t *testing.T) {
	tree, err := NewBuilder().Build(fn(
		&If{Cond: "a == 3", Body: []Stmt{ret(`"x"`)}, Else: []Stmt{
			&If{Cond: "a < 0", Body: []Stmt{ret(`"y"`)}, Else: []Stmt{ret(`"z"`)}},
		}},
	))
	if err != nil {
		t.Fatal(err)
	}
	checkWiring(t, tree, 0, []wiring{
		{test: "a == 3", nextT: Leaf, nextF: 1},
		{test: "a < 0", nextT: Leaf, nextF: Leaf},
	})
	if len(tree.Node(0).ElseChildren) != 1 || tree.Node(0).ElseChildren[0] != 1 {
		t.Fatalf("expected node 1 as else child of node 0, got %#v", tree.Node(0).ElseChildren)
	}
}

func TestBuild_SequentialReturns(t *testing.T) {
	tree, err := NewBuilder().Build(fn(
		&If{Cond: "a == 3", Body: []Stmt{ret(`"x"`)}},
		&If{Cond: "a < 0", Body: []Stmt{&Raise{Value: `"negative"`, Panic: true}}},
		ret(`"z"`),
	))
	if err != nil {
		t.Fatal(err)
	}
	checkWiring(t, tree, 0, []wiring{
		{test: "a == 3", nextT: Leaf, nextF: 1},
		{test: "a < 0", nextT: Leaf, nextF: Leaf},
	})
}

func TestBuild_FallThroughBodiesContinueWithSibling(t *testing.T) {
	tree, err := NewBuilder().Build(fn(
		&If{Cond: "a < 5", Body: []Stmt{&Other{Text: "x := 1"}}},
		&If{Cond: "a > 10", Body: []Stmt{ret("1")}},
	))
	if err != nil {
		t.Fatal(err)
	}
	checkWiring(t, tree, 0, []wiring{
		{test: "a < 5", nextT: 1, nextF: 1},
		{test: "a > 10", nextT: Leaf, nextF: Leaf},
	})
}

func TestBuild_NestedLastChildContinuesWithParentSibling(t *testing.T) {
	tree, err := NewBuilder().Build(fn(
		&If{Cond: "a > 0", Body: []Stmt{
			&If{Cond: "a > 5", Body: []Stmt{&Other{Text: "log()"}}},
		}},
		&If{Cond: "a == 3", Body: []Stmt{ret("1")}},
		ret("2"),
	))
	if err != nil {
		t.Fatal(err)
	}
	checkWiring(t, tree, 0, []wiring{
		{test: "a > 0", nextT: 1, nextF: 2},
		{test: "a > 5", nextT: 2, nextF: 2},
		{test: "a == 3", nextT: Leaf, nextF: Leaf},
	})
	if got := tree.Node(0).Children; len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected node 1 as child of node 0, got %#v", got)
	}
}

func TestBuild_NestedInsideReturningBodyEndsAtLeaf(t *testing.T) {
	tree, err := NewBuilder().Build(fn(
		&If{Cond: "a > 0", Body: []Stmt{
			&If{Cond: "a > 5", Body: []Stmt{&Other{Text: "log()"}}},
			ret("1"),
		}},
		&If{Cond: "a == -3", Body: []Stmt{ret("2")}},
	))
	if err != nil {
		t.Fatal(err)
	}
	checkWiring(t, tree, 0, []wiring{
		{test: "a > 0", nextT: 1, nextF: 2},
		{test: "a > 5", nextT: Leaf, nextF: Leaf},
		{test: "a == -3", nextT: Leaf, nextF: Leaf},
	})
}

func TestBuild_IgnoresDeadCode(t *testing.T) {
	tree, err := NewBuilder().Build(fn(
		&If{Cond: "a == 1", Body: []Stmt{ret("1")}, Else: []Stmt{ret("2")}},
		&If{Cond: "a == 2 && a > 0", Body: []Stmt{ret("3")}},
	))
	if err != nil {
		t.Fatalf("dead code must not be analysed: %v", err)
	}
	checkWiring(t, tree, 0, []wiring{
		{test: "a == 1", nextT: Leaf, nextF: Leaf},
	})

	tree, err = NewBuilder().Build(fn(ret("0"), &If{Cond: "a", Body: []Stmt{ret("1")}}))
	if err != nil {
		t.Fatalf("code after return must not be analysed: %v", err)
	}
	if tree.Root != Leaf || len(tree.Nodes) != 0 {
		t.Fatalf("expected empty tree, got root=%d nodes=%d", tree.Root, len(tree.Nodes))
	}
}

func TestBuild_DerivesRestrictionPairs(t *testing.T) {
	tests := []struct {
		cond            string
		test            string
		onTrue, onFalse restrict.Restriction
	}{
		{"a == 3", "a == 3", restrict.Equal(3), restrict.NotEqual(3)},
		{"a != 3", "a != 3", restrict.NotEqual(3), restrict.Equal(3)},
		{"a < 3", "a < 3", restrict.LessThan(3, false), restrict.GreaterThan(3, true)},
		{"a <= 3", "a <= 3", restrict.LessThan(3, true), restrict.GreaterThan(3, false)},
		{"a > 3", "a > 3", restrict.GreaterThan(3, false), restrict.LessThan(3, true)},
		{"a >= 3", "a >= 3", restrict.GreaterThan(3, true), restrict.LessThan(3, false)},
		{"3 > a", "a < 3", restrict.LessThan(3, false), restrict.GreaterThan(3, true)},
		{"0 == a", "a == 0", restrict.Equal(0), restrict.NotEqual(0)},
		{"a < -2", "a < -2", restrict.LessThan(-2, false), restrict.GreaterThan(-2, true)},
	}
	for _, tt := range tests {
		t.Run(tt.cond, func(t *testing.T) {
			tree, err := NewBuilder().Build(fn(&If{Cond: tt.cond, Body: []Stmt{ret("1")}}))
			if err != nil {
				t.Fatal(err)
			}
			n := tree.Node(0)
			if n.Test.String() != tt.test {
				t.Fatalf("expected normalized test %q, got %q", tt.test, n.Test.String())
			}
			if n.Test.Source != tt.cond {
				t.Fatalf("expected source %q, got %q", tt.cond, n.Test.Source)
			}
			if !n.True.Equal(tt.onTrue) || !n.False.Equal(tt.onFalse) {
				t.Fatalf("expected %s / %s, got %s / %s", tt.onTrue, tt.onFalse, n.True, n.False)
			}
		})
	}
}

func TestBuild_RejectsUnsupportedTests(t *testing.T) {
	conds := []string{
		"a > 1 && a < 5",
		"a == 1 || a == 2",
		"1 < a < 3",
		"a",
		"!(a == 1)",
		"a + 1 > 3",
		"b == 1",
		"a == b",
		"a == 1.5",
		"a in [1, 2]",
		"a ==",
	}
	for _, cond := range conds {
		t.Run(cond, func(t *testing.T) {
			_, err := NewBuilder().Build(fn(
				&If{Cond: "a == 0", Body: []Stmt{
					&If{Cond: cond, Body: []Stmt{ret("1")}},
				}},
			))
			var unsupported *UnsupportedError
			if !errors.As(err, &unsupported) {
				t.Fatalf("expected *UnsupportedError, got %v", err)
			}
			if unsupported.Construct == "" || unsupported.Reason == "" {
				t.Fatalf("expected construct and reason, got %#v", unsupported)
			}
		})
	}
}

func TestBuild_RequiresSingleParameter(t *testing.T) {
	_, err := NewBuilder().Build(&Function{Name: "g", Params: []string{"a", "b"}})
	var unsupported *UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected *UnsupportedError, got %v", err)
	}
}
