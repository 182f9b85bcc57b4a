package eval

import (
	"fmt"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// Validate accepts plain Go-style expressions over variables and literals:
// arithmetic, comparisons and boolean logic. Calls, member access, closures
// and collection literals are rejected.
func Validate(expression string) error {
	tree, err := parser.Parse(expression)
	if err != nil {
		return err
	}
	v := &validator{}
	ast.Walk(&tree.Node, v)
	return v.err
}

type validator struct {
	err    error
	idents []string
}

func (v *validator) Visit(node *ast.Node) {
	if v.err != nil {
		return
	}
	switch n := (*node).(type) {
	case *ast.CallNode:
		v.err = fmt.Errorf("function calls are not allowed")
	case *ast.BuiltinNode:
		v.err = fmt.Errorf("builtin %q is not allowed", n.Name)
	case *ast.MemberNode, *ast.SliceNode:
		v.err = fmt.Errorf("member access is not allowed")
	case *ast.PredicateNode, *ast.PointerNode, *ast.VariableDeclaratorNode:
		v.err = fmt.Errorf("closures are not allowed")
	case *ast.ArrayNode, *ast.MapNode, *ast.PairNode:
		v.err = fmt.Errorf("collection literals are not allowed")
	case *ast.ConditionalNode:
		v.err = fmt.Errorf("conditional expressions are not allowed")
	case *ast.IdentifierNode:
		v.idents = append(v.idents, n.Value)
	}
}

func identifiers(tree *ast.Node) []string {
	v := &validator{}
	ast.Walk(tree, v)
	return v.idents
}
