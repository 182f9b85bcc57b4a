package branch

import (
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"

	"github.com/awmpietro/autocase/internal/restrict"
)

var mirrored = map[string]string{
	"==": "==",
	"!=": "!=",
	"<":  ">",
	"<=": ">=",
	">":  "<",
	">=": "<=",
}

// parseCondition turns an if-test into a Test and its true/false
// restrictions. Anything but "<param> <op> <int>" (either side) is rejected.
func parseCondition(cond, param string, line int) (Test, restrict.Restriction, restrict.Restriction, error) {
	cond = strings.TrimSpace(cond)
	test := Test{Source: cond, Line: line}

	tree, err := parser.Parse(cond)
	if err != nil {
		return test, restrict.Null(), restrict.Null(), unsupported(cond, line, "cannot parse test: %v", err)
	}

	bin, ok := tree.Node.(*ast.BinaryNode)
	if !ok {
		return test, restrict.Null(), restrict.Null(), unsupported(cond, line, "test is not a comparison")
	}

	switch bin.Operator {
	case "&&", "||", "and", "or":
		return test, restrict.Null(), restrict.Null(), unsupported(cond, line, "compound test with %q", bin.Operator)
	}
	if _, ok := mirrored[bin.Operator]; !ok {
		return test, restrict.Null(), restrict.Null(), unsupported(cond, line, "operator %q is not supported", bin.Operator)
	}
	if isComparison(bin.Left) || isComparison(bin.Right) {
		return test, restrict.Null(), restrict.Null(), unsupported(cond, line, "chained comparison")
	}

	op := bin.Operator
	ident, lit := bin.Left, bin.Right
	if _, isIdent := ident.(*ast.IdentifierNode); !isIdent {
		ident, lit = lit, ident
		op = mirrored[op]
	}

	id, ok := ident.(*ast.IdentifierNode)
	if !ok {
		return test, restrict.Null(), restrict.Null(), unsupported(cond, line, "test must compare a variable with a literal")
	}
	if id.Value != param {
		return test, restrict.Null(), restrict.Null(), unsupported(cond, line, "test reads %q, only the parameter %q is tracked", id.Value, param)
	}
	value, err := integerLiteral(lit, cond, line)
	if err != nil {
		return test, restrict.Null(), restrict.Null(), err
	}

	test.Var = id.Value
	test.Op = op
	test.Value = value

	t := trueRestriction(op, value)
	f, err := t.Inverse()
	if err != nil {
		return test, restrict.Null(), restrict.Null(), err
	}
	return test, t, f, nil
}

func isComparison(n ast.Node) bool {
	bin, ok := n.(*ast.BinaryNode)
	if !ok {
		return false
	}
	_, ok = mirrored[bin.Operator]
	return ok
}

func integerLiteral(n ast.Node, cond string, line int) (int, error) {
	switch n := n.(type) {
	case *ast.IntegerNode:
		return n.Value, nil
	case *ast.UnaryNode:
		if v, ok := n.Node.(*ast.IntegerNode); ok {
			switch n.Operator {
			case "-":
				return -v.Value, nil
			case "+":
				return v.Value, nil
			}
		}
	case *ast.FloatNode:
		return 0, unsupported(cond, line, "non-integer literal")
	case *ast.IdentifierNode:
		return 0, unsupported(cond, line, "comparison between two variables")
	}
	return 0, unsupported(cond, line, "operand is not an integer literal")
}

func trueRestriction(op string, v int) restrict.Restriction {
	switch op {
	case "==":
		return restrict.Equal(v)
	case "!=":
		return restrict.NotEqual(v)
	case "<":
		return restrict.LessThan(v, false)
	case "<=":
		return restrict.LessThan(v, true)
	case ">":
		return restrict.GreaterThan(v, false)
	default:
		return restrict.GreaterThan(v, true)
	}
}
