package eval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"
)

var ErrDivideByZero = errors.New("integer divide by zero")

// Program is a validated, compiled expression. It is safe for concurrent use.
type Program struct {
	source  string
	idents  []string
	program *vm.Program
}

func Compile(expression string) (*Program, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, fmt.Errorf("empty expression")
	}
	if err := Validate(expression); err != nil {
		return nil, fmt.Errorf("%s: %w", expression, err)
	}

	tree, err := parser.Parse(expression)
	if err != nil {
		return nil, err
	}

	program, err := expr.Compile(expression,
		expr.Patch(quotient{}),
		expr.Function("quo", quo),
	)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", expression, err)
	}
	return &Program{source: expression, idents: identifiers(&tree.Node), program: program}, nil
}

func (p *Program) String() string { return p.source }

// Run evaluates the program. Every variable it reads must be bound in vars.
func (p *Program) Run(vars map[string]any) (any, error) {
	for _, name := range p.idents {
		if _, ok := vars[name]; !ok {
			return nil, fmt.Errorf("%s: undefined: %s", p.source, name)
		}
	}
	return expr.Run(p.program, vars)
}

func Eval(expression string, vars map[string]any) (any, error) {
	p, err := Compile(expression)
	if err != nil {
		return nil, err
	}
	return p.Run(vars)
}

func Bool(cond string, vars map[string]any) (bool, error) {
	out, err := Eval(cond, vars)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("cond must evaluate to bool (got %T)", out)
	}
	return b, nil
}

// IsDivideByZero reports whether err came from an integer division by zero.
func IsDivideByZero(err error) bool {
	return err != nil && (errors.Is(err, ErrDivideByZero) || strings.Contains(err.Error(), ErrDivideByZero.Error()))
}

// quotient rewrites "/" to quo so that integer operands divide like Go.
type quotient struct{}

func (quotient) Visit(node *ast.Node) {
	b, ok := (*node).(*ast.BinaryNode)
	if !ok || b.Operator != "/" {
		return
	}
	ast.Patch(node, &ast.CallNode{
		Callee:    &ast.IdentifierNode{Value: "quo"},
		Arguments: []ast.Node{b.Left, b.Right},
	})
}

func quo(params ...any) (any, error) {
	if len(params) != 2 {
		return nil, fmt.Errorf("quo: want 2 operands, got %d", len(params))
	}
	x, xInt := params[0].(int)
	y, yInt := params[1].(int)
	if xInt && yInt {
		if y == 0 {
			return nil, ErrDivideByZero
		}
		return x / y, nil
	}
	fx, err := float(params[0])
	if err != nil {
		return nil, err
	}
	fy, err := float(params[1])
	if err != nil {
		return nil, err
	}
	return fx / fy, nil
}

func float(v any) (float64, error) {
	switch v := v.(type) {
	case int:
		return float64(v), nil
	case float64:
		return v, nil
	}
	return 0, fmt.Errorf("quo: operand %v (%T) is not a number", v, v)
}
