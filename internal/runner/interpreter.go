package runner

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"regexp"
	"strconv"
	"sync"

	"github.com/awmpietro/autocase/internal/branch"
	"github.com/awmpietro/autocase/internal/runner/eval"
)

var (
	assignRe = regexp.MustCompile(`^([A-Za-z_]\w*)\s*(:=|=|\+=|-=|\*=|/=|%=)\s*(.+)$`)
	varRe    = regexp.MustCompile(`^var\s+([A-Za-z_]\w*)(?:\s+[A-Za-z_]\w*)?\s*=\s*(.+)$`)
	incRe    = regexp.MustCompile(`^([A-Za-z_]\w*)\s*(\+\+|--)$`)
)

// Interpreter runs a parsed function directly. Tests, return values and
// single-variable assignments are evaluated; other statements have no
// effect. Each if and else body opens a block scope, so := inside it shadows
// the outer variable while = and op= update the variable already in scope.
type Interpreter struct {
	fn *branch.Function

	mu       sync.RWMutex
	programs map[string]*eval.Program
}

// scope is one block of variables chained to its enclosing block.
type scope struct {
	vars   map[string]any
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: map[string]any{}, parent: parent}
}

// env flattens the chain for evaluation; inner blocks shadow outer ones.
func (s *scope) env() map[string]any {
	if s.parent == nil {
		return s.vars
	}
	out := s.parent.env()
	if len(s.vars) == 0 {
		return out
	}
	merged := make(map[string]any, len(out)+len(s.vars))
	for k, v := range out {
		merged[k] = v
	}
	for k, v := range s.vars {
		merged[k] = v
	}
	return merged
}

func (s *scope) declare(name string, v any) { s.vars[name] = v }

// update writes to the innermost block that declares name, or to the
// function block when none does.
func (s *scope) update(name string, v any) {
	c := s
	for ; c.parent != nil; c = c.parent {
		if _, ok := c.vars[name]; ok {
			break
		}
	}
	c.vars[name] = v
}

func NewInterpreter(fn *branch.Function) (*Interpreter, error) {
	if fn == nil {
		return nil, fmt.Errorf("function is nil")
	}
	if len(fn.Params) != 1 {
		return nil, fmt.Errorf("%s: want exactly one parameter, got %d", fn.Target(), len(fn.Params))
	}
	return &Interpreter{fn: fn, programs: map[string]*eval.Program{}}, nil
}

func (in *Interpreter) Run(ctx context.Context, arg int) (Outcome, error) {
	top := newScope(nil)
	top.declare(in.fn.Params[0], arg)
	out, _, err := in.exec(ctx, in.fn.Body, top)
	if eval.IsDivideByZero(err) {
		return Outcome{Raised: "runtime error: integer divide by zero", Panic: true}, nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("%s(%d): %w", in.fn.Target(), arg, err)
	}
	return out, nil
}

// exec runs a statement list. done reports that the function ended inside it.
func (in *Interpreter) exec(ctx context.Context, body []branch.Stmt, sc *scope) (Outcome, bool, error) {
	for _, st := range body {
		if err := ctx.Err(); err != nil {
			return Outcome{}, false, err
		}
		switch st := st.(type) {
		case *branch.If:
			v, err := in.eval(st.Cond, sc)
			if err != nil {
				return Outcome{}, false, fmt.Errorf("line %d: %w", st.Line, err)
			}
			taken, ok := v.(bool)
			if !ok {
				return Outcome{}, false, fmt.Errorf("line %d: test %s is %T, not bool", st.Line, st.Cond, v)
			}
			arm := st.Else
			if taken {
				arm = st.Body
			}
			out, done, err := in.exec(ctx, arm, newScope(sc))
			if err != nil || done {
				return out, done, err
			}
		case *branch.Return:
			values := make([]any, len(st.Values))
			for i, text := range st.Values {
				v, err := in.eval(text, sc)
				if err != nil {
					return Outcome{}, false, fmt.Errorf("line %d: %w", st.Line, err)
				}
				values[i] = v
			}
			return Outcome{Values: values}, true, nil
		case *branch.Raise:
			return Outcome{Raised: in.message(st.Value, sc), Panic: st.Panic, Error: !st.Panic}, true, nil
		case *branch.Other:
			if err := in.assign(st.Text, sc); err != nil {
				return Outcome{}, false, fmt.Errorf("line %d: %w", st.Line, err)
			}
		}
	}
	return Outcome{}, false, nil
}

func (in *Interpreter) assign(text string, sc *scope) error {
	if m := incRe.FindStringSubmatch(text); m != nil {
		op := "+"
		if m[2] == "--" {
			op = "-"
		}
		return in.set(sc, m[1], m[1]+" "+op+" 1", false)
	}
	if m := varRe.FindStringSubmatch(text); m != nil {
		return in.set(sc, m[1], m[2], true)
	}
	if m := assignRe.FindStringSubmatch(text); m != nil {
		switch m[2] {
		case ":=":
			return in.set(sc, m[1], m[3], true)
		case "=":
			return in.set(sc, m[1], m[3], false)
		default:
			return in.set(sc, m[1], m[1]+" "+m[2][:1]+" ("+m[3]+")", false)
		}
	}
	return nil
}

func (in *Interpreter) set(sc *scope, name, expression string, declare bool) error {
	if name == "_" {
		return nil
	}
	v, err := in.eval(expression, sc)
	if err != nil {
		return err
	}
	if declare {
		sc.declare(name, v)
	} else {
		sc.update(name, v)
	}
	return nil
}

// message renders a raised value the way the target would report it:
// string literals and errors.New/fmt.Errorf with a constant message are
// unquoted, anything else is kept as source.
func (in *Interpreter) message(text string, sc *scope) string {
	if e, err := parser.ParseExpr(text); err == nil {
		if call, ok := e.(*ast.CallExpr); ok && len(call.Args) == 1 {
			if sel, ok := call.Fun.(*ast.SelectorExpr); ok && (sel.Sel.Name == "New" || sel.Sel.Name == "Errorf") {
				if lit, ok := call.Args[0].(*ast.BasicLit); ok && lit.Kind == token.STRING {
					if s, err := strconv.Unquote(lit.Value); err == nil {
						return s
					}
				}
			}
		}
	}
	if v, err := in.eval(text, sc); err == nil {
		return fmt.Sprint(v)
	}
	return text
}

func (in *Interpreter) eval(expression string, sc *scope) (any, error) {
	in.mu.RLock()
	p, ok := in.programs[expression]
	in.mu.RUnlock()
	if !ok {
		var err error
		p, err = eval.Compile(expression)
		if err != nil {
			return nil, err
		}
		in.mu.Lock()
		in.programs[expression] = p
		in.mu.Unlock()
	}
	return p.Run(sc.env())
}
