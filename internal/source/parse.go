package source

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"go/types"
	"os"
	"strings"

	"github.com/awmpietro/autocase/internal/branch"
)

var ErrFunctionNotFound = errors.New("function not found")

// File holds the top-level functions of one Go file. A function using a
// construct the branch model cannot express is kept aside with its error.
type File struct {
	Package string
	Funcs   []*branch.Function
	failed  map[string]error
	order   []string
}

// Func returns the function called name. name may be qualified with the
// package ("calc.Sign").
func (f *File) Func(name string) (*branch.Function, error) {
	for _, fn := range f.Funcs {
		if fn.Name == name || fn.Target() == name {
			return fn, nil
		}
	}
	if err, ok := f.failed[strings.TrimPrefix(name, f.Package+".")]; ok {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
}

// Names lists every top-level function, supported or not, in file order.
func (f *File) Names() []string {
	return append([]string(nil), f.order...)
}

// ParseFile reads and parses a Go file.
func ParseFile(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseSource(path, src)
}

// ParseSource parses Go source. Methods and functions without a body are
// skipped.
func ParseSource(filename string, src []byte) (*File, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	out := &File{Package: file.Name.Name, failed: map[string]error{}}
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Recv != nil || fd.Body == nil {
			continue
		}
		out.order = append(out.order, fd.Name.Name)
		fn, err := convertFunc(fset, out.Package, fd)
		if err != nil {
			out.failed[fd.Name.Name] = err
			continue
		}
		out.Funcs = append(out.Funcs, fn)
	}
	return out, nil
}

type converter struct {
	fset      *token.FileSet
	fn        *branch.Function
	errResult bool
}

func convertFunc(fset *token.FileSet, pkg string, fd *ast.FuncDecl) (*branch.Function, error) {
	fn := &branch.Function{
		Package: pkg,
		Name:    fd.Name.Name,
		Line:    fset.Position(fd.Pos()).Line,
	}
	for _, f := range fd.Type.Params.List {
		if len(f.Names) == 0 {
			fn.Params = append(fn.Params, "_")
			continue
		}
		for _, n := range f.Names {
			fn.Params = append(fn.Params, n.Name)
		}
	}
	if fd.Type.Results != nil {
		for _, f := range fd.Type.Results.List {
			typ := types.ExprString(f.Type)
			count := len(f.Names)
			if count == 0 {
				count = 1
			}
			for range count {
				fn.Results = append(fn.Results, typ)
			}
		}
	}

	c := &converter{fset: fset, fn: fn, errResult: fn.ReturnsError()}
	body, err := c.block(fd.Body.List)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Target(), err)
	}
	fn.Body = body
	return fn, nil
}

func (c *converter) line(n ast.Node) int {
	return c.fset.Position(n.Pos()).Line
}

func (c *converter) unsupported(n ast.Node, construct, reason string) error {
	return &branch.UnsupportedError{Construct: construct, Line: c.line(n), Reason: reason}
}

func (c *converter) block(list []ast.Stmt) ([]branch.Stmt, error) {
	var out []branch.Stmt
	for _, st := range list {
		converted, err := c.stmt(st)
		if err != nil {
			return nil, err
		}
		out = append(out, converted...)
	}
	return out, nil
}

func (c *converter) stmt(st ast.Stmt) ([]branch.Stmt, error) {
	switch st := st.(type) {
	case *ast.IfStmt:
		s, err := c.ifStmt(st)
		if err != nil {
			return nil, err
		}
		return []branch.Stmt{s}, nil
	case *ast.BlockStmt:
		return c.block(st.List)
	case *ast.ReturnStmt:
		return []branch.Stmt{c.returnStmt(st)}, nil
	case *ast.ExprStmt:
		if call, ok := st.X.(*ast.CallExpr); ok {
			if id, ok := call.Fun.(*ast.Ident); ok && id.Name == "panic" && len(call.Args) == 1 {
				return []branch.Stmt{&branch.Raise{Value: types.ExprString(call.Args[0]), Panic: true, Line: c.line(st)}}, nil
			}
		}
	case *ast.ForStmt:
		return nil, c.unsupported(st, "for", "loops are not modeled")
	case *ast.RangeStmt:
		return nil, c.unsupported(st, "range", "loops are not modeled")
	case *ast.SwitchStmt, *ast.TypeSwitchStmt:
		return nil, c.unsupported(st, "switch", "use if/else chains")
	case *ast.SelectStmt:
		return nil, c.unsupported(st, "select", "channel operations are not modeled")
	case *ast.LabeledStmt:
		return nil, c.unsupported(st, st.Label.Name+":", "labels are not modeled")
	case *ast.BranchStmt:
		if st.Tok == token.GOTO {
			return nil, c.unsupported(st, "goto", "jumps are not modeled")
		}
	}
	return []branch.Stmt{&branch.Other{Text: c.text(st), Line: c.line(st)}}, nil
}

func (c *converter) ifStmt(st *ast.IfStmt) (*branch.If, error) {
	cond := types.ExprString(st.Cond)
	if st.Init != nil {
		return nil, c.unsupported(st, cond, "if with an init statement")
	}

	body, err := c.block(st.Body.List)
	if err != nil {
		return nil, err
	}
	out := &branch.If{Cond: cond, Body: body, Line: c.line(st)}

	switch els := st.Else.(type) {
	case nil:
	case *ast.BlockStmt:
		out.Else, err = c.block(els.List)
	case *ast.IfStmt:
		var nested *branch.If
		nested, err = c.ifStmt(els)
		out.Else = []branch.Stmt{nested}
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// returnStmt treats "return ..., err" with a non-nil error as a raise.
func (c *converter) returnStmt(st *ast.ReturnStmt) branch.Stmt {
	values := make([]string, len(st.Results))
	for i, r := range st.Results {
		values[i] = types.ExprString(r)
	}
	if c.errResult && len(values) == len(c.fn.Results) && len(values) > 0 {
		last := values[len(values)-1]
		if last != "nil" {
			return &branch.Raise{Value: last, Line: c.line(st)}
		}
	}
	return &branch.Return{Values: values, Line: c.line(st)}
}

func (c *converter) text(n ast.Node) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, c.fset, n); err != nil {
		return ""
	}
	return buf.String()
}
