package source

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/awmpietro/autocase/internal/branch"
)

func TestParseFile_Calc(t *testing.T) {
	file, err := ParseFile("testdata/calc.go")
	if err != nil {
		t.Fatal(err)
	}
	if file.Package != "calc" {
		t.Fatalf("expected package calc, got %q", file.Package)
	}

	want := []string{"Classify", "Sign", "Half", "Double", "Sum"}
	if diff := cmp.Diff(want, file.Names()); diff != "" {
		t.Fatalf("unexpected names (-want +got):\n%s", diff)
	}
	if len(file.Funcs) != 4 {
		t.Fatalf("expected 4 supported functions, got %d", len(file.Funcs))
	}

	_, err = file.Func("Sum")
	var unsupported *branch.UnsupportedError
	if !errors.As(err, &unsupported) || unsupported.Construct != "for" {
		t.Fatalf("expected unsupported for loop, got %v", err)
	}

	if _, err := file.Func("Inc"); !errors.Is(err, ErrFunctionNotFound) {
		t.Fatalf("methods are skipped, got %v", err)
	}
}

func TestParseSource_ElseIfChain(t *testing.T) {
	file, err := ParseFile("testdata/calc.go")
	if err != nil {
		t.Fatal(err)
	}
	fn, err := file.Func("calc.Classify")
	if err != nil {
		t.Fatal(err)
	}

	if fn.Target() != "calc.Classify" || fn.Line != 5 {
		t.Fatalf("unexpected target %s at line %d", fn.Target(), fn.Line)
	}
	if diff := cmp.Diff([]string{"a"}, fn.Params); diff != "" {
		t.Fatalf("unexpected params:\n%s", diff)
	}

	want := []branch.Stmt{
		&branch.If{Cond: "a == 3", Line: 6,
			Body: []branch.Stmt{&branch.Return{Values: []string{`"three"`}, Line: 7}},
			Else: []branch.Stmt{
				&branch.If{Cond: "a < 0", Line: 8,
					Body: []branch.Stmt{&branch.Return{Values: []string{`"negative"`}, Line: 9}},
					Else: []branch.Stmt{&branch.Return{Values: []string{`"other"`}, Line: 11}},
				},
			},
		},
	}
	if diff := cmp.Diff(want, fn.Body); diff != "" {
		t.Fatalf("unexpected body (-want +got):\n%s", diff)
	}
}

func TestParseSource_ErrorReturnsAndPanicsRaise(t *testing.T) {
	file, err := ParseFile("testdata/calc.go")
	if err != nil {
		t.Fatal(err)
	}
	fn, err := file.Func("Half")
	if err != nil {
		t.Fatal(err)
	}
	if !fn.ReturnsError() {
		t.Fatal("expected Half to return an error")
	}

	first := fn.Body[0].(*branch.If).Body[0]
	raise, ok := first.(*branch.Raise)
	if !ok || raise.Panic || raise.Value != `errors.New("negative input")` {
		t.Fatalf("expected error raise, got %#v", first)
	}

	second := fn.Body[1].(*branch.If).Body[0]
	raise, ok = second.(*branch.Raise)
	if !ok || !raise.Panic || raise.Value != `"seven"` {
		t.Fatalf("expected panic raise, got %#v", second)
	}

	last, ok := fn.Body[2].(*branch.Return)
	if !ok || len(last.Values) != 2 || last.Values[1] != "nil" {
		t.Fatalf("expected plain return, got %#v", fn.Body[2])
	}
}

func TestParseSource_OtherStatements(t *testing.T) {
	file, err := ParseFile("testdata/calc.go")
	if err != nil {
		t.Fatal(err)
	}
	fn, err := file.Func("Double")
	if err != nil {
		t.Fatal(err)
	}
	other, ok := fn.Body[0].(*branch.Other)
	if !ok || other.Text != "y := x * 2" {
		t.Fatalf("expected other statement, got %#v", fn.Body[0])
	}
}

func TestParseSource_RejectsUnmodeledConstructs(t *testing.T) {
	tests := map[string]string{
		"if-init": `if v := a; v > 0 { return 1 }`,
		"switch":  `switch a { case 1: return 1 }`,
		"range":   `for range 3 { }`,
		"select":  `select {}`,
		"goto":    "goto done\ndone:",
	}
	for name, stmt := range tests {
		t.Run(name, func(t *testing.T) {
			src := "package p\nfunc F(a int) int {\n" + stmt + "\nreturn 0\n}\n"
			file, err := ParseSource("p.go", []byte(src))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			_, err = file.Func("F")
			var unsupported *branch.UnsupportedError
			if !errors.As(err, &unsupported) {
				t.Fatalf("expected *branch.UnsupportedError, got %v", err)
			}
			if unsupported.Line != 3 {
				t.Fatalf("expected line 3, got %d", unsupported.Line)
			}
		})
	}
}

func TestParseSource_SyntaxError(t *testing.T) {
	if _, err := ParseSource("bad.go", []byte("package p\nfunc {")); err == nil {
		t.Fatal("expected syntax error")
	}
}
