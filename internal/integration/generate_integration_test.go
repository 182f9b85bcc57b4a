package integration_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/awmpietro/autocase/internal/app"
	"github.com/awmpietro/autocase/internal/branch"
	"github.com/awmpietro/autocase/internal/branch/cache"
	"github.com/awmpietro/autocase/internal/runner"
)

// Compiled twins of ../source/testdata/calc.go.

func classify(a int) string {
	if a == 3 {
		return "three"
	} else if a < 0 {
		return "negative"
	} else {
		return "other"
	}
}

func sign(n int) int {
	if n > 0 {
		return 1
	}
	if n < 0 {
		return -1
	}
	return 0
}

func half(n int) (int, error) {
	if n < 0 {
		return 0, errors.New("negative input")
	}
	if n == 7 {
		panic("seven")
	}
	return n / 2, nil
}

func double(x int) int {
	y := x * 2
	return y
}

var compiled = map[string]func(int) (any, error){
	"Classify": func(a int) (any, error) { return classify(a), nil },
	"Sign":     func(n int) (any, error) { return sign(n), nil },
	"Half":     func(n int) (any, error) { return half(n) },
	"Double":   func(x int) (any, error) { return double(x), nil },
}

func readCalc(t *testing.T) []byte {
	t.Helper()
	src, err := os.ReadFile(filepath.Join("..", "source", "testdata", "calc.go"))
	if err != nil {
		t.Fatal(err)
	}
	return src
}

func TestGenerate_InterpreterAgreesWithCompiledCode(t *testing.T) {
	svc := app.NewService(branch.NewBuilder(), cache.NewInMemory(16))

	res, err := svc.Generate(context.Background(), app.Request{Filename: "calc.go", Source: readCalc(t), WithPath: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Func != "Sum" {
		t.Fatalf("expected Sum to be skipped, got %#v", res.Skipped)
	}
	if len(res.Suites) != len(compiled) {
		t.Fatalf("expected %d suites, got %d", len(compiled), len(res.Suites))
	}

	for _, suite := range res.Suites {
		fn, ok := compiled[suite.Func]
		if !ok {
			t.Fatalf("unexpected suite %s", suite.Func)
		}
		compiledRun := runner.NewFuncRunner(fn)

		for _, rec := range suite.Records {
			want, err := compiledRun.Run(context.Background(), rec.Arg)
			if err != nil {
				t.Fatal(err)
			}
			got := rec.Outcome
			if got.Failed() != want.Failed() || got.Panic != want.Panic || got.Raised != want.Raised {
				t.Fatalf("%s(%d) on %q: interpreted %v, compiled %v", suite.Func, rec.Arg, rec.Path, got, want)
			}
			if !want.Failed() && got.Values[0] != want.Values[0] {
				t.Fatalf("%s(%d) on %q: interpreted %v, compiled %v", suite.Func, rec.Arg, rec.Path, got, want)
			}
		}
	}
}

func TestGenerate_EveryRecordCoversADistinctPath(t *testing.T) {
	svc := app.NewService(branch.NewBuilder(), cache.NewInMemory(16))

	res, err := svc.Generate(context.Background(), app.Request{Source: readCalc(t), Funcs: []string{"Classify", "Sign", "Half"}, WithPath: true})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]int{"Classify": 3, "Sign": 3, "Half": 3}
	for _, suite := range res.Suites {
		seen := map[string]bool{}
		for _, rec := range suite.Records {
			if seen[rec.Path] {
				t.Fatalf("%s: path %q covered twice", suite.Func, rec.Path)
			}
			seen[rec.Path] = true
		}
		if len(seen) != want[suite.Func] {
			t.Fatalf("%s: expected %d paths, got %d", suite.Func, want[suite.Func], len(seen))
		}
		if suite.Pruned != 0 {
			t.Fatalf("%s: expected no pruned paths, got %d", suite.Func, suite.Pruned)
		}
	}
}
