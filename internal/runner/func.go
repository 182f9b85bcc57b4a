package runner

import (
	"context"
	"fmt"
)

// FuncRunner runs a compiled Go function. Panics are recovered into the
// Outcome.
type FuncRunner struct {
	fn func(int) (any, error)
}

func NewFuncRunner(fn func(int) (any, error)) *FuncRunner {
	return &FuncRunner{fn: fn}
}

func (r *FuncRunner) Run(ctx context.Context, arg int) (out Outcome, err error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	defer func() {
		if p := recover(); p != nil {
			out = Outcome{Raised: fmt.Sprint(p), Panic: true}
			err = nil
		}
	}()

	v, ferr := r.fn(arg)
	if ferr != nil {
		return Outcome{Raised: ferr.Error(), Error: true}, nil
	}
	return Outcome{Values: []any{v}}, nil
}
