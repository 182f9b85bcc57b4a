package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/awmpietro/autocase/internal/branch"
	"github.com/awmpietro/autocase/internal/render"
	"github.com/awmpietro/autocase/internal/runner"
	"github.com/awmpietro/autocase/internal/source"
)

type Builder interface {
	Build(fn *branch.Function) (*branch.Tree, error)
}

type Cache interface {
	GetOrCompute(source, target string, fn func() (*branch.Tree, error)) (*branch.Tree, error)
}

// RunnerFactory returns the runner that executes fn for each derived value.
type RunnerFactory func(fn *branch.Function) (runner.Runner, error)

func Interpreted(fn *branch.Function) (runner.Runner, error) {
	return runner.NewInterpreter(fn)
}

// Request names a Go source file and the functions to generate cases for.
// With no Funcs, every top-level function is tried and the ones that cannot
// be modeled are reported as skipped.
type Request struct {
	Filename string
	Source   []byte
	Funcs    []string
	WithPath bool
}

type SourceInfo struct {
	Filename string `json:"filename"`
	Package  string `json:"package"`
	Hash     string `json:"hash"`
}

type Skipped struct {
	Func   string `json:"func"`
	Reason string `json:"reason"`
}

type Result struct {
	Source  SourceInfo     `json:"source"`
	Suites  []render.Suite `json:"suites"`
	Skipped []Skipped      `json:"skipped,omitempty"`
}

type Service struct {
	builder   Builder
	cache     Cache
	newRunner RunnerFactory
	maxPaths  int
	observer  branch.PathObserver
}

type ServiceOption func(*Service)

func WithMaxPaths(n int) ServiceOption {
	return func(s *Service) {
		s.maxPaths = n
	}
}

func WithPathObserver(observer branch.PathObserver) ServiceOption {
	return func(s *Service) {
		s.observer = observer
	}
}

func WithRunnerFactory(f RunnerFactory) ServiceOption {
	return func(s *Service) {
		s.newRunner = f
	}
}

func NewService(builder Builder, cache Cache, opts ...ServiceOption) *Service {
	s := &Service{builder: builder, cache: cache, newRunner: Interpreted}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate builds (cached) the branch tree of each requested function,
// explores its paths and runs the target once per derived value.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	file, err := s.parse(req)
	if err != nil {
		return nil, err
	}

	res := &Result{Source: SourceInfo{Filename: req.Filename, Package: file.Package, Hash: hash(req.Source)}}

	names := req.Funcs
	all := len(names) == 0
	if all {
		names = file.Names()
	}

	for _, name := range names {
		suite, err := s.generate(ctx, req, file, name)
		if err != nil {
			var unsupported *branch.UnsupportedError
			if all && errors.As(err, &unsupported) {
				res.Skipped = append(res.Skipped, Skipped{Func: name, Reason: err.Error()})
				continue
			}
			return nil, err
		}
		res.Suites = append(res.Suites, suite)
	}
	return res, nil
}

func (s *Service) generate(ctx context.Context, req Request, file *source.File, name string) (render.Suite, error) {
	fn, err := file.Func(name)
	if err != nil {
		return render.Suite{}, err
	}
	tree, err := s.tree(req.Source, fn)
	if err != nil {
		return render.Suite{}, err
	}
	run, err := s.newRunner(fn)
	if err != nil {
		return render.Suite{}, err
	}

	suite := render.Suite{
		Package: fn.Package,
		Func:    fn.Name,
		Param:   fn.Params[0],
		Results: fn.Results,
	}

	var opts []branch.ExplorerOption
	if s.maxPaths > 0 {
		opts = append(opts, branch.WithMaxPaths(s.maxPaths))
	}
	if s.observer != nil {
		opts = append(opts, branch.WithPathObserver(s.observer))
	}
	explorer := branch.NewExplorer(tree, opts...)

	for p := range explorer.Paths() {
		if err := ctx.Err(); err != nil {
			return render.Suite{}, err
		}
		out, err := run.Run(ctx, p.Value)
		if err != nil {
			return render.Suite{}, fmt.Errorf("run %s: %w", fn.Target(), err)
		}
		rec := render.Record{Arg: p.Value, Outcome: out}
		if req.WithPath {
			rec.Path = p.Trace()
		}
		suite.Records = append(suite.Records, rec)
	}
	if err := explorer.Err(); err != nil {
		return render.Suite{}, err
	}
	suite.Pruned = explorer.Pruned()
	return suite, nil
}

// Graph renders the branch graph of the single requested function as DOT.
func (s *Service) Graph(req Request) (string, error) {
	if len(req.Funcs) != 1 {
		return "", fmt.Errorf("graph needs exactly one function, got %d", len(req.Funcs))
	}
	file, err := s.parse(req)
	if err != nil {
		return "", err
	}
	fn, err := file.Func(req.Funcs[0])
	if err != nil {
		return "", err
	}
	tree, err := s.tree(req.Source, fn)
	if err != nil {
		return "", err
	}
	return branch.DOT(tree)
}

func (s *Service) parse(req Request) (*source.File, error) {
	if len(req.Source) == 0 {
		return nil, fmt.Errorf("source is required")
	}
	filename := req.Filename
	if filename == "" {
		filename = "input.go"
	}
	return source.ParseSource(filename, req.Source)
}

func (s *Service) tree(src []byte, fn *branch.Function) (*branch.Tree, error) {
	return s.cache.GetOrCompute(string(src), fn.Target(), func() (*branch.Tree, error) {
		return s.builder.Build(fn)
	})
}

func hash(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
