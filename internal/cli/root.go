package cli

import (
	"context"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/awmpietro/autocase/internal/app"
	"github.com/awmpietro/autocase/internal/branch"
	"github.com/awmpietro/autocase/internal/branch/cache"
	"github.com/awmpietro/autocase/internal/config"
)

const (
	flagFunc     = "func"
	flagWithPath = "with-path"
	flagFormat   = "format"
	flagOutput   = "output"
	flagMaxPaths = "max-paths"
	flagVerbose  = "verbose"
)

func newRootCmd(cfg config.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autocase",
		Short: "autocase generates branch-covering test cases for Go functions.",
		Long: `autocase reads a Go source file, derives one integer argument per
reachable branch path of each single-parameter function, runs the function
with it and records what it returned or raised.

Branch tests must compare the parameter with an integer literal using
==, !=, <, <=, > or >=. Loops, switches and compound tests are rejected.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringSlice(flagFunc, nil, "functions to generate for (default: every function)")
	cmd.PersistentFlags().Int(flagMaxPaths, cfg.MaxPaths, "maximum number of paths per function")
	cmd.PersistentFlags().BoolP(flagVerbose, "v", false, "log every explored path to stderr")

	cmd.AddCommand(
		newGenCmd(cfg),
		newGraphCmd(),
	)
	return cmd
}

func newService(cmd *cobra.Command, cfg config.Runtime) (*app.Service, func(), error) {
	maxPaths, err := cmd.Flags().GetInt(flagMaxPaths)
	if err != nil {
		return nil, nil, err
	}
	verbose, err := cmd.Flags().GetBool(flagVerbose)
	if err != nil {
		return nil, nil, err
	}

	opts := []app.ServiceOption{app.WithMaxPaths(maxPaths)}
	closeFn := func() {}
	if verbose {
		observer := branch.NewAsyncPathObserver(branch.NewPathLogger(log.New(cmd.ErrOrStderr(), "", log.LstdFlags)), cfg.ObsBuffer)
		opts = append(opts, app.WithPathObserver(observer))
		closeFn = observer.Close
	}
	return app.NewService(branch.NewBuilder(), cache.NewInMemory(cfg.CacheMaxItems), opts...), closeFn, nil
}

// Run executes the command line args and reports the exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(config.Load())
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
