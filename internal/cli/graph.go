package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/awmpietro/autocase/internal/app"
	"github.com/awmpietro/autocase/internal/branch"
	"github.com/awmpietro/autocase/internal/branch/cache"
)

func newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph <file.go>",
		Short: "print the branch graph of one function as DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			funcs, err := cmd.Flags().GetStringSlice(flagFunc)
			if err != nil {
				return err
			}
			if len(funcs) != 1 {
				return fmt.Errorf("graph needs exactly one --%s", flagFunc)
			}
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			svc := app.NewService(branch.NewBuilder(), cache.NewInMemory(1))
			dot, err := svc.Graph(app.Request{Filename: args[0], Source: src, Funcs: funcs})
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), dot)
			return err
		},
	}
}
