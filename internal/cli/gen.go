package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/awmpietro/autocase/internal/app"
	"github.com/awmpietro/autocase/internal/config"
	"github.com/awmpietro/autocase/internal/render"
)

func newGenCmd(cfg config.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen <file.go>",
		Short: "generate test cases for the functions of a Go file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd, cfg, args[0])
		},
	}

	cmd.Flags().Bool(flagWithPath, cfg.WithPath, "annotate each case with the branch path it covers")
	cmd.Flags().StringP(flagFormat, "f", "go", "output format: go, json or yaml")
	cmd.Flags().StringP(flagOutput, "o", "", "write to this file instead of stdout")
	return cmd
}

func runGen(cmd *cobra.Command, cfg config.Runtime, path string) error {
	funcs, err := cmd.Flags().GetStringSlice(flagFunc)
	if err != nil {
		return err
	}
	withPath, err := cmd.Flags().GetBool(flagWithPath)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString(flagFormat)
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString(flagOutput)
	if err != nil {
		return err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	svc, closeFn, err := newService(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := svc.Generate(cmd.Context(), app.Request{Filename: path, Source: src, Funcs: funcs, WithPath: withPath})
	if err != nil {
		return err
	}
	for _, s := range res.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %s\n", s.Func, s.Reason)
	}
	if len(res.Suites) == 0 {
		return fmt.Errorf("no function in %s could be modeled", path)
	}

	var buf bytes.Buffer
	switch format {
	case "go":
		err = render.GoTest(&buf, res.Suites)
	case "json":
		err = render.JSON(&buf, res.Suites)
	case "yaml":
		err = render.YAML(&buf, res.Suites)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}

	if output == "" {
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	return os.WriteFile(output, buf.Bytes(), 0o644)
}
