package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Simplici0/quotedoc/internal/generator"
)

func newEstimateCmd(a *app) *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:   "estimate",
		Short: "Print the overall price range for a project",
		Long: `Compute the style-adjusted page cost plus paid features.

Examples:
  quotegen estimate -f request.json
  cat request.json | quotegen estimate -f -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(cmd, file)
			if err != nil {
				return err
			}
			provider, database, err := a.open()
			if err != nil {
				return err
			}
			if database != nil {
				defer database.Close()
			}

			gen := &generator.Generator{Settings: provider, Log: a.log}
			est, err := gen.Estimate(cmd.Context(), req.Params, nil)
			if err != nil {
				return err
			}

			if a.asJSON {
				return printJSON(cmd.OutOrStdout(), est)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Estimate: %s\n", formatRange(est))
			return err
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "-", "request JSON file, or - for stdin")
	return c
}
