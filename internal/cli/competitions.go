package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewCompetitionsCommand lists the competitions the API token can access.
func NewCompetitionsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "competitions",
		Short:         "List accessible competitions",
		Long:          "List the competitions available to the configured token, ordered by area then name. Codes marked with * are selected by default.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, func(ctx context.Context, rt *Runtime) error {
				catalog, err := rt.Competitions.Catalog(ctx)
				if err != nil {
					return err
				}

				defaults := make(map[string]struct{}, len(catalog.DefaultCodes))
				for _, code := range catalog.DefaultCodes {
					defaults[code] = struct{}{}
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "CODE\tNAME\tAREA\tTYPE")
				for _, item := range catalog.Competitions {
					code := item.Code
					if _, ok := defaults[code]; ok {
						code += "*"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", code, item.Name, item.AreaName, item.Type)
				}
				return tw.Flush()
			})
		},
	}
}
