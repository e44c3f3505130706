package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/football-history/internal/usecase"
)

// NewShowCommand prints the stored history span and its latest records.
func NewShowCommand(opts *RootOptions) *cobra.Command {
	var tail int

	cmd := &cobra.Command{
		Use:           "show",
		Short:         "Show the stored history",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tail < 0 {
				return fmt.Errorf("%w: --tail must be >= 0", usecase.ErrInvalidInput)
			}
			return withRuntime(cmd, opts, func(ctx context.Context, rt *Runtime) error {
				dataset, _, err := rt.Datasets.Load(ctx)
				if err != nil {
					return err
				}

				summary := usecase.Summarize(dataset, tail)
				out := cmd.OutOrStdout()
				printSummary(out, summary)
				printRecords(out, summary.Preview)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&tail, "tail", "n", 10, "number of latest records to print")

	return cmd
}
