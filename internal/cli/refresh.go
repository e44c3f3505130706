package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/football-history/internal/usecase"
)

// NewRefreshCommand re-fetches the trailing week of finished matches.
func NewRefreshCommand(opts *RootOptions) *cobra.Command {
	var codes []string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch finished matches from the last seven days",
		Long: `Fetch finished matches played in the last seven days (UTC) and merge them
into the history. Without --codes every competition the token can see is
included.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, func(ctx context.Context, rt *Runtime) error {
				dataset, report, err := rt.Datasets.Refresh(ctx, nil, usecase.RefreshInput{Codes: codes})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				printRefreshReport(out, report)
				printSummary(out, usecase.Summarize(dataset, 0))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&codes, "codes", nil, "competition codes to limit the refresh to")

	return cmd
}
