package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/football-history/internal/config"
	"github.com/riskibarqy/football-history/internal/domain/competition"
	"github.com/riskibarqy/football-history/internal/usecase"
)

type ingestOptions struct {
	codes   []string
	seasons []int
	delay   time.Duration
}

// NewIngestCommand fetches whole seasons that are not stored yet.
func NewIngestCommand(opts *RootOptions) *cobra.Command {
	ingestOpts := &ingestOptions{}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Fetch missing competition seasons",
		Long: `Fetch every requested competition season that the history does not hold
yet and merge it in. Seasons already present are skipped without a request.

Requests run one at a time, with --delay between them to stay inside the
free-tier rate limit. Any failed request aborts the run and leaves the
stored history untouched.`,
		Example: `  fdhistory ingest
  fdhistory ingest --codes PL,PD --seasons 2021,2022,2023 --delay 6.5s`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, func(ctx context.Context, rt *Runtime) error {
				input, err := ingestOpts.input(cmd, rt)
				if err != nil {
					return err
				}

				dataset, report, err := rt.Datasets.Ingest(ctx, nil, input)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				printIngestReport(out, report)
				printSummary(out, usecase.Summarize(dataset, 0))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&ingestOpts.codes, "codes", nil, "competition codes; defaults to FOOTBALL_DATA_DEFAULT_CODES")
	cmd.Flags().IntSliceVar(&ingestOpts.seasons, "seasons", nil, "season start years; defaults to the last three completed")
	cmd.Flags().DurationVar(&ingestOpts.delay, "delay", 0, "pause after each request; defaults to FOOTBALL_DATA_REQUEST_DELAY")

	return cmd
}

func (o *ingestOptions) input(cmd *cobra.Command, rt *Runtime) (usecase.IngestInput, error) {
	input := usecase.IngestInput{
		Codes:   o.codes,
		Seasons: o.seasons,
		Delay:   rt.DefaultDelay,
	}
	if len(input.Codes) == 0 {
		input.Codes = rt.DefaultCodes
	}
	if len(input.Codes) == 0 {
		input.Codes = competition.DefaultCodes
	}
	if len(input.Seasons) == 0 {
		input.Seasons = usecase.DefaultSeasons(rt.Now())
	}
	if cmd.Flags().Changed("delay") {
		input.Delay = o.delay
	}
	if input.Delay < 0 || input.Delay > config.MaxRequestDelay {
		return usecase.IngestInput{}, fmt.Errorf("%w: --delay must be between 0s and %s", usecase.ErrInvalidInput, config.MaxRequestDelay)
	}
	return input, nil
}
