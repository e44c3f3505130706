package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/football-history/internal/app"
	"github.com/riskibarqy/football-history/internal/config"
	"github.com/riskibarqy/football-history/internal/observability"
	"github.com/riskibarqy/football-history/internal/platform/logging"
	"github.com/riskibarqy/football-history/internal/usecase"
)

// RootOptions holds the persistent flags shared by every subcommand.
type RootOptions struct {
	LogLevel  string
	Store     string
	CachePath string

	// open builds the services a command runs against. Tests replace it.
	open func(ctx context.Context, opts *RootOptions, stderr io.Writer) (*Runtime, error)
}

// Runtime is what a subcommand needs from the wired application.
type Runtime struct {
	Competitions *usecase.CompetitionService
	Datasets     *usecase.DatasetService
	DefaultCodes []string
	DefaultDelay time.Duration
	Now          func() time.Time
	Close        func() error
}

// NewRootCommand creates the fdhistory command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{open: openRuntime})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fdhistory",
		Short: "Build and maintain a football match history from football-data.org",
		Long: `fdhistory downloads finished matches from the football-data.org v4 API
and keeps them in a single deduplicated history table.

The table lives in the configured history store (a CSV file by default) and
only grows: seasons already present are never fetched again, and refresh
pulls the last seven days of finished matches.

The API token is read from FOOTBALL_DATA_TOKEN.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error); defaults to LOG_LEVEL")
	cmd.PersistentFlags().StringVar(&opts.Store, "store", "", "history store backend (csv, s3, postgres); defaults to HISTORY_STORE")
	cmd.PersistentFlags().StringVar(&opts.CachePath, "cache", "", "CSV history file; implies --store=csv")

	cmd.AddCommand(NewCompetitionsCommand(opts))
	cmd.AddCommand(NewIngestCommand(opts))
	cmd.AddCommand(NewRefreshCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}

func openRuntime(ctx context.Context, opts *RootOptions, stderr io.Writer) (*Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyOverrides(&cfg, opts)

	logger := logging.NewConsole(stderr, cfg.LogLevel)
	telemetry, err := observability.StartTracing(cfg, logger)
	if err != nil {
		return nil, err
	}
	services, err := app.NewServices(ctx, cfg, config.EnvSecrets{}, logger)
	if err != nil {
		_ = telemetry.Shutdown(context.Background())
		return nil, err
	}

	return &Runtime{
		Competitions: services.Competitions,
		Datasets:     services.Datasets,
		DefaultCodes: cfg.FootballDataDefaultCodes,
		DefaultDelay: cfg.FootballDataRequestDelay,
		Now:          time.Now,
		Close: func() error {
			err := services.Close()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = telemetry.Shutdown(shutdownCtx)
			_ = logger.Sync()
			return err
		},
	}, nil
}

func applyOverrides(cfg *config.Config, opts *RootOptions) {
	if opts.LogLevel != "" {
		cfg.LogLevel = logging.ParseLevel(opts.LogLevel)
	}
	if store := strings.ToLower(strings.TrimSpace(opts.Store)); store != "" {
		cfg.HistoryStore = store
	}
	if path := strings.TrimSpace(opts.CachePath); path != "" {
		cfg.HistoryStore = config.StoreCSV
		cfg.HistoryCachePath = path
	}
}

// withRuntime opens the runtime for the duration of fn.
func withRuntime(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, rt *Runtime) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := opts.open(ctx, opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if rt.Now == nil {
		rt.Now = time.Now
	}
	defer func() {
		if rt.Close == nil {
			return
		}
		if closeErr := rt.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return fn(ctx, rt)
}
