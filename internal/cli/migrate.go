package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/football-history/internal/app"
	"github.com/riskibarqy/football-history/internal/config"
	"github.com/riskibarqy/football-history/internal/platform/logging"
)

// NewMigrateCommand manages the postgres history store schema.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres history store schema",
		Long: `Apply or roll back the schema used by HISTORY_STORE=postgres.
The database is read from DB_URL and migrations from --dir, MIGRATIONS_DIR,
./db/migrations or /app/db/migrations, whichever exists first.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "migrations directory")

	run := func(cmd *cobra.Command, fn func(*app.Migrator) error) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		applyOverrides(&cfg, opts)

		logger := logging.NewConsole(cmd.ErrOrStderr(), cfg.LogLevel)
		defer func() { _ = logger.Sync() }()

		migrator, err := app.NewMigrator(cfg, dir, logger)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := migrator.Close(); closeErr != nil {
				logger.Warn("close migrator", "error", closeErr)
			}
		}()
		return fn(migrator)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, (*app.Migrator).Up)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := parseSteps(args)
			if err != nil {
				return err
			}
			return run(cmd, func(m *app.Migrator) error { return m.Down(steps) })
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(m *app.Migrator) error {
				v, err := m.Version()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !v.Applied {
					fmt.Fprintln(out, "version: none")
				} else {
					fmt.Fprintf(out, "version: %d\n", v.Version)
				}
				fmt.Fprintf(out, "dirty: %t\n", v.Dirty)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "force <version>",
		Short: "Set the schema version without running migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := parseVersion(args[0])
			if err != nil {
				return err
			}
			return run(cmd, func(m *app.Migrator) error { return m.Force(version) })
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "goto <version>",
		Short: "Migrate up or down to a version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseTarget(args[0])
			if err != nil {
				return err
			}
			return run(cmd, func(m *app.Migrator) error { return m.Goto(target) })
		},
	})

	return cmd
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}

	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0")
	}
	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("version must be >= 0")
	}
	if value > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("version is too large for this platform")
	}
	return int(value), nil
}

func parseTarget(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid target version %q: %w", raw, err)
	}
	return uint(value), nil
}
