package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/riskibarqy/football-history/internal/config"
	"github.com/riskibarqy/football-history/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/football-history/internal/platform/logging"
)

var defaultMigrationDirs = []string{"./db/migrations", "/app/db/migrations"}

// Migrator applies the postgres history store schema.
type Migrator struct {
	m      *migrate.Migrate
	source string
	logger *logging.Logger
}

// MigrationVersion is the schema state; Version is zero when nothing is applied.
type MigrationVersion struct {
	Version uint
	Dirty   bool
	Applied bool
}

func NewMigrator(cfg config.Config, dir string, logger *logging.Logger) (*Migrator, error) {
	if logger == nil {
		logger = logging.Default()
	}
	dbURL := strings.TrimSpace(cfg.DBURL)
	if dbURL == "" {
		return nil, fmt.Errorf("DB_URL is required")
	}

	resolved, err := ResolveMigrationsDir(dir)
	if err != nil {
		return nil, err
	}

	source := "file://" + filepath.ToSlash(resolved)
	m, err := migrate.New(source, postgres.NormalizeDSN(dbURL, cfg.DBDisablePreparedBinary))
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return &Migrator{m: m, source: source, logger: logger}, nil
}

func (m *Migrator) Up() error {
	if err := ignoreNoChange(m.m.Up(), m.logger); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	m.logger.Info("migrations applied", "source", m.source)
	return nil
}

func (m *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("down steps must be > 0")
	}
	if err := ignoreNoChange(m.m.Steps(-steps), m.logger); err != nil {
		return fmt.Errorf("roll back %d migration(s): %w", steps, err)
	}
	m.logger.Info("migrations rolled back", "steps", steps)
	return nil
}

func (m *Migrator) Goto(target uint) error {
	if err := ignoreNoChange(m.m.Migrate(target), m.logger); err != nil {
		return fmt.Errorf("migrate to version %d: %w", target, err)
	}
	m.logger.Info("migrated", "version", target)
	return nil
}

func (m *Migrator) Force(version int) error {
	if err := m.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	m.logger.Warn("migration version forced", "version", version)
	return nil
}

func (m *Migrator) Version() (MigrationVersion, error) {
	version, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return MigrationVersion{}, nil
	}
	if err != nil {
		return MigrationVersion{}, fmt.Errorf("read version: %w", err)
	}
	return MigrationVersion{Version: version, Dirty: dirty, Applied: true}, nil
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}

// ResolveMigrationsDir picks the first existing directory among explicit,
// MIGRATIONS_DIR and the default locations.
func ResolveMigrationsDir(explicit string) (string, error) {
	candidates := append([]string{
		strings.TrimSpace(explicit),
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
	}, defaultMigrationDirs...)

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			continue
		}
		return abs, nil
	}

	return "", fmt.Errorf("migration directory not found (checked --dir, MIGRATIONS_DIR, %s)", strings.Join(defaultMigrationDirs, ", "))
}

func ignoreNoChange(err error, logger *logging.Logger) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	return err
}
