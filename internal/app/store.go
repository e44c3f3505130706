package app

import (
	"context"
	"fmt"

	"github.com/riskibarqy/football-history/internal/config"
	"github.com/riskibarqy/football-history/internal/domain/match"
	historycache "github.com/riskibarqy/football-history/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/football-history/internal/infrastructure/repository/csvfile"
	"github.com/riskibarqy/football-history/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/football-history/internal/infrastructure/repository/s3cache"
	"github.com/riskibarqy/football-history/internal/platform/logging"
)

func noopClose() error { return nil }

// OpenHistoryStore returns the durable cache selected by HISTORY_STORE.
func OpenHistoryStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (match.Repository, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	switch cfg.HistoryStore {
	case config.StoreCSV, "":
		store, err := csvfile.NewStore(cfg.HistoryCachePath, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("history store selected", "store", config.StoreCSV, "path", store.Path())
		return store, noopClose, nil
	case config.StoreS3:
		store, err := s3cache.New(ctx, s3cache.Config{
			Bucket:    cfg.HistoryS3Bucket,
			Key:       cfg.HistoryS3Key,
			Region:    cfg.HistoryS3Region,
			Endpoint:  cfg.HistoryS3Endpoint,
			PathStyle: cfg.HistoryS3PathStyle,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open s3 history store: %w", err)
		}
		logger.Info("history store selected", "store", config.StoreS3, "bucket", cfg.HistoryS3Bucket, "key", cfg.HistoryS3Key)
		return withReadCache(store, cfg), noopClose, nil
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.DBURL, cfg.DBDisablePreparedBinary)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("history store selected", "store", config.StorePostgres, "db_name", postgres.DatabaseName(cfg.DBURL))
		return withReadCache(postgres.NewMatchHistoryRepository(db), cfg), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported history store %q", cfg.HistoryStore)
	}
}

// withReadCache fronts a remote store with an in-process copy of the last
// loaded or saved dataset.
func withReadCache(repo match.Repository, cfg config.Config) match.Repository {
	if cfg.HistoryReadCacheTTL <= 0 {
		return repo
	}
	return historycache.NewMatchHistoryRepository(repo, cfg.HistoryReadCacheTTL)
}
