package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/football-history/internal/domain/match"
	basecache "github.com/riskibarqy/football-history/internal/platform/cache"
)

const matchHistoryKey = "match_history:snapshot"

// MatchHistoryRepository keeps the last loaded or saved dataset of a slow
// store in memory. Saves go to the wrapped store first and refresh the
// cached copy only when they succeed.
type MatchHistoryRepository struct {
	next  match.Repository
	cache *basecache.Store[cachedDataset]
}

type cachedDataset struct {
	records match.Dataset
	exists  bool
}

// NewMatchHistoryRepository caches loads for ttl; saves through this
// repository keep the cache current.
func NewMatchHistoryRepository(next match.Repository, ttl time.Duration) *MatchHistoryRepository {
	return &MatchHistoryRepository{next: next, cache: basecache.NewStore[cachedDataset](ttl)}
}

func (r *MatchHistoryRepository) Load(ctx context.Context) (match.Dataset, bool, error) {
	cached, err := r.cache.GetOrLoad(ctx, matchHistoryKey, func(ctx context.Context) (cachedDataset, error) {
		records, exists, err := r.next.Load(ctx)
		if err != nil {
			return cachedDataset{}, err
		}
		return cachedDataset{records: cloneDataset(records), exists: exists}, nil
	})
	if err != nil {
		return nil, false, err
	}
	if !cached.exists {
		return nil, false, nil
	}
	return cloneDataset(cached.records), true, nil
}

func (r *MatchHistoryRepository) Save(ctx context.Context, records match.Dataset) error {
	if err := r.next.Save(ctx, records); err != nil {
		r.cache.Delete(ctx, matchHistoryKey)
		return err
	}
	r.cache.Set(ctx, matchHistoryKey, cachedDataset{records: cloneDataset(records), exists: true})
	return nil
}

func cloneDataset(records match.Dataset) match.Dataset {
	if records == nil {
		return nil
	}
	return append(make(match.Dataset, 0, len(records)), records...)
}
