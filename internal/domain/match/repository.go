package match

import "context"

// Repository persists the whole dataset. Load reports ok=false when the
// target holds no data yet; that is not an error.
type Repository interface {
	Load(ctx context.Context) (Dataset, bool, error)
	Save(ctx context.Context, records Dataset) error
}
