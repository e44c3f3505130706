package csvfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/football-history/internal/domain/match"
	"github.com/riskibarqy/football-history/internal/platform/logging"
)

// Store keeps the dataset in a single CSV file. Saves replace the file
// atomically; concurrent writers in separate processes still race and the
// last rename wins.
type Store struct {
	path   string
	logger *logging.Logger
}

func NewStore(path string, logger *logging.Logger) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("csv cache path is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{path: filepath.Clean(path), logger: logger}, nil
}

func (s *Store) Path() string {
	return s.path
}

// Load returns ok=false when the file does not exist.
func (s *Store) Load(ctx context.Context) (match.Dataset, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	file, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("open csv cache %s: %w", s.path, err)
	}
	defer file.Close()

	dataset, err := Decode(file)
	if err != nil {
		return nil, false, fmt.Errorf("decode csv cache %s: %w", s.path, err)
	}
	s.logger.DebugContext(ctx, "csv cache loaded", "path", s.path, "rows", len(dataset))
	return dataset, true, nil
}

// Save writes the standardized dataset to a temp file next to the target,
// syncs it and renames it into place.
func (s *Store) Save(ctx context.Context, dataset match.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	buf, err := EncodeToPool(dataset)
	if err != nil {
		return fmt.Errorf("encode csv cache: %w", err)
	}
	defer bytebufferpool.Put(buf)

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create csv cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(buf.B); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace csv cache %s: %w", s.path, err)
	}
	committed = true

	s.logger.DebugContext(ctx, "csv cache saved", "path", s.path, "bytes", buf.Len())
	return nil
}
