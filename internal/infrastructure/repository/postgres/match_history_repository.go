package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/football-history/internal/domain/match"
	qb "github.com/riskibarqy/football-history/internal/platform/querybuilder"
)

// MatchHistoryRepository stores the dataset as table rows plus a single
// snapshot marker row. The marker distinguishes a saved empty dataset from
// one that was never saved.
type MatchHistoryRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewMatchHistoryRepository(db *sqlx.DB) *MatchHistoryRepository {
	return &MatchHistoryRepository{db: db, now: time.Now}
}

func (r *MatchHistoryRepository) Load(ctx context.Context) (match.Dataset, bool, error) {
	snapshotColumns, err := qb.Columns(matchSnapshotTableModel{})
	if err != nil {
		return nil, false, fmt.Errorf("snapshot columns: %w", err)
	}
	query, args, err := qb.Select(snapshotColumns...).
		From(matchSnapshotTable).
		Where(qb.Eq("snapshot_id", currentSnapshotID)).
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build select snapshot query: %w", err)
	}

	var snapshot matchSnapshotTableModel
	if err := r.db.GetContext(ctx, &snapshot, query, args...); err != nil {
		if isNotFound(err) || isUndefinedTable(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get match history snapshot: %w", err)
	}

	query, args, err = qb.Select(matchHistoryColumns()...).
		From(matchHistoryTable).
		OrderBy(matchHistoryOrdering).
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build select match history query: %w", err)
	}

	rows := make([]matchHistoryTableModel, 0, snapshot.RowCount)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, false, fmt.Errorf("select match history: %w", err)
	}

	records := make(match.Dataset, 0, len(rows))
	for _, row := range rows {
		records = append(records, toMatchRecord(row))
	}
	return match.StandardizeRecords(records), true, nil
}

// Save replaces every stored row in one transaction.
func (r *MatchHistoryRepository) Save(ctx context.Context, dataset match.Dataset) error {
	records := match.StandardizeRecords(dataset)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx save match history: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.DeleteFrom(matchHistoryTable).ToSQL()
	if err != nil {
		return fmt.Errorf("build clear match history query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear match history: %w", err)
	}

	for i, batch := range insertBatches(records, insertBatchSize) {
		insert, err := qb.InsertModels(matchHistoryTable, batch...)
		if err != nil {
			return fmt.Errorf("build insert match history batch=%d: %w", i, err)
		}
		query, args, err := insert.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert match history batch=%d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert match history batch=%d: %w", i, err)
		}
	}

	upsert, err := qb.InsertModels(matchSnapshotTable, matchSnapshotTableModel{
		SnapshotID: currentSnapshotID,
		RowCount:   len(records),
		SavedAt:    r.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("build upsert snapshot query: %w", err)
	}
	query, args, err = upsert.OnConflict([]string{"snapshot_id"}, "row_count", "saved_at").ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert snapshot query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match history snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save match history tx: %w", err)
	}
	return nil
}

func isUndefinedTable(err error) bool {
	var pqErr *pq.Error
	if !asPQError(err, &pqErr) {
		return false
	}
	return pqErr.Code == "42P01"
}
