package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func asPQError(err error, target **pq.Error) bool {
	return err != nil && errors.As(err, target)
}
