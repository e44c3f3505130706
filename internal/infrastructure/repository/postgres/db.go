package postgres

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const (
	binaryResultParam = "disable_prepared_binary_result"
	maxTracedQueryLen = 512
)

// Open connects with otel-instrumented sqlx and pings once.
func Open(ctx context.Context, dsn string, disablePreparedBinary bool) (*sqlx.DB, error) {
	dsn = NormalizeDSN(dsn, disablePreparedBinary)

	opts := []otelsql.Option{
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(traceQuery),
	}
	if name := DatabaseName(dsn); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Open("postgres", dsn, opts...)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NormalizeDSN adds disable_prepared_binary_result=yes unless the DSN
// already sets it. Both URL and key=value forms are accepted.
func NormalizeDSN(dsn string, disablePreparedBinary bool) string {
	dsn = strings.TrimSpace(dsn)
	if !disablePreparedBinary || dsn == "" || strings.Contains(dsn, binaryResultParam+"=") {
		return dsn
	}

	if !strings.Contains(dsn, "://") {
		return dsn + " " + binaryResultParam + "=yes"
	}
	parsed, err := url.Parse(dsn)
	if err != nil {
		return dsn
	}
	query := parsed.Query()
	query.Set(binaryResultParam, "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// DatabaseName extracts the database name for span attributes and logs.
func DatabaseName(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if strings.Contains(dsn, "://") {
		if parsed, err := url.Parse(dsn); err == nil {
			return strings.Trim(parsed.Path, "/ ")
		}
		return ""
	}
	for _, field := range strings.Fields(dsn) {
		if value, ok := strings.CutPrefix(field, "dbname="); ok {
			return strings.Trim(value, `"'`)
		}
	}
	return ""
}

// traceQuery collapses whitespace so multi-line statements read as one
// line in traces, and caps the length.
func traceQuery(query string) string {
	query = strings.Join(strings.Fields(query), " ")
	if len(query) <= maxTracedQueryLen {
		return query
	}
	return query[:maxTracedQueryLen] + "..."
}
