// Package querybuilder renders the handful of Postgres statements the
// history store needs. Values are always bound as $n placeholders.
package querybuilder

import (
	"errors"
	"strconv"
	"strings"
)

var (
	errNoTable   = errors.New("table is required")
	errNoColumns = errors.New("columns are required")
)

// binder hands out $n placeholders in bind order.
type binder struct {
	values []any
}

func (b *binder) bind(value any) string {
	b.values = append(b.values, value)
	return "$" + strconv.Itoa(len(b.values))
}

// Condition renders one predicate of a WHERE clause.
type Condition func(b *binder) string

func Eq(column string, value any) Condition {
	return func(b *binder) string {
		return column + " = " + b.bind(value)
	}
}

func writeWhere(sb *strings.Builder, b *binder, conditions []Condition) {
	for i, cond := range conditions {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(cond(b))
	}
}

type SelectBuilder struct {
	table   string
	columns []string
	where   []Condition
	orderBy []string
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (s *SelectBuilder) From(table string) *SelectBuilder {
	s.table = table
	return s
}

func (s *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	s.where = append(s.where, conditions...)
	return s
}

func (s *SelectBuilder) OrderBy(terms ...string) *SelectBuilder {
	s.orderBy = append(s.orderBy, terms...)
	return s
}


func (s *SelectBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(s.table) == "" {
		return "", nil, errNoTable
	}
	if len(s.columns) == 0 {
		return "", nil, errNoColumns
	}

	var (
		sb strings.Builder
		b  binder
	)
	sb.WriteString("SELECT " + strings.Join(s.columns, ", ") + " FROM " + s.table)
	writeWhere(&sb, &b, s.where)
	if len(s.orderBy) > 0 {
		sb.WriteString(" ORDER BY " + strings.Join(s.orderBy, ", "))
	}
	return sb.String(), b.values, nil
}

type InsertBuilder struct {
	table    string
	columns  []string
	rows     [][]any
	conflict *conflictClause
}

type conflictClause struct {
	target []string
	update []string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (i *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	i.columns = append([]string(nil), columns...)
	return i
}

// Values adds one row; call it once per row for a multi-row insert.
func (i *InsertBuilder) Values(values ...any) *InsertBuilder {
	i.rows = append(i.rows, append([]any(nil), values...))
	return i
}

// OnConflict turns the insert into an upsert on target. The listed columns
// are overwritten from EXCLUDED; with none the conflicting row is skipped.
func (i *InsertBuilder) OnConflict(target []string, update ...string) *InsertBuilder {
	i.conflict = &conflictClause{
		target: append([]string(nil), target...),
		update: append([]string(nil), update...),
	}
	return i
}

func (i *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(i.table) == "" {
		return "", nil, errNoTable
	}
	if len(i.columns) == 0 {
		return "", nil, errNoColumns
	}
	if len(i.rows) == 0 {
		return "", nil, errors.New("at least one row is required")
	}

	var (
		sb strings.Builder
		b  binder
	)
	b.values = make([]any, 0, len(i.rows)*len(i.columns))
	sb.WriteString("INSERT INTO " + i.table + " (" + strings.Join(i.columns, ", ") + ") VALUES ")
	for n, row := range i.rows {
		if len(row) != len(i.columns) {
			return "", nil, errors.New("row " + strconv.Itoa(n) + " has " + strconv.Itoa(len(row)) + " values for " + strconv.Itoa(len(i.columns)) + " columns")
		}
		if n > 0 {
			sb.WriteString(", ")
		}
		placeholders := make([]string, len(row))
		for c, value := range row {
			placeholders[c] = b.bind(value)
		}
		sb.WriteString("(" + strings.Join(placeholders, ", ") + ")")
	}

	if i.conflict != nil {
		sb.WriteString(" ON CONFLICT")
		if len(i.conflict.target) > 0 {
			sb.WriteString(" (" + strings.Join(i.conflict.target, ", ") + ")")
		}
		if len(i.conflict.update) == 0 {
			sb.WriteString(" DO NOTHING")
		} else {
			sets := make([]string, len(i.conflict.update))
			for n, col := range i.conflict.update {
				sets[n] = col + " = EXCLUDED." + col
			}
			sb.WriteString(" DO UPDATE SET " + strings.Join(sets, ", "))
		}
	}
	return sb.String(), b.values, nil
}

type DeleteBuilder struct {
	table string
	where []Condition
}

// DeleteFrom without Where clears the table.
func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (d *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	d.where = append(d.where, conditions...)
	return d
}

func (d *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(d.table) == "" {
		return "", nil, errNoTable
	}

	var (
		sb strings.Builder
		b  binder
	)
	sb.WriteString("DELETE FROM " + d.table)
	writeWhere(&sb, &b, d.where)
	return sb.String(), b.values, nil
}
