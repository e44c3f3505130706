package querybuilder

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// InsertModels starts a multi-row insert from structs tagged with `db`.
// Every model must map to the same columns.
func InsertModels[T any](table string, models ...T) (*InsertBuilder, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("insert into %s: no rows", table)
	}

	insert := InsertInto(table)
	for n, model := range models {
		cols, vals, err := taggedFields(model)
		if err != nil {
			return nil, fmt.Errorf("insert into %s row %d: %w", table, n, err)
		}
		if n == 0 {
			insert.Columns(cols...)
		} else if !slices.Equal(cols, insert.columns) {
			return nil, fmt.Errorf("insert into %s row %d: columns differ from row 0", table, n)
		}
		insert.Values(vals...)
	}
	return insert, nil
}

// Columns lists the `db` columns of a model type, in field order.
func Columns(model any) ([]string, error) {
	cols, _, err := taggedFields(model)
	return cols, err
}

func taggedFields(model any) ([]string, []any, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, nil, fmt.Errorf("model is nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model is %s, want struct", v.Kind())
	}

	t := v.Type()
	var (
		cols []string
		vals []any
	)
	for n := range t.NumField() {
		field := t.Field(n)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		cols = append(cols, name)
		vals = append(vals, v.Field(n).Interface())
	}
	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("%s has no db columns", t.Name())
	}
	return cols, vals, nil
}
