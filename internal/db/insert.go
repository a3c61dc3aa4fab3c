package db

import (
	"fmt"
	"strings"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// Row is an ordered column/value list for a single INSERT.
type Row struct {
	cols []string
	vals []any
}

// NewRow returns an empty Row.
func NewRow() *Row {
	return &Row{}
}

// Set appends a column and its value.
func (r *Row) Set(col string, val any) *Row {
	r.cols = append(r.cols, col)
	r.vals = append(r.vals, val)
	return r
}

// Columns returns the column names in insertion order.
func (r *Row) Columns() []string { return r.cols }

// Values returns the values in insertion order.
func (r *Row) Values() []any { return r.vals }

// Get returns the value stored for col.
func (r *Row) Get(col string) (any, bool) {
	for i, c := range r.cols {
		if c == col {
			return r.vals[i], true
		}
	}
	return nil, false
}

// InsertIgnore builds "INSERT INTO table (...) VALUES (...) ON CONFLICT (key) DO NOTHING"
// with placeholders for the given flavor.
func InsertIgnore(flavor sqlbuilder.Flavor, table, conflictKey string, row *Row) (string, []any, error) {
	if row == nil || len(row.cols) == 0 {
		return "", nil, eris.Errorf("db: insert into %s: no columns", table)
	}
	ib := flavor.NewInsertBuilder()
	ib.InsertInto(table)
	ib.Cols(row.cols...)
	ib.Values(row.vals...)
	sql, args := ib.Build()
	sql += fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", conflictKey)
	return sql, args, nil
}

// Column is a column definition used for additive schema changes.
type Column struct {
	Name string
	Type string
}

// AddColumnsIfNotExist builds a single Postgres ALTER TABLE adding every column
// that is not yet present.
func AddColumnsIfNotExist(table string, cols []Column) string {
	clauses := make([]string, len(cols))
	for i, c := range cols {
		clauses[i] = fmt.Sprintf("ADD COLUMN IF NOT EXISTS %s %s", pgx.Identifier{c.Name}.Sanitize(), c.Type)
	}
	return fmt.Sprintf("ALTER TABLE %s %s", sanitizeTable(table), strings.Join(clauses, ", "))
}

// AddColumn builds a single-column ALTER TABLE for engines without IF NOT EXISTS.
func AddColumn(table string, col Column) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", sanitizeTable(table), pgx.Identifier{col.Name}.Sanitize(), col.Type)
}

// sanitizeTable handles schema-qualified table names like "public.reviews".
func sanitizeTable(table string) string {
	parts := strings.SplitN(table, ".", 2)
	if len(parts) == 2 {
		return pgx.Identifier{parts[0], parts[1]}.Sanitize()
	}
	return pgx.Identifier{table}.Sanitize()
}
