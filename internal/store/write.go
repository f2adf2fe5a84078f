package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/mhafizyusof/speedment/internal/ir"
	"github.com/mhafizyusof/speedment/internal/querysql"
)

var sqlite = querysql.NewSQLiteDialect()

// sqliteType maps a declared column type to its SQLite storage class.
// Bools are stored as INTEGER 0/1.
func sqliteType(t ir.ColumnType) (string, error) {
	switch t {
	case ir.ColumnInt, ir.ColumnBool:
		return "INTEGER", nil
	case ir.ColumnString:
		return "TEXT", nil
	default:
		return "", fmt.Errorf("unsupported column type %q", t)
	}
}

// CreateTable creates the table backing e if it does not exist.
//
// Column order follows the spec. Non-nullable columns are NOT NULL and
// primary columns form the table's PRIMARY KEY.
func (s *Store) CreateTable(ctx context.Context, e *ir.EntitySpec) error {
	ddl, err := createTableSQL(e)
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", e.Table, err)
	}
	return nil
}

func createTableSQL(e *ir.EntitySpec) (string, error) {
	if e == nil || e.Table == "" {
		return "", fmt.Errorf("entity has no table")
	}
	if len(e.Columns) == 0 {
		return "", fmt.Errorf("entity %s has no columns", e.Name)
	}

	defs := make([]string, 0, len(e.Columns)+1)
	var primary []string
	for _, col := range e.Columns {
		typ, err := sqliteType(col.Type)
		if err != nil {
			return "", fmt.Errorf("column %s: %w", col.Name, err)
		}
		def := sqlite.QuoteIdentifier(col.DatabaseName()) + " " + typ
		if !col.Nullable {
			def += " NOT NULL"
		}
		defs = append(defs, def)
		if col.Primary {
			primary = append(primary, sqlite.QuoteIdentifier(col.DatabaseName()))
		}
	}
	if len(primary) > 0 {
		defs = append(defs, "PRIMARY KEY ("+strings.Join(primary, ", ")+")")
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", sqlite.QuoteIdentifier(e.Table), strings.Join(defs, ", ")), nil
}

// InsertRows inserts rows into e's table in one transaction.
//
// Rows are keyed by logical column name. A missing key inserts NULL; a
// key that is not a column of e, or a value of the wrong type, fails the
// whole batch.
func (s *Store) InsertRows(ctx context.Context, e *ir.EntitySpec, rows []ir.IRObject) error {
	if len(rows) == 0 {
		return nil
	}

	cols := make([]string, len(e.Columns))
	phs := make([]string, len(e.Columns))
	for i, col := range e.Columns {
		cols[i] = sqlite.QuoteIdentifier(col.DatabaseName())
		phs[i] = "?"
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		sqlite.QuoteIdentifier(e.Table), strings.Join(cols, ", "), strings.Join(phs, ", "))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	for i, row := range rows {
		args, err := rowArgs(e, row)
		if err != nil {
			return fmt.Errorf("insert row %d into %s: %w", i, e.Table, err)
		}
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return fmt.Errorf("insert row %d into %s: %w", i, e.Table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}
	return nil
}

// rowArgs converts a row into driver values in column order.
func rowArgs(e *ir.EntitySpec, row ir.IRObject) ([]any, error) {
	for _, key := range row.SortedKeys() {
		if _, ok := e.Column(key); !ok {
			return nil, fmt.Errorf("unknown column %q", key)
		}
	}

	mapper := querysql.CatalogValueMapper(ir.Catalog{e.Name: e})
	args := make([]any, len(e.Columns))
	for i, col := range e.Columns {
		v, ok := row[col.Name]
		if !ok {
			continue
		}
		arg, err := mapper(ir.ColumnRef{Entity: e.Name, Column: col.Name}, v)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	return args, nil
}
