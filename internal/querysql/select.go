package querysql

import (
	"fmt"
	"strings"

	"github.com/mhafizyusof/speedment/internal/ir"
)

// SelectClause renders the statement prefix for an entity:
//
//	SELECT "id", "name", "created_at" AS "createdAt" FROM "users"
//
// Columns are listed in declaration order and aliased to their logical
// name when the database name differs, so result rows are keyed by the
// names pipelines use.
func SelectClause(d Dialect, e *ir.EntitySpec) (string, error) {
	if e == nil {
		return "", fmt.Errorf("select clause: nil entity")
	}
	if e.Table == "" {
		return "", fmt.Errorf("select clause: entity %s has no table", e.Name)
	}
	if len(e.Columns) == 0 {
		return "SELECT * FROM " + d.QuoteIdentifier(e.Table), nil
	}

	parts := make([]string, len(e.Columns))
	for i, col := range e.Columns {
		dbName := col.DatabaseName()
		if dbName == col.Name {
			parts[i] = d.QuoteIdentifier(dbName)
		} else {
			parts[i] = fmt.Sprintf("%s AS %s", d.QuoteIdentifier(dbName), d.QuoteIdentifier(col.Name))
		}
	}

	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(parts, ", "), d.QuoteIdentifier(e.Table)), nil
}
