package queryir

import "github.com/mhafizyusof/speedment/internal/ir"

var (
	colAge  = ir.ColumnRef{Entity: "User", Column: "age"}
	colName = ir.ColumnRef{Entity: "User", Column: "name"}
)
