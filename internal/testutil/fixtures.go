package testutil

import (
	"io"
	"log/slog"

	"github.com/mhafizyusof/speedment/internal/ir"
)

// SilentLogger returns a logger that discards everything.
func SilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// UserEntity is the entity most tests query. It covers every column type,
// a nullable column and a column whose database name differs from its
// logical name.
func UserEntity() ir.EntitySpec {
	return ir.EntitySpec{
		Name:  "User",
		Table: "users",
		Columns: []ir.ColumnSpec{
			{Name: "id", Type: ir.ColumnInt, Primary: true},
			{Name: "name", Type: ir.ColumnString},
			{Name: "age", Type: ir.ColumnInt, Nullable: true},
			{Name: "active", Type: ir.ColumnBool},
			{Name: "createdAt", DBName: "created_at", Type: ir.ColumnInt},
		},
	}
}

// UserCatalog is a catalog holding only UserEntity.
func UserCatalog() ir.Catalog {
	return ir.NewCatalog(UserEntity())
}

// UserCol returns the ColumnRef of a UserEntity column.
func UserCol(column string) ir.ColumnRef {
	return ir.ColumnRef{Entity: "User", Column: column}
}

// UserRows returns eight users. id, name and createdAt are unique; age
// repeats and is NULL for two users.
func UserRows() []ir.IRObject {
	type u struct {
		id     int64
		name   string
		age    ir.IRValue
		active bool
	}
	users := []u{
		{1, "ada", ir.IRInt(36), true},
		{2, "grace", ir.IRInt(45), false},
		{3, "linus", ir.IRNull{}, true},
		{4, "margaret", ir.IRInt(33), true},
		{5, "ken", ir.IRInt(45), false},
		{6, "barbara", ir.IRInt(28), true},
		{7, "dennis", ir.IRNull{}, false},
		{8, "edsger", ir.IRInt(36), true},
	}

	rows := make([]ir.IRObject, len(users))
	for i, usr := range users {
		rows[i] = ir.IRObject{
			"id":        ir.IRInt(usr.id),
			"name":      ir.IRString(usr.name),
			"age":       usr.age,
			"active":    ir.IRBool(usr.active),
			"createdAt": ir.IRInt(1000 - usr.id*10),
		}
	}
	return rows
}

// Column extracts one column from every row.
func Column(rows []ir.IRObject, column string) []ir.IRValue {
	out := make([]ir.IRValue, len(rows))
	for i, row := range rows {
		out[i] = row[column]
	}
	return out
}
