package store

import (
	"path/filepath"
	"testing"

	"github.com/mhafizyusof/speedment/internal/ir"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testUserEntity is a small entity covering every column type.
func testUserEntity() *ir.EntitySpec {
	return &ir.EntitySpec{
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

func testUserRows() []ir.IRObject {
	return []ir.IRObject{
		{"id": ir.IRInt(1), "name": ir.IRString("ada"), "age": ir.IRInt(36), "active": ir.IRBool(true), "createdAt": ir.IRInt(100)},
		{"id": ir.IRInt(2), "name": ir.IRString("grace"), "age": ir.IRInt(45), "active": ir.IRBool(false), "createdAt": ir.IRInt(200)},
		{"id": ir.IRInt(3), "name": ir.IRString("linus"), "active": ir.IRBool(true), "createdAt": ir.IRInt(300)},
	}
}
