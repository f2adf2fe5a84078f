package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mhafizyusof/speedment/internal/ir"
	"github.com/mhafizyusof/speedment/internal/testutil"
)

const userSpec = `package specs

entity: User: {
	table: "users"
	columns: {
		id:        {type: int, primary: true}
		name:      string
		age:       int | null
		active:    bool
		createdAt: {type: int, db_name: "created_at"}
	}
}
`

// writeUserSpec writes the User schema into a fresh directory.
func writeUserSpec(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.cue"), []byte(userSpec), 0644))
	return dir
}

// seedRows is testutil.UserRows as decoded YAML would hand it over.
func seedRows() []map[string]any {
	rows := testutil.UserRows()
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		m := make(map[string]any, len(row))
		for k, v := range row {
			switch val := v.(type) {
			case ir.IRInt:
				m[k] = int(val)
			case ir.IRString:
				m[k] = string(val)
			case ir.IRBool:
				m[k] = bool(val)
			case ir.IRNull:
				m[k] = nil
			}
		}
		out[i] = m
	}
	return out
}

func i64(n int64) *int64 { return &n }

func userEntity() *ir.EntitySpec {
	e := testutil.UserEntity()
	return &e
}
