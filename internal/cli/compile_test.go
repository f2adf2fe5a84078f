package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhafizyusof/speedment/internal/ir"
)

func TestCompileText(t *testing.T) {
	out, err := execute(t, "compile", specsDir)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Compiled 2 entity(ies)")
	assert.Contains(t, out, "User → users: id int pk, name string, age int?, active bool, createdAt int (created_at)")
	assert.Contains(t, out, "Order → orders: id int pk, userId int (user_id), total int, status string")
}

func TestCompileDefaultsToSpecsFlag(t *testing.T) {
	out, err := execute(t, "compile", "--specs", specsDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Compiled 2 entity(ies)")
}

func TestCompileNoDirectory(t *testing.T) {
	_, err := execute(t, "compile")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "specs directory required")
}

func TestCompileJSON(t *testing.T) {
	out, err := execute(t, "compile", specsDir, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string            `json:"status"`
		Data   CompilationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Entities, 2)
}

func TestCompileOutputFile(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "catalog.json")

	out, err := execute(t, "compile", specsDir, "-o", outFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote entity schemas to "+outFile)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)

	var result CompilationResult
	require.NoError(t, json.Unmarshal(data, &result))

	var user *ir.EntitySpec
	for i := range result.Entities {
		if result.Entities[i].Name == "User" {
			user = &result.Entities[i]
		}
	}
	require.NotNil(t, user)
	assert.Equal(t, "users", user.Table)
	require.Len(t, user.Columns, 5)
	assert.Equal(t, ir.ColumnSpec{Name: "age", Type: ir.ColumnInt, Nullable: true}, user.Columns[2])
	assert.Equal(t, "created_at", user.Columns[4].DBName)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		wantCode string
	}{
		{
			name: "missing_table",
			files: map[string]string{"bad.cue": `package specs

entity: Bad: columns: id: int
`},
			wantCode: ErrCodeEntityTable,
		},
		{
			name: "no_columns",
			files: map[string]string{"bad.cue": `package specs

entity: Bad: {
	table: "bad"
	columns: {}
}
`},
			wantCode: ErrCodeEntityColumns,
		},
		{
			name: "float_column",
			files: map[string]string{"bad.cue": `package specs

entity: Bad: {
	table: "bad"
	columns: price: float
}
`},
			wantCode: ErrCodeInvalidType,
		},
		{
			name: "duplicate_table",
			files: map[string]string{
				"a.cue": `package specs

entity: A: {
	table: "things"
	columns: id: int
}
`,
				"b.cue": `package specs

entity: B: {
	table: "things"
	columns: id: int
}
`,
			},
			wantCode: "E110",
		},
		{
			name:     "no_entities",
			files:    map[string]string{"empty.cue": "package specs\n"},
			wantCode: ErrCodeNoEntities,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, dir, name, content)
			}

			out, err := execute(t, "compile", dir)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, tt.wantCode)
		})
	}
}

func TestCompileCollectsAllErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.cue", `package specs

entity: A: columns: id: int
entity: B: columns: id: int
`)

	out, err := execute(t, "compile", dir, "--format", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compilation failed with 2 error(s)")

	var resp struct {
		Status string     `json:"status"`
		Error  *CLIError  `json:"error"`
		Data   []CLIError `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.Len(t, resp.Data, 2)
	for _, e := range resp.Data {
		assert.Equal(t, ErrCodeEntityTable, e.Code)
	}
}

func TestCompileDirectoryErrors(t *testing.T) {
	tests := []struct {
		name     string
		dir      func(t *testing.T) string
		wantCode string
	}{
		{"not_found", func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing") }, ErrCodeNotFound},
		{"no_cue_files", func(t *testing.T) string { return t.TempDir() }, ErrCodeNoFiles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "compile", tt.dir(t))
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.wantCode+"]")
		})
	}
}

func TestDescribeColumns(t *testing.T) {
	entity := ir.EntitySpec{
		Name:  "Order",
		Table: "orders",
		Columns: []ir.ColumnSpec{
			{Name: "id", Type: ir.ColumnInt, Primary: true},
			{Name: "note", Type: ir.ColumnString, Nullable: true},
			{Name: "userId", DBName: "user_id", Type: ir.ColumnInt},
			{Name: "total", DBName: "total", Type: ir.ColumnInt},
		},
	}
	assert.Equal(t, "id int pk, note string?, userId int (user_id), total int", describeColumns(entity))
}
