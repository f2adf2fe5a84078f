package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectCapabilities(t *testing.T) {
	tests := []struct {
		name    string
		support SkipLimitSupport
		quoted  string
		ph      string
	}{
		{"ansi", Unsupported, `"a""b"`, "?"},
		{"mysql", Full, "`a\"b`", "?"},
		{"oracle", Full, `"a""b"`, ":2"},
		{"postgres", Full, `"a""b"`, "$2"},
		{"sqlite", Full, `"a""b"`, "?"},
		{"sqlserver", OnlyAfterSort, `[a"b]`, "@p2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := DialectByName(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.name, d.Name())
			assert.Equal(t, tt.support, d.SkipLimitSupport())
			assert.Equal(t, tt.quoted, d.QuoteIdentifier(`a"b`))
			assert.Equal(t, tt.ph, d.Placeholder(2))
		})
	}
}

func TestDialectByNameAliases(t *testing.T) {
	for alias, want := range map[string]string{
		"sqlite3":    "sqlite",
		"PostgreSQL": "postgres",
		"mssql":      "sqlserver",
		"godror":     "oracle",
		" generic ":  "ansi",
	} {
		d, err := DialectByName(alias)
		require.NoError(t, err, alias)
		assert.Equal(t, want, d.Name())
	}

	_, err := DialectByName("db2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown dialect")
}

func TestDialectNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"ansi", "mysql", "oracle", "postgres", "sqlite", "sqlserver"}, DialectNames())
	assert.Len(t, Dialects(), 6)
}

func TestSkipLimitSupportString(t *testing.T) {
	assert.Equal(t, "unsupported", Unsupported.String())
	assert.Equal(t, "only_after_sort", OnlyAfterSort.String())
	assert.Equal(t, "full", Full.String())
	assert.Equal(t, "SkipLimitSupport(9)", SkipLimitSupport(9).String())
}

func TestSkipLimitSupportValid(t *testing.T) {
	for _, s := range []SkipLimitSupport{Unsupported, OnlyAfterSort, Full} {
		assert.True(t, s.Valid(), s.String())
	}
	assert.False(t, SkipLimitSupport(9).Valid())
	assert.False(t, SkipLimitSupport(-1).Valid())
}

func TestApplySkipLimit(t *testing.T) {
	const base = "SELECT * FROM t WHERE a = ?"

	tests := []struct {
		dialect     string
		skip, limit int64
		wantSQL     string
		wantValues  []any
	}{
		{"sqlite", 0, NoLimit, base, []any{"x"}},
		{"sqlite", 5, 10, base + " LIMIT ? OFFSET ?", []any{"x", int64(10), int64(5)}},
		{"sqlite", 0, 10, base + " LIMIT ?", []any{"x", int64(10)}},
		{"sqlite", 5, NoLimit, base + " LIMIT -1 OFFSET ?", []any{"x", int64(5)}},

		{"mysql", 5, 10, base + " LIMIT ? OFFSET ?", []any{"x", int64(10), int64(5)}},
		{"mysql", 5, NoLimit, base + " LIMIT 18446744073709551615 OFFSET ?", []any{"x", int64(5)}},

		{"postgres", 5, 10, base + " LIMIT $2 OFFSET $3", []any{"x", int64(10), int64(5)}},
		{"postgres", 0, 10, base + " LIMIT $2", []any{"x", int64(10)}},
		{"postgres", 5, NoLimit, base + " OFFSET $2", []any{"x", int64(5)}},

		{"sqlserver", 5, 10, base + " OFFSET @p2 ROWS FETCH NEXT @p3 ROWS ONLY", []any{"x", int64(5), int64(10)}},
		{"sqlserver", 0, 10, base + " OFFSET @p2 ROWS FETCH NEXT @p3 ROWS ONLY", []any{"x", int64(0), int64(10)}},
		{"sqlserver", 0, NoLimit, base, []any{"x"}},

		{"oracle", 5, 10, base + " OFFSET :2 ROWS FETCH NEXT :3 ROWS ONLY", []any{"x", int64(5), int64(10)}},
		{"oracle", 0, 10, base + " FETCH NEXT :2 ROWS ONLY", []any{"x", int64(10)}},

		{"ansi", 5, 10, base, []any{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.dialect+"/"+tt.wantSQL, func(t *testing.T) {
			d, err := DialectByName(tt.dialect)
			require.NoError(t, err)

			sql, values := d.ApplySkipLimit(base, []any{"x"}, tt.skip, tt.limit)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantValues, values)
		})
	}
}
