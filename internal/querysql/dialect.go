package querysql

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// NoLimit is the "no limit" sentinel passed to ApplySkipLimit when no
// limit operation was pushed down.
const NoLimit int64 = math.MaxInt64

// SkipLimitSupport declares how a backend supports SQL-level skip/limit.
type SkipLimitSupport int

const (
	// Unsupported means skip/limit are never pushed down.
	Unsupported SkipLimitSupport = iota
	// OnlyAfterSort means skip/limit may be pushed down only together with
	// at least one ORDER BY column.
	OnlyAfterSort
	// Full means skip/limit are always pushable.
	Full
)

// Valid reports whether s is one of the declared support levels.
func (s SkipLimitSupport) Valid() bool {
	return s >= Unsupported && s <= Full
}

func (s SkipLimitSupport) String() string {
	switch s {
	case Unsupported:
		return "unsupported"
	case OnlyAfterSort:
		return "only_after_sort"
	case Full:
		return "full"
	default:
		return fmt.Sprintf("SkipLimitSupport(%d)", int(s))
	}
}

// Dialect is the backend-specific part of SQL generation.
type Dialect interface {
	// Name is the canonical dialect name (e.g. "sqlite").
	Name() string

	// SkipLimitSupport is the backend's capability descriptor.
	SkipLimitSupport() SkipLimitSupport

	// QuoteIdentifier quotes a table or column name.
	QuoteIdentifier(name string) string

	// Placeholder returns the bind marker for the n-th (1-based) parameter.
	Placeholder(n int) string

	// ApplySkipLimit appends the dialect's skip/limit syntax to sql.
	// limit == NoLimit means no limit; skip == 0 means no offset. The
	// returned values extend values with any bound skip/limit parameters.
	ApplySkipLimit(sql string, values []any, skip, limit int64) (string, []any)
}

// commonDialect holds what every dialect shares.
type commonDialect struct {
	name        string
	support     SkipLimitSupport
	quote       func(string) string
	placeholder func(int) string
}

func (d *commonDialect) Name() string                       { return d.name }
func (d *commonDialect) SkipLimitSupport() SkipLimitSupport { return d.support }
func (d *commonDialect) QuoteIdentifier(name string) string { return d.quote(name) }
func (d *commonDialect) Placeholder(n int) string           { return d.placeholder(n) }

// ApplySkipLimit for the generic dialect leaves the statement untouched:
// a backend without skip/limit support never gets them pushed down.
func (d *commonDialect) ApplySkipLimit(sql string, values []any, skip, limit int64) (string, []any) {
	return sql, values
}

func doubleQuote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func backtickQuote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func bracketQuote(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func questionMark(int) string { return "?" }

// SQLiteDialect renders LIMIT ? OFFSET ?. SQLite needs a LIMIT clause
// before OFFSET, so an offset without a limit uses LIMIT -1.
type SQLiteDialect struct {
	*commonDialect
}

// NewSQLiteDialect creates the SQLite dialect.
func NewSQLiteDialect() Dialect {
	return &SQLiteDialect{&commonDialect{name: "sqlite", support: Full, quote: doubleQuote, placeholder: questionMark}}
}

func (d *SQLiteDialect) ApplySkipLimit(sql string, values []any, skip, limit int64) (string, []any) {
	if skip == 0 && limit == NoLimit {
		return sql, values
	}
	if limit == NoLimit {
		return sql + " LIMIT -1 OFFSET ?", append(values, skip)
	}
	if skip == 0 {
		return sql + " LIMIT ?", append(values, limit)
	}
	return sql + " LIMIT ? OFFSET ?", append(values, limit, skip)
}

// MySQLDialect renders LIMIT ? OFFSET ?. MySQL has no "unlimited" keyword;
// the documented idiom is the largest unsigned BIGINT.
type MySQLDialect struct {
	*commonDialect
}

// NewMySQLDialect creates the MySQL dialect.
func NewMySQLDialect() Dialect {
	return &MySQLDialect{&commonDialect{name: "mysql", support: Full, quote: backtickQuote, placeholder: questionMark}}
}

func (d *MySQLDialect) ApplySkipLimit(sql string, values []any, skip, limit int64) (string, []any) {
	if skip == 0 && limit == NoLimit {
		return sql, values
	}
	if limit == NoLimit {
		return sql + " LIMIT 18446744073709551615 OFFSET ?", append(values, skip)
	}
	if skip == 0 {
		return sql + " LIMIT ?", append(values, limit)
	}
	return sql + " LIMIT ? OFFSET ?", append(values, limit, skip)
}

// PostgresDialect renders LIMIT $n OFFSET $m with numbered placeholders.
type PostgresDialect struct {
	*commonDialect
}

// NewPostgresDialect creates the PostgreSQL dialect.
func NewPostgresDialect() Dialect {
	return &PostgresDialect{&commonDialect{
		name:        "postgres",
		support:     Full,
		quote:       doubleQuote,
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	}}
}

func (d *PostgresDialect) ApplySkipLimit(sql string, values []any, skip, limit int64) (string, []any) {
	if limit != NoLimit {
		values = append(values, limit)
		sql += " LIMIT " + d.Placeholder(len(values))
	}
	if skip > 0 {
		values = append(values, skip)
		sql += " OFFSET " + d.Placeholder(len(values))
	}
	return sql, values
}

// SQLServerDialect renders OFFSET ... ROWS FETCH NEXT ... ROWS ONLY, which
// SQL Server only accepts after ORDER BY.
type SQLServerDialect struct {
	*commonDialect
}

// NewSQLServerDialect creates the SQL Server dialect.
func NewSQLServerDialect() Dialect {
	return &SQLServerDialect{&commonDialect{
		name:        "sqlserver",
		support:     OnlyAfterSort,
		quote:       bracketQuote,
		placeholder: func(n int) string { return "@p" + strconv.Itoa(n) },
	}}
}

func (d *SQLServerDialect) ApplySkipLimit(sql string, values []any, skip, limit int64) (string, []any) {
	if skip == 0 && limit == NoLimit {
		return sql, values
	}
	// FETCH requires a preceding OFFSET, even OFFSET 0
	values = append(values, skip)
	sql += " OFFSET " + d.Placeholder(len(values)) + " ROWS"
	if limit != NoLimit {
		values = append(values, limit)
		sql += " FETCH NEXT " + d.Placeholder(len(values)) + " ROWS ONLY"
	}
	return sql, values
}

// OracleDialect renders the 12c row limiting clause.
type OracleDialect struct {
	*commonDialect
}

// NewOracleDialect creates the Oracle dialect.
func NewOracleDialect() Dialect {
	return &OracleDialect{&commonDialect{
		name:        "oracle",
		support:     Full,
		quote:       doubleQuote,
		placeholder: func(n int) string { return ":" + strconv.Itoa(n) },
	}}
}

func (d *OracleDialect) ApplySkipLimit(sql string, values []any, skip, limit int64) (string, []any) {
	if skip > 0 {
		values = append(values, skip)
		sql += " OFFSET " + d.Placeholder(len(values)) + " ROWS"
	}
	if limit != NoLimit {
		values = append(values, limit)
		sql += " FETCH NEXT " + d.Placeholder(len(values)) + " ROWS ONLY"
	}
	return sql, values
}

// NewANSIDialect creates a generic dialect with no skip/limit support.
func NewANSIDialect() Dialect {
	return &commonDialect{name: "ansi", support: Unsupported, quote: doubleQuote, placeholder: questionMark}
}

var dialectFactories = map[string]func() Dialect{
	"sqlite":    NewSQLiteDialect,
	"mysql":     NewMySQLDialect,
	"postgres":  NewPostgresDialect,
	"sqlserver": NewSQLServerDialect,
	"oracle":    NewOracleDialect,
	"ansi":      NewANSIDialect,
}

var dialectAliases = map[string]string{
	"sqlite3":    "sqlite",
	"postgresql": "postgres",
	"pgsql":      "postgres",
	"pgx":        "postgres",
	"mssql":      "sqlserver",
	"godror":     "oracle",
	"generic":    "ansi",
}

// DialectByName returns the dialect registered under name or one of its
// driver aliases (case-insensitive).
func DialectByName(name string) (Dialect, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := dialectAliases[key]; ok {
		key = alias
	}
	factory, ok := dialectFactories[key]
	if !ok {
		return nil, fmt.Errorf("unknown dialect %q: must be one of %v", name, DialectNames())
	}
	return factory(), nil
}

// DialectNames returns the canonical dialect names in sorted order.
func DialectNames() []string {
	names := make([]string, 0, len(dialectFactories))
	for name := range dialectFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dialects returns one instance of every dialect, sorted by name.
func Dialects() []Dialect {
	names := DialectNames()
	out := make([]Dialect, len(names))
	for i, name := range names {
		out[i] = dialectFactories[name]()
	}
	return out
}
