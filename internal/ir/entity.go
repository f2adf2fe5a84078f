package ir

import "fmt"

// ColumnType is the declared type of an entity column.
type ColumnType string

const (
	ColumnInt    ColumnType = "int"
	ColumnString ColumnType = "string"
	ColumnBool   ColumnType = "bool"
)

// ValidColumnTypes defines allowed column types.
var ValidColumnTypes = map[ColumnType]bool{
	ColumnInt:    true,
	ColumnString: true,
	ColumnBool:   true,
}

// ColumnRef identifies one column of one entity.
//
// ColumnRef is comparable and is the column identity used throughout the
// optimizer: two predicates or comparators refer to "the same column" iff
// their ColumnRefs are equal.
type ColumnRef struct {
	Entity string `json:"entity"`
	Column string `json:"column"`
}

// String returns "Entity.column".
func (r ColumnRef) String() string {
	return r.Entity + "." + r.Column
}

// ColumnSpec describes one column of an entity.
type ColumnSpec struct {
	Name     string     `json:"name"`              // Logical name used in pipelines and rows
	DBName   string     `json:"db_name,omitempty"` // Database column name (defaults to Name)
	Type     ColumnType `json:"type"`
	Nullable bool       `json:"nullable,omitempty"`
	Primary  bool       `json:"primary,omitempty"`
}

// DatabaseName returns the column's name in the database.
func (c ColumnSpec) DatabaseName() string {
	if c.DBName != "" {
		return c.DBName
	}
	return c.Name
}

// EntitySpec describes an entity collection backed by one table.
type EntitySpec struct {
	Name    string       `json:"name"`
	Table   string       `json:"table"`
	Columns []ColumnSpec `json:"columns"` // Declaration order is SELECT order
}

// Column looks up a column by logical name.
func (e *EntitySpec) Column(name string) (ColumnSpec, bool) {
	for _, c := range e.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

// Ref returns the ColumnRef for a column of this entity.
// Returns an error if the entity has no such column.
func (e *EntitySpec) Ref(column string) (ColumnRef, error) {
	if _, ok := e.Column(column); !ok {
		return ColumnRef{}, fmt.Errorf("entity %s has no column %q", e.Name, column)
	}
	return ColumnRef{Entity: e.Name, Column: column}, nil
}

// MustRef is like Ref but panics on an unknown column. Intended for tests
// and statically known schemas.
func (e *EntitySpec) MustRef(column string) ColumnRef {
	ref, err := e.Ref(column)
	if err != nil {
		panic(err)
	}
	return ref
}

// Catalog indexes entity specs by name.
type Catalog map[string]*EntitySpec

// NewCatalog builds a catalog from specs. Later specs with a duplicate name
// replace earlier ones.
func NewCatalog(specs ...EntitySpec) Catalog {
	c := make(Catalog, len(specs))
	for i := range specs {
		spec := specs[i]
		c[spec.Name] = &spec
	}
	return c
}

// Entity looks up an entity by name.
func (c Catalog) Entity(name string) (*EntitySpec, bool) {
	e, ok := c[name]
	return e, ok
}

// ColumnSpecFor resolves a ColumnRef against the catalog.
func (c Catalog) ColumnSpecFor(ref ColumnRef) (ColumnSpec, bool) {
	e, ok := c[ref.Entity]
	if !ok {
		return ColumnSpec{}, false
	}
	return e.Column(ref.Column)
}
