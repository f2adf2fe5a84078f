// Package ir provides the foundational value and metadata types shared by
// every other package.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps ir the bottom layer with
// no circular dependencies.
//
// Two families of types live here:
//   - IRValue: the sealed set of literal values a predicate may compare
//     against or a row may carry (null, string, int, bool, array, object).
//   - EntitySpec / ColumnSpec / ColumnRef: the entity/column metadata model.
//     The optimizer only needs a column's identity, its database name and its
//     declared type; everything else about an entity is opaque to it.
//
// Key design constraints:
//   - NO float types anywhere - numbers are int64
//   - Row values are IRObject keyed by column name
//   - ColumnRef is comparable and is the identity used for ORDER BY
//     de-duplication
package ir
