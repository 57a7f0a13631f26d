// Package table persists the accepted event batch as a parquet file and
// loads it back as a generic column/row table.
//
// The schema is declared once through struct tags rather than inferred
// from the data; writing and loading therefore always agree on column
// names and types. The generic Table form exists for the document
// builder, which selects and drops columns by name.
package table
