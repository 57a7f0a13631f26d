package table

import "errors"

var (
	// ErrUnknownColumn indicates a requested column is not part of the schema.
	ErrUnknownColumn = errors.New("unknown column")
)
