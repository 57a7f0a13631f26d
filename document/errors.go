package document

import "errors"

var (
	// ErrMissingColumns indicates content columns absent from the table.
	ErrMissingColumns = errors.New("missing columns")
)
