package opendata

import "errors"

var (
	// ErrBaseURLRequired is returned when the API base URL is not configured.
	ErrBaseURLRequired = errors.New("base URL required")

	// ErrEndpointRequired is returned when the dataset endpoint is not configured.
	ErrEndpointRequired = errors.New("endpoint required")
)
