package ingest

import "errors"

var (
	// ErrFetcherRequired is returned when a pipeline is created without a fetcher.
	ErrFetcherRequired = errors.New("fetcher required")

	// ErrErrorFileRequired is returned when error writing is enabled
	// without a rejection log path.
	ErrErrorFileRequired = errors.New("error file path required")

	// ErrNoData indicates the fetch returned zero raw records. This is
	// fatal to the run, distinct from validation rejecting every record.
	ErrNoData = errors.New("the API call did not return any data")
)
