// Package ingest orchestrates one batch ingestion run.
//
// A run fetches raw event records through the injected Fetcher,
// classifies each one with the core validator, optionally writes the
// rejected set as a line-delimited JSON log, and persists the accepted
// set as a parquet table. Per-record rejections never abort the batch;
// transport failures and an empty fetch do.
package ingest
