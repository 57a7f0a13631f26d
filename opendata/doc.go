// Package opendata is the fetch collaborator for the ingestion pipeline.
//
// It exposes a thin HTTP client over the OpenDataSoft explore API: one
// filtered export request per ingestion run, constrained by region, a
// date window, and a record limit. Responses are surfaced as untyped
// core.RawRecord values for the validator to classify; the client itself
// performs no validation.
package opendata
