// Package document turns a tabular event batch into retrieval units.
//
// A document pairs the concatenated text of the designated content
// columns with the remaining columns as metadata. Identifier resolution
// lives here too: either a stable id column extracted by the caller, or
// synthesized UUIDs for tables without one. The produced document and
// identifier sequences are always positionally aligned.
package document
