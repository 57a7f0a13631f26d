// Package indexer builds a searchable vector store from a persisted
// event table: rows become documents, documents become embeddings, and
// the result is saved to disk for later similarity search.
package indexer
