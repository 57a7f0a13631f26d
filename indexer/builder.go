// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/poiesic/eventide/ai"
	"github.com/poiesic/eventide/document"
	"github.com/poiesic/eventide/table"
	"github.com/poiesic/eventide/vectorstore"
)

// probeText is embedded once per build to discover the model's vector
// dimension before any document is processed.
const probeText = "hello world"

// DefaultIDColumn names the identifier column of the upstream dataset.
// Callers designate it explicitly; an empty Config.IDColumn synthesizes
// identifiers instead.
const DefaultIDColumn = "uid"

// DefaultContentColumns are the table columns concatenated into each
// document's content, in this order.
var DefaultContentColumns = []string{
	"title_fr",
	"longdescription_fr",
	"description_fr",
	"conditions_fr",
}

// Config controls how a table is turned into documents.
type Config struct {
	// ContentColumns are joined into the document content.
	// Default: DefaultContentColumns.
	ContentColumns []string

	// IDColumn designates the table column supplying document
	// identifiers. Empty means no column is designated and fresh UUIDs
	// are synthesized per row. A designated column absent from the
	// table is an error.
	IDColumn string
}

// Report summarizes a completed index build.
type Report struct {
	// Documents is the number of documents embedded and stored.
	Documents int

	// Dimension is the embedding dimension of the built index.
	Dimension int
}

// Builder turns a persisted event table into a saved vector store.
type Builder struct {
	embedder       ai.Embedder
	contentColumns []string
	idColumn       string
	logger         *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger.With("component", "indexer")
	}
}

// NewBuilder creates a builder around the given embedder.
func NewBuilder(embedder ai.Embedder, cfg Config, opts ...Option) (*Builder, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if cfg.ContentColumns == nil {
		cfg.ContentColumns = DefaultContentColumns
	}
	if len(cfg.ContentColumns) == 0 {
		return nil, ErrContentColumnsRequired
	}
	b := &Builder{
		embedder:       embedder,
		contentColumns: cfg.ContentColumns,
		idColumn:       cfg.IDColumn,
		logger:         slog.Default().With("component", "indexer"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Build loads the table at source, embeds its rows as documents and
// saves the resulting vector store under destination.
//
// Duplicate identifiers in the id column are reported but not fatal;
// every row is still embedded and indexed.
func (b *Builder) Build(ctx context.Context, source, destination string) (*Report, error) {
	if _, err := os.Stat(source); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, source)
	}
	tbl, err := table.Load(source)
	if err != nil {
		return nil, fmt.Errorf("loading table %s: %w", source, err)
	}
	if tbl.IsEmpty() {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTable, source)
	}

	probe, err := b.embedder.EmbedText(ctx, probeText)
	if err != nil {
		return nil, fmt.Errorf("probing embedding dimension: %w", err)
	}
	index, err := vectorstore.NewFlatIndex(len(probe))
	if err != nil {
		return nil, err
	}

	ids, tbl, err := b.resolveIDs(tbl)
	if err != nil {
		return nil, err
	}

	docs, err := document.FromTable(tbl, b.contentColumns)
	if err != nil {
		return nil, fmt.Errorf("building documents from %s: %w", source, err)
	}

	store, err := vectorstore.New(b.embedder, index, vectorstore.WithLogger(b.logger))
	if err != nil {
		return nil, err
	}
	b.logger.Info("embedding documents", "count", len(docs), "dimension", len(probe))
	if err := store.AddDocuments(ctx, docs, ids); err != nil {
		return nil, err
	}
	if err := store.Save(destination); err != nil {
		return nil, err
	}
	b.logger.Info("vector store saved", "path", destination, "documents", len(docs))

	return &Report{Documents: len(docs), Dimension: len(probe)}, nil
}

// resolveIDs extracts identifiers from the designated id column, or
// generates fresh UUIDs when no column is designated. The id column is
// dropped from the returned table so it never leaks into document
// content or metadata. A designated column missing from the table is
// an error, never silently replaced by synthesis.
func (b *Builder) resolveIDs(tbl *table.Table) ([]string, *table.Table, error) {
	if b.idColumn == "" {
		return document.NewIDs(tbl.Len()), tbl, nil
	}
	if !tbl.HasColumn(b.idColumn) {
		return nil, nil, fmt.Errorf("%w: %q", ErrIDColumnNotFound, b.idColumn)
	}
	ids, err := tbl.ColumnStrings(b.idColumn)
	if err != nil {
		return nil, nil, err
	}
	if dups := document.CountDuplicates(ids); dups > 0 {
		b.logger.Warn("id column holds duplicate values",
			"column", b.idColumn, "total", len(ids), "unique", len(ids)-dups)
	}
	return ids, tbl.Drop(b.idColumn), nil
}
