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


package vectorstore

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-crypt/x/blake2b"
	"github.com/poiesic/eventide/ai"
	"github.com/poiesic/eventide/document"
)

const (
	indexFile    = "index.bin"
	manifestFile = "manifest.json"
	docstoreDir  = "docstore"
)

// manifest describes the persisted artifacts and carries an integrity
// checksum over the index file.
type manifest struct {
	Dimension int    `json:"dimension"`
	Count     int    `json:"count"`
	Checksum  string `json:"checksum"`
}

// ScoredDocument is one similarity-search result.
type ScoredDocument struct {
	ID       string
	Document document.Document
	Score    float32
}

// Store combines a flat vector index with an id mapping and a document
// store, behind an injected embedder. For one batch it is write-only:
// documents are inserted once under explicit ids and the whole store is
// then persisted as a unit. There is no incremental merge with a
// pre-existing store.
type Store struct {
	embedder ai.Embedder
	index    *FlatIndex
	ids      []string
	docs     []document.Document
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// New creates a store over an existing (usually empty) index.
func New(embedder ai.Embedder, index *FlatIndex, opts ...Option) (*Store, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}

	s := &Store{
		embedder: embedder,
		index:    index,
		logger:   slog.Default().With("component", "vectorstore"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	return len(s.docs)
}

// IDs returns the stored identifiers in insertion order.
func (s *Store) IDs() []string {
	return slices.Clone(s.ids)
}

// AddDocuments embeds the documents' contents in one batch call and
// inserts the vectors under the aligned ids. The two sequences must
// have equal length; a mismatch is an invariant violation and nothing
// is inserted.
func (s *Store) AddDocuments(ctx context.Context, docs []document.Document, ids []string) error {
	if len(docs) != len(ids) {
		return fmt.Errorf("%w: %d documents, %d ids", ErrCountMismatch, len(docs), len(ids))
	}
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	s.logger.Debug("generating embeddings for documents", "count", len(texts))
	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(docs), len(vectors))
	}

	if err := s.index.Add(vectors); err != nil {
		return err
	}
	s.ids = append(s.ids, ids...)
	s.docs = append(s.docs, docs...)
	return nil
}

// SimilaritySearch embeds the query and returns the k nearest documents,
// closest first. Scores are squared L2 distances.
func (s *Store) SimilaritySearch(ctx context.Context, query string, k int) ([]ScoredDocument, error) {
	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	matches, err := s.index.Search(vector, k)
	if err != nil {
		return nil, err
	}

	results := make([]ScoredDocument, len(matches))
	for i, match := range matches {
		results[i] = ScoredDocument{
			ID:       s.ids[match.Position],
			Document: s.docs[match.Position],
			Score:    match.Distance,
		}
	}
	return results, nil
}

// Save persists the store under path as three co-located artifacts: the
// MUS-encoded index with its id mapping, a manifest with a BLAKE2b
// checksum of the index bytes, and a Badger docstore mapping each id to
// its JSON document. Existing artifacts at path are overwritten.
func (s *Store) Save(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("creating store directory %s: %w", path, err)
	}

	data := marshalIndex(s.index, s.ids)
	if err := os.WriteFile(filepath.Join(path, indexFile), data, 0o644); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}

	m := manifest{
		Dimension: s.index.Dim(),
		Count:     len(s.ids),
		Checksum:  checksum(data),
	}
	encoded, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(path, manifestFile), encoded, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	if err := s.saveDocstore(filepath.Join(path, docstoreDir)); err != nil {
		return err
	}

	s.logger.Info("vector store saved", "path", path, "documents", len(s.docs))
	return nil
}

// Load reads a persisted store back, verifying the manifest checksum
// before trusting the index bytes.
func Load(path string, embedder ai.Embedder, opts ...Option) (*Store, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	encoded, err := os.ReadFile(filepath.Join(path, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(encoded, &m); err != nil {
		return nil, fmt.Errorf("%w: decoding manifest: %w", ErrCorruptStore, err)
	}

	data, err := os.ReadFile(filepath.Join(path, indexFile))
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}
	if got := checksum(data); got != m.Checksum {
		return nil, fmt.Errorf("%w: index checksum %s does not match manifest %s",
			ErrCorruptStore, got, m.Checksum)
	}

	index, ids, err := unmarshalIndex(data)
	if err != nil {
		return nil, err
	}
	if index.Dim() != m.Dimension || len(ids) != m.Count {
		return nil, fmt.Errorf("%w: index shape %dx%d does not match manifest %dx%d",
			ErrCorruptStore, len(ids), index.Dim(), m.Count, m.Dimension)
	}

	s, err := New(embedder, index, opts...)
	if err != nil {
		return nil, err
	}
	s.ids = ids

	if err := s.loadDocstore(filepath.Join(path, docstoreDir)); err != nil {
		return nil, err
	}
	return s, nil
}

// saveDocstore writes id -> JSON document pairs into a Badger database.
// Duplicate ids collapse to the last written document.
func (s *Store) saveDocstore(path string) error {
	db, err := openDocstore(path, s.logger)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(func(txn *badger.Txn) error {
		for i, id := range s.ids {
			encoded, err := json.Marshal(s.docs[i])
			if err != nil {
				return fmt.Errorf("encoding document %s: %w", id, err)
			}
			if err := txn.Set([]byte(id), encoded); err != nil {
				return fmt.Errorf("writing document %s: %w", id, err)
			}
		}
		return nil
	})
}

// loadDocstore rebuilds the position-aligned document list from the
// persisted id mapping.
func (s *Store) loadDocstore(path string) error {
	db, err := openDocstore(path, s.logger)
	if err != nil {
		return err
	}
	defer db.Close()

	s.docs = make([]document.Document, len(s.ids))
	return db.View(func(txn *badger.Txn) error {
		for i, id := range s.ids {
			item, err := txn.Get([]byte(id))
			if err != nil {
				return fmt.Errorf("%w: document %s missing from docstore", ErrCorruptStore, id)
			}
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &s.docs[i])
			}); err != nil {
				return fmt.Errorf("%w: decoding document %s: %w", ErrCorruptStore, id, err)
			}
		}
		return nil
	})
}

func checksum(data []byte) string {
	h, _ := blake2b.New(32, nil)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
