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


package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/eventide/vectorstore"
)

// Searcher provides semantic search over an event vector store.
type Searcher struct {
	store  *vectorstore.Store
	logger *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewSearcher creates a new searcher over the given store.
func NewSearcher(store *vectorstore.Store, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	s := &Searcher{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// FindSimilar searches for events similar to the query.
// Returns up to maxHits results, ranked by ascending distance.
func (s *Searcher) FindSimilar(ctx context.Context, query string, maxHits int) ([]vectorstore.ScoredDocument, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	hits, err := s.store.SimilaritySearch(ctx, query, maxHits)
	if err != nil {
		s.logger.Error("error searching for similar events", "query", query, "err", err)
		return nil, err
	}
	s.logger.Debug("similarity search complete", "query", query, "hits", len(hits))
	return hits, nil
}
