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


// Package eventide turns public open data events into a searchable
// semantic index. Index is the embedding entry point for applications;
// the per-stage packages (ingest, indexer, search) remain available for
// finer control.
package eventide

import (
	"log/slog"

	"github.com/poiesic/eventide/ai"
	"github.com/poiesic/eventide/ai/openai"
	"github.com/poiesic/eventide/search"
	"github.com/poiesic/eventide/vectorstore"
)

// Index is a saved vector store opened together with its AI provider.
type Index struct {
	store    *vectorstore.Store
	provider ai.AIProvider
	logger   *slog.Logger
}

// IndexOption configures OpenIndex.
type IndexOption func(*indexOptions)

type indexOptions struct {
	aiConfig *ai.Config
}

// WithAIConfig overrides the default AI configuration.
func WithAIConfig(cfg *ai.Config) IndexOption {
	return func(o *indexOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// OpenIndex loads the vector store at path and wires it to an AI
// provider for querying.
func OpenIndex(path string, opts ...IndexOption) (*Index, error) {
	options := &indexOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		return nil, err
	}

	store, err := vectorstore.Load(path, provider.Embedder())
	if err != nil {
		provider.Close()
		return nil, err
	}

	return &Index{
		store:    store,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases the AI provider.
func (ix *Index) Close() error {
	if err := ix.provider.Close(); err != nil {
		ix.logger.Error("error closing AI provider", "err", err)
		return err
	}
	return nil
}

// Store exposes the underlying vector store.
func (ix *Index) Store() *vectorstore.Store {
	return ix.store
}

// NewSearcher creates a searcher over the opened index.
func (ix *Index) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(ix.store, opts...)
}

// NewAssistant creates a recommendation assistant over the opened index.
func (ix *Index) NewAssistant(opts ...search.AssistantOption) (*search.Assistant, error) {
	searcher, err := search.NewSearcher(ix.store)
	if err != nil {
		return nil, err
	}
	return search.NewAssistant(searcher, ix.provider.Completer(), opts...)
}
