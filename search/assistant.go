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
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/eventide/ai"
	"github.com/poiesic/eventide/vectorstore"
)

// DefaultContextSize is the number of events grounding each answer.
const DefaultContextSize = 3

// The assistant answers in French and must stay grounded in the
// retrieved events, so the instructions are French as well.
const answerPrompt = `Tu es un assistant intelligent qui aide à recommander des événements à partir de leurs descriptions.

Voici une liste d'événements susceptible d'intéresser l'utilisateur :

---------------------
%s
---------------------

En te basant uniquement sur ces événements, pas tes connaissances antérieures, réponds à la question suivante en français :
%s

Ta réponse doit être concise, utile et faire référence aux événements les plus pertinents (pas besoin de recopier les descriptions).

Si les événements de la liste ne semblent pas correspondre, ou si la question n'est pas pertinente pour un assistant de recommandation d'événements, précise ta mission et invite l'utilisateur à reformuler sa question.`

// Answer is a grounded response with the events it was based on.
type Answer struct {
	// Text is the generated recommendation.
	Text string

	// Sources are the events given to the model as context.
	Sources []vectorstore.ScoredDocument
}

// Assistant generates event recommendations grounded in search results.
type Assistant struct {
	searcher    *Searcher
	completer   ai.Completer
	contextSize int
	logger      *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*Assistant)

// WithContextSize sets how many events ground each answer.
// Default is DefaultContextSize.
func WithContextSize(n int) AssistantOption {
	return func(a *Assistant) {
		if n > 0 {
			a.contextSize = n
		}
	}
}

// WithAssistantLogger sets a custom logger.
// Default is slog.Default().
func WithAssistantLogger(logger *slog.Logger) AssistantOption {
	return func(a *Assistant) {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
	}
}

// NewAssistant creates an assistant over the given searcher and completer.
func NewAssistant(searcher *Searcher, completer ai.Completer, opts ...AssistantOption) (*Assistant, error) {
	if searcher == nil {
		return nil, ErrStoreRequired
	}
	if completer == nil {
		return nil, ErrCompleterRequired
	}

	a := &Assistant{
		searcher:    searcher,
		completer:   completer,
		contextSize: DefaultContextSize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Answer retrieves the events closest to the question and asks the
// model for a recommendation grounded in them.
func (a *Assistant) Answer(ctx context.Context, question string) (*Answer, error) {
	hits, err := a.searcher.FindSimilar(ctx, question, a.contextSize)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(answerPrompt, formatContext(hits), question)
	text, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		a.logger.Error("error generating recommendation", "err", err)
		return nil, fmt.Errorf("generating recommendation: %w", err)
	}

	return &Answer{Text: text, Sources: hits}, nil
}

// formatContext renders each retrieved event as a titled block with its
// canonical link and content.
func formatContext(hits []vectorstore.ScoredDocument) string {
	blocks := make([]string, 0, len(hits))
	for _, hit := range hits {
		var b strings.Builder
		fmt.Fprintf(&b, "Titre : %s\n", metadataString(hit, "title_fr", "Titre inconnu"))
		fmt.Fprintf(&b, "Lien : %s\n\n", metadataString(hit, "canonicalurl", "Non disponible"))
		b.WriteString(hit.Document.Content)
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

func metadataString(hit vectorstore.ScoredDocument, key, fallback string) string {
	value, ok := hit.Document.Metadata[key].(string)
	if !ok || value == "" {
		return fallback
	}
	return value
}
