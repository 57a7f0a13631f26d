package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/poiesic/eventide/ai/mock"
	"github.com/poiesic/eventide/document"
	"github.com/poiesic/eventide/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// planarEmbedder maps known texts to fixed 2d vectors so distances are
// predictable. Unknown texts land far away from everything.
func planarEmbedder(vectors map[string][]float32) *mock.MockEmbedder {
	lookup := func(text string) []float32 {
		if v, ok := vectors[text]; ok {
			return v
		}
		return []float32{100, 100}
	}
	return &mock.MockEmbedder{
		EmbedTextFunc: func(_ context.Context, text string) ([]float32, error) {
			return lookup(text), nil
		},
		EmbedTextsFunc: func(_ context.Context, texts []string) ([][]float32, error) {
			out := make([][]float32, len(texts))
			for i, text := range texts {
				out[i] = lookup(text)
			}
			return out, nil
		},
	}
}

func testStore(t *testing.T) *vectorstore.Store {
	t.Helper()

	embedder := planarEmbedder(map[string][]float32{
		"fest-noz à Rennes":    {0, 0},
		"concert à Brest":      {3, 0},
		"exposition à Quimper": {10, 0},
		"musique bretonne":     {1, 0},
	})
	index, err := vectorstore.NewFlatIndex(2)
	require.NoError(t, err)
	store, err := vectorstore.New(embedder, index)
	require.NoError(t, err)

	docs := []document.Document{
		{Content: "fest-noz à Rennes", Metadata: map[string]any{
			"title_fr":     "Fest-noz",
			"canonicalurl": "https://example.com/fest-noz",
		}},
		{Content: "concert à Brest", Metadata: map[string]any{
			"title_fr":     "Concert",
			"canonicalurl": "https://example.com/concert",
		}},
		{Content: "exposition à Quimper", Metadata: map[string]any{}},
	}
	require.NoError(t, store.AddDocuments(context.Background(),
		docs, []string{"ev-1", "ev-2", "ev-3"}))
	return store
}

func TestNewSearcherRequiresStore(t *testing.T) {
	_, err := NewSearcher(nil)
	assert.ErrorIs(t, err, ErrStoreRequired)
}

func TestFindSimilarRanksByDistance(t *testing.T) {
	s, err := NewSearcher(testStore(t))
	require.NoError(t, err)

	hits, err := s.FindSimilar(context.Background(), "musique bretonne", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "ev-1", hits[0].ID)
	assert.Equal(t, "ev-2", hits[1].ID)
	assert.Less(t, hits[0].Score, hits[1].Score)
}

func TestFindSimilarEmptyQuery(t *testing.T) {
	s, err := NewSearcher(testStore(t))
	require.NoError(t, err)

	_, err = s.FindSimilar(context.Background(), "   ", 3)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestNewAssistantValidation(t *testing.T) {
	s, err := NewSearcher(testStore(t))
	require.NoError(t, err)

	_, err = NewAssistant(nil, mock.NewMockCompleter())
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewAssistant(s, nil)
	assert.ErrorIs(t, err, ErrCompleterRequired)
}

func TestAnswerGroundsPromptInSources(t *testing.T) {
	s, err := NewSearcher(testStore(t))
	require.NoError(t, err)
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = func(_ context.Context, _ string) (string, error) {
		return "Je recommande le fest-noz.", nil
	}
	a, err := NewAssistant(s, completer, WithContextSize(2))
	require.NoError(t, err)

	answer, err := a.Answer(context.Background(), "musique bretonne")
	require.NoError(t, err)
	assert.Equal(t, "Je recommande le fest-noz.", answer.Text)
	require.Len(t, answer.Sources, 2)
	assert.Equal(t, "ev-1", answer.Sources[0].ID)

	prompt := completer.LastPrompt()
	assert.Contains(t, prompt, "musique bretonne")
	assert.Contains(t, prompt, "Titre : Fest-noz")
	assert.Contains(t, prompt, "Lien : https://example.com/fest-noz")
	assert.Contains(t, prompt, "fest-noz à Rennes")
	assert.Contains(t, prompt, "réponds à la question suivante en français")
}

func TestAnswerUsesFallbacksForMissingMetadata(t *testing.T) {
	s, err := NewSearcher(testStore(t))
	require.NoError(t, err)
	completer := mock.NewMockCompleter()
	a, err := NewAssistant(s, completer, WithContextSize(3))
	require.NoError(t, err)

	_, err = a.Answer(context.Background(), "exposition à Quimper")
	require.NoError(t, err)
	assert.Contains(t, completer.LastPrompt(), "Titre : Titre inconnu")
	assert.Contains(t, completer.LastPrompt(), "Lien : Non disponible")
}

func TestAnswerCompleterFailure(t *testing.T) {
	s, err := NewSearcher(testStore(t))
	require.NoError(t, err)
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = func(_ context.Context, _ string) (string, error) {
		return "", errors.New("model unavailable")
	}
	a, err := NewAssistant(s, completer)
	require.NoError(t, err)

	_, err = a.Answer(context.Background(), "musique bretonne")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generating recommendation")
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestAnswerSearchFailurePropagates(t *testing.T) {
	embedder := &mock.MockEmbedder{
		EmbedTextFunc: func(_ context.Context, _ string) ([]float32, error) {
			return nil, fmt.Errorf("embedding service down")
		},
	}
	index, err := vectorstore.NewFlatIndex(2)
	require.NoError(t, err)
	store, err := vectorstore.New(embedder, index)
	require.NoError(t, err)
	s, err := NewSearcher(store)
	require.NoError(t, err)
	completer := mock.NewMockCompleter()
	a, err := NewAssistant(s, completer)
	require.NoError(t, err)

	_, err = a.Answer(context.Background(), "musique bretonne")
	require.Error(t, err)
	assert.Zero(t, completer.CallCount())
}
