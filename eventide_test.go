package eventide

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/poiesic/eventide/ai/mock"
	"github.com/poiesic/eventide/document"
	"github.com/poiesic/eventide/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func savedStore(t *testing.T) string {
	t.Helper()

	embedder := mock.NewMockEmbedder()
	index, err := vectorstore.NewFlatIndex(32)
	require.NoError(t, err)
	store, err := vectorstore.New(embedder, index)
	require.NoError(t, err)

	docs := []document.Document{
		{Content: "fest-noz à Rennes", Metadata: map[string]any{"title_fr": "Fest-noz"}},
		{Content: "concert à Brest", Metadata: map[string]any{"title_fr": "Concert"}},
	}
	require.NoError(t, store.AddDocuments(context.Background(), docs, []string{"ev-1", "ev-2"}))

	path := filepath.Join(t.TempDir(), "vectors")
	require.NoError(t, store.Save(path))
	return path
}

func TestOpenIndex(t *testing.T) {
	path := savedStore(t)

	ix, err := OpenIndex(path)
	require.NoError(t, err)
	defer ix.Close()

	assert.Equal(t, 2, ix.Store().Len())
	assert.ElementsMatch(t, []string{"ev-1", "ev-2"}, ix.Store().IDs())

	searcher, err := ix.NewSearcher()
	require.NoError(t, err)
	assert.NotNil(t, searcher)

	assistant, err := ix.NewAssistant()
	require.NoError(t, err)
	assert.NotNil(t, assistant)
}

func TestOpenIndexMissingStore(t *testing.T) {
	_, err := OpenIndex(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}

func TestOpenIndexClose(t *testing.T) {
	ix, err := OpenIndex(savedStore(t))
	require.NoError(t, err)
	assert.NoError(t, ix.Close())
}
