package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFlatIndexRejectsInvalidDimension(t *testing.T) {
	for _, dim := range []int{0, -1} {
		_, err := NewFlatIndex(dim)
		assert.ErrorIs(t, err, ErrInvalidDimension)
	}
}

func TestFlatIndexAddChecksDimensions(t *testing.T) {
	ix, err := NewFlatIndex(3)
	require.NoError(t, err)

	require.NoError(t, ix.Add([][]float32{{1, 0, 0}, {0, 1, 0}}))
	assert.Equal(t, 2, ix.Len())

	err = ix.Add([][]float32{{1, 0}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Equal(t, 2, ix.Len())
}

func TestFlatIndexSearchOrdersByDistance(t *testing.T) {
	ix, err := NewFlatIndex(2)
	require.NoError(t, err)
	require.NoError(t, ix.Add([][]float32{
		{0, 0}, // position 0, distance 0.01 to query
		{1, 0}, // position 1, distance 0.81
		{5, 5}, // position 2, far away
	}))

	matches, err := ix.Search([]float32{0.1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, 0, matches[0].Position)
	assert.Equal(t, 1, matches[1].Position)
	assert.Less(t, matches[0].Distance, matches[1].Distance)
}

func TestFlatIndexSearchBounds(t *testing.T) {
	ix, err := NewFlatIndex(2)
	require.NoError(t, err)
	require.NoError(t, ix.Add([][]float32{{0, 0}}))

	matches, err := ix.Search([]float32{0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	matches, err = ix.Search([]float32{0, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, matches)

	_, err = ix.Search([]float32{0, 0, 0}, 1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
