package vectorstore

import (
	"fmt"
	"sort"
)

// Match is one nearest-neighbor hit: the insertion position of the
// vector and its squared L2 distance to the query.
type Match struct {
	Position int
	Distance float32
}

// FlatIndex is an exact nearest-neighbor index over fixed-length
// vectors. Search is a linear scan by squared L2 distance, matching the
// flat-index semantics the store was designed around. It is append-only
// within a batch and not safe for concurrent use.
type FlatIndex struct {
	dim     int
	vectors [][]float32
}

// NewFlatIndex creates an empty index of the given dimensionality.
func NewFlatIndex(dim int) (*FlatIndex, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, dim)
	}
	return &FlatIndex{dim: dim}, nil
}

// Dim returns the index dimensionality.
func (ix *FlatIndex) Dim() int {
	return ix.dim
}

// Len returns the number of stored vectors.
func (ix *FlatIndex) Len() int {
	return len(ix.vectors)
}

// Add appends vectors to the index. Every vector must match the index
// dimensionality; on a mismatch nothing is added.
func (ix *FlatIndex) Add(vectors [][]float32) error {
	for i, vec := range vectors {
		if len(vec) != ix.dim {
			return fmt.Errorf("%w: vector %d has %d dimensions, index has %d",
				ErrDimensionMismatch, i, len(vec), ix.dim)
		}
	}
	ix.vectors = append(ix.vectors, vectors...)
	return nil
}

// Search returns the k nearest stored vectors to the query, closest
// first. Fewer than k matches are returned when the index is smaller.
func (ix *FlatIndex) Search(query []float32, k int) ([]Match, error) {
	if len(query) != ix.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			ErrDimensionMismatch, len(query), ix.dim)
	}
	if k <= 0 {
		return nil, nil
	}

	matches := make([]Match, len(ix.vectors))
	for i, vec := range ix.vectors {
		matches[i] = Match{Position: i, Distance: squaredL2(query, vec)}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Position < matches[j].Position
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k], nil
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
