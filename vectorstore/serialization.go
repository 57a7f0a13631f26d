package vectorstore

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// The index artifact is a single MUS-encoded record:
// dimensionality, count, the ids in insertion order, then count*dim
// float32 vector components.

func marshalIndex(ix *FlatIndex, ids []string) []byte {
	size := varint.Int.Size(ix.dim) + varint.Int.Size(len(ids))
	for _, id := range ids {
		size += ord.String.Size(id)
	}
	for _, vec := range ix.vectors {
		for _, f := range vec {
			size += raw.Float32.Size(f)
		}
	}

	bs := make([]byte, size)
	n := varint.Int.Marshal(ix.dim, bs)
	n += varint.Int.Marshal(len(ids), bs[n:])
	for _, id := range ids {
		n += ord.String.Marshal(id, bs[n:])
	}
	for _, vec := range ix.vectors {
		for _, f := range vec {
			n += raw.Float32.Marshal(f, bs[n:])
		}
	}
	return bs
}

func unmarshalIndex(bs []byte) (*FlatIndex, []string, error) {
	dim, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading dimension: %w", ErrCorruptStore, err)
	}

	count, consumed, err := varint.Int.Unmarshal(bs[n:])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading count: %w", ErrCorruptStore, err)
	}
	n += consumed

	if dim <= 0 || count < 0 {
		return nil, nil, fmt.Errorf("%w: dimension %d, count %d", ErrCorruptStore, dim, count)
	}

	ids := make([]string, count)
	for i := range ids {
		id, consumed, err := ord.String.Unmarshal(bs[n:])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: reading id %d: %w", ErrCorruptStore, i, err)
		}
		ids[i] = id
		n += consumed
	}

	vectors := make([][]float32, count)
	for i := range vectors {
		vec := make([]float32, dim)
		for j := range vec {
			f, consumed, err := raw.Float32.Unmarshal(bs[n:])
			if err != nil {
				return nil, nil, fmt.Errorf("%w: reading vector %d: %w", ErrCorruptStore, i, err)
			}
			vec[j] = f
			n += consumed
		}
		vectors[i] = vec
	}

	return &FlatIndex{dim: dim, vectors: vectors}, ids, nil
}
