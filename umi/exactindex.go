package umi

import (
	"bytes"

	farm "github.com/dgryski/go-farm"
)

// ExactIndex is a hashed set of byte strings supporting O(1) amortized
// membership tests, the same role github.com/dgryski/go-farm plays in the
// teacher's fusion/kmer_index.go (there sharding a much larger kmer->gene
// table; here just a flat hash-bucketed set of UMI keys, since the whole
// point of a single streaming pass is that the bin table never needs to be
// sharded across goroutines).
type ExactIndex struct {
	buckets map[uint64][][]byte
}

// NewExactIndex returns an empty index.
func NewExactIndex() *ExactIndex {
	return &ExactIndex{buckets: make(map[uint64][][]byte)}
}

// Add records key in the index. A no-op if key is already present.
func (e *ExactIndex) Add(key []byte) {
	h := farm.Hash64(key)
	for _, k := range e.buckets[h] {
		if bytes.Equal(k, key) {
			return
		}
	}
	e.buckets[h] = append(e.buckets[h], append([]byte(nil), key...))
}

// Contains reports whether key was previously Add-ed.
func (e *ExactIndex) Contains(key []byte) bool {
	h := farm.Hash64(key)
	for _, k := range e.buckets[h] {
		if bytes.Equal(k, key) {
			return true
		}
	}
	return false
}
