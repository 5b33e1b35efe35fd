package resolve

import (
	"bytes"

	"github.com/biogo/store/llrb"
	"github.com/laggycomputer/grebe/fastq"
	"github.com/laggycomputer/grebe/umi"
)

// binKey is the llrb.Comparable wrapper around a UMI bin key, ordered
// lexicographically by byte value. The same ordered-map role
// encoding/bampair/shard_info.go gives llrb.Tree over genomic coordinates,
// here it orders bins by key bytes instead, giving flush a deterministic
// (if policy-unspecified) iteration order.
type binKey struct {
	key   []byte
	entry *binEntry
}

func (k binKey) Compare(c llrb.Comparable) int {
	return bytes.Compare(k.key, c.(binKey).key)
}

// binEntry holds everything the resolver keeps per bin: whether the bin
// has already been physically written (None/KeepFirst), the single
// retained pair (KeepLast/KeepLongest*), or the running vote tallies
// (QualityVote).
type binEntry struct {
	key      []byte
	written  bool
	retained *fastq.Pair
	votes    *voteState
}

// binTable is the resolver's UMI-keyed store. It implements umi.BinIndex
// so the binning engine in package umi can consult it without depending
// on the resolver's full insertion/flush semantics.
type binTable struct {
	tree  llrb.Tree
	exact *umi.ExactIndex
	order [][]byte
}

func newBinTable() *binTable {
	return &binTable{tree: llrb.Tree{}, exact: umi.NewExactIndex()}
}

func (t *binTable) Contains(key []byte) bool {
	return t.exact.Contains(key)
}

func (t *binTable) InsertionOrder() [][]byte {
	return t.order
}

func (t *binTable) Size(key []byte) int {
	e := t.get(key)
	if e == nil {
		return 0
	}
	if e.votes != nil {
		return e.votes.count
	}
	if e.retained != nil || e.written {
		return 1
	}
	return 0
}

func (t *binTable) get(key []byte) *binEntry {
	c := t.tree.Get(binKey{key: key})
	if c == nil {
		return nil
	}
	return c.(binKey).entry
}

// getOrCreate returns the entry for key, creating and registering an
// empty one if this is the first time key has been seen.
func (t *binTable) getOrCreate(key []byte) (entry *binEntry, created bool) {
	if e := t.get(key); e != nil {
		return e, false
	}
	stored := append([]byte(nil), key...)
	e := &binEntry{key: stored}
	t.tree.Insert(binKey{key: stored, entry: e})
	t.exact.Add(stored)
	t.order = append(t.order, stored)
	return e, true
}

// forEach visits every bin in ascending key order.
func (t *binTable) forEach(fn func(e *binEntry)) {
	t.tree.Do(func(c llrb.Comparable) bool {
		fn(c.(binKey).entry)
		return false
	})
}
