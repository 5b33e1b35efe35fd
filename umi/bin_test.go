package umi

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeBinIndex is a minimal BinIndex backed by a plain slice, enough to
// exercise ResolveKey's four cases without pulling in the resolver.
type fakeBinIndex struct {
	order []([]byte)
	sizes map[string]int
}

func newFakeBinIndex() *fakeBinIndex {
	return &fakeBinIndex{sizes: map[string]int{}}
}

func (f *fakeBinIndex) add(key []byte, size int) {
	f.order = append(f.order, key)
	f.sizes[string(key)] = size
}

func (f *fakeBinIndex) Contains(key []byte) bool {
	for _, k := range f.order {
		if bytes.Equal(k, key) {
			return true
		}
	}
	return false
}

func (f *fakeBinIndex) InsertionOrder() [][]byte { return f.order }

func (f *fakeBinIndex) Size(key []byte) int { return f.sizes[string(key)] }

func TestResolveKeyCaseA_ZeroRadius(t *testing.T) {
	idx := newFakeBinIndex()
	idx.add([]byte("AAAA"), 1)
	got := ResolveKey(idx, []byte("AAAT"), 0, Hamming, false, false)
	assert.Equal(t, "AAAT", string(got))
}

func TestResolveKeyCaseB_ExactHit(t *testing.T) {
	idx := newFakeBinIndex()
	idx.add([]byte("AAAA"), 1)
	got := ResolveKey(idx, []byte("AAAA"), 1, Hamming, false, false)
	assert.Equal(t, "AAAA", string(got))
}

func TestResolveKeyCaseC_LinearScan(t *testing.T) {
	idx := newFakeBinIndex()
	idx.add([]byte("AAAA"), 1)
	idx.add([]byte("TTTT"), 1)
	got := ResolveKey(idx, []byte("AAAT"), 1, Hamming, false, false)
	assert.Equal(t, "AAAA", string(got))
}

func TestResolveKeyCaseC_NoMatchCreatesNewKey(t *testing.T) {
	idx := newFakeBinIndex()
	idx.add([]byte("AAAA"), 1)
	got := ResolveKey(idx, []byte("TTTT"), 1, Hamming, false, false)
	assert.Equal(t, "TTTT", string(got))
}

func TestResolveKeyCaseD_ProactiveFirstHit(t *testing.T) {
	idx := newFakeBinIndex()
	idx.add([]byte("AAAA"), 1)
	got := ResolveKey(idx, []byte("AAAT"), 1, Hamming, true, false)
	assert.Equal(t, "AAAA", string(got))
}

func TestResolveKeyCaseD_ProactiveNoneLargestBinWins(t *testing.T) {
	idx := newFakeBinIndex()
	idx.add([]byte("AAAA"), 3)
	idx.add([]byte("AATA"), 9)
	// AAGA is Hamming distance 1 from both AAAA and AATA.
	got := ResolveKey(idx, []byte("AAGA"), 1, Hamming, true, true)
	assert.Equal(t, "AATA", string(got))
}

func TestResolveKeyCaseD_ProactiveNoHitCreatesNewKey(t *testing.T) {
	idx := newFakeBinIndex()
	idx.add([]byte("AAAA"), 1)
	got := ResolveKey(idx, []byte("TTTT"), 1, Hamming, true, false)
	assert.Equal(t, "TTTT", string(got))
}

func TestEnumerateSubstitutionNeighborsCoversHammingBall(t *testing.T) {
	seen := map[string]bool{}
	enumerateSubstitutionNeighbors([]byte("AAAA"), 1, func(candidate []byte) bool {
		seen[string(candidate)] = true
		return true
	})
	assert.True(t, seen["TAAA"])
	assert.True(t, seen["ATAA"])
	assert.True(t, seen["AATA"])
	assert.True(t, seen["AAAT"])
	assert.True(t, seen["AAAA"]) // identity substitution is a valid choice
}

func TestEnumerateSubstitutionNeighborsEarlyExit(t *testing.T) {
	count := 0
	enumerateSubstitutionNeighbors([]byte("AAAA"), 2, func(candidate []byte) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

func TestSubstitutionTuplesCount(t *testing.T) {
	assert.Equal(t, 4, len(substitutionTuples(1)))
	assert.Equal(t, 16, len(substitutionTuples(2)))
}
