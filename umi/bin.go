package umi

import (
	"bytes"

	"github.com/minio/highwayhash"
	"v.io/x/lib/vlog"
)

// BinIndex is the view of the resolver's bin table the binning engine needs
// in order to map a newly-seen UMI to a canonical bin key. The resolver
// (package resolve) owns the real bin table; this is the narrow read-only
// slice of it the engine is allowed to see.
type BinIndex interface {
	// Contains reports whether key is already a canonical bin key, via an
	// O(1) amortized hashed lookup (see ExactIndex).
	Contains(key []byte) bool
	// InsertionOrder returns canonical bin keys in the order they were
	// first created, for the linear-scan fallback (spec §4.2 Case C).
	InsertionOrder() [][]byte
	// Size returns the number of pairs currently attributed to key, used
	// to break ties among proactive candidates under policy None (spec
	// §4.2 Case D).
	Size(key []byte) int
}

var zeroHighwayKey = make([]byte, highwayhash.Size)

// tiebreakHash gives a fixed, deterministic ordering over candidate keys
// that tie on bin size, the same hash the teacher uses in
// fusion/postprocess.go to give fusion candidates a stable grouping key.
func tiebreakHash(key []byte) [highwayhash.Size]byte {
	return highwayhash.Sum(key, zeroHighwayKey)
}

// ResolveKey maps a freshly-extracted UMI u to the canonical bin key it
// should be inserted under, implementing spec §4.2 Cases A-D.
//
//   - r == 0: the exact UMI is always its own key (Case A).
//   - r > 0 and u is already a key: no search needed (Case B).
//   - r > 0, !proactive: linear scan of existing keys in insertion order,
//     first one within radius r wins, else u is a new key (Case C).
//   - r > 0, proactive: substitution-neighbor enumeration. For any policy
//     but None, the first enumerated candidate present in idx wins. For
//     policy None, every present candidate is considered and the one
//     attributed the largest bin wins, ties broken deterministically by
//     tiebreakHash (Case D).
func ResolveKey(idx BinIndex, u []byte, r int, metric Metric, proactive bool, policyIsNone bool) []byte {
	if r == 0 {
		return cloneKey(u)
	}
	if idx.Contains(u) {
		return cloneKey(u)
	}
	if !proactive {
		for _, k := range idx.InsertionOrder() {
			if Distance(metric, k, u) <= r {
				return k
			}
		}
		return cloneKey(u)
	}

	if !policyIsNone {
		var found []byte
		enumerateSubstitutionNeighbors(u, r, func(candidate []byte) bool {
			if idx.Contains(candidate) {
				found = cloneKey(candidate)
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
		return cloneKey(u)
	}

	type hit struct {
		key  []byte
		size int
	}
	var hits []hit
	seen := map[string]bool{}
	enumerateSubstitutionNeighbors(u, r, func(candidate []byte) bool {
		if idx.Contains(candidate) {
			ks := string(candidate)
			if !seen[ks] {
				seen[ks] = true
				hits = append(hits, hit{key: cloneKey(candidate), size: idx.Size(candidate)})
			}
		}
		return true
	})
	if len(hits) == 0 {
		return cloneKey(u)
	}

	best := hits[0]
	bestHash := tiebreakHash(best.key)
	for _, h := range hits[1:] {
		hh := tiebreakHash(h.key)
		if h.size > best.size || (h.size == best.size && bytes.Compare(hh[:], bestHash[:]) < 0) {
			best, bestHash = h, hh
		}
	}
	return best.key
}

func cloneKey(k []byte) []byte {
	return append([]byte(nil), k...)
}

// enumerateSubstitutionNeighbors visits every byte string reachable from u
// by choosing r positions and assigning each one any of {A,T,C,G} (not
// necessarily different from the original base at that position, so the
// full Hamming ball of radius <= r around u is a subset of what is
// visited). Position combinations are generated lazily via recursion;
// substitution tuples are computed once, eagerly, and reused across every
// combination, per the teacher's own "don't materialize what you can
// short-circuit" instinct. yield may return false to stop iteration early.
func enumerateSubstitutionNeighbors(u []byte, r int, yield func(candidate []byte) bool) {
	if r <= 0 || r > len(u) {
		return
	}
	tuples := substitutionTuples(r)
	positions := make([]int, r)
	candidate := make([]byte, len(u))

	var choose func(start, idx int) bool
	choose = func(start, idx int) bool {
		if idx == r {
			for _, tuple := range tuples {
				copy(candidate, u)
				for i, pos := range positions {
					candidate[pos] = tuple[i]
				}
				vlog.VI(2).Infof("umi candidate %q for %q (positions %v)", candidate, u, positions)
				if !yield(candidate) {
					return false
				}
			}
			return true
		}
		for p := start; p <= len(u)-(r-idx); p++ {
			positions[idx] = p
			if !choose(p+1, idx+1) {
				return false
			}
		}
		return true
	}
	choose(0, 0)
}

var substitutionBases = [4]byte{'A', 'T', 'C', 'G'}

// substitutionTuples returns every length-r sequence over {A,T,C,G}.
func substitutionTuples(r int) [][]byte {
	result := [][]byte{{}}
	for i := 0; i < r; i++ {
		next := make([][]byte, 0, len(result)*4)
		for _, prefix := range result {
			for _, b := range substitutionBases {
				t := make([]byte, len(prefix)+1)
				copy(t, prefix)
				t[len(prefix)] = b
				next = append(next, t)
			}
		}
		result = next
	}
	return result
}
