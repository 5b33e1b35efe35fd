package umi

import (
	"fmt"

	"github.com/antzucaro/matchr"
)

// Metric selects the distance function used to decide whether two UMIs are
// close enough to share a bin.
type Metric int

const (
	// Hamming counts positions at which two equal-length strings differ.
	Hamming Metric = iota
	// Levenshtein counts the minimum number of single-character edits
	// (insertions, deletions, substitutions) between two strings.
	Levenshtein
)

func (m Metric) String() string {
	switch m {
	case Hamming:
		return "hamming"
	case Levenshtein:
		return "levenshtein"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

// hammingDistance returns the Hamming distance between two equal-length
// byte strings. Panics if the lengths differ, since UMIs compared here are
// always fixed-length prefixes of equal extraction length.
func hammingDistance(a, b []byte) int {
	if len(a) != len(b) {
		panic(fmt.Sprintf("hammingDistance: unequal lengths %d, %d", len(a), len(b)))
	}
	d := 0
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}

// Distance computes the distance between two UMIs under the given metric.
// The Levenshtein case delegates to matchr.Levenshtein, the same
// implementation the teacher cross-checks its own hand-rolled (and
// downstream-aware) Levenshtein against in util/distance_test.go; here it is
// the metric itself, since UMI-to-UMI comparisons never need downstream
// slop (both operands are always the same fixed extraction length L).
func Distance(metric Metric, a, b []byte) int {
	switch metric {
	case Hamming:
		return hammingDistance(a, b)
	case Levenshtein:
		return matchr.Levenshtein(string(a), string(b))
	default:
		panic(fmt.Sprintf("unknown metric %v", metric))
	}
}

// DefaultProactive implements the auto-default described in spec §4.2:
// neighbor enumeration beats a linear scan of the bin table until the table
// grows large relative to the enumerated Hamming ball, so it is the default
// whenever that ball is small and the policy is not None (None needs every
// matching candidate, not just the first hit, so it is handled specially by
// the caller regardless of this default).
func DefaultProactive(metric Metric, radius int, policyIsNone bool) bool {
	if policyIsNone {
		return false
	}
	switch metric {
	case Levenshtein:
		return radius <= 2
	case Hamming:
		return radius <= 3
	default:
		return false
	}
}
