// Package classify implements the pair classifier: masking detection and
// IUPAC primer matching that decide whether a read pair is kept, routed to
// the unpaired stream, or dropped, and why.
package classify

import (
	"github.com/pkg/errors"
)

// validIUPAC is the full set of letters a primer string may use.
var validIUPAC = map[byte]bool{
	'A': true, 'T': true, 'C': true, 'G': true,
	'W': true, 'M': true, 'R': true, 'Y': true, 'K': true, 'S': true,
	'B': true, 'V': true, 'D': true, 'H': true, 'N': true,
}

// ValidatePrimer reports an error if primer contains any byte outside the
// IUPAC alphabet. Primers are validated once at startup; an invalid primer
// is a fatal configuration error.
func ValidatePrimer(primer []byte) error {
	for _, b := range primer {
		if !validIUPAC[upper(b)] {
			return errors.Errorf("invalid IUPAC base %q in primer %q", b, primer)
		}
	}
	return nil
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// matchBase reports whether seqBase is consistent with the IUPAC code
// primerBase. Both are compared case-insensitively; primerBase is assumed
// already validated.
func matchBase(primerBase, seqBase byte) bool {
	p := upper(primerBase)
	s := upper(seqBase)
	switch p {
	case 'A', 'T', 'C', 'G':
		return p == s
	case 'W':
		return s == 'A' || s == 'T'
	case 'M':
		return s == 'A' || s == 'C'
	case 'R':
		return s == 'A' || s == 'G'
	case 'Y':
		return s == 'T' || s == 'C'
	case 'K':
		return s == 'T' || s == 'G'
	case 'S':
		return s == 'C' || s == 'G'
	case 'B':
		return s != 'A'
	case 'V':
		return s != 'T'
	case 'D':
		return s != 'C'
	case 'H':
		return s != 'G'
	case 'N':
		return true
	default:
		return false
	}
}

// MatchPrimer reports whether every base of primer IUPAC-matches the
// corresponding base of seq. seq must be at least as long as primer; the
// caller is responsible for that length check, since the two failure modes
// (too short vs. mismatched) carry distinct drop reasons in the classifier.
func MatchPrimer(primer, seq []byte) bool {
	for i, p := range primer {
		if !matchBase(p, seq[i]) {
			return false
		}
	}
	return true
}
