package umi

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

var (
	alphabet     = map[byte]bool{'A': true, 'C': true, 'G': true, 'T': true}
	alphabetN    = []byte{'A', 'C', 'G', 'T', 'N'}
	alphabetNMap = map[byte]bool{'A': true, 'C': true, 'G': true, 'T': true, 'N': true}
)

type snapEntry struct {
	known []byte
	edits int
}

// SnapCorrector implements the --umi-known pre-binning correction pass: a
// UMI u is snappable if exactly one known, non-random UMI is strictly
// closer to u (Levenshtein distance) than every other known UMI. Snapping
// happens once, before the extracted UMI is ever handed to ResolveKey, so
// the binning engine downstream never sees the raw, uncorrected sequence
// for a snappable read.
type SnapCorrector struct {
	known []string
	k     int

	// table maps every length-k string over {A,C,G,T,N} to the unique
	// known UMI it snaps to, if any.
	table map[string]snapEntry
}

// NewSnapCorrector builds a corrector from the contents of a known-UMI
// list file: one UMI per line, characters drawn from {A,C,G,T}. All UMIs
// must share the same length.
func NewSnapCorrector(knownUMIs []byte) (*SnapCorrector, error) {
	log.Debug.Printf("building snap UMI correction table")
	scanner := bufio.NewScanner(bytes.NewReader(knownUMIs))
	var known []string
	k := -1
	for scanner.Scan() {
		line := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if line == "" {
			continue
		}
		if k < 0 {
			k = len(line)
		}
		if len(line) != k {
			return nil, errors.E(fmt.Sprintf("known umi %q has length %d, others have length %d", line, len(line), k))
		}
		if err := validateUMI(line, false); err != nil {
			return nil, err
		}
		known = append(known, line)
	}
	if k < 0 {
		return nil, errors.E("no umis in known-umi list")
	}

	all := allKmers(k, alphabetN)
	table := make(map[string]snapEntry, len(all))
	for _, u := range all {
		bestCost := -1
		var bestKnown []string
		for _, kn := range known {
			cost := matchr.Levenshtein(u, kn)
			switch {
			case bestCost < 0 || cost < bestCost:
				bestCost = cost
				bestKnown = []string{kn}
			case cost == bestCost:
				bestKnown = append(bestKnown, kn)
			}
		}
		if len(bestKnown) == 1 {
			table[u] = snapEntry{known: []byte(bestKnown[0]), edits: bestCost}
		}
	}
	log.Debug.Printf("snap UMI correction table built: %d known, %d snappable of %d total kmers", len(known), len(table), len(all))

	return &SnapCorrector{known: known, k: k, table: table}, nil
}

// Correct returns the known UMI u snaps to, the edit distance to it, and
// true if u is snappable to a known UMI different from u itself (a u that
// already equals a known UMI yields that UMI, 0 and false). If u contains a base outside {A,C,G,T,N} or has
// the wrong length, ok is false and u is returned unchanged: a malformed
// read is not a reason to abort the run.
func (c *SnapCorrector) Correct(u []byte) (corrected []byte, edits int, ok bool) {
	if len(u) != c.k {
		return u, -1, false
	}
	up := bytes.ToUpper(u)
	if err := validateUMI(string(up), true); err != nil {
		return u, -1, false
	}
	entry, found := c.table[string(up)]
	if !found {
		return u, -1, false
	}
	return entry.known, entry.edits, !bytes.Equal(entry.known, up)
}

func validateUMI(umi string, allowN bool) error {
	for i := 0; i < len(umi); i++ {
		b := umi[i]
		valid := alphabet[b]
		if allowN {
			valid = alphabetNMap[b]
		}
		if !valid {
			return errors.E(fmt.Sprintf("invalid base %c in umi %s", b, umi))
		}
	}
	return nil
}

// allKmers returns every length-k string over alphabet.
func allKmers(k int, alphabet []byte) []string {
	kmers := []string{""}
	for i := 0; i < k; i++ {
		next := make([]string, 0, len(kmers)*len(alphabet))
		for _, prefix := range kmers {
			for _, c := range alphabet {
				next = append(next, prefix+string(c))
			}
		}
		kmers = next
	}
	return kmers
}
