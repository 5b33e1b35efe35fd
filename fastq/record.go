// Package fastq provides reading and writing of paired-end FASTQ records,
// transparently handling gzip framing on input and gzip or snappy framing
// on output. Snappy-compressed input is not decoded.
package fastq

import (
	"bytes"
	"fmt"
)

// Record is a single FASTQ read: an identifier line split into name and
// optional description, a nucleotide sequence, and a Phred-encoded quality
// string of equal length.
type Record struct {
	Name []byte
	Desc []byte // nil if the ID line carried no description
	Seq  []byte
	Qual []byte
}

// Clone returns a deep copy of r, suitable for retaining past the lifetime
// of the buffer the scanner reused to produce it.
func (r *Record) Clone() *Record {
	c := &Record{
		Name: append([]byte(nil), r.Name...),
		Seq:  append([]byte(nil), r.Seq...),
		Qual: append([]byte(nil), r.Qual...),
	}
	if r.Desc != nil {
		c.Desc = append([]byte(nil), r.Desc...)
	}
	return c
}

// Valid reports whether r satisfies the basic structural invariants every
// FASTQ record must have: a non-empty name and equal-length seq/qual.
func (r *Record) Valid() error {
	if len(r.Name) == 0 {
		return fmt.Errorf("empty record name")
	}
	if len(r.Seq) != len(r.Qual) {
		return fmt.Errorf("seq/qual length mismatch: %d vs %d", len(r.Seq), len(r.Qual))
	}
	return nil
}

// AllN reports whether the record's sequence consists entirely of 'N'
// (case-insensitive) bases. An empty sequence is considered all-N, matching
// the teacher's `all(...)` vacuous-truth convention in similar helpers.
func (r *Record) AllN() bool {
	for _, b := range r.Seq {
		if b != 'N' && b != 'n' {
			return false
		}
	}
	return true
}

// Pair is an ordered forward/reverse read pair.
type Pair struct {
	Forward, Reverse *Record
}

func (p Pair) Clone() Pair {
	return Pair{Forward: p.Forward.Clone(), Reverse: p.Reverse.Clone()}
}

// idLine reconstructs the "@name desc" identifier line for r.
func idLine(r *Record) []byte {
	var buf bytes.Buffer
	buf.WriteByte('@')
	buf.Write(r.Name)
	if r.Desc != nil {
		buf.WriteByte(' ')
		buf.Write(r.Desc)
	}
	return buf.Bytes()
}
