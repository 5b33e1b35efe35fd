package resolve

import (
	"bytes"

	"github.com/laggycomputer/grebe/fastq"
)

// extendMode selects which side of KeepLongest is being reduced, since
// left/right/extend only differ in their equal- and longer-length rules.
type extendMode int

const (
	modeLeft extendMode = iota
	modeRight
	modeExtend
)

func modeForPolicy(p Policy) extendMode {
	switch p {
	case KeepLongestRight:
		return modeRight
	case KeepLongestExtend:
		return modeExtend
	default:
		return modeLeft
	}
}

// reduceRecord implements reduce(old, new, mode) for one side of a pair:
//   - |new| > |old|: extend keeps old unless new is a byte-wise extension
//     of old; left/right always take new.
//   - |new| < |old|: old always wins.
//   - |new| == |old|: left and extend keep old; right takes new.
func reduceRecord(old, newRec *fastq.Record, mode extendMode) *fastq.Record {
	switch {
	case len(newRec.Seq) > len(old.Seq):
		if mode == modeExtend {
			if bytes.HasPrefix(newRec.Seq, old.Seq) {
				return newRec
			}
			return old
		}
		return newRec
	case len(newRec.Seq) < len(old.Seq):
		return old
	default:
		if mode == modeRight {
			return newRec
		}
		return old
	}
}

// reducePair applies reduceRecord to each side of a pair independently.
func reducePair(old, newPair fastq.Pair, mode extendMode) fastq.Pair {
	return fastq.Pair{
		Forward: reduceRecord(old.Forward, newPair.Forward, mode),
		Reverse: reduceRecord(old.Reverse, newPair.Reverse, mode),
	}
}
