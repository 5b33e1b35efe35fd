package classify

import (
	"github.com/laggycomputer/grebe/fastq"
)

// Side identifies which half of a pair an Unpaired verdict carries.
type Side int

const (
	Forward Side = iota
	Reverse
)

func (s Side) String() string {
	if s == Forward {
		return "forward"
	}
	return "reverse"
}

// DropReason names why a pair was dropped instead of kept or unpaired.
type DropReason string

const (
	DropBothMasked         DropReason = "both_masked"
	DropNoForwardPrimer    DropReason = "no_forward_primer"
	DropUMIIsForwardPrimer DropReason = "umi_is_forward_primer"
	DropNoReversePrimer    DropReason = "no_reverse_primer"
)

// Outcome is the tagged result of classifying one pair: exactly one of
// Keep, Unpaired, or Drop is relevant, selected by Kind.
type Outcome struct {
	Kind Kind

	Pair fastq.Pair // valid when Kind == Keep

	UnpairedSide   Side        // valid when Kind == Unpaired
	UnpairedRecord *fastq.Record // valid when Kind == Unpaired

	DropReason DropReason // valid when Kind == Drop
}

type Kind int

const (
	Keep Kind = iota
	Unpaired
	Drop
)

// Primers configures the optional forward/reverse primer checks. A nil
// Forward or Reverse disables that check entirely.
type Primers struct {
	Forward []byte
	Reverse []byte
}

// Classify applies the checks of the pair classifier, in order, to a
// structurally-valid, parsed pair: masking, then forward primer, then
// reverse primer. Parse failure and structural validity are checked
// earlier by the caller (they are record-fatal, not classification
// outcomes) via fastq.Record.Valid.
func Classify(pair fastq.Pair, umiLength int, primers Primers) Outcome {
	fN := pair.Forward.AllN()
	rN := pair.Reverse.AllN()

	switch {
	case !fN && rN:
		return Outcome{Kind: Unpaired, UnpairedSide: Forward, UnpairedRecord: pair.Forward}
	case fN && !rN:
		return Outcome{Kind: Unpaired, UnpairedSide: Reverse, UnpairedRecord: pair.Reverse}
	case fN && rN:
		return Outcome{Kind: Drop, DropReason: DropBothMasked}
	}

	if len(primers.Forward) > 0 {
		pf := primers.Forward
		fwdSeq := pair.Forward.Seq
		if len(fwdSeq) < umiLength+len(pf) {
			return Outcome{Kind: Drop, DropReason: DropNoForwardPrimer}
		}
		startsWithPrimer := MatchPrimer(pf, fwdSeq[:len(pf)])
		startsWithUMIThenPrimer := MatchPrimer(pf, fwdSeq[umiLength:umiLength+len(pf)])
		switch {
		case umiLength > 0 && startsWithPrimer && !startsWithUMIThenPrimer:
			return Outcome{Kind: Drop, DropReason: DropUMIIsForwardPrimer}
		case !startsWithUMIThenPrimer:
			return Outcome{Kind: Drop, DropReason: DropNoForwardPrimer}
		}
	}

	if len(primers.Reverse) > 0 {
		pr := primers.Reverse
		revSeq := pair.Reverse.Seq
		if len(revSeq) < len(pr) || !MatchPrimer(pr, revSeq[:len(pr)]) {
			return Outcome{Kind: Drop, DropReason: DropNoReversePrimer}
		}
	}

	return Outcome{Kind: Keep, Pair: pair}
}
