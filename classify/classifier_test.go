package classify

import (
	"testing"

	"github.com/laggycomputer/grebe/fastq"
	"github.com/stretchr/testify/assert"
)

func rec(name, seq, qual string) *fastq.Record {
	return &fastq.Record{Name: []byte(name), Seq: []byte(seq), Qual: []byte(qual)}
}

func TestClassifyMaskingSplitsPair(t *testing.T) {
	pair := fastq.Pair{
		Forward: rec("r1", "NNNNNNNN", "IIIIIIII"),
		Reverse: rec("r1", "ACGTACGT", "IIIIIIII"),
	}
	out := Classify(pair, 4, Primers{})
	assert.Equal(t, Unpaired, out.Kind)
	assert.Equal(t, Reverse, out.UnpairedSide)
	assert.Equal(t, "ACGTACGT", string(out.UnpairedRecord.Seq))
}

func TestClassifyMaskingSwappedRoles(t *testing.T) {
	pair := fastq.Pair{
		Forward: rec("r1", "ACGTACGT", "IIIIIIII"),
		Reverse: rec("r1", "NNNNNNNN", "IIIIIIII"),
	}
	out := Classify(pair, 4, Primers{})
	assert.Equal(t, Unpaired, out.Kind)
	assert.Equal(t, Forward, out.UnpairedSide)
}

func TestClassifyBothMasked(t *testing.T) {
	pair := fastq.Pair{
		Forward: rec("r1", "NNNN", "IIII"),
		Reverse: rec("r1", "NNNN", "IIII"),
	}
	out := Classify(pair, 0, Primers{})
	assert.Equal(t, Drop, out.Kind)
	assert.Equal(t, DropBothMasked, out.DropReason)
}

func TestClassifyKeepsPlainPair(t *testing.T) {
	pair := fastq.Pair{
		Forward: rec("r1", "ACGTACGT", "IIIIIIII"),
		Reverse: rec("r1", "TGCATGCA", "IIIIIIII"),
	}
	out := Classify(pair, 4, Primers{})
	assert.Equal(t, Keep, out.Kind)
}

func TestClassifyUMIIsForwardPrimer(t *testing.T) {
	// S6: -u 4 --forward-primer ACGT, forward seq begins ACGTxxxx...
	pair := fastq.Pair{
		Forward: rec("r1", "ACGTxxxxACGTrest", "IIIIIIIIIIIIIIII"),
		Reverse: rec("r1", "TGCATGCA", "IIIIIIII"),
	}
	out := Classify(pair, 4, Primers{Forward: []byte("ACGT")})
	assert.Equal(t, Drop, out.Kind)
	assert.Equal(t, DropUMIIsForwardPrimer, out.DropReason)
}

func TestClassifyNoForwardPrimer(t *testing.T) {
	pair := fastq.Pair{
		Forward: rec("r1", "GGGGTTTTrestofseq", "IIIIIIIIIIIIIIIII"),
		Reverse: rec("r1", "TGCATGCA", "IIIIIIII"),
	}
	out := Classify(pair, 4, Primers{Forward: []byte("ACGT")})
	assert.Equal(t, Drop, out.Kind)
	assert.Equal(t, DropNoForwardPrimer, out.DropReason)
}

func TestClassifyForwardPrimerTooShort(t *testing.T) {
	pair := fastq.Pair{
		Forward: rec("r1", "GGGG", "IIII"),
		Reverse: rec("r1", "TGCATGCA", "IIIIIIII"),
	}
	out := Classify(pair, 4, Primers{Forward: []byte("ACGT")})
	assert.Equal(t, Drop, out.Kind)
	assert.Equal(t, DropNoForwardPrimer, out.DropReason)
}

func TestClassifyReversePrimer(t *testing.T) {
	pair := fastq.Pair{
		Forward: rec("r1", "ACGTACGTACGT", "IIIIIIIIIIII"),
		Reverse: rec("r1", "GGGGrest", "IIIIIIII"),
	}
	out := Classify(pair, 4, Primers{Reverse: []byte("TGCA")})
	assert.Equal(t, Drop, out.Kind)
	assert.Equal(t, DropNoReversePrimer, out.DropReason)
}

func TestClassifyIUPACReversePrimerMatches(t *testing.T) {
	pair := fastq.Pair{
		Forward: rec("r1", "ACGTACGTACGT", "IIIIIIIIIIII"),
		Reverse: rec("r1", "TGCArest", "IIIIIIII"),
	}
	// R = A|G; primer "TRCA" should match "TGCA" (R matches G) and "TACA".
	out := Classify(pair, 4, Primers{Reverse: []byte("TRCA")})
	assert.Equal(t, Keep, out.Kind)
}

func TestMatchBaseIUPACTable(t *testing.T) {
	assert.True(t, matchBase('N', 'A'))
	assert.True(t, matchBase('W', 'A'))
	assert.True(t, matchBase('W', 'T'))
	assert.False(t, matchBase('W', 'C'))
	assert.True(t, matchBase('B', 'C')) // B = not A
	assert.False(t, matchBase('B', 'A'))
	assert.True(t, matchBase('a', 'A')) // case-insensitive
}

func TestValidatePrimerRejectsNonIUPAC(t *testing.T) {
	assert.NoError(t, ValidatePrimer([]byte("ACGTWMRYKSBVDHN")))
	assert.Error(t, ValidatePrimer([]byte("ACGTX")))
}
