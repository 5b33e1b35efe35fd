package resolve

import (
	"fmt"

	"github.com/laggycomputer/grebe/fastq"
)

// bases is the fixed tie-break order used whenever two channel tallies
// are equal: A beats T beats C beats G.
var bases = [4]byte{'A', 'T', 'C', 'G'}

// voteSeq holds, for one read direction, a per-position tally of Phred
// quality mass contributed to each of A/T/C/G at that position. N bases
// abstain and contribute to no channel.
type voteSeq struct {
	tallies [][4]int
}

func newVoteSeq(n int) voteSeq {
	return voteSeq{tallies: make([][4]int, n)}
}

func (v *voteSeq) growTo(n int) {
	if n <= len(v.tallies) {
		return
	}
	grown := make([][4]int, n)
	copy(grown, v.tallies)
	v.tallies = grown
}

func channelIndex(base byte) (int, bool) {
	switch base {
	case 'A', 'a':
		return 0, true
	case 'T', 't':
		return 1, true
	case 'C', 'c':
		return 2, true
	case 'G', 'g':
		return 3, true
	case 'N', 'n':
		return 0, false // abstention: valid base, no channel
	default:
		return 0, false
	}
}

// add folds one (base, qual) observation into position i. An error is
// returned for any byte outside {A,T,C,G,N} (case-insensitive).
func (v *voteSeq) add(i int, base byte, qual int) error {
	switch base {
	case 'A', 'a', 'T', 't', 'C', 'c', 'G', 'g':
		idx, _ := channelIndex(base)
		v.tallies[i][idx] += qual
		return nil
	case 'N', 'n':
		return nil
	default:
		return fmt.Errorf("invalid base %q in quality-vote tally", base)
	}
}

// consensus returns the winning base at each position, breaking ties by
// the fixed A<T<C<G order.
func (v *voteSeq) consensus() []byte {
	out := make([]byte, len(v.tallies))
	for i, t := range v.tallies {
		best := 0
		for c := 1; c < 4; c++ {
			if t[c] > t[best] {
				best = c
			}
		}
		out[i] = bases[best]
	}
	return out
}

// voteState is the per-bin QualityVote accumulator: one voteSeq per read
// direction, plus the number of pairs folded in so far (used as the bin's
// Size() for proactive-None tie resolution).
type voteState struct {
	forward, reverse voteSeq
	count            int
}

// newVoteState initializes Q[k] per the collision resolver table: vote
// sequences of length |forward.seq|-umiLength and |reverse.seq|, filled
// with zeros.
func newVoteState(pair fastq.Pair, umiLength int) *voteState {
	return &voteState{
		forward: newVoteSeq(len(pair.Forward.Seq) - umiLength),
		reverse: newVoteSeq(len(pair.Reverse.Seq)),
	}
}

// tally folds pair into the running vote, growing the vote sequences if
// this pair is longer than any seen before. offset is 33 or 64 depending
// on --phred64.
func (q *voteState) tally(pair fastq.Pair, umiLength int, offset int) error {
	fwd := pair.Forward.Seq[umiLength:]
	fwdQual := pair.Forward.Qual[umiLength:]
	rev := pair.Reverse.Seq
	revQual := pair.Reverse.Qual

	q.forward.growTo(len(fwd))
	q.reverse.growTo(len(rev))

	for i, b := range fwd {
		if err := q.forward.add(i, b, phredValue(fwdQual[i], offset)); err != nil {
			return err
		}
	}
	for i, b := range rev {
		if err := q.reverse.add(i, b, phredValue(revQual[i], offset)); err != nil {
			return err
		}
	}
	q.count++
	return nil
}

// phredValue decodes a single quality byte given the Phred offset (33 or
// 64, per --phred64).
func phredValue(q byte, offset int) int {
	return int(q) - offset
}

// consensusPair builds the synthetic output pair for a QualityVote bin:
// both records are named after the bin key, carry a fixed description,
// and an all-'~' quality string matching the consensus length.
func consensusPair(key []byte, q *voteState) fastq.Pair {
	desc := []byte("consensus")
	mk := func(seq []byte) *fastq.Record {
		qual := make([]byte, len(seq))
		for i := range qual {
			qual[i] = '~'
		}
		return &fastq.Record{Name: append([]byte(nil), key...), Desc: desc, Seq: seq, Qual: qual}
	}
	return fastq.Pair{
		Forward: mk(q.forward.consensus()),
		Reverse: mk(q.reverse.consensus()),
	}
}
