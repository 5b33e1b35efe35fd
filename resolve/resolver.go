package resolve

import (
	"fmt"

	"github.com/grailbio/base/log"
	"github.com/laggycomputer/grebe/classify"
	"github.com/laggycomputer/grebe/fastq"
	"github.com/laggycomputer/grebe/umi"
)

// Opts configures a Resolver.
type Opts struct {
	Policy    Policy
	UMILength int
	Radius    int
	Metric    umi.Metric
	Proactive bool
	Phred64   bool
}

// Resolver owns the bin table and implements insert(k, pair) / flush per
// policy. All mutable state (bin table, counters) is owned here and never
// aliased; callers only ever see Metrics after the run completes.
type Resolver struct {
	opts    Opts
	policy  Policy // opts.Policy, forced to None when UMILength == 0
	table   *binTable
	metrics *Metrics
	writer  *fastq.WriterPair
}

// NewResolver constructs a Resolver writing paired output through w. Per
// the binning engine's design note, a zero UMI length forces None
// semantics regardless of the configured policy.
func NewResolver(opts Opts, w *fastq.WriterPair) *Resolver {
	policy := opts.Policy
	if opts.UMILength == 0 && policy != None {
		log.Error.Printf("info: --umi-length 0 forces collision-resolution-mode none (was %s)", policy)
		policy = None
	}
	return &Resolver{
		opts:    opts,
		policy:  policy,
		table:   newBinTable(),
		metrics: NewMetrics(),
		writer:  w,
	}
}

// Index exposes the bin table as a umi.BinIndex for key resolution ahead
// of Insert.
func (r *Resolver) Index() umi.BinIndex {
	return r.table
}

// Metrics returns the running counters.
func (r *Resolver) Metrics() *Metrics {
	return r.metrics
}

// Insert admits pair into the bin identified by key (as already resolved
// by umi.ResolveKey against r.Index()), applying this resolver's policy.
func (r *Resolver) Insert(key []byte, pair fastq.Pair) error {
	r.metrics.RecordsTotal++
	entry, created := r.table.getOrCreate(key)

	switch r.policy {
	case None:
		prefixed := prefixNames(pair, key)
		if err := r.writer.WritePair(prefixed); err != nil {
			return err
		}
		r.metrics.RecordsWritten++
		if created {
			entry.written = true
			r.metrics.GoodRecords++
		}
		return nil

	case KeepFirst:
		if created {
			if err := r.writer.WritePair(pair); err != nil {
				return err
			}
			entry.written = true
			r.metrics.RecordsWritten++
			r.metrics.GoodRecords++
			return nil
		}
		r.metrics.addDrop(DropDuplicate)
		return nil

	case KeepLast, KeepLongestLeft, KeepLongestRight, KeepLongestExtend:
		mode := modeForPolicy(r.policy)
		if created {
			cloned := pair.Clone()
			entry.retained = &cloned
			r.metrics.RecordsHeldUntilFlush++
			r.metrics.GoodRecords++
			return nil
		}
		var reduced fastq.Pair
		if r.policy == KeepLast {
			reduced = pair.Clone()
		} else {
			reduced = reducePair(*entry.retained, pair, mode)
		}
		entry.retained = &reduced
		r.metrics.GoodRecords++
		r.metrics.addDrop(DropDuplicate)
		return nil

	case QualityVote:
		offset := 33
		if r.opts.Phred64 {
			offset = 64
		}
		if created {
			entry.votes = newVoteState(pair, r.opts.UMILength)
			r.metrics.RecordsHeldUntilFlush++
		} else {
			r.metrics.addDrop(DropDuplicate)
		}
		if err := entry.votes.tally(pair, r.opts.UMILength, offset); err != nil {
			return err
		}
		r.metrics.GoodRecords++
		return nil

	default:
		return fmt.Errorf("unhandled policy %v", r.policy)
	}
}

// InsertUnpaired records an unpaired (masked-split) record for metrics
// purposes only; the record itself is written by the caller through the
// unpaired writer pair.
func (r *Resolver) InsertUnpaired(side classify.Side) {
	r.metrics.RecordsTotal++
	if side == classify.Forward {
		r.metrics.UnpairedForward++
	} else {
		r.metrics.UnpairedReverse++
	}
}

// InsertDrop records a classifier-level drop.
func (r *Resolver) InsertDrop(reason classify.DropReason) {
	r.metrics.RecordsTotal++
	r.metrics.addDrop(reason)
}

// Flush writes the remaining held bins (KeepLast, KeepLongest*,
// QualityVote) in ascending key order and zeroes
// RecordsHeldUntilFlush. None and KeepFirst bins were already written at
// insertion time and are skipped.
func (r *Resolver) Flush() error {
	var ferr error
	r.table.forEach(func(e *binEntry) {
		if ferr != nil {
			return
		}
		switch {
		case e.votes != nil:
			ferr = r.writer.WritePair(consensusPair(e.key, e.votes))
		case e.retained != nil:
			ferr = r.writer.WritePair(*e.retained)
		default:
			return // None/KeepFirst: already written.
		}
		if ferr == nil {
			r.metrics.RecordsWritten++
			r.metrics.RecordsHeldUntilFlush--
		}
	})
	return ferr
}

// prefixNames returns a clone of pair with "<key> " prefixed to both
// record names, per policy None's output contract.
func prefixNames(pair fastq.Pair, key []byte) fastq.Pair {
	cloned := pair.Clone()
	prefix := append(append([]byte(nil), key...), ' ')
	cloned.Forward.Name = append(append([]byte(nil), prefix...), cloned.Forward.Name...)
	cloned.Reverse.Name = append(append([]byte(nil), prefix...), cloned.Reverse.Name...)
	return cloned
}
