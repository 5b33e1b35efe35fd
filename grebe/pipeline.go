// Package grebe wires together the reader pair, classifier, UMI binning
// engine, collision resolver, and writer pairs into the single-threaded
// streaming pipeline described by spec.md §5.
package grebe

import (
	"context"
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/laggycomputer/grebe/classify"
	"github.com/laggycomputer/grebe/fastq"
	"github.com/laggycomputer/grebe/resolve"
	"github.com/laggycomputer/grebe/umi"
)

// Opts configures one run of the pipeline end to end.
type Opts struct {
	InForward, InReverse   string
	OutForward, OutReverse string
	OutUnpairedForward     string
	OutUnpairedReverse     string

	Phred64   bool
	UMILength int

	Policy resolve.Policy
	Radius int
	Metric umi.Metric
	// Proactive is nil to use the spec's auto-default (umi.DefaultProactive);
	// non-nil overrides it, per --proactive-levenshtein/--proactive-binning.
	Proactive *bool

	ForwardPrimer []byte
	ReversePrimer []byte

	UMIKnownPath []byte // contents of --umi-known, if given; nil disables snap correction

	ChecksumOutput bool
	Silent         bool
}

// Run executes the full streaming pipeline and returns the final metrics.
func Run(ctx context.Context, opts Opts) (*resolve.Metrics, error) {
	if opts.ForwardPrimer != nil {
		if err := classify.ValidatePrimer(opts.ForwardPrimer); err != nil {
			return nil, errors.E(err, "invalid forward primer")
		}
	}
	if opts.ReversePrimer != nil {
		if err := classify.ValidatePrimer(opts.ReversePrimer); err != nil {
			return nil, errors.E(err, "invalid reverse primer")
		}
	}

	radius := opts.Radius
	if radius > opts.UMILength {
		radius = opts.UMILength
	}

	proactive := opts.Proactive
	var effectiveProactive bool
	if proactive != nil {
		effectiveProactive = *proactive
	} else {
		effectiveProactive = umi.DefaultProactive(opts.Metric, radius, opts.Policy == resolve.None)
	}
	if opts.UMILength == 0 && (opts.Proactive != nil) {
		log.Error.Printf("warning: --proactive-* is meaningless with --umi-length 0")
	}

	var snap *umi.SnapCorrector
	if opts.UMIKnownPath != nil {
		var err error
		snap, err = umi.NewSnapCorrector(opts.UMIKnownPath)
		if err != nil {
			return nil, errors.E(err, "building snap UMI corrector")
		}
	}

	readers, err := fastq.OpenReaderPair(ctx, opts.InForward, opts.InReverse, opts.Silent)
	if err != nil {
		return nil, errors.E(err, "opening input")
	}
	defer func() { _ = readers.Close(ctx) }()

	writers, err := fastq.OpenWriterPair(ctx, opts.OutForward, opts.OutReverse, opts.ChecksumOutput)
	if err != nil {
		return nil, errors.E(err, "opening paired output")
	}
	defer func() { _ = writers.Close(ctx) }()

	unpaired, err := fastq.OpenWriterPair(ctx, opts.OutUnpairedForward, opts.OutUnpairedReverse, opts.ChecksumOutput)
	if err != nil {
		return nil, errors.E(err, "opening unpaired output")
	}
	defer func() { _ = unpaired.Close(ctx) }()

	resolver := resolve.NewResolver(resolve.Opts{
		Policy:    opts.Policy,
		UMILength: opts.UMILength,
		Radius:    radius,
		Metric:    opts.Metric,
		Proactive: effectiveProactive,
		Phred64:   opts.Phred64,
	}, writers)

	primers := classify.Primers{Forward: opts.ForwardPrimer, Reverse: opts.ReversePrimer}

	recordIndex := 0
	fwd, rev := &fastq.Record{}, &fastq.Record{}
	for readers.Scan(fwd, rev) {
		recordIndex++
		if err := fwd.Valid(); err != nil {
			return nil, errors.E(err, fmt.Sprintf("malformed record %d (forward)", recordIndex))
		}
		if err := rev.Valid(); err != nil {
			return nil, errors.E(err, fmt.Sprintf("malformed record %d (reverse)", recordIndex))
		}

		pair := fastq.Pair{Forward: fwd.Clone(), Reverse: rev.Clone()}
		outcome := classify.Classify(pair, opts.UMILength, primers)

		switch outcome.Kind {
		case classify.Unpaired:
			resolver.InsertUnpaired(outcome.UnpairedSide)
			var werr error
			if outcome.UnpairedSide == classify.Forward {
				werr = unpaired.Forward.Write(outcome.UnpairedRecord)
			} else {
				werr = unpaired.Reverse.Write(outcome.UnpairedRecord)
			}
			if werr != nil {
				return nil, errors.E(werr, "writing unpaired record")
			}

		case classify.Drop:
			resolver.InsertDrop(outcome.DropReason)

		case classify.Keep:
			key := outcome.Pair.Forward.Seq[:opts.UMILength]
			if snap != nil {
				if corrected, _, ok := snap.Correct(key); ok {
					key = corrected
				}
			}
			resolvedKey := umi.ResolveKey(resolver.Index(), key, radius, opts.Metric, effectiveProactive, opts.Policy == resolve.None)
			if err := resolver.Insert(resolvedKey, outcome.Pair); err != nil {
				return nil, errors.E(err, "inserting pair into resolver")
			}
		}
	}
	if err := readers.Err(); err != nil {
		return nil, errors.E(err, "reading input")
	}

	if err := resolver.Flush(); err != nil {
		return nil, errors.E(err, "flushing resolver")
	}

	return resolver.Metrics(), nil
}
