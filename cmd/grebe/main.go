package main

/*
  grebe deduplicates paired-end FASTQ reads by UMI, classifying each pair
  against optional forward/reverse primers and resolving same-bin
  collisions under a configurable retention policy. For more information,
  see github.com/laggycomputer/grebe/grebe/pipeline.go.
*/

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/laggycomputer/grebe/grebe"
	"github.com/laggycomputer/grebe/resolve"
	"github.com/laggycomputer/grebe/umi"
)

var (
	phred64   = flag.Bool("phred64", false, "treat input qualities as Phred+64 instead of Phred+33")
	umiLength int

	collisionMode = flag.String("collision-resolution-mode", "first",
		"one of none|first|last|keep-longest-left|keep-longest-right|keep-longest-extend|quality-vote")

	levenshteinRadius int
	hammingRadius     int

	proactiveOverride string

	forwardPrimer = flag.String("forward-primer", "", "IUPAC forward primer string, validated at startup")
	reversePrimer = flag.String("reverse-primer", "", "IUPAC reverse primer string, validated at startup")

	startAt = flag.Int("start-at", 0, "reserved, currently a no-op placeholder")

	checksumOutput = flag.Bool("checksum-output", false, "write a SeaHash sidecar file alongside each output stream")
	umiKnownPath   = flag.String("umi-known", "", "path to a newline-separated list of known UMIs for snap correction")
	silent         = flag.Bool("silent", false, "suppress the input readers' info-level stderr lines")
)

func init() {
	flag.IntVar(&umiLength, "umi-length", 0, "length of the UMI prefix to extract from the forward read, 0-15")
	flag.IntVar(&umiLength, "u", 0, "alias for --umi-length")
	flag.IntVar(&levenshteinRadius, "levenshtein-radius", -1, "bin radius under the Levenshtein metric, 0-15; proactive binning enumerates substitution-only (Hamming-ball) neighbors under either metric")
	flag.IntVar(&levenshteinRadius, "l", -1, "alias for --levenshtein-radius")
	flag.IntVar(&hammingRadius, "hamming-radius", -1, "bin radius under the Hamming metric, 0-15")
	flag.IntVar(&hammingRadius, "hr", -1, "alias for --hamming-radius")
	flag.StringVar(&proactiveOverride, "proactive-binning", "", "override the auto-default proactive-binning behavior (true|false)")
	flag.StringVar(&proactiveOverride, "proactive-levenshtein", "", "alias for --proactive-binning")
}

func main() {
	shutdown := grail.Init()
	defer shutdown()

	_ = startAt

	args := flag.Args()
	if len(args) < 4 {
		log.Fatalf("usage: grebe [flags] in-forward in-reverse out-forward out-reverse [out-unpaired-forward] [out-unpaired-reverse]")
	}

	policy, err := resolve.ParsePolicy(*collisionMode)
	if err != nil {
		log.Fatalf("%s", err.Error())
	}

	if umiLength < 0 || umiLength > 15 {
		log.Fatalf("--umi-length must be in [0,15], got %d", umiLength)
	}

	metric := umi.Hamming
	radius := 0
	switch {
	case levenshteinRadius >= 0 && hammingRadius >= 0:
		log.Fatalf("only one of --levenshtein-radius or --hamming-radius may be given")
	case levenshteinRadius >= 0:
		metric = umi.Levenshtein
		radius = levenshteinRadius
	case hammingRadius >= 0:
		metric = umi.Hamming
		radius = hammingRadius
	}
	if radius < 0 || radius > 15 {
		log.Fatalf("radius must be in [0,15], got %d", radius)
	}

	var proactive *bool
	if proactiveOverride != "" {
		v := strings.EqualFold(proactiveOverride, "true")
		if !v && !strings.EqualFold(proactiveOverride, "false") {
			log.Fatalf("--proactive-binning must be true or false, got %q", proactiveOverride)
		}
		proactive = &v
	}

	var umiKnown []byte
	if *umiKnownPath != "" {
		contents, err := ioutil.ReadFile(*umiKnownPath)
		if err != nil {
			log.Fatalf("reading --umi-known: %s", err.Error())
		}
		umiKnown = contents
	}

	opts := grebe.Opts{
		InForward:  args[0],
		InReverse:  args[1],
		OutForward: args[2],
		OutReverse: args[3],

		Phred64:   *phred64,
		UMILength: umiLength,

		Policy:    policy,
		Radius:    radius,
		Metric:    metric,
		Proactive: proactive,

		ForwardPrimer: primerBytes(*forwardPrimer),
		ReversePrimer: primerBytes(*reversePrimer),

		UMIKnownPath: umiKnown,

		ChecksumOutput: *checksumOutput,
		Silent:         *silent,
	}
	if len(args) > 4 {
		opts.OutUnpairedForward = args[4]
	}
	if len(args) > 5 {
		opts.OutUnpairedReverse = args[5]
	}

	ctx := vcontext.Background()
	metrics, err := grebe.Run(ctx, opts)
	if err != nil {
		log.Fatalf(err.Error())
	}

	fmt.Fprintln(os.Stderr, metrics.Summary())
	log.Debug.Printf("exiting")
}

func primerBytes(s string) []byte {
	if s == "" {
		return nil
	}
	return []byte(s)
}
