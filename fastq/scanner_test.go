package fastq

import (
	"bytes"
	"context"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/assert"
)

const fourRecords = `@r1 desc1
ACGTACGT
+
IIIIIIII
@r2
TTTTGGGG
+
IIII####
@r3 desc3
NNNNNNNN
+
IIIIIIII
@r4
ACGT
+
IIII
`

func stringScanner(s string) *Scanner {
	return NewScanner(bytes.NewReader([]byte(s)))
}

func TestScannerReadsEveryRecord(t *testing.T) {
	s := stringScanner(fourRecords)
	var r Record
	var got []string
	for s.Scan(&r) {
		got = append(got, string(r.Name)+"|"+string(r.Seq)+"|"+string(r.Qual))
	}
	assert.NoError(t, s.Err())
	assert.Equal(t, []string{
		"r1|ACGTACGT|IIIIIIII",
		"r2|TTTTGGGG|IIII####",
		"r3|NNNNNNNN|IIIIIIII",
		"r4|ACGT|IIII",
	}, got)
}

func TestScannerSplitsNameAndDesc(t *testing.T) {
	s := stringScanner(fourRecords)
	var r Record
	assert.True(t, s.Scan(&r))
	assert.Equal(t, "r1", string(r.Name))
	assert.Equal(t, "desc1", string(r.Desc))

	assert.True(t, s.Scan(&r))
	assert.Equal(t, "r2", string(r.Name))
	assert.Nil(t, r.Desc)
}

func TestScannerRejectsMissingAtSign(t *testing.T) {
	s := stringScanner("12312#\nACGT\n+\nIIII\n")
	var r Record
	assert.False(t, s.Scan(&r))
	assert.Error(t, s.Err())
}

func TestScannerRejectsTruncatedRecord(t *testing.T) {
	s := stringScanner("@r1\nACGT\n")
	var r Record
	assert.False(t, s.Scan(&r))
	assert.Error(t, s.Err())
}

func TestScannerRejectsMissingPlusLine(t *testing.T) {
	s := stringScanner("@r1\nACGT\nnot-a-plus\nIIII\n")
	var r Record
	assert.False(t, s.Scan(&r))
	assert.Error(t, s.Err())
}

func TestScannerCleanEOFIsNotAnError(t *testing.T) {
	s := stringScanner(fourRecords)
	var r Record
	for s.Scan(&r) {
	}
	assert.NoError(t, s.Err())
}

func TestReaderPairDetectsDiscordantLength(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	fwdPath := dir + "/fwd.fastq"
	revPath := dir + "/rev.fastq"
	assert.NoError(t, writePlain(fwdPath, fourRecords))
	assert.NoError(t, writePlain(revPath, "@r1\nACGT\n+\nIIII\n"))

	ctx := context.Background()
	p, err := OpenReaderPair(ctx, fwdPath, revPath, true)
	assert.NoError(t, err)
	defer p.Close(ctx)

	var fwd, rev Record
	for p.Scan(&fwd, &rev) {
	}
	assert.Error(t, p.Err())
}

func TestReaderPairScansConcordantPairs(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	fwdPath := dir + "/fwd.fastq"
	revPath := dir + "/rev.fastq"
	assert.NoError(t, writePlain(fwdPath, fourRecords))
	assert.NoError(t, writePlain(revPath, fourRecords))

	ctx := context.Background()
	p, err := OpenReaderPair(ctx, fwdPath, revPath, true)
	assert.NoError(t, err)
	defer p.Close(ctx)

	n := 0
	var fwd, rev Record
	for p.Scan(&fwd, &rev) {
		n++
	}
	assert.NoError(t, p.Err())
	assert.Equal(t, 4, n)
}

func TestOpenReaderDetectsGzipMagic(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	path := dir + "/in.fastq.gz"
	assert.NoError(t, writeGzip(path, fourRecords))

	ctx := context.Background()
	r, err := OpenReader(ctx, path, true)
	assert.NoError(t, err)
	defer r.Close(ctx)

	n := 0
	var record Record
	for r.Scan(&record) {
		n++
	}
	assert.NoError(t, r.Err())
	assert.Equal(t, 4, n)
}
