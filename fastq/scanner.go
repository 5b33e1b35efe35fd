package fastq

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/klauspost/compress/gzip"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Scanner reads FASTQ records one at a time from an underlying stream.
// Scanners are not threadsafe, matching the teacher's fastq.Scanner.
type Scanner struct {
	b   *bufio.Scanner
	err error
}

var errEOF = fmt.Errorf("eof")

// NewScanner constructs a Scanner reading raw (already decompressed) FASTQ
// text from r.
func NewScanner(r io.Reader) *Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Scanner{b: s}
}

// Scan reads the next record into rec. It returns false once the stream is
// exhausted or a malformed record is encountered; callers must check Err
// afterward to distinguish the two.
func (s *Scanner) Scan(rec *Record) bool {
	if s.err != nil {
		return false
	}
	if !s.b.Scan() {
		if s.err = s.b.Err(); s.err == nil {
			s.err = errEOF
		}
		return false
	}
	id := s.b.Bytes()
	if len(id) == 0 || id[0] != '@' {
		s.err = fmt.Errorf("record does not begin with '@': %q", truncate(id))
		return false
	}
	name, desc := splitID(id[1:])
	rec.Name = append(rec.Name[:0], name...)
	if desc == nil {
		rec.Desc = nil
	} else {
		rec.Desc = append(rec.Desc[:0], desc...)
	}

	if !s.scanLine() {
		return false
	}
	rec.Seq = append(rec.Seq[:0], s.b.Bytes()...)

	if !s.scanLine() {
		return false
	}
	plus := s.b.Bytes()
	if len(plus) == 0 || plus[0] != '+' {
		s.err = fmt.Errorf("record's third line does not begin with '+': %q", truncate(plus))
		return false
	}

	if !s.scanLine() {
		return false
	}
	rec.Qual = append(rec.Qual[:0], s.b.Bytes()...)
	return true
}

func (s *Scanner) scanLine() bool {
	if !s.b.Scan() {
		if s.err = s.b.Err(); s.err == nil {
			s.err = fmt.Errorf("truncated FASTQ record")
		}
		return false
	}
	return true
}

// Err returns the scanning error, if any. A clean end-of-stream is not
// reported as an error.
func (s *Scanner) Err() error {
	if s.err == errEOF {
		return nil
	}
	return s.err
}

func splitID(id []byte) (name, desc []byte) {
	if i := bytes.IndexByte(id, ' '); i >= 0 {
		return id[:i], id[i+1:]
	}
	return id, nil
}

func truncate(b []byte) []byte {
	const max = 80
	if len(b) > max {
		return b[:max]
	}
	return b
}

// Reader wraps a Scanner over a file opened through grailbio/base/file,
// transparently decompressing gzip content detected by magic prefix.
type Reader struct {
	f  file.File
	rc io.Closer
	s  *Scanner
}

// OpenReader opens path for reading. If the first two bytes of the file are
// the gzip magic number, the stream is transparently decompressed; a
// multi-member gzip stream is handled correctly because
// klauspost/compress/gzip, like the standard library, defaults to
// Multistream(true).
func OpenReader(ctx context.Context, path string, silent bool) (*Reader, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "opening", path)
	}
	rs := f.Reader(ctx)

	var magic [2]byte
	n, _ := io.ReadFull(rs, magic[:])
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		_ = f.Close(ctx)
		return nil, errors.E(err, "seeking", path)
	}

	var (
		under io.Reader = rs
		closer io.Closer
	)
	if n == 2 && bytes.Equal(magic[:], gzipMagic) {
		if !silent {
			log.Error.Printf("info: parsing %s as a gzip", path)
		}
		gr, err := gzip.NewReader(rs)
		if err != nil {
			_ = f.Close(ctx)
			return nil, errors.E(err, "opening gzip stream", path)
		}
		under = gr
		closer = gr
	}

	return &Reader{f: f, rc: closer, s: NewScanner(under)}, nil
}

// Scan reads the next record. See Scanner.Scan.
func (r *Reader) Scan(rec *Record) bool { return r.s.Scan(rec) }

// Err returns the scanning error, if any.
func (r *Reader) Err() error { return r.s.Err() }

// Close releases the underlying file (and gzip reader, if any).
func (r *Reader) Close(ctx context.Context) error {
	var err error
	if r.rc != nil {
		err = r.rc.Close()
	}
	if cerr := r.f.Close(ctx); err == nil {
		err = cerr
	}
	return err
}

// ReaderPair composes two Readers, scanning matched forward/reverse records
// in lock-step.
type ReaderPair struct {
	fwd, rev *Reader
	err      error
}

// OpenReaderPair opens the forward and reverse FASTQ inputs.
func OpenReaderPair(ctx context.Context, fwdPath, revPath string, silent bool) (*ReaderPair, error) {
	fwd, err := OpenReader(ctx, fwdPath, silent)
	if err != nil {
		return nil, err
	}
	rev, err := OpenReader(ctx, revPath, silent)
	if err != nil {
		_ = fwd.Close(ctx)
		return nil, err
	}
	return &ReaderPair{fwd: fwd, rev: rev}, nil
}

// Scan reads the next forward/reverse pair. It returns false once either
// stream is exhausted; Err distinguishes clean EOF from a discordant pair
// (one side ending before the other) or a malformed record.
func (p *ReaderPair) Scan(fwd, rev *Record) bool {
	okF := p.fwd.Scan(fwd)
	okR := p.rev.Scan(rev)
	if okF != okR {
		p.err = fmt.Errorf("discordant FASTQ pair: forward and reverse files have different record counts")
	}
	return okF && okR
}

// Err returns the first error observed on either side of the pair.
func (p *ReaderPair) Err() error {
	if err := p.fwd.Err(); err != nil {
		return err
	}
	if err := p.rev.Err(); err != nil {
		return err
	}
	return p.err
}

// Close releases both underlying readers.
func (p *ReaderPair) Close(ctx context.Context) error {
	err := p.fwd.Close(ctx)
	if cerr := p.rev.Close(ctx); err == nil {
		err = cerr
	}
	return err
}
