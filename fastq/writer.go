package fastq

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/klauspost/compress/gzip"
)

var newline = []byte{'\n'}

// Writer writes FASTQ records one at a time to an underlying io.Writer.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter constructs a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes rec in FASTQ format. An error is returned (and latched) if
// any prior or current write failed.
func (w *Writer) Write(rec *Record) error {
	w.writeln(idLine(rec))
	w.writeln(rec.Seq)
	w.writeln([]byte("+"))
	w.writeln(rec.Qual)
	return w.err
}

func (w *Writer) writeln(line []byte) {
	if w.err != nil {
		return
	}
	if _, w.err = w.w.Write(line); w.err == nil {
		_, w.err = w.w.Write(newline)
	}
}

// nullWriter discards everything written to it. Used when an output path is
// absent, matching the teacher's WriterMaybeGzip::NULL variant.
type nullWriter struct{}

func (nullWriter) Write(p []byte) (int, error) { return len(p), nil }
func (nullWriter) Close() error                { return nil }

// OutputStream owns one compressed-or-plain output destination: a FASTQ
// Writer plus everything needed to flush and close it cleanly, and an
// optional running checksum of the bytes written.
type OutputStream struct {
	f        file.File
	buf      *bufio.Writer
	codec    io.WriteCloser // non-nil for gzip/snappy; nil for plain or null
	fastq    *Writer
	checksum *checksumWriter
}

// NewTestOutputStream wraps an arbitrary io.Writer (typically a
// *bytes.Buffer) as a plain, uncompressed OutputStream, bypassing
// file.Create entirely. For tests only.
func NewTestOutputStream(w io.Writer) *OutputStream {
	return &OutputStream{fastq: NewWriter(w)}
}

// OpenOutputStream opens path for writing a FASTQ stream. An empty path
// yields a null sink that discards all writes, matching spec.md's
// writer-pair contract for absent output paths. A non-empty, already
// existing, non-empty file is refused. The codec (gzip, snappy, or plain)
// is selected by file extension. When withChecksum is true, a running
// SeaHash digest of the written bytes is kept and written to a
// "<path>.seahash" sidecar file on Close.
func OpenOutputStream(ctx context.Context, path string, withChecksum bool) (*OutputStream, error) {
	if path == "" {
		return &OutputStream{fastq: NewWriter(nullWriter{})}, nil
	}

	if stat, err := file.Stat(ctx, path); err == nil && stat.Size() > 0 {
		return nil, errors.E(fmt.Sprintf("refusing to overwrite nonempty file %s", path))
	}

	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "creating", path)
	}

	var sink io.Writer = f.Writer(ctx)
	out := &OutputStream{f: f}
	if withChecksum {
		out.checksum = newChecksumWriter(sink)
		sink = out.checksum
	}

	buf := bufio.NewWriter(sink)
	out.buf = buf

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".gz", ".gzip":
		log.Error.Printf("info: writing %s as a gzip", path)
		gw := gzip.NewWriter(buf)
		out.codec = gw
		out.fastq = NewWriter(gw)
	case ".sz", ".snappy":
		log.Error.Printf("info: writing %s as snappy", path)
		sw := snappy.NewBufferedWriter(buf)
		out.codec = sw
		out.fastq = NewWriter(sw)
	default:
		out.fastq = NewWriter(buf)
	}
	return out, nil
}

// Write writes a single record to the stream.
func (o *OutputStream) Write(rec *Record) error {
	return o.fastq.Write(rec)
}

// Close flushes and closes the stream, writing a checksum sidecar if one
// was requested at open time.
func (o *OutputStream) Close(ctx context.Context) error {
	if o.f == nil {
		return nil // null sink
	}
	var err error
	if o.codec != nil {
		err = o.codec.Close()
	}
	if o.buf != nil {
		if ferr := o.buf.Flush(); err == nil {
			err = ferr
		}
	}
	if cerr := o.f.Close(ctx); err == nil {
		err = cerr
	}
	if o.checksum != nil {
		if serr := o.checksum.writeSidecar(ctx, o.f); err == nil && serr != nil {
			err = serr
		}
	}
	return err
}

// WriterPair composes two OutputStreams, one per read direction.
type WriterPair struct {
	Forward, Reverse *OutputStream
}

// OpenWriterPair opens the forward and reverse output streams.
func OpenWriterPair(ctx context.Context, fwdPath, revPath string, withChecksum bool) (*WriterPair, error) {
	fwd, err := OpenOutputStream(ctx, fwdPath, withChecksum)
	if err != nil {
		return nil, err
	}
	rev, err := OpenOutputStream(ctx, revPath, withChecksum)
	if err != nil {
		_ = fwd.Close(ctx)
		return nil, err
	}
	return &WriterPair{Forward: fwd, Reverse: rev}, nil
}

// WritePair writes both halves of pair to their respective streams.
func (p *WriterPair) WritePair(pair Pair) error {
	if err := p.Forward.Write(pair.Forward); err != nil {
		return errors.E(err, "writing forward record")
	}
	if err := p.Reverse.Write(pair.Reverse); err != nil {
		return errors.E(err, "writing reverse record")
	}
	return nil
}

// Close closes both streams.
func (p *WriterPair) Close(ctx context.Context) error {
	err := p.Forward.Close(ctx)
	if cerr := p.Reverse.Close(ctx); err == nil {
		err = cerr
	}
	return err
}
