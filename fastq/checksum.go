package fastq

import (
	"context"
	"fmt"
	"hash"
	"io"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// checksumWriter wraps an io.Writer, accumulating a running SeaHash digest
// of every byte written to it. This is the same hash the teacher uses in
// encoding/bamprovider/concurrentmap.go, here repurposed from a shard
// selector into a streaming integrity checksum.
type checksumWriter struct {
	under io.Writer
	state hash.Hash64
}

func newChecksumWriter(under io.Writer) *checksumWriter {
	return &checksumWriter{under: under, state: seahash.New()}
}

func (c *checksumWriter) Write(p []byte) (int, error) {
	n, err := c.under.Write(p)
	if n > 0 {
		_, _ = c.state.Write(p[:n])
	}
	return n, err
}

// writeSidecar writes a "<path>.seahash" file alongside f's path containing
// the hex digest of everything written to this stream.
func (c *checksumWriter) writeSidecar(ctx context.Context, f file.File) error {
	sidecarPath := f.Name() + ".seahash"
	out, err := file.Create(ctx, sidecarPath)
	if err != nil {
		return errors.E(err, "creating checksum sidecar", sidecarPath)
	}
	_, werr := fmt.Fprintf(out.Writer(ctx), "%016x  %s\n", c.state.Sum64(), f.Name())
	cerr := out.Close(ctx)
	if werr != nil {
		return errors.E(werr, "writing checksum sidecar", sidecarPath)
	}
	return cerr
}
