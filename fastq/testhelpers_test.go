package fastq

import (
	"bytes"
	"io/ioutil"

	"github.com/klauspost/compress/gzip"
)

// writePlain writes contents verbatim to path, following the teacher's
// writeFile helper in encoding/fastq/downsample_test.go minus the gzip
// framing.
func writePlain(path, contents string) error {
	return ioutil.WriteFile(path, []byte(contents), 0600)
}

// writeGzip gzips contents and writes the result to path, exactly as the
// teacher's writeFile helper does in encoding/fastq/downsample_test.go.
func writeGzip(path, contents string) error {
	buf := bytes.Buffer{}
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(contents)); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return ioutil.WriteFile(path, buf.Bytes(), 0600)
}
