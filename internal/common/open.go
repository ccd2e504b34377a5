package common

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
)

// OpenData opens a data file for reading, transparently decompressing
// .gz (parallel gzip) and .zst files. The caller must Close the result.
func OpenData(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := pgzip.NewReaderN(f, 256*1024, runtime.NumCPU())
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip open %s: %w", path, err)
		}
		return &stackedReader{Reader: gz, closers: []io.Closer{gz, f}}, nil
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd open %s: %w", path, err)
		}
		return &stackedReader{Reader: dec, closers: []io.Closer{decoderCloser{dec}, f}}, nil
	default:
		return f, nil
	}
}

// stackedReader closes a decompressor and the underlying file in order.
type stackedReader struct {
	io.Reader
	closers []io.Closer
}

func (r *stackedReader) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// zstd.Decoder.Close has no error return.
type decoderCloser struct{ d *zstd.Decoder }

func (c decoderCloser) Close() error {
	c.d.Close()
	return nil
}
