package util

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/bsv-blockchain/utxodump/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Input is an opened snapshot stream. Gzip and zstd compressed files are
// recognised by their magic bytes and decompressed on the fly.
type Input struct {
	io.Reader
	Compression string
	// Size is the size of the file on disk, compressed or not.
	Size int64

	counter *countingReader
	closers []func() error
}

// BytesRead returns the number of (possibly compressed) bytes read from disk so far.
func (in *Input) BytesRead() int64 {
	return in.counter.n
}

func (in *Input) Close() error {
	var errs []error

	for i := len(in.closers) - 1; i >= 0; i-- {
		if err := in.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// OpenInput opens filename for reading.
func OpenInput(filename string) (*Input, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.NewNotFoundError("could not open input file %s", filename, err)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.NewProcessingError("could not stat input file %s", filename, err)
	}

	in, err := NewInput(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	in.Size = stat.Size()
	in.closers = append([]func() error{f.Close}, in.closers...)

	return in, nil
}

// NewInput wraps r, detecting compression from the first bytes of the stream.
func NewInput(r io.Reader) (*Input, error) {
	counter := &countingReader{r: r}
	br := bufio.NewReader(counter)

	in := &Input{
		Compression: CompressionNone,
		counter:     counter,
	}

	// a short or empty stream is left for the decoder to report
	head, _ := br.Peek(len(zstdMagic))

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, errors.NewProcessingError("could not open gzip stream", err)
		}

		in.Reader = gz
		in.Compression = CompressionGzip
		in.closers = append(in.closers, gz.Close)

	case bytes.HasPrefix(head, zstdMagic):
		dec, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, errors.NewProcessingError("could not open zstd stream", err)
		}

		in.Reader = dec
		in.Compression = CompressionZstd
		in.closers = append(in.closers, func() error {
			dec.Close()
			return nil
		})

	default:
		in.Reader = br
	}

	return in, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)

	return n, err
}
