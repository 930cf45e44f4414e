package snapshot

import (
	"bufio"
	"io"

	"github.com/bsv-blockchain/utxodump/errors"
)

// Reader is what the field codecs read from. Cursor implements it, and so
// does *bytes.Reader.
type Reader interface {
	io.Reader
	io.ByteReader
}

// Cursor is a forward-only buffered reader over a snapshot stream. Every read
// either returns exactly the requested number of bytes or a TRUNCATED_INPUT
// error; there is no seeking.
type Cursor struct {
	r      *bufio.Reader
	offset uint64
}

func NewCursor(r io.Reader, bufferSize int) *Cursor {
	if bufferSize <= 0 {
		bufferSize = defaultReadBufferSize
	}

	return &Cursor{r: bufio.NewReaderSize(r, bufferSize)}
}

// Offset returns the number of bytes consumed so far.
func (c *Cursor) Offset() uint64 {
	return c.offset
}

// Read implements io.Reader. A short read at the end of the stream is
// reported as TRUNCATED_INPUT.
func (c *Cursor) Read(p []byte) (int, error) {
	n, err := io.ReadFull(c.r, p)
	c.offset += uint64(n) // nolint:gosec

	if err != nil {
		return n, truncated(c.offset, len(p)-n, err)
	}

	return n, nil
}

// ReadFull reads exactly n bytes.
func (c *Cursor) ReadFull(n int) ([]byte, error) {
	buf := make([]byte, n)

	if _, err := c.Read(buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// ReadByte implements io.ByteReader.
func (c *Cursor) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err != nil {
		return 0, truncated(c.offset, 1, err)
	}

	c.offset++

	return b, nil
}

// AtEOF reports whether the underlying stream is exhausted. It consumes at
// most one byte and is only meant to be called once decoding is complete.
func (c *Cursor) AtEOF() (bool, error) {
	_, err := c.r.ReadByte()
	if err == io.EOF {
		return true, nil
	}

	if err != nil {
		return false, errors.NewProcessingError("failed to probe for end of stream at offset %d", c.offset, err)
	}

	c.offset++

	return false, nil
}

func truncated(offset uint64, missing int, err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		tErr := errors.New(errors.ERR_TRUNCATED_INPUT, "stream ended %d byte(s) short at offset %d", missing, offset)
		tErr.SetData("offset", offset)

		return tErr
	}

	return errors.NewProcessingError("failed to read snapshot at offset %d", offset, err)
}
