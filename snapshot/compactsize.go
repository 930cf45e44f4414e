package snapshot

import (
	"encoding/binary"
	"io"

	"github.com/bsv-blockchain/utxodump/errors"
)

// ReadCompactSize reads a CompactSize length prefix: values below 253 are a
// single byte, 253, 254 and 255 announce a little endian uint16, uint32 and
// uint64 respectively. Non-canonical encodings are accepted.
func ReadCompactSize(r io.Reader) (uint64, error) {
	var b [8]byte

	if err := readFull(r, b[:1], "compact size"); err != nil {
		return 0, err
	}

	switch b[0] {
	case 0xfd:
		if err := readFull(r, b[:2], "compact size uint16"); err != nil {
			return 0, err
		}

		return uint64(binary.LittleEndian.Uint16(b[:2])), nil

	case 0xfe:
		if err := readFull(r, b[:4], "compact size uint32"); err != nil {
			return 0, err
		}

		return uint64(binary.LittleEndian.Uint32(b[:4])), nil

	case 0xff:
		if err := readFull(r, b[:8], "compact size uint64"); err != nil {
			return 0, err
		}

		return binary.LittleEndian.Uint64(b[:8]), nil

	default:
		return uint64(b[0]), nil
	}
}

func readFull(r io.Reader, buf []byte, what string) error {
	n, err := io.ReadFull(r, buf)
	if err == nil {
		return nil
	}

	if _, ok := err.(*errors.Error); ok {
		return err
	}

	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.NewTruncatedInputError("stream ended reading %s: got %d of %d bytes", what, n, len(buf), err)
	}

	return errors.NewProcessingError("failed to read %s", what, err)
}
