package utxoset

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxodump/errors"
)

// Reader iterates the wrappers of a utxo-set file.
type Reader struct {
	r                 *bufio.Reader
	BlockHash         chainhash.Hash
	Height            uint32
	PreviousBlockHash chainhash.Hash
}

func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)

	var header [headerSize]byte
	if n, err := io.ReadFull(br, header[:]); err != nil {
		return nil, errors.NewStorageError("failed to read utxo-set header, expected %d bytes got %d", headerSize, n, err)
	}

	reader := &Reader{r: br}
	copy(reader.BlockHash[:], header[:32])
	reader.Height = binary.LittleEndian.Uint32(header[32:36])
	copy(reader.PreviousBlockHash[:], header[36:])

	return reader, nil
}

// Next returns the next wrapper, or io.EOF after the last one.
func (r *Reader) Next() (*UTXOWrapper, error) {
	return NewUTXOWrapperFromReader(r.r)
}

// GetFooter returns the wrapper and utxo counts from the end of a utxo-set
// file.
func GetFooter(f *os.File) (uint64, uint64, error) {
	if _, err := f.Seek(-footerSize, io.SeekEnd); err != nil {
		return 0, 0, errors.NewProcessingError("error seeking to EOF marker", err)
	}

	b := make([]byte, footerSize)
	if _, err := io.ReadFull(f, b); err != nil {
		return 0, 0, errors.NewProcessingError("error reading EOF marker", err)
	}

	if !bytes.Equal(b[0:32], EOFMarker) {
		return 0, 0, errors.NewProcessingError("EOF marker not found")
	}

	return binary.LittleEndian.Uint64(b[32:40]), binary.LittleEndian.Uint64(b[40:48]), nil
}
