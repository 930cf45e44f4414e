package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxodump/chaincfg"
	"github.com/bsv-blockchain/utxodump/errors"
)

const (
	// SupportedVersion is the only snapshot format version this decoder reads.
	SupportedVersion uint16 = 2

	// HeaderSize is magic (5) + version (2) + network magic (4) + block hash (32) + coin count (8).
	HeaderSize = 5 + 2 + 4 + chainhash.HashSize + 8
)

// Magic is the 5 byte prefix of every snapshot file.
var Magic = []byte{'u', 't', 'x', 'o', 0xff}

// Header is the fixed size preamble of a snapshot.
type Header struct {
	Version   uint16
	Network   chaincfg.NetMagic
	BlockHash chainhash.Hash
	CoinCount uint64
}

// NetworkName returns the display name of the snapshot's network.
func (h *Header) NetworkName() string {
	return chaincfg.NetworkName(h.Network)
}

// String renders the one line summary printed before decoding starts.
func (h *Header) String() string {
	hash := h.BlockHash.String()

	return fmt.Sprintf("UTXO Snapshot for %s at block hash %s..., contains %d coins", h.NetworkName(), hash[:32], h.CoinCount)
}

// ReadHeader reads and validates the snapshot header. Magic and version are
// checked before anything else is read.
func ReadHeader(r io.Reader) (*Header, error) {
	var magic [5]byte
	if err := readFull(r, magic[:], "magic"); err != nil {
		return nil, err
	}

	if !bytes.Equal(magic[:], Magic) {
		return nil, errors.NewBadMagicError("expected %x, got %x", Magic, magic[:])
	}

	var b [8]byte
	if err := readFull(r, b[:2], "version"); err != nil {
		return nil, err
	}

	h := &Header{
		Version: binary.LittleEndian.Uint16(b[:2]),
	}

	if h.Version != SupportedVersion {
		return nil, errors.NewUnsupportedVersionError("snapshot version %d, only version %d is supported", h.Version, SupportedVersion)
	}

	if err := readFull(r, h.Network[:], "network magic"); err != nil {
		return nil, err
	}

	if err := readFull(r, h.BlockHash[:], "block hash"); err != nil {
		return nil, err
	}

	if err := readFull(r, b[:], "coin count"); err != nil {
		return nil, err
	}

	h.CoinCount = binary.LittleEndian.Uint64(b[:])

	return h, nil
}
