package utxoset

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxodump/errors"
	"github.com/bsv-blockchain/utxodump/stores/utxo"
)

var EOFMarker = make([]byte, 32) // 32 zero bytes

// UTXOWrapper holds the unspent outputs of one transaction that share a height
// and coinbase flag.
type UTXOWrapper struct {
	TxID     chainhash.Hash
	Height   uint32
	Coinbase bool
	UTXOs    []*UTXO
}

type UTXO struct {
	Index  uint32
	Value  uint64
	Script []byte
}

// accepts reports whether record can be added to this wrapper.
func (uw *UTXOWrapper) accepts(record *utxo.Record) bool {
	return uw.TxID == record.TxID && uw.Height == record.Height && uw.Coinbase == record.Coinbase
}

func newUTXOWrapper(record *utxo.Record) *UTXOWrapper {
	return &UTXOWrapper{
		TxID:     record.TxID,
		Height:   record.Height,
		Coinbase: record.Coinbase,
	}
}

func (uw *UTXOWrapper) add(record *utxo.Record) {
	uw.UTXOs = append(uw.UTXOs, &UTXO{
		Index:  record.Vout,
		Value:  record.Value,
		Script: record.Script,
	})
}

// Records expands the wrapper back into one record per output.
func (uw *UTXOWrapper) Records() []*utxo.Record {
	records := make([]*utxo.Record, 0, len(uw.UTXOs))

	for _, u := range uw.UTXOs {
		records = append(records, &utxo.Record{
			TxID:     uw.TxID,
			Vout:     u.Index,
			Value:    u.Value,
			Coinbase: uw.Coinbase,
			Height:   uw.Height,
			Script:   u.Script,
		})
	}

	return records
}

// Bytes serialises the wrapper: txid, height<<1|coinbase and the output count
// followed by every output, all integers little endian.
func (uw *UTXOWrapper) Bytes() []byte {
	size := 32 + 4 + 4
	for _, u := range uw.UTXOs {
		size += 4 + 8 + 4 + len(u.Script)
	}

	b := make([]byte, 0, size)
	b = append(b, uw.TxID[:]...)

	var flag uint32
	if uw.Coinbase {
		flag = 1
	}

	b = binary.LittleEndian.AppendUint32(b, (uw.Height<<1)|flag)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(uw.UTXOs))) // nolint:gosec

	for _, u := range uw.UTXOs {
		b = u.appendBytes(b)
	}

	return b
}

// NewUTXOWrapperFromReader reads the next wrapper. At the EOF marker it
// returns an empty wrapper and io.EOF.
func NewUTXOWrapperFromReader(r io.Reader) (*UTXOWrapper, error) {
	uw := &UTXOWrapper{}

	if n, err := io.ReadFull(r, uw.TxID[:]); err != nil {
		return nil, errors.NewStorageError("failed to read txid, expected 32 bytes got %d", n, err)
	}

	if bytes.Equal(uw.TxID[:], EOFMarker) {
		return &UTXOWrapper{}, io.EOF
	}

	var b [8]byte
	if n, err := io.ReadFull(r, b[:]); err != nil {
		return nil, errors.NewStorageError("failed to read height and number of utxos, expected 8 bytes got %d", n, err)
	}

	encodedHeight := binary.LittleEndian.Uint32(b[:4])
	numUTXOs := binary.LittleEndian.Uint32(b[4:])

	uw.Height = encodedHeight >> 1
	uw.Coinbase = encodedHeight&1 == 1
	uw.UTXOs = make([]*UTXO, numUTXOs)

	var err error

	for i := uint32(0); i < numUTXOs; i++ {
		if uw.UTXOs[i], err = newUTXOFromReader(r); err != nil {
			return nil, err
		}
	}

	return uw, nil
}

func (uw *UTXOWrapper) String() string {
	s := strings.Builder{}

	if uw.Coinbase {
		s.WriteString(fmt.Sprintf("%s - (height %d coinbase) - %d output(s):\n", uw.TxID.String(), uw.Height, len(uw.UTXOs)))
	} else {
		s.WriteString(fmt.Sprintf("%s - (height %d) - %d output(s):\n", uw.TxID.String(), uw.Height, len(uw.UTXOs)))
	}

	for _, u := range uw.UTXOs {
		s.WriteString(fmt.Sprintf("\t%v\n", u))
	}

	return s.String()
}

func newUTXOFromReader(r io.Reader) (*UTXO, error) {
	var b [16]byte // index + value + length of script

	if _, err := io.ReadFull(r, b[:]); err != nil {
		return nil, errors.NewStorageError("failed to read utxo", err)
	}

	u := &UTXO{
		Index: binary.LittleEndian.Uint32(b[0:4]),
		Value: binary.LittleEndian.Uint64(b[4:12]),
	}

	u.Script = make([]byte, binary.LittleEndian.Uint32(b[12:16]))

	if _, err := io.ReadFull(r, u.Script); err != nil {
		return nil, errors.NewStorageError("failed to read script of utxo %d", u.Index, err)
	}

	return u, nil
}

func (u *UTXO) appendBytes(b []byte) []byte {
	b = binary.LittleEndian.AppendUint32(b, u.Index)
	b = binary.LittleEndian.AppendUint64(b, u.Value)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(u.Script))) // nolint:gosec

	return append(b, u.Script...)
}

func (u *UTXO) String() string {
	return fmt.Sprintf("%d: %d - %x", u.Index, u.Value, u.Script)
}
