package snapshot

import (
	"bytes"
	"context"
	"encoding/binary"
	"sync"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxodump/chaincfg"
	"github.com/bsv-blockchain/utxodump/stores/utxo"
)

// putVarInt appends the VarInt encoding of n to b.
func putVarInt(b []byte, n uint64) []byte {
	var tmp [10]byte

	l := 0

	for {
		tmp[l] = byte(n & 0x7f)
		if l > 0 {
			tmp[l] |= 0x80
		}

		if n <= 0x7f {
			break
		}

		n = (n >> 7) - 1
		l++
	}

	for ; l >= 0; l-- {
		b = append(b, tmp[l])
	}

	return b
}

func putCompactSize(b []byte, n uint64) []byte {
	switch {
	case n < 0xfd:
		return append(b, byte(n))
	case n <= 0xffff:
		b = append(b, 0xfd)
		return binary.LittleEndian.AppendUint16(b, uint16(n))
	case n <= 0xffffffff:
		b = append(b, 0xfe)
		return binary.LittleEndian.AppendUint32(b, uint32(n))
	default:
		b = append(b, 0xff)
		return binary.LittleEndian.AppendUint64(b, n)
	}
}

func compressAmount(n uint64) uint64 {
	if n == 0 {
		return 0
	}

	e := uint64(0)
	for n%10 == 0 && e < 9 {
		n /= 10
		e++
	}

	if e < 9 {
		d := n % 10
		n /= 10

		return 1 + (n*9+d-1)*10 + e
	}

	return 1 + (n-1)*10 + 9
}

// compressed script encodings
func p2pkhCompressed(hash []byte) []byte {
	return append([]byte{0x00}, hash...)
}

func rawCompressed(script []byte) []byte {
	return append(putVarInt(nil, uint64(len(script))+numSpecialScripts), script...)
}

// snapshotBuilder writes snapshot fixtures.
type snapshotBuilder struct {
	bytes.Buffer
}

func newSnapshotBuilder(net chaincfg.NetMagic, blockHash chainhash.Hash, coins uint64) *snapshotBuilder {
	s := &snapshotBuilder{}

	s.Write(Magic)
	s.Write(binary.LittleEndian.AppendUint16(nil, SupportedVersion))
	s.Write(net[:])
	s.Write(blockHash[:])
	s.Write(binary.LittleEndian.AppendUint64(nil, coins))

	return s
}

func (s *snapshotBuilder) group(txid chainhash.Hash, count uint64) *snapshotBuilder {
	s.Write(txid[:])
	s.Write(putCompactSize(nil, count))

	return s
}

func (s *snapshotBuilder) coin(vout uint64, height uint64, coinbase bool, value uint64, compressedScript []byte) *snapshotBuilder {
	code := height << 1
	if coinbase {
		code |= 1
	}

	b := putCompactSize(nil, vout)
	b = putVarInt(b, code)
	b = putVarInt(b, compressAmount(value))
	b = append(b, compressedScript...)

	s.Write(b)

	return s
}

func hashOf(b byte) chainhash.Hash {
	var h chainhash.Hash
	for i := range h {
		h[i] = b
	}

	return h
}

// recordingSink keeps every appended batch.
type recordingSink struct {
	mu      sync.Mutex
	batches [][]*utxo.Record
	failAt  int
	closed  bool

	startedHash  *chainhash.Hash
	startedCoins uint64
}

func (s *recordingSink) StartSnapshot(_ context.Context, blockHash chainhash.Hash, coinCount uint64) error {
	s.startedHash = &blockHash
	s.startedCoins = coinCount

	return nil
}

func (s *recordingSink) Append(_ context.Context, records []*utxo.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failAt > 0 && len(s.batches)+1 == s.failAt {
		return utxo.ErrSinkClosed
	}

	s.batches = append(s.batches, append([]*utxo.Record(nil), records...))

	return nil
}

func (s *recordingSink) Close(context.Context) error {
	s.closed = true
	return nil
}

func (s *recordingSink) Destination() string {
	return "recording"
}

func (s *recordingSink) records() []*utxo.Record {
	var all []*utxo.Record
	for _, b := range s.batches {
		all = append(all, b...)
	}

	return all
}
