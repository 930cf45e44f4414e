// Package utxo defines the sink that decoded snapshot coins are written to,
// and the record type handed to it.
//
// Sink implementations live in sub packages (sql, csv, utxoset, memory,
// nullstore) and are created from a URL by the factory package.
package utxo

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// Record is one unspent output read from a snapshot.
type Record struct {
	TxID     chainhash.Hash
	Vout     uint32
	Value    uint64
	Coinbase bool
	Height   uint32
	Script   []byte
}

// TxIDString returns the transaction id in big-endian display order.
func (r *Record) TxIDString() string {
	return r.TxID.String()
}

func (r *Record) ScriptHex() string {
	return hex.EncodeToString(r.Script)
}

// CoinbaseInt returns the coinbase flag as 0 or 1, the way it is persisted.
func (r *Record) CoinbaseInt() int {
	if r.Coinbase {
		return 1
	}

	return 0
}

func (r *Record) String() string {
	return fmt.Sprintf("%s:%d - %d sat, height %d, coinbase %d, script %x", r.TxID, r.Vout, r.Value, r.Height, r.CoinbaseInt(), r.Script)
}

// Sink persists decoded records.
//
// Append is called once per batch and must be all-or-nothing: when it returns
// an error none of the batch may be visible, when it returns nil all of it
// must be durable. Records are not modified after they are handed over, but
// the slice itself may be reused by the caller once Append returns.
type Sink interface {
	Append(ctx context.Context, records []*Record) error
	// Close flushes any buffered output and releases the sink's resources.
	// It is called exactly once, also after a failed decode.
	Close(ctx context.Context) error
	// Destination describes where the records end up, for log messages.
	Destination() string
}

// SnapshotAware is implemented by sinks that need the snapshot header, for
// example to name their output after the block. StartSnapshot is called once,
// after the header was validated and before the first Append.
type SnapshotAware interface {
	StartSnapshot(ctx context.Context, blockHash chainhash.Hash, coinCount uint64) error
}
