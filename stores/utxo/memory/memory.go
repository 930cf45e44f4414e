// Package memory keeps decoded coins in a swiss map keyed by outpoint. It is
// meant for tests and for dry runs that want to check a snapshot for duplicate
// outpoints without writing anything.
package memory

import (
	"context"
	"net/http"
	"sync"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxodump/errors"
	"github.com/bsv-blockchain/utxodump/stores/utxo"
	"github.com/bsv-blockchain/utxodump/ulogger"
	"github.com/dolthub/swiss"
)

type Outpoint struct {
	TxID chainhash.Hash
	Vout uint32
}

type Memory struct {
	logger ulogger.Logger

	mu      sync.RWMutex
	m       *swiss.Map[Outpoint, *utxo.Record]
	ordered []*utxo.Record
	closed  bool
}

func New(logger ulogger.Logger) *Memory {
	return &Memory{
		logger: logger,
		// the swiss map uses a lot less memory than the standard map
		m: swiss.NewMap[Outpoint, *utxo.Record](1024),
	}
}

func (m *Memory) Health(_ context.Context, _ bool) (int, string, error) {
	return http.StatusOK, "Memory Store available", nil
}

// Append adds all records, or none of them if one of the outpoints is already
// known, including a repeat within the batch.
func (m *Memory) Append(_ context.Context, records []*utxo.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return utxo.ErrSinkClosed
	}

	seen := make(map[Outpoint]struct{}, len(records))

	for _, record := range records {
		key := Outpoint{TxID: record.TxID, Vout: record.Vout}

		_, inBatch := seen[key]
		if inBatch || m.m.Has(key) {
			return errors.NewStorageExistsError("output %s:%d already exists", record.TxIDString(), record.Vout, utxo.ErrOutputExists)
		}

		seen[key] = struct{}{}
	}

	for _, record := range records {
		m.m.Put(Outpoint{TxID: record.TxID, Vout: record.Vout}, record)
		m.ordered = append(m.ordered, record)
	}

	return nil
}

func (m *Memory) Get(_ context.Context, txID chainhash.Hash, vout uint32) (*utxo.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.m.Get(Outpoint{TxID: txID, Vout: vout})
	if !ok {
		return nil, errors.NewNotFoundError("output %s:%d not found", txID.String(), vout)
	}

	return record, nil
}

func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.m.Count()
}

// Records returns all records in the order they were appended.
func (m *Memory) Records() []*utxo.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]*utxo.Record(nil), m.ordered...)
}

// TotalValue sums the value of all records.
func (m *Memory) TotalValue() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total uint64

	m.m.Iter(func(_ Outpoint, record *utxo.Record) bool {
		total += record.Value
		return false
	})

	return total
}

// Close keeps the contents readable, only further appends are refused.
func (m *Memory) Close(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		m.logger.Debugf("[Memory] closed with %d records", m.m.Count())
	}

	return nil
}

func (m *Memory) Destination() string {
	return "memory"
}
