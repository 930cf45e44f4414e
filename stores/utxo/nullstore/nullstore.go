package nullstore

import (
	"context"
	"sync/atomic"

	"github.com/bsv-blockchain/utxodump/stores/utxo"
)

// NullStore discards everything it is given and only counts it.
type NullStore struct {
	records atomic.Uint64
	batches atomic.Uint64
}

func NewNullStore() (*NullStore, error) {
	return &NullStore{}, nil
}

func (m *NullStore) Append(_ context.Context, records []*utxo.Record) error {
	m.records.Add(uint64(len(records)))
	m.batches.Add(1)

	return nil
}

func (m *NullStore) Records() uint64 {
	return m.records.Load()
}

func (m *NullStore) Batches() uint64 {
	return m.batches.Load()
}

func (m *NullStore) Close(_ context.Context) error {
	return nil
}

func (m *NullStore) Destination() string {
	return "null"
}
