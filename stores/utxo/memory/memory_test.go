package memory

import (
	"context"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxodump/errors"
	"github.com/bsv-blockchain/utxodump/stores/utxo"
	"github.com/bsv-blockchain/utxodump/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hash = chainhash.HashH([]byte("tx"))

func record(vout uint32, value uint64) *utxo.Record {
	return &utxo.Record{TxID: hash, Vout: vout, Value: value, Height: 1, Script: []byte{0x51}}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	db := New(ulogger.TestLogger{})

	require.NoError(t, db.Append(ctx, []*utxo.Record{record(1, 10), record(0, 20)}))
	require.NoError(t, db.Append(ctx, []*utxo.Record{record(2, 30)}))

	assert.Equal(t, 3, db.Count())
	assert.Equal(t, uint64(60), db.TotalValue())

	records := db.Records()
	require.Len(t, records, 3)
	assert.Equal(t, uint32(1), records[0].Vout)
	assert.Equal(t, uint32(2), records[2].Vout)

	r, err := db.Get(ctx, hash, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), r.Value)

	_, err = db.Get(ctx, hash, 9)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestMemory_Duplicates(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		batch []*utxo.Record
	}{
		{"already stored", []*utxo.Record{record(5, 1), record(0, 1)}},
		{"within the batch", []*utxo.Record{record(5, 1), record(5, 2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := New(ulogger.TestLogger{})
			require.NoError(t, db.Append(ctx, []*utxo.Record{record(0, 1)}))

			err := db.Append(ctx, tt.batch)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrStorageExists))

			// nothing of the failed batch is visible
			assert.Equal(t, 1, db.Count())
			assert.Len(t, db.Records(), 1)
		})
	}
}

func TestMemory_Close(t *testing.T) {
	ctx := context.Background()
	db := New(ulogger.TestLogger{})

	require.NoError(t, db.Append(ctx, []*utxo.Record{record(0, 1)}))
	require.NoError(t, db.Close(ctx))
	require.NoError(t, db.Close(ctx))

	err := db.Append(ctx, []*utxo.Record{record(1, 1)})
	assert.True(t, errors.Is(err, utxo.ErrSinkClosed))
	assert.Equal(t, 1, db.Count())
	assert.Equal(t, "memory", db.Destination())
}
