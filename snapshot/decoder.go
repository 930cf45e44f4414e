// Package snapshot decodes UTXO snapshots written by dumptxoutset (format
// version 2) and hands every coin to a utxo.Sink.
package snapshot

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/bsv-blockchain/utxodump/errors"
	"github.com/bsv-blockchain/utxodump/settings"
	"github.com/bsv-blockchain/utxodump/stores/utxo"
	"github.com/bsv-blockchain/utxodump/ulogger"
	"github.com/bsv-blockchain/utxodump/util"
)

const (
	// DefaultBatchSize is the number of records handed to the sink at once.
	DefaultBatchSize = 16 * 1024

	// DefaultProgressInterval is the number of coins between progress reports.
	DefaultProgressInterval = 1024 * 1024

	defaultReadBufferSize = 1024 * 1024
)

// Stats describes a finished (or aborted) decode.
type Stats struct {
	Header    *Header
	Coins     uint64
	Groups    uint64
	Batches   uint64
	MaxHeight uint32
	// Bytes is the number of decompressed snapshot bytes consumed.
	Bytes   uint64
	Elapsed time.Duration
	// TrailingData is set when bytes were left after the last declared coin.
	TrailingData bool
}

type Option func(*Decoder)

// WithVerbose logs every decoded coin at DEBUG level.
func WithVerbose(verbose bool) Option {
	return func(d *Decoder) {
		d.verbose = verbose
	}
}

func WithBatchSize(size int) Option {
	return func(d *Decoder) {
		if size > 0 {
			d.batchSize = size
		}
	}
}

func WithProgressInterval(interval uint64) Option {
	return func(d *Decoder) {
		if interval > 0 {
			d.progressInterval = interval
		}
	}
}

// WithMaxScriptSize lowers (or raises) the raw script safety bound.
func WithMaxScriptSize(size int) Option {
	return func(d *Decoder) {
		if size > 0 {
			d.maxScriptSize = size
		}
	}
}

func WithReadBufferSize(size int) Option {
	return func(d *Decoder) {
		if size > 0 {
			d.readBufferSize = size
		}
	}
}

// Decoder streams a snapshot into a sink. It is single use: Decode reads one
// snapshot from start to end.
type Decoder struct {
	logger           ulogger.Logger
	sink             utxo.Sink
	batchSize        int
	progressInterval uint64
	maxScriptSize    int
	readBufferSize   int
	verbose          bool
}

// NewDecoder creates a decoder writing to sink. Defaults come from tSettings,
// options override them.
func NewDecoder(logger ulogger.Logger, tSettings *settings.Settings, sink utxo.Sink, opts ...Option) *Decoder {
	initPrometheusMetrics()

	d := &Decoder{
		logger:           logger,
		sink:             sink,
		batchSize:        DefaultBatchSize,
		progressInterval: DefaultProgressInterval,
		maxScriptSize:    MaxScriptSize,
		readBufferSize:   defaultReadBufferSize,
	}

	if tSettings != nil {
		WithBatchSize(tSettings.Snapshot.BatchSize)(d)
		if tSettings.Snapshot.ProgressInterval > 0 {
			WithProgressInterval(uint64(tSettings.Snapshot.ProgressInterval))(d)
		}
		WithMaxScriptSize(tSettings.Snapshot.MaxScriptSize)(d)
		WithReadBufferSize(tSettings.Snapshot.ReadBufferSize)(d)
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Decode reads a complete snapshot from r.
//
// ctx is only consulted before the header is read; once decoding has started
// it runs to completion or to the first error. Batches appended before an
// error stay in the sink, the batch being assembled when the error occurred is
// dropped. When all declared coins were read but the stream has more bytes,
// the final batch is still flushed and an ERR_TRAILING_DATA error is returned
// together with complete stats.
func (d *Decoder) Decode(ctx context.Context, r io.Reader) (*Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewContextCanceledError("snapshot decode canceled before start", err)
	}

	start := time.Now()
	cursor := NewCursor(r, d.readBufferSize)
	stats := &Stats{}

	err := d.decode(context.WithoutCancel(ctx), cursor, stats, start)

	stats.Bytes = cursor.Offset()
	stats.Elapsed = time.Since(start)
	prometheusSnapshotBytes.Add(float64(stats.Bytes))

	if err != nil {
		prometheusSnapshotErrors.WithLabelValues(errors.CodeOf(err).String(), errors.GetErrorCategory(err)).Inc()
	}

	return stats, err
}

func (d *Decoder) decode(ctx context.Context, cursor *Cursor, stats *Stats, start time.Time) error {
	header, err := ReadHeader(cursor)
	if err != nil {
		return err
	}

	stats.Header = header

	d.logger.Infof("%s", header)

	if aware, ok := d.sink.(utxo.SnapshotAware); ok {
		if err = aware.StartSnapshot(ctx, header.BlockHash, header.CoinCount); err != nil {
			return errors.NewStorageError("%s could not start snapshot %s", d.sink.Destination(), header.BlockHash, err)
		}
	}

	batch := make([]*utxo.Record, 0, d.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}

		flushStart := time.Now()

		if err := d.sink.Append(ctx, batch); err != nil {
			return errors.NewStorageError("failed to write batch of %d records to %s", len(batch), d.sink.Destination(), err)
		}

		prometheusSnapshotFlush.Observe(time.Since(flushStart).Seconds())
		prometheusSnapshotBatches.Inc()
		prometheusSnapshotCoins.Add(float64(len(batch)))

		stats.Batches++
		batch = batch[:0]

		return nil
	}

	var (
		txid      chainhash.Hash
		remaining uint64
	)

	for stats.Coins < header.CoinCount {
		if remaining == 0 {
			if err = readFull(cursor, txid[:], "txid"); err != nil {
				return err
			}

			if remaining, err = ReadCompactSize(cursor); err != nil {
				return err
			}

			stats.Groups++
			prometheusSnapshotGroups.Inc()

			// an empty group is valid, the next group follows immediately
			continue
		}

		record, err := d.readRecord(cursor, &txid)
		if err != nil {
			return err
		}

		remaining--
		stats.Coins++

		if record.Height > stats.MaxHeight {
			stats.MaxHeight = record.Height
			prometheusSnapshotMaxHeight.Set(float64(record.Height))
		}

		if d.verbose {
			d.logger.Debugf("Coin %d/%d: %s:%d amount=%d height=%d coinbase=%d script=%x",
				stats.Coins, header.CoinCount, record.TxIDString(), record.Vout, record.Value, record.Height, record.CoinbaseInt(), record.Script)
		}

		batch = append(batch, record)

		if len(batch) >= d.batchSize {
			if err = flush(); err != nil {
				return err
			}
		}

		if stats.Coins%d.progressInterval == 0 {
			d.logProgress(stats.Coins, header.CoinCount, start)
		}
	}

	if err = flush(); err != nil {
		return err
	}

	d.logger.Infof("TOTAL: %s coins written to %s, snapshot height is %d.", util.FormatNumber(stats.Coins), d.sink.Destination(), stats.MaxHeight)

	if remaining > 0 {
		d.logger.Debugf("last group of %s still declares %d coin(s)", txid, remaining)
	}

	eof, err := cursor.AtEOF()
	if err != nil {
		return err
	}

	if !eof {
		stats.TrailingData = true

		tErr := errors.New(errors.ERR_TRAILING_DATA, "unexpected data after the last of %d coins at offset %d", header.CoinCount, cursor.Offset()-1)
		tErr.SetData("offset", cursor.Offset()-1)

		d.logger.Warnf("%v", tErr)

		return tErr
	}

	return nil
}

// readRecord reads one coin of the group identified by txid. Nothing is
// returned unless every field decoded successfully.
func (d *Decoder) readRecord(cursor *Cursor, txid *chainhash.Hash) (*utxo.Record, error) {
	vout, err := ReadCompactSize(cursor)
	if err != nil {
		return nil, err
	}

	code, err := ReadVarIntUint64(cursor)
	if err != nil {
		return nil, err
	}

	compressedAmount, err := ReadVarIntUint64(cursor)
	if err != nil {
		return nil, err
	}

	value, err := DecompressAmount(compressedAmount)
	if err != nil {
		return nil, err
	}

	script, err := decompressScript(cursor, d.maxScriptSize)
	if err != nil {
		return nil, err
	}

	voutUint32, err := safeconversion.Uint64ToUint32(vout)
	if err != nil {
		return nil, errors.NewValueOverflowError("output index %d of %s", vout, txid, err)
	}

	height, err := safeconversion.Uint64ToUint32(code >> 1)
	if err != nil {
		return nil, errors.NewValueOverflowError("height %d of %s:%d", code>>1, txid, vout, err)
	}

	return &utxo.Record{
		TxID:     *txid,
		Vout:     voutUint32,
		Value:    value,
		Coinbase: code&1 == 1,
		Height:   height,
		Script:   script,
	}, nil
}

func (d *Decoder) logProgress(coins, total uint64, start time.Time) {
	var percent float64
	if total > 0 {
		percent = float64(coins) * 100 / float64(total)
	}

	elapsed := time.Since(start).Truncate(time.Second)

	d.logger.Infof("%s coins converted [%s], %s elapsed", util.FormatNumber(coins), fmt.Sprintf("%.2f%%", percent), elapsed)
}
