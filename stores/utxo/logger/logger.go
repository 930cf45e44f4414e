// Package logger wraps a sink and logs every call at debug level, together
// with where it was called from. It is enabled with logging=true on the store
// URL.
package logger

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxodump/stores/utxo"
	"github.com/bsv-blockchain/utxodump/ulogger"
)

type Store struct {
	logger ulogger.Logger
	store  utxo.Sink
}

func New(_ context.Context, logger ulogger.Logger, store utxo.Sink) *Store {
	return &Store{
		logger: logger,
		store:  store,
	}
}

func caller() string {
	var callers []string

	depth := 3

	for i := 0; i < depth; i++ {
		pc, file, line, ok := runtime.Caller(2 + i)
		if !ok {
			break
		}

		// keep the path from the module root onwards
		folders := strings.Split(file, string(filepath.Separator))
		for j, folder := range folders {
			if folder == "utxodump" && j < len(folders)-1 {
				folders = folders[j+1:]
				break
			}
		}

		file = filepath.Join(folders...)

		funcPaths := strings.Split(runtime.FuncForPC(pc).Name(), "/")
		funcName := funcPaths[len(funcPaths)-1]

		callers = append(callers, fmt.Sprintf("called from %s: %s:%d", funcName, file, line))
	}

	return strings.Join(callers, ",")
}

// StartSnapshot is forwarded when the wrapped sink needs the header.
func (s *Store) StartSnapshot(ctx context.Context, blockHash chainhash.Hash, coinCount uint64) error {
	aware, ok := s.store.(utxo.SnapshotAware)
	if !ok {
		s.logger.Debugf("[UTXOSink][logger][StartSnapshot] block %s, %d coins : %s is not snapshot aware", blockHash, coinCount, s.store.Destination())
		return nil
	}

	err := aware.StartSnapshot(ctx, blockHash, coinCount)
	s.logger.Debugf("[UTXOSink][logger][StartSnapshot] block %s, %d coins err %v : %s", blockHash, coinCount, err, caller())

	return err
}

func (s *Store) Append(ctx context.Context, records []*utxo.Record) error {
	start := time.Now()
	err := s.store.Append(ctx, records)

	var first, last string
	if len(records) > 0 {
		first = fmt.Sprintf("%s:%d", records[0].TxIDString(), records[0].Vout)
		last = fmt.Sprintf("%s:%d", records[len(records)-1].TxIDString(), records[len(records)-1].Vout)
	}

	s.logger.Debugf("[UTXOSink][logger][Append] %d records (%s .. %s) in %s err %v : %s", len(records), first, last, time.Since(start), err, caller())

	return err
}

func (s *Store) Close(ctx context.Context) error {
	err := s.store.Close(ctx)
	s.logger.Debugf("[UTXOSink][logger][Close] %s err %v : %s", s.store.Destination(), err, caller())

	return err
}

func (s *Store) Destination() string {
	return s.store.Destination()
}
