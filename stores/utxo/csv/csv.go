// Package csv writes decoded snapshot coins to a comma separated file with the
// same columns as the sql sink, using gocsv struct tags.
//
//	csv:///data/utxos.csv
//	csv:///data/utxos.csv?scriptTypes=true
package csv

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/bsv-blockchain/utxodump/errors"
	"github.com/bsv-blockchain/utxodump/settings"
	"github.com/bsv-blockchain/utxodump/snapshot"
	"github.com/bsv-blockchain/utxodump/stores/utxo"
	"github.com/bsv-blockchain/utxodump/ulogger"
	"github.com/gocarina/gocsv"
)

type Row struct {
	TxID         string `csv:"txid"`
	Vout         uint32 `csv:"vout"`
	Value        uint64 `csv:"value"`
	Coinbase     int    `csv:"coinbase"`
	Height       uint32 `csv:"height"`
	ScriptPubKey string `csv:"scriptpubkey"`
}

type TypedRow struct {
	Row
	ScriptType string `csv:"script_type"`
}

func newRow(record *utxo.Record) Row {
	return Row{
		TxID:         record.TxIDString(),
		Vout:         record.Vout,
		Value:        record.Value,
		Coinbase:     record.CoinbaseInt(),
		Height:       record.Height,
		ScriptPubKey: record.ScriptHex(),
	}
}

type Sink struct {
	logger      ulogger.Logger
	filename    string
	scriptTypes bool

	mu            sync.Mutex
	file          *os.File
	offset        int64
	headerWritten bool
	closed        bool
}

// New creates the csv file named by storeURL. An existing file is not
// overwritten.
func New(logger ulogger.Logger, tSettings *settings.Settings, storeURL *url.URL) (*Sink, error) {
	filename := filepath.Join(storeURL.Host, storeURL.Path)
	if filename == "" {
		return nil, errors.NewConfigurationError("csv store url %s has no path", storeURL)
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, errors.NewStorageExistsError("%s already exists", filename, err)
		}

		return nil, errors.NewStorageError("could not create %s", filename, err)
	}

	return &Sink{
		logger:      logger,
		filename:    filename,
		scriptTypes: tSettings.Sink.ScriptTypes || storeURL.Query().Get("scriptTypes") == "true",
		file:        file,
	}, nil
}

func (s *Sink) Append(_ context.Context, records []*utxo.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return utxo.ErrSinkClosed
	}

	if len(records) == 0 {
		return nil
	}

	var rows interface{}

	if s.scriptTypes {
		typed := make([]TypedRow, len(records))
		for i, record := range records {
			typed[i] = TypedRow{Row: newRow(record), ScriptType: string(snapshot.ClassifyScript(record.Script))}
		}

		rows = typed
	} else {
		plain := make([]Row, len(records))
		for i, record := range records {
			plain[i] = newRow(record)
		}

		rows = plain
	}

	if err := s.writeRows(rows); err != nil {
		return err
	}

	s.headerWritten = true

	return nil
}

// writeRows renders rows in memory and writes them in one go. A partial write
// is truncated away.
func (s *Sink) writeRows(rows interface{}) error {
	var (
		buf bytes.Buffer
		err error
	)

	if s.headerWritten {
		err = gocsv.MarshalWithoutHeaders(rows, &buf)
	} else {
		err = gocsv.Marshal(rows, &buf)
	}

	if err != nil {
		return errors.NewProcessingError("could not render csv rows", err)
	}

	n, err := s.file.WriteAt(buf.Bytes(), s.offset)
	if err != nil {
		if n > 0 {
			if tErr := s.file.Truncate(s.offset); tErr != nil {
				s.logger.Errorf("[CSVSink] could not truncate %s to %d: %v", s.filename, s.offset, tErr)
			}
		}

		return errors.NewStorageError("could not write %d bytes to %s", buf.Len(), s.filename, err)
	}

	s.offset += int64(n)

	return nil
}

func (s *Sink) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true

	if !s.headerWritten {
		var err error
		if s.scriptTypes {
			err = s.writeRows([]TypedRow{})
		} else {
			err = s.writeRows([]Row{})
		}

		if err != nil {
			_ = s.file.Close()
			return err
		}
	}

	if err := s.file.Sync(); err != nil {
		_ = s.file.Close()
		return errors.NewStorageError("could not sync %s", s.filename, err)
	}

	if err := s.file.Close(); err != nil {
		return errors.NewStorageError("could not close %s", s.filename, err)
	}

	return nil
}

func (s *Sink) Destination() string {
	return s.filename
}
