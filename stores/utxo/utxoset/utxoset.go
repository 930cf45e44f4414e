// Package utxoset writes decoded snapshot coins as a teranode utxo-set file, so
// that a Bitcoin snapshot can seed a teranode UTXO store.
//
// The file is named <blockhash>.utxo-set and lives in the directory given by
// the store URL (utxoset:///path/to/dir). Its layout:
//
//	block hash (32) | height (4, LE) | previous block hash (32)
//	UTXOWrapper...
//	EOF marker (32 zero bytes) | wrapper count (8, LE) | utxo count (8, LE)
//
// The height is the highest coin height seen, patched into the header on
// Close. A snapshot does not carry the previous block hash, it is left zero.
// A <blockhash>.utxo-set.sha256 file in sha256sum format is written next
// to it once the file is complete.
package utxoset

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxodump/errors"
	"github.com/bsv-blockchain/utxodump/stores/utxo"
	"github.com/bsv-blockchain/utxodump/ulogger"
)

const (
	Extension  = "utxo-set"
	headerSize = 32 + 4 + 32
	footerSize = 32 + 8 + 8
)

// Sink groups consecutive records of the same transaction into UTXOWrappers.
// The wrapper of the current transaction is held back until a record of
// another transaction arrives or the sink is closed.
type Sink struct {
	logger ulogger.Logger
	dir    string

	mu        sync.Mutex
	file      *os.File
	filename  string
	offset    int64
	pending   *UTXOWrapper
	txCount   uint64
	utxoCount uint64
	maxHeight uint32
	closed    bool
}

// New prepares a sink writing into the directory of storeURL. The file itself
// is created by StartSnapshot, once the block hash is known.
func New(logger ulogger.Logger, storeURL *url.URL) (*Sink, error) {
	dir := filepath.Join(storeURL.Host, storeURL.Path)
	if dir == "" {
		return nil, errors.NewConfigurationError("utxoset store url %s has no directory", storeURL)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewStorageError("could not create directory %s", dir, err)
	}

	return &Sink{
		logger: logger,
		dir:    dir,
	}, nil
}

// Filename returns the path of the utxo-set file for blockHash in dir.
func Filename(dir string, blockHash chainhash.Hash) string {
	return filepath.Join(dir, fmt.Sprintf("%s.%s", blockHash.String(), Extension))
}

func (s *Sink) StartSnapshot(_ context.Context, blockHash chainhash.Hash, _ uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return utxo.ErrSinkClosed
	}

	if s.file != nil {
		return errors.NewProcessingError("snapshot already started, writing %s", s.filename)
	}

	filename := Filename(s.dir, blockHash)

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return errors.NewStorageExistsError("%s already exists", filename, err)
		}

		return errors.NewStorageError("could not create %s", filename, err)
	}

	header := make([]byte, headerSize)
	copy(header, blockHash[:])

	if _, err = file.Write(header); err != nil {
		_ = file.Close()
		_ = os.Remove(filename)

		return errors.NewStorageError("could not write header to %s", filename, err)
	}

	s.file = file
	s.filename = filename
	s.offset = headerSize

	s.logger.Debugf("[UTXOSetSink] writing %s", filename)

	return nil
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

	if s.file == nil {
		return errors.NewProcessingError("utxoset sink needs the snapshot block hash before the first batch")
	}

	var (
		buf       bytes.Buffer
		pending   = s.pending
		txCount   uint64
		maxHeight = s.maxHeight
	)

	for _, record := range records {
		if pending != nil && !pending.accepts(record) {
			buf.Write(pending.Bytes())
			txCount++

			pending = nil
		}

		if pending == nil {
			pending = newUTXOWrapper(record)
		} else if pending == s.pending {
			// copy on first change so a failed write leaves s.pending untouched
			pending = &UTXOWrapper{
				TxID:     s.pending.TxID,
				Height:   s.pending.Height,
				Coinbase: s.pending.Coinbase,
				UTXOs:    append([]*UTXO(nil), s.pending.UTXOs...),
			}
		}

		pending.add(record)

		if record.Height > maxHeight {
			maxHeight = record.Height
		}
	}

	if err := s.write(buf.Bytes()); err != nil {
		return err
	}

	s.pending = pending
	s.txCount += txCount
	s.utxoCount += uint64(len(records))
	s.maxHeight = maxHeight

	return nil
}

// write appends b to the file. A short write is cut off again so the file
// only ever holds complete wrappers.
func (s *Sink) write(b []byte) error {
	if len(b) == 0 {
		return nil
	}

	n, err := s.file.WriteAt(b, s.offset)
	if err != nil {
		if n > 0 {
			if tErr := s.file.Truncate(s.offset); tErr != nil {
				s.logger.Errorf("[UTXOSetSink] could not truncate %s to %d: %v", s.filename, s.offset, tErr)
			}
		}

		return errors.NewStorageError("could not write %d bytes to %s", len(b), s.filename, err)
	}

	s.offset += int64(n)

	return nil
}

// Close writes the held back wrapper, the footer and the final height, then
// the checksum file.
func (s *Sink) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true

	if s.file == nil {
		return nil
	}

	if err := s.finish(); err != nil {
		_ = s.file.Close()
		return err
	}

	if err := s.file.Close(); err != nil {
		return errors.NewStorageError("could not close %s", s.filename, err)
	}

	if err := writeChecksum(s.filename); err != nil {
		return err
	}

	s.logger.Infof("[UTXOSetSink] wrote %d transactions with %d utxos to %s", s.txCount, s.utxoCount, s.filename)

	return nil
}

func (s *Sink) finish() error {
	b := make([]byte, 0, footerSize)

	if s.pending != nil {
		b = append(b, s.pending.Bytes()...)
		s.txCount++
		s.pending = nil
	}

	b = append(b, EOFMarker...)
	b = binary.LittleEndian.AppendUint64(b, s.txCount)
	b = binary.LittleEndian.AppendUint64(b, s.utxoCount)

	if err := s.write(b); err != nil {
		return err
	}

	if _, err := s.file.WriteAt(binary.LittleEndian.AppendUint32(nil, s.maxHeight), 32); err != nil {
		return errors.NewStorageError("could not write height to %s", s.filename, err)
	}

	if err := s.file.Sync(); err != nil {
		return errors.NewStorageError("could not sync %s", s.filename, err)
	}

	return nil
}

func (s *Sink) Destination() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filename != "" {
		return s.filename
	}

	return s.dir
}

// writeChecksum writes filename.sha256 in the format sha256sum -c accepts.
func writeChecksum(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.NewStorageError("could not open %s for hashing", filename, err)
	}

	defer f.Close()

	hasher := sha256.New()
	if _, err = io.Copy(hasher, f); err != nil {
		return errors.NewStorageError("could not hash %s", filename, err)
	}

	content := fmt.Sprintf("%x  %s\n", hasher.Sum(nil), filepath.Base(filename))

	if err = os.WriteFile(filename+".sha256", []byte(content), 0o644); err != nil { // nolint:gosec
		return errors.NewStorageError("could not write checksum for %s", filename, err)
	}

	return nil
}
