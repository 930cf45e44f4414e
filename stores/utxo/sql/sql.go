// Package sql writes decoded snapshot coins to a relational table. Both
// SQLite (the default, modernc.org/sqlite) and PostgreSQL (lib/pq) are
// supported.
//
// # Usage
//
//	sink, err := sql.New(ctx, logger, tSettings, &url.URL{
//	    Scheme:   "sqlite",
//	    Path:     "/data/utxos.db",
//	    RawQuery: "unique=true",
//	})
//
// # Database Schema
//
// A single table holds one row per coin, the layout of Bitcoin Core's
// contrib/utxo-tools/utxo_to_sqlite.py:
//
//	utxos(txid TEXT, vout INT, value INT, coinbase INT, height INT, scriptpubkey TEXT)
//
// txid and scriptpubkey are hex, the txid in the usual reversed display order.
// With script types enabled an extra script_type TEXT column is added.
//
// # URL parameters
//
//   - unique=true: add a unique index on (txid, vout); a duplicate outpoint
//     fails the batch with ERR_STORAGE_EXISTS
//   - scriptTypes=true: fill the script_type column
//
// # Metrics
//
//   - sql_sink_rows: rows inserted
//   - sql_sink_batches: batches committed
//   - sql_sink_batch_duration_seconds: duration of a batch transaction
//   - sql_sink_errors: errors by function and type
package sql

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/bsv-blockchain/utxodump/errors"
	"github.com/bsv-blockchain/utxodump/settings"
	"github.com/bsv-blockchain/utxodump/snapshot"
	"github.com/bsv-blockchain/utxodump/stores/utxo"
	"github.com/bsv-blockchain/utxodump/ulogger"
	"github.com/bsv-blockchain/utxodump/util"
	"github.com/bsv-blockchain/utxodump/util/retry"
	"github.com/bsv-blockchain/utxodump/util/usql"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const tableName = "utxos"

type Sink struct {
	logger      ulogger.Logger
	db          *usql.DB
	engine      util.SQLEngine
	destination string
	scriptTypes bool
	insertSQL   string
	closed      atomic.Bool
}

// New opens the database behind storeURL and creates the utxos table.
func New(ctx context.Context, logger ulogger.Logger, tSettings *settings.Settings, storeURL *url.URL) (*Sink, error) {
	initPrometheusMetrics()

	db, err := util.InitSQLDB(logger, storeURL, tSettings)
	if err != nil {
		return nil, errors.NewStorageUnavailableError("failed to init sql db", err)
	}

	engine := util.SQLEngine(storeURL.Scheme)

	// postgres may still be starting up, sqlite either works or it does not
	if engine == util.Postgres {
		if _, err = retry.Retry(ctx, logger, func() (struct{}, error) {
			return struct{}{}, db.PingContext(ctx)
		}, retry.WithMessage("[SQLSink] waiting for postgres"), retry.WithRetryCount(5)); err != nil {
			_ = db.Close()
			return nil, errors.NewStorageUnavailableError("postgres at %s is not reachable", storeURL.Host, err)
		}
	}

	scriptTypes := tSettings.Sink.ScriptTypes || storeURL.Query().Get("scriptTypes") == "true"

	s := newSink(logger, db, engine, destination(storeURL, tSettings), scriptTypes)

	if err = s.createSchema(ctx, storeURL.Query().Get("unique") == "true"); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func newSink(logger ulogger.Logger, db *usql.DB, engine util.SQLEngine, destination string, scriptTypes bool) *Sink {
	columns := []string{"txid", "vout", "value", "coinbase", "height", "scriptpubkey"}
	if scriptTypes {
		columns = append(columns, "script_type")
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	return &Sink{
		logger:      logger,
		db:          db,
		engine:      engine,
		destination: destination,
		scriptTypes: scriptTypes,
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			tableName, strings.Join(columns, ", "), strings.Join(placeholders, ", ")),
	}
}

func destination(storeURL *url.URL, tSettings *settings.Settings) string {
	switch util.SQLEngine(storeURL.Scheme) {
	case util.Sqlite:
		if filename, err := util.SQLiteFilename(storeURL, tSettings.DataFolder); err == nil {
			return filename
		}
	case util.Postgres:
		return fmt.Sprintf("postgres://%s%s", storeURL.Host, storeURL.Path)
	}

	return storeURL.Redacted()
}

func (s *Sink) createSchema(ctx context.Context, unique bool) error {
	q := `
	  CREATE TABLE IF NOT EXISTS utxos (
	     txid         TEXT
	    ,vout         INT
	    ,value        INT
	    ,coinbase     INT
	    ,height       INT
	    ,scriptpubkey TEXT`

	if s.scriptTypes {
		q += `
	    ,script_type  TEXT`
	}

	q += `
	  );
	`

	if s.engine == util.Postgres {
		// satoshi amounts above 2^31 do not fit postgres INT
		q = strings.ReplaceAll(q, " INT\n", " BIGINT\n")
	}

	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return errors.NewStorageError("could not create utxos table", err)
	}

	if unique {
		if _, err := s.db.ExecContext(ctx, `CREATE UNIQUE INDEX IF NOT EXISTS ux_utxos_outpoint ON utxos (txid, vout);`); err != nil {
			return errors.NewStorageError("could not create ux_utxos_outpoint index", err)
		}
	}

	return nil
}

// Append inserts all records in one transaction.
func (s *Sink) Append(ctx context.Context, records []*utxo.Record) error {
	if s.closed.Load() {
		return utxo.ErrSinkClosed
	}

	if len(records) == 0 {
		return nil
	}

	start := time.Now()

	txn, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.storageError("Append", errors.NewStorageError("could not begin transaction", err))
	}

	defer func() {
		_ = txn.Rollback()
	}()

	stmt, err := txn.PrepareContext(ctx, s.insertSQL)
	if err != nil {
		return s.storageError("Append", errors.NewStorageError("could not prepare insert", err))
	}

	defer func() {
		_ = stmt.Close()
	}()

	for _, record := range records {
		args, err := s.args(record)
		if err != nil {
			return s.storageError("Append", err)
		}

		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			if isDuplicateError(err) {
				return s.storageError("Append", errors.NewStorageExistsError("output %s:%d already exists", record.TxIDString(), record.Vout, utxo.ErrOutputExists))
			}

			return s.storageError("Append", errors.NewStorageError("could not insert output %s:%d", record.TxIDString(), record.Vout, err))
		}
	}

	if err = txn.Commit(); err != nil {
		return s.storageError("Append", errors.NewStorageError("could not commit batch of %d records", len(records), err))
	}

	prometheusSQLSinkRows.Add(float64(len(records)))
	prometheusSQLSinkBatches.Inc()
	prometheusSQLSinkBatchDuration.Observe(time.Since(start).Seconds())

	return nil
}

func (s *Sink) args(record *utxo.Record) ([]interface{}, error) {
	value, err := safeconversion.Uint64ToInt(record.Value)
	if err != nil {
		return nil, errors.NewValueOverflowError("value of %s:%d", record.TxIDString(), record.Vout, err)
	}

	args := []interface{}{
		record.TxIDString(),
		int64(record.Vout),
		int64(value),
		int64(record.CoinbaseInt()),
		int64(record.Height),
		record.ScriptHex(),
	}

	if s.scriptTypes {
		args = append(args, string(snapshot.ClassifyScript(record.Script)))
	}

	return args, nil
}

func (s *Sink) storageError(function string, err error) error {
	prometheusSQLSinkErrors.WithLabelValues(function, errors.CodeOf(err).String()).Inc()
	return err
}

// Count returns the number of rows in the utxos table.
func (s *Sink) Count(ctx context.Context) (uint64, error) {
	var count uint64

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM utxos").Scan(&count); err != nil {
		return 0, errors.NewStorageError("could not count utxos", err)
	}

	return count, nil
}

func (s *Sink) Close(_ context.Context) error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return errors.NewStorageError("could not close %s", s.destination, err)
	}

	return nil
}

func (s *Sink) Destination() string {
	return s.destination
}

func isDuplicateError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}

	return false
}
