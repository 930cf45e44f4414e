package factory

import (
	"context"
	"net/url"

	"github.com/bsv-blockchain/utxodump/settings"
	"github.com/bsv-blockchain/utxodump/stores/utxo"
	"github.com/bsv-blockchain/utxodump/stores/utxo/sql"
	"github.com/bsv-blockchain/utxodump/ulogger"
	"github.com/bsv-blockchain/utxodump/util"
)

func init() {
	for _, engine := range []util.SQLEngine{util.Sqlite, util.SqliteMemory, util.Postgres} {
		availableSinks[string(engine)] = newSQLSink
	}
}

func newSQLSink(ctx context.Context, logger ulogger.Logger, tSettings *settings.Settings, storeURL *url.URL) (utxo.Sink, error) {
	sink, err := sql.New(ctx, logger, tSettings, storeURL)
	if err != nil {
		return nil, err
	}

	return sink, nil
}
