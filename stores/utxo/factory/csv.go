package factory

import (
	"context"
	"net/url"

	"github.com/bsv-blockchain/utxodump/settings"
	"github.com/bsv-blockchain/utxodump/stores/utxo"
	"github.com/bsv-blockchain/utxodump/stores/utxo/csv"
	"github.com/bsv-blockchain/utxodump/ulogger"
)

func init() {
	availableSinks["csv"] = func(_ context.Context, logger ulogger.Logger, tSettings *settings.Settings, storeURL *url.URL) (utxo.Sink, error) {
		sink, err := csv.New(logger, tSettings, storeURL)
		if err != nil {
			return nil, err
		}

		return sink, nil
	}
}
