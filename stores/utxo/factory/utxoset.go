package factory

import (
	"context"
	"net/url"

	"github.com/bsv-blockchain/utxodump/settings"
	"github.com/bsv-blockchain/utxodump/stores/utxo"
	"github.com/bsv-blockchain/utxodump/stores/utxo/utxoset"
	"github.com/bsv-blockchain/utxodump/ulogger"
)

func init() {
	availableSinks["utxoset"] = func(_ context.Context, logger ulogger.Logger, _ *settings.Settings, storeURL *url.URL) (utxo.Sink, error) {
		sink, err := utxoset.New(logger, storeURL)
		if err != nil {
			return nil, err
		}

		return sink, nil
	}
}
