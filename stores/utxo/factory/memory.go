package factory

import (
	"context"
	"net/url"

	"github.com/bsv-blockchain/utxodump/settings"
	"github.com/bsv-blockchain/utxodump/stores/utxo"
	"github.com/bsv-blockchain/utxodump/stores/utxo/memory"
	"github.com/bsv-blockchain/utxodump/ulogger"
)

func init() {
	availableSinks["memory"] = func(_ context.Context, logger ulogger.Logger, _ *settings.Settings, _ *url.URL) (utxo.Sink, error) {
		return memory.New(logger), nil
	}
}
