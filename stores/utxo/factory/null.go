package factory

import (
	"context"
	"net/url"

	"github.com/bsv-blockchain/utxodump/settings"
	"github.com/bsv-blockchain/utxodump/stores/utxo"
	"github.com/bsv-blockchain/utxodump/stores/utxo/nullstore"
	"github.com/bsv-blockchain/utxodump/ulogger"
)

func init() {
	availableSinks["null"] = func(_ context.Context, _ ulogger.Logger, _ *settings.Settings, _ *url.URL) (utxo.Sink, error) {
		return nullstore.NewNullStore()
	}
}
