package utxo

import "github.com/bsv-blockchain/utxodump/errors"

var (
	ErrSinkClosed   = errors.New(errors.ERR_STORAGE_ERROR, "sink already closed")
	ErrOutputExists = errors.New(errors.ERR_STORAGE_EXISTS, "output already exists")
)
