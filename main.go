package main

import (
	"context"
	"os"

	"github.com/bsv-blockchain/utxodump/cmd/utxodump/utxodump"
	"github.com/bsv-blockchain/utxodump/settings"
	"github.com/ordishs/gocore"
)

// Name used by build script for the binaries. (Please keep on single line)
const progname = "utxodump"

// Version & commit strings injected at build with -ldflags -X...
var version string
var commit string

func init() {
	gocore.SetInfo(progname, version, commit)
}

func main() {
	os.Exit(utxodump.Run(context.Background(), settings.NewSettings(), os.Args[1:], os.Stdout, os.Stderr))
}
