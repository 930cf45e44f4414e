// Package utxodump is the command line front end: it converts a Bitcoin Core
// dumptxoutset snapshot into a sqlite database, or any other sink the factory
// knows.
//
// Usage:
//
//	utxodump [--verbose] [--batch-size N] [--buffer-size 4MB] [--metrics :9091] <infile> <outfile|store-url>
//	utxodump header <infile>
//
// The process exits with 1 when the input is missing, the output already
// exists, or the snapshot cannot be decoded completely.
package utxodump

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bsv-blockchain/utxodump/errors"
	"github.com/bsv-blockchain/utxodump/settings"
	"github.com/bsv-blockchain/utxodump/snapshot"
	"github.com/bsv-blockchain/utxodump/stores/utxo/factory"
	"github.com/bsv-blockchain/utxodump/ulogger"
	"github.com/bsv-blockchain/utxodump/util"
	"github.com/bsv-blockchain/utxodump/util/bytesize"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const progname = "utxodump"

// Run executes the command line in args (without the program name) and
// returns the exit code.
func Run(ctx context.Context, tSettings *settings.Settings, args []string, stdout, stderr io.Writer) int {
	app := newApp(tSettings, stdout, stderr)

	if err := app.RunContext(ctx, append([]string{progname}, args...)); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	return 0
}

func newApp(tSettings *settings.Settings, stdout, stderr io.Writer) *cli.App {
	bufferSize := bytesize.ByteSize(tSettings.Snapshot.ReadBufferSize)

	metricsAddress := ""
	if tSettings.Metrics.Enabled {
		metricsAddress = tSettings.Metrics.ListenAddress
	}

	return &cli.App{
		Name:      progname,
		Usage:     "convert a Bitcoin Core UTXO snapshot (dumptxoutset) into a sqlite database",
		ArgsUsage: "<infile> <outfile|store-url>",
		Writer:    stdout,
		ErrWriter: stderr,
		// exit codes are decided by Run
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log every coin",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "number of coins written per transaction",
				Value: tSettings.Snapshot.BatchSize,
			},
			&cli.GenericFlag{
				Name:  "buffer-size",
				Usage: "read buffer size, e.g. 4MB",
				Value: &bufferSize,
			},
			&cli.BoolFlag{
				Name:  "script-types",
				Usage: "add a script_type column",
				Value: tSettings.Sink.ScriptTypes,
			},
			&cli.StringFlag{
				Name:  "metrics",
				Usage: "serve prometheus metrics on this address while converting",
				Value: metricsAddress,
			},
		},
		Action: func(c *cli.Context) error {
			return convert(c, tSettings, bufferSize.Int())
		},
		Commands: []*cli.Command{
			{
				Name:      "header",
				Usage:     "print the snapshot header and exit",
				ArgsUsage: "<infile>",
				Action: func(c *cli.Context) error {
					return printHeader(c)
				},
			},
		},
	}
}

func newLogger(c *cli.Context, tSettings *settings.Settings) ulogger.Logger {
	level := tSettings.LogLevel
	if c.Bool("verbose") {
		level = "DEBUG"
	}

	return ulogger.New(progname, ulogger.WithLevel(level), ulogger.WithWriter(c.App.ErrWriter), ulogger.WithLoggerType(tSettings.LoggerType))
}

func convert(c *cli.Context, tSettings *settings.Settings, readBufferSize int) error {
	var infile, output string

	switch c.NArg() {
	case 2:
		infile, output = c.Args().Get(0), c.Args().Get(1)
	case 1:
		if tSettings.Sink.StoreURL == nil {
			return errors.NewInvalidArgumentError("no output given, usage: %s %s", progname, c.App.ArgsUsage)
		}

		infile, output = c.Args().Get(0), tSettings.Sink.StoreURL.String()
	default:
		return errors.NewInvalidArgumentError("usage: %s %s", progname, c.App.ArgsUsage)
	}

	if c.Bool("script-types") {
		tSettings.Sink.ScriptTypes = true
	}

	ctx := c.Context
	logger := newLogger(c, tSettings)

	input, err := util.OpenInput(infile)
	if err != nil {
		return err
	}

	defer func() {
		_ = input.Close()
	}()

	if input.Compression != util.CompressionNone {
		logger.Infof("reading %s compressed input %s", input.Compression, infile)
	}

	storeURL, err := factory.ParseStoreURL(output)
	if err != nil {
		return err
	}

	sink, err := factory.New(ctx, logger, tSettings, storeURL)
	if err != nil {
		return err
	}

	decoder := snapshot.NewDecoder(logger, tSettings, sink,
		snapshot.WithVerbose(c.Bool("verbose")),
		snapshot.WithBatchSize(c.Int("batch-size")),
		snapshot.WithReadBufferSize(readBufferSize),
	)

	g, gCtx := errgroup.WithContext(ctx)

	stopMetrics := serveMetrics(gCtx, g, logger, c.String("metrics"), tSettings.Metrics.Endpoint)

	g.Go(func() error {
		defer stopMetrics()

		_, decodeErr := decoder.Decode(gCtx, input)

		switch {
		case errors.IsHeaderError(decodeErr):
			logger.Warnf("%s is not a version 2 dumptxoutset snapshot", infile)
		case errors.IsInputError(decodeErr):
			logger.Warnf("%s is corrupt or incomplete, %s holds the coins decoded so far", infile, sink.Destination())
		}

		// the sink is closed on every path, also when decoding failed
		if closeErr := sink.Close(context.WithoutCancel(gCtx)); closeErr != nil {
			if decodeErr == nil {
				return closeErr
			}

			logger.Errorf("failed to close %s: %v", sink.Destination(), closeErr)
		}

		return decodeErr
	})

	return g.Wait()
}

// serveMetrics starts the prometheus endpoint in g when address is set and
// returns the function that stops it.
func serveMetrics(ctx context.Context, g *errgroup.Group, logger ulogger.Logger, address, endpoint string) func() {
	if address == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle(endpoint, promhttp.Handler())

	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Infof("serving prometheus metrics on http://%s%s", address, endpoint)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.NewServiceError("metrics server on %s failed", address, err)
		}

		return nil
	})

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}
}

func printHeader(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.NewInvalidArgumentError("usage: %s header <infile>", progname)
	}

	input, err := util.OpenInput(c.Args().First())
	if err != nil {
		return err
	}

	defer func() {
		_ = input.Close()
	}()

	header, err := snapshot.ReadHeader(input)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(c.App.Writer, header.String())

	return nil
}
