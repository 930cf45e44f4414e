package settings

import (
	"net/url"
)

type SnapshotSettings struct {
	// BatchSize is the number of records handed to a sink per flush.
	BatchSize int
	// ProgressInterval is the number of coins between progress log lines.
	ProgressInterval int
	// MaxScriptSize bounds raw (uncompressed template) scripts.
	MaxScriptSize int
	// ReadBufferSize is the size of the buffered reader over the input file.
	ReadBufferSize int
}

type SinkSettings struct {
	// StoreURL is used when the output argument is omitted.
	StoreURL             *url.URL
	PostgresMaxIdleConns int
	PostgresMaxOpenConns int
	// ScriptTypes adds a script_type column to sinks that support it.
	ScriptTypes bool
}

type MetricsSettings struct {
	Enabled       bool
	ListenAddress string
	Endpoint      string
}

type Settings struct {
	ClientName string
	DataFolder string
	LogLevel   string
	LoggerType string
	Snapshot   SnapshotSettings
	Sink       SinkSettings
	Metrics    MetricsSettings
}
