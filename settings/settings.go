package settings

func NewSettings() *Settings {
	return &Settings{
		ClientName: getString("clientName", "utxodump"),
		DataFolder: getString("dataFolder", "data"),
		LogLevel:   getString("logLevel", "INFO"),
		LoggerType: getString("logger", "zerolog"),
		Snapshot: SnapshotSettings{
			BatchSize:        getInt("utxodump_batchSize", 16*1024),
			ProgressInterval: getInt("utxodump_progressInterval", 1024*1024),
			MaxScriptSize:    getInt("utxodump_maxScriptSize", 10_000),
			ReadBufferSize:   getInt("utxodump_readBufferSize", 1024*1024), // 1MB
		},
		Sink: SinkSettings{
			StoreURL:             getURL("utxodump_store", ""),
			PostgresMaxIdleConns: getInt("utxodump_postgresMaxIdleConns", 10),
			PostgresMaxOpenConns: getInt("utxodump_postgresMaxOpenConns", 80),
			ScriptTypes:          getBool("utxodump_scriptTypes", false),
		},
		Metrics: MetricsSettings{
			Enabled:       getBool("utxodump_prometheusEnabled", false),
			ListenAddress: getString("utxodump_prometheusListenAddress", ":9091"),
			Endpoint:      getString("utxodump_prometheusEndpoint", "/metrics"),
		},
	}
}
