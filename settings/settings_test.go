package settings

import (
	"testing"

	"github.com/ordishs/gocore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// check settings object is initialised with the snapshot defaults
func TestInitialiseSettings(t *testing.T) {
	tSettings := NewSettings()
	require.NotNil(t, tSettings)

	assert.Equal(t, 16*1024, tSettings.Snapshot.BatchSize)
	assert.Equal(t, 1024*1024, tSettings.Snapshot.ProgressInterval)
	assert.Equal(t, 10_000, tSettings.Snapshot.MaxScriptSize)
	assert.Nil(t, tSettings.Sink.StoreURL)
	assert.Equal(t, "/metrics", tSettings.Metrics.Endpoint)
}

func TestSettingsOverrides(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  string
		verify func(t *testing.T, s *Settings)
	}{
		{"batch size", "utxodump_batchSize", "100", func(t *testing.T, s *Settings) {
			assert.Equal(t, 100, s.Snapshot.BatchSize)
		}},
		{"store url", "utxodump_store", "sqlite:///utxos", func(t *testing.T, s *Settings) {
			require.NotNil(t, s.Sink.StoreURL)
			assert.Equal(t, "sqlite", s.Sink.StoreURL.Scheme)
		}},
		{"script types", "utxodump_scriptTypes", "true", func(t *testing.T, s *Settings) {
			assert.True(t, s.Sink.ScriptTypes)
		}},
		{"log level", "logLevel", "DEBUG", func(t *testing.T, s *Settings) {
			assert.Equal(t, "DEBUG", s.LogLevel)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gocore.Config().Set(tt.key, tt.value)
			defer gocore.Config().Unset(tt.key)

			tt.verify(t, NewSettings())
		})
	}
}
