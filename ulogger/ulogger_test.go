package ulogger_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/bsv-blockchain/utxodump/ulogger"
	"github.com/ordishs/gocore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level           string
		expectedOutputs map[string]bool
	}{
		{
			level: "DEBUG",
			expectedOutputs: map[string]bool{
				"DEBUG": true,
				"INFO":  true,
				"WARN":  true,
				"ERROR": true,
			},
		},
		{
			level: "INFO",
			expectedOutputs: map[string]bool{
				"DEBUG": false,
				"INFO":  true,
				"WARN":  true,
				"ERROR": true,
			},
		},
		{
			level: "WARN",
			expectedOutputs: map[string]bool{
				"DEBUG": false,
				"INFO":  false,
				"WARN":  true,
				"ERROR": true,
			},
		},
		{
			level: "ERROR",
			expectedOutputs: map[string]bool{
				"DEBUG": false,
				"INFO":  false,
				"WARN":  false,
				"ERROR": true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer

			logger := ulogger.New("test-service", ulogger.WithLevel(tt.level), ulogger.WithWriter(&buf))

			logger.Debugf("DEBUG message")
			logger.Infof("INFO message")
			logger.Warnf("WARN message")
			logger.Errorf("ERROR message")

			output := buf.String()

			for level, expected := range tt.expectedOutputs {
				assert.Equal(t, expected, strings.Contains(output, level+" message"), "level %s", level)
			}
		})
	}
}

func TestZeroLoggerServiceName(t *testing.T) {
	var buf bytes.Buffer

	logger := ulogger.NewZeroLogger("snapshot", ulogger.WithWriter(&buf))
	logger.Infof("coins %d", 42)

	assert.Contains(t, buf.String(), "snapshot")
	assert.Contains(t, buf.String(), "coins 42")
}

func TestZeroLoggerJSON(t *testing.T) {
	gocore.Config().Set("PRETTY_LOGS", "false")
	defer gocore.Config().Unset("PRETTY_LOGS")

	var buf bytes.Buffer

	logger := ulogger.NewZeroLogger("sink", ulogger.WithWriter(&buf))
	logger.Warnf("flushed %d records", 16384)

	output := buf.String()
	assert.Contains(t, output, `"level":"warn"`)
	assert.Contains(t, output, `"service":"sink"`)
	assert.Contains(t, output, `"message":"flushed 16384 records"`)
}

func TestZeroLoggerSetLogLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := ulogger.NewZeroLogger("test", ulogger.WithWriter(&buf))
	assert.Equal(t, int(gocore.INFO), logger.LogLevel())

	logger.Debugf("hidden")
	assert.Empty(t, buf.String())

	logger.SetLogLevel("debug")
	assert.Equal(t, int(gocore.DEBUG), logger.LogLevel())

	logger.Debugf("visible")
	assert.Contains(t, buf.String(), "visible")

	logger.SetLogLevel("nonsense")
	assert.Equal(t, int(gocore.INFO), logger.LogLevel())
}

func TestZeroLoggerNewKeepsParentSettings(t *testing.T) {
	var buf bytes.Buffer

	parent := ulogger.NewZeroLogger("parent", ulogger.WithWriter(&buf), ulogger.WithLevel("DEBUG"))
	child := parent.New("child")

	child.Debugf("from child")
	assert.Contains(t, buf.String(), "child")
	assert.Contains(t, buf.String(), "from child")

	buf.Reset()

	dup := parent.Duplicate(ulogger.WithLevel("ERROR"))
	dup.Infof("suppressed")
	assert.Empty(t, buf.String())
}

func TestTestLogger(t *testing.T) {
	var logger ulogger.Logger = ulogger.TestLogger{}

	logger.Infof("nothing")
	logger.Errorf("nothing")
	require.NotNil(t, logger.New("x"))
	require.NotNil(t, logger.Duplicate())
	assert.Equal(t, 0, logger.LogLevel())
}

type mockT struct {
	logs   []string
	errors []string
}

func (m *mockT) Errorf(format string, args ...interface{}) {
	m.errors = append(m.errors, fmt.Sprintf(format, args...))
}
func (m *mockT) FailNow() {}
func (m *mockT) Logf(format string, args ...any) {
	m.logs = append(m.logs, fmt.Sprintf(format, args...))
}

func TestErrorTestLogger(t *testing.T) {
	t.Run("error fails the test and cancels", func(t *testing.T) {
		mt := &mockT{}
		cancelled := false

		logger := ulogger.NewErrorTestLogger(mt, func() { cancelled = true })
		logger.Infof("fine")
		logger.Errorf("broken %d", 1)

		require.Len(t, mt.errors, 1)
		assert.Contains(t, mt.errors[0], "broken 1")
		assert.True(t, cancelled)
	})

	t.Run("skip cancel on fail only logs", func(t *testing.T) {
		mt := &mockT{}

		logger := ulogger.NewErrorTestLogger(mt)
		logger.SkipCancelOnFail(true)
		logger.Errorf("expected failure")

		assert.Empty(t, mt.errors)
		require.Len(t, mt.logs, 1)
		assert.Contains(t, mt.logs[0], "expected failure")
	})

	t.Run("shutdown ignores everything", func(t *testing.T) {
		mt := &mockT{}

		logger := ulogger.NewErrorTestLogger(mt)
		logger.Shutdown()
		logger.Errorf("late")

		assert.Empty(t, mt.errors)
		assert.Empty(t, mt.logs)
	})
}

func TestGoCoreLogger(t *testing.T) {
	logger := ulogger.New("gocore-test", ulogger.WithLoggerType("gocore"), ulogger.WithLevel("DEBUG"))
	require.NotNil(t, logger)

	_, ok := logger.(*ulogger.GoCoreLogger)
	assert.True(t, ok)

	require.NotNil(t, logger.New("child"))
	require.NotNil(t, logger.Duplicate(ulogger.WithSkipFrame(1)))
}
