package utxodump

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bsv-blockchain/utxodump/chaincfg"
	"github.com/bsv-blockchain/utxodump/settings"
	"github.com/bsv-blockchain/utxodump/util/usql"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oneCoinSnapshot is a regtest snapshot holding a single p2pkh coin of 1 BSV
// at height 5.
func oneCoinSnapshot() []byte {
	var b bytes.Buffer

	b.Write([]byte{'u', 't', 'x', 'o', 0xff})
	b.Write([]byte{0x02, 0x00})
	b.Write(chaincfg.RegTestParams.Net[:])
	b.Write(bytes.Repeat([]byte{0x0b}, 32))
	b.Write([]byte{0x01, 0, 0, 0, 0, 0, 0, 0})

	b.Write(bytes.Repeat([]byte{0xaa}, 32)) // txid
	b.WriteByte(0x01)                       // coins in group
	b.WriteByte(0x00)                       // vout
	b.WriteByte(0x0a)                       // height 5, not coinbase
	b.WriteByte(0x09)                       // 100000000 sat
	b.WriteByte(0x00)                       // p2pkh
	b.Write(bytes.Repeat([]byte{0x11}, 20))

	return b.Bytes()
}

func writeFile(t *testing.T, name string, content []byte) string {
	filename := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(filename, content, 0o600))

	return filename
}

func run(t *testing.T, args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer

	code := Run(context.Background(), settings.NewSettings(), args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func TestRun_SQLite(t *testing.T) {
	infile := writeFile(t, "utxo.dat", oneCoinSnapshot())
	outfile := filepath.Join(t.TempDir(), "utxo.db")

	code, _, stderr := run(t, infile, outfile)
	require.Equal(t, 0, code, stderr)

	db, err := usql.Open("sqlite", outfile)
	require.NoError(t, err)

	defer db.Close()

	var (
		txid, script          string
		vout, value, coinbase int64
		height                int64
	)

	err = db.QueryRow("SELECT txid, vout, value, coinbase, height, scriptpubkey FROM utxos").Scan(&txid, &vout, &value, &coinbase, &height, &script)
	require.NoError(t, err)

	assert.Equal(t, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", txid)
	assert.Equal(t, int64(0), vout)
	assert.Equal(t, int64(100_000_000), value)
	assert.Equal(t, int64(0), coinbase)
	assert.Equal(t, int64(5), height)
	assert.Equal(t, "76a914111111111111111111111111111111111111111188ac", script)
}

func TestRun_GzipInput(t *testing.T) {
	var compressed bytes.Buffer

	gz := gzip.NewWriter(&compressed)
	_, err := gz.Write(oneCoinSnapshot())
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	infile := writeFile(t, "utxo.dat.gz", compressed.Bytes())

	code, _, stderr := run(t, "--batch-size", "1", "--buffer-size", "64KB", infile, "null://")
	assert.Equal(t, 0, code, stderr)
}

func TestRun_Failures(t *testing.T) {
	existing := writeFile(t, "exists.db", []byte("x"))
	valid := writeFile(t, "utxo.dat", oneCoinSnapshot())
	trailing := writeFile(t, "trailing.dat", append(oneCoinSnapshot(), 0x00))

	badMagic := oneCoinSnapshot()
	badMagic[0] = 'U'
	badMagicFile := writeFile(t, "badmagic.dat", badMagic)

	truncated := oneCoinSnapshot()
	truncatedFile := writeFile(t, "truncated.dat", truncated[:len(truncated)-3])

	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"missing infile", []string{filepath.Join(t.TempDir(), "nope.dat"), "null://"}},
		{"existing outfile", []string{valid, existing}},
		{"bad magic", []string{badMagicFile, "null://"}},
		{"truncated", []string{truncatedFile, "null://"}},
		{"trailing data", []string{trailing, "memory://"}},
		{"unknown scheme", []string{valid, "aerospike://localhost:3000/test"}},
		{"bad buffer size", []string{"--buffer-size", "lots", valid, "null://"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := run(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, "error: ")
		})
	}

	// the existing output was left alone
	content, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "x", string(content))
}

func TestRun_Header(t *testing.T) {
	infile := writeFile(t, "utxo.dat", oneCoinSnapshot())

	code, stdout, stderr := run(t, "header", infile)
	require.Equal(t, 0, code, stderr)

	assert.Equal(t, "UTXO Snapshot for Regtest at block hash 0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b..., contains 1 coins\n", stdout)

	code, _, _ = run(t, "header")
	assert.Equal(t, 1, code)
}
