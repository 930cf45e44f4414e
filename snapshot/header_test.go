package snapshot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bsv-blockchain/utxodump/chaincfg"
	"github.com/bsv-blockchain/utxodump/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadHeader(t *testing.T) {
	blockHash := hashOf(0xab)
	blockHash[0] = 0x01

	b := newSnapshotBuilder(chaincfg.MainNetParams.Net, blockHash, 177_240_679)
	assert.Equal(t, HeaderSize, b.Len())

	header, err := ReadHeader(bytes.NewReader(b.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, SupportedVersion, header.Version)
	assert.Equal(t, chaincfg.MainNetParams.Net, header.Network)
	assert.Equal(t, blockHash, header.BlockHash)
	assert.Equal(t, uint64(177_240_679), header.CoinCount)
	assert.Equal(t, "Mainnet", header.NetworkName())

	// the hash is displayed in reverse byte order, the first stored byte is last
	assert.True(t, strings.HasSuffix(header.BlockHash.String(), "01"))
	assert.Equal(t, "UTXO Snapshot for Mainnet at block hash "+strings.Repeat("ab", 16)+"..., contains 177240679 coins", header.String())
}

func TestReadHeader_Networks(t *testing.T) {
	tests := []struct {
		net      chaincfg.NetMagic
		expected string
	}{
		{chaincfg.MainNetParams.Net, "Mainnet"},
		{chaincfg.SigNetParams.Net, "Signet"},
		{chaincfg.TestNet3Params.Net, "Testnet3"},
		{chaincfg.TestNet4Params.Net, "Testnet4"},
		{chaincfg.RegTestParams.Net, "Regtest"},
		{chaincfg.NetMagic{0xde, 0xad, 0xbe, 0xef}, "unknown network (deadbeef)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			b := newSnapshotBuilder(tt.net, hashOf(0x01), 0)

			header, err := ReadHeader(bytes.NewReader(b.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, header.NetworkName())
		})
	}
}

func TestReadHeader_Invalid(t *testing.T) {
	valid := newSnapshotBuilder(chaincfg.MainNetParams.Net, hashOf(0x01), 1).Bytes()

	badMagic := append([]byte{}, valid...)
	badMagic[4] = 0xfe

	badVersion := append([]byte{}, valid...)
	badVersion[5] = 0x01

	futureVersion := append([]byte{}, valid...)
	futureVersion[5] = 0x03

	tests := []struct {
		name     string
		input    []byte
		expected error
	}{
		{"empty", nil, errors.ErrTruncatedInput},
		{"short magic", []byte{'u', 't', 'x'}, errors.ErrTruncatedInput},
		{"bad magic", badMagic, errors.ErrBadMagic},
		{"bad magic short stream", []byte("utxo!"), errors.ErrBadMagic},
		{"version 1", badVersion, errors.ErrUnsupportedVersion},
		{"version 3", futureVersion, errors.ErrUnsupportedVersion},
		{"missing coin count", valid[:HeaderSize-8], errors.ErrTruncatedInput},
		{"short block hash", valid[:20], errors.ErrTruncatedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadHeader(bytes.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
		})
	}
}

func TestCursor(t *testing.T) {
	c := NewCursor(bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04}), 0)

	b, err := c.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), b)

	buf, err := c.ReadFull(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x03}, buf)
	assert.Equal(t, uint64(3), c.Offset())

	_, err = c.ReadFull(2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTruncatedInput))

	var tErr *errors.Error
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, uint64(4), tErr.GetData("offset"))

	eof, err := c.AtEOF()
	require.NoError(t, err)
	assert.True(t, eof)

	_, err = c.ReadByte()
	assert.True(t, errors.Is(err, errors.ErrTruncatedInput))
}

func TestCursor_AtEOF(t *testing.T) {
	c := NewCursor(bytes.NewReader([]byte{0x01, 0x02}), 16)

	_, err := c.ReadByte()
	require.NoError(t, err)

	eof, err := c.AtEOF()
	require.NoError(t, err)
	assert.False(t, eof)
	assert.Equal(t, uint64(2), c.Offset())
}
