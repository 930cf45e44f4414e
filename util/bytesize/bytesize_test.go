package bytesize

import (
	"testing"

	"github.com/bsv-blockchain/utxodump/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected ByteSize
	}{
		{"0", 0},
		{"512", 512},
		{"512b", 512},
		{"1k", KB},
		{"1KB", KB},
		{" 4 MB ", 4 * MB},
		{"1.5m", MB + MB/2},
		{"2G", 2 * GB},
		{"1tb", TB},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{"", "MB", "12XB", "1..2K"} {
		_, err := Parse(input)
		require.Error(t, err, input)
		assert.True(t, errors.Is(err, errors.ErrInvalidArgument), input)
	}
}

func TestByteSize_String(t *testing.T) {
	assert.Equal(t, "100 B", ByteSize(100).String())
	assert.Equal(t, "1.50 KB", (KB + KB/2).String())
	assert.Equal(t, "1.00 MB", MB.String())
	assert.Equal(t, "-2.00 GB", (-2 * GB).String())
	assert.Equal(t, "3.00 TB", (3 * TB).String())
}

func TestByteSize_Set(t *testing.T) {
	var b ByteSize

	require.NoError(t, b.Set("8M"))
	assert.Equal(t, 8*MB, b)
	assert.Equal(t, 8*1024*1024, b.Int())

	require.Error(t, b.Set("lots"))
	assert.Equal(t, 8*MB, b)
}
