// Package bytesize parses and prints human readable byte sizes such as
// "4MB" or "512k". ByteSize implements flag.Value so it can back a CLI flag.
package bytesize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bsv-blockchain/utxodump/errors"
)

// ByteSize represents a memory size in bytes
type ByteSize int

const (
	B  ByteSize = 1
	KB          = B * 1024
	MB          = KB * 1024
	GB          = MB * 1024
	TB          = GB * 1024
)

func Parse(s string) (ByteSize, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	i := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})

	numPart, unit := s, "B"
	if i != -1 {
		numPart, unit = s[:i], strings.TrimSpace(s[i:])
	}

	num, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, errors.NewInvalidArgumentError("invalid byte size %q", s, err)
	}

	var multiplier ByteSize

	switch unit {
	case "B":
		multiplier = B
	case "KB", "K":
		multiplier = KB
	case "MB", "M":
		multiplier = MB
	case "GB", "G":
		multiplier = GB
	case "TB", "T":
		multiplier = TB
	default:
		return 0, errors.NewInvalidArgumentError("invalid unit %v in byte size %q", unit, s)
	}

	return ByteSize(num * float64(multiplier)), nil
}

// String returns a human-readable string representation of the ByteSize
func (b ByteSize) String() string {
	abs := b
	if b < 0 {
		abs = -b
	}

	switch {
	case abs >= TB:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(TB))
	case abs >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case abs >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case abs >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func (b ByteSize) Int() int {
	return int(b)
}

// Set implements flag.Value.
func (b *ByteSize) Set(s string) error {
	v, err := Parse(s)
	if err != nil {
		return err
	}

	*b = v

	return nil
}
