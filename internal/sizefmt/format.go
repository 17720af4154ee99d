// Package sizefmt renders byte counts in the output formats dux supports
// and parses human-supplied size strings such as thresholds.
package sizefmt

import (
	"fmt"
	"math"
	"strconv"
)

// Formatter renders a computed size for one output line.
type Formatter func(bytes int64) string

// units is the binary-prefix ladder shared by the human formatter, block
// specs, and size parsing. Z exceeds int64 range, so divisors are float64.
var units = [...]struct {
	Suffix  string
	Divisor float64
}{
	{"K", 1 << 10},
	{"M", 1 << 20},
	{"G", 1 << 30},
	{"T", 1 << 40},
	{"P", 1 << 50},
	{"E", 1 << 60},
	{"Z", 1180591620717411303424}, // 2^70
}

// Human renders a byte count with one fractional digit and a binary-prefix
// suffix: "512B", "1.0K", "3.4M". Values below 1K print as plain bytes.
func Human(bytes int64) string {
	if bytes < 1024 {
		return strconv.FormatInt(bytes, 10) + "B"
	}
	last := units[len(units)-1]
	suffix, divisor := last.Suffix, last.Divisor
	for _, u := range units {
		if float64(bytes) < u.Divisor*1024 {
			suffix, divisor = u.Suffix, u.Divisor
			break
		}
	}
	return fmt.Sprintf("%.1f%s", float64(bytes)/divisor, suffix)
}

// Raw renders the byte count verbatim.
func Raw(bytes int64) string {
	return strconv.FormatInt(bytes, 10)
}

// BlockSpec is a parsed -B argument: either a unit letter from the ladder
// or an explicit positive block size in bytes.
type BlockSpec struct {
	suffix  string // empty for integer block sizes
	divisor float64
}

// ParseBlockSpec parses the value of a -B flag. Accepted forms are a single
// unit letter (e.g. "G") or a positive integer block size (e.g. "4096").
func ParseBlockSpec(spec string) (BlockSpec, error) {
	for _, u := range units {
		if spec == u.Suffix {
			return BlockSpec{suffix: u.Suffix, divisor: u.Divisor}, nil
		}
	}
	n, err := strconv.ParseInt(spec, 10, 64)
	if err != nil || n <= 0 {
		return BlockSpec{}, fmt.Errorf("invalid block size %q: expected a unit letter (K..Z) or a positive integer", spec)
	}
	return BlockSpec{divisor: float64(n)}, nil
}

// Format renders bytes as a count of blocks, rounded up. Unit-letter specs
// keep their suffix ("3G"); integer specs render a bare block count.
func (b BlockSpec) Format(bytes int64) string {
	n := int64(math.Ceil(float64(bytes) / b.divisor))
	return strconv.FormatInt(n, 10) + b.suffix
}
