package sizefmt

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSize parses a human-readable size string into bytes.
// Supports a bare number plus B/K/M/G/T/P/E/Z suffixes (case-insensitive),
// using powers of 1024.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	multiplier := float64(1)
	numStr := s

	last := strings.ToUpper(s[len(s)-1:])
	if last == "B" {
		numStr = s[:len(s)-1]
	} else {
		for _, u := range units {
			if last == u.Suffix {
				multiplier = u.Divisor
				numStr = s[:len(s)-1]
				break
			}
		}
	}

	if numStr == "" {
		return 0, fmt.Errorf("invalid size: %q", s)
	}

	// Integer input keeps integer arithmetic, so byte-exact values above
	// 2^53 survive. Only the Z multiplier exceeds int64 range.
	if n, err := strconv.ParseInt(numStr, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative size: %q", s)
		}
		if m := int64(multiplier); float64(m) == multiplier {
			return n * m, nil
		}
		return int64(float64(n) * multiplier), nil
	}

	f, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size: %q", s)
	}
	if f < 0 {
		return 0, fmt.Errorf("negative size: %q", s)
	}

	return int64(f * multiplier), nil
}
