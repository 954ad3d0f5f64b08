package helper

import (
	"fmt"
	"strconv"
	"strings"
)

func Clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// RoundDiv divides non-negative n by positive d, rounding half up.
func RoundDiv(n, d int) int {
	if d <= 0 {
		return 0
	}
	return (2*n + d) / (2 * d)
}

// Percent is round-half-up(100 * part / total); 0 when total is 0.
func Percent(part, total int) int {
	return RoundDiv(100*part, total)
}

func StringsToInts(ss ...string) ([]int, error) {
	out := make([]int, len(ss))
	for i, s := range ss {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("invalid int at index %d (%q): %w", i, s, err)
		}
		out[i] = n
	}
	return out, nil
}

// OptionalInts parses form selections where "" means no selection.
func OptionalInts(ss ...string) ([]*int, error) {
	out := make([]*int, len(ss))
	for i, s := range ss {
		if strings.TrimSpace(s) == "" {
			continue
		}
		n, err := StringsToInts(s)
		if err != nil {
			return nil, fmt.Errorf("selection %d: %w", i, err)
		}
		out[i] = &n[0]
	}
	return out, nil
}
