package fit

import (
	"math"
	"strconv"
	"strings"
)

// ParseQuantity reads the leading integer of a form value. Blank,
// non-numeric and negative inputs yield 0, so "12abc" is 12 and "3.7" is 3.
// Values too large for an int saturate at math.MaxInt.
func ParseQuantity(raw string) int {
	s := strings.TrimSpace(raw)

	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 || negative {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return math.MaxInt
	}
	return n
}
