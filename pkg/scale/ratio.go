package scale

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidRatio is returned when a ratio string cannot be parsed.
var ErrInvalidRatio = errors.New("invalid ratio")

// FormatRatio renders a scale factor as a conventional drawing ratio. The
// representation with the smaller leading integer is chosen: reductions read
// "1:N" (one document pixel covers N mm) and enlargements read "N:1". Values
// are rounded to 3 significant digits for display only; the stored factor
// keeps full precision.
func FormatRatio(factor float64) string {
	if factor <= 0 {
		return "-"
	}
	if factor >= 1 {
		return "1:" + formatSig(factor, 3)
	}
	return formatSig(1/factor, 3) + ":1"
}

// ParseRatio parses a "A:B" ratio string back into a scale factor (mm per
// pixel). Both sides may be fractional.
func ParseRatio(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRatio, s)
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRatio, s)
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRatio, s)
	}
	if a <= 0 || b <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRatio, s)
	}
	return b / a, nil
}

// formatSig rounds v to the given number of significant digits and renders it
// without exponent notation, trimming trailing zeros.
func formatSig(v float64, digits int) string {
	if v == 0 {
		return "0"
	}
	exp := int(math.Floor(math.Log10(math.Abs(v))))
	decimals := digits - 1 - exp
	if decimals < 0 {
		pow := math.Pow(10, float64(-decimals))
		return strconv.FormatFloat(math.Round(v/pow)*pow, 'f', 0, 64)
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}
