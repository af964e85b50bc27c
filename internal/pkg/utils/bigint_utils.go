package utils

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// MaxDecimals is the largest precision the client converts amounts with.
const MaxDecimals = 77

var (
	// ErrMalformedAmount is returned for strings that are not a plain non-negative decimal.
	ErrMalformedAmount = errors.New("malformed decimal amount")
	// ErrExcessPrecision is returned when an amount has more fractional digits than allowed.
	ErrExcessPrecision = errors.New("fractional component exceeds decimals")

	decimalPattern = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)
)

// IsPositiveDecimal reports whether s is a plain decimal number greater than zero.
func IsPositiveDecimal(s string) bool {
	s = strings.TrimSpace(s)
	if !decimalPattern.MatchString(s) {
		return false
	}
	return strings.Trim(s, "0.") != ""
}

// ParseUnits converts a decimal string into its smallest-unit integer using the given precision.
// Example: ParseUnits("2.5", 6) => 2500000
func ParseUnits(amount string, decimals uint8) (*big.Int, error) {
	if decimals > MaxDecimals {
		return nil, fmt.Errorf("unsupported precision %d", decimals)
	}
	amount = strings.TrimSpace(amount)
	if !decimalPattern.MatchString(amount) {
		return nil, fmt.Errorf("%w: %q", ErrMalformedAmount, amount)
	}

	whole, frac, _ := strings.Cut(amount, ".")
	frac = strings.TrimRight(frac, "0")
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("%w: %q has more than %d fractional digits", ErrExcessPrecision, amount, decimals)
	}
	if whole == "" {
		whole = "0"
	}

	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	value, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedAmount, amount)
	}
	return value, nil
}

// FormatUnits converts a smallest-unit integer to a decimal string with the given precision.
// The result always carries at least one fractional digit.
// Example: amount=1500000000000000000, decimals=18 => "1.5"
func FormatUnits(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0.0"
	}

	negative := amount.Sign() < 0
	digits := new(big.Int).Abs(amount).String()
	if len(digits) <= int(decimals) {
		digits = strings.Repeat("0", int(decimals)-len(digits)+1) + digits
	}

	split := len(digits) - int(decimals)
	whole, frac := digits[:split], strings.TrimRight(digits[split:], "0")
	if frac == "" {
		frac = "0"
	}

	formatted := whole + "." + frac
	if negative {
		formatted = "-" + formatted
	}
	return formatted
}
