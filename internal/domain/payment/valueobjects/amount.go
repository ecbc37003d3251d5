package valueobjects

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// MinorUnitsPerMajor is the paise-per-rupee factor.
	MinorUnitsPerMajor = 100

	// MinMajorUnits is the floor every normalized amount is coerced to.
	MinMajorUnits = 1

	// MaxMajorUnits caps normalized input so minor units never overflow.
	MaxMajorUnits = 50_000_000
)

// Amount is a positive number of minor currency units (paise).
type Amount struct {
	minor int64
}

// NormalizeAmount turns raw form input into an Amount.
// Garbage, non-finite and sub-minimum input is coerced to the minimum instead of rejected.
func NormalizeAmount(raw string) Amount {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return NormalizeAmountFloat(math.NaN())
	}
	return NormalizeAmountFloat(v)
}

// NormalizeAmountFloat applies the same policy as NormalizeAmount to a numeric input.
func NormalizeAmountFloat(v float64) Amount {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < MinMajorUnits {
		v = MinMajorUnits
	}
	if v > MaxMajorUnits {
		v = MaxMajorUnits
	}
	return Amount{minor: int64(math.Round(v)) * MinorUnitsPerMajor}
}

// AmountFromMinor wraps minor units reported by the gateway.
func AmountFromMinor(minor int64) (Amount, error) {
	if minor <= 0 {
		return Amount{}, fmt.Errorf("amount must be positive, got %d", minor)
	}
	return Amount{minor: minor}, nil
}

// MajorToMinor converts a positive major-unit amount to minor units,
// rounding to the nearest paisa.
func MajorToMinor(major float64) (int64, error) {
	if math.IsNaN(major) || math.IsInf(major, 0) || major <= 0 {
		return 0, fmt.Errorf("amount must be a positive number")
	}
	minor := math.Round(major * MinorUnitsPerMajor)
	if minor < 1 || minor > float64(math.MaxInt64) {
		return 0, fmt.Errorf("amount %v is out of range", major)
	}
	return int64(minor), nil
}

func (a Amount) Minor() int64 {
	return a.minor
}

// Major returns whole major units, truncating any paise.
func (a Amount) Major() int64 {
	return a.minor / MinorUnitsPerMajor
}

func (a Amount) String() string {
	return fmt.Sprintf("%d.%02d", a.minor/MinorUnitsPerMajor, a.minor%MinorUnitsPerMajor)
}
