package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrValidation is the root of the validation branch of the error taxonomy.
// Every malformed-input failure across the services wraps it, so handlers
// can map the whole family to a 400 with a single errors.Is check.
var ErrValidation = errors.New("validation error")

// minorUnitsPerMajor is the scale between user-facing decimal amounts and
// stored integer amounts (e.g. 100 cents per dollar, 100 tyiyn per som).
const minorUnitsPerMajor = 100

// ToMinorUnits converts a user-facing decimal amount to integer minor units
// using round-half-away-from-zero. Non-finite and negative input is rejected;
// amounts are always non-negative at the point of entry because sign is
// structural (carried by the entry type), never stored.
func ToMinorUnits(major float64) (int64, error) {
	if math.IsNaN(major) || math.IsInf(major, 0) {
		return 0, fmt.Errorf("%w: amount must be a finite number", ErrValidation)
	}
	if major < 0 {
		return 0, fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}
	return int64(math.Round(major * minorUnitsPerMajor)), nil
}

// ToMajorUnits converts integer minor units back to the user-facing decimal
// representation. Exact for every amount with two decimal places.
func ToMajorUnits(minor int64) float64 {
	return float64(minor) / minorUnitsPerMajor
}

// pinCodeLength is the fixed length of a manager PIN.
const pinCodeLength = 6

// ValidatePinCode checks that pin is exactly six ASCII digits.
func ValidatePinCode(pin string) error {
	if len(pin) != pinCodeLength {
		return fmt.Errorf("%w: pin code must be exactly %d digits", ErrValidation, pinCodeLength)
	}
	for _, ch := range []byte(pin) {
		if ch < '0' || ch > '9' {
			return fmt.Errorf("%w: pin code must contain only digits", ErrValidation)
		}
	}
	return nil
}

// ValidateSharePct checks that a revenue share percentage is a whole percent
// between 0 and 100.
func ValidateSharePct(pct int64) error {
	if pct < 0 || pct > 100 {
		return fmt.Errorf("%w: revenue share percent must be between 0 and 100", ErrValidation)
	}
	return nil
}

// NormalizeNote trims optional text and collapses empty input to nil, so
// persisted data never carries the ambiguous empty string.
func NormalizeNote(note *string) *string {
	if note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
