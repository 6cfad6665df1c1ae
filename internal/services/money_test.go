package services

import (
	"errors"
	"math"
	"testing"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name    string
		major   float64
		want    int64
		wantErr bool
	}{
		{name: "zero", major: 0, want: 0},
		{name: "whole amount", major: 150, want: 15000},
		{name: "two decimals", major: 99.99, want: 9999},
		{name: "half rounds away from zero", major: 0.005, want: 1},
		{name: "binary float artifact", major: 19.99, want: 1999},
		{name: "large amount", major: 1000000, want: 100000000},
		{name: "negative rejected", major: -1, wantErr: true},
		{name: "NaN rejected", major: math.NaN(), wantErr: true},
		{name: "positive infinity rejected", major: math.Inf(1), wantErr: true},
		{name: "negative infinity rejected", major: math.Inf(-1), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToMinorUnits(tt.major)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ToMinorUnits(%v) expected error, got %d", tt.major, got)
				}
				if !errors.Is(err, ErrValidation) {
					t.Errorf("ToMinorUnits(%v) error = %v, want ErrValidation", tt.major, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToMinorUnits(%v) unexpected error: %v", tt.major, err)
			}
			if got != tt.want {
				t.Errorf("ToMinorUnits(%v) = %d, want %d", tt.major, got, tt.want)
			}
		})
	}
}

func TestToMajorUnitsRoundTrip(t *testing.T) {
	for _, minor := range []int64{0, 1, 99, 100, 12345, 100000000} {
		major := ToMajorUnits(minor)
		back, err := ToMinorUnits(major)
		if err != nil {
			t.Fatalf("round trip of %d failed: %v", minor, err)
		}
		if back != minor {
			t.Errorf("round trip of %d: got %d", minor, back)
		}
	}
}

func TestValidatePinCode(t *testing.T) {
	tests := []struct {
		name    string
		pin     string
		wantErr bool
	}{
		{name: "valid", pin: "123456"},
		{name: "leading zeros", pin: "000000"},
		{name: "too short", pin: "12345", wantErr: true},
		{name: "too long", pin: "1234567", wantErr: true},
		{name: "empty", pin: "", wantErr: true},
		{name: "letters", pin: "12345a", wantErr: true},
		{name: "unicode digits", pin: "１２３４５６", wantErr: true},
		{name: "whitespace", pin: " 12345", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePinCode(tt.pin)
			if tt.wantErr && err == nil {
				t.Errorf("ValidatePinCode(%q) expected error", tt.pin)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidatePinCode(%q) unexpected error: %v", tt.pin, err)
			}
		})
	}
}

func TestValidateSharePct(t *testing.T) {
	for _, pct := range []int64{0, 1, 50, 100} {
		if err := ValidateSharePct(pct); err != nil {
			t.Errorf("ValidateSharePct(%d) unexpected error: %v", pct, err)
		}
	}
	for _, pct := range []int64{-1, 101, 1000} {
		if err := ValidateSharePct(pct); err == nil {
			t.Errorf("ValidateSharePct(%d) expected error", pct)
		}
	}
}

func TestNormalizeNote(t *testing.T) {
	if got := NormalizeNote(nil); got != nil {
		t.Errorf("NormalizeNote(nil) = %v, want nil", got)
	}
	empty := "   "
	if got := NormalizeNote(&empty); got != nil {
		t.Errorf("NormalizeNote(blank) = %q, want nil", *got)
	}
	padded := "  left at reception  "
	got := NormalizeNote(&padded)
	if got == nil || *got != "left at reception" {
		t.Errorf("NormalizeNote(padded) = %v, want trimmed", got)
	}
}
