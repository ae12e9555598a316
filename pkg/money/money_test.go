package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Currency
// ---------------------------------------------------------------------------

func TestNewCurrency_Valid(t *testing.T) {
	for _, code := range []string{"USD", "EUR", "XAF", "CHF"} {
		c, err := NewCurrency(code)
		if err != nil {
			t.Errorf("NewCurrency(%q) unexpected error: %v", code, err)
		}
		if c.Code() != code {
			t.Errorf("NewCurrency(%q).Code() = %q, want %q", code, c.Code(), code)
		}
	}
}

func TestNewCurrency_Invalid(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"empty", ""},
		{"lowercase", "eur"},
		{"too short", "EU"},
		{"too long", "EURO"},
		{"digits", "EU1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCurrency(tt.code); err == nil {
				t.Errorf("NewCurrency(%q) expected error, got nil", tt.code)
			}
		})
	}
}

func TestMustCurrency_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustCurrency(\"bad\") did not panic")
		}
	}()
	MustCurrency("bad")
}

// ---------------------------------------------------------------------------
// Money
// ---------------------------------------------------------------------------

func TestNewFromString_RoundsToCents(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"100", "100.00 EUR"},
		{"1066.185", "1066.19 EUR"},
		{"0.004", "0.00 EUR"},
		{"-2.345", "-2.35 EUR"},
	}
	for _, tt := range tests {
		m, err := NewFromString(tt.amount, "EUR")
		if err != nil {
			t.Fatalf("NewFromString(%q) unexpected error: %v", tt.amount, err)
		}
		if got := m.String(); got != tt.want {
			t.Errorf("NewFromString(%q).String() = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestNewFromString_Invalid(t *testing.T) {
	if _, err := NewFromString("abc", "EUR"); err == nil {
		t.Error("expected error for invalid amount")
	}
	if _, err := NewFromString("10", "eur"); err == nil {
		t.Error("expected error for invalid currency")
	}
}

func TestAddSubtract(t *testing.T) {
	a := New(decimal.NewFromFloat(10.10), EUR)
	b := New(decimal.NewFromFloat(0.25), EUR)

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add unexpected error: %v", err)
	}
	if !sum.Amount().Equal(decimal.RequireFromString("10.35")) {
		t.Errorf("Add = %s, want 10.35", sum.Amount())
	}

	diff, err := a.Subtract(b)
	if err != nil {
		t.Fatalf("Subtract unexpected error: %v", err)
	}
	if !diff.Amount().Equal(decimal.RequireFromString("9.85")) {
		t.Errorf("Subtract = %s, want 9.85", diff.Amount())
	}

	if _, err := a.Add(New(decimal.NewFromInt(1), USD)); err == nil {
		t.Error("Add with mismatched currencies expected error, got nil")
	}
	if _, err := a.Subtract(New(decimal.NewFromInt(1), USD)); err == nil {
		t.Error("Subtract with mismatched currencies expected error, got nil")
	}
}

func TestIsPositive(t *testing.T) {
	if New(decimal.RequireFromString("0.01"), EUR).IsPositive() {
		t.Error("one cent is within tolerance and must not count as positive")
	}
	if !New(decimal.RequireFromString("0.02"), EUR).IsPositive() {
		t.Error("two cents must count as positive")
	}
}

// ---------------------------------------------------------------------------
// Rounding helpers
// ---------------------------------------------------------------------------

func TestRound2_HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2.345", "2.35"},
		{"-2.345", "-2.35"},
		{"2.344", "2.34"},
		{"0.005", "0.01"},
		{"-0.005", "-0.01"},
		{"7", "7"},
	}
	for _, tt := range tests {
		got := Round2(decimal.RequireFromString(tt.in))
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("Round2(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestIsNegligible(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0", true},
		{"0.01", true},
		{"0.011", false},
		{"-3", true},
		{"5", false},
	}
	for _, tt := range tests {
		if got := IsNegligible(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("IsNegligible(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMinMaxNonNegativeSum(t *testing.T) {
	a := decimal.NewFromInt(3)
	b := decimal.NewFromInt(5)
	if !Min(a, b).Equal(a) {
		t.Errorf("Min = %s, want 3", Min(a, b))
	}
	if !Max(a, b).Equal(b) {
		t.Errorf("Max = %s, want 5", Max(a, b))
	}
	if !NonNegative(decimal.NewFromInt(-1)).IsZero() {
		t.Error("NonNegative(-1) should be zero")
	}
	got := Sum(decimal.RequireFromString("0.105"), decimal.RequireFromString("0.1"))
	if !got.Equal(decimal.RequireFromString("0.21")) {
		t.Errorf("Sum = %s, want 0.21", got)
	}
}
