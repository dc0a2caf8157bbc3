package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.25e9, "$1.25B"},
		{-340e6, "-$340.0M"},
		{87.5e3, "$87.5K"},
		{12.3, "$12.30"},
		{-2.5e9, "-$2.50B"},
		{0, "$0.00"},
	}
	for _, tt := range tests {
		if got := Currency(tt.in); got != tt.want {
			t.Errorf("Currency(%v): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestPercentage(t *testing.T) {
	if got := Percentage(2.345); got != "+2.35%" {
		t.Errorf("expected +2.35%%, got %q", got)
	}
	if got := Percentage(-0.5); got != "-0.50%" {
		t.Errorf("expected -0.50%%, got %q", got)
	}
}

func TestLargeNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2.5e9, "2.50B"},
		{150e6, "150.0M"},
		{9.5e3, "9.5K"},
		{42, "42.00"},
	}
	for _, tt := range tests {
		if got := LargeNumber(tt.in); got != tt.want {
			t.Errorf("LargeNumber(%v): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestDirection(t *testing.T) {
	if Direction(1) != "↑" || Direction(-1) != "↓" || Direction(0) != "→" {
		t.Error("unexpected direction arrows")
	}
}
