package calculator

import (
	"errors"
	"math"
	"testing"
)

func TestRSI_MonotonicIncreasing(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	for _, mode := range []RSIMode{RSISimple, RSIWilder} {
		v, err := RSI(prices, 14, mode)
		if err != nil {
			t.Fatalf("mode %d: unexpected error: %v", mode, err)
		}
		if v != 100 {
			t.Errorf("mode %d: expected RSI 100 for monotonic gains, got %.4f", mode, v)
		}
	}
}

func TestRSI_FlatSeries(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 50000
	}
	for _, mode := range []RSIMode{RSISimple, RSIWilder} {
		v, err := RSI(prices, 14, mode)
		if err != nil {
			t.Fatalf("mode %d: unexpected error: %v", mode, err)
		}
		// Zero average loss yields 100, not a 50 midpoint.
		if v != 100 {
			t.Errorf("mode %d: expected RSI 100 for flat series, got %.4f", mode, v)
		}
	}
}

func TestRSI_KnownValue(t *testing.T) {
	// Trailing 2 deltas: -1 and +2. avgGain=1, avgLoss=0.5, RS=2.
	prices := []float64{1, 2, 1, 3}
	v, err := RSI(prices, 2, RSISimple)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 100 - 100/(1+2.0)
	if math.Abs(v-want) > 1e-9 {
		t.Errorf("expected RSI %.4f, got %.4f", want, v)
	}
}

func TestRSI_Bounds(t *testing.T) {
	prices := []float64{100, 104, 98, 103, 99, 105, 101, 97, 102, 108, 95, 101, 99, 104, 100, 103}
	for _, mode := range []RSIMode{RSISimple, RSIWilder} {
		v, err := RSI(prices, 14, mode)
		if err != nil {
			t.Fatalf("mode %d: unexpected error: %v", mode, err)
		}
		if v < 0 || v > 100 {
			t.Errorf("mode %d: RSI out of [0,100]: %.4f", mode, v)
		}
	}
}

func TestRSI_InsufficientData(t *testing.T) {
	prices := []float64{1, 2, 3}
	_, err := RSI(prices, 14, RSISimple)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestRSI_WilderWarmUpIsNaN(t *testing.T) {
	prices := []float64{1, 2, 3}
	v, err := RSI(prices, 14, RSIWilder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(v) {
		t.Errorf("expected NaN during Wilder warm-up, got %.4f", v)
	}
}

func TestRSI_InvalidPeriod(t *testing.T) {
	for _, period := range []int{0, -5} {
		if _, err := RSI([]float64{1, 2, 3}, period, RSISimple); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("period %d: expected ErrInvalidArgument, got %v", period, err)
		}
	}
}

func TestRSISeries_Alignment(t *testing.T) {
	prices := []float64{100, 104, 98, 103, 99, 105, 101, 97, 102, 108, 95, 101, 99, 104, 100, 103, 107, 98}
	period := 14
	for _, mode := range []RSIMode{RSISimple, RSIWilder} {
		col, err := RSISeries(prices, period, mode)
		if err != nil {
			t.Fatalf("mode %d: unexpected error: %v", mode, err)
		}
		if len(col) != len(prices) {
			t.Fatalf("mode %d: expected %d values, got %d", mode, len(prices), len(col))
		}
		for i := 0; i < period; i++ {
			if !math.IsNaN(col[i]) {
				t.Errorf("mode %d: index %d should be NaN during warm-up, got %.4f", mode, i, col[i])
			}
		}
		for i := period; i < len(col); i++ {
			if math.IsNaN(col[i]) || col[i] < 0 || col[i] > 100 {
				t.Errorf("mode %d: index %d out of range: %.4f", mode, i, col[i])
			}
		}
	}
}

func TestRSISeries_LastMatchesPointCalculation(t *testing.T) {
	prices := []float64{100, 104, 98, 103, 99, 105, 101, 97, 102, 108, 95, 101, 99, 104, 100, 103, 107, 98}
	for _, mode := range []RSIMode{RSISimple, RSIWilder} {
		col, err := RSISeries(prices, 14, mode)
		if err != nil {
			t.Fatalf("mode %d: unexpected error: %v", mode, err)
		}
		point, err := RSI(prices, 14, mode)
		if err != nil {
			t.Fatalf("mode %d: unexpected error: %v", mode, err)
		}
		if math.Abs(col[len(col)-1]-point) > 1e-9 {
			t.Errorf("mode %d: series tail %.6f != point value %.6f", mode, col[len(col)-1], point)
		}
	}
}

func TestRSISeries_ShortInputAllNaN(t *testing.T) {
	col, err := RSISeries([]float64{1, 2, 3}, 14, RSISimple)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range col {
		if !math.IsNaN(v) {
			t.Errorf("index %d: expected NaN, got %.4f", i, v)
		}
	}
}

func TestParseRSIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    RSIMode
		wantErr bool
	}{
		{"", RSISimple, false},
		{"simple", RSISimple, false},
		{"wilder", RSIWilder, false},
		{"exponential", RSIWilder, false},
		{"bogus", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseRSIMode(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("%q: expected ErrInvalidArgument, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("%q: expected mode %d, got %d", tt.in, tt.want, got)
		}
	}
}
