package calculator

import (
	"math"
	"testing"
	"time"

	"CryptoPulse/internal/model"
)

func TestChange(t *testing.T) {
	values := []float64{100, 102, 101, 105}
	if got := Change(values, 1); got != 4 {
		t.Errorf("lookback 1: expected 4, got %.2f", got)
	}
	if got := Change(values, 3); got != 5 {
		t.Errorf("lookback 3: expected 5, got %.2f", got)
	}
	if got := Change(values, 4); got != 0 {
		t.Errorf("lookback beyond series: expected 0, got %.2f", got)
	}
	if got := Change(nil, 1); got != 0 {
		t.Errorf("empty series: expected 0, got %.2f", got)
	}
}

func TestPctChange(t *testing.T) {
	if got := PctChange(110, 100); math.Abs(got-10) > 1e-9 {
		t.Errorf("expected 10%%, got %.4f", got)
	}
	// Negative base measures against magnitude so the sign of the move
	// survives.
	if got := PctChange(-50, -100); math.Abs(got-50) > 1e-9 {
		t.Errorf("expected 50%%, got %.4f", got)
	}
	if got := PctChange(10, 0); got != 0 {
		t.Errorf("zero base: expected 0, got %.4f", got)
	}
}

func TestSummarizeFlows(t *testing.T) {
	day := 24 * time.Hour
	now := time.Now().UTC()
	// Most recent first.
	flows := []float64{10e6, 20e6, 30e6, 40e6, 50e6, 60e6, 70e6, 999e6}
	history := make([]model.FlowPoint, len(flows))
	for i, f := range flows {
		history[i] = model.FlowPoint{Time: now.Add(-time.Duration(i) * day), FlowUSD: f}
	}

	s := SummarizeFlows(history, 120e9)
	if s.NetFlow1D != 10e6 {
		t.Errorf("expected 1d flow 10M, got %.0f", s.NetFlow1D)
	}
	if s.NetFlow7D != 280e6 {
		t.Errorf("expected 7d flow 280M, got %.0f", s.NetFlow7D)
	}
	if math.Abs(s.ChangePct - -50) > 1e-9 {
		t.Errorf("expected -50%% day-over-day, got %.4f", s.ChangePct)
	}
	if s.TotalAUM != 120e9 {
		t.Errorf("expected AUM 120B, got %.0f", s.TotalAUM)
	}
}

func TestSummarizeFlows_Empty(t *testing.T) {
	s := SummarizeFlows(nil, 5e9)
	if s.NetFlow1D != 0 || s.NetFlow7D != 0 || s.ChangePct != 0 {
		t.Errorf("expected zero flows for empty history, got %+v", s)
	}
	if s.TotalAUM != 5e9 {
		t.Errorf("expected AUM kept, got %.0f", s.TotalAUM)
	}
}
