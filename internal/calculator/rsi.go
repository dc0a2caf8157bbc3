package calculator

import (
	"fmt"
	"math"
)

// RSIMode selects how average gains and losses are smoothed.
type RSIMode int

const (
	// RSISimple averages the trailing `period` deltas with a plain mean.
	RSISimple RSIMode = iota
	// RSIWilder applies exponential smoothing with center of mass
	// period-1 (Wilder's method).
	RSIWilder
)

// ParseRSIMode maps a config string to an RSIMode.
func ParseRSIMode(s string) (RSIMode, error) {
	switch s {
	case "", "simple":
		return RSISimple, nil
	case "wilder", "exponential":
		return RSIWilder, nil
	default:
		return 0, fmt.Errorf("%w: unknown RSI mode %q", ErrInvalidArgument, s)
	}
}

// RSI computes the Relative Strength Index from a price series.
//
// In simple mode fewer than period+1 prices is an ErrInsufficientData.
// In Wilder mode the same shortage yields NaN instead of an error,
// matching the warm-up semantics of exponential smoothing.
// A zero average loss (including a perfectly flat series, where both
// averages are zero) yields exactly 100.
func RSI(prices []float64, period int, mode RSIMode) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("%w: period must be positive, got %d", ErrInvalidArgument, period)
	}
	switch mode {
	case RSISimple:
		return simpleRSI(prices, period)
	case RSIWilder:
		return wilderRSI(prices, period), nil
	default:
		return 0, fmt.Errorf("%w: unknown RSI mode %d", ErrInvalidArgument, mode)
	}
}

// RSISeries returns a position-aligned RSI column: one value per input
// point, NaN until period+1 points have accumulated.
func RSISeries(prices []float64, period int, mode RSIMode) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("%w: period must be positive, got %d", ErrInvalidArgument, period)
	}
	out := make([]float64, len(prices))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(prices) < period+1 {
		return out, nil
	}

	switch mode {
	case RSISimple:
		for i := period; i < len(prices); i++ {
			v, err := simpleRSI(prices[:i+1], period)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
	case RSIWilder:
		avgGain, avgLoss := seedAverages(prices, period)
		out[period] = fromAverages(avgGain, avgLoss)
		for i := period + 1; i < len(prices); i++ {
			gain, loss := split(prices[i] - prices[i-1])
			avgGain = (avgGain*float64(period-1) + gain) / float64(period)
			avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
			out[i] = fromAverages(avgGain, avgLoss)
		}
	default:
		return nil, fmt.Errorf("%w: unknown RSI mode %d", ErrInvalidArgument, mode)
	}
	return out, nil
}

func simpleRSI(prices []float64, period int) (float64, error) {
	if len(prices) < period+1 {
		return 0, fmt.Errorf("%w: RSI(%d) needs %d prices, got %d",
			ErrInsufficientData, period, period+1, len(prices))
	}
	var gainSum, lossSum float64
	for i := len(prices) - period; i < len(prices); i++ {
		gain, loss := split(prices[i] - prices[i-1])
		gainSum += gain
		lossSum += loss
	}
	return fromAverages(gainSum/float64(period), lossSum/float64(period)), nil
}

func wilderRSI(prices []float64, period int) float64 {
	if len(prices) < period+1 {
		return math.NaN() // still warming up
	}
	avgGain, avgLoss := seedAverages(prices, period)
	for i := period + 1; i < len(prices); i++ {
		gain, loss := split(prices[i] - prices[i-1])
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}
	return fromAverages(avgGain, avgLoss)
}

// seedAverages computes the simple mean of the first `period` deltas,
// the starting point for Wilder smoothing.
func seedAverages(prices []float64, period int) (avgGain, avgLoss float64) {
	for i := 1; i <= period; i++ {
		gain, loss := split(prices[i] - prices[i-1])
		avgGain += gain
		avgLoss += loss
	}
	return avgGain / float64(period), avgLoss / float64(period)
}

func split(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}
	return 0, -change
}

func fromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
