package calculator

import "fmt"

// RollingAverage computes the trailing mean over `window` points for each
// index. Indexes with fewer than `window` points so far average everything
// available (minimum period 1), so the output always has one value per
// input point.
func RollingAverage(prices []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: window must be positive, got %d", ErrInvalidArgument, window)
	}
	out := make([]float64, len(prices))
	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= window {
			sum -= prices[i-window]
			out[i] = sum / float64(window)
		} else {
			out[i] = sum / float64(i+1)
		}
	}
	return out, nil
}
