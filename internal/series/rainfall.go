// Package series has the windowed reductions the decision engine runs over provider time series.
package series

import (
	"github.com/ANIKETSHETTY47/energy-grid-analytics-go/aggregator"

	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/domain"
)

// RainfallFilter selects which forecast days count toward a window.
type RainfallFilter func(domain.RainfallSample) bool

// ConfidentAbove keeps samples whose forecast confidence is strictly greater than min.
func ConfidentAbove(min float64) RainfallFilter {
	return func(s domain.RainfallSample) bool { return s.ForecastConfidence > min }
}

// SumRainfall adds rainfall_mm over the first n samples (fewer if the forecast is shorter).
// A nil filter keeps every sample.
func SumRainfall(forecast []domain.RainfallSample, n int, keep RainfallFilter) float64 {
	if n > len(forecast) {
		n = len(forecast)
	}
	if n <= 0 {
		return 0
	}
	points := make([]aggregator.Point, 0, n)
	for _, s := range forecast[:n] {
		if keep != nil && !keep(s) {
			continue
		}
		points = append(points, aggregator.Point{Value: s.RainfallMM, Timestamp: s.Date})
	}
	if len(points) == 0 {
		return 0
	}
	return aggregator.Sum(points)
}

// LastMoisture returns the newest moisture value, or fallback for an empty history.
func LastMoisture(history []domain.MoistureSample, fallback float64) float64 {
	if len(history) == 0 {
		return fallback
	}
	return history[len(history)-1].MoisturePercentage
}

// NonIncreasing reports whether the last window samples never rise.
// It returns false when the history is shorter than window.
func NonIncreasing(history []domain.MoistureSample, window int) bool {
	if window <= 0 || len(history) < window {
		return false
	}
	tail := history[len(history)-window:]
	for i := 1; i < len(tail); i++ {
		if tail[i].MoisturePercentage > tail[i-1].MoisturePercentage {
			return false
		}
	}
	return true
}
