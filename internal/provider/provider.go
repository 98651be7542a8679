package provider

import (
	"context"

	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/domain"
)

// DataProvider supplies the soil moisture history and rainfall forecast for a location.
type DataProvider interface {
	Name() string
	// SoilMoisture returns the last days of moisture, oldest first.
	SoilMoisture(ctx context.Context, lat, lon float64, days int) ([]domain.MoistureSample, error)
	// RainfallForecast returns the next days of rainfall, nearest first.
	RainfallForecast(ctx context.Context, lat, lon float64, days int) ([]domain.RainfallSample, error)
}
