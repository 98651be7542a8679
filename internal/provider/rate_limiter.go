package provider

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/domain"
)

// RateLimited wraps a DataProvider with a shared request budget.
type RateLimited struct {
	provider DataProvider
	limiter  *rate.Limiter
	name     string
}

// NewRateLimited allows rps requests per second (fractional is fine) with the given burst.
func NewRateLimited(provider DataProvider, rps float64, burst int) *RateLimited {
	return &RateLimited{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		name:     fmt.Sprintf("%s [Rate Limited]", provider.Name()),
	}
}

func (r *RateLimited) Name() string { return r.name }

func (r *RateLimited) SoilMoisture(ctx context.Context, lat, lon float64, days int) ([]domain.MoistureSample, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.SoilMoisture(ctx, lat, lon, days)
}

func (r *RateLimited) RainfallForecast(ctx context.Context, lat, lon float64, days int) ([]domain.RainfallSample, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.RainfallForecast(ctx, lat, lon, days)
}
