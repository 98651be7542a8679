package provider

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/domain"
)

const (
	smapSource = "NASA-SMAP-Mock"
	gpmSource  = "NASA-GPM-Mock"
)

var qualities = []string{"good", "fair", "good", "good"}

// MockNASA simulates SMAP soil moisture and GPM precipitation for development.
// Safe for concurrent use.
type MockNASA struct {
	mu      sync.Mutex
	rng     *rand.Rand
	latency time.Duration
	now     func() time.Time
}

// NewMockNASA seeds the generator with seed, or with the clock when seed is 0.
// latency is added to every call to mimic a remote API.
func NewMockNASA(seed int64, latency time.Duration) *MockNASA {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MockNASA{
		rng:     rand.New(rand.NewSource(seed)),
		latency: latency,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (m *MockNASA) Name() string { return "nasa-mock" }

func (m *MockNASA) SoilMoisture(ctx context.Context, _, _ float64, days int) ([]domain.MoistureSample, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	base := 15 + m.rng.Float64()*30
	out := make([]domain.MoistureSample, 0, days)
	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, -(days - 1 - i))
		variation := -5 + m.rng.Float64()*10
		seasonal := 10 * math.Sin(float64(date.YearDay())/365.0*2*math.Pi)
		moisture := math.Max(5, math.Min(95, base+variation+seasonal))

		out = append(out, domain.MoistureSample{
			Date:               date,
			MoisturePercentage: round(moisture, 1),
			Source:             smapSource,
			Quality:            qualities[m.rng.Intn(len(qualities))],
		})
	}
	return out, nil
}

func (m *MockNASA) RainfallForecast(ctx context.Context, _, _ float64, days int) ([]domain.RainfallSample, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	out := make([]domain.RainfallSample, 0, days)
	for i := 0; i < days; i++ {
		var mm, confidence float64
		if m.rng.Float64() < 0.3 {
			mm = 0.5 + m.rng.Float64()*24.5
			confidence = 0.7 + m.rng.Float64()*0.25
		} else {
			confidence = 0.8 + m.rng.Float64()*0.18
		}
		out = append(out, domain.RainfallSample{
			Date:               now.AddDate(0, 0, i),
			RainfallMM:         round(mm, 1),
			ForecastConfidence: round(confidence, 2),
			Source:             gpmSource,
		})
	}
	return out, nil
}

func (m *MockNASA) wait(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
