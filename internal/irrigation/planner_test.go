package irrigation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/crop"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/domain"
)

var fixedNow = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func newTestPlanner() *Planner {
	return NewPlanner(crop.Builtin()).WithClock(func() time.Time { return fixedNow })
}

func forecast(mm ...float64) []domain.RainfallSample {
	out := make([]domain.RainfallSample, len(mm))
	for i, v := range mm {
		out[i] = domain.RainfallSample{Date: fixedNow.AddDate(0, 0, i), RainfallMM: v, ForecastConfidence: 0.9}
	}
	return out
}

func TestRecommendCriticalCorn(t *testing.T) {
	rec := newTestPlanner().Recommend("corn", 15, forecast(0, 0, 0))

	assert.Equal(t, domain.StatusImmediate, rec.IrrigationStatus)
	assert.Equal(t, domain.UrgencyCritical, rec.UrgencyLevel)
	assert.Equal(t, 0.95, rec.Confidence)
	require.NotNil(t, rec.WaterAmountMM)
	assert.InDelta(t, 15.0, *rec.WaterAmountMM, 1e-9)
	require.NotNil(t, rec.NextIrrigationDate)
	assert.Equal(t, fixedNow, *rec.NextIrrigationDate)
	require.NotNil(t, rec.DaysUntilStress)
	assert.Equal(t, 0, *rec.DaysUntilStress)
	// (60-15)/10*6
	assert.InDelta(t, 27.0, rec.WaterDeficitMM, 1e-9)
	assert.Equal(t, "Estimated cost: $2.25/acre. Failure to irrigate may result in 30-50% yield loss.", rec.CostBenefitNote)
	assert.Equal(t, "CRITICAL moisture level (15.0%) - below stress threshold (25%)", rec.Reason)
	assert.Len(t, rec.AlternativeActions, 3)
}

func TestRecommendRiceBelowMinimumDry(t *testing.T) {
	rec := newTestPlanner().Recommend("rice", 75, forecast(1, 0, 0))

	assert.Equal(t, domain.StatusImmediate, rec.IrrigationStatus)
	assert.Equal(t, domain.UrgencyHigh, rec.UrgencyLevel)
	assert.Equal(t, 0.9, rec.Confidence)
	require.NotNil(t, rec.WaterAmountMM)
	assert.InDelta(t, 16.0, *rec.WaterAmountMM, 1e-9)
	assert.Equal(t, fixedNow.Add(12*time.Hour), *rec.NextIrrigationDate)
	// (75-70)/2.5
	assert.Equal(t, 2, *rec.DaysUntilStress)
	assert.Equal(t, "Estimated cost: $3.20/acre. Prevents yield reduction of 15-25%.", rec.CostBenefitNote)
}

func TestRecommendBelowMinimumWithRain(t *testing.T) {
	rec := newTestPlanner().Recommend("rice", 75, forecast(3, 0, 0))

	assert.Equal(t, domain.StatusMonitor, rec.IrrigationStatus)
	assert.Equal(t, domain.UrgencyMedium, rec.UrgencyLevel)
	assert.Equal(t, 0.8, rec.Confidence)
	assert.InDelta(t, 12.0, *rec.WaterAmountMM, 1e-9)
	assert.Equal(t, fixedNow.Add(24*time.Hour), *rec.NextIrrigationDate)
	assert.Equal(t, "Low moisture but 3.0mm rainfall expected in 24h", rec.Reason)
}

func TestRecommendIgnoresLowConfidenceRain(t *testing.T) {
	wet := []domain.RainfallSample{{RainfallMM: 20, ForecastConfidence: 0.7}}
	rec := newTestPlanner().Recommend("rice", 75, wet)
	assert.Equal(t, domain.StatusImmediate, rec.IrrigationStatus)
}

func TestRecommendBelowOptimal(t *testing.T) {
	p := newTestPlanner()

	dry := p.Recommend("corn", 50, forecast(2, 2, 3, 40))
	assert.Equal(t, domain.StatusScheduled, dry.IrrigationStatus)
	assert.Equal(t, domain.UrgencyMedium, dry.UrgencyLevel)
	assert.Equal(t, 0.85, dry.Confidence)
	assert.InDelta(t, 7.2, *dry.WaterAmountMM, 1e-9)
	assert.Equal(t, fixedNow.Add(48*time.Hour), *dry.NextIrrigationDate)
	assert.InDelta(t, 6.0, dry.WaterDeficitMM, 1e-9)
	assert.Equal(t, 10, *dry.DaysUntilStress)

	wet := p.Recommend("corn", 50, forecast(2, 3, 3))
	assert.Equal(t, domain.StatusSkip, wet.IrrigationStatus)
	assert.Equal(t, domain.UrgencyLow, wet.UrgencyLevel)
	assert.Equal(t, 0.9, wet.Confidence)
	assert.Nil(t, wet.NextIrrigationDate)
	assert.Zero(t, *wet.WaterAmountMM)
	assert.Zero(t, wet.WaterDeficitMM)
}

func TestRecommendWheatAboveOptimal(t *testing.T) {
	rec := newTestPlanner().Recommend("wheat", 58, nil)

	assert.Equal(t, domain.StatusSkip, rec.IrrigationStatus)
	assert.Equal(t, domain.UrgencyLow, rec.UrgencyLevel)
	assert.Equal(t, 0.95, rec.Confidence)
	require.NotNil(t, rec.WaterAmountMM)
	assert.Zero(t, *rec.WaterAmountMM)
	assert.Nil(t, rec.NextIrrigationDate)
	assert.Zero(t, rec.WaterDeficitMM)
	// (58-20)/2.5 = 15.2
	assert.Equal(t, 15, *rec.DaysUntilStress)
}

func TestRecommendUnknownCropUsesDefault(t *testing.T) {
	p := newTestPlanner()
	assert.Equal(t, p.Recommend("default", 30, nil), p.Recommend("  Quinoa ", 30, nil))
}

func TestTierBoundaries(t *testing.T) {
	prof := crop.Builtin().Lookup("corn") // critical 25, min 40, optimal 60
	cases := []struct {
		moisture float64
		want     string
	}{
		{0, "critical"},
		{25, "critical"},
		{25.01, "below_minimum"},
		{39.99, "below_minimum"},
		{40, "below_optimal"},
		{59.99, "below_optimal"},
		{60, "optimal"},
		{100, "optimal"},
	}
	for _, tc := range cases {
		got := tierFor(situation{profile: prof, moisture: tc.moisture})
		assert.Equal(t, tc.want, got.name, "moisture %v", tc.moisture)
	}
}

func TestRecommendInvariantsAcrossRange(t *testing.T) {
	p := newTestPlanner()
	for _, name := range []string{"corn", "wheat", "rice", "tomato", "soybean", "unknown"} {
		for _, rain := range [][]domain.RainfallSample{nil, forecast(0, 0, 0), forecast(5, 5, 5)} {
			for m := 0.0; m <= 100; m += 0.5 {
				rec := p.Recommend(name, m, rain)
				assert.GreaterOrEqual(t, rec.WaterDeficitMM, 0.0)
				require.NotNil(t, rec.DaysUntilStress)
				assert.GreaterOrEqual(t, *rec.DaysUntilStress, 0)
				if rec.IrrigationStatus == domain.StatusSkip {
					assert.Zero(t, rec.WaterDeficitMM, "%s at %v", name, m)
					assert.Nil(t, rec.NextIrrigationDate)
				}
				assert.Len(t, rec.AlternativeActions, 3)
			}
		}
	}
}

func TestHelpers(t *testing.T) {
	prof := crop.Builtin().Lookup("corn")
	assert.Zero(t, WaterDeficit(prof, 80))
	assert.Zero(t, DaysUntilStress(prof, 10))
	assert.InDelta(t, 14.0, DaysUntilStress(prof, 60), 1e-9)

	o := Outlook(forecast(1, 2, 3, 4, 5, 6, 7, 8))
	assert.InDelta(t, 1.0, o.Next24h, 1e-9)
	assert.InDelta(t, 6.0, o.Next3Days, 1e-9)
	assert.InDelta(t, 28.0, o.Next7Days, 1e-9)
}
