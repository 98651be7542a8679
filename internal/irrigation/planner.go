// Package irrigation turns a crop, its current soil moisture and a rainfall forecast
// into an irrigation recommendation.
//
// The moisture range is split into four tiers (critical, below minimum, below optimal,
// optimal or above). Tiers are tried in that order and the first whose guard matches
// produces the recommendation.
package irrigation

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/crop"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/domain"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/series"
)

const (
	// dailyMoistureLoss is the assumed moisture drop in percentage points per day.
	dailyMoistureLoss = 2.5
	// confidentForecast is the confidence a forecast day must exceed to count as expected rain.
	confidentForecast = 0.7
	// defaultDaysUntilStress is reported when moisture is at or above optimal.
	defaultDaysUntilStress = 14
)

// Planner is safe for concurrent use.
type Planner struct {
	catalog crop.Catalog
	now     func() time.Time
}

func NewPlanner(catalog crop.Catalog) *Planner {
	return &Planner{catalog: catalog, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock returns a copy of the planner that reads the current time from now.
func (p *Planner) WithClock(now func() time.Time) *Planner {
	cp := *p
	cp.now = now
	return &cp
}

// RainOutlook holds the confident rainfall expected over the next days.
type RainOutlook struct {
	Next24h   float64
	Next3Days float64
	// Next7Days is reported in logs only; no tier reads it.
	Next7Days float64
}

func Outlook(forecast []domain.RainfallSample) RainOutlook {
	keep := series.ConfidentAbove(confidentForecast)
	return RainOutlook{
		Next24h:   series.SumRainfall(forecast, 1, keep),
		Next3Days: series.SumRainfall(forecast, 3, keep),
		Next7Days: series.SumRainfall(forecast, 7, keep),
	}
}

// situation is everything a tier needs to decide.
type situation struct {
	profile         crop.Profile
	moisture        float64
	rain            RainOutlook
	deficit         float64
	daysUntilStress float64
	now             time.Time
}

// Recommend never fails. Unknown crops use the catalog's default profile.
func (p *Planner) Recommend(cropName string, currentMoisture float64, forecast []domain.RainfallSample) domain.IrrigationRecommendation {
	prof := p.catalog.Lookup(cropName)
	s := situation{
		profile:         prof,
		moisture:        currentMoisture,
		rain:            Outlook(forecast),
		deficit:         WaterDeficit(prof, currentMoisture),
		daysUntilStress: DaysUntilStress(prof, currentMoisture),
		now:             p.now(),
	}

	t := tierFor(s)
	log.Debug().
		Str("crop", cropName).
		Float64("moisture", currentMoisture).
		Float64("rain_24h", s.rain.Next24h).
		Float64("rain_3d", s.rain.Next3Days).
		Float64("rain_7d", s.rain.Next7Days).
		Str("tier", t.name).
		Msg("irrigation tier selected")
	return t.plan(s)
}

// WaterDeficit is the shortfall to optimal moisture scaled by daily need, never negative.
func WaterDeficit(p crop.Profile, moisture float64) float64 {
	return math.Max(0, (p.OptimalMoisture-moisture)/10*p.DailyWaterNeedMM)
}

// DaysUntilStress estimates days until moisture reaches the critical level.
func DaysUntilStress(p crop.Profile, moisture float64) float64 {
	if moisture <= p.CriticalMoisture {
		return 0
	}
	return math.Max(0, (moisture-p.CriticalMoisture)/dailyMoistureLoss)
}

type tier struct {
	name    string
	applies func(situation) bool
	plan    func(situation) domain.IrrigationRecommendation
}

// tiers partition [0, 100]: each guard only has to rule out what the previous ones did not catch.
var tiers = []tier{
	{name: "critical", applies: func(s situation) bool { return s.moisture <= s.profile.CriticalMoisture }, plan: planCritical},
	{name: "below_minimum", applies: func(s situation) bool { return s.moisture < s.profile.MinMoisture }, plan: planBelowMinimum},
	{name: "below_optimal", applies: func(s situation) bool { return s.moisture < s.profile.OptimalMoisture }, plan: planBelowOptimal},
	{name: "optimal", applies: func(situation) bool { return true }, plan: planOptimal},
}

func tierFor(s situation) tier {
	for _, t := range tiers {
		if t.applies(s) {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

func planCritical(s situation) domain.IrrigationRecommendation {
	water := s.profile.DailyWaterNeedMM * 2.5
	return domain.IrrigationRecommendation{
		Recommendation:     "🚨 CRITICAL: Irrigate immediately to prevent crop damage",
		Confidence:         0.95,
		NextIrrigationDate: at(s.now),
		WaterAmountMM:      &water,
		Reason: fmt.Sprintf("CRITICAL moisture level (%.1f%%) - below stress threshold (%g%%)",
			s.moisture, s.profile.CriticalMoisture),
		IrrigationStatus: domain.StatusImmediate,
		UrgencyLevel:     domain.UrgencyCritical,
		WaterDeficitMM:   s.deficit,
		DaysUntilStress:  days(0),
		AlternativeActions: []string{
			"Consider emergency sprinkler irrigation",
			"Focus on most valuable crop sections first",
			"Monitor plants for wilting signs",
		},
		CostBenefitNote: fmt.Sprintf("Estimated cost: $%.2f/acre. Failure to irrigate may result in 30-50%% yield loss.",
			water*s.profile.WaterCostPerMM),
	}
}

func planBelowMinimum(s situation) domain.IrrigationRecommendation {
	if s.rain.Next24h < 3 {
		water := s.profile.DailyWaterNeedMM * 2
		return domain.IrrigationRecommendation{
			Recommendation:     "⚠️ Irrigate within 24 hours",
			Confidence:         0.9,
			NextIrrigationDate: at(s.now.Add(12 * time.Hour)),
			WaterAmountMM:      &water,
			Reason: fmt.Sprintf("Moisture (%.1f%%) below minimum threshold (%g%%) with minimal rainfall expected",
				s.moisture, s.profile.MinMoisture),
			IrrigationStatus: domain.StatusImmediate,
			UrgencyLevel:     domain.UrgencyHigh,
			WaterDeficitMM:   s.deficit,
			DaysUntilStress:  days(int(s.daysUntilStress)),
			AlternativeActions: []string{
				"Apply mulch to reduce evaporation",
				"Increase irrigation frequency but reduce volume",
				"Monitor soil moisture twice daily",
			},
			CostBenefitNote: fmt.Sprintf("Estimated cost: $%.2f/acre. Prevents yield reduction of 15-25%%.",
				water*s.profile.WaterCostPerMM),
		}
	}

	water := s.profile.DailyWaterNeedMM * 1.5
	return domain.IrrigationRecommendation{
		Recommendation:     "🌧️ Monitor closely - rainfall may help",
		Confidence:         0.8,
		NextIrrigationDate: at(s.now.Add(24 * time.Hour)),
		WaterAmountMM:      &water,
		Reason:             fmt.Sprintf("Low moisture but %.1fmm rainfall expected in 24h", s.rain.Next24h),
		IrrigationStatus:   domain.StatusMonitor,
		UrgencyLevel:       domain.UrgencyMedium,
		WaterDeficitMM:     s.deficit,
		DaysUntilStress:    days(int(s.daysUntilStress)),
		AlternativeActions: []string{
			"Prepare irrigation equipment for standby",
			"Check weather forecast updates",
			"Monitor actual vs forecasted rainfall",
		},
		CostBenefitNote: "Wait for natural rainfall to reduce irrigation costs.",
	}
}

func planBelowOptimal(s situation) domain.IrrigationRecommendation {
	if s.rain.Next3Days < 8 {
		water := s.profile.DailyWaterNeedMM * 1.2
		return domain.IrrigationRecommendation{
			Recommendation:     "💧 Schedule irrigation within 2-3 days",
			Confidence:         0.85,
			NextIrrigationDate: at(s.now.Add(48 * time.Hour)),
			WaterAmountMM:      &water,
			Reason: fmt.Sprintf("Moisture adequate (%.1f%%) but approaching optimal range (%g%%)",
				s.moisture, s.profile.OptimalMoisture),
			IrrigationStatus: domain.StatusScheduled,
			UrgencyLevel:     domain.UrgencyMedium,
			WaterDeficitMM:   s.deficit,
			DaysUntilStress:  days(int(s.daysUntilStress)),
			AlternativeActions: []string{
				"Optimize irrigation timing (early morning/evening)",
				"Use drip irrigation for efficiency",
				"Consider split applications",
			},
			CostBenefitNote: fmt.Sprintf("Estimated cost: $%.2f/acre. Maintains optimal growing conditions.",
				water*s.profile.WaterCostPerMM),
		}
	}

	return domain.IrrigationRecommendation{
		Recommendation:   "☔ Skip irrigation - sufficient rainfall expected",
		Confidence:       0.9,
		WaterAmountMM:    amount(0),
		Reason:           fmt.Sprintf("Adequate moisture with %.1fmm rainfall forecast over 3 days", s.rain.Next3Days),
		IrrigationStatus: domain.StatusSkip,
		UrgencyLevel:     domain.UrgencyLow,
		WaterDeficitMM:   0,
		DaysUntilStress:  days(int(s.daysUntilStress)),
		AlternativeActions: []string{
			"Monitor rainfall accuracy",
			"Prepare for post-rain soil assessment",
			"Focus on other farm maintenance",
		},
		CostBenefitNote: "Natural rainfall saves irrigation costs while maintaining crop health.",
	}
}

func planOptimal(s situation) domain.IrrigationRecommendation {
	stress := defaultDaysUntilStress
	if s.daysUntilStress > 0 {
		stress = int(s.daysUntilStress)
	}
	return domain.IrrigationRecommendation{
		Recommendation: "✅ No irrigation needed - optimal conditions",
		Confidence:     0.95,
		WaterAmountMM:  amount(0),
		Reason: fmt.Sprintf("Soil moisture excellent at %.1f%% (optimal: %g%%)",
			s.moisture, s.profile.OptimalMoisture),
		IrrigationStatus: domain.StatusSkip,
		UrgencyLevel:     domain.UrgencyLow,
		WaterDeficitMM:   0,
		DaysUntilStress:  days(stress),
		AlternativeActions: []string{
			"Focus on pest and disease monitoring",
			"Plan fertilizer application schedule",
			"Maintain irrigation equipment",
		},
		CostBenefitNote: "Excellent conditions - continue monitoring for changes.",
	}
}

func at(t time.Time) *time.Time { return &t }

func amount(mm float64) *float64 { return &mm }

func days(n int) *int { return &n }
