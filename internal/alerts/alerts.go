// Package alerts derives flood and drought risk alerts from a moisture history and a rainfall forecast.
package alerts

import (
	"fmt"
	"time"

	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/domain"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/series"
)

const (
	// defaultMoisture stands in for the current moisture when there is no history.
	defaultMoisture = 50

	trendWindow = 3

	severeDroughtMoisture   = 20
	moderateDroughtMoisture = 30
	severeFloodRain24h      = 50
	moderateFloodRain72h    = 75
)

type Generator struct {
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: func() time.Time { return time.Now().UTC() }}
}

func (g *Generator) WithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Generate always returns at least one alert. Drought alerts come first, then flood,
// and a single safe alert only when nothing else fired.
//
// With fewer than three moisture samples the drought check is skipped entirely,
// however low the current moisture is.
func (g *Generator) Generate(history []domain.MoistureSample, forecast []domain.RainfallSample) []domain.Alert {
	now := g.now()
	current := series.LastMoisture(history, defaultMoisture)
	rain24h := series.SumRainfall(forecast, 1, nil)
	rain72h := series.SumRainfall(forecast, 3, nil)

	var out []domain.Alert

	if len(history) >= trendWindow {
		declining := series.NonIncreasing(history, trendWindow)
		switch {
		case current < severeDroughtMoisture && declining:
			out = append(out, alert(domain.AlertDrought, domain.RiskDanger, "red",
				fmt.Sprintf("Severe drought risk: %.1f%% moisture with declining trend", current), now))
		case current < moderateDroughtMoisture:
			out = append(out, alert(domain.AlertDrought, domain.RiskCaution, "yellow",
				fmt.Sprintf("Moderate drought risk: %.1f%% moisture level", current), now))
		}
	}

	switch {
	case rain24h > severeFloodRain24h:
		out = append(out, alert(domain.AlertFlood, domain.RiskDanger, "red",
			fmt.Sprintf("High flood risk: %.1fmm rain forecast in 24h", rain24h), now))
	case rain72h > moderateFloodRain72h:
		out = append(out, alert(domain.AlertFlood, domain.RiskCaution, "yellow",
			fmt.Sprintf("Moderate flood risk: %.1fmm rain forecast in 72h", rain72h), now))
	}

	if len(out) == 0 {
		out = append(out, alert(domain.AlertFlood, domain.RiskSafe, "green",
			"No significant flood or drought risks detected", now))
	}
	return out
}

// Dangerous returns the alerts at danger level.
func Dangerous(in []domain.Alert) []domain.Alert {
	var out []domain.Alert
	for _, a := range in {
		if a.RiskLevel.Level == domain.RiskDanger {
			out = append(out, a)
		}
	}
	return out
}

func alert(kind domain.AlertType, level domain.RiskLevel, color, msg string, at time.Time) domain.Alert {
	return domain.Alert{
		AlertType: kind,
		RiskLevel: domain.AlertLevel{Level: level, Color: color, Message: msg},
		CreatedAt: at,
	}
}
