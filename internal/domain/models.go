package domain

import "time"

type Farmer struct {
	ID        string    `db:"id" json:"id"`
	Latitude  float64   `db:"latitude" json:"latitude"`
	Longitude float64   `db:"longitude" json:"longitude"`
	CropName  string    `db:"crop_name" json:"crop_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MoistureSample is one day of soil moisture. Series are ordered oldest first.
type MoistureSample struct {
	Date               time.Time `json:"date"`
	MoisturePercentage float64   `json:"moisture_percentage"`
	Source             string    `json:"source"`
	Quality            string    `json:"quality"`
}

// RainfallSample is one forecast day. Index 0 of a forecast is the nearest day.
type RainfallSample struct {
	Date               time.Time `json:"date"`
	RainfallMM         float64   `json:"rainfall_mm"`
	ForecastConfidence float64   `json:"forecast_confidence"`
	Source             string    `json:"source"`
}

type IrrigationStatus string

const (
	StatusImmediate IrrigationStatus = "immediate"
	StatusScheduled IrrigationStatus = "scheduled"
	StatusMonitor   IrrigationStatus = "monitor"
	StatusSkip      IrrigationStatus = "skip"
)

type UrgencyLevel string

const (
	UrgencyCritical UrgencyLevel = "critical"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyLow      UrgencyLevel = "low"
)

// IrrigationRecommendation is computed per request and never stored.
// Nil pointer fields mean "not applicable".
type IrrigationRecommendation struct {
	Recommendation     string           `json:"recommendation"`
	Confidence         float64          `json:"confidence"`
	NextIrrigationDate *time.Time       `json:"next_irrigation_date"`
	WaterAmountMM      *float64         `json:"water_amount_mm"`
	Reason             string           `json:"reason"`
	IrrigationStatus   IrrigationStatus `json:"irrigation_status"`
	UrgencyLevel       UrgencyLevel     `json:"urgency_level"`
	WaterDeficitMM     float64          `json:"water_deficit_mm"`
	DaysUntilStress    *int             `json:"days_until_stress"`
	AlternativeActions []string         `json:"alternative_actions"`
	CostBenefitNote    string           `json:"cost_benefit_note"`
}

type AlertType string

const (
	AlertFlood   AlertType = "flood"
	AlertDrought AlertType = "drought"
)

type RiskLevel string

const (
	RiskSafe    RiskLevel = "safe"
	RiskCaution RiskLevel = "caution"
	RiskDanger  RiskLevel = "danger"
)

type AlertLevel struct {
	Level   RiskLevel `json:"level"`
	Color   string    `json:"color"`
	Message string    `json:"message"`
}

type Alert struct {
	AlertType AlertType  `json:"alert_type"`
	RiskLevel AlertLevel `json:"risk_level"`
	CreatedAt time.Time  `json:"created_at"`
}

type DashboardData struct {
	FarmerInput              Farmer                   `json:"farmer_input"`
	SoilMoisture             []MoistureSample         `json:"soil_moisture"`
	RainfallForecast         []RainfallSample         `json:"rainfall_forecast"`
	IrrigationRecommendation IrrigationRecommendation `json:"irrigation_recommendation"`
	Alerts                   []Alert                  `json:"alerts"`
	LastUpdated              time.Time                `json:"last_updated"`
}
