// Package crop holds the per-crop water requirement table.
package crop

import (
	"fmt"
	"sort"
	"strings"
)

const DefaultName = "default"

// Profile is the water requirement of one crop. Moisture values are percentages.
// CriticalMoisture < MinMoisture < OptimalMoisture.
type Profile struct {
	MinMoisture          float64 `json:"min_moisture"`
	OptimalMoisture      float64 `json:"optimal_moisture"`
	CriticalMoisture     float64 `json:"critical_moisture"`
	DailyWaterNeedMM     float64 `json:"daily_water_need_mm"`
	WaterCostPerMM       float64 `json:"water_cost_per_mm"`
	YieldImpactThreshold float64 `json:"yield_impact_threshold"`
}

func (p Profile) validate() error {
	if p.CriticalMoisture < 0 || p.DailyWaterNeedMM < 0 || p.WaterCostPerMM < 0 || p.YieldImpactThreshold < 0 {
		return fmt.Errorf("negative value in profile %+v", p)
	}
	if !(p.CriticalMoisture < p.MinMoisture && p.MinMoisture < p.OptimalMoisture) {
		return fmt.Errorf("moisture thresholds must satisfy critical < min < optimal, got %v/%v/%v",
			p.CriticalMoisture, p.MinMoisture, p.OptimalMoisture)
	}
	return nil
}

// Catalog resolves crop names to profiles. Lookup never fails.
type Catalog interface {
	Lookup(name string) Profile
}

// Table is an immutable Catalog. Build one with NewTable.
type Table struct {
	profiles map[string]Profile
}

var builtin = map[string]Profile{
	"corn":    {MinMoisture: 40, OptimalMoisture: 60, CriticalMoisture: 25, DailyWaterNeedMM: 6, WaterCostPerMM: 0.15, YieldImpactThreshold: 30},
	"wheat":   {MinMoisture: 35, OptimalMoisture: 55, CriticalMoisture: 20, DailyWaterNeedMM: 4, WaterCostPerMM: 0.12, YieldImpactThreshold: 25},
	"rice":    {MinMoisture: 80, OptimalMoisture: 90, CriticalMoisture: 70, DailyWaterNeedMM: 8, WaterCostPerMM: 0.20, YieldImpactThreshold: 75},
	"tomato":  {MinMoisture: 45, OptimalMoisture: 65, CriticalMoisture: 30, DailyWaterNeedMM: 5, WaterCostPerMM: 0.18, YieldImpactThreshold: 35},
	"soybean": {MinMoisture: 40, OptimalMoisture: 60, CriticalMoisture: 25, DailyWaterNeedMM: 5, WaterCostPerMM: 0.14, YieldImpactThreshold: 30},
	DefaultName: {MinMoisture: 40, OptimalMoisture: 60, CriticalMoisture: 25, DailyWaterNeedMM: 5, WaterCostPerMM: 0.15, YieldImpactThreshold: 30},
}

// Builtin returns the table shipped with the service.
func Builtin() *Table {
	t, err := NewTable(builtin)
	if err != nil {
		panic(err)
	}
	return t
}

// NewTable copies profiles, normalizing keys. A "default" entry is required.
func NewTable(profiles map[string]Profile) (*Table, error) {
	out := make(map[string]Profile, len(profiles))
	for name, p := range profiles {
		key := normalize(name)
		if key == "" {
			return nil, fmt.Errorf("empty crop name")
		}
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("crop %q: %w", key, err)
		}
		out[key] = p
	}
	if _, ok := out[DefaultName]; !ok {
		return nil, fmt.Errorf("crop table has no %q profile", DefaultName)
	}
	return &Table{profiles: out}, nil
}

func (t *Table) Lookup(name string) Profile {
	if p, ok := t.profiles[normalize(name)]; ok {
		return p
	}
	return t.profiles[DefaultName]
}

// Names lists the known crops, default excluded.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.profiles))
	for n := range t.profiles {
		if n != DefaultName {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

func normalize(name string) string { return strings.ToLower(strings.TrimSpace(name)) }
