package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/alerts"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/domain"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/irrigation"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/provider"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/series"
)

// Days of data fetched per endpoint.
const (
	seriesDays = 7

	planMoistureDays = 3
	planRainDays     = 7

	alertMoistureDays = 7
	alertRainDays     = 3

	// fallbackMoisture is used when the provider returns no moisture history.
	fallbackMoisture = 50

	DefaultHistoryWindow = 7 * 24 * time.Hour
)

type AdvisoryService struct {
	store    FarmerStore
	provider provider.DataProvider
	planner  *irrigation.Planner
	alerts   *alerts.Generator
	notifier Notifier
	archiver Archiver
	history  AlertRecorder
	now      func() time.Time
}

func (s *AdvisoryService) SoilMoisture(ctx context.Context, farmerID string) ([]domain.MoistureSample, error) {
	f, err := s.store.GetFarmer(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	m, _, err := s.fetch(ctx, f, seriesDays, 0)
	return m, err
}

func (s *AdvisoryService) RainfallForecast(ctx context.Context, farmerID string) ([]domain.RainfallSample, error) {
	f, err := s.store.GetFarmer(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	_, r, err := s.fetch(ctx, f, 0, seriesDays)
	return r, err
}

func (s *AdvisoryService) IrrigationPlan(ctx context.Context, farmerID string) (domain.IrrigationRecommendation, error) {
	f, err := s.store.GetFarmer(ctx, farmerID)
	if err != nil {
		return domain.IrrigationRecommendation{}, err
	}
	moisture, rain, err := s.fetch(ctx, f, planMoistureDays, planRainDays)
	if err != nil {
		return domain.IrrigationRecommendation{}, err
	}
	return s.recommend(f, moisture, rain), nil
}

// Alerts evaluates flood and drought risk for the farmer, records the result when a
// history store is configured and pushes danger alerts to the notifier.
func (s *AdvisoryService) Alerts(ctx context.Context, farmerID string) ([]domain.Alert, error) {
	f, err := s.store.GetFarmer(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	moisture, rain, err := s.fetch(ctx, f, alertMoistureDays, alertRainDays)
	if err != nil {
		return nil, err
	}
	out := s.alerts.Generate(moisture, rain)
	s.publish(ctx, f, out)
	return out, nil
}

func (s *AdvisoryService) AlertHistory(ctx context.Context, farmerID string, since time.Duration) ([]domain.Alert, error) {
	if s.history == nil {
		return nil, ErrCloudDisabled
	}
	if _, err := s.store.GetFarmer(ctx, farmerID); err != nil {
		return nil, err
	}
	if since <= 0 {
		since = DefaultHistoryWindow
	}
	return s.history.RecentAlerts(ctx, farmerID, since)
}

func (s *AdvisoryService) Dashboard(ctx context.Context, farmerID string) (domain.DashboardData, error) {
	f, err := s.store.GetFarmer(ctx, farmerID)
	if err != nil {
		return domain.DashboardData{}, err
	}
	moisture, rain, err := s.fetch(ctx, f, seriesDays, seriesDays)
	if err != nil {
		return domain.DashboardData{}, err
	}
	out := s.alerts.Generate(moisture, rain)
	s.publish(ctx, f, out)

	return domain.DashboardData{
		FarmerInput:              f,
		SoilMoisture:             moisture,
		RainfallForecast:         rain,
		IrrigationRecommendation: s.recommend(f, moisture, rain),
		Alerts:                   out,
		LastUpdated:              s.now(),
	}, nil
}

// ArchiveDashboard stores a dashboard snapshot and returns a download URL.
func (s *AdvisoryService) ArchiveDashboard(ctx context.Context, farmerID string) (string, error) {
	if s.archiver == nil {
		return "", ErrCloudDisabled
	}
	d, err := s.Dashboard(ctx, farmerID)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to marshal dashboard: %w", err)
	}
	key := fmt.Sprintf("dashboards/%s/%s.json", farmerID, d.LastUpdated.Format("20060102T150405Z"))
	return s.archiver.Archive(ctx, key, data, "application/json")
}

func (s *AdvisoryService) recommend(f domain.Farmer, moisture []domain.MoistureSample, rain []domain.RainfallSample) domain.IrrigationRecommendation {
	return s.planner.Recommend(f.CropName, series.LastMoisture(moisture, fallbackMoisture), rain)
}

// fetch loads both series concurrently for the farmer's own coordinates.
// A zero day count skips that series.
func (s *AdvisoryService) fetch(ctx context.Context, f domain.Farmer, moistureDays, rainDays int) ([]domain.MoistureSample, []domain.RainfallSample, error) {
	var (
		moisture []domain.MoistureSample
		rain     []domain.RainfallSample
	)
	g, gctx := errgroup.WithContext(ctx)
	if moistureDays > 0 {
		g.Go(func() error {
			var err error
			moisture, err = s.provider.SoilMoisture(gctx, f.Latitude, f.Longitude, moistureDays)
			if err != nil {
				return fmt.Errorf("failed to fetch soil moisture: %w", err)
			}
			if err := domain.ValidateMoisture(moisture); err != nil {
				return fmt.Errorf("%w: %w", ErrUpstreamData, err)
			}
			return nil
		})
	}
	if rainDays > 0 {
		g.Go(func() error {
			var err error
			rain, err = s.provider.RainfallForecast(gctx, f.Latitude, f.Longitude, rainDays)
			if err != nil {
				return fmt.Errorf("failed to fetch rainfall forecast: %w", err)
			}
			if err := domain.ValidateRainfall(rain); err != nil {
				return fmt.Errorf("%w: %w", ErrUpstreamData, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return moisture, rain, nil
}

// publish is best effort: a failing cloud collaborator never fails the request.
func (s *AdvisoryService) publish(ctx context.Context, f domain.Farmer, out []domain.Alert) {
	if s.history != nil {
		if err := s.history.RecordAlerts(ctx, f.ID, out); err != nil {
			log.Warn().Err(err).Str("farmer_id", f.ID).Msg("record alerts failed")
		}
	}
	danger := alerts.Dangerous(out)
	if s.notifier == nil || len(danger) == 0 {
		return
	}
	if err := s.notifier.NotifyAlerts(ctx, f, danger); err != nil {
		log.Warn().Err(err).Str("farmer_id", f.ID).Msg("alert notification failed")
	}
}
