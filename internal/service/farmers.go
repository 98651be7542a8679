package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/domain"
)

const mqttIngestTimeout = 5 * time.Second

type FarmerService struct {
	store FarmerStore
	now   func() time.Time
}

// Submit validates the input, assigns an id and stores the farmer.
func (s *FarmerService) Submit(ctx context.Context, in domain.FarmerInput) (domain.Farmer, error) {
	in, err := in.Normalize()
	if err != nil {
		return domain.Farmer{}, err
	}
	f := domain.Farmer{
		ID:        uuid.NewString(),
		Latitude:  *in.Latitude,
		Longitude: *in.Longitude,
		CropName:  in.CropName,
		CreatedAt: s.now(),
	}
	if err := s.store.InsertFarmer(ctx, &f); err != nil {
		return domain.Farmer{}, err
	}
	log.Info().
		Str("farmer_id", f.ID).
		Str("crop", f.CropName).
		Float64("lat", f.Latitude).
		Float64("lon", f.Longitude).
		Msg("farmer input submitted")
	return f, nil
}

func (s *FarmerService) List(ctx context.Context, limit int) ([]domain.Farmer, error) {
	return s.store.ListFarmers(ctx, limit)
}

func (s *FarmerService) Get(ctx context.Context, id string) (domain.Farmer, error) {
	return s.store.GetFarmer(ctx, id)
}

// FromMQTT registers a farmer from a JSON FarmerInput message.
func (s *FarmerService) FromMQTT(topic string, payload []byte) error {
	var in domain.FarmerInput
	if err := json.Unmarshal(payload, &in); err != nil {
		return fmt.Errorf("%w: bad payload on %s: %v", domain.ErrInvalidInput, topic, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), mqttIngestTimeout)
	defer cancel()

	_, err := s.Submit(ctx, in)
	return err
}
