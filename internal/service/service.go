package service

import (
	"context"
	"errors"
	"time"

	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/alerts"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/crop"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/domain"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/irrigation"
	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/provider"
)

// ErrCloudDisabled is returned by operations that need a cloud collaborator that was not configured.
var ErrCloudDisabled = errors.New("cloud services not enabled")

// ErrUpstreamData marks provider series the decision engine must not see.
var ErrUpstreamData = errors.New("malformed provider data")

// FarmerStore persists farmer inputs. *repository.Repos implements it.
type FarmerStore interface {
	InsertFarmer(ctx context.Context, f *domain.Farmer) error
	ListFarmers(ctx context.Context, limit int) ([]domain.Farmer, error)
	GetFarmer(ctx context.Context, id string) (domain.Farmer, error)
}

// Notifier pushes alerts to farmers. *cloud.SNSClient implements it.
type Notifier interface {
	NotifyAlerts(ctx context.Context, farmer domain.Farmer, alerts []domain.Alert) error
}

// Archiver stores a document and returns a URL for it. *cloud.S3Client implements it.
type Archiver interface {
	Archive(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// AlertRecorder keeps alert history. *cloud.DynamoDBClient implements it.
type AlertRecorder interface {
	RecordAlerts(ctx context.Context, farmerID string, alerts []domain.Alert) error
	RecentAlerts(ctx context.Context, farmerID string, since time.Duration) ([]domain.Alert, error)
}

// Deps wires the services. Notifier, Archiver and History may be nil.
type Deps struct {
	Store    FarmerStore
	Provider provider.DataProvider
	Crops    *crop.Table
	Notifier Notifier
	Archiver Archiver
	History  AlertRecorder
	// Now defaults to time.Now in UTC.
	Now func() time.Time
}

type Services struct {
	Farmers  *FarmerService
	Advisory *AdvisoryService
	Crops    *crop.Table
}

func New(d Deps) *Services {
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	if d.Crops == nil {
		d.Crops = crop.Builtin()
	}
	return &Services{
		Farmers: &FarmerService{store: d.Store, now: d.Now},
		Advisory: &AdvisoryService{
			store:    d.Store,
			provider: d.Provider,
			planner:  irrigation.NewPlanner(d.Crops).WithClock(d.Now),
			alerts:   alerts.NewGenerator().WithClock(d.Now),
			notifier: d.Notifier,
			archiver: d.Archiver,
			history:  d.History,
			now:      d.Now,
		},
		Crops: d.Crops,
	}
}
