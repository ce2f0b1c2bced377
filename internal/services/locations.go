package services

import (
	"context"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/pkg/errors"

	"women-safety/internal/geocode"
	"women-safety/internal/logger"
	"women-safety/internal/models"
)

// SafeLocationStore persists safe locations.
type SafeLocationStore interface {
	AddSafeLocation(ctx context.Context, l models.SafeLocation) (models.SafeLocation, error)
	ListSafeLocations(ctx context.Context) ([]models.SafeLocation, error)
}

// SafeLocationService geocodes and registers safe locations
type SafeLocationService struct {
	store    SafeLocationStore
	geocoder geocode.Geocoder
	logger   logger.Logger
}

func NewSafeLocationService(store SafeLocationStore, geocoder geocode.Geocoder, log logger.Logger) *SafeLocationService {
	return &SafeLocationService{store: store, geocoder: geocoder, logger: log}
}

// AddSafeLocation geocodes the address once and stores the result. Nothing
// is stored when geocoding fails; the geocode error category is preserved.
func (s *SafeLocationService) AddSafeLocation(ctx context.Context, name, address string) (models.SafeLocation, error) {
	name, address, err := models.ValidateSafeLocationInput(name, address)
	if err != nil {
		return models.SafeLocation{}, err
	}

	result, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		s.logger.Warning("SafeLocationService", "geocoding failed", map[string]interface{}{
			"address": address,
			"error":   err.Error(),
		})
		return models.SafeLocation{}, errors.Wrap(err, "geocode address")
	}

	saved, err := s.store.AddSafeLocation(ctx, models.SafeLocation{
		Name:      name,
		Address:   address,
		Latitude:  result.Latitude(),
		Longitude: result.Longitude(),
	})
	if err != nil {
		s.logger.Error("SafeLocationService", "saving safe location failed", err, nil)
		return models.SafeLocation{}, err
	}

	s.logger.Info("SafeLocationService", "safe location saved", map[string]interface{}{
		"id":        saved.ID,
		"latitude":  saved.Latitude,
		"longitude": saved.Longitude,
	})
	return saved, nil
}

func (s *SafeLocationService) ListSafeLocations(ctx context.Context) ([]models.SafeLocation, error) {
	return s.store.ListSafeLocations(ctx)
}

// NearestSafeLocation returns the location closest to p and its distance in
// meters. ok is false when locations is empty.
func NearestSafeLocation(locations []models.SafeLocation, p orb.Point) (nearest models.SafeLocation, meters float64, ok bool) {
	meters = math.Inf(1)
	for _, l := range locations {
		d := geo.Distance(p, l.Point())
		if d < meters {
			nearest, meters, ok = l, d, true
		}
	}
	if !ok {
		meters = 0
	}
	return nearest, meters, ok
}
