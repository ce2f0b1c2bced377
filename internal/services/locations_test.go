package services

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"women-safety/internal/geocode"
	"women-safety/internal/logger"
	"women-safety/internal/models"
)

func TestAddSafeLocation_StoresGeocodedCoordinates(t *testing.T) {
	store := &mockStore{}
	geo := &mockGeocoder{}
	defer store.AssertExpectations(t)
	defer geo.AssertExpectations(t)

	geo.On("Geocode", mock.Anything, "1 Main St").
		Return(geocode.Result{DisplayName: "1, Main St", Point: orb.Point{77.59, 12.97}}, nil).Once()
	store.On("AddSafeLocation", mock.Anything, models.SafeLocation{
		Name: "Home", Address: "1 Main St", Latitude: 12.97, Longitude: 77.59,
	}).Return(models.SafeLocation{ID: 4, Name: "Home", Address: "1 Main St", Latitude: 12.97, Longitude: 77.59}, nil).Once()

	svc := NewSafeLocationService(store, geo, logger.NewNop())
	loc, err := svc.AddSafeLocation(context.Background(), "Home", " 1 Main St ")

	require.NoError(t, err)
	assert.Equal(t, int64(4), loc.ID)
}

func TestAddSafeLocation_GeocodeFailurePersistsNothing(t *testing.T) {
	for _, category := range []error{geocode.ErrNotFound, geocode.ErrUnavailable, geocode.ErrMalformed} {
		store := &mockStore{}
		geo := &mockGeocoder{}
		geo.On("Geocode", mock.Anything, "Atlantis").Return(geocode.Result{}, errors.Wrap(category, "lookup")).Once()

		_, err := NewSafeLocationService(store, geo, logger.NewNop()).AddSafeLocation(context.Background(), "Home", "Atlantis")

		assert.True(t, errors.Is(err, category), "category %v lost: %v", category, err)
		store.AssertNotCalled(t, "AddSafeLocation", mock.Anything, mock.Anything)
	}
}

func TestAddSafeLocation_ValidationSkipsGeocoder(t *testing.T) {
	store := &mockStore{}
	geo := &mockGeocoder{}

	_, err := NewSafeLocationService(store, geo, logger.NewNop()).AddSafeLocation(context.Background(), "", "1 Main St")

	var verr *models.ValidationError
	assert.True(t, errors.As(err, &verr))
	geo.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
}

func TestNearestSafeLocation(t *testing.T) {
	locations := []models.SafeLocation{
		{Name: "Far", Latitude: 13.5, Longitude: 77.59},
		{Name: "Near", Latitude: 12.975, Longitude: 77.59},
	}

	nearest, meters, ok := NearestSafeLocation(locations, orb.Point{77.59, 12.97})
	require.True(t, ok)
	assert.Equal(t, "Near", nearest.Name)
	assert.InDelta(t, 556, meters, 5)

	_, meters, ok = NearestSafeLocation(nil, orb.Point{0, 0})
	assert.False(t, ok)
	assert.Zero(t, meters)
}
