package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"women-safety/internal/geocode"
	"women-safety/internal/models"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) AddContact(ctx context.Context, c models.Contact) (models.Contact, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(models.Contact), args.Error(1)
}

func (m *mockStore) ListContacts(ctx context.Context) ([]models.Contact, error) {
	args := m.Called(ctx)
	contacts, _ := args.Get(0).([]models.Contact)
	return contacts, args.Error(1)
}

func (m *mockStore) AddSafeLocation(ctx context.Context, l models.SafeLocation) (models.SafeLocation, error) {
	args := m.Called(ctx, l)
	return args.Get(0).(models.SafeLocation), args.Error(1)
}

func (m *mockStore) ListSafeLocations(ctx context.Context) ([]models.SafeLocation, error) {
	args := m.Called(ctx)
	locations, _ := args.Get(0).([]models.SafeLocation)
	return locations, args.Error(1)
}

func (m *mockStore) RecordEmergency(ctx context.Context, entry models.LogEntry) (models.LogEntry, []models.Contact, error) {
	args := m.Called(ctx, entry)
	contacts, _ := args.Get(1).([]models.Contact)
	return args.Get(0).(models.LogEntry), contacts, args.Error(2)
}

func (m *mockStore) RecentLogs(ctx context.Context, limit int) ([]models.LogEntry, error) {
	args := m.Called(ctx, limit)
	entries, _ := args.Get(0).([]models.LogEntry)
	return entries, args.Error(1)
}

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Geocode(ctx context.Context, query string) (geocode.Result, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(geocode.Result), args.Error(1)
}

type mockLocator struct {
	mock.Mock
}

func (m *mockLocator) CurrentLocation(ctx context.Context) (geocode.Fix, error) {
	args := m.Called(ctx)
	return args.Get(0).(geocode.Fix), args.Error(1)
}

type mockPlayer struct {
	mock.Mock
}

func (m *mockPlayer) Play() error {
	return m.Called().Error(0)
}

func (m *mockPlayer) Stop() {
	m.Called()
}

func (m *mockPlayer) Playing() bool {
	return m.Called().Bool(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, contact models.Contact, message string) error {
	return m.Called(ctx, contact, message).Error(0)
}
