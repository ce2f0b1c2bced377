package services

import (
	"context"

	"women-safety/internal/logger"
	"women-safety/internal/models"
)

// ContactStore persists the emergency contact roster.
type ContactStore interface {
	AddContact(ctx context.Context, c models.Contact) (models.Contact, error)
	ListContacts(ctx context.Context) ([]models.Contact, error)
}

// ContactService handles emergency contact registration
type ContactService struct {
	store  ContactStore
	logger logger.Logger
}

func NewContactService(store ContactStore, log logger.Logger) *ContactService {
	return &ContactService{store: store, logger: log}
}

// AddContact validates the form input and stores one contact.
func (s *ContactService) AddContact(ctx context.Context, name, phone, relationship string) (models.Contact, error) {
	contact, err := models.NewContact(name, phone, relationship)
	if err != nil {
		return models.Contact{}, err
	}

	saved, err := s.store.AddContact(ctx, contact)
	if err != nil {
		s.logger.Error("ContactService", "saving contact failed", err, nil)
		return models.Contact{}, err
	}

	s.logger.Info("ContactService", "contact saved", map[string]interface{}{
		"id": saved.ID,
	})
	return saved, nil
}

func (s *ContactService) ListContacts(ctx context.Context) ([]models.Contact, error) {
	return s.store.ListContacts(ctx)
}
