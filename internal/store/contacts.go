package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"women-safety/internal/models"
)

const (
	insertContactSQL = `INSERT INTO contacts (name, phone, relationship) VALUES ($1, $2, $3) RETURNING id`
	selectContactSQL = `SELECT id, name, phone, relationship FROM contacts ORDER BY id`
)

// AddContact validates and inserts a contact, returning it with its id.
func (s *Store) AddContact(ctx context.Context, c models.Contact) (models.Contact, error) {
	if err := c.Validate(); err != nil {
		return models.Contact{}, err
	}
	var relationship sql.NullString
	if c.Relationship != "" {
		relationship = sql.NullString{String: c.Relationship, Valid: true}
	}
	if err := s.db.QueryRowContext(ctx, insertContactSQL, c.Name, c.Phone, relationship).Scan(&c.ID); err != nil {
		return models.Contact{}, errors.Wrap(err, "insert contact")
	}
	return c, nil
}

// ListContacts returns the full roster in insertion order.
func (s *Store) ListContacts(ctx context.Context) ([]models.Contact, error) {
	return listContacts(ctx, s.db)
}

func listContacts(ctx context.Context, q queryer) ([]models.Contact, error) {
	rows, err := q.QueryContext(ctx, selectContactSQL)
	if err != nil {
		return nil, errors.Wrap(err, "query contacts")
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var (
			c            models.Contact
			relationship sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &relationship); err != nil {
			return nil, errors.Wrap(err, "scan contact")
		}
		c.Relationship = relationship.String
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate contacts")
	}
	return contacts, nil
}
