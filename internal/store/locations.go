package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"women-safety/internal/models"
)

const (
	insertSafeLocationSQL = `INSERT INTO safe_locations (name, address, latitude, longitude) VALUES ($1, $2, $3, $4) RETURNING id`
	selectSafeLocationSQL = `SELECT id, name, address, latitude, longitude FROM safe_locations ORDER BY id`
)

func (s *Store) AddSafeLocation(ctx context.Context, l models.SafeLocation) (models.SafeLocation, error) {
	if _, _, err := models.ValidateSafeLocationInput(l.Name, l.Address); err != nil {
		return models.SafeLocation{}, err
	}
	err := s.db.QueryRowContext(ctx, insertSafeLocationSQL, l.Name, l.Address, l.Latitude, l.Longitude).Scan(&l.ID)
	if err != nil {
		return models.SafeLocation{}, errors.Wrap(err, "insert safe location")
	}
	return l, nil
}

func (s *Store) ListSafeLocations(ctx context.Context) ([]models.SafeLocation, error) {
	rows, err := s.db.QueryContext(ctx, selectSafeLocationSQL)
	if err != nil {
		return nil, errors.Wrap(err, "query safe locations")
	}
	defer rows.Close()

	var locations []models.SafeLocation
	for rows.Next() {
		var (
			l        models.SafeLocation
			lat, lon sql.NullFloat64
		)
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &lat, &lon); err != nil {
			return nil, errors.Wrap(err, "scan safe location")
		}
		l.Latitude, l.Longitude = lat.Float64, lon.Float64
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate safe locations")
	}
	return locations, nil
}
