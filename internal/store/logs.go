package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"women-safety/internal/models"
)

const (
	insertLogSQL  = `INSERT INTO emergency_logs (timestamp, location, type) VALUES ($1, $2, $3) RETURNING id`
	selectLogsSQL = `SELECT id, timestamp, location, type FROM emergency_logs ORDER BY timestamp DESC, id DESC LIMIT $1`
)

// AppendLog writes one log row.
func (s *Store) AppendLog(ctx context.Context, entry models.LogEntry) (models.LogEntry, error) {
	return appendLog(ctx, s.db, entry)
}

func appendLog(ctx context.Context, q queryer, entry models.LogEntry) (models.LogEntry, error) {
	if !entry.Type.Valid() {
		return models.LogEntry{}, errors.Wrapf(ErrInvalidLogType, "%q", entry.Type)
	}
	err := q.QueryRowContext(ctx, insertLogSQL,
		models.FormatTimestamp(entry.Timestamp), entry.Location, string(entry.Type),
	).Scan(&entry.ID)
	if err != nil {
		return models.LogEntry{}, errors.Wrap(err, "insert log entry")
	}
	return entry, nil
}

// RecordEmergency appends an emergency row and reads the contact roster in
// one transaction.
func (s *Store) RecordEmergency(ctx context.Context, entry models.LogEntry) (models.LogEntry, []models.Contact, error) {
	var (
		saved    models.LogEntry
		contacts []models.Contact
	)
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		if saved, err = appendLog(ctx, tx, entry); err != nil {
			return err
		}
		contacts, err = listContacts(ctx, tx)
		return err
	})
	if err != nil {
		return models.LogEntry{}, nil, err
	}
	return saved, contacts, nil
}

// RecentLogs returns at most limit rows, newest first.
func (s *Store) RecentLogs(ctx context.Context, limit int) ([]models.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx, selectLogsSQL, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query logs")
	}
	defer rows.Close()

	var entries []models.LogEntry
	for rows.Next() {
		var (
			e         models.LogEntry
			timestamp string
			location  sql.NullString
			logType   sql.NullString
		)
		if err := rows.Scan(&e.ID, &timestamp, &location, &logType); err != nil {
			return nil, errors.Wrap(err, "scan log entry")
		}
		if e.Timestamp, err = models.ParseTimestamp(timestamp); err != nil {
			s.logger.Warning("Store", "unparseable log timestamp", map[string]interface{}{
				"id":        e.ID,
				"timestamp": timestamp,
			})
		}
		e.Location = location.String
		e.Type = models.LogType(logType.String)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate logs")
	}
	return entries, nil
}
