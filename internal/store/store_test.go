package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"women-safety/internal/logger"
	"women-safety/internal/models"
)

func setupMockStore(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *Store) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return db, mock, New(db, DialectSQLite, logger.NewNop())
}

func openTempStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(context.Background(), DialectSQLite, path, logger.NewNop())
	require.NoError(t, err)
	return s
}

// ============================================
// sqlmock: statements and transactions
// ============================================

func TestMigrate_RunsEverySchemaStatement(t *testing.T) {
	db, mock, s := setupMockStore(t)
	defer db.Close()

	for _, stmt := range sqliteSchema {
		mock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddContact_Success(t *testing.T) {
	db, mock, s := setupMockStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(insertContactSQL)).
		WithArgs("Asha", "555-0100", "sister").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	c, err := s.AddContact(context.Background(), models.Contact{Name: "Asha", Phone: "555-0100", Relationship: "sister"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddContact_EmptyRelationshipStoredAsNull(t *testing.T) {
	db, mock, s := setupMockStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(insertContactSQL)).
		WithArgs("Asha", "555-0100", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	_, err := s.AddContact(context.Background(), models.Contact{Name: "Asha", Phone: "555-0100"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddContact_InvalidNeverTouchesDatabase(t *testing.T) {
	db, mock, s := setupMockStore(t)
	defer db.Close()

	_, err := s.AddContact(context.Background(), models.Contact{Name: "", Phone: "555"})

	var verr *models.ValidationError
	assert.True(t, errors.As(err, &verr))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendLog_RejectsUnknownType(t *testing.T) {
	db, mock, s := setupMockStore(t)
	defer db.Close()

	_, err := s.AppendLog(context.Background(), models.LogEntry{Timestamp: time.Now(), Type: "panic"})

	assert.True(t, errors.Is(err, ErrInvalidLogType))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordEmergency_CommitsInsertAndRosterTogether(t *testing.T) {
	db, mock, s := setupMockStore(t)
	defer db.Close()

	now := time.Date(2024, 5, 1, 22, 15, 0, 0, time.Local)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(insertLogSQL)).
		WithArgs(models.FormatTimestamp(now), "Market St", "emergency").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(selectContactSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone", "relationship"}).
			AddRow(1, "Asha", "555-0100", "sister").
			AddRow(2, "Ravi", "555-0101", nil))
	mock.ExpectCommit()

	entry, contacts, err := s.RecordEmergency(context.Background(), models.LogEntry{
		Timestamp: now,
		Location:  "Market St",
		Type:      models.LogTypeEmergency,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), entry.ID)
	require.Len(t, contacts, 2)
	assert.Equal(t, "sister", contacts[0].Relationship)
	assert.Equal(t, "", contacts[1].Relationship)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordEmergency_RollsBackWhenRosterReadFails(t *testing.T) {
	db, mock, s := setupMockStore(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(insertLogSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(selectContactSQL)).
		WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	_, _, err := s.RecordEmergency(context.Background(), models.LogEntry{
		Timestamp: time.Now(),
		Location:  models.LocationUnavailable,
		Type:      models.LogTypeEmergency,
	})

	assert.ErrorContains(t, err, "database is locked")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentLogs_PassesLimit(t *testing.T) {
	db, mock, s := setupMockStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectLogsSQL)).
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp", "location", "type"}).
			AddRow(2, "2024-05-01T22:15:00.000000", "Market St", "emergency").
			AddRow(1, "2024-05-01T22:10:00.000000", nil, "tracking"))

	entries, err := s.RecentLogs(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.LogTypeEmergency, entries[0].Type)
	assert.Equal(t, "", entries[1].Location)
	assert.Equal(t, 22, entries[0].Timestamp.Hour())
	require.NoError(t, mock.ExpectationsWereMet())
}

// ============================================
// SQLite file: persistence behaviour
// ============================================

func TestOpen_IsIdempotentAndKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "safety.db")

	s := openTempStore(t, path)
	_, err := s.AddContact(ctx, models.Contact{Name: "Asha", Phone: "555-0100"})
	require.NoError(t, err)
	_, err = s.AddSafeLocation(ctx, models.SafeLocation{Name: "Home", Address: "1 Main St", Latitude: 12.97, Longitude: 77.59})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened := openTempStore(t, path)
	defer reopened.Close()

	contacts, err := reopened.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Asha", contacts[0].Name)

	locations, err := reopened.ListSafeLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.InDelta(t, 12.97, locations[0].Latitude, 1e-9)
	assert.InDelta(t, 77.59, locations[0].Longitude, 1e-9)

	var tables int
	require.NoError(t, reopened.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('contacts', 'safe_locations', 'emergency_logs')`,
	).Scan(&tables))
	assert.Equal(t, 3, tables)
}

func TestRecentLogs_NewestFirstAndCapped(t *testing.T) {
	ctx := context.Background()
	s := openTempStore(t, filepath.Join(t.TempDir(), "safety.db"))
	defer s.Close()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	// Insert out of chronological order so ordering comes from the timestamp.
	for _, i := range []int{3, 0, 59, 12, 1} {
		_, err := s.AppendLog(ctx, models.LogEntry{Timestamp: base.Add(time.Duration(i) * time.Minute), Location: "x", Type: models.LogTypeTracking})
		require.NoError(t, err)
	}
	for i := 100; i < 160; i++ {
		_, err := s.AppendLog(ctx, models.LogEntry{Timestamp: base.Add(time.Duration(i) * time.Minute), Location: "y", Type: models.LogTypeEmergency})
		require.NoError(t, err)
	}

	entries, err := s.RecentLogs(ctx, 50)
	require.NoError(t, err)
	require.Len(t, entries, 50)
	assert.True(t, entries[0].Timestamp.Equal(base.Add(159*time.Minute)))
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Timestamp.After(entries[i-1].Timestamp), "entry %d out of order", i)
	}

	small, err := s.RecentLogs(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, small, 3)
}

func TestRecordEmergency_SQLite(t *testing.T) {
	ctx := context.Background()
	s := openTempStore(t, filepath.Join(t.TempDir(), "safety.db"))
	defer s.Close()

	_, err := s.AddContact(ctx, models.Contact{Name: "Asha", Phone: "555-0100", Relationship: "sister"})
	require.NoError(t, err)

	entry, contacts, err := s.RecordEmergency(ctx, models.LogEntry{
		Timestamp: time.Now(),
		Location:  models.LocationUnavailable,
		Type:      models.LogTypeEmergency,
	})
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)
	require.Len(t, contacts, 1)

	logs, err := s.RecentLogs(ctx, 50)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.LogTypeEmergency, logs[0].Type)
	assert.Equal(t, models.LocationUnavailable, logs[0].Location)
}

func TestOpen_UnsupportedDialect(t *testing.T) {
	_, err := Open(context.Background(), Dialect("oracle"), "x", logger.NewNop())
	assert.ErrorContains(t, err, "unsupported dialect")
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "safety.db?_pragma=busy_timeout(5000)", sqliteDSN("safety.db"))
	assert.Equal(t, "file:x.db?mode=rwc&_pragma=busy_timeout(5000)", sqliteDSN("file:x.db?mode=rwc"))
	assert.Equal(t, "x.db?_pragma=journal_mode(WAL)", sqliteDSN("x.db?_pragma=journal_mode(WAL)"))
}
