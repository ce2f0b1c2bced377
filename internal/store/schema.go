package store

// Each statement is idempotent so opening an existing database never
// duplicates tables or loses rows.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS contacts (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	phone TEXT NOT NULL,
	relationship TEXT
)`,
	`CREATE TABLE IF NOT EXISTS safe_locations (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	address TEXT NOT NULL,
	latitude REAL,
	longitude REAL
)`,
	`CREATE TABLE IF NOT EXISTS emergency_logs (
	id INTEGER PRIMARY KEY,
	timestamp TEXT NOT NULL,
	location TEXT,
	type TEXT
)`,
	`CREATE INDEX IF NOT EXISTS idx_emergency_logs_timestamp ON emergency_logs(timestamp)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS contacts (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	phone TEXT NOT NULL,
	relationship TEXT
)`,
	`CREATE TABLE IF NOT EXISTS safe_locations (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	address TEXT NOT NULL,
	latitude DOUBLE PRECISION,
	longitude DOUBLE PRECISION
)`,
	`CREATE TABLE IF NOT EXISTS emergency_logs (
	id BIGSERIAL PRIMARY KEY,
	timestamp TEXT NOT NULL,
	location TEXT,
	type TEXT
)`,
	`CREATE INDEX IF NOT EXISTS idx_emergency_logs_timestamp ON emergency_logs(timestamp)`,
}

func schemaFor(d Dialect) []string {
	if d == DialectPostgres {
		return postgresSchema
	}
	return sqliteSchema
}
