package services

import (
	"context"
	"io"

	"women-safety/internal/export"
	"women-safety/internal/models"
)

// LogReader reads the emergency log.
type LogReader interface {
	RecentLogs(ctx context.Context, limit int) ([]models.LogEntry, error)
}

// LogService serves the log viewer
type LogService struct {
	reader LogReader
	limit  int
}

func NewLogService(reader LogReader, limit int) *LogService {
	return &LogService{reader: reader, limit: limit}
}

// RecentLogs returns the newest entries, at most the configured limit.
func (s *LogService) RecentLogs(ctx context.Context) ([]models.LogEntry, error) {
	return s.reader.RecentLogs(ctx, s.limit)
}

// Export writes the same entries the viewer shows as a spreadsheet.
func (s *LogService) Export(ctx context.Context, w io.Writer) error {
	entries, err := s.RecentLogs(ctx)
	if err != nil {
		return err
	}
	return export.WriteLogs(w, entries)
}
