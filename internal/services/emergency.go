package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"women-safety/internal/alarm"
	"women-safety/internal/geocode"
	"women-safety/internal/logger"
	"women-safety/internal/models"
)

const (
	defaultLocationTimeout = 10 * time.Second
	alertTimeout           = 10 * time.Second
)

// EmergencyStore appends the emergency row and reads the roster in one
// transaction.
type EmergencyStore interface {
	RecordEmergency(ctx context.Context, entry models.LogEntry) (models.LogEntry, []models.Contact, error)
}

// SafeLocationLister supplies safe locations for the alert message.
type SafeLocationLister interface {
	ListSafeLocations(ctx context.Context) ([]models.SafeLocation, error)
}

// Notifier delivers an alert to one contact.
type Notifier interface {
	Notify(ctx context.Context, contact models.Contact, message string) error
}

// AlertReport describes the outcome of one emergency trigger.
type AlertReport struct {
	AlertID     uuid.UUID
	Entry       models.LogEntry
	Message     string
	Notified    []models.Contact
	AlarmErr    error
	LocationErr error
}

// EmergencyService runs the SOS sequence and owns the panic state
type EmergencyService struct {
	store     EmergencyStore
	locator   geocode.Locator
	player    alarm.Player
	notifier  Notifier
	locations SafeLocationLister
	logger    logger.Logger
	now       func() time.Time

	locationTimeout time.Duration

	mu        sync.Mutex
	panicMode bool
}

func NewEmergencyService(
	store EmergencyStore,
	locator geocode.Locator,
	player alarm.Player,
	notifier Notifier,
	locations SafeLocationLister,
	log logger.Logger,
) *EmergencyService {
	return &EmergencyService{
		store:     store,
		locator:   locator,
		player:    player,
		notifier:  notifier,
		locations: locations,
		logger:    log,
		now:       time.Now,

		locationTimeout: defaultLocationTimeout,
	}
}

// SetLocationTimeout bounds the current-location lookup of each trigger.
func (s *EmergencyService) SetLocationTimeout(d time.Duration) {
	if d > 0 {
		s.locationTimeout = d
	}
}

// SetNotifier replaces the notifier; the view is wired after construction.
func (s *EmergencyService) SetNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// Trigger raises the alarm, logs one emergency row and notifies every
// contact. Alarm and location failures are recorded in the report and never
// prevent the log row; only a store failure is returned as an error. The
// lookup runs under its own timeout; the write and the notifications are
// detached from ctx's cancellation so a slow lookup cannot starve them.
func (s *EmergencyService) Trigger(ctx context.Context) (AlertReport, error) {
	s.mu.Lock()
	s.panicMode = true
	notifier := s.notifier
	s.mu.Unlock()

	report := AlertReport{AlertID: uuid.New()}

	if err := s.player.Play(); err != nil {
		report.AlarmErr = err
		s.logger.Warning("EmergencyService", "could not play alarm sound", map[string]interface{}{
			"alert_id": report.AlertID.String(),
			"error":    err.Error(),
		})
	}

	location := models.LocationUnavailable
	lookupCtx, cancelLookup := context.WithTimeout(ctx, s.locationTimeout)
	fix, err := s.locator.CurrentLocation(lookupCtx)
	cancelLookup()
	if err != nil {
		report.LocationErr = err
		s.logger.Warning("EmergencyService", "current location unavailable", map[string]interface{}{
			"alert_id": report.AlertID.String(),
			"error":    err.Error(),
		})
	} else {
		location = fix.Description
	}

	alertCtx, cancelAlert := context.WithTimeout(context.WithoutCancel(ctx), alertTimeout)
	defer cancelAlert()
	entry, contacts, err := s.store.RecordEmergency(alertCtx, models.LogEntry{
		Timestamp: s.now(),
		Location:  location,
		Type:      models.LogTypeEmergency,
	})
	if err != nil {
		s.logger.Error("EmergencyService", "recording emergency failed", err, map[string]interface{}{
			"alert_id": report.AlertID.String(),
		})
		if report.AlarmErr != nil {
			// nothing is sounding and nothing was logged
			s.mu.Lock()
			s.panicMode = false
			s.mu.Unlock()
		}
		return report, err
	}
	report.Entry = entry

	var nearest string
	if report.LocationErr == nil {
		nearest = s.nearestSafeLocation(alertCtx, fix.Point)
	}
	report.Message = BuildAlertMessage(location, entry.Timestamp, nearest)

	for _, c := range contacts {
		if notifier == nil {
			break
		}
		if err := notifier.Notify(alertCtx, c, report.Message); err != nil {
			s.logger.Warning("EmergencyService", "notifying contact failed", map[string]interface{}{
				"alert_id":   report.AlertID.String(),
				"contact_id": c.ID,
				"error":      err.Error(),
			})
			continue
		}
		report.Notified = append(report.Notified, c)
	}

	s.logger.Info("EmergencyService", "emergency triggered", map[string]interface{}{
		"alert_id": report.AlertID.String(),
		"log_id":   entry.ID,
		"location": location,
		"contacts": len(contacts),
		"notified": len(report.Notified),
		"alarm_ok": report.AlarmErr == nil,
	})
	return report, nil
}

// Resolve silences the alarm and clears panic mode.
func (s *EmergencyService) Resolve() {
	s.player.Stop()

	s.mu.Lock()
	s.panicMode = false
	s.mu.Unlock()

	s.logger.Info("EmergencyService", "panic mode cleared", nil)
}

func (s *EmergencyService) PanicActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panicMode
}

func (s *EmergencyService) nearestSafeLocation(ctx context.Context, p orb.Point) string {
	if s.locations == nil {
		return ""
	}
	locations, err := s.locations.ListSafeLocations(ctx)
	if err != nil {
		s.logger.Warning("EmergencyService", "listing safe locations failed", map[string]interface{}{
			"error": err.Error(),
		})
		return ""
	}
	nearest, meters, ok := NearestSafeLocation(locations, p)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s (%s, %s away)", nearest.Name, nearest.Address, formatDistance(meters))
}

// BuildAlertMessage renders the text sent to contacts.
func BuildAlertMessage(location string, at time.Time, nearestSafe string) string {
	var b strings.Builder
	b.WriteString("EMERGENCY ALERT!\n")
	fmt.Fprintf(&b, "Location: %s\n", location)
	fmt.Fprintf(&b, "Timestamp: %s\n", at.Format("2006-01-02 15:04:05"))
	if nearestSafe != "" {
		fmt.Fprintf(&b, "Nearest safe location: %s\n", nearestSafe)
	}
	return b.String()
}

func formatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}
