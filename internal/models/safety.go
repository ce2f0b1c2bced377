package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/paulmach/orb"
)

// TimestampLayout matches the fixed-width ISO form stored in the log table;
// lexical order of stored values equals chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// LocationUnavailable is recorded when the current location cannot be resolved.
const LocationUnavailable = "Location unavailable"

// LogType classifies an emergency log entry.
type LogType string

const (
	LogTypeTracking  LogType = "tracking"
	LogTypeEmergency LogType = "emergency"
)

// Valid reports whether the type is one the log table accepts.
func (t LogType) Valid() bool {
	return t == LogTypeTracking || t == LogTypeEmergency
}

// ValidationError reports a missing or malformed form field.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Contact is an emergency contact. Relationship is optional.
type Contact struct {
	ID           int64
	Name         string
	Phone        string
	Relationship string
}

// NewContact trims its inputs and validates the required fields.
func NewContact(name, phone, relationship string) (Contact, error) {
	c := Contact{
		Name:         strings.TrimSpace(name),
		Phone:        strings.TrimSpace(phone),
		Relationship: strings.TrimSpace(relationship),
	}
	return c, c.Validate()
}

// Validate requires name and phone.
func (c Contact) Validate() error {
	var missing []string
	if c.Name == "" {
		missing = append(missing, "name")
	}
	if c.Phone == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Message: "Name and Phone are required!"}
	}
	return nil
}

// DisplayText renders the contact the way the roster lists it.
func (c Contact) DisplayText() string {
	if c.Relationship == "" {
		return fmt.Sprintf("%s\nPhone: %s", c.Name, c.Phone)
	}
	return fmt.Sprintf("%s (%s)\nPhone: %s", c.Name, c.Relationship, c.Phone)
}

// SafeLocation is a named place whose coordinates were geocoded once at creation.
type SafeLocation struct {
	ID        int64
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
}

// ValidateSafeLocationInput checks the form fields before any geocoding happens.
func ValidateSafeLocationInput(name, address string) (string, string, error) {
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)
	if name == "" || address == "" {
		var missing []string
		if name == "" {
			missing = append(missing, "name")
		}
		if address == "" {
			missing = append(missing, "address")
		}
		return name, address, &ValidationError{Fields: missing, Message: "All fields are required!"}
	}
	return name, address, nil
}

// Point returns the location as an orb point (lon, lat).
func (l SafeLocation) Point() orb.Point {
	return orb.Point{l.Longitude, l.Latitude}
}

func (l SafeLocation) DisplayText() string {
	return fmt.Sprintf("%s\n%s\n(%.5f, %.5f)", l.Name, l.Address, l.Latitude, l.Longitude)
}

// LogEntry is one append-only row of the emergency log.
type LogEntry struct {
	ID        int64
	Timestamp time.Time
	Location  string
	Type      LogType
}

// FormatTimestamp renders t in the stored layout.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

// ParseTimestamp reads a stored timestamp in local time.
func ParseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, s, time.Local)
}

func (e LogEntry) DisplayText() string {
	return fmt.Sprintf("Type: %s\nTime: %s\nLocation: %s", e.Type, FormatTimestamp(e.Timestamp), e.Location)
}
