package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"women-safety/internal/geocode"
	"women-safety/internal/logger"
	"women-safety/internal/models"
	"women-safety/internal/services"
	"women-safety/internal/tracking"
)

const operationTimeout = 30 * time.Second

// MainView is the surface the controller drives. Show* methods open the
// matching window or refresh it when already open.
type MainView interface {
	services.Notifier

	SetEmergencyHandler(handler func())
	SetStopAlarmHandler(handler func())
	SetContactsHandler(handler func())
	SetSafeLocationsHandler(handler func())
	SetTrackingHandler(handler func())
	SetLogsHandler(handler func())
	SetSaveContactHandler(handler func(name, phone, relationship string) error)
	SetSaveSafeLocationHandler(handler func(name, address string) error)
	SetExportLogsHandler(handler func(w io.Writer) error)

	ShowContacts(contacts []models.Contact)
	ShowSafeLocations(locations []models.SafeLocation)
	ShowLogs(entries []models.LogEntry)
	SetTrackingActive(active bool)
	SetPanicActive(active bool)
	UpdateStatus(status string)
	ShowError(title, message string)
	ShowInfo(title, message string)
}

// MainController orchestrates the application using MVC pattern
type MainController struct {
	// Services
	contactService   *services.ContactService
	locationService  *services.SafeLocationService
	emergencyService *services.EmergencyService
	logService       *services.LogService
	tracker          *tracking.Tracker

	// Views
	mainView MainView

	logger logger.Logger
	ctx    context.Context
}

// NewMainController creates a new main controller. ctx bounds every
// background operation, including the tracker.
func NewMainController(
	ctx context.Context,
	contactService *services.ContactService,
	locationService *services.SafeLocationService,
	emergencyService *services.EmergencyService,
	logService *services.LogService,
	tracker *tracking.Tracker,
	log logger.Logger,
) *MainController {
	return &MainController{
		contactService:   contactService,
		locationService:  locationService,
		emergencyService: emergencyService,
		logService:       logService,
		tracker:          tracker,
		logger:           log,
		ctx:              ctx,
	}
}

// SetMainView associates the main view with this controller
func (mc *MainController) SetMainView(view MainView) {
	mc.mainView = view
	mc.emergencyService.SetNotifier(view)
	mc.setupViewEventHandlers()

	mc.tracker.SetRecordHandler(func(entry models.LogEntry) {
		view.UpdateStatus(fmt.Sprintf("Location logged at %s", entry.Timestamp.Format("15:04:05")))
	})
}

// setupViewEventHandlers connects view callbacks to controller methods
func (mc *MainController) setupViewEventHandlers() {
	mc.mainView.SetEmergencyHandler(mc.TriggerEmergency)
	mc.mainView.SetStopAlarmHandler(mc.StopAlarm)
	mc.mainView.SetContactsHandler(mc.ShowContacts)
	mc.mainView.SetSafeLocationsHandler(mc.ShowSafeLocations)
	mc.mainView.SetTrackingHandler(mc.ToggleTracking)
	mc.mainView.SetLogsHandler(mc.ShowLogs)
	mc.mainView.SetSaveContactHandler(mc.SaveContact)
	mc.mainView.SetSaveSafeLocationHandler(mc.SaveSafeLocation)
	mc.mainView.SetExportLogsHandler(mc.ExportLogs)
}

// TriggerEmergency runs the SOS sequence
func (mc *MainController) TriggerEmergency() {
	mc.mainView.UpdateStatus("Sending emergency alert...")

	ctx, cancel := context.WithTimeout(mc.ctx, operationTimeout)
	defer cancel()

	report, err := mc.emergencyService.Trigger(ctx)
	mc.mainView.SetPanicActive(mc.emergencyService.PanicActive())
	if err != nil {
		mc.handleError("Emergency", "Could not record the emergency", err)
		mc.mainView.UpdateStatus("Emergency alert failed")
		return
	}

	if len(report.Notified) == 0 {
		mc.mainView.ShowInfo("Emergency", "Emergency logged. No emergency contacts were notified.")
	}
	mc.mainView.UpdateStatus(fmt.Sprintf("Emergency logged at %s, %d contact(s) alerted",
		report.Entry.Timestamp.Format("15:04:05"), len(report.Notified)))
}

// StopAlarm silences the alarm and leaves panic mode
func (mc *MainController) StopAlarm() {
	mc.emergencyService.Resolve()
	mc.mainView.SetPanicActive(false)
	mc.mainView.UpdateStatus("Alarm stopped")
}

// ToggleTracking starts or stops the background location poller
func (mc *MainController) ToggleTracking() {
	running := mc.tracker.Toggle(mc.ctx)
	mc.mainView.SetTrackingActive(running)

	if running {
		mc.mainView.ShowInfo("Tracking", "Location tracking started!")
		mc.mainView.UpdateStatus("Location tracking on")
	} else {
		mc.mainView.ShowInfo("Tracking", "Location tracking stopped!")
		mc.mainView.UpdateStatus("Location tracking off")
	}
}

// ShowContacts opens the contact manager with the current roster
func (mc *MainController) ShowContacts() {
	ctx, cancel := context.WithTimeout(mc.ctx, operationTimeout)
	defer cancel()

	contacts, err := mc.contactService.ListContacts(ctx)
	if err != nil {
		mc.handleError("Contacts", "Could not load contacts", err)
		return
	}
	mc.mainView.ShowContacts(contacts)
}

// SaveContact stores a contact from the form and refreshes the list
func (mc *MainController) SaveContact(name, phone, relationship string) error {
	ctx, cancel := context.WithTimeout(mc.ctx, operationTimeout)
	defer cancel()

	if _, err := mc.contactService.AddContact(ctx, name, phone, relationship); err != nil {
		mc.handleError("Error", "Could not save contact", err)
		return err
	}

	mc.mainView.ShowInfo("Success", "Contact saved successfully!")
	mc.ShowContacts()
	return nil
}

// ShowSafeLocations opens the safe location manager
func (mc *MainController) ShowSafeLocations() {
	ctx, cancel := context.WithTimeout(mc.ctx, operationTimeout)
	defer cancel()

	locations, err := mc.locationService.ListSafeLocations(ctx)
	if err != nil {
		mc.handleError("Safe Locations", "Could not load safe locations", err)
		return
	}
	mc.mainView.ShowSafeLocations(locations)
}

// SaveSafeLocation geocodes and stores a safe location from the form
func (mc *MainController) SaveSafeLocation(name, address string) error {
	ctx, cancel := context.WithTimeout(mc.ctx, operationTimeout)
	defer cancel()

	if _, err := mc.locationService.AddSafeLocation(ctx, name, address); err != nil {
		mc.handleError("Error", "Could not save location", err)
		return err
	}

	mc.mainView.ShowInfo("Success", "Location saved!")
	mc.ShowSafeLocations()
	return nil
}

// ShowLogs opens the log viewer
func (mc *MainController) ShowLogs() {
	ctx, cancel := context.WithTimeout(mc.ctx, operationTimeout)
	defer cancel()

	entries, err := mc.logService.RecentLogs(ctx)
	if err != nil {
		mc.handleError("Emergency Logs", "Could not load logs", err)
		return
	}
	mc.mainView.ShowLogs(entries)
}

// ExportLogs writes the viewed logs to w as a spreadsheet
func (mc *MainController) ExportLogs(w io.Writer) error {
	ctx, cancel := context.WithTimeout(mc.ctx, operationTimeout)
	defer cancel()

	if err := mc.logService.Export(ctx, w); err != nil {
		mc.handleError("Export", "Could not export logs", err)
		return err
	}
	mc.mainView.UpdateStatus("Logs exported")
	return nil
}

// Shutdown stops background work owned by the controller
func (mc *MainController) Shutdown() {
	mc.tracker.Stop()
	if mc.emergencyService.PanicActive() {
		mc.emergencyService.Resolve()
	}
}

// handleError logs the failure and shows a message that names its category
func (mc *MainController) handleError(title, action string, err error) {
	mc.logger.Error("MainController", action, err, nil)
	mc.mainView.ShowError(title, describeError(err))
}

// describeError turns categorised errors into user-facing text.
func describeError(err error) string {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, geocode.ErrNotFound):
		return "Could not geocode address: no matching place was found."
	case errors.Is(err, geocode.ErrUnavailable):
		return "Could not geocode address: the geocoding service is unavailable. Check your connection and try again."
	case errors.Is(err, geocode.ErrMalformed):
		return "Could not geocode address: the geocoding service sent an unexpected response."
	default:
		return "Something went wrong: " + err.Error()
	}
}
