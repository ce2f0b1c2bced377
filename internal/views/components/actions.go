package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	startTrackingLabel = "Start Location Tracking"
	stopTrackingLabel  = "Stop Location Tracking"
)

// ActionPanel holds the SOS button and the secondary feature buttons
type ActionPanel struct {
	container       *fyne.Container
	sosButton       *widget.Button
	stopAlarmButton *widget.Button
	contactsButton  *widget.Button
	locationsButton *widget.Button
	trackingButton  *widget.Button
	logsButton      *widget.Button

	// Event handlers
	sosHandler       func()
	stopAlarmHandler func()
	contactsHandler  func()
	locationsHandler func()
	trackingHandler  func()
	logsHandler      func()
}

// NewActionPanel creates the main window button panel
func NewActionPanel() *ActionPanel {
	panel := &ActionPanel{}
	panel.createComponents()
	panel.buildLayout()
	panel.setupEventHandlers()
	return panel
}

func (p *ActionPanel) createComponents() {
	p.sosButton = widget.NewButton("SOS EMERGENCY", nil)
	p.sosButton.Importance = widget.DangerImportance

	p.stopAlarmButton = widget.NewButton("Stop Alarm", nil)
	p.stopAlarmButton.Importance = widget.MediumImportance
	p.stopAlarmButton.Disable()

	p.contactsButton = widget.NewButton("Emergency Contacts", nil)
	p.locationsButton = widget.NewButton("Safe Locations", nil)
	p.trackingButton = widget.NewButton(startTrackingLabel, nil)
	p.logsButton = widget.NewButton("View Emergency Logs", nil)
}

func (p *ActionPanel) buildLayout() {
	title := widget.NewLabelWithStyle("Women Safety App", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	p.container = container.NewVBox(
		title,
		container.NewGridWrap(fyne.NewSize(320, 120), p.sosButton),
		p.stopAlarmButton,
		widget.NewSeparator(),
		p.contactsButton,
		p.locationsButton,
		p.trackingButton,
		p.logsButton,
	)
}

// setupEventHandlers runs handlers off the UI goroutine; each one may block
// on the store or the geocoder.
func (p *ActionPanel) setupEventHandlers() {
	p.sosButton.OnTapped = func() { dispatch(p.sosHandler) }
	p.stopAlarmButton.OnTapped = func() { dispatch(p.stopAlarmHandler) }
	p.contactsButton.OnTapped = func() { dispatch(p.contactsHandler) }
	p.locationsButton.OnTapped = func() { dispatch(p.locationsHandler) }
	p.trackingButton.OnTapped = func() { dispatch(p.trackingHandler) }
	p.logsButton.OnTapped = func() { dispatch(p.logsHandler) }
}

func dispatch(handler func()) {
	if handler != nil {
		go handler()
	}
}

func (p *ActionPanel) SetSOSHandler(handler func())       { p.sosHandler = handler }
func (p *ActionPanel) SetStopAlarmHandler(handler func()) { p.stopAlarmHandler = handler }
func (p *ActionPanel) SetContactsHandler(handler func())  { p.contactsHandler = handler }
func (p *ActionPanel) SetLocationsHandler(handler func()) { p.locationsHandler = handler }
func (p *ActionPanel) SetTrackingHandler(handler func())  { p.trackingHandler = handler }
func (p *ActionPanel) SetLogsHandler(handler func())      { p.logsHandler = handler }

// SetTrackingActive relabels the tracking button. Must run on the UI
// goroutine.
func (p *ActionPanel) SetTrackingActive(active bool) {
	if active {
		p.trackingButton.SetText(stopTrackingLabel)
	} else {
		p.trackingButton.SetText(startTrackingLabel)
	}
}

// SetPanicActive enables Stop Alarm while an emergency is active. Must run
// on the UI goroutine.
func (p *ActionPanel) SetPanicActive(active bool) {
	if active {
		p.stopAlarmButton.Enable()
		p.stopAlarmButton.Importance = widget.HighImportance
	} else {
		p.stopAlarmButton.Disable()
		p.stopAlarmButton.Importance = widget.MediumImportance
	}
	p.stopAlarmButton.Refresh()
}

// TrackingLabel returns the current tracking button text
func (p *ActionPanel) TrackingLabel() string {
	return p.trackingButton.Text
}

// GetContainer returns the panel container
func (p *ActionPanel) GetContainer() *fyne.Container {
	return p.container
}
