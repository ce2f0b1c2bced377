package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar displays the last event and the tracking and alarm state.
// Setters must run on the UI goroutine.
type StatusBar struct {
	container     *fyne.Container
	statusLabel   *widget.Label
	trackingLabel *widget.Label
	alarmLabel    *widget.Label
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents() {
	sb.statusLabel = widget.NewLabel("Ready")
	sb.trackingLabel = widget.NewLabel("Tracking: off")
	sb.alarmLabel = widget.NewLabel("Alarm: off")
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewHBox(
		sb.statusLabel,
		widget.NewSeparator(),
		sb.trackingLabel,
		widget.NewSeparator(),
		sb.alarmLabel,
	)
}

// SetStatus updates the main status message
func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

// GetStatus returns the current status message
func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

func (sb *StatusBar) SetTracking(active bool) {
	sb.trackingLabel.SetText("Tracking: " + onOff(active))
}

func (sb *StatusBar) SetAlarm(active bool) {
	sb.alarmLabel.SetText("Alarm: " + onOff(active))
}

// Reset resets the status bar to initial state
func (sb *StatusBar) Reset() {
	sb.statusLabel.SetText("Ready")
	sb.SetTracking(false)
	sb.SetAlarm(false)
}

// GetContainer returns the status bar container
func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

func onOff(active bool) string {
	if active {
		return "on"
	}
	return "off"
}
