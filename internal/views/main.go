package views

import (
	"context"
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"women-safety/internal/models"
	"women-safety/internal/views/components"
)

// MainView represents the main application view using MVC pattern.
// Methods called by the controller are safe from any goroutine; UI work is
// marshalled with fyne.Do.
type MainView struct {
	app    fyne.App
	window fyne.Window

	// UI Components
	mainContainer   *fyne.Container
	actions         *components.ActionPanel
	statusBar       *components.StatusBar
	contactsWindow  *ContactsWindow
	locationsWindow *SafeLocationsWindow
	logsWindow      *LogsWindow

	// dialogs open over the most recently shown window
	focused fyne.Window

	// Event handlers - connected to controller
	saveContactHandler      func(name, phone, relationship string) error
	saveSafeLocationHandler func(name, address string) error
	exportLogsHandler       func(w io.Writer) error
}

// NewMainView creates a new main view
func NewMainView(app fyne.App, window fyne.Window) *MainView {
	view := &MainView{
		app:     app,
		window:  window,
		focused: window,
	}

	view.actions = components.NewActionPanel()
	view.statusBar = components.NewStatusBar()
	view.buildLayout()

	return view
}

func (mv *MainView) buildLayout() {
	mv.mainContainer = container.NewBorder(
		nil,
		mv.statusBar.GetContainer(),
		nil,
		nil,
		container.NewCenter(mv.actions.GetContainer()),
	)
	mv.window.SetContent(mv.mainContainer)
}

// Event handler setters - called by controller

func (mv *MainView) SetEmergencyHandler(handler func())     { mv.actions.SetSOSHandler(handler) }
func (mv *MainView) SetStopAlarmHandler(handler func())     { mv.actions.SetStopAlarmHandler(handler) }
func (mv *MainView) SetContactsHandler(handler func())      { mv.actions.SetContactsHandler(handler) }
func (mv *MainView) SetSafeLocationsHandler(handler func()) { mv.actions.SetLocationsHandler(handler) }
func (mv *MainView) SetTrackingHandler(handler func())      { mv.actions.SetTrackingHandler(handler) }
func (mv *MainView) SetLogsHandler(handler func())          { mv.actions.SetLogsHandler(handler) }

// SetSaveContactHandler sets the handler for the contact form
func (mv *MainView) SetSaveContactHandler(handler func(name, phone, relationship string) error) {
	mv.saveContactHandler = handler
}

// SetSaveSafeLocationHandler sets the handler for the safe location form
func (mv *MainView) SetSaveSafeLocationHandler(handler func(name, address string) error) {
	mv.saveSafeLocationHandler = handler
}

// SetExportLogsHandler sets the handler for the log export button
func (mv *MainView) SetExportLogsHandler(handler func(w io.Writer) error) {
	mv.exportLogsHandler = handler
}

// UI update methods - called by controller

// ShowContacts opens the contacts window, or refreshes it if already open
func (mv *MainView) ShowContacts(contacts []models.Contact) {
	fyne.Do(func() {
		if mv.contactsWindow == nil {
			mv.contactsWindow = newContactsWindow(mv.app, mv.saveContactHandler)
			mv.hideOnClose(mv.contactsWindow.window)
		}
		mv.contactsWindow.SetContacts(contacts)
		mv.contactsWindow.Show()
		mv.focused = mv.contactsWindow.window
	})
}

// ShowSafeLocations opens the safe locations window
func (mv *MainView) ShowSafeLocations(locations []models.SafeLocation) {
	fyne.Do(func() {
		if mv.locationsWindow == nil {
			mv.locationsWindow = newSafeLocationsWindow(mv.app, mv.saveSafeLocationHandler)
			mv.hideOnClose(mv.locationsWindow.window)
		}
		mv.locationsWindow.SetLocations(locations)
		mv.locationsWindow.Show()
		mv.focused = mv.locationsWindow.window
	})
}

// ShowLogs opens the log viewer
func (mv *MainView) ShowLogs(entries []models.LogEntry) {
	fyne.Do(func() {
		if mv.logsWindow == nil {
			mv.logsWindow = newLogsWindow(mv.app, mv.exportLogsHandler, func(path string) {
				mv.ShowInfo("Export", fmt.Sprintf("Logs exported to %s", path))
			})
			mv.hideOnClose(mv.logsWindow.window)
		}
		mv.logsWindow.SetEntries(entries)
		mv.logsWindow.Show()
		mv.focused = mv.logsWindow.window
	})
}

// hideOnClose keeps sub-windows alive between uses
func (mv *MainView) hideOnClose(w fyne.Window) {
	w.SetCloseIntercept(func() {
		w.Hide()
		if mv.focused == w {
			mv.focused = mv.window
		}
	})
}

// SetTrackingActive reflects the tracker state on the button and status bar
func (mv *MainView) SetTrackingActive(active bool) {
	fyne.Do(func() {
		mv.actions.SetTrackingActive(active)
		mv.statusBar.SetTracking(active)
	})
}

// SetPanicActive reflects the alarm state
func (mv *MainView) SetPanicActive(active bool) {
	fyne.Do(func() {
		mv.actions.SetPanicActive(active)
		mv.statusBar.SetAlarm(active)
	})
}

// UpdateStatus updates the status bar message
func (mv *MainView) UpdateStatus(status string) {
	fyne.Do(func() {
		mv.statusBar.SetStatus(status)
	})
}

// ShowError displays an error dialog
func (mv *MainView) ShowError(title, message string) {
	fyne.Do(func() {
		d := dialog.NewCustom(title, "OK", widget.NewLabel(message), mv.focused)
		d.Show()
	})
}

// ShowInfo displays an information dialog
func (mv *MainView) ShowInfo(title, message string) {
	fyne.Do(func() {
		dialog.ShowInformation(title, message, mv.focused)
	})
}

// Notify stands in for sending the alert: the user sees one confirmation
// per contact.
func (mv *MainView) Notify(ctx context.Context, contact models.Contact, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fyne.Do(func() {
		dialog.ShowInformation("Alert Sent", fmt.Sprintf("Emergency alert sent to %s", contact.Name), mv.window)
	})
	return nil
}

// ShowConfirm displays a confirmation dialog
func (mv *MainView) ShowConfirm(title, message string, callback func(bool)) {
	fyne.Do(func() {
		dialog.ShowConfirm(title, message, callback, mv.window)
	})
}

// GetWindow returns the main window
func (mv *MainView) GetWindow() fyne.Window {
	return mv.window
}

// Show displays the view
func (mv *MainView) Show() {
	fyne.Do(func() {
		mv.window.Show()
	})
}

// Close closes the main window and every sub-window
func (mv *MainView) Close() {
	fyne.Do(func() {
		for _, w := range mv.subWindows() {
			w.Close()
		}
		mv.window.Close()
	})
}

func (mv *MainView) subWindows() []fyne.Window {
	var windows []fyne.Window
	if mv.contactsWindow != nil {
		windows = append(windows, mv.contactsWindow.window)
	}
	if mv.locationsWindow != nil {
		windows = append(windows, mv.locationsWindow.window)
	}
	if mv.logsWindow != nil {
		windows = append(windows, mv.logsWindow.window)
	}
	return windows
}
