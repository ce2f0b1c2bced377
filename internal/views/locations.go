package views

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"women-safety/internal/models"
)

// SafeLocationsWindow registers safe places and lists those already saved
type SafeLocationsWindow struct {
	window       fyne.Window
	nameEntry    *widget.Entry
	addressEntry *widget.Entry
	saveButton   *widget.Button
	list         *widget.List
	locations    []models.SafeLocation

	saveHandler func(name, address string) error
}

func newSafeLocationsWindow(app fyne.App, saveHandler func(name, address string) error) *SafeLocationsWindow {
	lw := &SafeLocationsWindow{
		window:      app.NewWindow("Safe Locations"),
		saveHandler: saveHandler,
	}
	lw.createComponents()
	lw.buildLayout()
	return lw
}

func (lw *SafeLocationsWindow) createComponents() {
	lw.nameEntry = widget.NewEntry()
	lw.nameEntry.SetPlaceHolder("Location name")
	lw.addressEntry = widget.NewEntry()
	lw.addressEntry.SetPlaceHolder("Street address")

	lw.saveButton = widget.NewButton("Save Location", lw.submit)
	lw.saveButton.Importance = widget.HighImportance

	lw.list = widget.NewList(
		func() int { return len(lw.locations) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, item fyne.CanvasObject) {
			item.(*widget.Label).SetText(lw.locations[id].DisplayText())
		},
	)
}

func (lw *SafeLocationsWindow) buildLayout() {
	form := widget.NewForm(
		widget.NewFormItem("Name", lw.nameEntry),
		widget.NewFormItem("Address", lw.addressEntry),
	)

	top := container.NewVBox(form, lw.saveButton, widget.NewSeparator(), widget.NewLabel("Saved locations"))
	lw.window.SetContent(container.NewBorder(top, nil, nil, nil, lw.list))
	lw.window.Resize(fyne.NewSize(480, 480))
}

// submit geocodes through the save handler, which can take seconds, so the
// button stays disabled until it returns.
func (lw *SafeLocationsWindow) submit() {
	if lw.saveHandler == nil {
		return
	}
	name, address := lw.nameEntry.Text, lw.addressEntry.Text

	lw.saveButton.Disable()
	lw.saveButton.SetText("Locating...")
	go func() {
		err := lw.saveHandler(name, address)
		fyne.Do(func() {
			lw.saveButton.SetText("Save Location")
			lw.saveButton.Enable()
			if err == nil {
				lw.nameEntry.SetText("")
				lw.addressEntry.SetText("")
			}
		})
	}()
}

// SetLocations replaces the listed locations. Must run on the UI goroutine.
func (lw *SafeLocationsWindow) SetLocations(locations []models.SafeLocation) {
	lw.locations = locations
	lw.list.Refresh()
}

func (lw *SafeLocationsWindow) Show() {
	lw.window.Show()
	lw.window.RequestFocus()
}
