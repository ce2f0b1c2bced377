package views

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"women-safety/internal/models"
)

// ContactsWindow is the contact form plus the saved roster
type ContactsWindow struct {
	window            fyne.Window
	nameEntry         *widget.Entry
	phoneEntry        *widget.Entry
	relationshipEntry *widget.Entry
	saveButton        *widget.Button
	list              *widget.List
	contacts          []models.Contact

	saveHandler func(name, phone, relationship string) error
}

func newContactsWindow(app fyne.App, saveHandler func(name, phone, relationship string) error) *ContactsWindow {
	cw := &ContactsWindow{
		window:      app.NewWindow("Emergency Contacts"),
		saveHandler: saveHandler,
	}
	cw.createComponents()
	cw.buildLayout()
	return cw
}

func (cw *ContactsWindow) createComponents() {
	cw.nameEntry = widget.NewEntry()
	cw.nameEntry.SetPlaceHolder("Name")
	cw.phoneEntry = widget.NewEntry()
	cw.phoneEntry.SetPlaceHolder("Phone")
	cw.relationshipEntry = widget.NewEntry()
	cw.relationshipEntry.SetPlaceHolder("Relationship (optional)")

	cw.saveButton = widget.NewButton("Save Contact", cw.submit)
	cw.saveButton.Importance = widget.HighImportance

	cw.list = widget.NewList(
		func() int { return len(cw.contacts) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, item fyne.CanvasObject) {
			item.(*widget.Label).SetText(cw.contacts[id].DisplayText())
		},
	)
}

func (cw *ContactsWindow) buildLayout() {
	form := widget.NewForm(
		widget.NewFormItem("Name", cw.nameEntry),
		widget.NewFormItem("Phone", cw.phoneEntry),
		widget.NewFormItem("Relationship", cw.relationshipEntry),
	)

	top := container.NewVBox(form, cw.saveButton, widget.NewSeparator(), widget.NewLabel("Saved contacts"))
	cw.window.SetContent(container.NewBorder(top, nil, nil, nil, cw.list))
	cw.window.Resize(fyne.NewSize(420, 480))
}

// submit hands the form to the save handler off the UI goroutine and clears
// the form once the contact is stored.
func (cw *ContactsWindow) submit() {
	if cw.saveHandler == nil {
		return
	}
	name, phone, relationship := cw.nameEntry.Text, cw.phoneEntry.Text, cw.relationshipEntry.Text

	cw.saveButton.Disable()
	go func() {
		err := cw.saveHandler(name, phone, relationship)
		fyne.Do(func() {
			cw.saveButton.Enable()
			if err == nil {
				cw.clear()
			}
		})
	}()
}

func (cw *ContactsWindow) clear() {
	cw.nameEntry.SetText("")
	cw.phoneEntry.SetText("")
	cw.relationshipEntry.SetText("")
}

// SetContacts replaces the listed roster. Must run on the UI goroutine.
func (cw *ContactsWindow) SetContacts(contacts []models.Contact) {
	cw.contacts = contacts
	cw.list.Refresh()
}

func (cw *ContactsWindow) Show() {
	cw.window.Show()
	cw.window.RequestFocus()
}
