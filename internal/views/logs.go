package views

import (
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"women-safety/internal/models"
)

const exportFileName = "emergency_logs.xlsx"

// LogsWindow lists the most recent log entries, newest first
type LogsWindow struct {
	window       fyne.Window
	list         *widget.List
	emptyLabel   *widget.Label
	exportButton *widget.Button
	entries      []models.LogEntry

	exportHandler func(w io.Writer) error
	onExported    func(path string)
}

func newLogsWindow(app fyne.App, exportHandler func(w io.Writer) error, onExported func(path string)) *LogsWindow {
	lw := &LogsWindow{
		window:        app.NewWindow("Emergency Logs"),
		exportHandler: exportHandler,
		onExported:    onExported,
	}
	lw.createComponents()
	lw.buildLayout()
	return lw
}

func (lw *LogsWindow) createComponents() {
	lw.list = widget.NewList(
		func() int { return len(lw.entries) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, item fyne.CanvasObject) {
			item.(*widget.Label).SetText(lw.entries[id].DisplayText())
		},
	)
	lw.emptyLabel = widget.NewLabel("No events logged yet.")
	lw.exportButton = widget.NewButton("Export", lw.export)
}

func (lw *LogsWindow) buildLayout() {
	bottom := container.NewHBox(lw.emptyLabel, layout.NewSpacer(), lw.exportButton)
	lw.window.SetContent(container.NewBorder(nil, bottom, nil, nil, lw.list))
	lw.window.Resize(fyne.NewSize(560, 420))
}

func (lw *LogsWindow) export() {
	if lw.exportHandler == nil {
		return
	}

	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		go func() {
			defer writer.Close()
			if err := lw.exportHandler(writer); err != nil {
				return
			}
			if lw.onExported != nil {
				lw.onExported(writer.URI().Path())
			}
		}()
	}, lw.window)
	save.SetFileName(exportFileName)
	save.SetFilter(storage.NewExtensionFileFilter([]string{".xlsx"}))
	save.Show()
}

// SetEntries replaces the listed entries. Must run on the UI goroutine.
func (lw *LogsWindow) SetEntries(entries []models.LogEntry) {
	lw.entries = entries
	if len(entries) == 0 {
		lw.emptyLabel.Show()
		lw.exportButton.Disable()
	} else {
		lw.emptyLabel.Hide()
		lw.exportButton.Enable()
	}
	lw.list.Refresh()
}

func (lw *LogsWindow) Show() {
	lw.window.Show()
	lw.window.RequestFocus()
}
