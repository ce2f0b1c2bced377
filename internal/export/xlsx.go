// Package export writes the emergency log to a spreadsheet.
package export

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"women-safety/internal/models"
)

const SheetName = "Emergency Logs"

var header = []interface{}{"ID", "Timestamp", "Type", "Location"}

// WriteLogs renders entries as an .xlsx workbook, one row per entry in the
// order given.
func WriteLogs(w io.Writer, entries []models.LogEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return errors.Wrap(err, "name sheet")
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return errors.Wrap(err, "write header")
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		row := []interface{}{e.ID, models.FormatTimestamp(e.Timestamp), string(e.Type), e.Location}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return errors.Wrapf(err, "write row %d", i+2)
		}
	}

	if err := f.SetColWidth(SheetName, "B", "B", 28); err != nil {
		return errors.Wrap(err, "size timestamp column")
	}
	if err := f.SetColWidth(SheetName, "D", "D", 60); err != nil {
		return errors.Wrap(err, "size location column")
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}
