// Package export produces spreadsheet exports of dockets.
package export

import (
	"bytes"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/xelth-com/docketgo/internal/models"
	"github.com/xelth-com/docketgo/internal/utils"
)

// SheetName is the worksheet holding the labour rows.
const SheetName = "Dockets"

// Headers are the column titles of the export, one row per labour item.
var Headers = []string{
	"Job Number",
	"Date",
	"Supervisor",
	"Worker",
	"Role",
	"Hours",
	"Notes",
}

// DocketsXLSX returns a workbook listing every labour item of the given dockets.
func DocketsXLSX(job *models.Job, dockets []models.Docket) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	if err := writeSheet(f, SheetName, job, dockets); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeSheet fills sheet with the header, one row per labour item and a
// totals row. It stops at the first failed write.
func writeSheet(f *excelize.File, sheet string, job *models.Job, dockets []models.Docket) error {
	// set keeps the first failure; later writes become no-ops
	var err error
	set := func(col, row int, v interface{}) {
		if err != nil {
			return
		}
		var cell string
		if cell, err = excelize.CoordinatesToCellName(col, row); err != nil {
			return
		}
		err = f.SetCellValue(sheet, cell, v)
	}

	for i, h := range Headers {
		set(i+1, 1, h)
	}

	row := 2
	for _, d := range dockets {
		for _, item := range d.LabourItems {
			set(1, row, job.JobNumber)
			set(2, row, utils.FormatDDMMYYYY(d.Date))
			set(3, row, d.SupervisorName)
			set(4, row, item.WorkerName)
			set(5, row, item.Role)
			set(6, row, item.HoursWorked)
			set(7, row, d.Notes)
			row++
		}
	}

	// Totals row
	if row > 2 {
		set(5, row, "Total")
		if err == nil {
			err = f.SetCellFormula(sheet, "F"+strconv.Itoa(row), "SUM(F2:F"+strconv.Itoa(row-1)+")")
		}
	}
	if err != nil {
		return err
	}

	for _, w := range []struct {
		from, to string
		width    float64
	}{
		{"A", "A", 12},
		{"B", "B", 12},
		{"C", "E", 20},
		{"G", "G", 40},
	} {
		if err := f.SetColWidth(sheet, w.from, w.to, w.width); err != nil {
			return err
		}
	}
	return nil
}
