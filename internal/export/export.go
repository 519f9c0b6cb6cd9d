// Package export writes the filtered employee roster as an XLSX workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"wellness/internal/models"
)

// SheetName is the worksheet the roster is written to.
const SheetName = "Employees"

// ContentType of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type column struct {
	header string
	width  float64
	value  func(e models.Employee) interface{}
}

var columns = []column{
	{"ID", 12, func(e models.Employee) interface{} { return e.ID }},
	{"Name", 24, func(e models.Employee) interface{} { return e.Name }},
	{"Email", 28, func(e models.Employee) interface{} { return e.Email }},
	{"Department", 14, func(e models.Employee) interface{} { return e.Department }},
	{"Sleep Hours", 12, func(e models.Employee) interface{} { return number(e.SleepHours) }},
	{"Working Hours", 14, func(e models.Employee) interface{} { return number(e.WorkingHours) }},
	{"Rewards", 10, func(e models.Employee) interface{} { return number(e.Rewards) }},
	{"Leaves Taken", 12, func(e models.Employee) interface{} { return number(e.LeavesTaken) }},
	{"Leaves Left", 12, func(e models.Employee) interface{} { return number(e.LeavesLeft) }},
	{"Activity", 12, func(e models.Employee) interface{} { return e.ActivityTracker }},
	{"Mood", 12, func(e models.Employee) interface{} { return e.Vibemeter }},
	{"Performance", 14, func(e models.Employee) interface{} { return e.Performance }},
	{"Reviewed", 10, func(e models.Employee) interface{} { return yesNo(e.Reviewed) }},
}

// nil leaves the cell blank.
func number(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// RosterWorkbook writes one header row and one row per employee to w.
func RosterWorkbook(w io.Writer, employees []models.Employee) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", SheetName)
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"046A38"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		if err := sw.SetColWidth(i+1, i+1, col.width); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
		header[i] = excelize.Cell{StyleID: headerStyle, Value: col.header}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, e := range employees {
		row := make([]interface{}, len(columns))
		for j, col := range columns {
			row[j] = col.value(e)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
