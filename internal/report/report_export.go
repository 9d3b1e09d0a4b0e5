package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const (
	csvContentType  = "text/csv"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportSheet     = "Attendance"
)

// ExportColumns is the header of the per-person export.
var ExportColumns = []string{
	"First Name", "Last Name", "Gender", "Cell", "Team", "Department", "Direction", "Region",
	"Present Count", "Watched Recording Count", "Absent Count", "Total Marked", "Total Services",
	"Attendance Percentage",
}

var exporters = map[string]func(AttendanceReport) (ExportFile, error){
	"csv":  exportCSV,
	"xlsx": exportXLSX,
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func exportRows(report AttendanceReport) [][]string {
	rows := make([][]string, len(report.People))
	for i, p := range report.People {
		rows[i] = []string{
			p.FirstName, p.LastName, p.Gender, p.Cell, p.Team, p.Department, p.Direction, p.Region,
			itoa(p.Present), itoa(p.WatchedRecording), itoa(p.Absent), itoa(p.TotalMarked), itoa(p.TotalServices),
			FormatPercentage(p.percentage),
		}
	}
	return rows
}

func exportName(report AttendanceReport, ext string) string {
	return "attendance_report_" + report.From + "_" + report.To + "." + ext
}

func exportCSV(report AttendanceReport) (ExportFile, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ExportColumns); err != nil {
		return ExportFile{}, err
	}
	if err := w.WriteAll(exportRows(report)); err != nil {
		return ExportFile{}, err
	}
	return ExportFile{Name: exportName(report, "csv"), ContentType: csvContentType, Body: buf.Bytes()}, nil
}

func exportXLSX(report AttendanceReport) (ExportFile, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return ExportFile{}, err
	}
	header := make([]any, len(ExportColumns))
	for i, c := range ExportColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return ExportFile{}, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return ExportFile{}, err
	}
	last, err := excelize.CoordinatesToCellName(len(ExportColumns), 1)
	if err != nil {
		return ExportFile{}, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", last, bold); err != nil {
		return ExportFile{}, err
	}

	for i, p := range report.People {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return ExportFile{}, err
		}
		row := []any{
			p.FirstName, p.LastName, p.Gender, p.Cell, p.Team, p.Department, p.Direction, p.Region,
			p.Present, p.WatchedRecording, p.Absent, p.TotalMarked, p.TotalServices,
			FormatPercentage(p.percentage),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return ExportFile{}, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return ExportFile{}, err
	}
	return ExportFile{Name: exportName(report, "xlsx"), ContentType: xlsxContentType, Body: buf.Bytes()}, nil
}
