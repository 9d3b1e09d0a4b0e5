package importer

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	importererrors "churchops/internal/importer/errors"
	"churchops/internal/shared/apperror"

	"github.com/xuri/excelize/v2"
)

// Columns is the canonical column order used by the template.
var Columns = []string{
	"person_id", "first_name", "last_name", "email", "phone",
	"region_name", "direction_name", "department_name", "team_name", "cell_name",
	"is_active",
}

var headerAliases = map[string]string{
	"id":            "person_id",
	"firstname":     "first_name",
	"lastname":      "last_name",
	"email_address": "email",
	"phone_number":  "phone",
	"region":        "region_name",
	"direction":     "direction_name",
	"department":    "department_name",
	"team":          "team_name",
	"cell":          "cell_name",
	"active":        "is_active",
}

var headerReplacer = strings.NewReplacer(" ", "_", "-", "_", ".", "_")

// NormalizeHeader maps spreadsheet headings such as "First Name" or
// "Region" onto column keys.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	key := headerReplacer.Replace(strings.ToLower(strings.TrimSpace(h)))
	for strings.Contains(key, "__") {
		key = strings.ReplaceAll(key, "__", "_")
	}
	if alias, ok := headerAliases[key]; ok {
		return alias
	}
	return key
}

// Parse reads a .csv or .xlsx upload into rows. maxRows <= 0 means no limit.
func Parse(filename string, r io.Reader, maxRows int) ([]Row, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		records, err = readCSV(r)
	case ".xlsx":
		records, err = readXLSX(r)
	default:
		return nil, importererrors.ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	return rowsFromRecords(records, maxRows)
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, wrapUnreadable(err)
	}
	return records, nil
}

// readXLSX takes the first sheet of the workbook.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, wrapUnreadable(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, importererrors.ErrUnreadableFile
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, wrapUnreadable(err)
	}
	return records, nil
}

func wrapUnreadable(err error) error {
	return apperror.WithCause(importererrors.ErrUnreadableFile, err)
}

func rowsFromRecords(records [][]string, maxRows int) ([]Row, error) {
	if len(records) == 0 {
		return nil, importererrors.ErrEmptyImport
	}

	header := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		key := NormalizeHeader(h)
		if _, dup := header[key]; !dup && key != "" {
			header[key] = i
		}
	}
	if !hasIdentifierColumn(header) {
		return nil, importererrors.ErrMissingIdentifierColumn
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		if maxRows > 0 && len(rows) == maxRows {
			return nil, importererrors.ErrTooManyRows
		}
		get := func(col string) string {
			i, ok := header[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		rows = append(rows, Row{
			PersonID:       get("person_id"),
			FirstName:      get("first_name"),
			LastName:       get("last_name"),
			Email:          get("email"),
			Phone:          get("phone"),
			Country:        get("country"),
			Gender:         get("gender"),
			CellName:       get("cell_name"),
			TeamName:       get("team_name"),
			DepartmentName: get("department_name"),
			DirectionName:  get("direction_name"),
			RegionName:     get("region_name"),
			IsActive:       cellValue(get("is_active")),
		})
	}
	if len(rows) == 0 {
		return nil, importererrors.ErrEmptyImport
	}
	return rows, nil
}

func hasIdentifierColumn(header map[string]int) bool {
	has := func(k string) bool { _, ok := header[k]; return ok }
	return has("person_id") || has("email") || has("phone") || (has("first_name") && has("last_name"))
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Template is the downloadable CSV with the import columns and two example rows.
func Template() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	records := [][]string{
		Columns,
		{"", "John", "Doe", "john.doe@example.com", "+233201234567", "North", "Central", "Youth", "Team A", "Cell 1", "true"},
		{"", "Jane", "Smith", "jane.smith@example.com", "+233207654321", "South", "Coastal", "Music", "Team B", "Cell 4", "true"},
	}
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
