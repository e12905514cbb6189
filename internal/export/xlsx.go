// Package export writes list views to spreadsheet files.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"fbrportal/internal/listview"
)

const defaultSheet = "Sheet1"

// maxSheetName is the longest sheet name a workbook accepts.
const maxSheetName = 31

// Workbook builds an .xlsx file with one sheet per table.
func Workbook(tables ...listview.Table) (*excelize.File, error) {
	const op = "export.Workbook"

	f := excelize.NewFile()
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6E6"}},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: header style: %w", op, err)
	}

	used := map[string]bool{}
	for i, t := range tables {
		name := uniqueName(SheetName(t.Title), used)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				f.Close()
				return nil, fmt.Errorf("%s: rename sheet: %w", op, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("%s: add sheet %q: %w", op, name, err)
		}
		if err := writeTable(f, name, t, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return f, nil
}

func writeTable(f *excelize.File, sheet string, t listview.Table, headerStyle int) error {
	if len(t.Headers) > 0 {
		if err := f.SetSheetRow(sheet, "A1", &t.Headers); err != nil {
			return fmt.Errorf("write headers: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(len(t.Headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("style headers: %w", err)
		}
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	for col := range t.Headers {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, columnWidth(t, col)); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}
	return nil
}

// columnWidth sizes a column to its longest cell, capped at 60 characters.
func columnWidth(t listview.Table, col int) float64 {
	width := len(t.Headers[col])
	for _, row := range t.Rows {
		if col < len(row) && len(row[col]) > width {
			width = len(row[col])
		}
	}
	if width > 60 {
		width = 60
	}
	return float64(width + 2)
}

// SheetName makes title usable as a worksheet name.
func SheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		name = defaultSheet
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}

func uniqueName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		base := []rune(name)
		if len(base)+len(suffix) > maxSheetName {
			base = base[:maxSheetName-len(suffix)]
		}
		candidate = string(base) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

// WriteXLSX writes the tables as a workbook to w.
func WriteXLSX(w io.Writer, tables ...listview.Table) error {
	f, err := Workbook(tables...)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	return nil
}

// SaveXLSX writes the tables as a workbook to path.
func SaveXLSX(path string, tables ...listview.Table) error {
	f, err := Workbook(tables...)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export.SaveXLSX: %w", err)
	}
	return nil
}
