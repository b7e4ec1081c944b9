package spreadsheet

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	ContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	templateAuthor = "Import Template"
	maxColumnWidth = 50
)

// Workbook is a rendered xlsx file ready to be served or saved.
type Workbook struct {
	Filename string
	Data     []byte
}

type sheetComment struct {
	column int
	text   string
}

type sheetSpec struct {
	name       string
	header     []string
	rows       [][]interface{}
	boldHeader bool
	comments   []sheetComment
}

func render(spec sheetSpec) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), spec.name); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(spec.header))
	for i, h := range spec.header {
		header[i] = h
	}
	if err := f.SetSheetRow(spec.name, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range spec.rows {
		row := row
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(spec.name, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := setWidths(f, spec); err != nil {
		return nil, err
	}

	if spec.boldHeader && len(spec.header) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, fmt.Errorf("failed to create header style: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(len(spec.header), 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(spec.name, "A1", last, style); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
	}

	for _, c := range spec.comments {
		cell, err := excelize.CoordinatesToCellName(c.column, 1)
		if err != nil {
			return nil, err
		}
		if err := f.AddComment(spec.name, excelize.Comment{
			Cell:   cell,
			Author: templateAuthor,
			Text:   c.text,
		}); err != nil {
			return nil, fmt.Errorf("failed to add comment: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// setWidths sizes every column to its longest value plus two, capped at 50.
func setWidths(f *excelize.File, spec sheetSpec) error {
	for col := range spec.header {
		longest := utf8.RuneCountInString(spec.header[col])
		for _, row := range spec.rows {
			if col < len(row) {
				if n := utf8.RuneCountInString(cellText(row[col])); n > longest {
					longest = n
				}
			}
		}

		width := longest + 2
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(spec.name, name, name, float64(width)); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	return nil
}

func cellText(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// readSheet returns the raw rows of the named sheet.
func readSheet(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.GetRows(sheet, excelize.Options{RawCellValue: true})
}
