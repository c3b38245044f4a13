package export

import (
	"fmt"
	"io"

	"github.com/savegress/mobitrace/pkg/models"
	"github.com/xuri/excelize/v2"
)

// WriteWorkbook packages every result table as a named sheet in one XLSX
// workbook.
func WriteWorkbook(w io.Writer, result *models.ScanResult) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, table := range Tables(result) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", table.Name); err != nil {
				return fmt.Errorf("name sheet %s: %w", table.Name, err)
			}
		} else {
			if _, err := f.NewSheet(table.Name); err != nil {
				return fmt.Errorf("add sheet %s: %w", table.Name, err)
			}
		}
		if err := writeSheet(f, table); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, table Table) error {
	if err := setRow(f, table.Name, 1, table.Headers); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if err := setRow(f, table.Name, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("sheet %s row %d: %w", sheet, rowNum, err)
	}

	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("sheet %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}
