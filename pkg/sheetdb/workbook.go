package sheetdb

import (
	"path/filepath"

	"github.com/ukaji3/sheetdb-go/pkg/sheetdb/models"
	"github.com/ukaji3/sheetdb-go/pkg/sheetdb/parser"
	"github.com/xuri/excelize/v2"
)

// readWorkbook opens the workbook at path, hands it to fn and closes it.
func readWorkbook(path string, fn func(f *excelize.File) error) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return fn(f)
}

// modifyWorkbook re-reads the whole workbook, lets fn change it and writes
// the whole workbook back. Nothing is written when fn fails.
func modifyWorkbook(path string, fn func(f *excelize.File) error) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// Extract reads every sheet of the workbook at path as rows.
// Sheets whose records can not be read are reported with no rows.
func Extract(path string) (*models.WorkbookData, error) {
	wb := &models.WorkbookData{BookName: filepath.Base(path)}

	err := readWorkbook(path, func(f *excelize.File) error {
		for _, sheetName := range f.GetSheetList() {
			rows, err := parser.ReadRecords(f, sheetName)
			if err != nil {
				rows = nil
			}
			rng, err := parser.UsedRange(f, sheetName)
			if err != nil {
				rng = ""
			}
			wb.Sheets = append(wb.Sheets, models.SheetData{
				Name:  sheetName,
				Range: rng,
				Rows:  rows,
			})
		}
		return nil
	})
	if err != nil {
		return nil, newOpError("extract", path, "", err)
	}
	return wb, nil
}
