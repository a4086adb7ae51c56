// Package parser converts between excelize sheets and row records.
package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// UsedRange returns the cell range (e.g. "A1:D10") bounding every non-empty
// cell of a sheet, or "" when the sheet holds no data. String cells holding ""
// count as data.
func UsedRange(f *excelize.File, sheetName string) (string, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", err
	}

	minRow, maxRow, minCol, maxCol, err := dataBounds(f, sheetName, rows)
	if err != nil {
		return "", err
	}
	if minRow < 0 {
		return "", nil
	}

	startCell, err := excelize.CoordinatesToCellName(minCol+1, minRow+1)
	if err != nil {
		return "", err
	}
	endCell, err := excelize.CoordinatesToCellName(maxCol+1, maxRow+1)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s", startCell, endCell), nil
}

// findDataBounds finds the bounding box of non-empty cells.
// All four results are -1 when there is no data.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell != "" {
				if minRow < 0 || rowIdx < minRow {
					minRow = rowIdx
				}
				if maxRow < 0 || rowIdx > maxRow {
					maxRow = rowIdx
				}
				if minCol < 0 || colIdx < minCol {
					minCol = colIdx
				}
				if maxCol < 0 || colIdx > maxCol {
					maxCol = colIdx
				}
			}
		}
	}

	return
}

// dataBounds widens findDataBounds downwards to rows that hold only empty
// string cells. GetRows drops those when they trail the sheet.
func dataBounds(f *excelize.File, sheetName string, grid [][]string) (minRow, maxRow, minCol, maxCol int, err error) {
	minRow, maxRow, minCol, maxCol = findDataBounds(grid)
	if minRow < 0 {
		return
	}

	last, err := lastRowNumber(f, sheetName)
	if err != nil {
		return
	}
	for rowIdx := last - 1; rowIdx > maxRow; rowIdx-- {
		found, cellErr := rowHasStringCell(f, sheetName, rowIdx, minCol, maxCol)
		if cellErr != nil {
			err = cellErr
			return
		}
		if found {
			maxRow = rowIdx
			break
		}
	}
	return
}

// lastRowNumber returns the 1-based number of the last row element in a
// sheet, or 0 when it has none.
func lastRowNumber(f *excelize.File, sheetName string) (int, error) {
	rows, err := f.Rows(sheetName)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		n++
	}
	return n, rows.Error()
}

func rowHasStringCell(f *excelize.File, sheetName string, rowIdx, minCol, maxCol int) (bool, error) {
	for colIdx := minCol; colIdx <= maxCol; colIdx++ {
		cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
		if err != nil {
			return false, err
		}
		cellType, err := f.GetCellType(sheetName, cellName)
		if err != nil {
			return false, err
		}
		if isStringType(cellType) {
			return true, nil
		}
	}
	return false, nil
}
