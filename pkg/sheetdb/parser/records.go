package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/sheetdb-go/pkg/sheetdb/models"
	"github.com/xuri/excelize/v2"
)

// ErrSheetMissing indicates the requested sheet is not in the workbook.
var ErrSheetMissing = errors.New("sheet missing")

const emptyHeader = "__EMPTY"

// HasSheet reports whether the workbook contains sheetName.
func HasSheet(f *excelize.File, sheetName string) (bool, error) {
	idx, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return false, err
	}
	return idx != -1, nil
}

// ReadRecords converts a sheet into rows.
// The first non-empty row is the header; each later row becomes a Row keyed by
// header in column order. Blank cells are left out and fully blank rows are
// skipped. String cells holding "" are kept as empty strings.
func ReadRecords(f *excelize.File, sheetName string) ([]models.Row, error) {
	ok, err := HasSheet(f, sheetName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSheetMissing, sheetName)
	}

	grid, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	minRow, maxRow, minCol, maxCol, err := dataBounds(f, sheetName, grid)
	if err != nil {
		return nil, err
	}
	if minRow < 0 {
		return nil, nil
	}

	headers := buildHeaders(grid[minRow], minCol, maxCol)

	var result []models.Row
	for rowIdx := minRow + 1; rowIdx <= maxRow; rowIdx++ {
		var row models.Row
		for colIdx := minCol; colIdx <= maxCol; colIdx++ {
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			cellType, err := f.GetCellType(sheetName, cellName)
			if err != nil {
				return nil, err
			}
			raw := cellAt(grid, rowIdx, colIdx)
			if raw == "" && !isStringType(cellType) {
				continue
			}
			row.Set(headers[colIdx-minCol], decodeCell(cellType, raw))
		}
		if row.Len() > 0 {
			result = append(result, row)
		}
	}

	return result, nil
}

// cellAt returns grid[rowIdx][colIdx], or "" outside the grid.
func cellAt(grid [][]string, rowIdx, colIdx int) string {
	if rowIdx >= len(grid) || colIdx >= len(grid[rowIdx]) {
		return ""
	}
	return grid[rowIdx][colIdx]
}

func isStringType(cellType excelize.CellType) bool {
	return cellType == excelize.CellTypeSharedString || cellType == excelize.CellTypeInlineString
}

// buildHeaders names every column in [minCol, maxCol].
// Blank headers become __EMPTY, __EMPTY_1, ...; duplicates get _1, _2 suffixes.
func buildHeaders(headerRow []string, minCol, maxCol int) []string {
	headers := make([]string, 0, maxCol-minCol+1)
	used := make(map[string]bool)
	for colIdx := minCol; colIdx <= maxCol; colIdx++ {
		base := ""
		if colIdx < len(headerRow) {
			base = headerRow[colIdx]
		}
		if base == "" {
			base = emptyHeader
		}
		name := base
		for n := 1; used[name]; n++ {
			name = base + "_" + strconv.Itoa(n)
		}
		used[name] = true
		headers = append(headers, name)
	}
	return headers
}

// decodeCell types a raw cell value by its stored cell type.
func decodeCell(cellType excelize.CellType, raw string) models.Value {
	switch cellType {
	case excelize.CellTypeBool:
		return models.Bool(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return models.String(raw)
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		return parseValue(raw)
	}
	return models.String(raw)
}

// parseValue attempts to parse a string value as a number.
// Returns a Number for integers and decimals, or a String otherwise.
func parseValue(s string) models.Value {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return models.Number(float64(i))
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return models.Number(f)
	}
	return models.String(s)
}

// WriteRecords writes rows into a sheet starting at A1.
// The header is the union of row keys in first-seen order. Null and absent
// values produce no cell. Zero rows write nothing.
func WriteRecords(f *excelize.File, sheetName string, rows []models.Row) error {
	if len(rows) == 0 {
		return nil
	}

	cols := models.Columns(rows)
	for colIdx, col := range cols {
		cellName, err := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheetName, cellName, col); err != nil {
			return err
		}
	}

	for rowIdx, row := range rows {
		for colIdx, col := range cols {
			v, ok := row.Get(col)
			if !ok || v.IsNull() {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := setCell(f, sheetName, cellName, v); err != nil {
				return fmt.Errorf("cell %s: %w", cellName, err)
			}
		}
	}

	return nil
}

func setCell(f *excelize.File, sheetName, cellName string, v models.Value) error {
	switch v.Kind() {
	case models.KindString:
		s, _ := v.Str()
		return f.SetCellStr(sheetName, cellName, s)
	case models.KindNumber:
		n, _ := v.Num()
		return f.SetCellFloat(sheetName, cellName, n, -1, 64)
	case models.KindBool:
		b, _ := v.Boolean()
		return f.SetCellBool(sheetName, cellName, b)
	}
	return nil
}

// ClearSheet empties a sheet by swapping in a fresh worksheet under the same
// name at the same position. Other sheets and the active tab are kept.
// Settings of the old worksheet (column widths, styles, merged cells) are
// not carried over.
func ClearSheet(f *excelize.File, sheetName string) error {
	idx, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return err
	}
	if idx == -1 {
		return fmt.Errorf("%w: %q", ErrSheetMissing, sheetName)
	}
	name := f.GetSheetName(idx)
	active := f.GetActiveSheetIndex()

	scratch, err := scratchSheetName(f)
	if err != nil {
		return err
	}
	if _, err := f.NewSheet(scratch); err != nil {
		return err
	}
	if err := f.MoveSheet(scratch, name); err != nil {
		return err
	}
	if err := f.DeleteSheet(name); err != nil {
		return err
	}
	if err := f.SetSheetName(scratch, name); err != nil {
		return err
	}
	f.SetActiveSheet(active)
	return nil
}

// scratchSheetName picks an unused sheet name for ClearSheet.
func scratchSheetName(f *excelize.File) (string, error) {
	for n := 0; ; n++ {
		name := "_sheetdb_" + strconv.Itoa(n)
		ok, err := HasSheet(f, name)
		if err != nil {
			return "", err
		}
		if !ok {
			return name, nil
		}
	}
}

// ReplaceRecords makes rows the whole content of sheetName, creating the
// sheet at the end of the workbook when it does not exist yet.
func ReplaceRecords(f *excelize.File, sheetName string, rows []models.Row) error {
	ok, err := HasSheet(f, sheetName)
	if err != nil {
		return err
	}
	if ok {
		if err := ClearSheet(f, sheetName); err != nil {
			return err
		}
	} else if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}
	return WriteRecords(f, sheetName, rows)
}
