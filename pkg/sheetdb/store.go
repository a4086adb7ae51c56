package sheetdb

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/ukaji3/sheetdb-go/pkg/sheetdb/models"
	"github.com/ukaji3/sheetdb-go/pkg/sheetdb/parser"
	"github.com/xuri/excelize/v2"
)

// Store is a table view over one sheet of a workbook file.
//
// Reads are served from an in-memory copy of the sheet's rows. Every
// mutation re-reads the whole workbook, replaces the sheet with the cached
// rows and writes the whole workbook back. A Store is not safe for
// concurrent use, and nothing guards against other writers of the same
// file: the last writer wins.
type Store struct {
	path      string
	sheetName string
	opts      Options
	logger    *slog.Logger
	rows      []models.Row
}

// Open loads the configured sheet of the workbook at path.
//
// A missing sheet loads as an empty table unless opts.Strict is set, in
// which case Open returns an error wrapping ErrSheetNotFound.
func Open(path string, opts Options) (*Store, error) {
	s := &Store{
		path:      path,
		sheetName: opts.Sheet(),
		opts:      opts,
		logger:    opts.logger(),
	}
	if err := s.load("open"); err != nil {
		return nil, err
	}
	return s, nil
}

// Create writes a new workbook at path holding one empty sheet named after
// opts.SheetName and opens it. It fails with ErrFileExists if path exists.
func Create(path string, opts Options) (*Store, error) {
	sheetName := opts.Sheet()
	if _, err := os.Stat(path); err == nil {
		return nil, newOpError("create", path, sheetName, ErrFileExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, newOpError("create", path, sheetName, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheetName != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, sheetName); err != nil {
			return nil, newOpError("create", path, sheetName, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return nil, newOpError("create", path, sheetName, err)
	}
	opts.logger().Info("workbook created", "path", path, "sheet", sheetName)

	return Open(path, opts)
}

// Reload replaces the cached rows with the sheet's current content on disk.
func (s *Store) Reload() error {
	return s.load("reload")
}

func (s *Store) load(op string) error {
	var rows []models.Row
	err := readWorkbook(s.path, func(f *excelize.File) error {
		var err error
		rows, err = parser.ReadRecords(f, s.sheetName)
		if errors.Is(err, parser.ErrSheetMissing) {
			if s.opts.ShouldBeStrict() {
				return ErrSheetNotFound
			}
			s.logger.Debug("sheet missing, loading empty table", "path", s.path, "sheet", s.sheetName)
			rows = nil
			return nil
		}
		return err
	})
	if err != nil {
		return newOpError(op, s.path, s.sheetName, err)
	}

	s.rows = rows
	s.logger.Debug("sheet loaded", "path", s.path, "sheet", s.sheetName, "rows", len(rows))
	return nil
}

// persist writes rows as the store's sheet and, on success, makes them the cache.
func (s *Store) persist(op string, rows []models.Row) error {
	err := modifyWorkbook(s.path, func(f *excelize.File) error {
		return parser.ReplaceRecords(f, s.sheetName, rows)
	})
	if err != nil {
		return newOpError(op, s.path, s.sheetName, err)
	}

	s.rows = rows
	s.logger.Debug("sheet saved", "op", op, "path", s.path, "sheet", s.sheetName, "rows", len(rows))
	return nil
}

// Path returns the workbook file path.
func (s *Store) Path() string { return s.path }

// SheetName returns the sheet this store tracks.
func (s *Store) SheetName() string { return s.sheetName }

// Len returns the number of cached rows.
func (s *Store) Len() int { return len(s.rows) }

// Rows returns a copy of every cached row.
func (s *Store) Rows() []models.Row { return models.CloneRows(s.rows) }

// Select returns copies of the rows matching query, in stored order.
// The second result is false when nothing matches. An empty query matches
// every row.
func (s *Store) Select(query models.Row) ([]models.Row, bool) {
	var result []models.Row
	for _, row := range s.rows {
		if row.Matches(query) {
			result = append(result, row.Clone())
		}
	}
	if len(result) == 0 {
		return nil, false
	}
	return result, true
}

// GetColumnValue returns targetColumn of the first row whose searchColumn
// strictly equals searchValue. Later matches are ignored.
//
// The second result is false when no row matches. A matching row that lacks
// targetColumn yields Null and true.
func (s *Store) GetColumnValue(searchColumn string, searchValue models.Value, targetColumn string) (models.Value, bool) {
	for _, row := range s.rows {
		if v, ok := row.Get(searchColumn); ok && v == searchValue {
			return row.Value(targetColumn), true
		}
	}
	return models.Null(), false
}

// Insert appends newRow as is and saves. Column sets are not checked
// against existing rows.
func (s *Store) Insert(newRow models.Row) error {
	rows := make([]models.Row, 0, len(s.rows)+1)
	rows = append(rows, s.rows...)
	rows = append(rows, newRow.Clone())
	return s.persist("insert", rows)
}

// Update merges updateData into every row matching query and saves.
// Keys in updateData override, new keys are appended. An empty query
// updates every row.
func (s *Store) Update(query, updateData models.Row) error {
	rows := make([]models.Row, len(s.rows))
	for i, row := range s.rows {
		if row.Matches(query) {
			rows[i] = row.Merge(updateData)
		} else {
			rows[i] = row
		}
	}
	return s.persist("update", rows)
}

// Delete removes every row matching query and saves. An empty query
// deletes every row.
func (s *Store) Delete(query models.Row) error {
	rows := make([]models.Row, 0, len(s.rows))
	for _, row := range s.rows {
		if !row.Matches(query) {
			rows = append(rows, row)
		}
	}
	return s.persist("delete", rows)
}

// AddSheet appends a new sheet holding initialData to the workbook.
// It fails with ErrSheetAlreadyExists, and writes nothing, when the name is
// taken. Sheet names compare case-insensitively. The cached rows are not
// touched.
func (s *Store) AddSheet(sheetName string, initialData ...models.Row) error {
	err := modifyWorkbook(s.path, func(f *excelize.File) error {
		ok, err := parser.HasSheet(f, sheetName)
		if err != nil {
			return err
		}
		if ok {
			return ErrSheetAlreadyExists
		}
		if _, err := f.NewSheet(sheetName); err != nil {
			return err
		}
		return parser.WriteRecords(f, sheetName, initialData)
	})
	if err != nil {
		return newOpError("add_sheet", s.path, sheetName, err)
	}

	s.logger.Info("sheet added", "path", s.path, "sheet", sheetName, "rows", len(initialData))
	return nil
}

// RemoveSheet deletes a sheet from the workbook.
// It fails with ErrSheetNotFound when absent and ErrLastSheet when it is
// the only sheet. Removing the store's own sheet leaves the cache as is;
// the next save recreates the sheet.
func (s *Store) RemoveSheet(sheetName string) error {
	err := modifyWorkbook(s.path, func(f *excelize.File) error {
		ok, err := parser.HasSheet(f, sheetName)
		if err != nil {
			return err
		}
		if !ok {
			return ErrSheetNotFound
		}
		if len(f.GetSheetList()) == 1 {
			return ErrLastSheet
		}
		return f.DeleteSheet(sheetName)
	})
	if err != nil {
		return newOpError("remove_sheet", s.path, sheetName, err)
	}

	s.logger.Info("sheet removed", "path", s.path, "sheet", sheetName)
	return nil
}

// IsSheetExists reports whether the workbook on disk has a sheet named
// sheetName, compared case-insensitively. The file is read on every call.
func (s *Store) IsSheetExists(sheetName string) (bool, error) {
	names, err := s.GetAllSheetNames()
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if strings.EqualFold(name, sheetName) {
			return true, nil
		}
	}
	return false, nil
}

// GetAllSheetNames returns the sheet names of the workbook on disk, in
// workbook order. The file is read on every call.
func (s *Store) GetAllSheetNames() ([]string, error) {
	var names []string
	err := readWorkbook(s.path, func(f *excelize.File) error {
		names = f.GetSheetList()
		return nil
	})
	if err != nil {
		return nil, newOpError("sheet_names", s.path, "", err)
	}
	return names, nil
}

// GetColumnDatasNumber counts cached rows where columnName is present, not
// Null and not the empty string.
func (s *Store) GetColumnDatasNumber(columnName string) int {
	count := 0
	for _, row := range s.rows {
		if v, ok := row.Get(columnName); ok && !v.IsBlank() {
			count++
		}
	}
	return count
}

// AddColumn adds columnName to every row of the sheet on disk that lacks it,
// set to defaultValue, and moves the column to the end. Rows that already
// hold the column keep their value. An empty sheet gets a single row holding
// only the new column.
//
// AddColumn works on the rows read from disk and does not update the cache;
// call Reload to see the column through Select.
func (s *Store) AddColumn(columnName string, defaultValue models.Value) error {
	err := modifyWorkbook(s.path, func(f *excelize.File) error {
		rows, err := parser.ReadRecords(f, s.sheetName)
		if errors.Is(err, parser.ErrSheetMissing) {
			return ErrSheetNotFound
		}
		if err != nil {
			return err
		}
		if err := parser.ClearSheet(f, s.sheetName); err != nil {
			return err
		}
		return parser.WriteRecords(f, s.sheetName, withColumn(rows, columnName, defaultValue))
	})
	if err != nil {
		return newOpError("add_column", s.path, s.sheetName, err)
	}

	s.logger.Info("column added", "path", s.path, "sheet", s.sheetName, "column", columnName)
	return nil
}

// withColumn returns rows with columnName filled in and ordered last.
func withColumn(rows []models.Row, columnName string, defaultValue models.Value) []models.Row {
	if len(rows) == 0 {
		return []models.Row{models.NewRow(models.Field{Name: columnName, Value: defaultValue})}
	}

	var cols []string
	for _, col := range models.Columns(rows) {
		if col != columnName {
			cols = append(cols, col)
		}
	}

	out := make([]models.Row, len(rows))
	for i, row := range rows {
		var next models.Row
		for _, col := range cols {
			if v, ok := row.Get(col); ok {
				next.Set(col, v)
			}
		}
		if v, ok := row.Get(columnName); ok {
			next.Set(columnName, v)
		} else {
			next.Set(columnName, defaultValue)
		}
		out[i] = next
	}
	return out
}

// RemoveColumn drops columnName from every cached row and saves. Rows
// without the column are left unchanged.
func (s *Store) RemoveColumn(columnName string) error {
	rows := make([]models.Row, len(s.rows))
	for i, row := range s.rows {
		rows[i] = row.Without(columnName)
	}
	if err := s.persist("remove_column", rows); err != nil {
		return err
	}

	s.logger.Info("column removed", "path", s.path, "sheet", s.sheetName, "column", columnName)
	return nil
}

func (s *Store) String() string {
	return fmt.Sprintf("sheetdb.Store(%s, %s, %d rows)", s.path, s.sheetName, len(s.rows))
}
