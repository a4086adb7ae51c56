package sheetdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sheetdb-go/pkg/sheetdb/models"
	"github.com/ukaji3/sheetdb-go/pkg/sheetdb/parser"
	"github.com/xuri/excelize/v2"
)

var (
	john = models.NewRow(models.F("name", "John"), models.F("age", 20))
	jane = models.NewRow(models.F("name", "Jane"), models.F("age", 25))
)

// newStore creates a workbook holding rows in Sheet1 and opens it.
func newStore(t *testing.T, rows ...models.Row) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.xlsx")

	f := excelize.NewFile()
	require.NoError(t, parser.WriteRecords(f, DefaultSheetName, rows))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	s, err := Open(path, DefaultOptions())
	require.NoError(t, err)
	return s
}

// diskRows reads a sheet straight from the file.
func diskRows(t *testing.T, path, sheetName string) []models.Row {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := parser.ReadRecords(f, sheetName)
	require.NoError(t, err)
	return rows
}

func assertRows(t *testing.T, expected, actual []models.Row) {
	t.Helper()
	require.Len(t, actual, len(expected), "rows: %v", actual)
	for i := range expected {
		assert.True(t, expected[i].Equal(actual[i]), "row %d: expected %v, got %v", i, expected[i], actual[i])
	}
}

func TestOpenLoadsRows(t *testing.T) {
	s := newStore(t, john, jane)

	assert.Equal(t, DefaultSheetName, s.SheetName())
	assertRows(t, []models.Row{john, jane}, s.Rows())
}

func TestOpenMissingSheet(t *testing.T) {
	s := newStore(t, john)

	lenient, err := Open(s.Path(), Options{SheetName: "Nope"})
	require.NoError(t, err)
	assert.Equal(t, 0, lenient.Len())

	strict := true
	_, err = Open(s.Path(), Options{SheetName: "Nope", Strict: &strict})
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.xlsx"), DefaultOptions())
	require.Error(t, err)

	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "open", opErr.Op)
}

func TestCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.xlsx")

	s, err := Create(path, Options{SheetName: "People"})
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	names, err := s.GetAllSheetNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"People"}, names)

	_, err = Create(path, DefaultOptions())
	assert.ErrorIs(t, err, ErrFileExists)
}

func TestSelect(t *testing.T) {
	s := newStore(t, john, jane)

	rows, ok := s.Select(models.NewRow(models.F("name", "Jane")))
	require.True(t, ok)
	assertRows(t, []models.Row{jane}, rows)

	rows, ok = s.Select(models.Row{})
	require.True(t, ok)
	assertRows(t, []models.Row{john, jane}, rows)

	rows, ok = s.Select(models.NewRow(models.F("age", "20")))
	assert.False(t, ok, "string must not match number")
	assert.Nil(t, rows)
}

func TestSelectEmptyTable(t *testing.T) {
	s := newStore(t)

	rows, ok := s.Select(models.Row{})
	assert.False(t, ok)
	assert.Nil(t, rows)
}

func TestSelectReturnsCopies(t *testing.T) {
	s := newStore(t, john)

	rows, _ := s.Select(models.Row{})
	rows[0].Set("name", models.String("Changed"))

	_, ok := s.Select(models.NewRow(models.F("name", "John")))
	assert.True(t, ok)
}

func TestGetColumnValue(t *testing.T) {
	s := newStore(t,
		john,
		jane,
		models.NewRow(models.F("name", "Jane"), models.F("age", 99)),
	)

	v, ok := s.GetColumnValue("name", models.String("Jane"), "age")
	require.True(t, ok)
	assert.Equal(t, models.Int(25), v, "first match wins")

	v, ok = s.GetColumnValue("name", models.String("John"), "city")
	assert.True(t, ok)
	assert.True(t, v.IsNull())

	_, ok = s.GetColumnValue("name", models.String("Nobody"), "age")
	assert.False(t, ok)
}

func TestInsert(t *testing.T) {
	s := newStore(t, john)
	newRow := models.NewRow(models.F("name", "Jane Doe"), models.F("age", 30), models.F("city", "New York"))

	require.NoError(t, s.Insert(newRow))

	rows, ok := s.Select(newRow)
	require.True(t, ok)
	assertRows(t, []models.Row{newRow}, rows)
	assertRows(t, []models.Row{john, newRow}, diskRows(t, s.Path(), s.SheetName()))
}

func TestInsertEmptyStrings(t *testing.T) {
	s := newStore(t, john)
	blank := models.NewRow(models.F("name", ""))
	ann := models.NewRow(models.F("name", "Ann"), models.F("note", ""))

	require.NoError(t, s.Insert(blank))
	require.NoError(t, s.Insert(ann))
	require.NoError(t, s.Insert(jane))

	expected := []models.Row{john, blank, ann, jane}
	assertRows(t, expected, s.Rows())
	assertRows(t, expected, diskRows(t, s.Path(), s.SheetName()))

	require.NoError(t, s.Reload())
	assert.Equal(t, 4, s.Len())
	rows, ok := s.Select(blank)
	require.True(t, ok)
	assertRows(t, []models.Row{blank}, rows)
}

func TestUpdateIsIdempotent(t *testing.T) {
	s := newStore(t, john, jane)
	query := models.NewRow(models.F("name", "Jane"))
	data := models.NewRow(models.F("age", 26))

	require.NoError(t, s.Update(query, data))
	once := s.Rows()
	require.NoError(t, s.Update(query, data))

	assertRows(t, once, s.Rows())
	expected := models.NewRow(models.F("name", "Jane"), models.F("age", 26))
	assertRows(t, []models.Row{john, expected}, diskRows(t, s.Path(), s.SheetName()))
}

func TestUpdateEmptyQueryUpdatesAll(t *testing.T) {
	s := newStore(t, john, jane)

	require.NoError(t, s.Update(models.Row{}, models.NewRow(models.F("active", true))))

	assert.Equal(t, 2, s.GetColumnDatasNumber("active"))
}

func TestDelete(t *testing.T) {
	s := newStore(t, john, jane)
	query := models.NewRow(models.F("name", "John"))

	require.NoError(t, s.Delete(query))

	_, ok := s.Select(query)
	assert.False(t, ok)
	assertRows(t, []models.Row{jane}, diskRows(t, s.Path(), s.SheetName()))

	require.NoError(t, s.Delete(models.Row{}))
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, diskRows(t, s.Path(), s.SheetName()))
}

func TestScenario(t *testing.T) {
	s := newStore(t, john, jane)

	rows, ok := s.Select(models.NewRow(models.F("name", "Jane")))
	require.True(t, ok)
	assertRows(t, []models.Row{jane}, rows)

	require.NoError(t, s.Update(models.NewRow(models.F("name", "Jane")), models.NewRow(models.F("age", 26))))
	require.NoError(t, s.Delete(models.NewRow(models.F("name", "John"))))
	assertRows(t, []models.Row{models.NewRow(models.F("name", "Jane"), models.F("age", 26))}, s.Rows())

	require.NoError(t, s.AddSheet("Sheet2", models.NewRow(models.F("name", "Alice"), models.F("age", 25))))
	names, err := s.GetAllSheetNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1", "Sheet2"}, names)

	reopened, err := Open(s.Path(), DefaultOptions())
	require.NoError(t, err)
	assertRows(t, s.Rows(), reopened.Rows())
}

func TestAddSheet(t *testing.T) {
	s := newStore(t, john)
	initial := []models.Row{
		models.NewRow(models.F("name", "Alice"), models.F("age", 25)),
		models.NewRow(models.F("name", "Bob"), models.F("age", 30)),
	}

	require.NoError(t, s.AddSheet("Sheet2", initial...))
	assertRows(t, initial, diskRows(t, s.Path(), "Sheet2"))
	assertRows(t, []models.Row{john}, s.Rows())

	err := s.AddSheet("Sheet2")
	assert.ErrorIs(t, err, ErrSheetAlreadyExists)
	assertRows(t, initial, diskRows(t, s.Path(), "Sheet2"))
}

func TestOtherSheetsSurviveSaves(t *testing.T) {
	s := newStore(t, john)
	other := []models.Row{models.NewRow(models.F("sku", "A-1"), models.F("qty", 3))}
	require.NoError(t, s.AddSheet("Stock", other...))

	require.NoError(t, s.Insert(jane))
	require.NoError(t, s.RemoveColumn("age"))

	assertRows(t, other, diskRows(t, s.Path(), "Stock"))
}

func TestRemoveSheet(t *testing.T) {
	s := newStore(t, john)
	require.NoError(t, s.AddSheet("Sheet2"))

	require.NoError(t, s.RemoveSheet("Sheet2"))
	ok, err := s.IsSheetExists("Sheet2")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, s.RemoveSheet("Sheet2"), ErrSheetNotFound)
	assert.ErrorIs(t, s.RemoveSheet("Sheet1"), ErrLastSheet)
}

func TestIsSheetExists(t *testing.T) {
	s := newStore(t)

	ok, err := s.IsSheetExists("NoSuchSheet")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.IsSheetExists("Sheet1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGetColumnDatasNumber(t *testing.T) {
	s := &Store{rows: []models.Row{
		models.NewRow(models.F("age", 1)),
		models.NewRow(models.F("age", nil)),
		models.NewRow(models.F("age", "")),
		{},
	}}

	assert.Equal(t, 1, s.GetColumnDatasNumber("age"))
	assert.Equal(t, 0, s.GetColumnDatasNumber("missing"))
}

func TestAddColumn(t *testing.T) {
	withCity := models.NewRow(models.F("city", "Oslo"), models.F("name", "Jane"))
	s := newStore(t, john, withCity)

	require.NoError(t, s.AddColumn("city", models.String("Unknown")))

	// The cache is stale until Reload.
	assert.False(t, s.Rows()[0].Has("city"))
	require.NoError(t, s.Reload())

	v, ok := s.GetColumnValue("name", models.String("John"), "city")
	require.True(t, ok)
	assert.Equal(t, models.String("Unknown"), v)

	v, ok = s.GetColumnValue("name", models.String("Jane"), "city")
	require.True(t, ok)
	assert.Equal(t, models.String("Oslo"), v)

	for _, row := range s.Rows() {
		keys := row.Keys()
		assert.Equal(t, "city", keys[len(keys)-1])
	}
}

func TestAddColumnEmptySheet(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.AddColumn("status", models.String("new")))
	require.NoError(t, s.Reload())

	assertRows(t, []models.Row{models.NewRow(models.F("status", "new"))}, s.Rows())
}

func TestAddColumnMissingSheet(t *testing.T) {
	s := newStore(t, john)
	lost, err := Open(s.Path(), Options{SheetName: "Gone"})
	require.NoError(t, err)

	assert.ErrorIs(t, lost.AddColumn("x", models.Null()), ErrSheetNotFound)
}

func TestRemoveColumn(t *testing.T) {
	s := newStore(t, john, models.NewRow(models.F("name", "Jane")))

	require.NoError(t, s.RemoveColumn("age"))
	for _, row := range s.Rows() {
		assert.False(t, row.Has("age"))
	}
	for _, row := range diskRows(t, s.Path(), s.SheetName()) {
		assert.False(t, row.Has("age"))
	}

	require.NoError(t, s.RemoveColumn("missing"))
	require.NoError(t, s.AddColumn("age", models.Int(0)))
}

func TestWithColumnOrdering(t *testing.T) {
	rows := []models.Row{
		models.NewRow(models.F("b", 1), models.F("c", 2)),
		models.NewRow(models.F("c", 3), models.F("a", 4)),
	}

	out := withColumn(rows, "c", models.Null())

	assert.Equal(t, []string{"b", "c"}, out[0].Keys())
	assert.Equal(t, []string{"a", "c"}, out[1].Keys())
	assert.Equal(t, models.Int(3), out[1].Value("c"))
}
