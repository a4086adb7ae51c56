// Package output renders store results as JSON.
package output

import (
	"encoding/json"

	"github.com/ukaji3/sheetdb-go/pkg/sheetdb/models"
)

// ToJSON serializes v, indenting when pretty is set.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// RowsToJSON serializes a select result. A miss renders as null, which is
// distinct from an empty array.
func RowsToJSON(rows []models.Row, found bool, pretty bool) ([]byte, error) {
	if !found {
		return []byte("null"), nil
	}
	if rows == nil {
		rows = []models.Row{}
	}
	return ToJSON(rows, pretty)
}

// LookupToJSON serializes a column lookup. A miss renders as null.
func LookupToJSON(v models.Value, found bool) ([]byte, error) {
	if !found {
		return []byte("null"), nil
	}
	return v.MarshalJSON()
}

// ExistsToJSON renders a sheet existence check with the 1/null sentinels.
func ExistsToJSON(exists bool) []byte {
	if exists {
		return []byte("1")
	}
	return []byte("null")
}

// WorkbookToJSON serializes a workbook snapshot.
func WorkbookToJSON(wb *models.WorkbookData, pretty bool) ([]byte, error) {
	return ToJSON(wb, pretty)
}
