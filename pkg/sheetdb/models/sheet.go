package models

// SheetData is a snapshot of one sheet as rows.
type SheetData struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Range is the used cell range (e.g. "A1:C4"), empty for a blank sheet.
	Range string `json:"range,omitempty"`
	// Rows contains the records below the header row.
	Rows []Row `json:"rows"`
}
