package models

// WorkbookData is an ordered snapshot of every sheet in a workbook.
type WorkbookData struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// Sheets lists the sheets in workbook order.
	Sheets []SheetData `json:"sheets"`
}
