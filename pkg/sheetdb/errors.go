package sheetdb

import (
	"errors"
	"fmt"
)

// ErrSheetNotFound indicates the sheet does not exist in the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrSheetAlreadyExists indicates a sheet with that name is already present.
var ErrSheetAlreadyExists = errors.New("sheet already exists")

// ErrLastSheet indicates an attempt to remove the only sheet of a workbook.
var ErrLastSheet = errors.New("cannot remove the last sheet")

// ErrFileExists indicates Create was pointed at an existing file.
var ErrFileExists = errors.New("file already exists")

// OpError records a failed store operation.
type OpError struct {
	Op    string // "open", "reload", "save", "add_sheet", "remove_sheet", "add_column", ...
	Path  string
	Sheet string
	Err   error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("sheetdb %s %s (sheet %q): %v", e.Op, e.Path, e.Sheet, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// newOpError creates a new OpError.
func newOpError(op, path, sheet string, err error) *OpError {
	return &OpError{
		Op:    op,
		Path:  path,
		Sheet: sheet,
		Err:   err,
	}
}
