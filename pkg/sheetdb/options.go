// Package sheetdb treats one sheet of an xlsx workbook as a row-oriented table.
package sheetdb

import (
	"io"
	"log/slog"
)

// DefaultSheetName is used when Options.SheetName is empty.
const DefaultSheetName = "Sheet1"

// Options configures a Store.
type Options struct {
	// SheetName is the sheet the store reads and writes. Defaults to "Sheet1".
	SheetName string
	// Strict makes Open and Reload fail with ErrSheetNotFound when the sheet
	// is missing. If nil, defaults to false: a missing sheet loads as empty.
	Strict *bool
	// Logger receives debug and info records. If nil, logging is discarded.
	Logger *slog.Logger
}

// DefaultOptions returns default store options.
func DefaultOptions() Options {
	return Options{
		SheetName: DefaultSheetName,
	}
}

// Sheet returns the configured sheet name or the default.
func (o Options) Sheet() string {
	if o.SheetName == "" {
		return DefaultSheetName
	}
	return o.SheetName
}

// ShouldBeStrict returns whether a missing sheet is an error on load.
func (o Options) ShouldBeStrict() bool {
	if o.Strict != nil {
		return *o.Strict
	}
	return false
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
