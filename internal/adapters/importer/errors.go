package importer

import "errors"

// Sentinel errors for spreadsheet imports.
var (
	ErrUnreadable = errors.New("unreadable workbook")
	ErrNoSheet    = errors.New("sheet not found")
)
