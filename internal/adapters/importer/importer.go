// Package importer reads vocabulary entries from spreadsheets.
package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/okian/wordboard/internal/domain/model"
	"github.com/xuri/excelize/v2"
)

// Column order of a vocabulary sheet.
const (
	colWord = iota
	colWordType
	colMeaning
	colExample
)

// Option configures ReadVocabulary.
type Option func(*options)

type options struct {
	sheet      string
	skipHeader bool
}

// WithSheet reads the named sheet instead of the first one.
func WithSheet(name string) Option {
	return func(o *options) { o.sheet = name }
}

// WithHeader controls whether the first row is a header. Default true.
func WithHeader(has bool) Option {
	return func(o *options) { o.skipHeader = has }
}

// ReadVocabulary parses an xlsx workbook whose columns A to D hold word,
// word type, meaning and example. Rows with a blank word come back as nil
// so callers can still count them as received.
func ReadVocabulary(r io.Reader, opts ...Option) ([]*model.VocabInput, error) {
	o := options{skipHeader: true}
	for _, opt := range opts {
		opt(&o)
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer func() { _ = f.Close() }()

	sheet := o.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoSheet, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if o.skipHeader && len(rows) > 0 {
		rows = rows[1:]
	}

	out := make([]*model.VocabInput, 0, len(rows))
	for _, row := range rows {
		word := cell(row, colWord)
		if word == "" {
			out = append(out, nil)
			continue
		}
		out = append(out, &model.VocabInput{
			Word:     word,
			WordType: optional(cell(row, colWordType)),
			Meaning:  optional(cell(row, colMeaning)),
			Example:  optional(cell(row, colExample)),
		})
	}
	return out, nil
}

// cell returns the trimmed value at col; GetRows drops trailing empty cells.
func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
