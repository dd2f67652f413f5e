// Package spreadsheet flattens .xlsx workbooks, typically balance sheets and
// profit and loss statements, into text.
package spreadsheet

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
)

type Extractor struct {
	maxRows int
}

// NewExtractor caps the rows read per sheet; maxRows <= 0 means 5000.
func NewExtractor(maxRows int) *Extractor {
	if maxRows <= 0 {
		maxRows = 5000
	}
	return &Extractor{maxRows: maxRows}
}

// Extract writes one line per non-empty row, cells separated by two spaces,
// with each sheet introduced by its name.
func (e *Extractor) Extract(ctx context.Context, file domain.UploadedFile) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(file.Content))
	if err != nil {
		return "", domain.NewExtractionError(file.Filename, fmt.Errorf("open workbook: %w", err))
	}
	defer f.Close()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return "", domain.NewExtractionError(file.Filename, err)
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", domain.NewExtractionError(file.Filename, fmt.Errorf("read sheet %q: %w", sheet, err))
		}
		if len(rows) > e.maxRows {
			rows = rows[:e.maxRows]
		}

		b.WriteString(sheet)
		b.WriteString("\n")
		for _, row := range rows {
			cells := make([]string, 0, len(row))
			for _, cell := range row {
				if cell = strings.TrimSpace(cell); cell != "" {
					cells = append(cells, cell)
				}
			}
			if len(cells) == 0 {
				continue
			}
			b.WriteString(strings.Join(cells, "  "))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()), nil
}
