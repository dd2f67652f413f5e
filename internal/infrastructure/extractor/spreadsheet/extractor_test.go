package spreadsheet

import (
	"context"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
)

func workbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Balance Sheet"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("SetSheetName() error = %v", err)
	}
	rows := [][]any{
		{"Acme Bakery LLC", nil},
		{"Balance Sheet as of 06/30/2026", nil},
		{"Total Assets", "$250,000.00"},
		{nil, nil},
		{"Total Liabilities", "$120,000.00"},
	}
	for i, row := range rows {
		for j, value := range row {
			if value == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("SetCellValue() error = %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() error = %v", err)
	}
	return buf.Bytes()
}

func TestExtractFlattensRows(t *testing.T) {
	text, err := NewExtractor(0).Extract(context.Background(), domain.UploadedFile{
		Filename: "balance_sheet.xlsx",
		Content:  workbook(t),
	})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := strings.Join([]string{
		"Balance Sheet",
		"Acme Bakery LLC",
		"Balance Sheet as of 06/30/2026",
		"Total Assets  $250,000.00",
		"Total Liabilities  $120,000.00",
	}, "\n")
	if text != want {
		t.Fatalf("unexpected text:\n%s\nwant:\n%s", text, want)
	}
}

func TestExtractRejectsNonWorkbook(t *testing.T) {
	_, err := NewExtractor(0).Extract(context.Background(), domain.UploadedFile{
		Filename: "notes.xlsx",
		Content:  []byte("plain text"),
	})
	if !domain.IsKind(err, domain.ErrExtractionFailed) {
		t.Fatalf("expected extraction error, got %v", err)
	}
}
