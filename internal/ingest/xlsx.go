package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mtlprog/bidsum/internal/domain"
)

// XLSXLoader reads auctions from an .xlsx workbook on disk.
type XLSXLoader struct {
	path  string
	sheet string
}

// NewXLSXLoader creates a loader for path. An empty sheet means the first sheet.
func NewXLSXLoader(path, sheet string) *XLSXLoader {
	return &XLSXLoader{path: path, sheet: sheet}
}

// Load opens the workbook and parses its rows. The file is re-read on every call.
func (l *XLSXLoader) Load(_ context.Context) ([]*domain.Auction, error) {
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", l.path, err)
	}
	defer f.Close()

	return readWorkbook(f, l.sheet)
}

// ReadXLSX parses auctions from a workbook stream.
func ReadXLSX(r io.Reader, sheet string) ([]*domain.Auction, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	return readWorkbook(f, sheet)
}

func readWorkbook(f *excelize.File, sheet string) ([]*domain.Auction, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return parseRows(rows)
}
