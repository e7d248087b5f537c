package framesql

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// FromXLSX loads one worksheet of an Excel workbook into a frame. An empty
// sheet name selects the first sheet. The first non-empty row is the header;
// kinds are inferred from the cell values like the delimited loaders.
func FromXLSX(r io.Reader, sheet string) (*Frame, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("framesql: open xlsx: %w", err)
	}
	defer func() {
		_ = workbook.Close()
	}()

	if sheet == "" {
		sheets := workbook.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", ErrEmptyData)
		}
		sheet = sheets[0]
	}

	iter, err := workbook.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("framesql: open sheet %s: %w", sheet, err)
	}
	defer iter.Close()

	var (
		header  []string
		records [][]string
	)
	for iter.Next() {
		row, err := iter.Columns()
		if err != nil {
			return nil, fmt.Errorf("framesql: read sheet %s: %w", sheet, err)
		}
		if header == nil {
			// Skip leading empty rows before the header.
			if len(row) == 0 {
				continue
			}
			header = row
			continue
		}
		records = append(records, row)
	}

	if len(header) == 0 {
		return nil, fmt.Errorf("%w: sheet %s is empty", ErrEmptyData, sheet)
	}
	return frameFromRecords(header, records)
}
