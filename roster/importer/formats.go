package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/javajack/docfill/roster"
)

// Format is a supported roster file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrUnknownFormat is returned by DetectFormat for unsupported input.
var ErrUnknownFormat = errors.New("unsupported roster format")

// zip local file header; every xlsx workbook starts with it
var zipMagic = []byte("PK\x03\x04")

// DetectFormat picks the format from a file name, a content type, or the
// leading bytes of the content, in that order.
func DetectFormat(name, contentType string, head []byte) (Format, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return FormatXLSX, nil
	case strings.HasSuffix(lower, ".csv"):
		return FormatCSV, nil
	}
	switch {
	case strings.Contains(contentType, "spreadsheetml"):
		return FormatXLSX, nil
	case strings.HasPrefix(contentType, "text/csv"), strings.HasPrefix(contentType, "text/plain"):
		return FormatCSV, nil
	}
	if bytes.HasPrefix(head, zipMagic) {
		return FormatXLSX, nil
	}
	if len(head) > 0 && bytes.IndexByte(head, ',') >= 0 {
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Read decodes r in the given format.
func Read(format Format, r io.Reader) ([]Row, []RowError, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatXLSX:
		return ReadXLSX(r)
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ReadCSV decodes a comma-separated roster whose first non-blank line is the header.
func ReadCSV(r io.Reader) ([]Row, []RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var records [][]string
	var lines []int
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return decodeRecords(records, lines)
}

// ReadXLSX decodes the first sheet of a workbook.
func ReadXLSX(r io.Reader) ([]Row, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrNoHeader
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	lines := make([]int, len(records))
	for i := range lines {
		lines[i] = i + 1
	}
	return decodeRecords(records, lines)
}

// SheetName is the worksheet WriteXLSX produces.
const SheetName = "Roster"

// WriteXLSX writes members to w as a single-sheet workbook with a bold header row.
func WriteXLSX(w io.Writer, members []roster.Member) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	header := make([]any, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(exportHeader), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, m := range members {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		// codes stay text so leading zeros survive
		row := []any{m.Rank, m.FirstName, m.LastName, m.MI, m.EDIPI, m.DOR, m.PMOS, m.BilMOS}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(SheetName, "A", "H", 14); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
