package exporter

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"claimsheet/internal/table"
)

// ContentType is the MIME type of the produced workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Extension is appended to download names.
const Extension = ".xlsx"

// DefaultBaseName is used when the caller supplies no file name.
const DefaultBaseName = "Transformed_Claim_Data"

// ErrNoSheets is returned when a workbook would be empty.
var ErrNoSheets = errors.New("workbook needs at least one sheet")

// Block places a table on a sheet. The header is written at StartRow (zero
// based) and the rows directly below it.
type Block struct {
	Table    *table.Table
	StartRow int
}

// Sheet is a named worksheet.
type Sheet struct {
	Name   string
	Blocks []Block
}

// Artifact is an in-memory workbook ready for download.
type Artifact struct {
	Name string
	Data []byte
}

// FileName builds the download name from user input. Blank input falls back to
// fallback, then to DefaultBaseName. A typed ".xlsx" suffix is not doubled.
func FileName(base, fallback string) string {
	name := strings.TrimSpace(base)
	if name == "" {
		name = strings.TrimSpace(fallback)
	}
	if name == "" {
		name = DefaultBaseName
	}
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`/\:*?"<>|`, r) || r < 0x20 {
			return '_'
		}
		return r
	}, name)
	if strings.HasSuffix(strings.ToLower(name), Extension) {
		return name
	}
	return name + Extension
}

// Export writes sheets into a workbook named after base.
func Export(base string, sheets []Sheet) (*Artifact, error) {
	buf, err := Write(sheets)
	if err != nil {
		return nil, err
	}
	return &Artifact{Name: FileName(base, ""), Data: buf.Bytes()}, nil
}

// Write renders sheets into an xlsx buffer, in order.
func Write(sheets []Sheet) (*bytes.Buffer, error) {
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return nil, fmt.Errorf("failed to name sheet %q: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %q: %w", sheet.Name, err)
		}

		for _, block := range sheet.Blocks {
			if err := writeBlock(f, sheet.Name, block); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	slog.Debug("Workbook written",
		slog.Int("sheets", len(sheets)),
		slog.Int("bytes", buf.Len()))
	return buf, nil
}

func writeBlock(f *excelize.File, sheet string, block Block) error {
	if block.Table == nil {
		return nil
	}
	if block.StartRow < 0 {
		return fmt.Errorf("sheet %q: negative start row %d", sheet, block.StartRow)
	}

	header := make([]any, len(block.Table.Columns))
	for i, c := range block.Table.Columns {
		header[i] = c
	}
	if err := setRow(f, sheet, block.StartRow, header); err != nil {
		return err
	}
	for i, row := range block.Table.Rows {
		if err := setRow(f, sheet, block.StartRow+1+i, rowValues(row)); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row+1)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}
	return nil
}
