package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"claimsheet/internal/table"
)

// Format is a supported upload format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// DetectFormat maps a file name to its Format using the extension, case-insensitively.
func DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	default:
		return "", &UnsupportedFormatError{Filename: filename, Extension: ext}
	}
}

// Load reads r fully and decodes it according to filename's extension. name
// labels the table in errors and diagnostics.
func Load(name, filename string, r io.Reader) (*table.Table, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return Decode(name, format, data)
}

// LoadFile opens path and loads it.
func LoadFile(name, path string) (*table.Table, error) {
	if _, err := DetectFormat(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return Load(name, filepath.Base(path), f)
}

// Decode parses data in the given format.
func Decode(name string, format Format, data []byte) (*table.Table, error) {
	var (
		records [][]string
		err     error
	)
	switch format {
	case FormatCSV:
		records, err = readCSV(data)
	case FormatXLSX:
		records, err = readXLSX(data)
	case FormatXLS:
		records, err = readXLS(data)
	default:
		return nil, &UnsupportedFormatError{Filename: name, Extension: "." + string(format)}
	}
	if err != nil {
		return nil, &ParseError{Table: name, Format: format, Err: err}
	}
	return build(name, records)
}

// build converts raw string records into a table. The first non-empty record is
// the header.
func build(name string, records [][]string) (*table.Table, error) {
	records = dropEmpty(records)
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoHeader)
	}

	columns := headerNames(records[0])
	rows := make([][]any, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]any, len(columns))
		for i := 0; i < len(columns) && i < len(rec); i++ {
			if rec[i] != "" {
				row[i] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return table.New(name, columns, rows), nil
}

func dropEmpty(records [][]string) [][]string {
	out := records[:0:0]
	for _, rec := range records {
		for _, cell := range rec {
			if strings.TrimSpace(cell) != "" {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

func headerNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			h = fmt.Sprintf("%s.%d", h, n+1)
		} else {
			seen[h] = 0
		}
		names[i] = h
	}
	return names
}
