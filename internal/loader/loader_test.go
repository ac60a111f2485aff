package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
		wantErr  bool
	}{
		{filename: "claims.csv", want: FormatCSV},
		{filename: "Claims.XLSX", want: FormatXLSX},
		{filename: "old.xls", want: FormatXLS},
		{filename: "notes.txt", wantErr: true},
		{filename: "noext", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := DetectFormat(tt.filename)
			if tt.wantErr {
				var unsupported *UnsupportedFormatError
				require.True(t, errors.As(err, &unsupported))
				assert.Equal(t, tt.filename, unsupported.Filename)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		columns  []string
		rows     [][]any
		errCheck func(t *testing.T, err error)
	}{
		{
			name:    "plain utf-8",
			input:   []byte("Claim No,Amount\nC1,100\nC2,\n"),
			columns: []string{"Claim No", "Amount"},
			rows:    [][]any{{"C1", "100"}, {"C2", nil}},
		},
		{
			name:    "byte order mark stripped",
			input:   append([]byte{0xEF, 0xBB, 0xBF}, []byte("Claim No\nC1\n")...),
			columns: []string{"Claim No"},
			rows:    [][]any{{"C1"}},
		},
		{
			name:    "windows-1252 fallback",
			input:   []byte("Name\nJos\xe9\n"),
			columns: []string{"Name"},
			rows:    [][]any{{"José"}},
		},
		{
			name:    "ragged rows padded and truncated",
			input:   []byte("A,B,C\n1\n1,2,3,4\n"),
			columns: []string{"A", "B", "C"},
			rows:    [][]any{{"1", nil, nil}, {"1", "2", "3"}},
		},
		{
			name:    "header only",
			input:   []byte("A,B\n"),
			columns: []string{"A", "B"},
			rows:    [][]any{},
		},
		{
			name:    "blank and duplicate headers",
			input:   []byte("A,,A\n1,2,3\n"),
			columns: []string{"A", "Unnamed: 1", "A.1"},
			rows:    [][]any{{"1", "2", "3"}},
		},
		{
			name:    "blank lines skipped",
			input:   []byte("A\n\n1\n,\n2\n"),
			columns: []string{"A"},
			rows:    [][]any{{"1"}, {"2"}},
		},
		{
			name:  "empty file",
			input: []byte(""),
			errCheck: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoHeader)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Load("claims", "claims.csv", bytes.NewReader(tt.input))
			if tt.errCheck != nil {
				require.Error(t, err)
				tt.errCheck(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "claims", tbl.Name)
			assert.Equal(t, tt.columns, tbl.Columns)
			assert.Equal(t, len(tt.rows), tbl.Len())
			for i, row := range tt.rows {
				assert.Equal(t, row, tbl.Rows[i], "row %d", i)
			}
		})
	}
}

func TestLoadUnsupported(t *testing.T) {
	_, err := Load("claims", "claims.json", strings.NewReader("{}"))

	var unsupported *UnsupportedFormatError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, ".json", unsupported.Extension)
}

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestLoadXLSX(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Claim No", "Claim Status", "Billed"},
		{"C1", "R", 1500},
		{"C2", "P", nil},
	})

	tbl, err := Load("claims", "claims.xlsx", bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"Claim No", "Claim Status", "Billed"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []any{"C1", "R", "1500"}, tbl.Rows[0])
	assert.Equal(t, []any{"C2", "P", nil}, tbl.Rows[1])
}

func TestLoadXLSXCorrupt(t *testing.T) {
	_, err := Load("claims", "claims.xlsx", strings.NewReader("not a zip"))
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, FormatXLSX, perr.Format)
	assert.Equal(t, "claims", perr.Table)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratio.csv")
	require.NoError(t, os.WriteFile(path, []byte("PolicyNo,Premium\nP1,10\n"), 0o644))

	tbl, err := LoadFile("claim_ratio", path)
	require.NoError(t, err)
	assert.Equal(t, []string{"PolicyNo", "Premium"}, tbl.Columns)
	assert.Equal(t, 1, tbl.Len())

	_, err = LoadFile("claim_ratio", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
