package loader

import (
	"bytes"
	"encoding/csv"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readCSV(data []byte) ([][]string, error) {
	var src io.Reader
	if utf8.Valid(data) {
		src = bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))
	} else {
		// Legacy exports are Windows-1252; every byte maps to a rune so this never fails.
		src = transform.NewReader(bytes.NewReader(data), charmap.Windows1252.NewDecoder())
	}

	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}
