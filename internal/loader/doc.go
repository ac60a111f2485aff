// Package loader turns uploaded spreadsheets into tables.
//
// Three formats are recognised by file extension:
//
//	.csv   UTF-8 (an optional byte-order mark is stripped), falling back to
//	       Windows-1252 when the bytes are not valid UTF-8
//	.xlsx  first worksheet, read with excelize
//	.xls   first worksheet of a legacy BIFF workbook
//
// The first row is the header. Blank header cells are named "Unnamed: N" and
// repeated names get a ".N" suffix so every column is addressable. Empty cells
// load as nil and rows with no content are skipped.
//
// # Usage
//
//	tbl, err := loader.Load("claims", header.Filename, file)
//	if err != nil {
//	    var unsupported *loader.UnsupportedFormatError
//	    if errors.As(err, &unsupported) { ... }
//	}
package loader
