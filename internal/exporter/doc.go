// Package exporter writes tables into a downloadable multi-sheet xlsx workbook.
//
// A workbook is a list of Sheets. Each Sheet holds one or more Blocks, a table
// placed at a zero-based start row, so small tables can be stacked on one sheet:
//
//	sheets := []exporter.Sheet{
//	    {Name: "Summary", Blocks: []exporter.Block{
//	        {Table: summary},
//	        {Table: claimRatio, StartRow: 8},
//	    }},
//	    {Name: "SC", Blocks: []exporter.Block{{Table: claims}}},
//	}
//	artifact, err := exporter.Export("June Report", sheets)
//
// The artifact carries the bytes and a file name ending in ".xlsx".
package exporter
