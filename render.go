package spreadsheet

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// Render draws the sheet's printable rectangle as a boxed console table,
// one column header per spreadsheet column letter. It never participates
// in the tab-separated wire format PrintValues/PrintTexts produce — it is
// purely an ergonomic front end for a human at a terminal, the way the
// corpus's own terminal spreadsheet viewer renders its grid.
func (s *Sheet) Render(w io.Writer) error {
	size := s.GetPrintableSize()
	if size.IsEmpty() {
		_, err := io.WriteString(w, "(empty sheet)\n")
		return err
	}

	table := tablewriter.NewWriter(w)
	header := make([]string, size.Cols+1)
	header[0] = ""
	for col := 0; col < size.Cols; col++ {
		header[col+1] = columnLabel(col)
	}
	table.SetHeader(header)

	for row := 0; row < size.Rows; row++ {
		record := make([]string, size.Cols+1)
		record[0] = fmt.Sprintf("%d", row+1)
		for col := 0; col < size.Cols; col++ {
			cell, err := s.GetCell(Position{Row: row, Col: col})
			if err != nil {
				return err
			}
			if cell != nil {
				record[col+1] = cell.GetValue().String()
			}
		}
		table.Append(record)
	}
	table.Render()
	return nil
}

// columnLabel renders just the column-letter part of spreadsheet notation,
// by printing row 1 at the given column and dropping the trailing "1".
func columnLabel(col int) string {
	full := (Position{Row: 0, Col: col}).String()
	return full[:len(full)-1]
}
