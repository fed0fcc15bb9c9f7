package engine

import (
	"fmt"
	"io"
)

// PrintValues writes the sheet's printable rectangle to w: one
// tab-separated, newline-terminated row per printable row, each cell
// rendered by its value's natural form (empty string, number, or error
// token). Absent cells print nothing, leaving adjacent tabs.
func (s *Sheet) PrintValues(w io.Writer) error {
	return s.printRect(w, func(c *Cell) string {
		if c == nil {
			return ""
		}
		return c.GetValue(s).String()
	})
}

// PrintTexts writes the sheet's printable rectangle to w the same way as
// PrintValues, but rendering each cell's raw text instead of its value.
func (s *Sheet) PrintTexts(w io.Writer) error {
	return s.printRect(w, func(c *Cell) string {
		if c == nil {
			return ""
		}
		return c.GetText()
	})
}

func (s *Sheet) printRect(w io.Writer, render func(*Cell) string) error {
	for row := 0; row < s.size.Rows; row++ {
		for col := 0; col < s.size.Cols; col++ {
			if col > 0 {
				if _, err := io.WriteString(w, "\t"); err != nil {
					return err
				}
			}
			cell := s.cells[Position{Row: row, Col: col}]
			if _, err := io.WriteString(w, render(cell)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
