// Command sheetctl is a line-oriented shell over package spreadsheet: one
// command per line, read from stdin until EOF or "quit". It exists to
// exercise the engine interactively; the wire format used by "print" is the
// same tab-separated rectangle PrintValues/PrintTexts always produce.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dymaiosvoem/cpp-spreadsheet"
)

func main() {
	os.Exit(run(os.Stdin, os.Stdout, os.Stderr))
}

func run(in io.Reader, out, errw io.Writer) int {
	sheet := spreadsheet.NewSheet(io.Discard)
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if code, quit := dispatch(sheet, line, out, errw); quit {
			return code
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(errw, "read error: %v\n", err)
		return 1
	}
	return 0
}

// dispatch runs one command line. The second return value is true when the
// shell should stop reading further lines.
func dispatch(sheet *spreadsheet.Sheet, line string, out, errw io.Writer) (code int, quit bool) {
	fields := strings.SplitN(line, " ", 3)
	cmd := fields[0]

	switch cmd {
	case "quit", "exit":
		return 0, true

	case "set":
		if len(fields) < 3 {
			fmt.Fprintln(errw, "usage: set <pos> <text>")
			return 0, false
		}
		pos := spreadsheet.PositionFromString(fields[1])
		if err := sheet.SetCell(pos, fields[2]); err != nil {
			fmt.Fprintf(errw, "set %s: %v\n", fields[1], err)
		}

	case "get":
		if len(fields) < 2 {
			fmt.Fprintln(errw, "usage: get <pos>")
			return 0, false
		}
		pos := spreadsheet.PositionFromString(fields[1])
		cell, err := sheet.GetCell(pos)
		if err != nil {
			fmt.Fprintf(errw, "get %s: %v\n", fields[1], err)
			return 0, false
		}
		if cell == nil {
			fmt.Fprintln(out)
			return 0, false
		}
		fmt.Fprintln(out, cell.GetValue().String())

	case "clear":
		if len(fields) < 2 {
			fmt.Fprintln(errw, "usage: clear <pos>")
			return 0, false
		}
		pos := spreadsheet.PositionFromString(fields[1])
		if err := sheet.ClearCell(pos); err != nil {
			fmt.Fprintf(errw, "clear %s: %v\n", fields[1], err)
		}

	case "print":
		what := ""
		if len(fields) >= 2 {
			what = fields[1]
		}
		var err error
		switch what {
		case "values":
			err = sheet.PrintValues(out)
		case "texts":
			err = sheet.PrintTexts(out)
		default:
			fmt.Fprintln(errw, "usage: print values|texts")
			return 0, false
		}
		if err != nil {
			fmt.Fprintf(errw, "print %s: %v\n", what, err)
		}

	case "render":
		if err := sheet.Render(out); err != nil {
			fmt.Fprintf(errw, "render: %v\n", err)
		}

	case "size":
		size := sheet.GetPrintableSize()
		fmt.Fprintf(out, "%d %d\n", size.Rows, size.Cols)

	default:
		fmt.Fprintf(errw, "unknown command: %s\n", cmd)
	}
	return 0, false
}
