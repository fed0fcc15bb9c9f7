// Package spreadsheet is the public facade over the formula/cell engine in
// internal/engine: a CellHandle interface for reading a cell, a concrete
// Sheet type with its constructor, and structured-logging plumbing around
// every mutation.
package spreadsheet

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/dymaiosvoem/cpp-spreadsheet/internal/engine"
)

// Position identifies a grid slot. See engine.Position for the encoding
// rules.
type Position = engine.Position

// PositionNone is the sentinel invalid position.
var PositionNone = engine.PositionNone

// PositionFromString parses spreadsheet notation ("A1", "ZZ1", ...).
func PositionFromString(s string) Position { return engine.PositionFromString(s) }

// Size describes a sheet's printable bounding rectangle.
type Size = engine.Size

// Value is the tagged union returned by CellHandle.GetValue.
type Value = engine.Value

// Structural errors, re-exported so callers can errors.Is against them
// without importing the internal package.
var (
	ErrInvalidPosition    = engine.ErrInvalidPosition
	ErrParsing            = engine.ErrParsing
	ErrFormula            = engine.ErrFormula
	ErrCircularDependency = engine.ErrCircularDependency
)

// CellHandle is the read surface of a single cell.
type CellHandle interface {
	GetValue() Value
	GetText() string
	GetReferencedCells() []Position
	IsReferenced() bool
}

// cellHandle binds an *engine.Cell to the sheet it reads through, so
// GetValue can trigger recursive evaluation without the caller threading a
// sheet reference through.
type cellHandle struct {
	cell  *engine.Cell
	sheet *engine.Sheet
}

func (h cellHandle) GetValue() Value                { return h.cell.GetValue(h.sheet) }
func (h cellHandle) GetText() string                { return h.cell.GetText() }
func (h cellHandle) GetReferencedCells() []Position { return h.cell.GetReferencedCells() }
func (h cellHandle) IsReferenced() bool             { return h.cell.IsReferenced() }

// Sheet is the public handle on a spreadsheet. It wraps internal/engine's
// Sheet, adding structured logging around mutations; the engine package
// itself stays dependency-light and side-effect-free.
type Sheet struct {
	inner  *engine.Sheet
	logger zerolog.Logger
}

// NewSheet constructs an empty sheet. Logging is directed to w; pass
// io.Discard to silence it.
func NewSheet(w io.Writer) *Sheet {
	return &Sheet{
		inner:  engine.NewSheet(),
		logger: zerolog.New(w).With().Timestamp().Str("component", "spreadsheet").Logger(),
	}
}

// SetCell parses and installs text at pos.
func (s *Sheet) SetCell(pos Position, text string) error {
	err := s.inner.SetCell(pos, text)
	event := s.logger.Debug().Str("op", "set_cell").Str("pos", pos.String())
	if err != nil {
		event = s.logger.Warn().Str("op", "set_cell").Str("pos", pos.String()).Err(err)
	}
	event.Msg("set_cell")
	return err
}

// GetCell returns a read handle for the cell at pos, or nil if no cell is
// present there (never written nor referenced by a formula, or cleared).
func (s *Sheet) GetCell(pos Position) (CellHandle, error) {
	cell, err := s.inner.GetCell(pos)
	if err != nil {
		return nil, err
	}
	if cell == nil {
		return nil, nil
	}
	return cellHandle{cell: cell, sheet: s.inner}, nil
}

// ClearCell removes the cell at pos, if present.
func (s *Sheet) ClearCell(pos Position) error {
	err := s.inner.ClearCell(pos)
	s.logger.Debug().Str("op", "clear_cell").Str("pos", pos.String()).AnErr("err", err).Msg("clear_cell")
	return err
}

// GetPrintableSize returns the current bounding rectangle.
func (s *Sheet) GetPrintableSize() Size { return s.inner.GetPrintableSize() }

// PrintValues writes the tab-separated value grid to w.
func (s *Sheet) PrintValues(w io.Writer) error { return s.inner.PrintValues(w) }

// PrintTexts writes the tab-separated text grid to w.
func (s *Sheet) PrintTexts(w io.Writer) error { return s.inner.PrintTexts(w) }

// MustPosition parses s in spreadsheet notation and panics if it is
// invalid. Intended for call sites with a compile-time-constant position
// (tests, the CLI), never for data derived from user input.
func MustPosition(s string) Position {
	p := PositionFromString(s)
	if !p.IsValid() {
		panic(fmt.Sprintf("spreadsheet: invalid position %q", s))
	}
	return p
}
