package engine

// Sheet is the sparse, position-keyed store of cells. It is the entry point
// for every mutation, maintains the printable bounding rectangle, and hosts
// the bulk-print iteration.
type Sheet struct {
	cells map[Position]*Cell
	size  Size
}

// NewSheet returns an empty sheet.
func NewSheet() *Sheet {
	return &Sheet{cells: make(map[Position]*Cell)}
}

// SetCell parses and installs text at pos, materializing the cell lazily on
// first write. See Cell.Set for the full commit protocol.
func (s *Sheet) SetCell(pos Position, text string) error {
	if !pos.IsValid() {
		return &InvalidPositionError{Pos: pos.String()}
	}
	cell, ok := s.cells[pos]
	if !ok {
		cell = newCell(pos)
		s.cells[pos] = cell
	}
	if err := cell.Set(text, s, s); err != nil {
		return err
	}
	s.growTo(pos)
	return nil
}

// GetCell returns the cell at pos, or nil if no cell is present there: the
// position was never written nor referenced by a formula, or it was cleared
// (absent cells are not materialized by reads).
func (s *Sheet) GetCell(pos Position) (*Cell, error) {
	if !pos.IsValid() {
		return nil, &InvalidPositionError{Pos: pos.String()}
	}
	return s.cells[pos], nil
}

// CellValue implements CellSource: it is how formula evaluation reads other
// cells, including positions that have never been materialized.
func (s *Sheet) CellValue(pos Position) Value {
	cell, ok := s.cells[pos]
	if !ok {
		return TextValue("")
	}
	return cell.GetValue(s)
}

// ClearCell removes the cell at pos. Interior clears (not on the printable
// rectangle's outer edge) leave the rectangle untouched; edge clears
// recompute it by scanning the remaining cells. Matching the source
// behavior, a clear does not invalidate any dependent cell's cache (see
// DESIGN.md).
func (s *Sheet) ClearCell(pos Position) error {
	if !pos.IsValid() {
		return &InvalidPositionError{Pos: pos.String()}
	}
	cell, ok := s.cells[pos]
	if !ok {
		return nil
	}
	cell.unwireOutgoing()
	delete(s.cells, pos)

	if pos.Row == s.size.Rows-1 || pos.Col == s.size.Cols-1 {
		s.recomputeSize()
	}
	return nil
}

// GetPrintableSize returns the current bounding rectangle.
func (s *Sheet) GetPrintableSize() Size { return s.size }

func (s *Sheet) growTo(pos Position) {
	if pos.Row+1 > s.size.Rows {
		s.size.Rows = pos.Row + 1
	}
	if pos.Col+1 > s.size.Cols {
		s.size.Cols = pos.Col + 1
	}
}

func (s *Sheet) recomputeSize() {
	var size Size
	for pos := range s.cells {
		if pos.Row+1 > size.Rows {
			size.Rows = pos.Row + 1
		}
		if pos.Col+1 > size.Cols {
			size.Cols = pos.Col + 1
		}
	}
	s.size = size
}

// lookupCell implements cellResolver: a read-only lookup that never
// materializes a placeholder cell.
func (s *Sheet) lookupCell(pos Position) *Cell {
	return s.cells[pos]
}

// resolveCell implements cellResolver: find-or-create the cell backing pos,
// used only once a formula write's cycle check has already passed.
func (s *Sheet) resolveCell(pos Position) *Cell {
	cell, ok := s.cells[pos]
	if !ok {
		cell = newCell(pos)
		s.cells[pos] = cell
	}
	return cell
}
