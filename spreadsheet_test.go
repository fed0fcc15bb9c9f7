package spreadsheet

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSheetSetAndGetCell(t *testing.T) {
	s := NewSheet(io.Discard)

	assert.NoError(t, s.SetCell(MustPosition("A1"), "12"))
	assert.NoError(t, s.SetCell(MustPosition("B1"), "=A1*2"))

	cell, err := s.GetCell(MustPosition("B1"))
	assert.NoError(t, err)
	assert.Equal(t, "24", cell.GetValue().String())
	assert.Equal(t, "=A1*2", cell.GetText())
	assert.Equal(t, []Position{MustPosition("A1")}, cell.GetReferencedCells())
}

func TestSheetGetCellAbsent(t *testing.T) {
	s := NewSheet(io.Discard)
	cell, err := s.GetCell(MustPosition("A1"))
	assert.NoError(t, err)
	assert.Nil(t, cell)
}

func TestSheetCircularDependencyRejected(t *testing.T) {
	s := NewSheet(io.Discard)
	assert.NoError(t, s.SetCell(MustPosition("A1"), "=A2"))
	err := s.SetCell(MustPosition("A2"), "=A1")
	assert.ErrorIs(t, err, ErrCircularDependency)
}

func TestSheetClearCell(t *testing.T) {
	s := NewSheet(io.Discard)
	assert.NoError(t, s.SetCell(MustPosition("A1"), "1"))
	assert.NoError(t, s.ClearCell(MustPosition("A1")))

	cell, err := s.GetCell(MustPosition("A1"))
	assert.NoError(t, err)
	assert.Nil(t, cell)
}

func TestSheetPrintValuesAndTexts(t *testing.T) {
	s := NewSheet(io.Discard)
	assert.NoError(t, s.SetCell(MustPosition("A1"), "1"))
	assert.NoError(t, s.SetCell(MustPosition("B1"), "=A1+1"))

	var values bytes.Buffer
	assert.NoError(t, s.PrintValues(&values))
	assert.Equal(t, "1\t2\n", values.String())

	var texts bytes.Buffer
	assert.NoError(t, s.PrintTexts(&texts))
	assert.Equal(t, "1\t=A1+1\n", texts.String())
}

func TestSheetLogsMutations(t *testing.T) {
	var log bytes.Buffer
	s := NewSheet(&log)

	assert.NoError(t, s.SetCell(MustPosition("A1"), "1"))
	assert.Contains(t, log.String(), "set_cell")

	log.Reset()
	err := s.SetCell(MustPosition("A1"), "=A1")
	assert.Error(t, err)
	assert.Contains(t, log.String(), "set_cell")
	assert.Contains(t, log.String(), "circular dependency")
}

func TestMustPositionPanicsOnInvalidInput(t *testing.T) {
	assert.Panics(t, func() { MustPosition("not a position") })
}

func TestPositionFromStringFacade(t *testing.T) {
	assert.Equal(t, Position{Row: 0, Col: 0}, PositionFromString("A1"))
	assert.Equal(t, PositionNone, PositionFromString("!!"))
}
