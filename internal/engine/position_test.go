package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionString(t *testing.T) {
	tests := map[Position]string{
		{Row: 0, Col: 0}:    "A1",
		{Row: 0, Col: 25}:   "Z1",
		{Row: 0, Col: 26}:   "AA1",
		{Row: 0, Col: 701}:  "ZZ1",
		{Row: 9, Col: 0}:    "A10",
		PositionNone:        "",
	}
	for pos, want := range tests {
		assert.Equal(t, want, pos.String())
	}
}

func TestPositionFromString(t *testing.T) {
	tests := map[string]Position{
		"A1":   {Row: 0, Col: 0},
		"Z1":   {Row: 0, Col: 25},
		"AA1":  {Row: 0, Col: 26},
		"ZZ1":  {Row: 0, Col: 701},
		"A10":  {Row: 9, Col: 0},
		"AB32": {Row: 31, Col: 27},
	}
	for in, want := range tests {
		assert.Equal(t, want, PositionFromString(in), "parsing %q", in)
	}
}

func TestPositionFromStringInvalid(t *testing.T) {
	bad := []string{
		"",
		"1",
		"A",
		"A0",
		"AAAA1",
		"a1",
		"A1B",
		"A1.5",
		" A1",
	}
	for _, in := range bad {
		assert.Equal(t, PositionNone, PositionFromString(in), "parsing %q", in)
	}
}

func TestPositionRoundTrip(t *testing.T) {
	for _, s := range []string{"A1", "Z1", "AA1", "ZZ1", "A10", "AB32"} {
		pos := PositionFromString(s)
		assert.True(t, pos.IsValid())
		assert.Equal(t, s, pos.String())
	}
}

func TestPositionLess(t *testing.T) {
	assert.True(t, Position{Row: 0, Col: 0}.Less(Position{Row: 0, Col: 1}))
	assert.True(t, Position{Row: 0, Col: 5}.Less(Position{Row: 1, Col: 0}))
	assert.False(t, Position{Row: 1, Col: 0}.Less(Position{Row: 0, Col: 5}))
}

func TestSizeIsEmpty(t *testing.T) {
	assert.True(t, Size{}.IsEmpty())
	assert.False(t, Size{Rows: 1, Cols: 1}.IsEmpty())
}
