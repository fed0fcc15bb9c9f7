package engine

import "golang.org/x/exp/maps"

const escapeChar = '\''
const formulaSign = '='

// cellImpl is the narrow interface shared by the three cell variants. It is
// a tagged-variant substitute for a class hierarchy: the empty and text
// arms are trivial no-ops for the graph-bookkeeping methods.
type cellImpl interface {
	value(sheet CellSource) Value
	text() string
	referencedCells() []Position
	hasCache() bool
	invalidateCache()
}

type emptyImpl struct{}

func (emptyImpl) value(CellSource) Value      { return TextValue("") }
func (emptyImpl) text() string                { return "" }
func (emptyImpl) referencedCells() []Position { return nil }
func (emptyImpl) hasCache() bool              { return true }
func (emptyImpl) invalidateCache()            {}

type textImpl struct {
	raw string
}

func (t textImpl) value(CellSource) Value {
	if len(t.raw) > 0 && t.raw[0] == escapeChar {
		return TextValue(t.raw[1:])
	}
	return TextValue(t.raw)
}

func (t textImpl) text() string                { return t.raw }
func (t textImpl) referencedCells() []Position { return nil }
func (t textImpl) hasCache() bool              { return true }
func (t textImpl) invalidateCache()            {}

type formulaImpl struct {
	expr  Expr
	refs  []Position // deduped, sorted, valid positions only
	cache *Value
}

func (f *formulaImpl) value(sheet CellSource) Value {
	if f.cache == nil {
		num, evalErr := f.expr.Evaluate(sheet)
		var v Value
		if evalErr != nil {
			v = ErrorValue(evalErr.Kind)
		} else {
			v = NumberValue(num)
		}
		f.cache = &v
	}
	return *f.cache
}

func (f *formulaImpl) text() string                { return string(formulaSign) + PrintFormula(f.expr) }
func (f *formulaImpl) referencedCells() []Position { return f.refs }
func (f *formulaImpl) hasCache() bool              { return f.cache != nil }
func (f *formulaImpl) invalidateCache()            { f.cache = nil }

// Cell is a single spreadsheet cell: a polymorphic holder over
// {empty, text, formula}, plus the two edge sets of the bidirectional
// dependency graph it participates in.
type Cell struct {
	pos  Position
	impl cellImpl

	// referenced is the set of cells this one directly depends on
	// (outgoing edges); dependent is the set of cells that directly
	// depend on this one (incoming edges). For any A, B: A is in
	// B.referenced iff B is in A.dependent.
	referenced map[*Cell]struct{}
	dependent  map[*Cell]struct{}
}

func newCell(pos Position) *Cell {
	return &Cell{
		pos:        pos,
		impl:       emptyImpl{},
		referenced: make(map[*Cell]struct{}),
		dependent:  make(map[*Cell]struct{}),
	}
}

// cellResolver is the minimal callback the commit protocol needs from the
// owning sheet. lookupCell never materializes a cell (used by the read-only
// cycle check); resolveCell materializes an empty placeholder cell if one
// is not already present (used only once the cycle check has passed).
type cellResolver interface {
	lookupCell(pos Position) *Cell
	resolveCell(pos Position) *Cell
}

// Set installs new contents for the cell, running the commit protocol for
// formulas. On any error the cell's externally visible state is unchanged.
func (c *Cell) Set(text string, sheet CellSource, resolver cellResolver) error {
	if len(text) > 1 && text[0] == formulaSign {
		return c.setFormula(text[1:], sheet, resolver)
	}
	// Empty and text cells reference nothing: invalidate every dependent and
	// drop the old outgoing edges before installing the new contents.
	c.InvalidateCache()
	c.unwireOutgoing()
	switch {
	case text == "":
		c.impl = emptyImpl{}
	case text[0] == escapeChar:
		c.impl = textImpl{raw: text}
	default:
		c.impl = textImpl{raw: text}
	}
	return nil
}

func (c *Cell) setFormula(body string, sheet CellSource, resolver cellResolver) error {
	expr, err := ParseFormula(body)
	if err != nil {
		return err
	}
	refs := DedupeValidPositions(ReferencedPositions(expr))

	if err := c.checkAcyclic(refs, resolver); err != nil {
		return err
	}

	c.InvalidateCache()
	c.rewireOutgoing(refs, resolver)

	c.impl = &formulaImpl{expr: expr, refs: refs}
	return nil
}

// checkAcyclic runs a DFS from each candidate reference's existing outgoing
// edges; if it reaches c, committing the new formula would close a cycle.
// It reads the graph only — called before any mutation.
func (c *Cell) checkAcyclic(refs []Position, resolver cellResolver) error {
	for _, pos := range refs {
		target := resolver.lookupCell(pos)
		if target == nil {
			continue
		}
		if target == c || reaches(target, c) {
			return &CircularDependencyError{Pos: c.pos}
		}
	}
	return nil
}

// reaches reports whether from can reach to by following referenced edges.
func reaches(from, to *Cell) bool {
	visited := make(map[*Cell]struct{})
	stack := []*Cell{from}
	for len(stack) > 0 {
		n := len(stack) - 1
		curr := stack[n]
		stack = stack[:n]
		if curr == to {
			return true
		}
		if _, ok := visited[curr]; ok {
			continue
		}
		visited[curr] = struct{}{}
		for ref := range curr.referenced {
			stack = append(stack, ref)
		}
	}
	return false
}

// rewireOutgoing unwires c's current outgoing edges and wires fresh ones to
// refs, materializing empty placeholder cells as needed.
func (c *Cell) rewireOutgoing(refs []Position, resolver cellResolver) {
	for ref := range c.referenced {
		delete(ref.dependent, c)
	}
	maps.Clear(c.referenced)

	for _, pos := range refs {
		target := resolver.resolveCell(pos)
		c.referenced[target] = struct{}{}
		target.dependent[c] = struct{}{}
	}
}

// GetValue returns the cell's current value, evaluating and caching a
// formula's result on first read after a change.
func (c *Cell) GetValue(sheet CellSource) Value { return c.impl.value(sheet) }

// GetText returns the cell's raw text: empty string, the text verbatim
// (escape character preserved), or "=" followed by the minimally
// parenthesized formula.
func (c *Cell) GetText() string { return c.impl.text() }

// GetReferencedCells returns the deduped, sorted, valid positions this
// cell's formula references; empty for non-formula cells.
func (c *Cell) GetReferencedCells() []Position {
	refs := c.impl.referencedCells()
	if refs == nil {
		return nil
	}
	out := make([]Position, len(refs))
	copy(out, refs)
	return out
}

// IsReferenced reports whether any other cell depends on this one.
func (c *Cell) IsReferenced() bool { return len(c.dependent) > 0 }

// InvalidateCache drops this cell's cached value, if any, and recurses on
// every dependent. Safe from infinite recursion because the dependency
// graph is always acyclic between mutations.
func (c *Cell) InvalidateCache() {
	if !c.impl.hasCache() {
		return
	}
	c.impl.invalidateCache()
	for dep := range c.dependent {
		dep.InvalidateCache()
	}
}

// unwireOutgoing removes c from every cell it refers to; used when c itself
// is being removed from the sheet.
func (c *Cell) unwireOutgoing() {
	for ref := range c.referenced {
		delete(ref.dependent, c)
	}
	maps.Clear(c.referenced)
}
