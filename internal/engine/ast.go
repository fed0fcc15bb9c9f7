package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BinOp enumerates the binary operators a Binary node may carry.
type BinOp byte

const (
	OpAdd BinOp = '+'
	OpSub BinOp = '-'
	OpMul BinOp = '*'
	OpDiv BinOp = '/'
)

// UnaryOp enumerates the unary operators a Unary node may carry.
type UnaryOp byte

const (
	OpUnaryPlus  UnaryOp = '+'
	OpUnaryMinus UnaryOp = '-'
)

// precedence is the printer's notion of binding tightness; higher is
// tighter. It has nothing to do with evaluation, which always recurses the
// whole tree regardless of precedence.
type precedence int

const (
	precAdd precedence = iota
	precSub
	precMul
	precDiv
	precUnary
	precAtom
)

// precedenceRules[parent][child] reports whether parentheses are required
// around a child of the given precedence inside a parent of the given
// precedence, broken out per left/right child since a few operators are not
// symmetric (subtraction, division, unary minus of a sum).
var precedenceRules = [precAtom + 1][precAtom + 1]struct{ left, right bool }{
	precAdd:   {},
	precSub:   {precSub: {right: true}, precAdd: {right: true}},
	precMul:   {precAdd: {true, true}, precSub: {true, true}},
	precDiv:   {precAdd: {true, true}, precSub: {true, true}, precMul: {right: true}, precDiv: {right: true}},
	precUnary: {precAdd: {true, true}, precSub: {true, true}},
	precAtom:  {},
}

// Expr is a node of the formula expression tree. Every node can evaluate
// itself against a sheet, print itself minimally parenthesized as part of a
// larger expression, and report its own printing precedence.
type Expr interface {
	// Evaluate computes the node's value, recursing into children first.
	// Evaluation errors propagate as the returned EvalError.
	Evaluate(sheet CellSource) (float64, *EvalError)
	// writeFormula writes this node's own minimally parenthesized
	// rendering into b. Whether the node itself needs wrapping in
	// parentheses is decided by printChild before this is called.
	writeFormula(b *strings.Builder)
	// print writes the debug prefix-style rendering: (op lhs rhs).
	print(b *strings.Builder)
	// precedence reports this node's own printing precedence class.
	precedence() precedence
	// collectRefs appends every CellRef position in this subtree to refs,
	// in the order originally parsed (duplicates and invalid positions
	// included; callers dedupe/filter).
	collectRefs(refs *[]Position)
}

// CellSource is the read-only view of a sheet an Expr needs to evaluate
// CellRef nodes. Sheet implements it directly.
type CellSource interface {
	// CellValue returns the value of the cell at pos, or the empty Value
	// if the position holds no cell.
	CellValue(pos Position) Value
}

func printChild(child Expr, b *strings.Builder, parent precedence, isRight bool) {
	self := child.precedence()
	rule := precedenceRules[parent][self]
	needsParens := rule.left && !isRight || rule.right && isRight
	if needsParens {
		b.WriteByte('(')
	}
	child.writeFormula(b)
	if needsParens {
		b.WriteByte(')')
	}
}

// Number is a double literal.
type Number struct {
	Value float64
}

func (n Number) Evaluate(CellSource) (float64, *EvalError) { return n.Value, nil }
func (n Number) precedence() precedence                    { return precAtom }
func (n Number) collectRefs(*[]Position)                   {}

func (n Number) writeFormula(b *strings.Builder) {
	b.WriteString(formatNumber(n.Value))
}

func (n Number) print(b *strings.Builder) {
	b.WriteString(formatNumber(n.Value))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CellRef is a reference to another cell's value, possibly invalid.
type CellRef struct {
	Pos Position
}

func (c CellRef) precedence() precedence { return precAtom }

func (c CellRef) collectRefs(refs *[]Position) {
	*refs = append(*refs, c.Pos)
}

func (c CellRef) Evaluate(sheet CellSource) (float64, *EvalError) {
	if !c.Pos.IsValid() {
		return 0, &EvalError{Kind: EvalRef}
	}
	v := sheet.CellValue(c.Pos)
	switch {
	case v.IsError():
		return 0, v.Error()
	case v.IsNumber():
		return v.Number(), nil
	default:
		text := v.Text()
		if text == "" {
			return 0, nil
		}
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, &EvalError{Kind: EvalValue}
		}
		return parsed, nil
	}
}

func (c CellRef) writeFormula(b *strings.Builder) {
	c.print(b)
}

func (c CellRef) print(b *strings.Builder) {
	if !c.Pos.IsValid() {
		b.WriteString(EvalRef.String())
		return
	}
	b.WriteString(c.Pos.String())
}

// Unary is a unary +/- applied to one operand.
type Unary struct {
	Op UnaryOp
	X  Expr
}

func (u Unary) precedence() precedence { return precUnary }

func (u Unary) collectRefs(refs *[]Position) { u.X.collectRefs(refs) }

func (u Unary) Evaluate(sheet CellSource) (float64, *EvalError) {
	x, evalErr := u.X.Evaluate(sheet)
	if evalErr != nil {
		return 0, evalErr
	}
	if u.Op == OpUnaryMinus {
		return -x, nil
	}
	return x, nil
}

func (u Unary) writeFormula(b *strings.Builder) {
	b.WriteByte(byte(u.Op))
	printChild(u.X, b, u.precedence(), false)
}

func (u Unary) print(b *strings.Builder) {
	fmt.Fprintf(b, "(%c ", byte(u.Op))
	u.X.print(b)
	b.WriteByte(')')
}

// Binary is a binary operator applied to two operands.
type Binary struct {
	Op   BinOp
	X, Y Expr
}

func (bi Binary) precedence() precedence {
	switch bi.Op {
	case OpAdd:
		return precAdd
	case OpSub:
		return precSub
	case OpMul:
		return precMul
	case OpDiv:
		return precDiv
	default:
		panic(fmt.Sprintf("engine: unknown binary operator %q", byte(bi.Op)))
	}
}

func (bi Binary) collectRefs(refs *[]Position) {
	bi.X.collectRefs(refs)
	bi.Y.collectRefs(refs)
}

func (bi Binary) Evaluate(sheet CellSource) (float64, *EvalError) {
	x, evalErr := bi.X.Evaluate(sheet)
	if evalErr != nil {
		return 0, evalErr
	}
	y, evalErr := bi.Y.Evaluate(sheet)
	if evalErr != nil {
		return 0, evalErr
	}
	var result float64
	switch bi.Op {
	case OpAdd:
		result = x + y
	case OpSub:
		result = x - y
	case OpMul:
		result = x * y
	case OpDiv:
		result = x / y
	}
	if !isFinite(result) {
		return 0, &EvalError{Kind: EvalArithmetic}
	}
	return result, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (bi Binary) writeFormula(b *strings.Builder) {
	self := bi.precedence()
	printChild(bi.X, b, self, false)
	b.WriteByte(byte(bi.Op))
	printChild(bi.Y, b, self, true)
}

func (bi Binary) print(b *strings.Builder) {
	fmt.Fprintf(b, "(%c ", byte(bi.Op))
	bi.X.print(b)
	b.WriteByte(' ')
	bi.Y.print(b)
	b.WriteByte(')')
}

// PrintFormula renders expr minimally parenthesized, as it would appear
// after an "=" sign. The top level uses a virtual ATOM parent, so the
// outermost node is never wrapped.
func PrintFormula(expr Expr) string {
	var b strings.Builder
	printChild(expr, &b, precAtom, false)
	return b.String()
}

// Print renders expr in prefix-style "(op lhs rhs)" form, for diagnostics
// and tests only.
func Print(expr Expr) string {
	var b strings.Builder
	expr.print(&b)
	return b.String()
}

// ReferencedPositions returns every CellRef position reachable from expr, in
// parse order, including duplicates and invalid positions. Callers dedupe
// and filter as needed (see DedupeValidPositions).
func ReferencedPositions(expr Expr) []Position {
	var refs []Position
	expr.collectRefs(&refs)
	return refs
}

// DedupeValidPositions returns the distinct valid positions from refs,
// sorted by the Position.Less ordering.
func DedupeValidPositions(refs []Position) []Position {
	seen := make(map[Position]struct{}, len(refs))
	out := make([]Position, 0, len(refs))
	for _, p := range refs {
		if !p.IsValid() {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sortPositions(out)
	return out
}

func sortPositions(ps []Position) {
	for i := 1; i < len(ps); i++ {
		for j := i; j > 0 && ps[j].Less(ps[j-1]); j-- {
			ps[j], ps[j-1] = ps[j-1], ps[j]
		}
	}
}
