package table

import "fmt"

// FilterOp is a comparison operator of a [Constraint].
type FilterOp int

const (
	OpEq FilterOp = iota
	OpGt
	OpLt
)

// String returns the operator's symbol.
func (op FilterOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpGt:
		return ">"
	case OpLt:
		return "<"
	}
	return fmt.Sprintf("FilterOp(%d)", int(op))
}

// Matches reports whether a column value satisfies "v op lit".
// Null never matches.
func (op FilterOp) Matches(v, lit Value) bool {
	c, ok := v.Compare(lit)
	if !ok {
		return false
	}
	switch op {
	case OpEq:
		return c == 0
	case OpGt:
		return c > 0
	case OpLt:
		return c < 0
	}
	return false
}

// Constraint restricts Column to values v with "v Op Value".
type Constraint struct {
	Column int
	Op     FilterOp
	Value  Value
}

// Order sorts rows by Column, descending when Desc is set.
type Order struct {
	Column int
	Desc   bool
}

// Eq, Gt and Lt build constraints on a column index.
func Eq(col int, v Value) Constraint { return Constraint{Column: col, Op: OpEq, Value: v} }
func Gt(col int, v Value) Constraint { return Constraint{Column: col, Op: OpGt, Value: v} }
func Lt(col int, v Value) Constraint { return Constraint{Column: col, Op: OpLt, Value: v} }

// Asc and Desc build orderings on a column index.
func Asc(col int) Order  { return Order{Column: col} }
func Desc(col int) Order { return Order{Column: col, Desc: true} }
