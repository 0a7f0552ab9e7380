package table

import (
	"strconv"
	"strings"

	"github.com/matzehuels/tracelayout/pkg/errors"
)

// ParseConstraint parses "col=value", "col>value" or "col<value" against
// schema. The literal is typed after the column: integers for long columns,
// floats for double columns, raw text for string columns.
func ParseConstraint(schema Schema, expr string) (Constraint, error) {
	i := strings.IndexAny(expr, "=<>")
	if i <= 0 {
		return Constraint{}, errors.New(errors.ErrCodeInvalidArgument, "constraint %q: want col=value, col>value or col<value", expr)
	}
	name, lit := expr[:i], expr[i+1:]

	var op FilterOp
	switch expr[i] {
	case '=':
		op = OpEq
	case '>':
		op = OpGt
	case '<':
		op = OpLt
	}

	col, ok := schema.Index(name)
	if !ok {
		return Constraint{}, errors.New(errors.ErrCodeInvalidArgument, "constraint %q: unknown column %q", expr, name)
	}

	v, err := parseLiteral(schema[col].Type, lit)
	if err != nil {
		return Constraint{}, errors.Wrap(errors.ErrCodeInvalidArgument, err, "constraint %q", expr)
	}
	return Constraint{Column: col, Op: op, Value: v}, nil
}

// ParseConstraints parses each expression with [ParseConstraint].
func ParseConstraints(schema Schema, exprs []string) ([]Constraint, error) {
	out := make([]Constraint, 0, len(exprs))
	for _, e := range exprs {
		c, err := ParseConstraint(schema, e)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ParseOrder parses "col" or "+col" (ascending) and "-col" (descending).
func ParseOrder(schema Schema, expr string) (Order, error) {
	desc := false
	name := expr
	switch {
	case strings.HasPrefix(expr, "-"):
		desc, name = true, expr[1:]
	case strings.HasPrefix(expr, "+"):
		name = expr[1:]
	}
	col, ok := schema.Index(name)
	if !ok {
		return Order{}, errors.New(errors.ErrCodeInvalidArgument, "order %q: unknown column %q", expr, name)
	}
	return Order{Column: col, Desc: desc}, nil
}

// ParseOrders parses each expression with [ParseOrder].
func ParseOrders(schema Schema, exprs []string) ([]Order, error) {
	out := make([]Order, 0, len(exprs))
	for _, e := range exprs {
		o, err := ParseOrder(schema, e)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func parseLiteral(t Type, lit string) (Value, error) {
	switch t {
	case TypeLong:
		n, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			return Value{}, err
		}
		return Long(n), nil
	case TypeDouble:
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return Value{}, err
		}
		return Double(f), nil
	}
	return String(lit), nil
}
