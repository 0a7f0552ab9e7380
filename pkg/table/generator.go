package table

import (
	"github.com/matzehuels/tracelayout/pkg/errors"
)

// Generator computes a table on demand.
//
// ComputeTable must return a fully materialized table that does not depend
// on the lifetime of its inputs, or an error and no table. Orderings are
// advisory: a generator may ignore them.
type Generator interface {
	// TableName is the name the table is queried by.
	TableName() string
	// Schema lists the output columns, with the argument column marked hidden.
	Schema() Schema
	// ArgumentColumn is the index of the hidden argument column in Schema.
	ArgumentColumn() int
	// ComputeTable builds the table for the given constraints.
	ComputeTable(constraints []Constraint, orders []Order) (*Table, error)
}

// BindArgument returns the value bound to the argument column col.
//
// Exactly one equality constraint on col is required. Repeating it with the
// same value is accepted; a missing binding, conflicting values, or any
// other operator on col fail with errors.ErrCodeInvalidArgument.
// Constraints on other columns are ignored.
func BindArgument(constraints []Constraint, col int) (Value, error) {
	var (
		bound Value
		found bool
	)
	for _, c := range constraints {
		if c.Column != col {
			continue
		}
		if c.Op != OpEq {
			return Value{}, errors.New(errors.ErrCodeInvalidArgument,
				"argument column %d must be bound with =, got %s", col, c.Op)
		}
		if found && !bound.Equal(c.Value) {
			return Value{}, errors.New(errors.ErrCodeInvalidArgument,
				"argument column %d bound to conflicting values %q and %q", col, bound.AsString(), c.Value.AsString())
		}
		bound, found = c.Value, true
	}
	if !found {
		return Value{}, errors.New(errors.ErrCodeInvalidArgument, "argument column %d is not bound", col)
	}
	return bound, nil
}

// SplitConstraints separates the constraints on the argument column from
// the rest.
func SplitConstraints(constraints []Constraint, col int) (arg, rest []Constraint) {
	for _, c := range constraints {
		if c.Column == col {
			arg = append(arg, c)
		} else {
			rest = append(rest, c)
		}
	}
	return arg, rest
}
