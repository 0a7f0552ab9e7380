// Package table defines materialized tables and the contract for computing
// them on demand.
//
// A [Table] is a named list of equally long [Column]s. Tables are immutable:
// [Table.Filter], [Table.Sort] and [Table.Select] return new tables.
//
// # Computed tables
//
// A [Generator] produces a table when queried rather than storing one. Its
// schema marks exactly one column as the hidden argument column. That column
// holds no data of its own; instead the caller binds it with a single
// equality [Constraint] whose value configures the computation:
//
//	t, err := gen.ComputeTable([]table.Constraint{
//	    {Column: gen.ArgumentColumn(), Op: table.OpEq, Value: table.String("1,2")},
//	}, nil)
//
// Generators use [BindArgument] to extract that value, which rejects a
// missing, conflicting or non-equality binding with
// errors.ErrCodeInvalidArgument. The bound value is echoed into every output
// row under the argument column, so results stay self-describing.
//
// # Querying
//
// [Registry] resolves generators by name. [Registry.Query] computes the table
// and then applies every constraint that is not on the argument column as a
// row filter, followed by the requested ordering:
//
//	reg := table.NewRegistry()
//	reg.Register(gen)
//	t, err := reg.Query("experimental_slice_layout", constraints, orders)
//
// Textual constraints (`ts>3`) and orderings (`-ts`) are parsed against a
// schema with [ParseConstraint] and [ParseOrder].
package table
