package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/tracelayout/pkg/layout"
	"github.com/matzehuels/tracelayout/pkg/slice"
	"github.com/matzehuels/tracelayout/pkg/table"
)

// NewRegistry returns the computed tables available over slices.
func NewRegistry(slices *slice.Table, checkOrder bool, logger *log.Logger) *table.Registry {
	opts := []layout.Option{layout.WithLogger(logger)}
	if checkOrder {
		opts = append(opts, layout.WithOrderCheck())
	}

	reg := table.NewRegistry()
	// Registration only fails for invalid or duplicate names.
	if err := reg.Register(layout.NewGenerator(slices, opts...)); err != nil {
		panic(err)
	}
	return reg
}

// Query parses the textual where and order clauses against the table's
// schema, binds argument to its hidden column and runs the query.
func Query(reg *table.Registry, name, argument string, where, order []string) (*table.Table, error) {
	gen, err := reg.Lookup(name)
	if err != nil {
		return nil, err
	}
	schema := gen.Schema()

	cs, err := table.ParseConstraints(schema, where)
	if err != nil {
		return nil, err
	}
	cs = append(cs, table.Eq(gen.ArgumentColumn(), table.String(argument)))

	orders, err := table.ParseOrders(schema, order)
	if err != nil {
		return nil, err
	}
	return reg.Query(name, cs, orders)
}
