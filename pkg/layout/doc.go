// Package layout implements the slice layout computed table.
//
// The table stacks the slices of several tracks into one vertical
// coordinate so they can be drawn as a flat chart. Each requested track keeps
// its own nesting; it is shifted down by the combined height of the tracks
// requested before it.
//
// # Querying
//
// The table is named [TableName] and takes a single hidden argument,
// filter_track_ids, at column [FilterTrackIDsColumnIndex]. It must be bound
// with an equality constraint to a comma separated list of track ids:
//
//	gen := layout.NewGenerator(slices)
//	tbl, err := gen.ComputeTable([]table.Constraint{
//	    table.Eq(layout.FilterTrackIDsColumnIndex, table.String("1,2")),
//	}, nil)
//
// Go callers can skip the constraint protocol and call [Generator.Compute]
// with a [Request] built by [ParseRequest].
//
// # Packing
//
// For every requested track, in request order, rows are emitted in store
// order with layout_depth = depth + offset, after which the offset grows by
// the track's maximum depth plus one. Tracks without slices emit nothing and
// leave the offset alone. ts and dur are never changed.
//
// The packing relies on the store holding each track's rows ordered by ts,
// then depth. [WithOrderCheck] verifies this before packing.
package layout
