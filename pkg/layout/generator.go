package layout

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tracelayout/pkg/errors"
	"github.com/matzehuels/tracelayout/pkg/slice"
	"github.com/matzehuels/tracelayout/pkg/table"
)

// TableName is the name the layout table is registered under.
const TableName = "experimental_slice_layout"

// Output column names, in schema order.
const (
	ColTs             = "ts"
	ColDur            = "dur"
	ColDepth          = "depth"
	ColTrackID        = "track_id"
	ColName           = "name"
	ColStackID        = "stack_id"
	ColParentStackID  = "parent_stack_id"
	ColLayoutDepth    = "layout_depth"
	ColFilterTrackIDs = "filter_track_ids"
)

// FilterTrackIDsColumnIndex is the schema index of the hidden argument.
const FilterTrackIDsColumnIndex = 8

var schema = table.Schema{
	{Name: ColTs, Type: table.TypeLong},
	{Name: ColDur, Type: table.TypeLong},
	{Name: ColDepth, Type: table.TypeLong},
	{Name: ColTrackID, Type: table.TypeLong},
	{Name: ColName, Type: table.TypeString},
	{Name: ColStackID, Type: table.TypeLong},
	{Name: ColParentStackID, Type: table.TypeLong},
	{Name: ColLayoutDepth, Type: table.TypeLong},
	{Name: ColFilterTrackIDs, Type: table.TypeString, Hidden: true},
}

// Option configures a Generator.
type Option func(*Generator)

// WithOrderCheck makes every computation verify that the requested tracks
// are stored in (ts, depth) order, failing with
// errors.ErrCodeFailedPrecondition otherwise.
func WithOrderCheck() Option {
	return func(g *Generator) { g.checkOrder = true }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// Generator computes the slice layout table over a slice store.
//
// A Generator holds no per-call state and is safe for concurrent use as
// long as the store is not written to meanwhile.
type Generator struct {
	slices     *slice.Table
	checkOrder bool
	logger     *log.Logger
}

// NewGenerator returns a generator reading from slices.
func NewGenerator(slices *slice.Table, opts ...Option) *Generator {
	g := &Generator{
		slices: slices,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) TableName() string { return TableName }

func (g *Generator) Schema() table.Schema {
	out := make(table.Schema, len(schema))
	copy(out, schema)
	return out
}

func (g *Generator) ArgumentColumn() int { return FilterTrackIDsColumnIndex }

// ComputeTable binds filter_track_ids from constraints and computes the
// layout. Other constraints and all orderings are ignored; rows come out in
// packing order.
func (g *Generator) ComputeTable(constraints []table.Constraint, _ []table.Order) (*table.Table, error) {
	arg, err := table.BindArgument(constraints, FilterTrackIDsColumnIndex)
	if err != nil {
		return nil, err
	}
	if arg.Type != table.TypeString {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"filter_track_ids must be a string, got %s", arg.Type)
	}
	req, err := ParseRequest(arg.Str)
	if err != nil {
		return nil, err
	}
	return g.Compute(req)
}

// Compute packs the requested tracks.
func (g *Generator) Compute(req Request) (*table.Table, error) {
	if g.checkOrder && len(req.TrackIDs) > 0 {
		if err := slice.CheckOrder(g.slices, req.TrackIDs); err != nil {
			return nil, err
		}
	}

	groups := g.group(req.TrackIDs)

	var total int
	for _, rows := range groups {
		total += len(rows)
	}
	out := newBuilder(total)

	depths := g.slices.Depth()
	var offset uint64
	for i, id := range req.TrackIDs {
		rows := groups[i]
		if len(rows) == 0 {
			g.logger.Debug("skipping track without slices", "track", id)
			continue
		}
		var maxDepth uint32
		for _, r := range rows {
			maxDepth = max(maxDepth, depths[r])
		}
		if offset+uint64(maxDepth) > math.MaxUint32 {
			return nil, errors.New(errors.ErrCodeInvalidArgument,
				"layout_depth of track %d exceeds %d (offset %d, max depth %d)",
				id, uint32(math.MaxUint32), offset, maxDepth)
		}
		for _, r := range rows {
			out.add(g.slices, r, uint32(uint64(depths[r])+offset))
		}
		g.logger.Debug("packed track", "track", id, "rows", len(rows), "offset", offset, "max_depth", maxDepth)
		offset += uint64(maxDepth) + 1
	}

	return out.build(g.slices, req.Raw)
}

// group returns, for each requested track, its row indexes in store order.
func (g *Generator) group(ids []slice.TrackID) [][]int {
	groups := make([][]int, len(ids))
	if len(ids) == 0 {
		return groups
	}
	pos := make(map[slice.TrackID]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	for r, id := range g.slices.TrackIDs() {
		if i, ok := pos[id]; ok {
			groups[i] = append(groups[i], r)
		}
	}
	return groups
}

var _ table.Generator = (*Generator)(nil)
