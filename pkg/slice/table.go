// Package slice provides the base interval store that computed tables read.
//
// A slice is a time-bounded, possibly nested event on a track: it starts at
// Ts, lasts Dur trace-time units and sits at Depth within its track's
// nesting. The [Table] keeps rows column by column, in insertion order.
//
// # Ordering precondition
//
// Consumers such as the slice layout generator rely on rows of each track
// being inserted in non-decreasing Ts order, and among equal Ts in
// non-decreasing Depth order (parents before children). The store does not
// sort; use [CheckOrder] to verify the precondition at a boundary.
//
// # Concurrency
//
// A Table is not synchronized. Build it once (importers do this), then share
// it read-only between any number of concurrent readers.
package slice

import (
	"github.com/matzehuels/tracelayout/pkg/strpool"
)

// TrackID identifies the track a slice belongs to.
type TrackID uint32

// Row is one slice. StackID and ParentStackID are opaque to this package.
type Row struct {
	Ts            int64
	Dur           int64
	Depth         uint32
	TrackID       TrackID
	Name          strpool.ID
	StackID       int64
	ParentStackID int64
}

// Table is a columnar, append-only slice store.
type Table struct {
	pool *strpool.Pool

	ts            []int64
	dur           []int64
	depth         []uint32
	trackID       []TrackID
	name          []strpool.ID
	stackID       []int64
	parentStackID []int64
}

// NewTable creates an empty store whose names are interned in pool.
// A nil pool gets a fresh one.
func NewTable(pool *strpool.Pool) *Table {
	if pool == nil {
		pool = strpool.New()
	}
	return &Table{pool: pool}
}

// Pool returns the string pool that resolves the name column.
func (t *Table) Pool() *strpool.Pool { return t.pool }

// Insert appends r and returns its row index.
func (t *Table) Insert(r Row) uint32 {
	idx := uint32(len(t.ts))
	t.ts = append(t.ts, r.Ts)
	t.dur = append(t.dur, r.Dur)
	t.depth = append(t.depth, r.Depth)
	t.trackID = append(t.trackID, r.TrackID)
	t.name = append(t.name, r.Name)
	t.stackID = append(t.stackID, r.StackID)
	t.parentStackID = append(t.parentStackID, r.ParentStackID)
	return idx
}

// RowCount returns the number of slices in the store.
func (t *Table) RowCount() int { return len(t.ts) }

// Row returns the slice at index i.
func (t *Table) Row(i int) Row {
	return Row{
		Ts:            t.ts[i],
		Dur:           t.dur[i],
		Depth:         t.depth[i],
		TrackID:       t.trackID[i],
		Name:          t.name[i],
		StackID:       t.stackID[i],
		ParentStackID: t.parentStackID[i],
	}
}

// Column accessors. The returned slices are owned by the table and must not
// be modified.
func (t *Table) Ts() []int64             { return t.ts }
func (t *Table) Dur() []int64            { return t.dur }
func (t *Table) Depth() []uint32         { return t.depth }
func (t *Table) TrackIDs() []TrackID     { return t.trackID }
func (t *Table) Names() []strpool.ID     { return t.name }
func (t *Table) StackIDs() []int64       { return t.stackID }
func (t *Table) ParentStackIDs() []int64 { return t.parentStackID }

// Tracks returns the distinct track ids in order of first appearance.
func (t *Table) Tracks() []TrackID {
	seen := make(map[TrackID]struct{})
	var out []TrackID
	for _, id := range t.trackID {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// TrackSummary describes one track of the store.
type TrackSummary struct {
	TrackID  TrackID
	Slices   int
	MaxDepth uint32
	Start    int64 // smallest Ts
	End      int64 // largest Ts+Dur
}

// Summaries returns one summary per track, in order of first appearance.
func (t *Table) Summaries() []TrackSummary {
	index := make(map[TrackID]int)
	var out []TrackSummary
	for i, id := range t.trackID {
		end := t.ts[i] + t.dur[i]
		j, ok := index[id]
		if !ok {
			index[id] = len(out)
			out = append(out, TrackSummary{
				TrackID:  id,
				Slices:   1,
				MaxDepth: t.depth[i],
				Start:    t.ts[i],
				End:      end,
			})
			continue
		}
		s := &out[j]
		s.Slices++
		s.MaxDepth = max(s.MaxDepth, t.depth[i])
		s.Start = min(s.Start, t.ts[i])
		s.End = max(s.End, end)
	}
	return out
}
