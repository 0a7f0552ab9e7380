package slice

import (
	"github.com/matzehuels/tracelayout/pkg/errors"
)

// CheckOrder verifies the ordering precondition for the given tracks: within
// a track, Ts never decreases, and among equal Ts, Depth never decreases.
// A nil or empty tracks set checks every track.
//
// The returned error has code [errors.ErrCodeFailedPrecondition] and names
// the first offending row.
func CheckOrder(t *Table, tracks []TrackID) error {
	var want map[TrackID]struct{}
	if len(tracks) > 0 {
		want = make(map[TrackID]struct{}, len(tracks))
		for _, id := range tracks {
			want[id] = struct{}{}
		}
	}

	type last struct {
		row   int
		ts    int64
		depth uint32
	}
	prev := make(map[TrackID]last)

	for i, id := range t.trackID {
		if want != nil {
			if _, ok := want[id]; !ok {
				continue
			}
		}
		ts, depth := t.ts[i], t.depth[i]
		if p, ok := prev[id]; ok {
			if ts < p.ts {
				return errors.New(errors.ErrCodeFailedPrecondition,
					"track %d: row %d starts at %d, before row %d at %d", id, i, ts, p.row, p.ts)
			}
			if ts == p.ts && depth < p.depth {
				return errors.New(errors.ErrCodeFailedPrecondition,
					"track %d: row %d at depth %d follows row %d at depth %d with equal ts %d", id, i, depth, p.row, p.depth, ts)
			}
		}
		prev[id] = last{row: i, ts: ts, depth: depth}
	}
	return nil
}
