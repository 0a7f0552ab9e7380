// Package sink renders computed layout tables.
//
// Every renderer accepts a [table.Table] with at least the ts, dur and
// layout_depth columns, such as the output of the slice layout generator or
// a table decoded from its JSON form. Rows are drawn at their ts on the
// horizontal axis and at their layout_depth on the vertical one.
//
// Available formats:
//
//   - [RenderASCII]: one text line per layout depth, one '#' per time unit
//   - [RenderJSON]: the table's JSON encoding, indented
//   - [RenderSVG]: one rectangle per row, colored by track
package sink

import (
	"github.com/matzehuels/tracelayout/pkg/errors"
	"github.com/matzehuels/tracelayout/pkg/table"
)

// Column names the renderers read.
const (
	colTs             = "ts"
	colDur            = "dur"
	colLayoutDepth    = "layout_depth"
	colTrackID        = "track_id"
	colName           = "name"
	colFilterTrackIDs = "filter_track_ids"
)

// Format names accepted by [Render].
const (
	FormatASCII = "ascii"
	FormatJSON  = "json"
	FormatSVG   = "svg"
)

// Formats lists the supported output formats.
var Formats = []string{FormatASCII, FormatJSON, FormatSVG}

// Render renders t in the named format. width is the target width in
// columns for ASCII and in pixels for SVG; zero keeps each format's default.
func Render(t *table.Table, format string, width int) ([]byte, error) {
	switch format {
	case FormatASCII:
		var opts []ASCIIOption
		if width > 0 {
			opts = append(opts, WithASCIIWidth(width))
		}
		return RenderASCII(t, opts...)
	case FormatJSON:
		return RenderJSON(t)
	case FormatSVG:
		var opts []SVGOption
		if width > 0 {
			opts = append(opts, WithWidth(float64(width)))
		}
		return RenderSVG(t, opts...)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown format %q (want one of ascii, json, svg)", format)
	}
}

// span is one drawable row.
type span struct {
	ts, dur int64
	depth   int64
	track   int64
	name    string
}

// spans extracts drawable rows from t. Rows whose filter_track_ids is empty
// are skipped.
func spans(t *table.Table) ([]span, error) {
	ts, dur, depth := t.ColumnByName(colTs), t.ColumnByName(colDur), t.ColumnByName(colLayoutDepth)
	for i, c := range []table.Column{ts, dur, depth} {
		if c == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "table %s has no %s column",
				t.Name(), []string{colTs, colDur, colLayoutDepth}[i])
		}
	}
	track, name, filter := t.ColumnByName(colTrackID), t.ColumnByName(colName), t.ColumnByName(colFilterTrackIDs)

	out := make([]span, 0, t.RowCount())
	for i := range t.RowCount() {
		if filter != nil && filter.Get(i).AsString() == "" {
			continue
		}
		s := span{
			ts:    ts.Get(i).Long,
			dur:   dur.Get(i).Long,
			depth: depth.Get(i).Long,
		}
		if s.depth < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "row %d: negative layout_depth %d", i, s.depth)
		}
		if track != nil {
			s.track = track.Get(i).Long
		}
		if name != nil {
			s.name = name.Get(i).AsString()
		}
		out = append(out, s)
	}
	return out, nil
}

// bounds returns the earliest start and latest end over ss.
func bounds(ss []span) (start, end int64) {
	if len(ss) == 0 {
		return 0, 0
	}
	start, end = ss[0].ts, ss[0].ts+max(ss[0].dur, 0)
	for _, s := range ss[1:] {
		start = min(start, s.ts)
		end = max(end, s.ts+max(s.dur, 0))
	}
	return start, end
}
