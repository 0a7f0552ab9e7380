package sink

import (
	"bytes"

	"github.com/matzehuels/tracelayout/pkg/errors"
	"github.com/matzehuels/tracelayout/pkg/table"
)

const (
	// DefaultASCIIWidth is the width tables are scaled to when they are too
	// wide to draw one column per time unit.
	DefaultASCIIWidth = 120
	// MaxUnscaledWidth is the widest time span drawn without scaling.
	MaxUnscaledWidth = 1024
	// MaxASCIIWidth bounds the columns accepted by [WithASCIIWidth].
	MaxASCIIWidth = 1 << 16
	// MaxASCIIDepth bounds the number of lines in a drawing.
	MaxASCIIDepth = 1 << 16
)

// ASCIIOption configures [RenderASCII].
type ASCIIOption func(*asciiRenderer)

type asciiRenderer struct {
	width int
}

// WithASCIIWidth scales time so the drawing fits in cols columns.
func WithASCIIWidth(cols int) ASCIIOption {
	return func(r *asciiRenderer) {
		if cols > 0 {
			r.width = cols
		}
	}
}

// RenderASCII draws t as text: line y holds the rows at layout_depth y and
// column x is '#' when some row covers time x. Lines carry no trailing
// padding and end in a newline.
//
// Without [WithASCIIWidth], time maps to columns one to one, starting at
// zero (or at the earliest ts when that is negative). Spans wider than
// [MaxUnscaledWidth] are scaled to [DefaultASCIIWidth]. Drawings deeper than
// [MaxASCIIDepth] lines fail with errors.ErrCodeInvalidInput.
func RenderASCII(t *table.Table, opts ...ASCIIOption) ([]byte, error) {
	var r asciiRenderer
	for _, opt := range opts {
		opt(&r)
	}

	if r.width > MaxASCIIWidth {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"ascii width %d exceeds %d columns", r.width, MaxASCIIWidth)
	}

	ss, err := spans(t)
	if err != nil {
		return nil, err
	}
	for _, s := range ss {
		if s.dur > 0 && s.depth >= MaxASCIIDepth {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"layout_depth %d is too deep to draw as text (limit %d lines)", s.depth, MaxASCIIDepth)
		}
	}
	start, end := bounds(ss)

	origin := min(start, 0)
	width := r.width
	if width == 0 && end-origin > MaxUnscaledWidth {
		width = DefaultASCIIWidth
	}
	if width > 0 {
		origin = start
	}
	x := columnMapper(origin, end, width)

	var lines [][]byte
	for _, s := range ss {
		if s.dur <= 0 {
			continue
		}
		from, to := x(s.ts), x(s.ts+s.dur)
		if to <= from {
			to = from + 1
		}
		for int64(len(lines)) <= s.depth {
			lines = append(lines, nil)
		}
		line := lines[s.depth]
		for int64(len(line)) < to {
			line = append(line, ' ')
		}
		for c := from; c < to; c++ {
			line[c] = '#'
		}
		lines[s.depth] = line
	}

	var buf bytes.Buffer
	for _, l := range lines {
		buf.Write(l)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// columnMapper maps a timestamp to a column. A zero width maps one unit to
// one column.
func columnMapper(origin, end int64, width int) func(int64) int64 {
	span := end - origin
	if width == 0 || span <= 0 {
		return func(ts int64) int64 { return ts - origin }
	}
	w := float64(width)
	return func(ts int64) int64 {
		return int64(float64(ts-origin) * w / float64(span))
	}
}
