package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/tracelayout/pkg/table"
)

// Defaults for [RenderSVG].
const (
	DefaultSVGWidth  = 1200.0
	DefaultRowHeight = 18.0
	svgMargin        = 8.0
)

// trackPalette colors tracks in order of their id.
var trackPalette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width     float64
	rowHeight float64
}

// WithWidth sets the drawing width in pixels, margins included.
// Non-positive values keep [DefaultSVGWidth].
func WithWidth(w float64) SVGOption {
	return func(r *svgRenderer) {
		if w > 0 {
			r.width = w
		}
	}
}

// WithRowHeight sets the height of one layout depth in pixels.
// Non-positive values keep [DefaultRowHeight].
func WithRowHeight(h float64) SVGOption {
	return func(r *svgRenderer) {
		if h > 0 {
			r.rowHeight = h
		}
	}
}

// RenderSVG draws every row of t as a rectangle. Each rectangle carries
// the row's name as a tooltip and its track as a CSS class.
func RenderSVG(t *table.Table, opts ...SVGOption) ([]byte, error) {
	r := svgRenderer{width: DefaultSVGWidth, rowHeight: DefaultRowHeight}
	for _, opt := range opts {
		opt(&r)
	}

	ss, err := spans(t)
	if err != nil {
		return nil, err
	}
	start, end := bounds(ss)

	var rows int64
	for _, s := range ss {
		rows = max(rows, s.depth+1)
	}

	inner := r.width - 2*svgMargin
	scale := 0.0
	if end > start {
		scale = inner / float64(end-start)
	}
	height := float64(rows)*r.rowHeight + 2*svgMargin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, height, r.width, height)
	buf.WriteString("  <style>rect.slice { stroke: #ffffff; stroke-width: 0.5; }</style>\n")

	for _, s := range ss {
		x := svgMargin + float64(s.ts-start)*scale
		w := max(float64(max(s.dur, 0))*scale, 1)
		y := svgMargin + float64(s.depth)*r.rowHeight
		fmt.Fprintf(&buf, `  <rect class="slice track-%d" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s">`,
			s.track, x, y, w, r.rowHeight, trackColor(s.track))
		buf.WriteString("<title>")
		_ = xml.EscapeText(&buf, []byte(s.name))
		buf.WriteString("</title></rect>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func trackColor(track int64) string {
	n := int64(len(trackPalette))
	return trackPalette[((track%n)+n)%n]
}
