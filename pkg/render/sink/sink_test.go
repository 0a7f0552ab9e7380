package sink

import (
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/tracelayout/pkg/errors"
	"github.com/matzehuels/tracelayout/pkg/table"
)

type row struct {
	ts, dur int64
	depth   uint32
	track   uint32
	name    string
	filter  string
}

func newTable(t *testing.T, rows ...row) *table.Table {
	t.Helper()
	var (
		ts, dur        []int64
		depth, track   []uint32
		names, filters []string
	)
	for _, r := range rows {
		ts = append(ts, r.ts)
		dur = append(dur, r.dur)
		depth = append(depth, r.depth)
		track = append(track, r.track)
		names = append(names, r.name)
		filters = append(filters, r.filter)
	}
	tbl, err := table.New("experimental_slice_layout",
		table.NewInt64Column(colTs, ts),
		table.NewInt64Column(colDur, dur),
		table.NewUint32Column(colTrackID, track),
		table.NewTextColumn(colName, names),
		table.NewUint32Column(colLayoutDepth, depth),
		table.NewTextColumn(colFilterTrackIDs, filters),
	)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestRenderASCII(t *testing.T) {
	tests := []struct {
		name string
		rows []row
		opts []ASCIIOption
		want string
	}{
		{
			name: "empty",
			want: "",
		},
		{
			name: "nested",
			rows: []row{
				{ts: 0, dur: 4, depth: 0, filter: "1"},
				{ts: 0, dur: 2, depth: 1, filter: "1"},
				{ts: 3, dur: 4, depth: 2, filter: "1"},
			},
			want: "####\n##\n   ####\n",
		},
		{
			name: "gap line stays empty",
			rows: []row{
				{ts: 1, dur: 1, depth: 0, filter: "1"},
				{ts: 2, dur: 1, depth: 2, filter: "1"},
			},
			want: " #\n\n  #\n",
		},
		{
			name: "empty filter skipped",
			rows: []row{
				{ts: 0, dur: 3, depth: 0, filter: ""},
				{ts: 1, dur: 1, depth: 0, filter: "2"},
			},
			want: " #\n",
		},
		{
			name: "zero duration not drawn",
			rows: []row{
				{ts: 0, dur: 0, depth: 0, filter: "1"},
				{ts: 2, dur: 1, depth: 1, filter: "1"},
			},
			want: "\n  #\n",
		},
		{
			name: "negative ts shifts origin",
			rows: []row{
				{ts: -2, dur: 3, depth: 0, filter: "1"},
			},
			want: "###\n",
		},
		{
			name: "scaled",
			rows: []row{
				{ts: 100, dur: 100, depth: 0, filter: "1"},
				{ts: 150, dur: 50, depth: 1, filter: "1"},
			},
			opts: []ASCIIOption{WithASCIIWidth(4)},
			want: "####\n  ##\n",
		},
		{
			name: "scaled keeps short slices visible",
			rows: []row{
				{ts: 0, dur: 1000, depth: 0, filter: "1"},
				{ts: 10, dur: 1, depth: 1, filter: "1"},
			},
			opts: []ASCIIOption{WithASCIIWidth(10)},
			want: "##########\n#\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderASCII(newTable(t, tt.rows...), tt.opts...)
			if err != nil {
				t.Fatalf("RenderASCII() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("RenderASCII() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestRenderASCIIAutoScales(t *testing.T) {
	tbl := newTable(t, row{ts: 0, dur: 10 * MaxUnscaledWidth, depth: 0, filter: "1"})
	got, err := RenderASCII(tbl)
	if err != nil {
		t.Fatal(err)
	}
	if want := strings.Repeat("#", DefaultASCIIWidth) + "\n"; string(got) != want {
		t.Errorf("RenderASCII() has %d columns, want %d", len(got)-1, DefaultASCIIWidth)
	}
}

func TestRenderASCIILimits(t *testing.T) {
	tests := []struct {
		name string
		rows []row
		opts []ASCIIOption
	}{
		{
			name: "too deep",
			rows: []row{{ts: 0, dur: 1, depth: MaxASCIIDepth, filter: "1"}},
		},
		{
			name: "deepest uint32",
			rows: []row{{ts: 0, dur: 1, depth: math.MaxUint32, filter: "1"}},
		},
		{
			name: "too wide",
			rows: []row{{ts: 0, dur: 1, depth: 0, filter: "1"}},
			opts: []ASCIIOption{WithASCIIWidth(MaxASCIIWidth + 1)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RenderASCII(newTable(t, tt.rows...), tt.opts...)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("RenderASCII() error = %v, want INVALID_INPUT", err)
			}
		})
	}

	got, err := RenderASCII(newTable(t, row{ts: 0, dur: 1, depth: MaxASCIIDepth - 1, filter: "1"}))
	if err != nil {
		t.Fatalf("RenderASCII() at the depth limit error = %v", err)
	}
	if lines := strings.Count(string(got), "\n"); lines != MaxASCIIDepth {
		t.Errorf("RenderASCII() drew %d lines, want %d", lines, MaxASCIIDepth)
	}
}

func TestRenderSVG(t *testing.T) {
	tbl := newTable(t,
		row{ts: 0, dur: 10, depth: 0, track: 1, name: "a<b>&c", filter: "1,2"},
		row{ts: 5, dur: 5, depth: 1, track: 2, name: "child", filter: "1,2"},
	)
	got, err := RenderSVG(tbl, WithWidth(216), WithRowHeight(10))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	svg := string(got)

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`width="216" height="36"`,
		`class="slice track-1" x="8.00" y="8.00" width="200.00" height="10.00"`,
		`class="slice track-2" x="108.00" y="18.00" width="100.00"`,
		`<title>a&lt;b&gt;&amp;c</title>`,
		"</svg>\n",
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("RenderSVG() missing %q in\n%s", want, svg)
		}
	}
	if n := strings.Count(svg, "<rect"); n != 2 {
		t.Errorf("RenderSVG() drew %d rects, want 2", n)
	}
}

func TestRenderJSON(t *testing.T) {
	tbl := newTable(t, row{ts: 1, dur: 2, name: "x", filter: "1"})
	got, err := RenderJSON(tbl)
	if err != nil {
		t.Fatal(err)
	}
	back, err := table.DecodeJSON(got)
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if back.RowCount() != 1 || back.ColumnByName(colName).Get(0).AsString() != "x" {
		t.Errorf("decoded table = %+v", back.Row(0))
	}
	if !strings.HasSuffix(string(got), "\n") {
		t.Error("RenderJSON() should end with a newline")
	}
}

func TestRender(t *testing.T) {
	tbl := newTable(t, row{ts: 0, dur: 2, filter: "1"})

	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			data, err := Render(tbl, format, 0)
			if err != nil {
				t.Fatalf("Render(%s) error = %v", format, err)
			}
			if len(data) == 0 {
				t.Errorf("Render(%s) returned nothing", format)
			}
		})
	}

	if _, err := Render(tbl, "png", 0); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Render(png) error = %v, want UNSUPPORTED", err)
	}
}

func TestRenderMissingColumn(t *testing.T) {
	tbl, err := table.New("plain",
		table.NewInt64Column(colTs, []int64{0}),
		table.NewInt64Column(colDur, []int64{1}),
	)
	if err != nil {
		t.Fatal(err)
	}
	for _, format := range []string{FormatASCII, FormatSVG} {
		_, err := Render(tbl, format, 0)
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Render(%s) error = %v, want INVALID_INPUT", format, err)
		}
		if err != nil && !strings.Contains(err.Error(), colLayoutDepth) {
			t.Errorf("Render(%s) error %q should name the missing column", format, err)
		}
	}
}
