package io

import (
	"strings"
	"testing"

	"github.com/matzehuels/tracelayout/pkg/errors"
	"github.com/matzehuels/tracelayout/pkg/slice"
)

type chromeRow struct {
	ts, dur int64
	depth   uint32
	track   slice.TrackID
	name    string
}

func chromeRows(st *slice.Table) []chromeRow {
	out := make([]chromeRow, st.RowCount())
	for i := range out {
		r := st.Row(i)
		out[i] = chromeRow{r.Ts, r.Dur, r.Depth, r.TrackID, st.Pool().Get(r.Name)}
	}
	return out
}

func TestReadChromeTrace(t *testing.T) {
	tests := []struct {
		name  string
		trace string
		want  []chromeRow
	}{
		{
			name: "complete events nest",
			trace: `{"traceEvents": [
				{"name": "main", "ph": "X", "ts": 0, "dur": 10, "pid": 1, "tid": 1},
				{"name": "parse", "ph": "X", "ts": 1, "dur": 3, "pid": 1, "tid": 1},
				{"name": "lex", "ph": "X", "ts": 1, "dur": 1, "pid": 1, "tid": 1},
				{"name": "eval", "ph": "X", "ts": 5, "dur": 2, "pid": 1, "tid": 1}
			]}`,
			want: []chromeRow{
				{0, 10000, 0, 1, "main"},
				{1000, 3000, 1, 1, "parse"},
				{1000, 1000, 2, 1, "lex"},
				{5000, 2000, 1, 1, "eval"},
			},
		},
		{
			name: "begin end pairs on two threads",
			trace: `[
				{"name": "a", "ph": "B", "ts": 0, "pid": 1, "tid": 2},
				{"name": "b", "ph": "B", "ts": 1, "pid": 1, "tid": 3},
				{"name": "c", "ph": "B", "ts": 2, "pid": 1, "tid": 2},
				{"ph": "E", "ts": 3, "pid": 1, "tid": 2},
				{"ph": "E", "ts": 4, "pid": 1, "tid": 2},
				{"ph": "E", "ts": 5, "pid": 1, "tid": 3},
				{"name": "meta", "ph": "M", "ts": 0, "pid": 1, "tid": 2}
			]`,
			want: []chromeRow{
				{0, 4000, 0, 1, "a"},
				{1000, 4000, 0, 2, "b"},
				{2000, 1000, 1, 1, "c"},
			},
		},
		{
			name: "unterminated array and open slice",
			trace: `[
				{"name": "x", "ph": "B", "ts": 1, "pid": "p", "tid": "t"},
				{"name": "y", "ph": "X", "ts": 2, "dur": 5, "pid": "p", "tid": "t"},`,
			want: []chromeRow{
				{1000, 1000, 0, 1, "x"},
				{2000, 5000, 0, 1, "y"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := ReadChromeTrace(strings.NewReader(tt.trace), nil)
			if err != nil {
				t.Fatalf("ReadChromeTrace() error = %v", err)
			}
			got := chromeRows(st)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d rows %+v, want %+v", len(got), got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("row %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
			if err := slice.CheckOrder(st, nil); err != nil {
				t.Errorf("imported store violates ordering: %v", err)
			}
		})
	}
}

func TestReadChromeTraceStackIDs(t *testing.T) {
	trace := `[
		{"name": "main", "ph": "X", "ts": 0, "dur": 4, "pid": 1, "tid": 1},
		{"name": "work", "ph": "X", "ts": 1, "dur": 1, "pid": 1, "tid": 1},
		{"name": "main", "ph": "X", "ts": 0, "dur": 4, "pid": 1, "tid": 2},
		{"name": "work", "ph": "X", "ts": 2, "dur": 1, "pid": 1, "tid": 2}
	]`
	st, err := ReadChromeTrace(strings.NewReader(trace), nil)
	if err != nil {
		t.Fatal(err)
	}

	byName := map[string][]slice.Row{}
	for i := range st.RowCount() {
		r := st.Row(i)
		byName[st.Pool().Get(r.Name)] = append(byName[st.Pool().Get(r.Name)], r)
	}
	mains, works := byName["main"], byName["work"]
	if mains[0].StackID != mains[1].StackID || works[0].StackID != works[1].StackID {
		t.Error("equal call paths on different threads should share stack ids")
	}
	if mains[0].ParentStackID != 0 {
		t.Errorf("root parent_stack_id = %d, want 0", mains[0].ParentStackID)
	}
	if works[0].ParentStackID != mains[0].StackID {
		t.Errorf("child parent_stack_id = %d, want %d", works[0].ParentStackID, mains[0].StackID)
	}
	if mains[0].StackID < 0 || works[0].StackID < 0 {
		t.Error("stack ids should be non-negative")
	}
}

func TestReadChromeTraceErrors(t *testing.T) {
	for _, trace := range []string{
		`{"traceEvents": 5}`,
		`not json`,
		`[{"name": "x", "ph": "X", "ts": 0, "dur": -1, "pid": 1, "tid": 1}]`,
	} {
		if _, err := ReadChromeTrace(strings.NewReader(trace), nil); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ReadChromeTrace(%q) error = %v, want INVALID_FORMAT", trace, err)
		}
	}
}
