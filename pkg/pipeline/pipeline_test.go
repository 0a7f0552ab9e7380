package pipeline

import (
	"testing"

	"github.com/matzehuels/tracelayout/pkg/slice"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"ascii", false},
		{"json", false},
		{"svg", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateSource(t *testing.T) {
	for _, ok := range []string{"", "json", "chrome", "mongo"} {
		if err := ValidateSource(ok); err != nil {
			t.Errorf("ValidateSource(%q) error = %v", ok, err)
		}
	}
	if err := ValidateSource("csv"); err == nil {
		t.Error("ValidateSource(csv) should fail")
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Input: "slices.json", Tracks: "1"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Table != DefaultTable {
		t.Errorf("Table = %q, want %q", opts.Table, DefaultTable)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Idempotent.
	opts.Formats = []string{"bogus"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second ValidateAndSetDefaults() error = %v", err)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"no input", Options{}},
		{"bad source", Options{Input: "x", Source: "csv"}},
		{"bad table", Options{Input: "x", Table: "Bad-Name"}},
		{"bad format", Options{Input: "x", Formats: []string{"png"}}},
		{"negative width", Options{Input: "x", Width: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("ValidateAndSetDefaults() should fail")
			}
		})
	}
}

func TestArgument(t *testing.T) {
	st := slice.NewTable(nil)
	for _, id := range []slice.TrackID{4, 2, 4, 9} {
		st.Insert(slice.Row{TrackID: id, Dur: 1})
	}
	ds := &Dataset{Slices: st}

	if got := (&Options{Tracks: "2"}).Argument(ds); got != "2" {
		t.Errorf("Argument() = %q, want 2", got)
	}
	if got := (&Options{Tracks: "2", AllTracks: true}).Argument(ds); got != "4,2,9" {
		t.Errorf("Argument() with AllTracks = %q, want 4,2,9", got)
	}
}

func TestDetectSource(t *testing.T) {
	tests := []struct {
		input string
		data  string
		want  string
	}{
		{"mongodb://localhost/db", "", SourceMongo},
		{"mongodb+srv://cluster/db", "", SourceMongo},
		{"trace.json", `  [{"ph": "X"}]`, SourceChrome},
		{"trace.json", `{"displayTimeUnit": "ns", "traceEvents": []}`, SourceChrome},
		{"slices.json", `{"slices": []}`, SourceJSON},
		{"empty.json", ``, SourceJSON},
	}
	for _, tt := range tests {
		if got := DetectSource(tt.input, []byte(tt.data)); got != tt.want {
			t.Errorf("DetectSource(%q, %q) = %q, want %q", tt.input, tt.data, got, tt.want)
		}
	}
}
