// Package pipeline runs the load → compute → render pipeline shared by the
// CLI and the HTTP server.
//
// # Stages
//
//  1. Load: read a slice store from a slices JSON file, a Chrome trace or
//     a MongoDB collection
//  2. Compute: query a computed table (by default the slice layout) over
//     the store
//  3. Render: produce ASCII, JSON or SVG artifacts from the table
//
// Each stage is cached by content hash through a [cache.Cache], so repeated
// runs over an unchanged input skip straight to the stored output.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "trace.json",
//	    Tracks:  "1,2",
//	    Formats: []string{"ascii"},
//	})
//	fmt.Print(string(result.Artifacts["ascii"]))
package pipeline

import (
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tracelayout/pkg/cache"
	"github.com/matzehuels/tracelayout/pkg/errors"
	"github.com/matzehuels/tracelayout/pkg/layout"
	"github.com/matzehuels/tracelayout/pkg/render/sink"
	"github.com/matzehuels/tracelayout/pkg/slice"
	"github.com/matzehuels/tracelayout/pkg/table"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultTable is the computed table queried when none is named.
	DefaultTable = layout.TableName

	// DefaultFormat is the output format when none is requested.
	DefaultFormat = sink.FormatASCII
)

// Source kinds.
const (
	SourceAuto   = ""
	SourceJSON   = "json"
	SourceChrome = "chrome"
	SourceMongo  = "mongo"
)

// ValidSources is the set of explicit source kinds.
var ValidSources = map[string]bool{
	SourceJSON:   true,
	SourceChrome: true,
	SourceMongo:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. It serializes to JSON for logging and
// for the server's request echo.
type Options struct {
	// Load options
	Input  string `json:"input"`
	Source string `json:"source,omitempty"`

	// Compute options
	Table string `json:"table,omitempty"`
	// Tracks is the filter_track_ids argument, bound verbatim.
	Tracks string `json:"tracks"`
	// AllTracks binds every track of the store, in first-appearance order,
	// instead of Tracks.
	AllTracks  bool     `json:"all_tracks,omitempty"`
	Where      []string `json:"where,omitempty"`
	Order      []string `json:"order,omitempty"`
	CheckOrder bool     `json:"check_order,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Width   int      `json:"width,omitempty"`

	// Refresh bypasses cached results.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Dataset is a loaded slice store.
type Dataset struct {
	// Source describes where the store came from.
	Source string
	Slices *slice.Table
	// Hash identifies the store's content; it keys computed tables.
	Hash string
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Dataset   *Dataset
	Table     *table.Table
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	Slices      int
	Rows        int
	LoadTime    time.Duration
	ComputeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	LoadHit    bool
	ComputeHit bool
	RenderHit  bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that format is a supported output format.
func ValidateFormat(format string) error {
	if !slices.Contains(sink.Formats, format) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: %s)", format, strings.Join(sink.Formats, ", "))
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSource checks an explicit source kind. The empty kind means
// auto-detect and is valid.
func ValidateSource(kind string) error {
	if kind != SourceAuto && !ValidSources[kind] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid source: %q (must be one of: json, chrome, mongo)", kind)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults validates options for a full run. Calling it more
// than once is harmless.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForCompute(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the load options.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input is required")
	}
	if err := ValidateSource(o.Source); err != nil {
		return err
	}
	o.setLogger()
	return nil
}

// ValidateForCompute sets the compute defaults. The argument itself is
// checked by the table when it is bound.
func (o *Options) ValidateForCompute() error {
	if o.Table == "" {
		o.Table = DefaultTable
	}
	o.setLogger()
	return errors.ValidateTableName(o.Table)
}

// ValidateForRender sets render defaults and checks formats and width.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Width < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width must not be negative")
	}
	o.setLogger()
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Argument returns the filter_track_ids value bound for ds.
func (o *Options) Argument(ds *Dataset) string {
	if !o.AllTracks {
		return o.Tracks
	}
	tracks := ds.Slices.Tracks()
	ids := make([]string, len(tracks))
	for i, id := range tracks {
		ids[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(ids, ",")
}

// TableKeyOpts returns the cache key options for computing over ds.
func (o *Options) TableKeyOpts(ds *Dataset) cache.TableKeyOpts {
	return cache.TableKeyOpts{
		Argument:   o.Argument(ds),
		Where:      o.Where,
		Order:      o.Order,
		CheckOrder: o.CheckOrder,
	}
}

// ArtifactKeyOpts returns the cache key options for rendering format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Width: o.Width}
}
