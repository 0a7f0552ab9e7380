package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/tracelayout/pkg/errors"
	"github.com/matzehuels/tracelayout/pkg/layout"
	"github.com/matzehuels/tracelayout/pkg/pipeline"
	"github.com/matzehuels/tracelayout/pkg/render/sink"
)

var contentTypes = map[string]string{
	sink.FormatASCII: "text/plain; charset=utf-8",
	sink.FormatJSON:  "application/json",
	sink.FormatSVG:   "image/svg+xml",
}

type healthResponse struct {
	Status string `json:"status"`
	Source string `json:"source"`
	Slices int    `json:"slices"`
}

type trackResponse struct {
	TrackID  uint32 `json:"track_id"`
	Slices   int    `json:"slices"`
	MaxDepth uint32 `json:"max_depth"`
	Start    int64  `json:"start"`
	End      int64  `json:"end"`
}

type columnResponse struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Hidden bool   `json:"hidden,omitempty"`
}

type tableResponse struct {
	Name     string           `json:"name"`
	Argument string           `json:"argument"`
	Columns  []columnResponse `json:"columns"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Source: s.dataset.Source,
		Slices: s.dataset.Slices.RowCount(),
	})
}

func (s *Server) handleTracks(w http.ResponseWriter, r *http.Request) {
	summaries := s.dataset.Slices.Summaries()
	out := make([]trackResponse, len(summaries))
	for i, sum := range summaries {
		out[i] = trackResponse{
			TrackID:  uint32(sum.TrackID),
			Slices:   sum.Slices,
			MaxDepth: sum.MaxDepth,
			Start:    sum.Start,
			End:      sum.End,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	var out []tableResponse
	for _, name := range s.tables.Names() {
		gen, err := s.tables.Lookup(name)
		if err != nil {
			continue
		}
		schema := gen.Schema()
		tr := tableResponse{
			Name:     name,
			Argument: schema[gen.ArgumentColumn()].Name,
			Columns:  make([]columnResponse, len(schema)),
		}
		for i, c := range schema {
			tr.Columns[i] = columnResponse{Name: c.Name, Type: c.Type.String(), Hidden: c.Hidden}
		}
		out = append(out, tr)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Input:      s.dataset.Source,
		Table:      chi.URLParam(r, "name"),
		Tracks:     q.Get(layout.ColFilterTrackIDs),
		AllTracks:  parseBool(q.Get("all_tracks")),
		Where:      q["where"],
		Order:      q["order"],
		CheckOrder: s.checkOrder,
		Logger:     s.logger,
	}
	if !q.Has(layout.ColFilterTrackIDs) && !opts.AllTracks {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidArgument, "%s is required", layout.ColFilterTrackIDs))
		return
	}

	format := q.Get("format")
	if format == "" {
		format = sink.FormatJSON
	}
	opts.Formats = []string{format}
	if v := q.Get("width"); v != "" {
		width, err := strconv.Atoi(v)
		if err != nil {
			s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "width %q", v))
			return
		}
		opts.Width = width
	}
	if err := opts.ValidateForRender(); err != nil {
		s.fail(w, r, err)
		return
	}

	t, err := s.runner.Compute(r.Context(), s.dataset, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	artifacts, err := s.runner.Render(r.Context(), t, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Row-Count", strconv.Itoa(t.RowCount()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func parseBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}
