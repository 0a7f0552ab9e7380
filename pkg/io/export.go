package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/tracelayout/pkg/slice"
	"github.com/matzehuels/tracelayout/pkg/strpool"
)

type document struct {
	Slices []Record `json:"slices"`
}

// Record is the serialized form of one slice, shared by the JSON format and
// document stores.
type Record struct {
	Ts            int64         `json:"ts" bson:"ts"`
	Dur           int64         `json:"dur" bson:"dur"`
	Depth         uint32        `json:"depth" bson:"depth"`
	TrackID       slice.TrackID `json:"track_id" bson:"track_id"`
	Name          string        `json:"name" bson:"name"`
	StackID       int64         `json:"stack_id,omitempty" bson:"stack_id,omitempty"`
	ParentStackID int64         `json:"parent_stack_id,omitempty" bson:"parent_stack_id,omitempty"`
}

// Row interns the record's name in pool and returns the store row.
func (r Record) Row(pool *strpool.Pool) slice.Row {
	return slice.Row{
		Ts:            r.Ts,
		Dur:           r.Dur,
		Depth:         r.Depth,
		TrackID:       r.TrackID,
		Name:          pool.Intern(r.Name),
		StackID:       r.StackID,
		ParentStackID: r.ParentStackID,
	}
}

// NewRecord resolves row i of t.
func NewRecord(t *slice.Table, i int) Record {
	r := t.Row(i)
	return Record{
		Ts:            r.Ts,
		Dur:           r.Dur,
		Depth:         r.Depth,
		TrackID:       r.TrackID,
		Name:          t.Pool().Get(r.Name),
		StackID:       r.StackID,
		ParentStackID: r.ParentStackID,
	}
}

// WriteJSON encodes t in the slices JSON format and writes it to w.
func WriteJSON(t *slice.Table, w io.Writer) error {
	out := document{Slices: make([]Record, t.RowCount())}
	for i := range out.Slices {
		out.Slices[i] = NewRecord(t, i)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes t to a JSON file at path.
func ExportJSON(t *slice.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(t, f)
}
