package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/tracelayout/pkg/errors"
	"github.com/matzehuels/tracelayout/pkg/slice"
	"github.com/matzehuels/tracelayout/pkg/strpool"
)

// ReadJSON decodes the slices JSON format from r into a new store whose
// names are interned in pool. A nil pool gets a fresh one.
//
// ReadJSON returns an errors.ErrCodeInvalidFormat error if the JSON is
// malformed or a row has a negative duration. It does not close r.
func ReadJSON(r io.Reader, pool *strpool.Pool) (*slice.Table, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode slices")
	}

	t := slice.NewTable(pool)
	for i, rec := range data.Slices {
		if rec.Dur < 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "slice %d (%s): negative dur %d", i, rec.Name, rec.Dur)
		}
		t.Insert(rec.Row(t.Pool()))
	}
	return t, nil
}

// ImportJSON reads the slices JSON file at path.
func ImportJSON(path string, pool *strpool.Pool) (*slice.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadJSON(f, pool)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
