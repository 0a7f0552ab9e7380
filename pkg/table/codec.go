package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/tracelayout/pkg/errors"
)

type jsonTable struct {
	Name    string       `json:"name"`
	Columns []jsonColumn `json:"columns"`
	Rows    [][]any      `json:"rows"`
}

type jsonColumn struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// MarshalJSON encodes the table as
//
//	{"name": "...", "columns": [{"name": "ts", "type": "long"}, ...], "rows": [[1, ...], ...]}
//
// Interned strings are resolved, so the encoding is independent of any pool.
func (t *Table) MarshalJSON() ([]byte, error) {
	out := jsonTable{
		Name:    t.name,
		Columns: make([]jsonColumn, len(t.columns)),
		Rows:    make([][]any, t.rows),
	}
	for i, c := range t.columns {
		out.Columns[i] = jsonColumn{Name: c.Name(), Type: c.Type().String()}
	}
	for r := range t.rows {
		row := make([]any, len(t.columns))
		for i, c := range t.columns {
			row[i] = c.Get(r).Any()
		}
		out.Rows[r] = row
	}
	return json.Marshal(out)
}

// WriteJSON writes the table's JSON encoding to w.
func WriteJSON(w io.Writer, t *Table) error {
	data, err := t.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// DecodeJSON is the inverse of [Table.MarshalJSON]. String columns decode to
// [TextColumn], long columns to [Int64Column], double columns to
// [DoubleColumn].
func DecodeJSON(data []byte) (*Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var in jsonTable
	if err := dec.Decode(&in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode table")
	}

	cols := make([]Column, len(in.Columns))
	for i, jc := range in.Columns {
		typ, ok := ParseType(jc.Type)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "column %q: unknown type %q", jc.Name, jc.Type)
		}
		col, err := decodeColumn(jc.Name, typ, i, in.Rows)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "column %q", jc.Name)
		}
		cols[i] = col
	}
	return New(in.Name, cols...)
}

func decodeColumn(name string, typ Type, idx int, rows [][]any) (Column, error) {
	cell := func(r int) (any, error) {
		if idx >= len(rows[r]) {
			return nil, fmt.Errorf("row %d has %d cells", r, len(rows[r]))
		}
		return rows[r][idx], nil
	}

	switch typ {
	case TypeLong:
		data := make([]int64, len(rows))
		for r := range rows {
			v, err := cell(r)
			if err != nil {
				return nil, err
			}
			n, ok := v.(json.Number)
			if !ok {
				return nil, fmt.Errorf("row %d: want number, got %T", r, v)
			}
			if data[r], err = n.Int64(); err != nil {
				return nil, fmt.Errorf("row %d: %w", r, err)
			}
		}
		return NewInt64Column(name, data), nil
	case TypeDouble:
		data := make([]float64, len(rows))
		for r := range rows {
			v, err := cell(r)
			if err != nil {
				return nil, err
			}
			n, ok := v.(json.Number)
			if !ok {
				return nil, fmt.Errorf("row %d: want number, got %T", r, v)
			}
			if data[r], err = n.Float64(); err != nil {
				return nil, fmt.Errorf("row %d: %w", r, err)
			}
		}
		return NewDoubleColumn(name, data), nil
	default:
		data := make([]string, len(rows))
		for r := range rows {
			v, err := cell(r)
			if err != nil {
				return nil, err
			}
			if v == nil {
				continue
			}
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("row %d: want string, got %T", r, v)
			}
			data[r] = s
		}
		return NewTextColumn(name, data), nil
	}
}
