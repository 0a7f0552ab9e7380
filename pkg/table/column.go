package table

import (
	"github.com/matzehuels/tracelayout/pkg/strpool"
)

// Column is a named, typed list of values.
type Column interface {
	Name() string
	Type() Type
	Len() int
	// Get returns the value at row.
	Get(row int) Value
	// Select returns a new column holding the given rows, in the given order.
	Select(rows []int) Column
}

// Int64Column holds signed 64-bit integers.
type Int64Column struct {
	name string
	data []int64
}

// NewInt64Column wraps data. The column takes ownership of the slice.
func NewInt64Column(name string, data []int64) *Int64Column {
	return &Int64Column{name: name, data: data}
}

func (c *Int64Column) Name() string      { return c.name }
func (c *Int64Column) Type() Type        { return TypeLong }
func (c *Int64Column) Len() int          { return len(c.data) }
func (c *Int64Column) Get(row int) Value { return Long(c.data[row]) }
func (c *Int64Column) Values() []int64   { return c.data }
func (c *Int64Column) Select(rows []int) Column {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = c.data[r]
	}
	return NewInt64Column(c.name, out)
}

// Uint32Column holds unsigned 32-bit integers such as depths and track ids.
type Uint32Column struct {
	name string
	data []uint32
}

// NewUint32Column wraps data. The column takes ownership of the slice.
func NewUint32Column(name string, data []uint32) *Uint32Column {
	return &Uint32Column{name: name, data: data}
}

func (c *Uint32Column) Name() string      { return c.name }
func (c *Uint32Column) Type() Type        { return TypeLong }
func (c *Uint32Column) Len() int          { return len(c.data) }
func (c *Uint32Column) Get(row int) Value { return Long(int64(c.data[row])) }
func (c *Uint32Column) Values() []uint32  { return c.data }
func (c *Uint32Column) Select(rows []int) Column {
	out := make([]uint32, len(rows))
	for i, r := range rows {
		out[i] = c.data[r]
	}
	return NewUint32Column(c.name, out)
}

// StringColumn holds interned string handles resolved through a pool.
type StringColumn struct {
	name string
	pool *strpool.Pool
	data []strpool.ID
}

// NewStringColumn wraps handles from pool. The column takes ownership of
// the slice; the pool is shared.
func NewStringColumn(name string, pool *strpool.Pool, data []strpool.ID) *StringColumn {
	return &StringColumn{name: name, pool: pool, data: data}
}

func (c *StringColumn) Name() string         { return c.name }
func (c *StringColumn) Type() Type           { return TypeString }
func (c *StringColumn) Len() int             { return len(c.data) }
func (c *StringColumn) Get(row int) Value    { return String(c.pool.Get(c.data[row])) }
func (c *StringColumn) Values() []strpool.ID { return c.data }
func (c *StringColumn) Pool() *strpool.Pool  { return c.pool }
func (c *StringColumn) Select(rows []int) Column {
	out := make([]strpool.ID, len(rows))
	for i, r := range rows {
		out[i] = c.data[r]
	}
	return NewStringColumn(c.name, c.pool, out)
}

// TextColumn holds plain strings. Decoded tables and per-call values that
// must not touch a shared pool use it.
type TextColumn struct {
	name string
	data []string
}

// NewTextColumn wraps data. The column takes ownership of the slice.
func NewTextColumn(name string, data []string) *TextColumn {
	return &TextColumn{name: name, data: data}
}

// RepeatText returns a column of n copies of s.
func RepeatText(name, s string, n int) *TextColumn {
	data := make([]string, n)
	for i := range data {
		data[i] = s
	}
	return NewTextColumn(name, data)
}

func (c *TextColumn) Name() string      { return c.name }
func (c *TextColumn) Type() Type        { return TypeString }
func (c *TextColumn) Len() int          { return len(c.data) }
func (c *TextColumn) Get(row int) Value { return String(c.data[row]) }
func (c *TextColumn) Values() []string  { return c.data }
func (c *TextColumn) Select(rows []int) Column {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = c.data[r]
	}
	return NewTextColumn(c.name, out)
}

// DoubleColumn holds floating point values. Decoded tables use it for
// columns whose JSON values are not integral.
type DoubleColumn struct {
	name string
	data []float64
}

// NewDoubleColumn wraps data. The column takes ownership of the slice.
func NewDoubleColumn(name string, data []float64) *DoubleColumn {
	return &DoubleColumn{name: name, data: data}
}

func (c *DoubleColumn) Name() string      { return c.name }
func (c *DoubleColumn) Type() Type        { return TypeDouble }
func (c *DoubleColumn) Len() int          { return len(c.data) }
func (c *DoubleColumn) Get(row int) Value { return Double(c.data[row]) }
func (c *DoubleColumn) Values() []float64 { return c.data }
func (c *DoubleColumn) Select(rows []int) Column {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = c.data[r]
	}
	return NewDoubleColumn(c.name, out)
}

var (
	_ Column = (*Int64Column)(nil)
	_ Column = (*Uint32Column)(nil)
	_ Column = (*StringColumn)(nil)
	_ Column = (*TextColumn)(nil)
	_ Column = (*DoubleColumn)(nil)
)
