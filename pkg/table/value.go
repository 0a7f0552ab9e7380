package table

import (
	"cmp"
	"strconv"
)

// Type is the type of a [Value] or of the values a [Column] yields.
type Type int

const (
	TypeNull Type = iota
	TypeLong
	TypeDouble
	TypeString
)

var typeNames = map[Type]string{
	TypeNull:   "null",
	TypeLong:   "long",
	TypeDouble: "double",
	TypeString: "string",
}

// String returns the lowercase name of the type.
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseType is the inverse of [Type.String].
func ParseType(s string) (Type, bool) {
	for t, name := range typeNames {
		if name == s {
			return t, true
		}
	}
	return TypeNull, false
}

// Value is a tagged scalar. Only the field matching Type is meaningful.
type Value struct {
	Type   Type
	Long   int64
	Double float64
	Str    string
}

// Long returns an integer value.
func Long(v int64) Value { return Value{Type: TypeLong, Long: v} }

// Double returns a floating point value.
func Double(v float64) Value { return Value{Type: TypeDouble, Double: v} }

// String returns a string value.
func String(s string) Value { return Value{Type: TypeString, Str: s} }

// Null returns the null value.
func Null() Value { return Value{} }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.Type == TypeNull }

// AsString formats v for display. Null formats as the empty string.
func (v Value) AsString() string {
	switch v.Type {
	case TypeLong:
		return strconv.FormatInt(v.Long, 10)
	case TypeDouble:
		return strconv.FormatFloat(v.Double, 'g', -1, 64)
	case TypeString:
		return v.Str
	}
	return ""
}

// Any returns v as a plain Go value for encoding.
func (v Value) Any() any {
	switch v.Type {
	case TypeLong:
		return v.Long
	case TypeDouble:
		return v.Double
	case TypeString:
		return v.Str
	}
	return nil
}

// Equal reports whether v and o have the same type and value. Longs and
// doubles compare numerically.
func (v Value) Equal(o Value) bool {
	c, ok := v.Compare(o)
	return ok && c == 0
}

// Compare orders v against o. Null sorts before everything, numbers before
// strings. The boolean is false when the values are not comparable for
// filtering (one of them is null, or a number is compared to a string).
func (v Value) Compare(o Value) (int, bool) {
	if v.IsNull() || o.IsNull() {
		return cmp.Compare(rank(v.Type), rank(o.Type)), false
	}
	if v.Type == TypeString || o.Type == TypeString {
		if v.Type != o.Type {
			return cmp.Compare(rank(v.Type), rank(o.Type)), false
		}
		return cmp.Compare(v.Str, o.Str), true
	}
	if v.Type == TypeLong && o.Type == TypeLong {
		return cmp.Compare(v.Long, o.Long), true
	}
	return cmp.Compare(v.float(), o.float()), true
}

func (v Value) float() float64 {
	if v.Type == TypeLong {
		return float64(v.Long)
	}
	return v.Double
}

func rank(t Type) int {
	switch t {
	case TypeNull:
		return 0
	case TypeLong, TypeDouble:
		return 1
	}
	return 2
}
