package value

import (
	"fmt"
	"math"
	"time"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindDouble
	KindString
	KindTimestamp
	KindArray
	KindMap
	KindFallback
)

var kindNames = [...]string{
	KindNull:      "null",
	KindBool:      "bool",
	KindInteger:   "integer",
	KindDouble:    "double",
	KindString:    "string",
	KindTimestamp: "timestamp",
	KindArray:     "array",
	KindMap:       "map",
	KindFallback:  "fallback",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Map is a set of named fields, as stored in a document or a nested map value.
type Map map[string]Value

// Value is one document field value. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	t    time.Time
	arr  []Value
	m    Map
}

func Null() Value                 { return Value{} }
func Bool(b bool) Value           { return Value{kind: KindBool, b: b} }
func Integer(i int64) Value       { return Value{kind: KindInteger, i: i} }
func Double(f float64) Value      { return Value{kind: KindDouble, f: f} }
func String(s string) Value       { return Value{kind: KindString, s: s} }
func Array(vs ...Value) Value     { return Value{kind: KindArray, arr: vs} }
func MapOf(m Map) Value           { return Value{kind: KindMap, m: m} }
func Timestamp(t time.Time) Value { return Value{kind: KindTimestamp, t: t.UTC()} }

// Fallback wraps a value of a type the store cannot represent. It is kept as
// its fmt.Sprint string.
func Fallback(v any) Value {
	return Value{kind: KindFallback, s: fmt.Sprint(v)}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInteger
}

// AsFloat reports the numeric value of a Double or an Integer.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindDouble:
		return v.f, true
	case KindInteger:
		return float64(v.i), true
	}
	return 0, false
}

// AsString reports the text of a String or a Fallback.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString || v.kind == KindFallback
}

func (v Value) AsTime() (time.Time, bool) {
	return v.t, v.kind == KindTimestamp
}

func (v Value) AsArray() ([]Value, bool) {
	return v.arr, v.kind == KindArray
}

func (v Value) AsMap() (Map, bool) {
	return v.m, v.kind == KindMap
}

// Native converts v to plain Go data: nil, bool, int64, float64, string,
// time.Time, []any or map[string]any.
func (v Value) Native() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInteger:
		return v.i
	case KindDouble:
		return v.f
	case KindString, KindFallback:
		return v.s
	case KindTimestamp:
		return v.t
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Native()
		}
		return out
	case KindMap:
		return v.m.Native()
	}
	return nil
}

func (m Map) Native() map[string]any {
	out := make(map[string]any, len(m))
	for k, e := range m {
		out[k] = e.Native()
	}
	return out
}

// Equal reports deep equality. Timestamps compare by instant and NaN equals NaN.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInteger:
		return a.i == b.i
	case KindDouble:
		if math.IsNaN(a.f) && math.IsNaN(b.f) {
			return true
		}
		return a.f == b.f
	case KindString, KindFallback:
		return a.s == b.s
	case KindTimestamp:
		return a.t.Equal(b.t)
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return EqualMaps(a.m, b.m)
	}
	return false
}

func EqualMaps(a, b Map) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindTimestamp:
		return v.t.Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v.Native())
}
