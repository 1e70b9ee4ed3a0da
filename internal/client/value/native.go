package value

import (
	"reflect"
	"time"
)

// FromNative converts plain Go data into a Value. It never fails: values of
// unsupported types become Fallback.
//
// Every numeric kind maps to Double; use Integer explicitly to send an
// integerValue.
func FromNative(x any) Value {
	return (&converter{}).convert(x)
}

// MapFromNative converts every entry of m with FromNative.
func MapFromNative(m map[string]any) Map {
	return (&converter{}).mapOf(m)
}

// cycleFallback stands in for a container that contains itself.
var cycleFallback = Value{kind: KindFallback, s: "<cycle>"}

type visit struct {
	ptr uintptr
	typ reflect.Type
}

// converter tracks the containers on the current path so self-referencing
// data ends in a Fallback instead of unbounded recursion.
type converter struct {
	active map[visit]struct{}
}

// enter marks rv as being converted. It reports false if rv is already on
// the path.
func (c *converter) enter(rv reflect.Value) (func(), bool) {
	v := visit{ptr: rv.Pointer(), typ: rv.Type()}
	if _, ok := c.active[v]; ok {
		return nil, false
	}
	if c.active == nil {
		c.active = map[visit]struct{}{}
	}
	c.active[v] = struct{}{}
	return func() { delete(c.active, v) }, true
}

func (c *converter) convert(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case time.Time:
		return Timestamp(t)
	case *time.Time:
		if t == nil {
			return Null()
		}
		return Timestamp(*t)
	case float64:
		return Double(t)
	case float32:
		return Double(float64(t))
	case int:
		return Double(float64(t))
	case int8:
		return Double(float64(t))
	case int16:
		return Double(float64(t))
	case int32:
		return Double(float64(t))
	case int64:
		return Double(float64(t))
	case uint:
		return Double(float64(t))
	case uint8:
		return Double(float64(t))
	case uint16:
		return Double(float64(t))
	case uint32:
		return Double(float64(t))
	case uint64:
		return Double(float64(t))
	case Map:
		return MapOf(t)
	case []string:
		out := make([]Value, len(t))
		for i, e := range t {
			out[i] = String(e)
		}
		return Array(out...)
	}
	return c.fromReflect(reflect.ValueOf(x), x)
}

func (c *converter) mapOf(m map[string]any) Map {
	out := make(Map, len(m))
	for k, e := range m {
		out[k] = c.convert(e)
	}
	return out
}

func (c *converter) fromReflect(rv reflect.Value, orig any) Value {
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return Null()
		}
		leave, ok := c.enter(rv)
		if !ok {
			return cycleFallback
		}
		defer leave()
		return c.convert(rv.Elem().Interface())
	case reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return c.convert(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice {
			if rv.IsNil() {
				return Null()
			}
			leave, ok := c.enter(rv)
			if !ok {
				return cycleFallback
			}
			defer leave()
		}
		out := make([]Value, rv.Len())
		for i := range out {
			out[i] = c.convert(rv.Index(i).Interface())
		}
		return Array(out...)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.IsNil() {
			return Null()
		}
		leave, ok := c.enter(rv)
		if !ok {
			return cycleFallback
		}
		defer leave()
		out := make(Map, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = c.convert(iter.Value().Interface())
		}
		return MapOf(out)
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.String:
		return String(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Double(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Double(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return Double(rv.Float())
	}
	return Fallback(orig)
}
