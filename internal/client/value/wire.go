package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Wire tags used by the document store's REST API.
const (
	tagNull      = "nullValue"
	tagBool      = "booleanValue"
	tagInteger   = "integerValue"
	tagDouble    = "doubleValue"
	tagString    = "stringValue"
	tagTimestamp = "timestampValue"
	tagArray     = "arrayValue"
	tagMap       = "mapValue"
)

type arrayWire struct {
	Values []Value `json:"values,omitempty"`
}

type mapWire struct {
	Fields Map `json:"fields,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	var w map[string]any

	switch v.kind {
	case KindNull:
		w = map[string]any{tagNull: nil}
	case KindBool:
		w = map[string]any{tagBool: v.b}
	case KindInteger:
		w = map[string]any{tagInteger: strconv.FormatInt(v.i, 10)}
	case KindDouble:
		w = map[string]any{tagDouble: encodeDouble(v.f)}
	case KindString, KindFallback:
		w = map[string]any{tagString: v.s}
	case KindTimestamp:
		w = map[string]any{tagTimestamp: v.t.UTC().Format(time.RFC3339Nano)}
	case KindArray:
		w = map[string]any{tagArray: arrayWire{Values: v.arr}}
	case KindMap:
		w = map[string]any{tagMap: mapWire{Fields: v.m}}
	default:
		return nil, fmt.Errorf("value: unknown kind %s", v.kind)
	}

	return json.Marshal(w)
}

// encodeDouble keeps non-finite numbers representable in JSON.
func encodeDouble(f float64) any {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return f
}

// UnmarshalJSON decodes one tagged wire value. Tags this package does not
// model (references, geo points, bytes) decode to Null.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("value: %w", err)
	}

	if _, ok := raw[tagNull]; ok {
		*v = Null()
		return nil
	}
	if r, ok := raw[tagBool]; ok {
		var b bool
		if err := json.Unmarshal(r, &b); err != nil {
			return fmt.Errorf("value: %s: %w", tagBool, err)
		}
		*v = Bool(b)
		return nil
	}
	if r, ok := raw[tagInteger]; ok {
		i, err := decodeInteger(r)
		if err != nil {
			return fmt.Errorf("value: %s: %w", tagInteger, err)
		}
		*v = Integer(i)
		return nil
	}
	if r, ok := raw[tagDouble]; ok {
		f, err := decodeDouble(r)
		if err != nil {
			return fmt.Errorf("value: %s: %w", tagDouble, err)
		}
		*v = Double(f)
		return nil
	}
	if r, ok := raw[tagString]; ok {
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			return fmt.Errorf("value: %s: %w", tagString, err)
		}
		*v = String(s)
		return nil
	}
	if r, ok := raw[tagTimestamp]; ok {
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			return fmt.Errorf("value: %s: %w", tagTimestamp, err)
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("value: %s: %w", tagTimestamp, err)
		}
		*v = Timestamp(t)
		return nil
	}
	if r, ok := raw[tagArray]; ok {
		var aw arrayWire
		if err := json.Unmarshal(r, &aw); err != nil {
			return fmt.Errorf("value: %s: %w", tagArray, err)
		}
		*v = Array(aw.Values...)
		return nil
	}
	if r, ok := raw[tagMap]; ok {
		var mw mapWire
		if err := json.Unmarshal(r, &mw); err != nil {
			return fmt.Errorf("value: %s: %w", tagMap, err)
		}
		if mw.Fields == nil {
			mw.Fields = Map{}
		}
		*v = MapOf(mw.Fields)
		return nil
	}

	*v = Null()
	return nil
}

func decodeInteger(r json.RawMessage) (int64, error) {
	if bytes.HasPrefix(r, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			return 0, err
		}
		return strconv.ParseInt(s, 10, 64)
	}
	var n json.Number
	if err := json.Unmarshal(r, &n); err != nil {
		return 0, err
	}
	return n.Int64()
}

func decodeDouble(r json.RawMessage) (float64, error) {
	if bytes.HasPrefix(r, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			return 0, err
		}
		switch s {
		case "NaN":
			return math.NaN(), nil
		case "Infinity":
			return math.Inf(1), nil
		case "-Infinity":
			return math.Inf(-1), nil
		}
		return strconv.ParseFloat(s, 64)
	}
	var f float64
	err := json.Unmarshal(r, &f)
	return f, err
}

// Encode renders v in the wire format.
func Encode(v Value) ([]byte, error) {
	return json.Marshal(v)
}

// Decode parses one wire value.
func Decode(data []byte) (Value, error) {
	var v Value
	err := json.Unmarshal(data, &v)
	return v, err
}
