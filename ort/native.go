package ort

import (
	"encoding/json"
	"fmt"
	"sort"
)

// DefaultMaxDepth bounds container nesting in parsing, generation and
// native normalization.
const DefaultMaxDepth = 128

// FromNative normalizes a native Go value into a Value.
//
// Supported: nil, bool, Go integer and float kinds, string, json.Number,
// []any, []string, []float64, []int, map[string]any, []Entry, *Value and
// Value. Go maps are unordered, so their keys are sorted. Every Go integer
// kind becomes a float64 number, so ToNative returns float64 where the input
// held an int.
func FromNative(x any) (*Value, error) {
	return fromNative(x, 0, DefaultMaxDepth)
}

// MustFromNative is like FromNative but panics on error. Intended for
// literals in tests and examples.
func MustFromNative(x any) *Value {
	v, err := FromNative(x)
	if err != nil {
		panic(err)
	}
	return v
}

func fromNative(x any, depth, maxDepth int) (*Value, error) {
	if depth > maxDepth {
		return nil, &TypeError{Op: "FromNative", TypeStr: fmt.Sprintf("%T", x), Err: ErrTooDeep}
	}

	switch val := x.(type) {
	case nil:
		return Null(), nil
	case *Value:
		if val == nil {
			return Null(), nil
		}
		return val, nil
	case Value:
		return &val, nil
	case bool:
		return Bool(val), nil
	case string:
		return Str(val), nil
	case float64:
		return Number(val), nil
	case float32:
		return Number(float64(val)), nil
	case int:
		return Number(float64(val)), nil
	case int8:
		return Number(float64(val)), nil
	case int16:
		return Number(float64(val)), nil
	case int32:
		return Number(float64(val)), nil
	case int64:
		return Number(float64(val)), nil
	case uint:
		return Number(float64(val)), nil
	case uint8:
		return Number(float64(val)), nil
	case uint16:
		return Number(float64(val)), nil
	case uint32:
		return Number(float64(val)), nil
	case uint64:
		return Number(float64(val)), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, &TypeError{Op: "FromNative", TypeStr: "json.Number " + val.String(), Err: ErrUnsupportedType}
		}
		return Number(f), nil

	case []any:
		items := make([]*Value, len(val))
		for i, elem := range val {
			v, err := fromNative(elem, depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return &Value{kind: KindArray, arrVal: items}, nil
	case []string:
		items := make([]*Value, len(val))
		for i, s := range val {
			items[i] = Str(s)
		}
		return &Value{kind: KindArray, arrVal: items}, nil
	case []float64:
		items := make([]*Value, len(val))
		for i, f := range val {
			items[i] = Number(f)
		}
		return &Value{kind: KindArray, arrVal: items}, nil
	case []int:
		items := make([]*Value, len(val))
		for i, n := range val {
			items[i] = Number(float64(n))
		}
		return &Value{kind: KindArray, arrVal: items}, nil

	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var ob objectBuilder
		for _, k := range keys {
			v, err := fromNative(val[k], depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			ob.set(k, v)
		}
		return ob.build(), nil
	case []Entry:
		var ob objectBuilder
		for _, e := range val {
			v, err := fromNative(e.Value, depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			ob.set(e.Key, v)
		}
		return ob.build(), nil

	default:
		return nil, &TypeError{Op: "FromNative", TypeStr: fmt.Sprintf("%T", x), Err: ErrUnsupportedType}
	}
}

// ToNative converts v into plain Go values: nil, bool, float64, string,
// []any or map[string]any.
func (v *Value) ToNative() any {
	switch v.Kind() {
	case KindNull:
		return nil
	case KindBool:
		return v.boolVal
	case KindNumber:
		return v.numVal
	case KindString:
		return v.strVal
	case KindArray:
		out := make([]any, len(v.arrVal))
		for i, e := range v.arrVal {
			out[i] = e.ToNative()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.objVal))
		for _, e := range v.objVal {
			out[e.Key] = e.Value.ToNative()
		}
		return out
	default:
		return nil
	}
}
