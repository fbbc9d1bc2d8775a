package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Shape tags which wrapper a list endpoint used.
type Shape int

const (
	ShapeNone Shape = iota
	// ShapeArray is a bare JSON array.
	ShapeArray
	// ShapeKeyed is {"<resource>": [...]} or {"items": [...]}.
	ShapeKeyed
	// ShapeData is {"data": <array or keyed object>}.
	ShapeData
)

func (s Shape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeKeyed:
		return "keyed"
	case ShapeData:
		return "data"
	default:
		return "none"
	}
}

type Envelope struct {
	Shape Shape
	// Key is the object key holding the items for keyed shapes.
	Key   string
	Items []json.RawMessage
}

// Inspect matches payload against the known list wrappers, in order: bare
// array, keyed object, data wrapper. A payload matching none of them is
// ShapeNone with no items.
func Inspect(payload json.RawMessage, resource string) Envelope {
	if env, ok := inspectFlat(payload, resource); ok {
		return env
	}

	obj, ok := asObject(payload)
	if !ok {
		return Envelope{Shape: ShapeNone, Items: []json.RawMessage{}}
	}
	if data, ok := obj["data"]; ok {
		if inner, ok := inspectFlat(data, resource); ok {
			return Envelope{Shape: ShapeData, Key: inner.Key, Items: inner.Items}
		}
	}
	return Envelope{Shape: ShapeNone, Items: []json.RawMessage{}}
}

// Normalize returns the records of a list payload, empty when the shape is
// not recognised.
func Normalize(payload json.RawMessage, resource string) []json.RawMessage {
	return Inspect(payload, resource).Items
}

func DecodeList[T any](payload json.RawMessage, resource string) ([]T, error) {
	items := Normalize(payload, resource)
	out := make([]T, 0, len(items))
	for i, raw := range items {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("failed to decode %s[%d]: %w", resource, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Unwrap strips a {"data": {...}} or {"<key>": {...}} wrapper from a single
// record payload. The payload is returned unchanged when it is not wrapped.
func Unwrap(payload json.RawMessage, keys ...string) json.RawMessage {
	current := payload
	if obj, ok := asObject(current); ok {
		if data, ok := obj["data"]; ok && isObject(data) {
			current = data
		}
	}
	if obj, ok := asObject(current); ok {
		for _, key := range keys {
			if inner, ok := obj[key]; ok && isObject(inner) {
				return inner
			}
		}
	}
	return current
}

func DecodeOne[T any](payload json.RawMessage, keys ...string) (T, error) {
	var v T
	if err := json.Unmarshal(Unwrap(payload, keys...), &v); err != nil {
		return v, fmt.Errorf("failed to decode record: %w", err)
	}
	return v, nil
}

// LookupBool reads a boolean field from a possibly wrapped record payload.
func LookupBool(payload json.RawMessage, field string, keys ...string) (value bool, ok bool) {
	obj, isObj := asObject(Unwrap(payload, keys...))
	if !isObj {
		return false, false
	}
	raw, ok := obj[field]
	if !ok {
		return false, false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return false, false
	}
	return value, true
}

func inspectFlat(payload json.RawMessage, resource string) (Envelope, bool) {
	if arr, ok := asArray(payload); ok {
		return Envelope{Shape: ShapeArray, Items: arr}, true
	}
	obj, ok := asObject(payload)
	if !ok {
		return Envelope{}, false
	}
	for _, key := range []string{resource, "items"} {
		if key == "" {
			continue
		}
		if arr, ok := asArray(obj[key]); ok {
			return Envelope{Shape: ShapeKeyed, Key: key, Items: arr}, true
		}
	}
	return Envelope{}, false
}

func asArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(trimmed, &arr); err != nil {
		return nil, false
	}
	if arr == nil {
		arr = []json.RawMessage{}
	}
	return arr, true
}

func asObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	if !isObject(raw) {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
