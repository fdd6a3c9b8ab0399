// Package normalize provides small, pure helpers for cleaning request input
// before it reaches a store.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Text trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(s)
}

// Shape says which JSON shapes Sequence accepts for a field.
type Shape int

const (
	// OneOrMany accepts either a single value or an array of values.
	OneOrMany Shape = iota
	// ManyOnly accepts only an array; any other shape yields an empty slice.
	ManyOnly
)

// Sequence turns a raw JSON field into an ordered slice.
//
//   - absent, null, or an empty/blank string → empty slice
//   - an array → its elements, in order (an element of the wrong type is an error)
//   - a single value (OneOrMany only) → a one-element slice
//   - a single value of the wrong type → empty slice
//
// The result is never nil so it encodes as [] rather than null.
func Sequence[T any](raw json.RawMessage, shape Shape) ([]T, error) {
	out := []T{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return out, nil
	}

	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &out); err != nil {
			return []T{}, err
		}
		if out == nil {
			out = []T{}
		}
		return out, nil
	}

	if shape == ManyOnly {
		return out, nil
	}

	var one T
	if err := json.Unmarshal(raw, &one); err != nil {
		return out, nil
	}
	if s, ok := any(one).(string); ok && strings.TrimSpace(s) == "" {
		return out, nil
	}
	return append(out, one), nil
}

// Present reports whether a raw JSON field was supplied at all. A literal
// null counts as present.
func Present(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) > 0
}

// IsNull reports whether a raw JSON field is the literal null.
func IsNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// ErrWrongType reports an optional field that holds the wrong JSON type.
var ErrWrongType = errors.New("normalize: wrong JSON type")

// OptionalString decodes a field that may be absent. Absent and null yield
// nil; any other non-string value is ErrWrongType.
func OptionalString(raw json.RawMessage) (*string, error) {
	if !Present(raw) || IsNull(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, ErrWrongType
	}
	return &s, nil
}

// OptionalNumber decodes a numeric field that may be absent. Absent yields
// nil; null, strings and every other non-number are ErrWrongType.
func OptionalNumber(raw json.RawMessage) (*float64, error) {
	if !Present(raw) {
		return nil, nil
	}
	raw = bytes.TrimSpace(raw)
	if raw[0] != '-' && (raw[0] < '0' || raw[0] > '9') {
		return nil, ErrWrongType
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, ErrWrongType
	}
	return &f, nil
}
