// Package patch provides request field wrappers that remember whether a JSON
// key was present, so partial updates can tell "absent" from "null".
package patch

import (
	"bytes"
	"encoding/json"
)

// Field holds an optional value decoded from a JSON object member.
//
// Set is true when the key appeared in the document. Null is true when the
// key appeared with a JSON null. Value is only meaningful when Set && !Null.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Of returns a Field that is present with the given value.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a Field that is present with a JSON null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Present reports whether the field carries a non-null value.
func (f Field[T]) Present() bool {
	return f.Set && !f.Null
}

// Ptr returns nil for an absent or null field, otherwise a pointer to a copy
// of the value.
func (f Field[T]) Ptr() *T {
	if !f.Present() {
		return nil
	}
	v := f.Value
	return &v
}

// Apply writes the field into dst when it was set. A null clears dst.
func Apply[T any](f Field[T], dst **T) {
	if !f.Set {
		return
	}
	*dst = f.Ptr()
}
