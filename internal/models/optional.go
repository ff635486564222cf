package models

import (
	"bytes"
	"encoding/json"
)

// Optional is a value that may never have been recorded. The zero value is
// absent. A present empty slice is not the same as an absent one.
type Optional[T any] struct {
	value   T
	present bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the held value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Optional[T]) Present() bool {
	return o.present
}

// OrElse returns the held value, or def when absent.
func (o Optional[T]) OrElse(def T) T {
	if !o.present {
		return def
	}
	return o.value
}

// MarshalJSON writes null when absent.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
