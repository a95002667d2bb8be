package codec

import (
	"encoding/json"
)

// JSON encodes and decodes T with encoding/json.
type JSON[T any] struct{}

// JSONOf returns the JSON codec for T.
func JSONOf[T any]() JSON[T] { return JSON[T]{} }

// Encode marshals v.
func (JSON[T]) Encode(v T) ([]byte, error) {
	return json.Marshal(v)
}

// Decode unmarshals data into a new T.
func (JSON[T]) Decode(data []byte) (T, error) {
	var out T
	err := json.Unmarshal(data, &out)
	return out, err
}

// ContentType returns application/json.
func (JSON[T]) ContentType() string { return ContentTypeJSON }
