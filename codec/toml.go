package codec

import (
	"github.com/pelletier/go-toml/v2"
)

// TOML encodes and decodes T with pelletier/go-toml. T must be a struct or map.
type TOML[T any] struct{}

// Encode marshals v.
func (TOML[T]) Encode(v T) ([]byte, error) {
	return toml.Marshal(v)
}

// Decode unmarshals data into a new T.
func (TOML[T]) Decode(data []byte) (T, error) {
	var out T
	err := toml.Unmarshal(data, &out)
	return out, err
}

// ContentType returns application/toml.
func (TOML[T]) ContentType() string { return ContentTypeTOML }
