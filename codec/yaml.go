package codec

import (
	"gopkg.in/yaml.v3"
)

// YAML encodes and decodes T with gopkg.in/yaml.v3.
type YAML[T any] struct{}

// Encode marshals v.
func (YAML[T]) Encode(v T) ([]byte, error) {
	return yaml.Marshal(v)
}

// Decode unmarshals data into a new T.
func (YAML[T]) Decode(data []byte) (T, error) {
	var out T
	err := yaml.Unmarshal(data, &out)
	return out, err
}

// ContentType returns application/yaml.
func (YAML[T]) ContentType() string { return ContentTypeYAML }
