package codec

// Common media types.
const (
	ContentTypeJSON        = "application/json"
	ContentTypeYAML        = "application/yaml"
	ContentTypeTOML        = "application/toml"
	ContentTypeText        = "text/plain; charset=utf-8"
	ContentTypeOctetStream = "application/octet-stream"
	ContentTypeFormData    = "multipart/form-data"
)

// Serializer converts a value of T into a body of B.
type Serializer[T, B any] interface {
	Encode(v T) (B, error)
}

// Deserializer converts a response body into R.
type Deserializer[R any] interface {
	Decode(data []byte) (R, error)
}

// SerializerFunc adapts a function to Serializer.
type SerializerFunc[T, B any] func(v T) (B, error)

// Encode calls f(v).
func (f SerializerFunc[T, B]) Encode(v T) (B, error) { return f(v) }

// DeserializerFunc adapts a function to Deserializer.
type DeserializerFunc[R any] func(data []byte) (R, error)

// Decode calls f(data).
func (f DeserializerFunc[R]) Decode(data []byte) (R, error) { return f(data) }

// MediaTyper is implemented by codecs that know the media type they produce.
type MediaTyper interface {
	ContentType() string
}

// ContentTypeOf returns c's media type, or "" if it does not declare one.
func ContentTypeOf(c any) string {
	if m, ok := c.(MediaTyper); ok {
		return m.ContentType()
	}
	return ""
}

type bytesCodec struct{}

// Bytes passes raw bytes through unchanged in both directions.
var Bytes bytesCodec

func (bytesCodec) Encode(v []byte) ([]byte, error) { return v, nil }
func (bytesCodec) Decode(data []byte) ([]byte, error) { return data, nil }
func (bytesCodec) ContentType() string { return ContentTypeOctetStream }

type stringCodec struct{}

// String converts between string values and their UTF-8 bytes.
var String stringCodec

func (stringCodec) Encode(v string) ([]byte, error) { return []byte(v), nil }
func (stringCodec) Decode(data []byte) (string, error) { return string(data), nil }
func (stringCodec) ContentType() string { return ContentTypeText }

// Empty is the result type of endpoints whose response body is ignored.
type Empty struct{}

type discardCodec struct{}

// Discard ignores the response body.
var Discard discardCodec

func (discardCodec) Decode([]byte) (Empty, error) { return Empty{}, nil }
