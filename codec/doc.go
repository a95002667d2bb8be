// Package codec defines how request bodies are serialized and response
// bodies deserialized.
//
// A Serializer[T, B] turns a value of T into a body of B; a Deserializer[R]
// turns response bytes into R. The stock codecs hold no state and are safe
// for concurrent use:
//
//	codec.Bytes             // []byte <-> []byte
//	codec.String            // string <-> []byte
//	codec.JSON[Product]{}   // encoding/json
//	codec.YAML[Product]{}   // gopkg.in/yaml.v3
//	codec.TOML[Product]{}   // pelletier/go-toml/v2
//	codec.Multipart         // *FormData -> buffered multipart body
//	codec.MultipartStream{} // *FormData -> multipart body produced on a goroutine
//
// Codecs return plain errors; callers classify them.
package codec
