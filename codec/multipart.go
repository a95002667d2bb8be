package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Field is a plain form field.
type Field struct {
	Name  string
	Value string
}

// File is a file part. Reader, when set, takes precedence over Data and is
// consumed by encoding.
type File struct {
	FieldName   string
	FileName    string
	ContentType string
	Data        []byte
	Reader      io.Reader
}

// FormData is an ordered multipart form: every field, then every file.
type FormData struct {
	Fields []Field
	Files  []File
}

// NewFormData returns an empty form.
func NewFormData() *FormData { return &FormData{} }

// AddField appends a text field.
func (f *FormData) AddField(name, value string) *FormData {
	f.Fields = append(f.Fields, Field{Name: name, Value: value})
	return f
}

// AddFile appends an in-memory file part.
func (f *FormData) AddFile(fieldName, fileName, contentType string, data []byte) *FormData {
	f.Files = append(f.Files, File{FieldName: fieldName, FileName: fileName, ContentType: contentType, Data: data})
	return f
}

// AddFileReader appends a file part read from r at encode time.
func (f *FormData) AddFileReader(fieldName, fileName, contentType string, r io.Reader) *FormData {
	f.Files = append(f.Files, File{FieldName: fieldName, FileName: fileName, ContentType: contentType, Reader: r})
	return f
}

// Value returns the first field named name.
func (f *FormData) Value(name string) (string, bool) {
	for _, fd := range f.Fields {
		if fd.Name == name {
			return fd.Value, true
		}
	}
	return "", false
}

// File returns the first file part with the given field name.
func (f *FormData) File(fieldName string) (*File, bool) {
	for i := range f.Files {
		if f.Files[i].FieldName == fieldName {
			return &f.Files[i], true
		}
	}
	return nil, false
}

// Payload is an encoded multipart body together with its content type.
type Payload struct {
	ContentType string
	Body        io.Reader
	// Length is the body size in bytes, or -1 when streamed.
	Length int64
}

// ContentType returns the multipart content type for boundary, with the
// boundary always quoted.
func ContentType(boundary string) string {
	return ContentTypeFormData + `; boundary="` + boundary + `"`
}

// NewBoundary returns a random boundary token.
func NewBoundary() string {
	return multipart.NewWriter(io.Discard).Boundary()
}

// MultipartSerializer encodes a form into memory.
type MultipartSerializer struct{}

// Multipart is the buffered multipart serializer.
var Multipart MultipartSerializer

// Encode writes form under a fresh random boundary.
func (s MultipartSerializer) Encode(form *FormData) (Payload, error) {
	return s.encode(form, NewBoundary())
}

func (MultipartSerializer) encode(form *FormData, boundary string) (Payload, error) {
	var buf bytes.Buffer
	if err := writeForm(&buf, form, boundary); err != nil {
		return Payload{}, err
	}
	return Payload{
		ContentType: ContentType(boundary),
		Body:        bytes.NewReader(buf.Bytes()),
		Length:      int64(buf.Len()),
	}, nil
}

var errNilForm = errors.New("multipart: nil form")

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// writeForm is the single encoder shared by the buffered and streamed serializers.
func writeForm(w io.Writer, form *FormData, boundary string) error {
	if form == nil {
		return errNilForm
	}
	mw := multipart.NewWriter(w)
	if err := mw.SetBoundary(boundary); err != nil {
		return fmt.Errorf("multipart: %w", err)
	}

	for _, f := range form.Fields {
		if err := mw.WriteField(f.Name, f.Value); err != nil {
			return fmt.Errorf("multipart: field %q: %w", f.Name, err)
		}
	}

	for _, file := range form.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(file.FieldName), quoteEscaper.Replace(file.FileName)))
		ct := file.ContentType
		if ct == "" {
			ct = ContentTypeOctetStream
		}
		h.Set("Content-Type", ct)

		part, err := mw.CreatePart(h)
		if err != nil {
			return fmt.Errorf("multipart: file %q: %w", file.FieldName, err)
		}
		if file.Reader != nil {
			_, err = io.Copy(part, file.Reader)
		} else {
			_, err = part.Write(file.Data)
		}
		if err != nil {
			return fmt.Errorf("multipart: file %q: %w", file.FieldName, err)
		}
	}

	return mw.Close()
}
