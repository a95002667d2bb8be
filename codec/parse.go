package codec

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strings"
)

// ParseMultipart reads a multipart/form-data body back into a FormData.
// Parts with a filename become Files, the rest Fields, each in body order.
func ParseMultipart(contentType string, body io.Reader) (*FormData, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("multipart: content type: %w", err)
	}
	if !strings.EqualFold(mediaType, ContentTypeFormData) {
		return nil, fmt.Errorf("multipart: unexpected media type %q", mediaType)
	}
	boundary := params["boundary"]
	if boundary == "" {
		return nil, fmt.Errorf("multipart: missing boundary")
	}

	form := NewFormData()
	reader := multipart.NewReader(body, boundary)
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			return form, nil
		}
		if err != nil {
			return nil, fmt.Errorf("multipart: %w", err)
		}

		data, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, fmt.Errorf("multipart: read part %q: %w", part.FormName(), err)
		}

		if name := part.FileName(); name != "" {
			form.Files = append(form.Files, File{
				FieldName:   part.FormName(),
				FileName:    name,
				ContentType: part.Header.Get("Content-Type"),
				Data:        data,
			})
			continue
		}
		form.AddField(part.FormName(), string(data))
	}
}
