package codec

import (
	"strings"
	"testing"
)

type product struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Age  string `json:"age" yaml:"age" toml:"age"`
}

func TestBytesAndString(t *testing.T) {
	in := []byte{0, 1, 2, 255}
	out, _ := Bytes.Encode(in)
	back, _ := Bytes.Decode(out)
	if string(back) != string(in) {
		t.Errorf("bytes codec changed data: %v", back)
	}

	b, _ := String.Encode("héllo")
	s, _ := String.Decode(b)
	if s != "héllo" {
		t.Errorf("string codec = %q", s)
	}
	if ContentTypeOf(String) != ContentTypeText || ContentTypeOf(Discard) != "" {
		t.Error("unexpected media types")
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	c := JSONOf[product]()
	p := product{Name: "Alien ", Age: "5 month"}

	data, err := c.Encode(p)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(data) != `{"name":"Alien ","age":"5 month"}` {
		t.Errorf("json = %s", data)
	}
	got, err := c.Decode(data)
	if err != nil || got != p {
		t.Errorf("Decode = %+v, %v", got, err)
	}
	if c.ContentType() != "application/json" {
		t.Errorf("content type = %q", c.ContentType())
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		dec  Deserializer[product]
		data string
	}{
		{"json", JSON[product]{}, `{"name":`},
		{"json empty", JSON[product]{}, ``},
		{"yaml", YAML[product]{}, "name: [unclosed"},
		{"toml", TOML[product]{}, "name = "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.dec.Decode([]byte(tt.data)); err == nil {
				t.Error("expected decode error")
			}
		})
	}
}

func TestJSON_EncodeError(t *testing.T) {
	if _, err := (JSON[chan int]{}).Encode(make(chan int)); err == nil {
		t.Error("expected error encoding a channel")
	}
}

func TestYAMLAndTOML_RoundTrip(t *testing.T) {
	p := product{Name: "Alien", Age: "5 month"}
	codecs := map[string]interface {
		Serializer[product, []byte]
		Deserializer[product]
	}{
		"yaml": YAML[product]{},
		"toml": TOML[product]{},
	}
	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			data, err := c.Encode(p)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if !strings.Contains(string(data), "5 month") {
				t.Errorf("encoded %s", data)
			}
			got, err := c.Decode(data)
			if err != nil || got != p {
				t.Errorf("Decode = %+v, %v", got, err)
			}
		})
	}
}

func TestFuncAdapters(t *testing.T) {
	ser := SerializerFunc[int, []byte](func(v int) ([]byte, error) { return []byte{byte(v)}, nil })
	dec := DeserializerFunc[int](func(b []byte) (int, error) { return int(b[0]), nil })
	b, _ := ser.Encode(7)
	v, _ := dec.Decode(b)
	if v != 7 {
		t.Errorf("round trip = %d", v)
	}
}
