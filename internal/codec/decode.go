// Package codec decodes TOML documents into typed schemas. Fields whose type
// implements unstable.Unmarshaler (Date, Decimal) decode through their own
// codec; everything else uses go-toml's structural decoding.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
)

var unmarshalerType = reflect.TypeOf((*unstable.Unmarshaler)(nil)).Elem()

// Decode reads a whole TOML document from r and decodes it into v, which
// must be a pointer to a struct.
func Decode(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return DecodeBytes(data, v)
}

// DecodeBytes decodes data into v. Unknown keys, missing keys and values
// rejected by a field codec all fail with *FormatError.
func DecodeBytes(data []byte, v any) error {
	t := reflect.TypeOf(v)
	if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("codec: decode target must be a pointer to a struct, got %T", v)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	dec.EnableUnmarshalerInterface()
	if err := dec.Decode(v); err != nil {
		var fe *FormatError
		if errors.As(err, &fe) && fe.Key == "" {
			return locate(fe, t.Elem(), data)
		}
		return translateError(err)
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return translateError(err)
	}
	return checkPresence(t.Elem(), doc, "")
}

func translateError(err error) error {
	var fe *FormatError
	if errors.As(err, &fe) {
		return fe
	}

	var strictErr *toml.StrictMissingError
	if errors.As(err, &strictErr) && len(strictErr.Errors) > 0 {
		first := strictErr.Errors[0]
		line, col := first.Position()
		return &FormatError{
			Key:     strings.Join(first.Key(), "."),
			Line:    line,
			Column:  col,
			Message: "unknown key",
		}
	}

	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		line, col := decodeErr.Position()
		return &FormatError{
			Key:     strings.Join(decodeErr.Key(), "."),
			Line:    line,
			Column:  col,
			Message: decodeErr.Error(),
		}
	}

	return NewFormatError("", "document does not match the schema", err)
}

// locate fills in where a field codec rejected a value. go-toml reports
// codec errors without a position, so the document is decoded again as a
// plain map and each codec-typed leaf is retried on its own.
func locate(fe *FormatError, t reflect.Type, data []byte) *FormatError {
	located := *fe

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			located.Key = strings.Join(decodeErr.Key(), ".")
			located.Line, located.Column = decodeErr.Position()
		}
		return &located
	}

	located.Key = findRejected(t, doc, "")
	return &located
}

// findRejected returns the path of the first codec-typed leaf under doc
// whose value its codec refuses, or "".
func findRejected(t reflect.Type, doc map[string]any, prefix string) string {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := keyName(field)
		value, ok := doc[name]
		if name == "-" || !ok {
			continue
		}

		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		if rejected := findRejectedValue(field.Type, value, path); rejected != "" {
			return rejected
		}
	}
	return ""
}

func findRejectedValue(t reflect.Type, value any, path string) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if reflect.PointerTo(t).Implements(unmarshalerType) {
		if !leafDecodes(t, value) {
			return path
		}
		return ""
	}

	switch t.Kind() {
	case reflect.Struct:
		if table, ok := value.(map[string]any); ok {
			return findRejected(t, table, path)
		}
	case reflect.Slice, reflect.Array:
		if items, ok := value.([]any); ok {
			for i, item := range items {
				if rejected := findRejectedValue(t.Elem(), item, fmt.Sprintf("%s[%d]", path, i)); rejected != "" {
					return rejected
				}
			}
		}
	}
	return ""
}

// leafDecodes re-encodes a single value and runs it through the codec of t.
func leafDecodes(t reflect.Type, value any) bool {
	single, err := toml.Marshal(map[string]any{"v": value})
	if err != nil {
		return false
	}
	holder := reflect.New(reflect.StructOf([]reflect.StructField{
		{Name: "V", Type: t, Tag: `toml:"v"`},
	}))

	dec := toml.NewDecoder(bytes.NewReader(single))
	dec.EnableUnmarshalerInterface()
	return dec.Decode(holder.Interface()) == nil
}

// checkPresence requires every tagged field of t to be present in doc.
func checkPresence(t reflect.Type, doc map[string]any, prefix string) error {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := keyName(field)
		if name == "-" {
			continue
		}

		path := name
		if prefix != "" {
			path = prefix + "." + name
		}

		value, ok := doc[name]
		if !ok {
			return NewFormatError(path, "missing required key", nil)
		}
		if err := checkValue(field.Type, value, path); err != nil {
			return err
		}
	}
	return nil
}

func checkValue(t reflect.Type, value any, path string) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if reflect.PointerTo(t).Implements(unmarshalerType) {
		return nil
	}

	switch t.Kind() {
	case reflect.Struct:
		if table, ok := value.(map[string]any); ok {
			return checkPresence(t, table, path)
		}
	case reflect.Slice, reflect.Array:
		if items, ok := value.([]any); ok {
			for i, item := range items {
				if err := checkValue(t.Elem(), item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func keyName(field reflect.StructField) string {
	tag := field.Tag.Get("toml")
	if tag == "" {
		return field.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}
