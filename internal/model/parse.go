package model

import (
	"bytes"
	"io"

	"github.com/rezonia/invoice-tex/internal/codec"
)

// Parse decodes a TOML invoice document. Any schema mismatch is a
// *codec.FormatError.
func Parse(r io.Reader) (*Invoice, error) {
	var inv Invoice
	if err := codec.Decode(r, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ParseBytes decodes a TOML invoice document from memory
func ParseBytes(data []byte) (*Invoice, error) {
	return Parse(bytes.NewReader(data))
}
