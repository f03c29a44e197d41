package codec

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2/unstable"
	"github.com/shopspring/decimal"
)

// Decimal is an exact fixed-point number decoded from the literal text of a
// TOML number or numeric string. It never passes through float64.
type Decimal struct {
	decimal.Decimal
}

// NewDecimal wraps an existing decimal value
func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{Decimal: d}
}

// ParseDecimal parses an exact decimal literal
func ParseDecimal(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, NewFormatError("", fmt.Sprintf("%q is not an exact decimal literal", s), err)
	}
	return Decimal{Decimal: d}, nil
}

// MustDecimal is ParseDecimal that panics on error
func MustDecimal(s string) Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

// UnmarshalTOML decodes integers, floats and numeric strings from their
// source text.
func (d *Decimal) UnmarshalTOML(node *unstable.Node) error {
	text := string(node.Data)
	switch node.Kind {
	case unstable.Integer, unstable.Float:
		text = strings.ReplaceAll(text, "_", "")
	case unstable.String:
	default:
		return NewFormatError("", fmt.Sprintf("expected a decimal number, got %s %q", node.Kind, node.Data), nil)
	}

	parsed, err := ParseDecimal(text)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
