// Package helpers implements the formatting functions available to the
// invoice template. Each helper is a pure function of its parameters.
package helpers

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rezonia/invoice-tex/internal/codec"
	money "github.com/rezonia/invoice-tex/internal/decimal"
)

// Helper names as referenced from templates
const (
	NamePLN            = "pln"
	NameMul            = "mul"
	NameInc            = "inc"
	NameEscapeDotSpace = "escape_dot_space"
)

// Helper is a template function taking already-evaluated parameters
type Helper func(params ...any) (string, error)

// Set returns the helpers keyed by template name
func Set() map[string]Helper {
	return map[string]Helper{
		NamePLN:            PLN,
		NameMul:            Mul,
		NameInc:            Inc,
		NameEscapeDotSpace: EscapeDotSpace,
	}
}

// PLN formats one decimal with two fractional digits and a decimal comma.
func PLN(params ...any) (string, error) {
	if err := arity(NamePLN, params, 1); err != nil {
		return "", err
	}
	d, err := decimalParam(NamePLN, params, 0)
	if err != nil {
		return "", err
	}
	return money.FormatPLN(d), nil
}

// Mul renders the exact product of two decimals in canonical form.
func Mul(params ...any) (string, error) {
	if err := arity(NameMul, params, 2); err != nil {
		return "", err
	}
	a, err := decimalParam(NameMul, params, 0)
	if err != nil {
		return "", err
	}
	b, err := decimalParam(NameMul, params, 1)
	if err != nil {
		return "", err
	}
	return money.Mul(a, b).String(), nil
}

// Inc renders n+1 for a non-negative integer n; used for 1-based row numbers.
func Inc(params ...any) (string, error) {
	if err := arity(NameInc, params, 1); err != nil {
		return "", err
	}
	n, err := indexParam(NameInc, params, 0)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(n+1, 10), nil
}

// EscapeDotSpace turns every ". " into ".\ " so LaTeX does not treat the
// period as the end of a sentence.
func EscapeDotSpace(params ...any) (string, error) {
	if err := arity(NameEscapeDotSpace, params, 1); err != nil {
		return "", err
	}
	s, ok := params[0].(string)
	if !ok {
		return "", NewHelperError(NameEscapeDotSpace, 0, fmt.Sprintf("expected text, got %T", params[0]), nil)
	}
	return strings.ReplaceAll(s, ". ", `.\ `), nil
}

func arity(name string, params []any, want int) error {
	if len(params) < want {
		return NewHelperError(name, len(params), "missing parameter", nil)
	}
	if len(params) > want {
		return NewHelperError(name, want, fmt.Sprintf("unexpected parameter (takes %d)", want), nil)
	}
	return nil
}

func decimalParam(name string, params []any, i int) (decimal.Decimal, error) {
	switch v := params[i].(type) {
	case codec.Decimal:
		return v.Decimal, nil
	case *codec.Decimal:
		if v != nil {
			return v.Decimal, nil
		}
	case decimal.Decimal:
		return v, nil
	case *decimal.Decimal:
		if v != nil {
			return *v, nil
		}
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Decimal{}, NewHelperError(name, i, fmt.Sprintf("%q is not a decimal", v), err)
		}
		return d, nil
	}
	return decimal.Decimal{}, NewHelperError(name, i, fmt.Sprintf("expected a decimal, got %T", params[i]), nil)
}

func indexParam(name string, params []any, i int) (uint64, error) {
	if params[i] == nil {
		return 0, NewHelperError(name, i, "expected a non-negative integer, got nil", nil)
	}
	v := reflect.ValueOf(params[i])
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := v.Int()
		if n < 0 {
			return 0, NewHelperError(name, i, fmt.Sprintf("expected a non-negative integer, got %d", n), nil)
		}
		return uint64(n), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if v.Uint() == math.MaxUint64 {
			return 0, NewHelperError(name, i, "integer overflows when incremented", nil)
		}
		return v.Uint(), nil
	}
	return 0, NewHelperError(name, i, fmt.Sprintf("expected a non-negative integer, got %T", params[i]), nil)
}
