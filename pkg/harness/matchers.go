package harness

import (
	"encoding/json"
	"fmt"

	"github.com/xbe-inc/xbe-integration/pkg/invoke"
)

// Matcher checks a parsed JSON document and describes the mismatch.
type Matcher func(doc any) error

func IsArray() Matcher {
	return func(doc any) error {
		if _, ok := doc.([]any); !ok {
			return fmt.Errorf("expected JSON array, got %s", kindOf(doc))
		}
		return nil
	}
}

func IsObject() Matcher {
	return func(doc any) error {
		if _, ok := doc.(map[string]any); !ok {
			return fmt.Errorf("expected JSON object, got %s", kindOf(doc))
		}
		return nil
	}
}

// Has requires path to resolve to a non-null value.
func Has(path string) Matcher {
	return func(doc any) error {
		v, err := lookup(doc, path)
		if err != nil {
			return err
		}
		if v == nil {
			return fmt.Errorf("%s is null", path)
		}
		return nil
	}
}

// Equals compares the value at path rendered as text.
func Equals(path, expected string) Matcher {
	return func(doc any) error {
		v, err := lookup(doc, path)
		if err != nil {
			return err
		}
		if got := invoke.Stringify(v); got != expected {
			return fmt.Errorf("%s: expected %q, got %q", path, expected, got)
		}
		return nil
	}
}

func Bool(path string, expected bool) Matcher {
	return func(doc any) error {
		v, err := lookup(doc, path)
		if err != nil {
			return err
		}
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%s: expected boolean %t, got %s", path, expected, kindOf(v))
		}
		if b != expected {
			return fmt.Errorf("%s: expected %t, got %t", path, expected, b)
		}
		return nil
	}
}

func Length(path string, n int) Matcher {
	return func(doc any) error {
		arr, err := array(doc, path)
		if err != nil {
			return err
		}
		if len(arr) != n {
			return fmt.Errorf("%s: expected %d elements, got %d", path, n, len(arr))
		}
		return nil
	}
}

// LengthAtMost bounds the size of the top level array.
func LengthAtMost(n int) Matcher {
	return func(doc any) error {
		arr, err := array(doc, ".")
		if err != nil {
			return err
		}
		if len(arr) > n {
			return fmt.Errorf("expected at most %d elements, got %d", n, len(arr))
		}
		return nil
	}
}

// AnyEquals requires some element of the top level array to have field
// equal to value.
func AnyEquals(field, value string) Matcher {
	return func(doc any) error {
		arr, err := array(doc, ".")
		if err != nil {
			return err
		}
		for _, el := range arr {
			v, ok, err := invoke.Lookup(el, field)
			if err != nil {
				return err
			}
			if ok && invoke.Stringify(v) == value {
				return nil
			}
		}
		return fmt.Errorf("no element with %s == %q among %d", field, value, len(arr))
	}
}

func lookup(doc any, path string) (any, error) {
	v, ok, err := invoke.Lookup(doc, path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s not found", path)
	}
	return v, nil
}

func array(doc any, path string) ([]any, error) {
	v, err := lookup(doc, path)
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected array, got %s", path, kindOf(v))
	}
	return arr, nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
