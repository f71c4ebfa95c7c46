package util

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
)

// Contains checks if a slice contains a specific string
func Contains(slice []string, val string) bool {
	return slices.Contains(slice, val)
}

// Ptr returns a pointer to the given value
func Ptr[T any](v T) *T {
	return &v
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Underscore turns a dasherized JSON:API member name into the snake case
// used by the CLI JSON output: "start-at" -> "start_at".
func Underscore(s string) string {
	return strings.ReplaceAll(s, "-", "_")
}

// Dasherize is the inverse of Underscore.
func Dasherize(s string) string {
	return strings.ReplaceAll(s, "_", "-")
}

// Singularize strips the plural suffix of a resource name:
// "material-sites" -> "material-site", "efficiency-incidents" -> "efficiency-incident".
func Singularize(s string) string {
	switch {
	case strings.HasSuffix(s, "ies"):
		return strings.TrimSuffix(s, "ies") + "y"
	case strings.HasSuffix(s, "sses"), strings.HasSuffix(s, "xes"):
		return strings.TrimSuffix(s, "es")
	case strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss"):
		return strings.TrimSuffix(s, "s")
	default:
		return s
	}
}

// ClassName converts a resource name into the type name used in polymorphic
// references: "material-sites" -> "MaterialSite".
func ClassName(resource string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(Singularize(resource), func(r rune) bool { return r == '-' || r == '_' }) {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// ResourceName converts a class name back to its plural dasherized resource
// name: "MaterialSite" -> "material-sites".
func ResourceName(className string) string {
	var b strings.Builder
	for i, r := range className {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return Pluralize(b.String())
}

// Pluralize is the inverse of Singularize for the names used by the API.
func Pluralize(s string) string {
	switch {
	case s == "":
		return s
	case strings.HasSuffix(s, "y") && !strings.HasSuffix(s, "ey") && !strings.HasSuffix(s, "ay"):
		return strings.TrimSuffix(s, "y") + "ies"
	case strings.HasSuffix(s, "s"), strings.HasSuffix(s, "x"):
		return s + "es"
	default:
		return s + "s"
	}
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
