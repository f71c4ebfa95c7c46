package jsonapi

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/xbe-inc/xbe-integration/internal/util"
)

// RefSeparator splits the type and id of a polymorphic reference, e.g. "Broker|123".
const RefSeparator = "|"

// ParseRef parses a polymorphic reference. The type part may be a class name
// ("JobProductionPlan"), a resource name ("job-production-plans") or its
// underscored form; it is normalized to the JSON:API type name.
func ParseRef(s string) (ResourceIdentifier, error) {
	typ, id, ok := strings.Cut(s, RefSeparator)
	typ = strings.TrimSpace(typ)
	id = strings.TrimSpace(id)
	if !ok || typ == "" || id == "" || strings.Contains(id, RefSeparator) {
		return ResourceIdentifier{}, fmt.Errorf("invalid reference %q: expected Type|ID (e.g. Broker|123)", s)
	}
	return ResourceIdentifier{Type: TypeName(typ), ID: id}, nil
}

// FormatRef renders an identifier as "ClassName|id".
func FormatRef(ri ResourceIdentifier) string {
	return util.ClassName(ri.Type) + RefSeparator + ri.ID
}

func IsRef(s string) bool {
	_, err := ParseRef(s)
	return err == nil
}

// TypeName normalizes a class or resource name to the plural dasherized type.
func TypeName(s string) string {
	if s == "" {
		return s
	}
	if unicode.IsUpper([]rune(s)[0]) {
		return util.ResourceName(s)
	}
	s = util.Dasherize(s)
	if strings.HasSuffix(s, "s") {
		return s
	}
	return util.Pluralize(s)
}
