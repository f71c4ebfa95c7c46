package services

import (
	"slices"
	"strconv"
	"strings"

	"github.com/xbe-inc/xbe-integration/internal/catalog"
	"github.com/xbe-inc/xbe-integration/internal/models"
	srvErrors "github.com/xbe-inc/xbe-integration/pkg/errors"
	"github.com/xbe-inc/xbe-integration/pkg/jsonapi"
)

// matchesAll applies the list filters understood by the API:
//
//	q=<text>            any string attribute contains text
//	<relationship>=<v>  linked id, or Type|ID for polymorphic links; comma separated values match any
//	<attribute>=<v>     equal value; strings match case-insensitive substrings
//	<attribute>-min=<v> value >= v (numbers numerically, everything else lexically)
//	<attribute>-max=<v> value <= v
//	has-<attribute>=<b> attribute set and not blank
func matchesAll(res *catalog.Resource, r models.Record, filters map[string]string) (bool, error) {
	for name, value := range filters {
		ok, err := matches(res, r, name, value)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matches(res *catalog.Resource, r models.Record, name, value string) (bool, error) {
	if name == "q" {
		needle := strings.ToLower(value)
		for _, v := range r.Attributes {
			if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), needle) {
				return true, nil
			}
		}
		return false, nil
	}

	if rel, ok := res.RelationshipByName(name); ok {
		return matchesRelationship(rel, r.Relationships[name], value)
	}

	if _, ok := res.AttributeByName(name); ok {
		v, set := r.Attributes[name]
		if !set || v == nil {
			return false, nil
		}
		if s, isString := v.(string); isString {
			return strings.Contains(strings.ToLower(s), strings.ToLower(value)), nil
		}
		return strings.EqualFold(text(v), value), nil
	}

	for _, suffix := range []string{"-min", "-max"} {
		base, found := strings.CutSuffix(name, suffix)
		if !found {
			continue
		}
		if _, ok := res.AttributeByName(base); !ok {
			break
		}
		v, set := r.Attributes[base]
		if !set || v == nil {
			return false, nil
		}
		c := compare(text(v), value)
		if suffix == "-min" {
			return c >= 0, nil
		}
		return c <= 0, nil
	}

	if base, found := strings.CutPrefix(name, "has-"); found {
		if _, ok := res.AttributeByName(base); ok {
			want, err := strconv.ParseBool(value)
			if err != nil {
				return false, srvErrors.NewUsageError("invalid value %q for filter %s", value, name)
			}
			v := r.Attributes[base]
			has := v != nil && text(v) != ""
			return has == want, nil
		}
	}

	return false, srvErrors.NewUsageError("unknown filter %s", name)
}

func matchesRelationship(rel *catalog.Relationship, linkage jsonapi.Relationship, value string) (bool, error) {
	var linked []jsonapi.ResourceIdentifier
	if many, ok := linkage.Many(); ok {
		linked = many
	} else if one, ok := linkage.One(); ok {
		linked = []jsonapi.ResourceIdentifier{one}
	}

	for _, want := range strings.Split(value, ",") {
		want = strings.TrimSpace(want)
		if want == "" {
			continue
		}
		var target jsonapi.ResourceIdentifier
		if jsonapi.IsRef(want) {
			ri, err := jsonapi.ParseRef(want)
			if err != nil {
				return false, srvErrors.NewUsageError("invalid filter %s: %v", rel.Name, err)
			}
			target = ri
		} else {
			target = jsonapi.ResourceIdentifier{ID: want}
		}
		for _, ri := range linked {
			if ri.ID == target.ID && (target.Type == "" || ri.Type == target.Type) {
				return true, nil
			}
		}
	}
	return false, nil
}

// compare orders two values numerically when both are numbers.
func compare(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// sortRecords orders by the given fields ("-" for descending), then by id.
func sortRecords(records []models.Record, fields []string) error {
	for _, f := range fields {
		if strings.TrimPrefix(strings.TrimSpace(f), "-") == "" {
			return srvErrors.NewUsageError("invalid sort %q", strings.Join(fields, ","))
		}
	}

	slices.SortStableFunc(records, func(a, b models.Record) int {
		for _, f := range fields {
			f = strings.TrimSpace(f)
			desc := strings.HasPrefix(f, "-")
			f = strings.TrimPrefix(f, "-")

			c := compare(sortKey(a, f), sortKey(b, f))
			if desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return compare(a.ID, b.ID)
	})
	return nil
}

func sortKey(r models.Record, field string) string {
	switch field {
	case "id":
		return r.ID
	case "created-at":
		return r.CreatedAt.UTC().Format("2006-01-02T15:04:05.000000000Z")
	case "updated-at":
		return r.UpdatedAt.UTC().Format("2006-01-02T15:04:05.000000000Z")
	default:
		return text(r.Attributes[field])
	}
}
