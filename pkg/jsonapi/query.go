package jsonapi

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Query builds the list parameters understood by the API.
type Query struct {
	values url.Values
}

func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

func (q *Query) Limit(n int) *Query {
	q.values.Set("page[limit]", strconv.Itoa(n))
	return q
}

func (q *Query) Offset(n int) *Query {
	q.values.Set("page[offset]", strconv.Itoa(n))
	return q
}

// Filter adds filter[name]=value. Range (-min/-max) and presence (is-<field>)
// filters are plain names on the wire and pass through unchanged.
func (q *Query) Filter(name, value string) *Query {
	q.values.Set(fmt.Sprintf("filter[%s]", name), value)
	return q
}

// Sort accepts fields with an optional "-" prefix for descending order.
func (q *Query) Sort(fields ...string) *Query {
	if len(fields) > 0 {
		q.values.Set("sort", strings.Join(fields, ","))
	}
	return q
}

func (q *Query) Include(relationships ...string) *Query {
	if len(relationships) > 0 {
		q.values.Set("include", strings.Join(relationships, ","))
	}
	return q
}

func (q *Query) Values() url.Values {
	if q == nil {
		return url.Values{}
	}
	return q.values
}

func (q *Query) Encode() string {
	if q == nil {
		return ""
	}
	return q.values.Encode()
}

// ListParams is the server side view of a list query.
type ListParams struct {
	Limit   int
	Offset  int
	Filters map[string]string
	Sort    []string
}

// ParseListParams reads page[limit], page[offset], filter[...] and sort.
// A missing or zero limit falls back to defaultLimit.
func ParseListParams(values url.Values, defaultLimit int) (ListParams, error) {
	p := ListParams{Limit: defaultLimit, Filters: map[string]string{}}

	if v := values.Get("page[limit]"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, fmt.Errorf("invalid page[limit] %q", v)
		}
		if n > 0 {
			p.Limit = n
		}
	}
	if v := values.Get("page[offset]"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, fmt.Errorf("invalid page[offset] %q", v)
		}
		p.Offset = n
	}
	if v := values.Get("sort"); v != "" {
		p.Sort = strings.Split(v, ",")
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.HasPrefix(k, "filter[") && strings.HasSuffix(k, "]") {
			name := strings.TrimSuffix(strings.TrimPrefix(k, "filter["), "]")
			p.Filters[name] = values.Get(k)
		}
	}
	return p, nil
}
