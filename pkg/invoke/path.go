package invoke

import (
	"fmt"
	"strconv"
	"strings"
)

type step struct {
	key     string
	index   int
	isIndex bool
}

// Lookup evaluates a jq-style path such as ".", ".id", ".[0].id",
// ".data.attributes[\"company-name\"]" or ".items[-1]". The leading dot is
// optional.
func Lookup(doc any, path string) (any, bool, error) {
	steps, err := parsePath(path)
	if err != nil {
		return nil, false, err
	}
	cur := doc
	for _, s := range steps {
		if s.isIndex {
			arr, ok := cur.([]any)
			if !ok {
				return nil, false, nil
			}
			i := s.index
			if i < 0 {
				i += len(arr)
			}
			if i < 0 || i >= len(arr) {
				return nil, false, nil
			}
			cur = arr[i]
			continue
		}
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false, nil
		}
		cur, ok = obj[s.key]
		if !ok {
			return nil, false, nil
		}
	}
	return cur, true, nil
}

func parsePath(path string) ([]step, error) {
	p := strings.TrimSpace(path)
	if p == "" || p == "." {
		return nil, nil
	}
	if p[0] != '.' && p[0] != '[' {
		p = "." + p
	}

	var steps []step
	i := 0
	for i < len(p) {
		switch p[i] {
		case '.':
			i++
			if i < len(p) && p[i] == '[' {
				continue
			}
			start := i
			for i < len(p) && p[i] != '.' && p[i] != '[' {
				i++
			}
			if start == i {
				return nil, fmt.Errorf("invalid path %q: empty key at offset %d", path, start)
			}
			steps = append(steps, step{key: p[start:i]})
		case '[':
			end := strings.IndexByte(p[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("invalid path %q: unterminated [", path)
			}
			inner := p[i+1 : i+end]
			i += end + 1
			if len(inner) >= 2 && inner[0] == '"' && inner[len(inner)-1] == '"' {
				steps = append(steps, step{key: inner[1 : len(inner)-1]})
				continue
			}
			n, err := strconv.Atoi(inner)
			if err != nil {
				return nil, fmt.Errorf("invalid path %q: bad index %q", path, inner)
			}
			steps = append(steps, step{index: n, isIndex: true})
		default:
			return nil, fmt.Errorf("invalid path %q: unexpected %q at offset %d", path, p[i], i)
		}
	}
	return steps, nil
}
