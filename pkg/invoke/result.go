package invoke

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xbe-inc/xbe-integration/internal/util"
)

// Result is everything observable about one invocation.
type Result struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	// StatusCode is the HTTP status behind a failure when it is known (api mode).
	StatusCode int
	// APIErrors holds "title: detail" for each JSON:API error object.
	APIErrors []string
	Duration  time.Duration
	// Err is set when the command could not run at all (missing binary, timeout).
	Err error

	cache *jsonCache
}

type jsonCache struct {
	once sync.Once
	doc  any
	err  error
}

func newResult(args []string) Result {
	return Result{Args: args, cache: &jsonCache{}}
}

func (r Result) Success() bool {
	return r.ExitCode == 0 && r.Err == nil
}

// Output is stdout and stderr together, the text failure patterns are matched against.
func (r Result) Output() string {
	switch {
	case r.Stdout == "":
		return r.Stderr
	case r.Stderr == "":
		return r.Stdout
	default:
		return r.Stdout + "\n" + r.Stderr
	}
}

func (r Result) Command() string {
	return "xbe " + strings.Join(r.Args, " ")
}

// Excerpt returns the first non-empty line of the output, truncated to n runes.
func (r Result) Excerpt(n int) string {
	for _, line := range strings.Split(r.Output(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return util.Truncate(line, n)
		}
	}
	if r.Err != nil {
		return util.Truncate(r.Err.Error(), n)
	}
	return ""
}

// JSON parses stdout. Numbers are kept as json.Number.
func (r Result) JSON() (any, error) {
	if r.cache == nil {
		return parseJSON(r.Stdout)
	}
	r.cache.once.Do(func() {
		r.cache.doc, r.cache.err = parseJSON(r.Stdout)
	})
	return r.cache.doc, r.cache.err
}

// Get evaluates a jq-style path against the parsed output. A path that does
// not resolve yields (nil, false, nil); only unparsable output or a malformed
// path is an error.
func (r Result) Get(path string) (any, bool, error) {
	doc, err := r.JSON()
	if err != nil {
		return nil, false, err
	}
	return Lookup(doc, path)
}

// GetString is Get rendered as text; "" when the path does not resolve.
func (r Result) GetString(path string) string {
	v, ok, err := r.Get(path)
	if err != nil || !ok {
		return ""
	}
	return Stringify(v)
}

func (r Result) Category() Category {
	return DefaultTolerations().Classify(r)
}

var errEmptyOutput = errors.New("empty output")

func parseJSON(s string) (any, error) {
	data := bytes.TrimSpace([]byte(s))
	if len(data) == 0 {
		return nil, errEmptyOutput
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return doc, nil
}

// Stringify renders a decoded JSON value the way jq -r would.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
