package suites

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/xbe-inc/xbe-integration/internal/config"
	"github.com/xbe-inc/xbe-integration/pkg/harness"
	"github.com/xbe-inc/xbe-integration/pkg/invoke"
)

// errNotCreated is returned by the created function before the suite's
// record exists.
var errNotCreated = errors.New("record not created")

// scope is what catalog templates can reach while a suite runs.
type scope struct {
	seeds    config.Seeds
	fixtures map[string]string
	created  invoke.Result
	now      func() time.Time
}

func newScope(seeds config.Seeds, now func() time.Time) *scope {
	return &scope{seeds: seeds, fixtures: map[string]string{}, now: now}
}

func (s *scope) funcs() template.FuncMap {
	return template.FuncMap{
		"uniqueName":  harness.UniqueName,
		"uniqueEmail": harness.UniqueEmail,
		"fixture":     s.fixture,
		"seed":        s.seed,
		"created":     s.createdField,
		"now": func() string {
			return s.now().UTC().Format(time.RFC3339)
		},
		"today": func() string {
			return s.now().UTC().Format(time.DateOnly)
		},
	}
}

func (s *scope) fixture(name string) (string, error) {
	id, ok := s.fixtures[name]
	if !ok {
		return "", fmt.Errorf("fixture %s is not resolved", name)
	}
	return id, nil
}

func (s *scope) seed(name string) (string, error) {
	v, ok := s.seeds.Get(name)
	if !ok {
		return "", s.seeds.Require(name)
	}
	return v, nil
}

// createdField reads a field of the created record, "company_name" or
// ".company_name".
func (s *scope) createdField(field string) (string, error) {
	if s.created.Args == nil {
		return "", errNotCreated
	}
	if !strings.HasPrefix(field, ".") {
		field = "." + field
	}
	v, ok, err := s.created.Get(field)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("created record has no field %s", field)
	}
	return invoke.Stringify(v), nil
}

func (s *scope) render(name, text string) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}
	tmpl, err := template.New(name).Funcs(s.funcs()).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, nil); err != nil {
		return "", unwrapExec(err)
	}
	return b.String(), nil
}

// renderAll renders every value of m, keyed by flag.
func (s *scope) renderAll(kind string, m map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(m))
	for flag, text := range m {
		v, err := s.render(kind+"."+flag, text)
		if err != nil {
			return nil, fmt.Errorf("%s --%s: %w", kind, flag, err)
		}
		out[flag] = v
	}
	return out, nil
}

// unwrapExec returns the error of a template function instead of the
// template.ExecError around it, so errors.Is and errors.As keep working.
func unwrapExec(err error) error {
	var execErr template.ExecError
	if errors.As(err, &execErr) && execErr.Err != nil {
		if inner := errors.Unwrap(execErr.Err); inner != nil {
			return inner
		}
		return execErr.Err
	}
	return err
}
