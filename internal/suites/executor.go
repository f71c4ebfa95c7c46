package suites

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xbe-inc/xbe-integration/internal/catalog"
	"github.com/xbe-inc/xbe-integration/internal/config"
	"github.com/xbe-inc/xbe-integration/internal/util"
	srvErrors "github.com/xbe-inc/xbe-integration/pkg/errors"
	"github.com/xbe-inc/xbe-integration/pkg/harness"
	"github.com/xbe-inc/xbe-integration/pkg/invoke"
)

// maxFixtureDepth bounds fixtures that need fixtures of their own.
const maxFixtureDepth = 4

// unknownID is an id no xbe resource uses.
const unknownID = "0"

// Executor turns catalog entries into CRUD suites.
type Executor struct {
	catalog     *catalog.Catalog
	inv         invoke.Invoker
	seeds       config.Seeds
	out         io.Writer
	now         func() time.Time
	harnessOpts []harness.Option
}

type Option func(*Executor)

func WithSeeds(seeds config.Seeds) Option {
	return func(e *Executor) {
		e.seeds = seeds
	}
}

func WithOutput(w io.Writer) Option {
	return func(e *Executor) {
		e.out = w
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Executor) {
		e.now = now
	}
}

// WithHarnessOptions are applied to the harness of every suite.
func WithHarnessOptions(opts ...harness.Option) Option {
	return func(e *Executor) {
		e.harnessOpts = append(e.harnessOpts, opts...)
	}
}

func NewExecutor(cat *catalog.Catalog, inv invoke.Invoker, opts ...Option) *Executor {
	e := &Executor{
		catalog: cat,
		inv:     inv,
		seeds:   config.Seeds{},
		out:     os.Stdout,
		now:     time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Run executes the suite of res and returns its summary once cleanup is done.
func (e *Executor) Run(ctx context.Context, res *catalog.Resource) harness.Summary {
	return e.run(ctx, res, e.out)
}

func (e *Executor) run(ctx context.Context, res *catalog.Resource, out io.Writer) harness.Summary {
	opts := append([]harness.Option{harness.WithOutput(out), harness.WithClock(e.now)}, e.harnessOpts...)
	h := harness.New(res.Name, e.inv, opts...)

	s := &suite{
		res:      res,
		catalog:  e.catalog,
		h:        h,
		scope:    newScope(e.seeds, e.now),
		singular: res.Singular(),
		log:      zap.S().Named("suites").With("suite", res.Name),
	}
	s.run(ctx)

	return h.Run(ctx)
}

// suite is the state of one running suite.
type suite struct {
	res      *catalog.Resource
	catalog  *catalog.Catalog
	h        *harness.Harness
	scope    *scope
	singular string
	log      *zap.SugaredLogger

	createValues map[string]string
	createdID    string
}

func (s *suite) run(ctx context.Context) {
	s.h.Describe(s.res.Describe)

	if err := s.scope.seeds.Require(s.res.RequiresSeeds...); err != nil {
		s.h.Test("prerequisites")
		s.h.Skip(err.Error())
		return
	}

	if !s.resolveFixtures(ctx) {
		return
	}

	steps := []func(context.Context){
		s.create,
		s.createEchoesAttributes,
		s.createWithoutRequired,
		s.show,
		s.showUnknown,
		s.list,
		s.listFiltered,
		s.update,
		s.updateWithoutFields,
		s.delete,
	}
	for _, step := range steps {
		if s.h.Stopped() || ctx.Err() != nil {
			s.log.Infow("suite stopped early", "error", ctx.Err())
			return
		}
		step(ctx)
	}
}

// resolveFixtures fills scope.fixtures from seeds or by creating records.
// It records a case and returns false when the suite cannot go on.
func (s *suite) resolveFixtures(ctx context.Context) bool {
	for _, f := range s.res.Fixtures {
		err := s.resolveFixture(ctx, f, 0)
		if err == nil {
			continue
		}
		if !errors.Is(err, errFixtureRecorded) {
			s.h.Test("fixture " + f.Name)
			if srvErrors.IsMissingSeedError(err) {
				s.h.Skip(err.Error())
			} else {
				s.h.Fail(err.Error())
			}
		}
		return false
	}
	return true
}

// errFixtureRecorded means the fixture's own test case already holds the outcome.
var errFixtureRecorded = errors.New("fixture outcome recorded")

func (s *suite) resolveFixture(ctx context.Context, f catalog.Fixture, depth int) error {
	if _, ok := s.scope.fixtures[f.Name]; ok {
		return nil
	}
	if f.Seed != "" {
		if id, ok := s.scope.seeds.Get(f.Seed); ok {
			s.scope.fixtures[f.Name] = id
			return nil
		}
	}
	if f.Resource == "" {
		return srvErrors.NewMissingSeedError(f.Seed)
	}
	if depth >= maxFixtureDepth {
		return srvErrors.NewSuiteDefinitionError(s.res.Name, "fixture %s nests deeper than %d", f.Name, maxFixtureDepth)
	}

	fr, ok := s.catalog.Get(f.Resource)
	if !ok {
		return srvErrors.NewSuiteDefinitionError(s.res.Name, "fixture %s uses unknown resource %s", f.Name, f.Resource)
	}
	for _, nested := range fr.Fixtures {
		if err := s.resolveFixture(ctx, nested, depth+1); err != nil {
			return err
		}
	}

	values := make(map[string]string, len(fr.Create.Values)+len(f.Values))
	for k, v := range fr.Create.Values {
		values[k] = v
	}
	for k, v := range f.Values {
		values[k] = v
	}
	rendered, err := s.scope.renderAll("fixture "+f.Name, values)
	if err != nil {
		return srvErrors.NewSuiteDefinitionError(s.res.Name, "%v", err)
	}

	s.h.Test(fmt.Sprintf("create %s fixture %s", fr.Singular(), f.Name))
	res := s.h.JSON(ctx, createArgs(fr, rendered)...)
	if s.h.SkipIfTolerated(res, s.res.Tolerate...) {
		return errFixtureRecorded
	}
	if !s.h.AssertJSON(res, harness.IsObject(), harness.Has(".id")) {
		return errFixtureRecorded
	}

	id := res.GetString(".id")
	s.scope.fixtures[f.Name] = id
	if fr.Delete {
		s.h.RegisterCleanup(fr.Name, id)
	}
	s.log.Debugw("fixture created", "fixture", f.Name, "resource", fr.Name, "id", id)
	return nil
}

func (s *suite) create(ctx context.Context) {
	s.h.Test(fmt.Sprintf("create %s with required fields", s.singular))

	values, err := s.scope.renderAll("create", s.res.Create.Values)
	if err != nil {
		s.h.Fail(err.Error())
		return
	}
	s.createValues = values

	res := s.h.JSON(ctx, createArgs(s.res, values)...)
	if s.h.SkipIfTolerated(res, s.res.Tolerate...) {
		return
	}
	if !s.h.AssertJSON(res, harness.IsObject(), harness.Has(".id")) {
		return
	}

	s.createdID = res.GetString(".id")
	s.scope.created = res
	if s.res.Delete {
		s.h.RegisterCleanup(s.res.Name, s.createdID)
	}
}

// createEchoesAttributes checks the generated unique values sent on create
// come back unchanged.
func (s *suite) createEchoesAttributes(_ context.Context) {
	var matchers []harness.Matcher
	for _, flag := range util.SortedKeys(s.createValues) {
		attr, ok := s.res.AttributeByFlag(flag)
		if !ok || attr.Kind != catalog.KindString || !strings.Contains(s.res.Create.Values[flag], "uniqueName") {
			continue
		}
		matchers = append(matchers, harness.Equals("."+util.Underscore(attr.Name), s.createValues[flag]))
	}
	if len(matchers) == 0 {
		return
	}

	s.h.Test(fmt.Sprintf("created %s echoes its attributes", s.singular))
	if !s.requireCreated() {
		return
	}
	s.h.AssertJSON(s.scope.created, matchers...)
}

func (s *suite) createWithoutRequired(ctx context.Context) {
	if s.createValues == nil {
		return
	}
	for _, flag := range s.res.Create.Required {
		if s.h.Stopped() {
			return
		}
		s.h.Test(fmt.Sprintf("create %s without --%s fails", s.singular, flag))

		values := make(map[string]string, len(s.createValues))
		for k, v := range s.createValues {
			if k != flag {
				values[k] = v
			}
		}
		res := s.h.JSON(ctx, createArgs(s.res, values)...)
		if res.Success() {
			if id := res.GetString(".id"); id != "" && s.res.Delete {
				s.h.RegisterCleanup(s.res.Name, id)
			}
		}
		s.h.AssertFailure(res)
	}
}

func (s *suite) show(ctx context.Context) {
	s.h.Test("show " + s.singular)
	if !s.requireCreated() {
		return
	}

	fn := func(ctx context.Context) invoke.Result {
		return s.h.JSON(ctx, "view", s.res.Name, "show", s.createdID)
	}
	var res invoke.Result
	if s.res.Eventual {
		res = s.h.Eventually(ctx, fn, invoke.Result.Success)
	} else {
		res = s.h.RetryTransient(ctx, fn)
	}
	if s.h.SkipIfTolerated(res, s.res.Tolerate...) {
		return
	}
	s.h.AssertJSON(res, harness.IsObject(), harness.Equals(".id", s.createdID))
}

func (s *suite) showUnknown(ctx context.Context) {
	s.h.Test(fmt.Sprintf("show unknown %s fails", s.singular))
	s.h.AssertFailure(s.h.JSON(ctx, "view", s.res.Name, "show", unknownID))
}

func (s *suite) list(ctx context.Context) {
	cases := []struct {
		name     string
		args     []string
		matchers []harness.Matcher
	}{
		{"list " + s.res.Name, nil, []harness.Matcher{harness.IsArray()}},
		{"list " + s.res.Name + " --limit 1", []string{"--limit", "1"}, []harness.Matcher{harness.IsArray(), harness.LengthAtMost(1)}},
		{"list " + s.res.Name + " --offset 1", []string{"--limit", "1", "--offset", "1"}, []harness.Matcher{harness.IsArray(), harness.LengthAtMost(1)}},
	}
	if s.res.List.Sort != "" {
		cases = append(cases, struct {
			name     string
			args     []string
			matchers []harness.Matcher
		}{"list " + s.res.Name + " --sort " + s.res.List.Sort, []string{"--sort", s.res.List.Sort}, []harness.Matcher{harness.IsArray()}})
	}

	for _, tc := range cases {
		if s.h.Stopped() {
			return
		}
		s.h.Test(tc.name)
		args := append([]string{"view", s.res.Name, "list"}, tc.args...)
		res := s.h.RetryTransient(ctx, func(ctx context.Context) invoke.Result {
			return s.h.JSON(ctx, args...)
		})
		if s.h.SkipIfTolerated(res, s.res.Tolerate...) {
			continue
		}
		s.h.AssertJSON(res, tc.matchers...)
	}
}

func (s *suite) listFiltered(ctx context.Context) {
	for _, flag := range util.SortedKeys(s.res.List.Filters) {
		if s.h.Stopped() {
			return
		}
		s.h.Test(fmt.Sprintf("list %s filtered by --%s", s.res.Name, flag))

		value, err := s.scope.render("filter."+flag, s.res.List.Filters[flag])
		if errors.Is(err, errNotCreated) {
			s.h.Skip(fmt.Sprintf("requires a created %s", s.singular))
			continue
		}
		if err != nil {
			s.h.Fail(err.Error())
			continue
		}

		fn := func(ctx context.Context) invoke.Result {
			return s.h.JSON(ctx, "view", s.res.Name, "list", "--"+flag, value)
		}
		matchers := []harness.Matcher{harness.IsArray()}

		var res invoke.Result
		if s.createdID != "" && util.Contains(s.res.List.MatchCreated, flag) {
			found := harness.AnyEquals(".id", s.createdID)
			matchers = append(matchers, found)
			if s.res.Eventual {
				res = s.h.Eventually(ctx, fn, func(r invoke.Result) bool {
					doc, err := r.JSON()
					return err == nil && found(doc) == nil
				})
			}
		}
		if res.Args == nil {
			res = s.h.RetryTransient(ctx, fn)
		}

		if s.h.SkipIfTolerated(res, s.res.Tolerate...) {
			continue
		}
		s.h.AssertJSON(res, matchers...)
	}
}

func (s *suite) update(ctx context.Context) {
	if len(s.res.Update.Values) == 0 {
		return
	}
	s.h.Test("update " + s.singular)
	if !s.requireCreated() {
		return
	}

	values, err := s.scope.renderAll("update", s.res.Update.Values)
	if err != nil {
		s.h.Fail(err.Error())
		return
	}
	expect, err := s.scope.renderAll("expect", s.res.Update.Expect)
	if err != nil {
		s.h.Fail(err.Error())
		return
	}

	res := s.h.JSON(ctx, updateArgs(s.res, s.createdID, values)...)
	if s.h.SkipIfTolerated(res, s.res.Tolerate...) {
		return
	}

	matchers := []harness.Matcher{harness.IsObject(), harness.Equals(".id", s.createdID)}
	for _, path := range util.SortedKeys(expect) {
		matchers = append(matchers, harness.Equals(path, expect[path]))
	}
	s.h.AssertJSON(res, matchers...)
}

func (s *suite) updateWithoutFields(ctx context.Context) {
	s.h.Test(fmt.Sprintf("update %s without fields fails", s.singular))
	if !s.requireCreated() {
		return
	}
	s.h.AssertFailureContains(s.h.Exec(ctx, "do", s.res.Name, "update", s.createdID), "no fields to update")
}

func (s *suite) delete(ctx context.Context) {
	if !s.res.Delete {
		return
	}

	s.h.Test(fmt.Sprintf("delete %s without --confirm fails", s.singular))
	if !s.requireCreated() {
		return
	}
	s.h.AssertFailure(s.h.Exec(ctx, "do", s.res.Name, "delete", s.createdID))

	if s.h.Stopped() {
		return
	}
	s.h.Test("delete " + s.singular)
	res := s.h.Exec(ctx, "do", s.res.Name, "delete", s.createdID, "--confirm")
	if !s.h.AssertSuccessOrSkip(res, s.res.Tolerate...) {
		return
	}
	s.h.ForgetCleanup(s.res.Name, s.createdID)

	if s.res.Eventual {
		return
	}
	s.h.Test(fmt.Sprintf("show deleted %s fails", s.singular))
	s.h.AssertFailure(s.h.JSON(ctx, "view", s.res.Name, "show", s.createdID))
}

// requireCreated skips the open case when the create step did not produce
// a record.
func (s *suite) requireCreated() bool {
	if s.createdID != "" {
		return true
	}
	s.h.Skip(fmt.Sprintf("requires a created %s", s.singular))
	return false
}

func createArgs(res *catalog.Resource, values map[string]string) []string {
	return append([]string{"do", res.Name, "create"}, flagArgs(values)...)
}

func updateArgs(res *catalog.Resource, id string, values map[string]string) []string {
	return append([]string{"do", res.Name, "update", id}, flagArgs(values)...)
}

func flagArgs(values map[string]string) []string {
	args := make([]string, 0, 2*len(values))
	for _, flag := range util.SortedKeys(values) {
		args = append(args, "--"+flag, values[flag])
	}
	return args
}
