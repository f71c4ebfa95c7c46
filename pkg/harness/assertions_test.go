package harness_test

import (
	"bytes"
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xbe-inc/xbe-integration/pkg/harness"
	"github.com/xbe-inc/xbe-integration/pkg/invoke"
	"github.com/xbe-inc/xbe-integration/test"
)

var _ = Describe("Assertions", func() {
	var h *harness.Harness

	BeforeEach(func() {
		h = harness.New("assertions", test.NewMockInvoker(), harness.WithOutput(&bytes.Buffer{}))
		h.Test("case")
	})

	lastCase := func() harness.TestCase {
		s := h.Run(context.Background())
		Expect(s.Cases).To(HaveLen(1))
		return s.Cases[0]
	}

	Context("exit status", func() {
		It("passes success after exit 0", func() {
			Expect(h.AssertSuccess(test.Success(""))).To(BeTrue())
			Expect(lastCase().Outcome).To(Equal(harness.OutcomePassed))
		})

		It("fails success after a non-zero exit with the error excerpt", func() {
			Expect(h.AssertSuccess(test.Failure(2, "Error: boom\nmore"))).To(BeFalse())
			c := lastCase()
			Expect(c.Outcome).To(Equal(harness.OutcomeFailed))
			Expect(c.Message).To(Equal("expected success, got exit 2: Error: boom"))
		})

		It("passes failure after a non-zero exit", func() {
			Expect(h.AssertFailure(test.Failure(1, ""))).To(BeTrue())
		})

		It("fails failure after exit 0", func() {
			Expect(h.AssertFailure(test.Success("{}"))).To(BeFalse())
			Expect(lastCase().Message).To(Equal("expected failure, command succeeded"))
		})

		It("checks the failure output", func() {
			Expect(h.AssertFailureContains(test.Failure(1, `Error: required flag(s) "broker" not set`), "required flag")).To(BeTrue())
		})

		It("fails a failure without the expected output", func() {
			Expect(h.AssertFailureContains(test.Failure(1, "Error: boom"), "422", "Record Invalid")).To(BeFalse())
			Expect(lastCase().Message).To(ContainSubstring(`"422" or "Record Invalid"`))
		})
	})

	Context("tolerated failures", func() {
		It("skips a policy refusal", func() {
			Expect(h.AssertSuccessOrSkip(test.APIFailure(403, "Error: 403 Forbidden"))).To(BeFalse())
			c := lastCase()
			Expect(c.Outcome).To(Equal(harness.OutcomeSkipped))
			Expect(c.Message).To(HavePrefix("tolerated policy failure"))
		})

		It("skips a failure matching an extra pattern", func() {
			h.AssertSuccessOrSkip(test.Failure(1, "Error: filter unsupported"), "unsupported")
			Expect(lastCase().Outcome).To(Equal(harness.OutcomeSkipped))
		})

		It("fails a usage error", func() {
			h.AssertSuccessOrSkip(test.Failure(1, "Error: unknown flag: --bogus"))
			Expect(lastCase().Outcome).To(Equal(harness.OutcomeFailed))
		})

		It("records nothing when SkipIfTolerated does not apply", func() {
			Expect(h.SkipIfTolerated(test.Success("{}"))).To(BeFalse())
			Expect(h.SkipIfTolerated(test.Failure(1, "panic"))).To(BeFalse())
			Expect(lastCase().Message).To(Equal("no assertion recorded"))
		})

		It("uses the configured tolerations", func() {
			h = harness.New("assertions", test.NewMockInvoker(),
				harness.WithOutput(&bytes.Buffer{}),
				harness.WithTolerations(invoke.DefaultTolerations().Merge(invoke.Tolerations{Policy: []string{"quota"}})),
			)
			h.Test("case")

			h.AssertSuccessOrSkip(test.Failure(1, "Error: quota exceeded"))

			Expect(lastCase().Outcome).To(Equal(harness.OutcomeSkipped))
		})
	})

	Context("JSON", func() {
		DescribeTable("passing checks",
			func(stdout string, matchers ...harness.Matcher) {
				Expect(h.AssertJSON(test.Success(stdout), matchers...)).To(BeTrue())
			},
			Entry("array", `[]`, harness.IsArray()),
			Entry("object with id", `{"id":"1"}`, harness.IsObject(), harness.Has(".id")),
			Entry("equal string", `{"status":"open"}`, harness.Equals(".status", "open")),
			Entry("equal number", `{"amount":1750.5}`, harness.Equals(".amount", "1750.5")),
			Entry("bool", `{"is_active":false}`, harness.Bool(".is_active", false)),
			Entry("length", `{"items":[1,2]}`, harness.Length(".items", 2)),
			Entry("at most", `[{"id":"1"}]`, harness.LengthAtMost(1)),
			Entry("any element", `[{"id":"1"},{"id":"2"}]`, harness.AnyEquals(".id", "2")),
		)

		DescribeTable("failing checks",
			func(stdout string, message string, matchers ...harness.Matcher) {
				Expect(h.AssertJSON(test.Success(stdout), matchers...)).To(BeFalse())
				Expect(lastCase().Message).To(ContainSubstring(message))
			},
			Entry("object for array", `{}`, "expected JSON array, got object", harness.IsArray()),
			Entry("missing path", `{}`, ".id not found", harness.Has(".id")),
			Entry("null path", `{"id":null}`, ".id is null", harness.Has(".id")),
			Entry("different value", `{"status":"open"}`, `expected "closed", got "open"`, harness.Equals(".status", "closed")),
			Entry("string for bool", `{"flag":"true"}`, "expected boolean true, got string", harness.Bool(".flag", true)),
			Entry("too many", `[1,2]`, "expected at most 1 elements, got 2", harness.LengthAtMost(1)),
			Entry("no element", `[{"id":"1"}]`, `no element with .id == "2"`, harness.AnyEquals(".id", "2")),
			Entry("malformed path", `{}`, "invalid path", harness.Has(".a..b")),
		)

		It("fails clearly on output that is not JSON", func() {
			Expect(h.AssertJSONIsArray(test.Success("Created broker 1"))).To(BeFalse())
			Expect(lastCase().Message).To(HavePrefix("invalid JSON output"))
		})

		It("fails on a failed command before parsing", func() {
			Expect(h.AssertJSONIsObject(test.Failure(1, "Error: Not Authorized"))).To(BeFalse())
			Expect(lastCase().Message).To(Equal("command failed (exit 1): Error: Not Authorized"))
		})

		It("offers one helper per check", func() {
			res := test.Success(`[{"id":"42","ok":true}]`)
			Expect(h.AssertJSONEquals(res, ".[0].id", "42")).To(BeTrue())

			for _, check := range []func() bool{
				func() bool { return h.AssertJSONHas(res, ".[0].id") },
				func() bool { return h.AssertJSONBool(res, ".[0].ok", true) },
				func() bool { return h.AssertJSONLength(res, ".", 1) },
				func() bool { return h.AssertJSONLengthAtMost(res, 1) },
			} {
				h.Test("another")
				Expect(check()).To(BeTrue())
			}
		})
	})
})
