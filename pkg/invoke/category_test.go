package invoke_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xbe-inc/xbe-integration/pkg/invoke"
)

var _ = Describe("Tolerations", func() {
	var tol invoke.Tolerations

	BeforeEach(func() {
		tol = invoke.DefaultTolerations()
	})

	DescribeTable("Classify",
		func(r invoke.Result, expected invoke.Category) {
			Expect(tol.Classify(r)).To(Equal(expected))
		},
		Entry("success", invoke.Result{}, invoke.CategorySuccess),
		Entry("400 status", invoke.Result{ExitCode: 1, StatusCode: 400}, invoke.CategoryUsage),
		Entry("401 status", invoke.Result{ExitCode: 1, StatusCode: 401}, invoke.CategoryPolicy),
		Entry("422 status", invoke.Result{ExitCode: 1, StatusCode: 422}, invoke.CategoryPolicy),
		Entry("503 status", invoke.Result{ExitCode: 1, StatusCode: 503}, invoke.CategoryTransient),
		Entry("404 status", invoke.Result{ExitCode: 1, StatusCode: 404}, invoke.CategoryDefect),
		Entry("status beats text", invoke.Result{ExitCode: 1, StatusCode: 500, Stderr: "Not Authorized"}, invoke.CategoryDefect),
		Entry("missing flag text", invoke.Result{ExitCode: 1, Stderr: `Error: required flag(s) "name" not set`}, invoke.CategoryUsage),
		Entry("not authorized text", invoke.Result{ExitCode: 1, Stderr: "Error: Not Authorized"}, invoke.CategoryPolicy),
		Entry("unavailable text", invoke.Result{ExitCode: 1, Stderr: "Error: 503 Service Unavailable"}, invoke.CategoryTransient),
		Entry("anything else", invoke.Result{ExitCode: 2, Stderr: "panic: nil map"}, invoke.CategoryDefect),
		Entry("printed status with reason", invoke.Result{ExitCode: 1, Stderr: "Error: 422 Unprocessable Entity"}, invoke.CategoryPolicy),
		Entry("printed 404 with reason", invoke.Result{ExitCode: 1, Stderr: "Error: 404 Not Found"}, invoke.CategoryDefect),
		Entry("record id inside a defect", invoke.Result{ExitCode: 1, Stderr: "Error: undefined method `name' for nil (broker 15031)"}, invoke.CategoryDefect),
		Entry("status-like id without reason", invoke.Result{ExitCode: 1, Stderr: "Error: customer 403 has no broker"}, invoke.CategoryDefect),
	)

	// Given a defect whose output carries record ids that contain status codes
	// When it is checked against the default tolerations
	// Then it must stay a failure
	It("does not tolerate defects mentioning ids like 15031 or 4012", func() {
		for _, out := range []string{
			"Error: undefined method `name' for nil (broker 15031)",
			"Error: stack level too deep in customer 4012",
			"Error: job 50322 missing",
		} {
			c, ok := tol.Tolerated(invoke.Result{ExitCode: 1, Stderr: out})
			Expect(c).To(Equal(invoke.CategoryDefect), out)
			Expect(ok).To(BeFalse(), out)
		}
	})

	DescribeTable("StatusFromOutput",
		func(out string, expected int) {
			Expect(invoke.StatusFromOutput(out)).To(Equal(expected))
		},
		Entry("reason phrase", "Error: 503 Service Unavailable", 503),
		Entry("after a path", "POST /v1/brokers: 422 Unprocessable Entity (Record Invalid)", 422),
		Entry("bare number", "broker 403", 0),
		Entry("longer number", "id 15031 Service", 0),
		Entry("wrong phrase", "Error: 503 Broker Missing", 0),
	)

	Context("Tolerated", func() {
		It("tolerates policy and transient failures", func() {
			_, ok := tol.Tolerated(invoke.Result{ExitCode: 1, StatusCode: 403})
			Expect(ok).To(BeTrue())
			_, ok = tol.Tolerated(invoke.Result{ExitCode: 1, Stderr: "Bad Gateway"})
			Expect(ok).To(BeTrue())
		})

		It("never tolerates success or usage errors by default", func() {
			_, ok := tol.Tolerated(invoke.Result{})
			Expect(ok).To(BeFalse())
			c, ok := tol.Tolerated(invoke.Result{ExitCode: 1, Stderr: "unknown flag: --foo"})
			Expect(c).To(Equal(invoke.CategoryUsage))
			Expect(ok).To(BeFalse())
		})

		It("tolerates defects matching an extra pattern", func() {
			r := invoke.Result{ExitCode: 1, Stderr: "Error: filter not supported"}
			_, ok := tol.Tolerated(r)
			Expect(ok).To(BeFalse())
			c, ok := tol.Tolerated(r, "not supported")
			Expect(c).To(Equal(invoke.CategoryDefect))
			Expect(ok).To(BeTrue())
		})
	})

	It("merges without touching the receiver", func() {
		merged := tol.Merge(invoke.Tolerations{Policy: []string{"quota exceeded"}})
		Expect(merged.Policy).To(ContainElement("quota exceeded"))
		Expect(tol.Policy).NotTo(ContainElement("quota exceeded"))
		Expect(merged.Classify(invoke.Result{ExitCode: 1, Stderr: "quota exceeded"})).To(Equal(invoke.CategoryPolicy))
	})

	It("ignores empty patterns", func() {
		Expect(invoke.MatchesAny("anything", []string{""})).To(BeFalse())
	})
})
