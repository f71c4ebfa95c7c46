package harness_test

import (
	"bytes"
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xbe-inc/xbe-integration/pkg/harness"
	"github.com/xbe-inc/xbe-integration/pkg/invoke"
	"github.com/xbe-inc/xbe-integration/test"
)

var _ = Describe("Harness", func() {
	var (
		ctx  context.Context
		inv  *test.MockInvoker
		out  *bytes.Buffer
		h    *harness.Harness
		opts []harness.Option
	)

	BeforeEach(func() {
		ctx = context.Background()
		inv = test.NewMockInvoker()
		out = &bytes.Buffer{}
		opts = []harness.Option{
			harness.WithOutput(out),
			harness.WithBackOff(func() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) }),
		}
	})

	JustBeforeEach(func() {
		h = harness.New("customers", inv, opts...)
	})

	Context("test cases", func() {
		// Given a case with two outcomes
		// When the suite finishes
		// Then only the first outcome counts
		It("keeps the first outcome", func() {
			// Arrange
			h.Describe("Resource: customers")
			h.Test("first")

			// Act
			h.Pass()
			h.Fail("too late")
			s := h.Run(ctx)

			// Assert
			Expect(s.Passed).To(Equal(1))
			Expect(s.Failed).To(Equal(0))
			Expect(s.Cases).To(HaveLen(1))
			Expect(s.Cases[0].Group).To(Equal("Resource: customers"))
			Expect(s.Cases[0].Outcome).To(Equal(harness.OutcomePassed))
		})

		It("fails a case left without an outcome", func() {
			h.Test("forgotten")
			h.Test("second")
			h.Skip("not today")

			s := h.Run(ctx)

			Expect(s.Failed).To(Equal(1))
			Expect(s.Skipped).To(Equal(1))
			Expect(s.Cases[0].Name).To(Equal("forgotten"))
			Expect(s.Cases[0].Message).To(Equal("no assertion recorded"))
			Expect(s.ExitCode()).To(Equal(1))
		})

		It("fails a case still open when the suite finishes", func() {
			h.Test("dangling")

			s := h.Run(ctx)

			Expect(s.Failed).To(Equal(1))
		})

		It("opens an implicit case named after the group", func() {
			h.Describe("Resource: brokers")
			h.Pass()

			s := h.Run(ctx)

			Expect(s.Cases).To(HaveLen(1))
			Expect(s.Cases[0].Name).To(Equal("Resource: brokers"))
		})

		It("prints every outcome and the summary", func() {
			h.Test("a")
			h.Pass()
			h.Test("b")
			h.Fail("boom")
			h.Test("c")
			h.Skip("later")

			s := h.Run(ctx)

			Expect(s.Total()).To(Equal(3))
			Expect(out.String()).To(ContainSubstring("✓ PASS a"))
			Expect(out.String()).To(ContainSubstring("✗ FAIL b: boom"))
			Expect(out.String()).To(ContainSubstring("- SKIP c: later"))
			Expect(out.String()).To(ContainSubstring("customers: Passed: 1, Failed: 1, Skipped: 1"))
		})

		It("exits 0 when only skips and passes were recorded", func() {
			h.Test("a")
			h.Skip("x")
			h.Test("b")
			h.Pass()

			Expect(h.Run(ctx).ExitCode()).To(Equal(0))
		})

		It("exits 0 for an empty suite", func() {
			s := h.Run(ctx)

			Expect(s.Total()).To(Equal(0))
			Expect(s.ExitCode()).To(Equal(0))
		})
	})

	Context("fail fast", func() {
		BeforeEach(func() {
			opts = append(opts, harness.WithFailFast(true))
		})

		It("stops after the first failure", func() {
			h.Test("a")
			h.Pass()
			Expect(h.Stopped()).To(BeFalse())

			h.Test("b")
			h.Fail("boom")
			Expect(h.Stopped()).To(BeTrue())
		})
	})

	Context("cleanup", func() {
		// Given three registrations with a duplicate and an empty id
		// When the suite finishes
		// Then each record is deleted once, newest first
		It("deletes registered records once in reverse order", func() {
			// Arrange
			inv.When("do").Return(test.Success(""))
			h.RegisterCleanup("brokers", "1")
			h.RegisterCleanup("customers", "2")
			h.RegisterCleanup("brokers", "1")
			h.RegisterCleanup("customers", "")

			// Act
			s := h.Run(ctx)

			// Assert
			Expect(s.CleanupErrors).To(Equal(0))
			Expect(inv.Calls()).To(Equal([][]string{
				{"do", "customers", "delete", "2", "--confirm"},
				{"do", "brokers", "delete", "1", "--confirm"},
			}))
		})

		It("does not delete forgotten records", func() {
			inv.When("do").Return(test.Success(""))
			h.RegisterCleanup("brokers", "1")
			h.ForgetCleanup("brokers", "1")

			h.Run(ctx)

			Expect(inv.Calls()).To(BeEmpty())
		})

		It("counts failed deletes without changing outcomes", func() {
			inv.When("do", "brokers").Return(test.Failure(1, "Error: 500 Internal Server Error"))
			inv.When("do", "customers").Return(test.APIFailure(404, "Error: 404 Not Found"))
			h.Test("a")
			h.Pass()
			h.RegisterCleanup("brokers", "1")
			h.RegisterCleanup("customers", "2")

			s := h.Run(ctx)

			Expect(s.Passed).To(Equal(1))
			Expect(s.ExitCode()).To(Equal(0))
			Expect(s.CleanupErrors).To(Equal(1))
			Expect(inv.Calls()).To(HaveLen(2))
		})

		// Given cli-mode delete failures without an HTTP status
		// When the suite finishes
		// Then only a printed 404 counts as already deleted, not an id holding 404
		It("reads a printed 404 but not ids containing it", func() {
			inv.When("do", "brokers").Return(test.Failure(1, "Error: 404 Not Found"))
			inv.When("do", "customers").Return(test.Failure(1, "Error: customer 14040 is locked"))
			h.RegisterCleanup("brokers", "1")
			h.RegisterCleanup("customers", "14040")

			s := h.Run(ctx)

			Expect(s.CleanupErrors).To(Equal(1))
		})

		It("still cleans up after the context is cancelled", func() {
			inv.When("do").Return(test.Success(""))
			h.RegisterCleanup("brokers", "1")
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			s := h.Run(cctx)

			Expect(s.CleanupErrors).To(Equal(0))
			Expect(inv.Calls()).To(HaveLen(1))
		})

		It("is idempotent", func() {
			inv.When("do").Return(test.Success(""))
			h.Test("a")
			h.Fail("x")
			h.RegisterCleanup("brokers", "1")

			first := h.Run(ctx)
			second := h.Run(ctx)

			Expect(second).To(Equal(first))
			Expect(inv.Calls()).To(HaveLen(1))
		})
	})

	Context("retries", func() {
		It("repeats until the condition holds", func() {
			inv.When("view", "customers", "show").Return(
				test.APIFailure(404, "Error: 404 Not Found"),
				test.Success(`{"id":"7"}`),
			)

			res := h.Eventually(ctx, func(ctx context.Context) invoke.Result {
				return h.JSON(ctx, "view", "customers", "show", "7")
			}, invoke.Result.Success)

			Expect(res.Success()).To(BeTrue())
			Expect(inv.Calls()).To(HaveLen(2))
		})

		It("gives up after the retry policy is exhausted", func() {
			inv.When("view").Return(test.APIFailure(404, "Error: 404 Not Found"))

			res := h.Eventually(ctx, func(ctx context.Context) invoke.Result {
				return h.JSON(ctx, "view", "customers", "show", "7")
			}, invoke.Result.Success)

			Expect(res.Success()).To(BeFalse())
			Expect(inv.Calls()).To(HaveLen(3))
		})

		It("retries transient failures only", func() {
			inv.When("view").Return(
				test.APIFailure(503, "Error: 503 Service Unavailable"),
				test.APIFailure(422, "Error: 422 Record Invalid"),
				test.Success("[]"),
			)

			res := h.RetryTransient(ctx, func(ctx context.Context) invoke.Result {
				return h.JSON(ctx, "view", "customers", "list")
			})

			Expect(res.StatusCode).To(Equal(422))
			Expect(inv.Calls()).To(HaveLen(2))
		})

		Context("with a single try", func() {
			BeforeEach(func() {
				opts = append(opts, harness.WithRetryPolicy(1))
			})

			It("does not retry", func() {
				inv.When("view").Return(test.APIFailure(503, "Error: 503 Service Unavailable"))

				h.RetryTransient(ctx, func(ctx context.Context) invoke.Result {
					return h.Exec(ctx, "view", "customers", "list")
				})

				Expect(inv.Calls()).To(HaveLen(1))
			})
		})
	})
})
