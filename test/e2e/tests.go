package main

import (
	"bytes"
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/xbe-inc/xbe-integration/internal/catalog"
	"github.com/xbe-inc/xbe-integration/internal/config"
	"github.com/xbe-inc/xbe-integration/internal/report"
	"github.com/xbe-inc/xbe-integration/internal/suites"
	"github.com/xbe-inc/xbe-integration/pkg/harness"
	"github.com/xbe-inc/xbe-integration/pkg/invoke"
	"github.com/xbe-inc/xbe-integration/test/e2e/service"
)

var _ = Describe("Resource suites", Ordered, func() {
	var (
		cat *catalog.Catalog
		inv invoke.Invoker
	)

	BeforeAll(func() {
		var err error
		cat, err = catalog.Default()
		Expect(err).NotTo(HaveOccurred())

		Expect(backend.Start(cat)).To(Succeed())
		DeferCleanup(func() {
			Expect(backend.Stop()).To(Succeed())
		})

		inv, err = service.NewInvoker(service.Target{
			Mode:    cfg.Mode,
			BaseURL: backend.BaseURL(),
			Token:   backend.Token(),
			Binary:  cfg.Binary,
		}, cat)
		Expect(err).NotTo(HaveOccurred())
	})

	failures := func(s harness.Summary) []string {
		var out []string
		for _, c := range s.Cases {
			if c.Outcome == harness.OutcomeFailed {
				out = append(out, fmt.Sprintf("%s: %s", c.Name, c.Message))
			}
		}
		return out
	}

	// Given every catalog resource and a backend
	// When each suite runs on its own
	// Then no case should fail and no created record should be left behind
	It("should pass every suite", func() {
		for _, r := range cat.Resources() {
			By("running the " + r.Name + " suite")

			// Arrange
			out := &bytes.Buffer{}
			exec := suites.NewExecutor(cat, inv,
				suites.WithSeeds(config.SeedsFromOS()),
				suites.WithOutput(out),
			)

			// Act
			summary := exec.Run(context.Background(), r)
			GinkgoWriter.Print(out.String())

			// Assert
			Expect(failures(summary)).To(BeEmpty(), r.Name)
			Expect(summary.CleanupErrors).To(BeZero(), r.Name)
			if n := backend.Leftovers(r.Name); n >= 0 {
				Expect(n).To(BeZero(), "records left in "+r.Name)
			}
		}
	})

	// Given all suites scheduled together
	// When they run with the configured parallelism
	// Then the aggregate should have no failure
	It("should pass all suites in parallel", func() {
		out := &bytes.Buffer{}
		exec := suites.NewExecutor(cat, inv,
			suites.WithSeeds(config.SeedsFromOS()),
			suites.WithOutput(out),
		)

		summaries, aborted := exec.RunAll(context.Background(), cat.Resources(), cfg.Parallel)
		totals := report.NewConsole(GinkgoWriter, true).Print(report.Meta{Mode: cfg.Mode, Target: backend.BaseURL()}, summaries)

		Expect(aborted).To(BeFalse())
		Expect(summaries).To(HaveLen(len(cat.Resources())))
		Expect(totals.Failed).To(BeZero())
		zap.S().Named("e2e").Infow("parallel run finished", "passed", totals.Passed, "skipped", totals.Skipped)
	})
})
