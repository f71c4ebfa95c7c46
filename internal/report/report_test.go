package report_test

import (
	"bytes"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/xbe-inc/xbe-integration/internal/report"
	"github.com/xbe-inc/xbe-integration/pkg/harness"
)

func summaries() []harness.Summary {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return []harness.Summary{
		{
			Suite:  "brokers",
			Passed: 1, Failed: 1,
			Duration: 2 * time.Second,
			Cases: []harness.TestCase{
				{Group: "Brokers", Name: "create broker", Outcome: harness.OutcomePassed, StartedAt: started, Duration: 120 * time.Millisecond},
				{Group: "Brokers", Name: "delete without confirm", Outcome: harness.OutcomeFailed, Message: "expected failure, command succeeded", StartedAt: started},
			},
		},
		{
			Suite:         "customers",
			Passed:        1,
			Skipped:       1,
			CleanupErrors: 1,
			Cases: []harness.TestCase{
				{Group: "Customers", Name: "create customer", Outcome: harness.OutcomePassed, StartedAt: started},
				{Group: "Customers", Name: "filter by broker", Outcome: harness.OutcomeSkipped, Message: "tolerated policy failure", StartedAt: started},
			},
		},
	}
}

var _ = Describe("Aggregate", func() {
	// Given two suite summaries
	// When we aggregate them
	// Then counters should add up and a failure should give exit code 1
	It("should sum counters across suites", func() {
		totals := report.Aggregate(summaries())

		Expect(totals.Suites).To(Equal(2))
		Expect(totals.Passed).To(Equal(2))
		Expect(totals.Failed).To(Equal(1))
		Expect(totals.Skipped).To(Equal(1))
		Expect(totals.CleanupErrors).To(Equal(1))
		Expect(totals.Total()).To(Equal(4))
		Expect(totals.ExitCode()).To(Equal(1))
	})

	// Given no failures
	// When we aggregate
	// Then exit code should be 0 even with skips
	It("should exit 0 without failures", func() {
		totals := report.Aggregate(summaries()[1:])

		Expect(totals.ExitCode()).To(Equal(0))
	})
})

var _ = Describe("Console", func() {
	// Given two suites with one failure
	// When we print the run
	// Then the table, the failure and the aggregate line should be printed
	It("should print the table, failures and aggregate line", func() {
		// Arrange
		var buf bytes.Buffer
		console := report.NewConsole(&buf, false)

		// Act
		totals := console.Print(report.Meta{RunID: "run-1"}, summaries())

		// Assert
		out := buf.String()
		Expect(totals.Failed).To(Equal(1))
		Expect(out).To(ContainSubstring("SUITE"))
		Expect(out).To(MatchRegexp(`brokers\s+1\s+1\s+0\s+0\s+2s`))
		Expect(out).To(ContainSubstring("✗ brokers / delete without confirm: expected failure, command succeeded"))
		Expect(out).To(HaveSuffix("Passed: 2, Failed: 1, Skipped: 1\n"))
	})

	// Given a single suite
	// When we print it without verbose
	// Then only the aggregate line should be printed
	It("should skip the table for a single suite", func() {
		var buf bytes.Buffer

		report.NewConsole(&buf, false).Print(report.Meta{}, summaries()[1:])

		Expect(buf.String()).NotTo(ContainSubstring("SUITE"))
		Expect(buf.String()).To(ContainSubstring("Passed: 1, Failed: 0, Skipped: 1"))
	})
})

var _ = Describe("WriteXLSX", func() {
	// Given two suites with a failure and a skip
	// When we export them
	// Then every case should be a row, failure and skip rows styled, summary written
	It("should write one row per case with a summary block", func() {
		// Arrange
		path := filepath.Join(GinkgoT().TempDir(), "report.xlsx")
		meta := report.Meta{RunID: "run-1", Mode: "api", Target: "http://sandbox", Duration: 3 * time.Second}

		// Act
		err := report.WriteXLSX(path, meta, summaries())
		Expect(err).NotTo(HaveOccurred())

		// Assert
		f, err := excelize.OpenFile(path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		rows, err := f.GetRows("Results")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows[0]).To(Equal([]string{"Suite", "Group", "Test", "Outcome", "Message", "Started", "Duration (ms)"}))
		Expect(rows[1][2]).To(Equal("create broker"))
		Expect(rows[1][6]).To(Equal("120"))
		Expect(rows[2][3]).To(Equal("failed"))
		Expect(rows[4][3]).To(Equal("skipped"))

		passedStyle, err := f.GetCellStyle("Results", "A2")
		Expect(err).NotTo(HaveOccurred())
		failedStyle, err := f.GetCellStyle("Results", "A3")
		Expect(err).NotTo(HaveOccurred())
		skippedStyle, err := f.GetCellStyle("Results", "A5")
		Expect(err).NotTo(HaveOccurred())
		Expect(failedStyle).NotTo(Equal(passedStyle))
		Expect(skippedStyle).NotTo(Equal(passedStyle))
		Expect(skippedStyle).NotTo(Equal(failedStyle))

		summary, err := f.GetCellValue("Results", "A7")
		Expect(err).NotTo(HaveOccurred())
		Expect(summary).To(Equal("Summary"))
		failed, err := f.GetCellValue("Results", "B15")
		Expect(err).NotTo(HaveOccurred())
		Expect(failed).To(Equal("1"))
	})
})
