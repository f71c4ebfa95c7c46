package services_test

import (
	"context"
	"database/sql"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xbe-inc/xbe-integration/internal/models"
	"github.com/xbe-inc/xbe-integration/internal/services"
	"github.com/xbe-inc/xbe-integration/internal/store"
	"github.com/xbe-inc/xbe-integration/internal/store/migrations"
	srvErrors "github.com/xbe-inc/xbe-integration/pkg/errors"
	"github.com/xbe-inc/xbe-integration/pkg/harness"
)

var _ = Describe("HistoryService", func() {
	var (
		ctx     context.Context
		db      *sql.DB
		history *services.HistoryService
		started time.Time
	)

	brokers := func() harness.Summary {
		return harness.Summary{
			Suite:  "brokers",
			Passed: 2, Failed: 1,
			Cases: []harness.TestCase{
				{Group: "Brokers", Name: "create", Outcome: harness.OutcomePassed, StartedAt: started, Duration: 150 * time.Millisecond},
				{Group: "Brokers", Name: "show", Outcome: harness.OutcomePassed, StartedAt: started},
				{Group: "Brokers", Name: "delete without confirm", Outcome: harness.OutcomeFailed, Message: "expected failure, command succeeded", StartedAt: started},
			},
		}
	}
	customers := func() harness.Summary {
		return harness.Summary{
			Suite:   "customers",
			Passed:  1,
			Skipped: 1,
			Cases: []harness.TestCase{
				{Group: "Customers", Name: "create", Outcome: harness.OutcomePassed, StartedAt: started},
				{Group: "Customers", Name: "list filter", Outcome: harness.OutcomeSkipped, Message: "tolerated policy failure", StartedAt: started},
			},
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		started = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(ctx, db)).To(Succeed())

		history = services.NewHistoryService(store.NewStore(db))
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	// Given a started run
	// When it finishes with a failing suite
	// Then the run should be failed with aggregated counters and every case recorded
	It("should record a failed run", func() {
		// Arrange
		run, err := history.StartRun(ctx, "api", "http://sandbox", []string{"brokers", "customers"})
		Expect(err).NotTo(HaveOccurred())
		Expect(run.ID).NotTo(BeEmpty())
		Expect(run.Status).To(Equal(models.RunStatusRunning))

		// Act
		err = history.FinishRun(ctx, run, []harness.Summary{brokers(), customers()}, false)

		// Assert
		Expect(err).NotTo(HaveOccurred())
		got, records, err := history.Get(ctx, run.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Status).To(Equal(models.RunStatusFailed))
		Expect(got.Passed).To(Equal(3))
		Expect(got.Failed).To(Equal(1))
		Expect(got.Skipped).To(Equal(1))
		Expect(got.FinishedAt).NotTo(BeNil())
		Expect(records).To(HaveLen(5))
		Expect(records[0].Suite).To(Equal("brokers"))
		Expect(records[0].DurationMs).To(Equal(int64(150)))
		Expect(records[4].Outcome).To(Equal("skipped"))
	})

	// Given a run whose suites all passed or skipped
	// When it finishes
	// Then it should be passed
	It("should record a passed run", func() {
		run, err := history.StartRun(ctx, "cli", "xbe", []string{"customers"})
		Expect(err).NotTo(HaveOccurred())

		Expect(history.FinishRun(ctx, run, []harness.Summary{customers()}, false)).To(Succeed())

		Expect(run.Status).To(Equal(models.RunStatusPassed))
	})

	// Given a run interrupted before every suite finished
	// When it finishes as aborted
	// Then it should be aborted even without failures
	It("should record an aborted run", func() {
		run, err := history.StartRun(ctx, "cli", "xbe", []string{"customers"})
		Expect(err).NotTo(HaveOccurred())

		Expect(history.FinishRun(ctx, run, []harness.Summary{customers()}, true)).To(Succeed())

		runs, err := history.List(ctx, services.HistoryFilter{Status: []models.RunStatus{models.RunStatusAborted}})
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(HaveLen(1))
		Expect(runs[0].ID).To(Equal(run.ID))
	})

	// Given two finished runs over different suites
	// When we list by suite
	// Then only the run that executed it should be returned
	It("should list runs by suite", func() {
		first, err := history.StartRun(ctx, "api", "", []string{"brokers"})
		Expect(err).NotTo(HaveOccurred())
		Expect(history.FinishRun(ctx, first, []harness.Summary{brokers()}, false)).To(Succeed())

		second, err := history.StartRun(ctx, "api", "", []string{"customers"})
		Expect(err).NotTo(HaveOccurred())
		Expect(history.FinishRun(ctx, second, []harness.Summary{customers()}, false)).To(Succeed())

		runs, err := history.List(ctx, services.HistoryFilter{Suites: []string{"brokers"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(HaveLen(1))
		Expect(runs[0].ID).To(Equal(first.ID))

		all, err := history.List(ctx, services.HistoryFilter{Limit: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(2))
	})

	// Given an unknown run id
	// When we get it
	// Then it should be a ResourceNotFoundError
	It("should return not found for an unknown run", func() {
		_, _, err := history.Get(ctx, "missing")

		Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
	})
})
