package store_test

import (
	"context"
	"database/sql"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xbe-inc/xbe-integration/internal/models"
	"github.com/xbe-inc/xbe-integration/internal/store"
	"github.com/xbe-inc/xbe-integration/internal/store/migrations"
	srvErrors "github.com/xbe-inc/xbe-integration/pkg/errors"
)

func newRun(id string, startedAt time.Time, suites ...string) models.Run {
	return models.Run{
		ID:        id,
		Mode:      "api",
		Target:    "http://127.0.0.1:8080",
		Suites:    suites,
		Status:    models.RunStatusRunning,
		StartedAt: startedAt,
	}
}

var _ = Describe("RunStore", func() {
	var (
		ctx  context.Context
		s    *store.Store
		db   *sql.DB
		base time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		base = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())

		err = migrations.Run(ctx, db)
		Expect(err).NotTo(HaveOccurred())

		s = store.NewStore(db)
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Context("Create and Get", func() {
		// Given a new run with two suites
		// When we create it and read it back
		// Then every column should round trip and the run should still be running
		It("should store a running run", func() {
			// Arrange
			run := newRun("run-1", base, "brokers", "customers")

			// Act
			err := s.Runs().Create(ctx, run)
			Expect(err).NotTo(HaveOccurred())
			got, err := s.Runs().Get(ctx, "run-1")

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Mode).To(Equal("api"))
			Expect(got.Target).To(Equal("http://127.0.0.1:8080"))
			Expect(got.Suites).To(Equal([]string{"brokers", "customers"}))
			Expect(got.Status).To(Equal(models.RunStatusRunning))
			Expect(got.StartedAt.Equal(base)).To(BeTrue())
			Expect(got.FinishedAt).To(BeNil())
		})

		// Given a run without suites
		// When we read it back
		// Then Suites should be empty
		It("should store a run without suites", func() {
			err := s.Runs().Create(ctx, newRun("run-1", base))
			Expect(err).NotTo(HaveOccurred())

			got, err := s.Runs().Get(ctx, "run-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Suites).To(BeEmpty())
		})

		// Given an empty store
		// When we get an unknown run
		// Then it should return ResourceNotFoundError
		It("should return ResourceNotFoundError for an unknown run", func() {
			_, err := s.Runs().Get(ctx, "missing")

			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})
	})

	Context("Finish", func() {
		// Given a running run
		// When we finish it with counters
		// Then status, counters and finished_at should be stored
		It("should store the final state", func() {
			// Arrange
			Expect(s.Runs().Create(ctx, newRun("run-1", base))).To(Succeed())
			finished := base.Add(90 * time.Second)
			run := newRun("run-1", base)
			run.Status = models.RunStatusFailed
			run.Passed, run.Failed, run.Skipped = 10, 2, 3
			run.FinishedAt = &finished

			// Act
			err := s.Runs().Finish(ctx, run)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			got, err := s.Runs().Get(ctx, "run-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(models.RunStatusFailed))
			Expect(got.Passed).To(Equal(10))
			Expect(got.Failed).To(Equal(2))
			Expect(got.Skipped).To(Equal(3))
			Expect(got.Total()).To(Equal(15))
			Expect(got.FinishedAt).NotTo(BeNil())
			Expect(got.FinishedAt.Equal(finished)).To(BeTrue())
		})

		// Given an empty store
		// When we finish an unknown run
		// Then it should return ResourceNotFoundError
		It("should return ResourceNotFoundError for an unknown run", func() {
			run := newRun("missing", base)
			run.Status = models.RunStatusPassed

			err := s.Runs().Finish(ctx, run)

			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})
	})

	Context("List", func() {
		BeforeEach(func() {
			for i, id := range []string{"run-1", "run-2", "run-3"} {
				Expect(s.Runs().Create(ctx, newRun(id, base.Add(time.Duration(i)*time.Hour)))).To(Succeed())
			}
			failed := newRun("run-2", base)
			failed.Status = models.RunStatusFailed
			Expect(s.Runs().Finish(ctx, failed)).To(Succeed())

			Expect(s.Results().Save(ctx,
				models.TestRecord{RunID: "run-1", Suite: "brokers", Name: "create", Outcome: "passed", StartedAt: base},
				models.TestRecord{RunID: "run-3", Suite: "customers", Name: "create", Outcome: "passed", StartedAt: base},
			)).To(Succeed())
		})

		// Given three runs started an hour apart
		// When we list with the default sort
		// Then the most recent run should come first
		It("should list most recent first", func() {
			runs, err := s.Runs().List(ctx, store.WithDefaultSort())

			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(3))
			Expect(runs[0].ID).To(Equal("run-3"))
			Expect(runs[2].ID).To(Equal("run-1"))
		})

		// Given three runs
		// When we page with limit and offset
		// Then only the requested window should be returned
		It("should apply limit and offset", func() {
			runs, err := s.Runs().List(ctx, store.WithDefaultSort(), store.WithLimit(1), store.WithOffset(1))

			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(1))
			Expect(runs[0].ID).To(Equal("run-2"))
		})

		// Given one failed run
		// When we filter by status
		// Then only that run should be listed and counted
		It("should filter by status", func() {
			runs, err := s.Runs().List(ctx, store.ByStatus(models.RunStatusFailed))
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(1))
			Expect(runs[0].ID).To(Equal("run-2"))

			count, err := s.Runs().Count(ctx, store.ByStatus(models.RunStatusRunning))
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(2))
		})

		// Given results recorded for two different suites
		// When we filter by suite
		// Then only runs that executed that suite should be listed
		It("should filter by suite", func() {
			runs, err := s.Runs().List(ctx, store.BySuite("customers"), store.WithDefaultSort())

			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(1))
			Expect(runs[0].ID).To(Equal("run-3"))
		})

		// Given runs of a single mode
		// When we filter by another mode
		// Then nothing should be listed
		It("should filter by mode", func() {
			runs, err := s.Runs().List(ctx, store.ByMode("cli"))

			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(BeEmpty())
		})
	})
})
