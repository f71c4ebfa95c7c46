package services_test

import (
	"context"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xbe-inc/xbe-integration/internal/catalog"
	"github.com/xbe-inc/xbe-integration/internal/services"
	srvErrors "github.com/xbe-inc/xbe-integration/pkg/errors"
	"github.com/xbe-inc/xbe-integration/pkg/jsonapi"
)

var _ = Describe("RecordService", func() {
	var (
		ctx context.Context
		srv *services.RecordService
	)

	broker := func(name string) string {
		r, err := srv.Create(ctx, "brokers", jsonapi.Resource{
			Type:       "brokers",
			Attributes: map[string]any{"company-name": name},
		})
		Expect(err).NotTo(HaveOccurred())
		return r.ID
	}

	customer := func(name, brokerID string, attrs map[string]any) string {
		if attrs == nil {
			attrs = map[string]any{}
		}
		attrs["company-name"] = name
		r, err := srv.Create(ctx, "customers", jsonapi.Resource{
			Type:       "customers",
			Attributes: attrs,
			Relationships: map[string]jsonapi.Relationship{
				"broker": jsonapi.ToOne(jsonapi.ResourceIdentifier{Type: "brokers", ID: brokerID}),
			},
		})
		Expect(err).NotTo(HaveOccurred())
		return r.ID
	}

	list := func(typ string, params jsonapi.ListParams) []string {
		res, err := srv.List(ctx, typ, params)
		Expect(err).NotTo(HaveOccurred())
		ids := make([]string, 0, len(res.Records))
		for _, r := range res.Records {
			ids = append(ids, r.ID)
		}
		return ids
	}

	BeforeEach(func() {
		ctx = context.Background()
		cat, err := catalog.Default()
		Expect(err).NotTo(HaveOccurred())
		srv = services.NewRecordService(cat)
	})

	Context("create", func() {
		It("assigns sequential ids and timestamps", func() {
			a := broker("Acme")
			b := broker("Beta")

			Expect(a).To(Equal("1"))
			Expect(b).To(Equal("2"))
			r, err := srv.Get(ctx, "brokers", b)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.CreatedAt).NotTo(BeZero())
			Expect(r.Resource().Attributes).To(HaveKey("created-at"))
		})

		// Given a customer without its broker
		// When it is created
		// Then the service refuses it like the API does
		It("requires the declared members", func() {
			_, err := srv.Create(ctx, "customers", jsonapi.Resource{
				Type:       "customers",
				Attributes: map[string]any{"company-name": "Acme"},
			})

			var validation *srvErrors.ValidationError
			Expect(err).To(BeAssignableToTypeOf(validation))
			Expect(err.(*srvErrors.ValidationError).Messages).To(ConsistOf("broker can't be blank"))
		})

		It("rejects values outside an enum", func() {
			_, err := srv.Create(ctx, "efficiency-incidents", jsonapi.Resource{
				Type:       "efficiency-incidents",
				Attributes: map[string]any{"start-at": "2026-01-01T00:00:00Z", "status": "pending"},
				Relationships: map[string]jsonapi.Relationship{
					"subject": jsonapi.ToOne(jsonapi.ResourceIdentifier{Type: "brokers", ID: broker("Acme")}),
				},
			})

			Expect(err).To(MatchError(ContainSubstring("status is not included in the list")))
		})

		It("requires linked catalog records to exist", func() {
			_, err := srv.Create(ctx, "customers", jsonapi.Resource{
				Type:       "customers",
				Attributes: map[string]any{"company-name": "Acme"},
				Relationships: map[string]jsonapi.Relationship{
					"broker": jsonapi.ToOne(jsonapi.ResourceIdentifier{Type: "brokers", ID: "99"}),
				},
			})

			Expect(err).To(MatchError(ContainSubstring("broker must exist")))
		})

		It("accepts links to types outside the catalog", func() {
			_, err := srv.Create(ctx, "customer-tenders", jsonapi.Resource{
				Type: "customer-tenders",
				Relationships: map[string]jsonapi.Relationship{
					"job":      jsonapi.ToOne(jsonapi.ResourceIdentifier{Type: "jobs", ID: "12"}),
					"broker":   jsonapi.ToOne(jsonapi.ResourceIdentifier{Type: "brokers", ID: broker("Acme")}),
					"customer": jsonapi.ToOne(jsonapi.ResourceIdentifier{Type: "customers", ID: customer("C", "1", nil)}),
				},
			})

			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects a duplicate company name", func() {
			broker("Acme")

			_, err := srv.Create(ctx, "brokers", jsonapi.Resource{Type: "brokers", Attributes: map[string]any{"company-name": "acme"}})

			Expect(err).To(MatchError(ContainSubstring("has already been taken")))
		})

		It("rejects a body of another type", func() {
			_, err := srv.Create(ctx, "brokers", jsonapi.Resource{Type: "customers"})

			Expect(srvErrors.IsConflictError(err)).To(BeTrue())
		})

		It("rejects unknown resource types", func() {
			_, err := srv.Create(ctx, "widgets", jsonapi.Resource{Type: "widgets"})

			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})
	})

	Context("update and delete", func() {
		It("merges attributes and unlinks null relationships", func() {
			id := customer("Acme", broker("B"), map[string]any{"notes": "a"})

			r, err := srv.Update(ctx, "customers", id, jsonapi.Resource{
				Type:          "customers",
				ID:            id,
				Attributes:    map[string]any{"credit-limit": json.Number("2500")},
				Relationships: map[string]jsonapi.Relationship{"broker": jsonapi.Null()},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(r.Attributes).To(HaveKeyWithValue("notes", "a"))
			Expect(r.Attributes).To(HaveKeyWithValue("credit-limit", json.Number("2500")))
			Expect(r.Relationships).NotTo(HaveKey("broker"))
		})

		It("keeps the own company name on update", func() {
			id := broker("Acme")

			_, err := srv.Update(ctx, "brokers", id, jsonapi.Resource{Type: "brokers", Attributes: map[string]any{"company-name": "Acme"}})

			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects a mismatched id", func() {
			id := broker("Acme")

			_, err := srv.Update(ctx, "brokers", id, jsonapi.Resource{Type: "brokers", ID: "42"})

			Expect(srvErrors.IsConflictError(err)).To(BeTrue())
		})

		It("deletes once", func() {
			id := broker("Acme")

			Expect(srv.Delete(ctx, "brokers", id)).To(Succeed())
			Expect(srvErrors.IsResourceNotFoundError(srv.Delete(ctx, "brokers", id))).To(BeTrue())
			Expect(srv.Count("brokers")).To(Equal(0))
		})
	})

	Context("list", func() {
		var b1, b2 string

		BeforeEach(func() {
			b1 = broker("North")
			b2 = broker("South")
			customer("Alpha Paving", b1, map[string]any{"is-active": true, "credit-limit": json.Number("100")})
			customer("Beta Hauling", b1, map[string]any{"is-active": false, "credit-limit": json.Number("900")})
			customer("Gamma Rock", b2, map[string]any{"credit-limit": json.Number("50")})
		})

		It("pages with limit and offset and reports the total", func() {
			res, err := srv.List(ctx, "customers", jsonapi.ListParams{Limit: 1, Offset: 1})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Total).To(Equal(3))
			Expect(res.Records).To(HaveLen(1))
			Expect(res.Records[0].ID).To(Equal("4"))
		})

		It("returns an empty page past the end", func() {
			Expect(list("customers", jsonapi.ListParams{Limit: 10, Offset: 10})).To(BeEmpty())
		})

		DescribeTable("filters",
			func(filters map[string]string, expected []string) {
				Expect(list("customers", jsonapi.ListParams{Filters: filters})).To(Equal(expected))
			},
			Entry("relationship id", map[string]string{"broker": "1"}, []string{"3", "4"}),
			Entry("relationship list", map[string]string{"broker": "1,2"}, []string{"3", "4", "5"}),
			Entry("polymorphic style reference", map[string]string{"broker": "Broker|2"}, []string{"5"}),
			Entry("attribute substring", map[string]string{"company-name": "paving"}, []string{"3"}),
			Entry("boolean attribute", map[string]string{"is-active": "false"}, []string{"4"}),
			Entry("free text", map[string]string{"q": "rock"}, []string{"5"}),
			Entry("numeric minimum", map[string]string{"credit-limit-min": "100"}, []string{"3", "4"}),
			Entry("numeric maximum", map[string]string{"credit-limit-max": "99"}, []string{"5"}),
			Entry("combined", map[string]string{"broker": "1", "is-active": "true"}, []string{"3"}),
		)

		It("filters on presence", func() {
			_, err := srv.Update(ctx, "brokers", b2, jsonapi.Resource{Type: "brokers", Attributes: map[string]any{"help-text": "hi"}})
			Expect(err).NotTo(HaveOccurred())

			Expect(list("brokers", jsonapi.ListParams{Filters: map[string]string{"has-help-text": "true"}})).To(Equal([]string{b2}))
			Expect(list("brokers", jsonapi.ListParams{Filters: map[string]string{"has-help-text": "false"}})).To(Equal([]string{b1}))
		})

		It("rejects unknown filters", func() {
			_, err := srv.List(ctx, "customers", jsonapi.ListParams{Filters: map[string]string{"color": "red"}})

			Expect(srvErrors.IsUsageError(err)).To(BeTrue())
		})

		It("sorts by attributes in both directions", func() {
			Expect(list("customers", jsonapi.ListParams{Sort: []string{"-credit-limit"}})).To(Equal([]string{"4", "3", "5"}))
			Expect(list("customers", jsonapi.ListParams{Sort: []string{"company-name"}})).To(Equal([]string{"3", "4", "5"}))
		})

		It("rejects an empty sort field", func() {
			_, err := srv.List(ctx, "customers", jsonapi.ListParams{Sort: []string{"-"}})

			Expect(srvErrors.IsUsageError(err)).To(BeTrue())
		})
	})
})
