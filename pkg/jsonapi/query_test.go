package jsonapi_test

import (
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xbe-inc/xbe-integration/pkg/jsonapi"
)

var _ = Describe("Query", func() {
	It("encodes pagination, filters and sort", func() {
		q := jsonapi.NewQuery().Limit(1).Offset(2).Filter("broker", "12").Filter("start-at-min", "2025-01-01").Sort("-created-at", "name")

		values := q.Values()

		Expect(values.Get("page[limit]")).To(Equal("1"))
		Expect(values.Get("page[offset]")).To(Equal("2"))
		Expect(values.Get("filter[broker]")).To(Equal("12"))
		Expect(values.Get("filter[start-at-min]")).To(Equal("2025-01-01"))
		Expect(values.Get("sort")).To(Equal("-created-at,name"))
	})

	It("encodes to an empty string when nil", func() {
		var q *jsonapi.Query
		Expect(q.Encode()).To(BeEmpty())
	})
})

var _ = Describe("ParseListParams", func() {
	It("round trips a Query", func() {
		q := jsonapi.NewQuery().Limit(5).Offset(10).Filter("is-active", "true").Sort("name")

		p, err := jsonapi.ParseListParams(q.Values(), 50)

		Expect(err).NotTo(HaveOccurred())
		Expect(p.Limit).To(Equal(5))
		Expect(p.Offset).To(Equal(10))
		Expect(p.Filters).To(HaveKeyWithValue("is-active", "true"))
		Expect(p.Sort).To(Equal([]string{"name"}))
	})

	It("applies the default limit", func() {
		p, err := jsonapi.ParseListParams(url.Values{}, 50)

		Expect(err).NotTo(HaveOccurred())
		Expect(p.Limit).To(Equal(50))
		Expect(p.Offset).To(BeZero())
	})

	It("rejects a negative offset", func() {
		_, err := jsonapi.ParseListParams(url.Values{"page[offset]": {"-1"}}, 50)
		Expect(err).To(HaveOccurred())
	})
})
