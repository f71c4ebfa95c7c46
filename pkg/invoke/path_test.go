package invoke_test

import (
	"encoding/json"
	"fmt"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xbe-inc/xbe-integration/pkg/invoke"
)

var _ = Describe("Lookup", func() {
	var doc any

	BeforeEach(func() {
		doc = map[string]any{
			"id": "7",
			"items": []any{
				map[string]any{"id": "1"},
				map[string]any{"id": "2"},
			},
			"company-name": "Acme",
			"count":        json.Number("3"),
		}
	})

	DescribeTable("resolves paths",
		func(path string, expected any) {
			v, ok, err := invoke.Lookup(doc, path)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(expected))
		},
		Entry("member", ".id", "7"),
		Entry("member without leading dot", "id", "7"),
		Entry("index then member", ".items[0].id", "1"),
		Entry("dot before index", ".items.[1].id", "2"),
		Entry("negative index", ".items[-1].id", "2"),
		Entry("quoted member", `.["company-name"]`, "Acme"),
		Entry("number", ".count", json.Number("3")),
	)

	It("returns the document for the identity path", func() {
		v, ok, err := invoke.Lookup(doc, ".")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(doc))
	})

	DescribeTable("reports unresolved paths without error",
		func(path string) {
			v, ok, err := invoke.Lookup(doc, path)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(v).To(BeNil())
		},
		Entry("missing member", ".name"),
		Entry("index out of range", ".items[5]"),
		Entry("index on object", ".[0]"),
		Entry("member on array", ".items.id"),
		Entry("member on scalar", ".id.value"),
	)

	DescribeTable("rejects malformed paths",
		func(path string) {
			_, _, err := invoke.Lookup(doc, path)
			Expect(err).To(HaveOccurred())
		},
		Entry("empty key", ".items..id"),
		Entry("unterminated bracket", ".items[0"),
		Entry("non numeric index", ".items[x]"),
	)

	It("finds every element of an array by index", func() {
		properties := gopter.NewProperties(gopter.DefaultTestParameters())

		properties.Property("index i yields element i", prop.ForAll(
			func(values []string, i int) bool {
				if len(values) == 0 {
					return true
				}
				i = i % len(values)
				arr := make([]any, len(values))
				for j, v := range values {
					arr[j] = v
				}
				got, ok, err := invoke.Lookup(arr, fmt.Sprintf(".[%d]", i))
				if err != nil || !ok || got != values[i] {
					return false
				}
				neg, ok, err := invoke.Lookup(arr, fmt.Sprintf(".[%d]", i-len(values)))
				return err == nil && ok && neg == values[i]
			},
			gen.SliceOf(gen.AlphaString()),
			gen.IntRange(0, 1000),
		))

		Expect(properties.Run(gopter.NewFormatedReporter(false, 80, GinkgoWriter))).To(BeTrue())
	})
})
