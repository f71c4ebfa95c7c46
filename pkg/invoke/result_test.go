package invoke_test

import (
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xbe-inc/xbe-integration/pkg/invoke"
)

var _ = Describe("Result", func() {
	It("is successful only with exit code 0 and no error", func() {
		Expect(invoke.Result{}.Success()).To(BeTrue())
		Expect(invoke.Result{ExitCode: 1}.Success()).To(BeFalse())
		Expect(invoke.Result{Err: errors.New("boom")}.Success()).To(BeFalse())
	})

	It("joins stdout and stderr", func() {
		Expect(invoke.Result{Stdout: "a"}.Output()).To(Equal("a"))
		Expect(invoke.Result{Stderr: "b"}.Output()).To(Equal("b"))
		Expect(invoke.Result{Stdout: "a", Stderr: "b"}.Output()).To(Equal("a\nb"))
	})

	It("renders the command line", func() {
		r := invoke.Result{Args: []string{"view", "brokers", "list"}}
		Expect(r.Command()).To(Equal("xbe view brokers list"))
	})

	It("excerpts the first non-empty line", func() {
		r := invoke.Result{Stderr: "\n  Error: required flag(s) \"name\" not set\nUsage: ..."}
		Expect(r.Excerpt(200)).To(Equal(`Error: required flag(s) "name" not set`))
		Expect(r.Excerpt(8)).To(Equal("Error..."))
	})

	It("falls back to the invocation error in the excerpt", func() {
		r := invoke.Result{Err: errors.New("exec: not found")}
		Expect(r.Excerpt(100)).To(Equal("exec: not found"))
	})

	Context("JSON", func() {
		It("parses stdout keeping numbers exact", func() {
			r := invoke.Result{Stdout: `[{"id":"1","count":12345678901234567890}]`}

			Expect(r.GetString(".[0].id")).To(Equal("1"))
			v, ok, err := r.Get(".[0].count")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(json.Number("12345678901234567890")))
		})

		It("rejects empty output", func() {
			_, err := invoke.Result{Stdout: "  \n"}.JSON()
			Expect(err).To(HaveOccurred())
		})

		It("rejects trailing data", func() {
			_, err := invoke.Result{Stdout: `{"id":"1"} {"id":"2"}`}.JSON()
			Expect(err).To(MatchError(ContainSubstring("unexpected data")))
		})

		It("returns an empty string for unresolved paths", func() {
			r := invoke.Result{Stdout: `{"id":"1"}`}
			Expect(r.GetString(".name")).To(BeEmpty())
			Expect(r.GetString("..")).To(BeEmpty())
		})
	})

	DescribeTable("Stringify",
		func(v any, expected string) {
			Expect(invoke.Stringify(v)).To(Equal(expected))
		},
		Entry("nil", nil, ""),
		Entry("string", "x", "x"),
		Entry("number", json.Number("1.5"), "1.5"),
		Entry("bool", true, "true"),
	)
})
