package errors_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	srvErrors "github.com/xbe-inc/xbe-integration/pkg/errors"
)

var _ = Describe("errors", func() {
	// Given a wrapped not found error
	// When we classify it
	// Then the wrapper is seen through
	It("detects wrapped not found errors", func() {
		err := fmt.Errorf("loading run: %w", srvErrors.NewRunNotFoundError("abc"))

		Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		Expect(srvErrors.IsNotFound(err)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("run abc not found"))
	})

	It("treats a 404 API error as not found", func() {
		err := srvErrors.NewAPIError(404, "404 Not Found", "GET", "/v1/brokers/1")

		Expect(srvErrors.IsNotFound(err)).To(BeTrue())
		Expect(srvErrors.IsResourceNotFoundError(err)).To(BeFalse())
	})

	DescribeTable("APIError.Transient",
		func(status int, expected bool) {
			Expect(srvErrors.NewAPIError(status, "", "GET", "/").Transient()).To(Equal(expected))
		},
		Entry("bad gateway", 502, true),
		Entry("service unavailable", 503, true),
		Entry("gateway timeout", 504, true),
		Entry("internal error", 500, false),
		Entry("unprocessable", 422, false),
	)

	It("renders error details", func() {
		err := srvErrors.NewAPIError(422, "422 Unprocessable Entity", "POST", "/v1/customers", "Record Invalid: broker must exist")

		Expect(err.Error()).To(Equal("POST /v1/customers: 422 Unprocessable Entity (Record Invalid: broker must exist)"))
	})

	It("recognises 401 API errors as unauthorized", func() {
		Expect(srvErrors.IsUnauthorizedError(srvErrors.NewAPIError(401, "", "GET", "/"))).To(BeTrue())
		Expect(srvErrors.IsUnauthorizedError(srvErrors.NewUnauthorizedError())).To(BeTrue())
	})
})
