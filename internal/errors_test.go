package internal_test

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/frahmantamala/access-request/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("serializes to status, message, type and code", func() {
		raw, err := json.Marshal(internal.ErrRequestNotFound)
		Expect(err).NotTo(HaveOccurred())

		var body map[string]interface{}
		Expect(json.Unmarshal(raw, &body)).To(Succeed())
		Expect(body).To(HaveKeyWithValue("status", BeEquivalentTo(404)))
		Expect(body).To(HaveKeyWithValue("message", "Request not found"))
		Expect(body).To(HaveKeyWithValue("type", "NOT_FOUND"))
		Expect(body).To(HaveKeyWithValue("code", "REQUEST_NOT_FOUND"))
		Expect(body).NotTo(HaveKey("details"))
	})

	It("keeps sentinels intact when a cause is attached", func() {
		cause := errors.New("driver error")
		wrapped := internal.ErrSoftwareInUse.WithCause(cause)

		Expect(internal.ErrSoftwareInUse.Cause).To(BeNil())
		Expect(errors.Is(wrapped, internal.ErrSoftwareInUse)).To(BeTrue())
		Expect(errors.Is(wrapped, cause)).To(BeTrue())
		Expect(errors.Is(wrapped, internal.ErrSoftwareNameTaken)).To(BeFalse())
	})

	It("is found through fmt wrapping", func() {
		err := fmt.Errorf("create: %w", internal.ErrUsernameTaken)
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(400))
	})

	It("reports conflicts as bad requests", func() {
		Expect(internal.ErrUsernameTaken.StatusCode).To(Equal(400))
		Expect(internal.ErrUsernameTaken.Type).To(Equal(internal.ErrorTypeConflict))
	})

	It("joins field messages for validation errors", func() {
		err := internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
				{Field: "name", Message: "name is required"},
				{Field: "version", Message: "version is required"},
			}})
		Expect(err.GetDetailedMessage()).To(Equal("name is required; version is required"))
		Expect(err.Error()).To(Equal("name is required"))
	})
})
