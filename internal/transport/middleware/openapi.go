package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/frahmantamala/access-request/internal"
	"github.com/frahmantamala/access-request/internal/transport"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
)

// OpenAPIValidator checks requests under prefix against doc before they reach
// a handler. Operations the document does not describe pass through so the
// router can answer 404 or 405. Authentication is left to the auth middleware.
func OpenAPIValidator(doc *openapi3.T, prefix string, base *transport.BaseHandler) (func(http.Handler) http.Handler, error) {
	// paths are matched with the prefix stripped
	doc.Servers = nil

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}

			routed := r.Clone(r.Context())
			routed.URL.Path = strings.TrimPrefix(r.URL.Path, prefix)
			routed.URL.RawPath = ""

			route, pathParams, err := router.FindRoute(routed)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    routed,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				base.HandleError(w, r, requestValidationError(err))
				return
			}

			// the validator consumed the body and left a replayable copy
			r.Body = routed.Body
			next.ServeHTTP(w, r)
		})
	}, nil
}

func requestValidationError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return internal.ErrInvalidBody.WithCause(err)
	}

	var reqErr *openapi3filter.RequestError
	if !errors.As(err, &reqErr) {
		return internal.NewValidationError("Invalid request", internal.ErrCodeValidationFailed).WithCause(err)
	}

	if reqErr.Parameter != nil && reqErr.Parameter.In == openapi3.ParameterInPath {
		return internal.ErrInvalidID.WithCause(err)
	}

	var schemaErr *openapi3.SchemaError
	isSchemaErr := errors.As(err, &schemaErr)

	// missing, unreadable or undecodable bodies
	if reqErr.RequestBody != nil && !isSchemaErr {
		return internal.ErrInvalidBody.WithCause(err)
	}

	field := "body"
	message := reqErr.Reason
	if isSchemaErr {
		if pointer := schemaErr.JSONPointer(); len(pointer) > 0 {
			field = strings.Join(pointer, ".")
		}
		message = schemaErr.Reason
	}
	if reqErr.Parameter != nil {
		field = reqErr.Parameter.Name
	}
	if message == "" {
		message = reqErr.Error()
	}

	return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
		WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
			{Field: field, Message: message, Code: string(internal.ErrCodeValidationFailed)},
		}}).
		WithCause(err)
}
