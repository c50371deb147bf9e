package api

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/store"
)

// APIError is a custom error type that implements huma.StatusError.
// It maps domain errors to HTTP responses with consistent structure.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to use domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = newAPIError
}

func newAPIError(status int, message string, errs ...error) huma.StatusError {
	for _, err := range errs {
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			return &APIError{
				status:  domainErr.HTTPStatus(),
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Details: domainErr.Details,
			}
		}

		var storeErr *store.Error
		if errors.As(err, &storeErr) && storeErr.Code < http.StatusInternalServerError {
			return &APIError{
				status:  storeErr.Code,
				Code:    statusToCode(storeErr.Code),
				Message: storeErr.Message,
			}
		}
	}

	// Request binding failures (bad JSON, missing path params) surface as
	// 422 from huma; report them as plain validation errors.
	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
	}

	apiErr := &APIError{
		status:  status,
		Code:    statusToCode(status),
		Message: message,
	}
	if details := errorDetails(errs); len(details) > 0 {
		apiErr.Details = details
	}
	return apiErr
}

// errorDetails collects huma's per-field binding errors keyed by location.
func errorDetails(errs []error) map[string]string {
	var details map[string]string
	for _, err := range errs {
		var detailer huma.ErrorDetailer
		if !errors.As(err, &detailer) {
			continue
		}
		d := detailer.ErrorDetail()
		if details == nil {
			details = make(map[string]string)
		}
		details[d.Location] = d.Message
	}
	return details
}

// statusToCode maps HTTP status codes to our domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(domainerrors.CodeValidation)
	case http.StatusUnauthorized:
		return string(domainerrors.CodeUnauthorized)
	case http.StatusForbidden:
		return string(domainerrors.CodeForbidden)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeConflict)
	case http.StatusTooManyRequests:
		return string(domainerrors.CodeRateLimited)
	default:
		return string(domainerrors.CodeInternal)
	}
}

// httpError converts domain and store errors into huma status errors so the
// response status follows the error code. Other errors pass through and
// become 500s.
func httpError(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *domainerrors.Error
	var storeErr *store.Error
	if errors.As(err, &domainErr) || (errors.As(err, &storeErr) && storeErr.Code < http.StatusInternalServerError) {
		return newAPIError(http.StatusInternalServerError, err.Error(), err)
	}
	return err
}
