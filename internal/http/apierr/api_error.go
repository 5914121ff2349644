package apierr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	govalidator "github.com/go-playground/validator/v10"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/validator"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/zerror"
)

const InternalServerErrorCode = "internalServerError"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the error response for the API.
type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details *[]FieldError `json:"details,omitempty"`
	// Stack is only filled outside production.
	Stack *string `json:"stack,omitempty"`

	// StatusCode is the status code for the error response.
	StatusCode int `json:"-"`
}

func New(err error) ErrorResponse {
	return errorToErrorResponse(err)
}

// WithStack returns a copy of the response carrying stack.
func (r ErrorResponse) WithStack(stack string) ErrorResponse {
	r.Stack = &stack
	return r
}

func errorToErrorResponse(err error) ErrorResponse {
	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		res := ErrorResponse{
			Code:       zErr.Code(),
			Message:    zErr.Msg(),
			StatusCode: ZErrorStatusToHTTPStatus(zErr.Status()),
		}
		if details := fieldErrors(err); len(details) > 0 {
			res.Details = &details
		}
		return res
	}

	if details := fieldErrors(err); len(details) > 0 {
		return ErrorResponse{
			Code:       apperr.ValidationErrorCode,
			Message:    "validation error",
			Details:    &details,
			StatusCode: http.StatusBadRequest,
		}
	}

	if isOpenAPIRequestErr(err) {
		return ErrorResponse{
			Code:       apperr.ValidationErrorCode,
			Message:    err.Error(),
			StatusCode: http.StatusBadRequest,
		}
	}

	return ErrorResponse{
		Code:       InternalServerErrorCode,
		Message:    err.Error(),
		StatusCode: http.StatusInternalServerError,
	}
}

// fieldErrors collects per-field problems from struct validation and from
// OpenAPI schema validation.
func fieldErrors(err error) []FieldError {
	var validationErrs govalidator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]FieldError, len(validationErrs))
		for i, fe := range validationErrs {
			details[i] = FieldError{
				Field:   fe.Field(),
				Message: validator.ValidationErrorMessage(fe),
			}
		}
		return details
	}

	var multiErr openapi3.MultiError
	if errors.As(err, &multiErr) {
		var details []FieldError
		for _, e := range multiErr {
			details = append(details, fieldErrors(e)...)
		}
		return details
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		field := strings.Join(schemaErr.JSONPointer(), ".")
		var reqErr *openapi3filter.RequestError
		if field == "" && errors.As(err, &reqErr) && reqErr.Parameter != nil {
			field = reqErr.Parameter.Name
		}
		return []FieldError{{
			Field:   field,
			Message: schemaErr.Reason,
		}}
	}

	return nil
}

func ZErrorStatusToHTTPStatus(status zerror.Status) int {
	switch status {
	case zerror.StatusUnauthorized:
		return http.StatusUnauthorized
	case zerror.StatusForbidden:
		return http.StatusForbidden
	case zerror.StatusNotFound:
		return http.StatusNotFound
	case zerror.StatusUnprocessableEntity:
		return http.StatusUnprocessableEntity
	case zerror.StatusConflict:
		return http.StatusConflict
	case zerror.StatusRequestTooLarge:
		return http.StatusRequestEntityTooLarge
	case zerror.StatusTooManyRequests:
		return http.StatusTooManyRequests
	case zerror.StatusBadRequest:
		return http.StatusBadRequest
	case zerror.StatusValidationFailed:
		return http.StatusBadRequest
	case zerror.StatusUnknown, zerror.StatusInternalServerError:
		return http.StatusInternalServerError
	case zerror.StatusTimeout:
		return http.StatusGatewayTimeout
	case zerror.StatusNotImplemented:
		return http.StatusNotImplemented
	case zerror.StatusBadGateway:
		return http.StatusBadGateway
	case zerror.StatusServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isOpenAPIRequestErr(err error) bool {
	var (
		e1 *openapi3filter.RequestError
		e2 *openapi3filter.SecurityRequirementsError
	)

	return errors.As(err, &e1) ||
		errors.As(err, &e2)
}
