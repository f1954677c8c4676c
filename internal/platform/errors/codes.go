// Package errors provides structured error handling for worksheet generation.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Input errors
	CodeInvalidInput Code = "INVALID_INPUT"

	// Generation errors
	CodeGenerationExhausted Code = "GENERATION_EXHAUSTED"

	// Collaborator errors
	CodeRenderFailed  Code = "RENDER_FAILED"
	CodeStorageFailed Code = "STORAGE_FAILED"
	CodeNotFound      Code = "NOT_FOUND"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeGenerationExhausted:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRenderFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
