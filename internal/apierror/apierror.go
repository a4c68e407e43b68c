// Package apierror provides the error envelopes returned by the API.
// Handlers never put raw storage or driver errors into these.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// Code is a stable machine-readable key (e.g. "transicion_invalida").
type APIError struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

func NewWithCode(code, msg string) *APIError {
	return &APIError{Detail: msg, Code: code}
}

// ValidationError lists the offending fields.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
