package fne

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Coded is implemented by every error kind the certification pipeline raises.
type Coded interface {
	error
	Code() string
	StatusCode() int
}

// Error codes carried by the typed errors below.
const (
	CodeMapping        = "mapping_exception"
	CodeValidation     = "validation_exception"
	CodeBadRequest     = "bad_request"
	CodeAuthentication = "unauthorized_exception"
	CodeNotFound       = "not_found"
	CodeServer         = "internal_server_error"
	CodeDecode         = "decode_error"
	CodeConfig         = "config_error"
)

// ErrNoData is wrapped in a BadRequestError when a pipeline has nothing to send.
var ErrNoData = errors.New("no data provided: pass data to Execute, call SetData, or call SetModel with a Serializable source")

// Mapping error kinds.
const (
	MappingInvalidUUID = "invalid_uuid"
	MappingInvalidType = "invalid_type"
	MappingInvalidEnum = "invalid_enum"
	MappingFailed      = "mapping_failed"
)

// MappingError reports that an ERP document could not be turned into a
// canonical document.
type MappingError struct {
	Kind    string
	Field   string
	Value   any
	Message string
	Err     error
}

func (e *MappingError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = "mapping failed"
	}
	return "mapping error: " + msg
}

func (e *MappingError) Unwrap() error   { return e.Err }
func (e *MappingError) Code() string    { return CodeMapping }
func (e *MappingError) StatusCode() int { return http.StatusBadRequest }

// NewInvalidUUIDError builds the error raised for a refund item whose id is
// not a UUID.
func NewInvalidUUIDError(field string, value any) *MappingError {
	return &MappingError{
		Kind:    MappingInvalidUUID,
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("invalid UUID format for %s: %v", field, value),
	}
}

// WrapMappingError re-wraps any mapper failure, keeping a MappingError as is.
func WrapMappingError(err error) error {
	if err == nil {
		return nil
	}
	var me *MappingError
	if errors.As(err, &me) {
		return me
	}
	return &MappingError{Kind: MappingFailed, Message: err.Error(), Err: err}
}

// ValidationError carries every failing field of a canonical document.
type ValidationError struct {
	Errors      map[string][]string
	FailedRules map[string][]string
	// Data is a redacted copy of the offending document.
	Data map[string]any
}

func (e *ValidationError) Error() string {
	fields := e.Fields()
	if len(fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.Errors[f], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Code() string    { return CodeValidation }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// Fields returns the failing field paths in sorted order.
func (e *ValidationError) Fields() []string {
	out := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// HasField reports whether field has at least one error.
func (e *ValidationError) HasField(field string) bool {
	return len(e.Errors[field]) > 0
}

// BadRequestError is raised when no input can be resolved, and for API
// responses with status 400 or 422.
type BadRequestError struct {
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *BadRequestError) Error() string   { return e.Message }
func (e *BadRequestError) Unwrap() error   { return e.Err }
func (e *BadRequestError) Code() string    { return CodeBadRequest }
func (e *BadRequestError) StatusCode() int { return http.StatusBadRequest }

// AuthenticationError is raised for API responses with status 401 or 403.
type AuthenticationError struct {
	Message string
	Status  int
}

func (e *AuthenticationError) Error() string { return e.Message }
func (e *AuthenticationError) Code() string  { return CodeAuthentication }
func (e *AuthenticationError) StatusCode() int {
	if e.Status != 0 {
		return e.Status
	}
	return http.StatusUnauthorized
}

// NotFoundError is raised for API responses with status 404.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string   { return e.Message }
func (e *NotFoundError) Code() string    { return CodeNotFound }
func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

// ServerError covers 5xx responses, unexpected statuses and network failures.
// It is the only retryable kind.
type ServerError struct {
	Message string
	Status  int
	Err     error
}

func (e *ServerError) Error() string { return e.Message }
func (e *ServerError) Unwrap() error { return e.Err }
func (e *ServerError) Code() string  { return CodeServer }
func (e *ServerError) StatusCode() int {
	if e.Status >= 500 {
		return e.Status
	}
	return http.StatusInternalServerError
}

// DecodeError reports a response body that is not valid JSON.
type DecodeError struct {
	Body []byte
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}
func (e *DecodeError) Unwrap() error   { return e.Err }
func (e *DecodeError) Code() string    { return CodeDecode }
func (e *DecodeError) StatusCode() int { return http.StatusBadGateway }

// ConfigError lists configuration fields that failed validation.
type ConfigError struct {
	Fields map[string][]string
}

func (e *ConfigError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}
func (e *ConfigError) Code() string    { return CodeConfig }
func (e *ConfigError) StatusCode() int { return http.StatusInternalServerError }

// IsRetryable reports whether err is a server-class failure.
func IsRetryable(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

// StatusOf returns the HTTP-equivalent status for err, 500 when untyped.
func StatusOf(err error) int {
	var c Coded
	if errors.As(err, &c) {
		return c.StatusCode()
	}
	return http.StatusInternalServerError
}
