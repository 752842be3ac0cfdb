package fne

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Meta is attached to every formatted error.
type Meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

// ErrorBody is the JSON shape controllers render for a failed call.
type ErrorBody struct {
	Message    string              `json:"message"`
	Error      string              `json:"error"`
	StatusCode int                 `json:"status_code"`
	Errors     map[string][]string `json:"errors,omitempty"`
	Meta       Meta                `json:"meta"`
}

var formatNow = time.Now

// Format renders err for an API consumer. requestID may be empty, in which
// case a new UUID is generated.
func Format(err error, requestID string) ErrorBody {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	body := ErrorBody{
		Message:    err.Error(),
		Error:      CodeServer,
		StatusCode: http.StatusInternalServerError,
		Meta: Meta{
			Timestamp: formatNow().UTC().Format(time.RFC3339),
			RequestID: requestID,
		},
	}

	var c Coded
	if errors.As(err, &c) {
		body.Error = c.Code()
		body.StatusCode = c.StatusCode()
	}
	body.Errors = FieldErrors(err)
	return body
}

// FieldErrors extracts the per-field messages carried by err, if any.
func FieldErrors(err error) map[string][]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Errors
	}
	var br *BadRequestError
	if errors.As(err, &br) {
		return br.Fields
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Fields
	}
	var me *MappingError
	if errors.As(err, &me) && me.Field != "" {
		return map[string][]string{me.Field: {me.Error()}}
	}
	return nil
}
