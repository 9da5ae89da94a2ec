package validation

import (
	"strings"

	"github.com/fxdesk/tradebook/internal/apperrors"
)

// Severity classifies a validation diagnostic. Only ERROR entries flip a result
// to invalid; WARNING entries are informational.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// FieldError is one field-scoped validation diagnostic.
type FieldError struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Result accumulates field-scoped diagnostics for a proposed trade. It is
// transient and never persisted.
type Result struct {
	Valid  bool
	Errors []FieldError
}

// NewResult returns a valid, empty result.
func NewResult() *Result {
	return &Result{Valid: true}
}

// AddError appends a diagnostic. An ERROR severity marks the result invalid;
// warnings accumulate without affecting validity.
func (r *Result) AddError(field, message string, severity Severity) {
	if strings.EqualFold(string(severity), string(SeverityError)) {
		r.Valid = false
	}
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message, Severity: severity})
}

// Merge appends another result's diagnostics into this one.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	if !other.Valid {
		r.Valid = false
	}
	r.Errors = append(r.Errors, other.Errors...)
}

// ErrorMessages returns the messages of all ERROR-severity diagnostics, in order.
func (r *Result) ErrorMessages() []string {
	messages := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		if e.Severity == SeverityError {
			messages = append(messages, e.Message)
		}
	}
	return messages
}

// Err converts an invalid result into a ResultError carrying every diagnostic.
// It returns nil for a valid result.
func (r *Result) Err() error {
	if r.Valid {
		return nil
	}
	return &ResultError{Errors: r.Errors}
}

// ResultError is the aggregated failure the lifecycle engine raises when a
// proposed trade fails validation. It unwraps to apperrors.ErrValidation so
// boundary code can classify it, while keeping the full diagnostic list.
type ResultError struct {
	Errors []FieldError
}

func (e *ResultError) Error() string {
	messages := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		if fe.Severity == SeverityError {
			messages = append(messages, fe.Message)
		}
	}
	return "TRADE VALIDATION FAILED: " + strings.Join(messages, "; ")
}

func (e *ResultError) Unwrap() error {
	return apperrors.ErrValidation
}
