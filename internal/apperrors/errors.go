package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrForbidden indicates that the caller lacks the privilege for the requested action.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates that a concurrent modification prevented the operation,
// e.g. two amendments racing to supersede the same trade version.
var ErrConflict = errors.New("conflicting update")

// ErrQueryCompilation indicates that a filter expression could not be parsed or
// could not be bound to the target entity's properties.
var ErrQueryCompilation = errors.New("query compilation failed")

// ErrInternal indicates an unexpected infrastructure failure unrelated to business logic.
var ErrInternal = errors.New("internal error")
