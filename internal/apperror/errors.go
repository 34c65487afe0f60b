// Package apperror defines the error taxonomy shared by services and handlers.
package apperror

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicate
	KindUnauthenticated
	KindForbidden
	KindLocked
	KindNotFound
	KindTooManyRequests
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindDuplicate:
		return "DUPLICATE"
	case KindUnauthenticated:
		return "UNAUTHORIZED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindLocked:
		return "LOCKED"
	case KindNotFound:
		return "NOT_FOUND"
	case KindTooManyRequests:
		return "TOO_MANY_REQUESTS"
	default:
		return "INTERNAL_ERROR"
	}
}

// FieldError is one field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind and message, which lets
// package-level sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Duplicate(message string) *Error {
	return New(KindDuplicate, message)
}

func Internal(message string, err error) *Error {
	return Wrap(KindInternal, message, err)
}

// Validation turns the result of ozzo-validation into a field-level error.
// A nil input returns nil.
func Validation(err error) error {
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		var internal validation.InternalError
		if errors.As(err, &internal) {
			return Internal("validation failed", err)
		}
		return &Error{
			Kind:    KindValidation,
			Message: "Validation error",
			Fields:  []FieldError{{Field: "", Message: err.Error()}},
		}
	}

	fields := make([]FieldError, 0, len(verrs))
	flatten("", verrs, &fields)
	sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })

	return &Error{Kind: KindValidation, Message: "Validation error", Fields: fields}
}

// FieldInvalid builds a single-field validation error.
func FieldInvalid(field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "Validation error",
		Fields:  []FieldError{{Field: field, Message: message}},
	}
}

func flatten(prefix string, verrs validation.Errors, out *[]FieldError) {
	for name, err := range verrs {
		if err == nil {
			continue
		}
		field := name
		if prefix != "" {
			field = prefix + "." + name
		}
		var nested validation.Errors
		if errors.As(err, &nested) {
			flatten(field, nested, out)
			continue
		}
		*out = append(*out, FieldError{Field: field, Message: err.Error()})
	}
}

// FromDB translates gorm errors into the taxonomy. notFound is the message used
// for missing records, duplicate the one used for uniqueness violations.
func FromDB(err error, notFound, duplicate string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(notFound)
	}
	if IsUniqueViolation(err) {
		return Wrap(KindDuplicate, duplicate, err)
	}
	return Internal("database error", err)
}

// IsUniqueViolation reports whether err is a unique-constraint failure from
// postgres or sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// StatusOf maps an error onto an HTTP status code.
func StatusOf(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation, KindDuplicate:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindLocked:
		return http.StatusLocked
	case KindNotFound:
		return http.StatusNotFound
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
