package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Error codes
const (
	CodeExplorerError = "EXPLORER_ERROR"
	CodeTransport     = "TRANSPORT_ERROR"
	CodeApplication   = "APPLICATION_ERROR"
	CodeMapping       = "MAPPING_ERROR"
	CodePersistence   = "PERSISTENCE_ERROR"
	CodeValidation    = "VALIDATION_ERROR"
)

type ExplorerError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *ExplorerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExplorerError) Unwrap() error {
	return e.Cause
}

func NewExplorerError(message, code string, statusCode int, context map[string]any) *ExplorerError {
	return &ExplorerError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *ExplorerError) WithCause(cause error) *ExplorerError {
	e.Cause = cause
	return e
}

// RemoteKind separates failures of the HTTP exchange from errors reported
// inside a well-formed GraphQL response.
type RemoteKind string

const (
	RemoteTransport   RemoteKind = "TRANSPORT"
	RemoteApplication RemoteKind = "APPLICATION"
)

func (k RemoteKind) String() string {
	return string(k)
}

// GraphQLError is one entry of the "errors" array of a GraphQL response.
type GraphQLError struct {
	Message   string             `json:"message"`
	Status    int                `json:"status,omitempty"`
	Locations []GraphQLErrorPath `json:"locations,omitempty"`
}

type GraphQLErrorPath struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type RemoteError struct {
	*ExplorerError
	Kind   RemoteKind
	Status int
	Body   string
	Errors []GraphQLError
}

// Unwrap exposes the embedded ExplorerError so errors.As can match either type.
func (e *RemoteError) Unwrap() error {
	return e.ExplorerError
}

// NewTransportError reports a failed round trip: network failure (status 0),
// a non-2xx status, or an undecodable response body.
func NewTransportError(message string, status int, body string, cause error) *RemoteError {
	return &RemoteError{
		ExplorerError: &ExplorerError{
			Message:    message,
			Code:       CodeTransport,
			StatusCode: status,
			Context: map[string]any{
				"status": status,
			},
			Cause: cause,
		},
		Kind:   RemoteTransport,
		Status: status,
		Body:   body,
	}
}

func NewApplicationError(status int, gqlErrors []GraphQLError) *RemoteError {
	messages := make([]string, 0, len(gqlErrors))
	for _, e := range gqlErrors {
		messages = append(messages, e.Message)
	}

	return &RemoteError{
		ExplorerError: &ExplorerError{
			Message:    "graphql error: " + strings.Join(messages, "; "),
			Code:       CodeApplication,
			StatusCode: status,
			Context: map[string]any{
				"errors": len(gqlErrors),
			},
		},
		Kind:   RemoteApplication,
		Status: status,
		Errors: gqlErrors,
	}
}

type MappingError struct {
	*ExplorerError
	Field string
}

func (e *MappingError) Unwrap() error {
	return e.ExplorerError
}

func NewMappingError(message, field string) *MappingError {
	return &MappingError{
		ExplorerError: &ExplorerError{
			Message:    message,
			Code:       CodeMapping,
			StatusCode: 502,
			Context: map[string]any{
				"field": field,
			},
		},
		Field: field,
	}
}

type PersistenceError struct {
	*ExplorerError
	Operation string
	Key       string
}

func (e *PersistenceError) Unwrap() error {
	return e.ExplorerError
}

func NewPersistenceError(message, operation, key string, cause error) *PersistenceError {
	return &PersistenceError{
		ExplorerError: &ExplorerError{
			Message:    message,
			Code:       CodePersistence,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type ValidationError struct {
	*ExplorerError
	Field string
	Value any
}

func (e *ValidationError) Unwrap() error {
	return e.ExplorerError
}

func NewValidationError(message, field string, value any) *ValidationError {
	return &ValidationError{
		ExplorerError: &ExplorerError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

// IsTransport reports whether err carries a transport-level RemoteError.
func IsTransport(err error) bool {
	var re *RemoteError
	return stderrors.As(err, &re) && re.Kind == RemoteTransport
}

// IsApplication reports whether err carries an application-level RemoteError.
func IsApplication(err error) bool {
	var re *RemoteError
	return stderrors.As(err, &re) && re.Kind == RemoteApplication
}

func IsMapping(err error) bool {
	var me *MappingError
	return stderrors.As(err, &me)
}

func IsPersistence(err error) bool {
	var pe *PersistenceError
	return stderrors.As(err, &pe)
}

// CodeOf returns the code of the first ExplorerError in err's chain, or "" if none.
func CodeOf(err error) string {
	var ee *ExplorerError
	if stderrors.As(err, &ee) {
		return ee.Code
	}
	return ""
}
