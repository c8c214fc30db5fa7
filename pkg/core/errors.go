package core

import (
	"fmt"
	"strings"
)

// EmptyInputError is returned when a question is blank. No pipeline
// stage runs for such a question.
type EmptyInputError struct{}

func (e *EmptyInputError) Error() string {
	return "question cannot be empty"
}

// AmbiguousQueryError is returned when a question yields neither a
// condition nor an operation.
type AmbiguousQueryError struct {
	Question string
}

func (e *AmbiguousQueryError) Error() string {
	return fmt.Sprintf("could not understand question %q: no filter or operation recognized", e.Question)
}

// MalformedReason classifies a MalformedFilterError.
type MalformedReason string

// Reasons a serialized filter payload is rejected.
const (
	ReasonMalformedPayload       MalformedReason = "malformed_payload"
	ReasonNotAnObject            MalformedReason = "not_an_object"
	ReasonConditionsNotAList     MalformedReason = "conditions_not_a_list"
	ReasonMissingKeys            MalformedReason = "missing_keys"
	ReasonInvalidOperator        MalformedReason = "invalid_operator"
	ReasonSchemaValidationFailed MalformedReason = "schema_validation_failed"
)

// FieldError is a single schema violation at a payload path.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return e.Path + ": " + e.Message
}

// MalformedFilterError reports a structural defect in a serialized filter.
// Index is the 1-based condition number for per-condition reasons, 0 otherwise.
type MalformedFilterError struct {
	Reason MalformedReason
	Index  int
	Detail string
	Fields []FieldError
	Cause  error
}

func (e *MalformedFilterError) Error() string {
	var msg string
	switch e.Reason {
	case ReasonMalformedPayload:
		msg = "malformed filter payload"
	case ReasonNotAnObject:
		msg = "filter payload is not an object"
	case ReasonConditionsNotAList:
		msg = "filter conditions is not a list"
	case ReasonMissingKeys:
		msg = fmt.Sprintf("condition #%d missing keys", e.Index)
	case ReasonInvalidOperator:
		msg = fmt.Sprintf("condition #%d has invalid operator", e.Index)
	case ReasonSchemaValidationFailed:
		msg = "filter schema validation failed"
	default:
		msg = "invalid filter"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if len(e.Fields) > 0 {
		parts := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			parts[i] = f.String()
		}
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *MalformedFilterError) Unwrap() error {
	return e.Cause
}

// ExecutionError reports a translated query the executor could not run.
// It signals translator/schema drift, not a user mistake.
type ExecutionError struct {
	Query string
	Cause error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("failed to execute %q: %v", e.Query, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}
