// Package validate re-checks serialized filters before they are trusted.
//
// The payload is treated as output of an unreliable generator: structure is
// verified, never assumed, and no defect is repaired. The first structural
// defect aborts validation; schema violations are collected and reported
// together.
package validate

import (
	"encoding/json"
	"fmt"

	"github.com/leapstack-labs/rosa/pkg/core"
)

var conditionKeys = []string{"field", "operator", "value"}

// Filter parses and validates a serialized filter payload.
// Every failure is a *core.MalformedFilterError.
func Filter(raw []byte) (core.FilterObject, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return core.FilterObject{}, &core.MalformedFilterError{Reason: core.ReasonMalformedPayload, Cause: err}
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return core.FilterObject{}, &core.MalformedFilterError{
			Reason: core.ReasonNotAnObject,
			Detail: fmt.Sprintf("got %s", jsonKind(doc)),
		}
	}

	var items []any
	if v, present := obj["conditions"]; present {
		items, ok = v.([]any)
		if !ok {
			return core.FilterObject{}, &core.MalformedFilterError{
				Reason: core.ReasonConditionsNotAList,
				Detail: fmt.Sprintf("got %s", jsonKind(v)),
			}
		}
	}

	for i, item := range items {
		cond, _ := item.(map[string]any)
		if missing := missingKeys(cond); len(missing) > 0 {
			return core.FilterObject{}, &core.MalformedFilterError{
				Reason: core.ReasonMissingKeys,
				Index:  i + 1,
				Detail: fmt.Sprintf("missing %v", missing),
			}
		}
		op, _ := cond["operator"].(string)
		if !core.Operator(op).Valid() {
			return core.FilterObject{}, &core.MalformedFilterError{
				Reason: core.ReasonInvalidOperator,
				Index:  i + 1,
				Detail: fmt.Sprintf("%v is not one of %v", cond["operator"], core.Operators),
			}
		}
	}

	return build(obj, items)
}

// build constructs the typed filter, collecting every field error.
func build(obj map[string]any, items []any) (core.FilterObject, error) {
	var errs []core.FieldError
	str := func(path string, v any, nullable bool) string {
		switch s := v.(type) {
		case string:
			return s
		case nil:
			if nullable {
				return ""
			}
		}
		errs = append(errs, core.FieldError{Path: path, Message: fmt.Sprintf("expected string, got %s", jsonKind(v))})
		return ""
	}

	f := core.FilterObject{Conditions: make([]core.Condition, 0, len(items))}
	for i, item := range items {
		cond := item.(map[string]any)
		prefix := fmt.Sprintf("conditions[%d].", i)
		f.Conditions = append(f.Conditions, core.Condition{
			Field:    str(prefix+"field", cond["field"], false),
			Operator: core.Operator(str(prefix+"operator", cond["operator"], false)),
			Value:    str(prefix+"value", cond["value"], false),
		})
	}

	f.Operation = core.Operation(str("operation", obj["operation"], true))
	if !f.Operation.Valid() {
		errs = append(errs, core.FieldError{Path: "operation", Message: fmt.Sprintf("unknown operation %q", f.Operation)})
	}
	f.SortBy = str("sort_by", obj["sort_by"], true)
	f.SortDirection = core.SortDirection(str("sort_direction", obj["sort_direction"], true))
	if !f.SortDirection.Valid() {
		errs = append(errs, core.FieldError{Path: "sort_direction", Message: fmt.Sprintf("unknown sort direction %q", f.SortDirection)})
	}

	if len(errs) > 0 {
		return core.FilterObject{}, &core.MalformedFilterError{Reason: core.ReasonSchemaValidationFailed, Fields: errs}
	}

	f.SortDirection = f.EffectiveSortDirection()
	return f, nil
}

func missingKeys(cond map[string]any) []string {
	var missing []string
	for _, k := range conditionKeys {
		if _, ok := cond[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
