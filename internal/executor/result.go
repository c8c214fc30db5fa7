package executor

import (
	"encoding/json"
	"math"

	"github.com/leapstack-labs/rosa/pkg/core"
)

// Result is the shaped outcome of a query: either a single flat mapping
// (one row, one column) or a list of rows in result order.
type Result struct {
	Columns   []string
	Rows      []map[string]any
	Aggregate map[string]any
}

// IsAggregate reports whether the result is a single flat mapping.
func (r *Result) IsAggregate() bool {
	return r.Aggregate != nil
}

// Payload returns the value handed to callers: the aggregate mapping or the row list.
func (r *Result) Payload() any {
	if r.IsAggregate() {
		return r.Aggregate
	}
	if r.Rows == nil {
		return []map[string]any{}
	}
	return r.Rows
}

// MarshalJSON encodes the payload.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Payload())
}

// MarshalYAML encodes the payload.
func (r *Result) MarshalYAML() (any, error) {
	return r.Payload(), nil
}

// shape applies the aggregate rule and the schema's empty-set policy.
func shape(schema core.TableSchema, cols []string, rows []map[string]any) *Result {
	if len(rows) == 1 && len(cols) == 1 {
		col := cols[0]
		v := rows[0][col]
		if agg, ok := schema.AggregateByAlias(col); ok {
			v = aggregateValue(agg, v)
		}
		return &Result{Columns: cols, Aggregate: map[string]any{col: v}}
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	return &Result{Columns: cols, Rows: rows}
}

func aggregateValue(agg core.Aggregate, v any) any {
	if v == nil {
		return agg.EmptyValue
	}
	if f, ok := v.(float64); ok && agg.RoundDigits > 0 {
		p := math.Pow10(agg.RoundDigits)
		return math.Round(f*p) / p
	}
	return v
}

// normalize maps driver-specific scan types onto the JSON-friendly set
// shared by every backend.
func normalize(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case float32:
		return float64(x)
	}
	return v
}
