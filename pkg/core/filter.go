package core

import "encoding/json"

// Operator is a comparison operator allowed in a Condition.
type Operator string

// Comparison operators understood by the translator.
const (
	OpEq Operator = "=="
	OpNe Operator = "!="
	OpGt Operator = ">"
	OpLt Operator = "<"
	OpGe Operator = ">="
	OpLe Operator = "<="
)

// Operators lists every operator a Condition may carry.
var Operators = []Operator{OpEq, OpNe, OpGt, OpLt, OpGe, OpLe}

// Valid reports whether o belongs to the fixed operator set.
func (o Operator) Valid() bool {
	for _, op := range Operators {
		if o == op {
			return true
		}
	}
	return false
}

// Operation is the aggregate or listing behavior requested by a question.
type Operation string

// Supported operations. OperationDefault is interpreted as a listing.
const (
	OperationDefault       Operation = ""
	OperationCountVehicles Operation = "count_vehicles"
	OperationAverageSpeed  Operation = "average_speed"
	OperationMaxSpeed      Operation = "max_speed"
	OperationListVehicles  Operation = "list_vehicles"
)

// Valid reports whether op is one of the known operations (including the default).
func (op Operation) Valid() bool {
	switch op {
	case OperationDefault, OperationCountVehicles, OperationAverageSpeed,
		OperationMaxSpeed, OperationListVehicles:
		return true
	}
	return false
}

// SortDirection orders listing results.
type SortDirection string

// Sort directions.
const (
	SortAscending  SortDirection = "ascending"
	SortDescending SortDirection = "descending"
)

// Valid reports whether d is empty or one of the two directions.
func (d SortDirection) Valid() bool {
	return d == "" || d == SortAscending || d == SortDescending
}

// Condition is one field/operator/value triple. Value is always textual;
// numeric comparison is left to the query engine.
type Condition struct {
	Field    string   `json:"field" yaml:"field"`
	Operator Operator `json:"operator" yaml:"operator"`
	Value    string   `json:"value" yaml:"value"`
}

// FilterObject is the structured form of a question. Conditions are
// combined with AND in the listed order.
type FilterObject struct {
	Conditions    []Condition   `json:"conditions" yaml:"conditions"`
	Operation     Operation     `json:"operation" yaml:"operation,omitempty"`
	SortBy        string        `json:"sort_by" yaml:"sort_by,omitempty"`
	SortDirection SortDirection `json:"sort_direction" yaml:"sort_direction,omitempty"`
}

// EffectiveSortDirection returns the sort direction with the ascending
// default applied when a sort field is named without one.
func (f FilterObject) EffectiveSortDirection() SortDirection {
	if f.SortDirection == "" && f.SortBy != "" {
		return SortAscending
	}
	return f.SortDirection
}

// wireFilter is the serialized payload shape. Empty optional strings
// travel as null.
type wireFilter struct {
	Conditions    []Condition `json:"conditions"`
	Operation     *string     `json:"operation"`
	SortBy        *string     `json:"sort_by"`
	SortDirection *string     `json:"sort_direction"`
}

// MarshalJSON encodes the filter in its wire form.
func (f FilterObject) MarshalJSON() ([]byte, error) {
	conds := f.Conditions
	if conds == nil {
		conds = []Condition{}
	}
	return json.Marshal(wireFilter{
		Conditions:    conds,
		Operation:     nullable(string(f.Operation)),
		SortBy:        nullable(f.SortBy),
		SortDirection: nullable(string(f.SortDirection)),
	})
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
