package core

import (
	"fmt"
	"strings"
)

// ColumnType is the storage class of a schema column.
type ColumnType string

// Column types used by the vehicles table.
const (
	ColumnText    ColumnType = "TEXT"
	ColumnInteger ColumnType = "INTEGER"
)

// SchemaColumn describes one column of the vehicles table.
type SchemaColumn struct {
	Name string
	Type ColumnType
	// QuoteValues marks the column whose condition values are rendered
	// as string literals. Only Direction is quoted.
	QuoteValues bool
}

// Aggregate describes the select expression for an aggregate operation
// and how its single-cell result is shaped.
type Aggregate struct {
	Operation Operation
	Expr      string
	Alias     string
	// EmptyValue replaces a NULL result (aggregate over zero rows).
	EmptyValue any
	// RoundDigits rounds float results when > 0.
	RoundDigits int
}

// SelectClause renders the aggregate as it appears after SELECT.
func (a Aggregate) SelectClause() string {
	return a.Expr + " as " + a.Alias
}

// TableSchema is the single definition of the queried table consumed by
// both the translator and the executor.
type TableSchema struct {
	Table      string
	Columns    []SchemaColumn
	Aggregates []Aggregate
}

// VehiclesSchema is the fixed four-column table questions are answered against.
var VehiclesSchema = TableSchema{
	Table: "vehicles",
	Columns: []SchemaColumn{
		{Name: "CollectionTime", Type: ColumnText},
		{Name: "Direction", Type: ColumnText, QuoteValues: true},
		{Name: "Lane", Type: ColumnInteger},
		{Name: "Speed", Type: ColumnInteger},
	},
	Aggregates: []Aggregate{
		{Operation: OperationCountVehicles, Expr: "COUNT(*)", Alias: "count", EmptyValue: int64(0)},
		{Operation: OperationAverageSpeed, Expr: "AVG(Speed)", Alias: "average_speed", EmptyValue: float64(0), RoundDigits: 2},
		{Operation: OperationMaxSpeed, Expr: "MAX(Speed)", Alias: "max_speed", EmptyValue: nil},
	},
}

// Column looks up a column by name.
func (s TableSchema) Column(name string) (SchemaColumn, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return SchemaColumn{}, false
}

// ColumnNames returns the column names in table order.
func (s TableSchema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// AggregateFor returns the aggregate for an operation. Listing operations
// have no aggregate.
func (s TableSchema) AggregateFor(op Operation) (Aggregate, bool) {
	for _, a := range s.Aggregates {
		if a.Operation == op {
			return a, true
		}
	}
	return Aggregate{}, false
}

// AggregateByAlias returns the aggregate whose result column is alias.
func (s TableSchema) AggregateByAlias(alias string) (Aggregate, bool) {
	for _, a := range s.Aggregates {
		if a.Alias == alias {
			return a, true
		}
	}
	return Aggregate{}, false
}

// CreateTableSQL returns the DDL for the table.
func (s TableSchema) CreateTableSQL() string {
	defs := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		defs[i] = fmt.Sprintf("%s %s", c.Name, c.Type)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", s.Table, strings.Join(defs, ", "))
}

// InsertSQL returns a positional insert statement covering every column.
func (s TableSchema) InsertSQL() string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(s.Columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.Table, strings.Join(s.ColumnNames(), ", "), marks)
}
