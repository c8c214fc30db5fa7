// Package translate compiles validated filters into SQL text.
package translate

import (
	"strings"

	"github.com/leapstack-labs/rosa/pkg/core"
)

// SQL renders f as a query against core.VehiclesSchema.
//
// Values are interpolated verbatim; only columns marked QuoteValues get
// single quotes around them. No escaping is performed.
func SQL(f core.FilterObject) string {
	return compile(core.VehiclesSchema, f)
}

func compile(schema core.TableSchema, f core.FilterObject) string {
	var sb strings.Builder

	sb.WriteString("SELECT ")
	sb.WriteString(selectClause(schema, f.Operation))
	sb.WriteString(" FROM ")
	sb.WriteString(schema.Table)

	if len(f.Conditions) > 0 {
		parts := make([]string, len(f.Conditions))
		for i, c := range f.Conditions {
			parts[i] = condition(schema, c)
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(parts, " AND "))
	}

	if f.SortBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(f.SortBy)
		if f.EffectiveSortDirection() == core.SortAscending {
			sb.WriteString(" ASC")
		} else {
			sb.WriteString(" DESC")
		}
	}

	return sb.String()
}

func selectClause(schema core.TableSchema, op core.Operation) string {
	if agg, ok := schema.AggregateFor(op); ok {
		return agg.SelectClause()
	}
	return "*"
}

func condition(schema core.TableSchema, c core.Condition) string {
	value := c.Value
	if col, ok := schema.Column(c.Field); ok && col.QuoteValues {
		value = "'" + value + "'"
	}
	return c.Field + " " + string(c.Operator) + " " + value
}
