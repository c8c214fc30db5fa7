package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/rosa/internal/assistant"
	"github.com/leapstack-labs/rosa/internal/executor"
	"github.com/leapstack-labs/rosa/pkg/core"
)

// RenderAnswer writes an answer in the effective mode.
func (r *Renderer) RenderAnswer(ans *assistant.Answer) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return writeJSON(r.out, ans)
	case ModeYAML:
		return writeYAML(r.out, ans)
	default:
		r.Header(1, ans.Question)
		r.KeyValue("SQL", r.styles.SQL.Render(ans.SQL))
		r.Println("")
		r.renderResult(ans.Data)
		return nil
	}
}

// RenderPlan writes a plan in the effective mode.
func (r *Renderer) RenderPlan(plan *assistant.Plan) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return writeJSON(r.out, plan)
	case ModeYAML:
		return writeYAML(r.out, plan)
	default:
		r.Header(2, "Filter")
		r.renderFilter(plan.Filter)
		r.Println("")
		r.Header(2, "SQL")
		r.Println(r.styles.SQL.Render(plan.SQL))
		return nil
	}
}

func (r *Renderer) renderFilter(f core.FilterObject) {
	if len(f.Conditions) == 0 {
		r.Muted("(no conditions)")
	} else {
		t := newTable(r.out)
		t.AppendHeader(table.Row{"#", "Field", "Operator", "Value"})
		for i, c := range f.Conditions {
			t.AppendRow(table.Row{i + 1, c.Field, c.Operator, c.Value})
		}
		t.Render()
	}

	op := string(f.Operation)
	if op == "" {
		op = "(rows)"
	}
	r.KeyValue("Operation", op)
	if f.SortBy != "" {
		r.KeyValue("Sort", fmt.Sprintf("%s %s", f.SortBy, f.EffectiveSortDirection()))
	}
}

func (r *Renderer) renderResult(res *executor.Result) {
	if res == nil {
		r.Muted("(no result)")
		return
	}
	if res.IsAggregate() {
		for _, col := range res.Columns {
			r.KeyValue(col, formatValue(res.Aggregate[col]))
		}
		return
	}
	if len(res.Rows) == 0 {
		r.Println("(0 rows)")
		return
	}

	t := newTable(r.out)
	header := make(table.Row, len(res.Columns))
	for i, col := range res.Columns {
		header[i] = col
	}
	t.AppendHeader(header)
	for _, result := range res.Rows {
		row := make(table.Row, len(res.Columns))
		for i, col := range res.Columns {
			row[i] = formatValue(result[col])
		}
		t.AppendRow(row)
	}
	t.Render()
	r.Println(fmt.Sprintf("(%d rows)", len(res.Rows)))
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
