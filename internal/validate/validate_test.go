package validate

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/rosa/internal/intent"
	"github.com/leapstack-labs/rosa/pkg/core"
)

func requireMalformed(t *testing.T, err error) *core.MalformedFilterError {
	t.Helper()
	require.Error(t, err)
	var mfe *core.MalformedFilterError
	require.True(t, errors.As(err, &mfe), "expected MalformedFilterError, got %T", err)
	return mfe
}

func TestFilter_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		reason  core.MalformedReason
		index   int
	}{
		{"not json", `{"conditions": [`, core.ReasonMalformedPayload, 0},
		{"empty payload", ``, core.ReasonMalformedPayload, 0},
		{"array", `[{"field":"Speed"}]`, core.ReasonNotAnObject, 0},
		{"string", `"count_vehicles"`, core.ReasonNotAnObject, 0},
		{"conditions object", `{"conditions": {"field":"Speed"}}`, core.ReasonConditionsNotAList, 0},
		{"conditions null", `{"conditions": null}`, core.ReasonConditionsNotAList, 0},
		{"missing value", `{"conditions": [{"field":"Speed","operator":">"}]}`, core.ReasonMissingKeys, 1},
		{"condition not object", `{"conditions": [{"field":"Lane","operator":"==","value":"1"}, 7]}`, core.ReasonMissingKeys, 2},
		{"invalid operator", `{"conditions":[{"field":"Speed","operator":"INVALID","value":"50"}]}`, core.ReasonInvalidOperator, 1},
		{"sql operator", `{"conditions":[{"field":"Speed","operator":"=","value":"50"}]}`, core.ReasonInvalidOperator, 1},
		{"numeric operator", `{"conditions":[{"field":"Speed","operator":1,"value":"50"}]}`, core.ReasonInvalidOperator, 1},
		{"numeric value", `{"conditions":[{"field":"Speed","operator":">","value":50}]}`, core.ReasonSchemaValidationFailed, 0},
		{"operation type", `{"conditions":[],"operation":3}`, core.ReasonSchemaValidationFailed, 0},
		{"unknown operation", `{"conditions":[],"operation":"min_speed"}`, core.ReasonSchemaValidationFailed, 0},
		{"unknown direction", `{"conditions":[],"sort_by":"Speed","sort_direction":"sideways"}`, core.ReasonSchemaValidationFailed, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Filter([]byte(tt.payload))
			mfe := requireMalformed(t, err)
			assert.Equal(t, tt.reason, mfe.Reason)
			assert.Equal(t, tt.index, mfe.Index)
		})
	}
}

func TestFilter_InvalidOperatorMessage(t *testing.T) {
	_, err := Filter([]byte(`{"conditions":[{"field":"Speed","operator":"INVALID","value":"50"}]}`))
	mfe := requireMalformed(t, err)
	assert.Contains(t, mfe.Error(), "condition #1 has invalid operator")
}

func TestFilter_InvalidOperatorAnyField(t *testing.T) {
	for _, field := range []string{"Speed", "Lane", "Direction", "CollectionTime", "Bogus"} {
		for _, op := range []string{"<>", "=", "LIKE", "", "=>"} {
			payload, err := json.Marshal(map[string]any{
				"conditions": []map[string]string{{"field": field, "operator": op, "value": "x"}},
			})
			require.NoError(t, err)

			_, err = Filter(payload)
			mfe := requireMalformed(t, err)
			assert.Equal(t, core.ReasonInvalidOperator, mfe.Reason, "field=%s op=%q", field, op)
		}
	}
}

func TestFilter_FirstDefectAborts(t *testing.T) {
	payload := `{"conditions":[
		{"field":"Speed","operator":">","value":"50"},
		{"field":"Lane","operator":"~","value":"1"},
		{"field":"Lane"}
	]}`
	_, err := Filter([]byte(payload))
	mfe := requireMalformed(t, err)
	assert.Equal(t, core.ReasonInvalidOperator, mfe.Reason)
	assert.Equal(t, 2, mfe.Index)
}

func TestFilter_SchemaCollectsFieldErrors(t *testing.T) {
	payload := `{"conditions":[{"field":1,"operator":">","value":true}],"sort_by":5}`
	_, err := Filter([]byte(payload))
	mfe := requireMalformed(t, err)
	require.Equal(t, core.ReasonSchemaValidationFailed, mfe.Reason)

	var paths []string
	for _, f := range mfe.Fields {
		paths = append(paths, f.Path)
	}
	assert.ElementsMatch(t, []string{"conditions[0].field", "conditions[0].value", "sort_by"}, paths)
}

func TestFilter_Accepts(t *testing.T) {
	payload := `{"conditions":[{"field":"Direction","operator":"==","value":"North"},{"field":"Speed","operator":">=","value":"50"}],
		"operation":"average_speed","sort_by":"Speed","sort_direction":null,"extra":"ignored"}`

	got, err := Filter([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, core.FilterObject{
		Conditions: []core.Condition{
			{Field: "Direction", Operator: core.OpEq, Value: "North"},
			{Field: "Speed", Operator: core.OpGe, Value: "50"},
		},
		Operation:     core.OperationAverageSpeed,
		SortBy:        "Speed",
		SortDirection: core.SortAscending,
	}, got)
}

func TestFilter_ConditionsOptional(t *testing.T) {
	got, err := Filter([]byte(`{"operation":"count_vehicles"}`))
	require.NoError(t, err)
	assert.Empty(t, got.Conditions)
	assert.NotNil(t, got.Conditions)
	assert.Equal(t, core.OperationCountVehicles, got.Operation)
}

func TestFilter_RoundTrip(t *testing.T) {
	questions := []string{
		"how many south vehicles",
		"list north vehicles faster than 55 kph sorted by speed descending",
		"max speed for north lane 1",
		"average speed of south cars below 80 mph",
		"show me lane 3 order by time",
		"count vehicles",
		"north lane 2 sorted by lane from highest to lowest",
		"list everything ascending",
	}

	for _, q := range questions {
		t.Run(q, func(t *testing.T) {
			want, err := intent.Extract(q)
			require.NoError(t, err)

			raw, err := json.Marshal(want)
			require.NoError(t, err)

			got, err := Filter(raw)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}
