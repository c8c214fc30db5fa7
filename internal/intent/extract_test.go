package intent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/rosa/pkg/core"
)

func TestExtract_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     core.FilterObject
	}{
		{
			name:     "count south",
			question: "how many south vehicles",
			want: core.FilterObject{
				Conditions: []core.Condition{{Field: "Direction", Operator: core.OpEq, Value: "South"}},
				Operation:  core.OperationCountVehicles,
			},
		},
		{
			name:     "list north faster sorted descending",
			question: "list north vehicles faster than 55 kph sorted by speed descending",
			want: core.FilterObject{
				Conditions: []core.Condition{
					{Field: "Direction", Operator: core.OpEq, Value: "North"},
					{Field: "Speed", Operator: core.OpGt, Value: "55"},
				},
				Operation:     core.OperationListVehicles,
				SortBy:        "Speed",
				SortDirection: core.SortDescending,
			},
		},
		{
			name:     "max speed north lane",
			question: "max speed for north lane 1",
			want: core.FilterObject{
				Conditions: []core.Condition{
					{Field: "Direction", Operator: core.OpEq, Value: "North"},
					{Field: "Lane", Operator: core.OpEq, Value: "1"},
				},
				Operation: core.OperationMaxSpeed,
			},
		},
		{
			name:     "average slower mph",
			question: "Average speed of cars slower than 40 mph",
			want: core.FilterObject{
				Conditions: []core.Condition{{Field: "Speed", Operator: core.OpLt, Value: "40"}},
				Operation:  core.OperationAverageSpeed,
			},
		},
		{
			name:     "conditions without operation",
			question: "south lane 3",
			want: core.FilterObject{
				Conditions: []core.Condition{
					{Field: "Direction", Operator: core.OpEq, Value: "South"},
					{Field: "Lane", Operator: core.OpEq, Value: "3"},
				},
			},
		},
		{
			name:     "lane without space",
			question: "count lane2",
			want: core.FilterObject{
				Conditions: []core.Condition{{Field: "Lane", Operator: core.OpEq, Value: "2"}},
				Operation:  core.OperationCountVehicles,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.question)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_DirectionNorthWins(t *testing.T) {
	got, err := Extract("count north and south traffic")
	require.NoError(t, err)
	require.Len(t, got.Conditions, 1)
	assert.Equal(t, "North", got.Conditions[0].Value)
}

func TestExtract_SpeedKeywords(t *testing.T) {
	tests := []struct {
		question string
		op       core.Operator
	}{
		{"list cars faster than 60", core.OpGt},
		{"list cars over 60 km/h", core.OpGt},
		{"list cars greater than 60", core.OpGt},
		{"list cars above 60kph", core.OpGt},
		{"list cars slower than 60", core.OpLt},
		{"list cars under 60", core.OpLt},
		{"list cars below 60 mph", core.OpLt},
		{"list cars with speed less than 60", core.OpLt},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			got, err := Extract(tt.question)
			require.NoError(t, err)

			var speed []core.Condition
			for _, c := range got.Conditions {
				if c.Field == "Speed" {
					speed = append(speed, c)
				}
			}
			require.Len(t, speed, 1, "exactly one speed condition per extraction")
			assert.Equal(t, tt.op, speed[0].Operator)
			assert.Equal(t, "60", speed[0].Value)
		})
	}
}

func TestExtract_NumberWithoutKeyword(t *testing.T) {
	got, err := Extract("list cars at 60 kph")
	require.NoError(t, err)
	assert.Empty(t, got.Conditions)
	assert.Equal(t, core.OperationListVehicles, got.Operation)
}

func TestExtract_OperationPrecedence(t *testing.T) {
	tests := []struct {
		question string
		want     core.Operation
	}{
		{"how many have the highest average", core.OperationCountVehicles},
		{"average of the max", core.OperationAverageSpeed},
		{"show me the highest", core.OperationMaxSpeed},
		{"show me north", core.OperationListVehicles},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			got, err := Extract(tt.question)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Operation)
		})
	}
}

func TestExtract_Sorting(t *testing.T) {
	tests := []struct {
		question string
		sortBy   string
		dir      core.SortDirection
	}{
		{"list north sorted by speed", "Speed", core.SortAscending},
		{"list north order by lane descending", "Lane", core.SortDescending},
		{"list north sorted by time from highest to lowest", "CollectionTime", core.SortDescending},
		{"list north sorted by collection time from lowest to highest", "CollectionTime", core.SortAscending},
		{"list north sorted by speed and sorted by lane", "Speed", core.SortAscending},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			got, err := Extract(tt.question)
			require.NoError(t, err)
			assert.Equal(t, tt.sortBy, got.SortBy)
			assert.Equal(t, tt.dir, got.SortDirection)
		})
	}
}

func TestExtract_Ambiguous(t *testing.T) {
	for _, q := range []string{"", "hello there", "sorted by speed", "what about 50 kph"} {
		t.Run(q, func(t *testing.T) {
			_, err := Extract(q)
			require.Error(t, err)

			var ambiguous *core.AmbiguousQueryError
			require.True(t, errors.As(err, &ambiguous))
			assert.Equal(t, q, ambiguous.Question)
		})
	}
}

func TestExtract_Deterministic(t *testing.T) {
	q := "list south vehicles under 70 in lane 2 order by time"
	first, err := Extract(q)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Extract(q)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRules_Order(t *testing.T) {
	var names []string
	for _, r := range Rules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"direction", "speed", "lane", "operation", "sort_by", "sort_direction"}, names)
}

func TestRules_Individually(t *testing.T) {
	byName := make(map[string]Rule)
	for _, r := range Rules() {
		byName[r.Name] = r
	}

	t.Run("speed needs keyword", func(t *testing.T) {
		var f core.FilterObject
		assert.False(t, byName["speed"].Apply("55 kph", &f))
		assert.Empty(t, f.Conditions)
	})

	t.Run("sort direction defaults only with sort field", func(t *testing.T) {
		var f core.FilterObject
		byName["sort_direction"].Apply("nothing here", &f)
		assert.Empty(t, f.SortDirection)

		f.SortBy = "Lane"
		byName["sort_direction"].Apply("nothing here", &f)
		assert.Equal(t, core.SortAscending, f.SortDirection)
	})

	t.Run("lane", func(t *testing.T) {
		var f core.FilterObject
		assert.True(t, byName["lane"].Apply("in lane 12", &f))
		assert.Equal(t, []core.Condition{{Field: "Lane", Operator: core.OpEq, Value: "12"}}, f.Conditions)
	})
}

func TestRules_Documented(t *testing.T) {
	for _, r := range Rules() {
		assert.NotEmpty(t, r.Description, r.Name)
		assert.NotEmpty(t, r.Keywords, r.Name)
	}
}
