package intent

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/rosa/pkg/core"
)

// Rule is one step of extraction. Apply inspects the case-folded question
// and records its effect on f, reporting whether it matched.
type Rule struct {
	Name        string
	Description string
	// Keywords lists the phrases the rule reacts to, in priority order.
	Keywords []string
	Apply    func(q string, f *core.FilterObject) bool
}

// keywordGroup maps any of its keywords to a single value.
type keywordGroup[T any] struct {
	keywords []string
	value    T
}

// firstGroup returns the value of the first group with a keyword contained in q.
func firstGroup[T any](q string, groups []keywordGroup[T]) (T, bool) {
	for _, g := range groups {
		if containsAny(q, g.keywords) {
			return g.value, true
		}
	}
	var zero T
	return zero, false
}

func keywordsOf[T any](groups ...[]keywordGroup[T]) []string {
	var out []string
	for _, gs := range groups {
		for _, g := range gs {
			out = append(out, g.keywords...)
		}
	}
	return out
}

func containsAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

var (
	speedPattern = regexp.MustCompile(`(\d+)\s*(?:kph|km/h|mph)?`)
	lanePattern  = regexp.MustCompile(`lane\s*(\d+)`)
)

var directionGroups = []keywordGroup[string]{
	{keywords: []string{"north"}, value: core.DirectionNorth},
	{keywords: []string{"south"}, value: core.DirectionSouth},
}

var speedGroups = []keywordGroup[core.Operator]{
	{keywords: []string{"faster", "over", "greater", "above"}, value: core.OpGt},
	{keywords: []string{"slower", "under", "below", "less"}, value: core.OpLt},
}

var operationGroups = []keywordGroup[core.Operation]{
	{keywords: []string{"how many", "count"}, value: core.OperationCountVehicles},
	{keywords: []string{"average"}, value: core.OperationAverageSpeed},
	{keywords: []string{"max", "highest"}, value: core.OperationMaxSpeed},
	{keywords: []string{"list", "show me"}, value: core.OperationListVehicles},
}

var sortFieldGroups = []keywordGroup[string]{
	{keywords: []string{"sorted by speed", "order by speed"}, value: "Speed"},
	{keywords: []string{"sorted by lane", "order by lane"}, value: "Lane"},
	{keywords: []string{"sorted by time", "order by time", "sorted by collection"}, value: "CollectionTime"},
}

var sortDirectionGroups = []keywordGroup[core.SortDirection]{
	{keywords: []string{"ascending", "from lowest to highest"}, value: core.SortAscending},
	{keywords: []string{"descending", "from highest to lowest"}, value: core.SortDescending},
}

// rules is evaluated top to bottom; every rule runs regardless of earlier matches.
var rules = []Rule{
	{
		Name:        "direction",
		Description: "Direction == North or South; north wins when both appear",
		Keywords:    keywordsOf(directionGroups),
		Apply:       applyDirection,
	},
	{
		Name:        "speed",
		Description: "Speed > n or Speed < n, n being the first number in the question",
		Keywords:    keywordsOf(speedGroups),
		Apply:       applySpeed,
	},
	{
		Name:        "lane",
		Description: "Lane == n for \"lane n\"",
		Keywords:    []string{"lane <n>"},
		Apply:       applyLane,
	},
	{
		Name:        "operation",
		Description: "count, average, max or list; the first matching group wins",
		Keywords:    keywordsOf(operationGroups),
		Apply:       applyOperation,
	},
	{
		Name:        "sort_by",
		Description: "ORDER BY Speed, Lane or CollectionTime",
		Keywords:    keywordsOf(sortFieldGroups),
		Apply:       applySortBy,
	},
	{
		Name:        "sort_direction",
		Description: "ASC or DESC; ascending when a sort field has no direction",
		Keywords:    keywordsOf(sortDirectionGroups),
		Apply:       applySortDirection,
	},
}

// Rules returns the extraction rules in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

func applyDirection(q string, f *core.FilterObject) bool {
	dir, ok := firstGroup(q, directionGroups)
	if !ok {
		return false
	}
	f.Conditions = append(f.Conditions, core.Condition{Field: "Direction", Operator: core.OpEq, Value: dir})
	return true
}

// applySpeed needs both a number and a comparison keyword.
func applySpeed(q string, f *core.FilterObject) bool {
	m := speedPattern.FindStringSubmatch(q)
	if m == nil {
		return false
	}
	op, ok := firstGroup(q, speedGroups)
	if !ok {
		return false
	}
	f.Conditions = append(f.Conditions, core.Condition{Field: "Speed", Operator: op, Value: m[1]})
	return true
}

func applyLane(q string, f *core.FilterObject) bool {
	m := lanePattern.FindStringSubmatch(q)
	if m == nil {
		return false
	}
	f.Conditions = append(f.Conditions, core.Condition{Field: "Lane", Operator: core.OpEq, Value: m[1]})
	return true
}

func applyOperation(q string, f *core.FilterObject) bool {
	op, ok := firstGroup(q, operationGroups)
	if !ok {
		return false
	}
	f.Operation = op
	return true
}

func applySortBy(q string, f *core.FilterObject) bool {
	field, ok := firstGroup(q, sortFieldGroups)
	if !ok {
		return false
	}
	f.SortBy = field
	return true
}

// applySortDirection runs after applySortBy so the ascending default can
// see whether a sort field was named.
func applySortDirection(q string, f *core.FilterObject) bool {
	dir, ok := firstGroup(q, sortDirectionGroups)
	if ok {
		f.SortDirection = dir
		return true
	}
	if f.SortBy != "" {
		f.SortDirection = core.SortAscending
	}
	return false
}
