// Package intent turns free-text questions into filters using fixed
// keyword and pattern rules. It stands in for a language-model call:
// deterministic, rule-ordered, and failing only when a question carries
// no recognizable signal at all.
package intent

import (
	"golang.org/x/text/cases"

	"github.com/leapstack-labs/rosa/pkg/core"
)

// Extract builds a FilterObject from question. It returns
// *core.AmbiguousQueryError when no condition and no operation were found.
func Extract(question string) (core.FilterObject, error) {
	// cases.Caser is stateful; one per call.
	q := cases.Fold().String(question)

	f := core.FilterObject{Conditions: make([]core.Condition, 0, 3)}
	for _, r := range rules {
		r.Apply(q, &f)
	}

	if len(f.Conditions) == 0 && f.Operation == core.OperationDefault {
		return core.FilterObject{}, &core.AmbiguousQueryError{Question: question}
	}
	return f, nil
}
