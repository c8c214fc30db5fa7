package source

import (
	"context"

	"github.com/leapstack-labs/rosa/pkg/core"
)

// Static serves a fixed set of records held in memory.
type Static []core.Record

// ReadAll implements core.RecordSource. The returned slice is a copy.
func (s Static) ReadAll(_ context.Context) ([]core.Record, error) {
	out := make([]core.Record, len(s))
	copy(out, s)
	return out, nil
}
