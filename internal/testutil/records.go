package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/rosa/pkg/core"
)

// SampleRecords returns a small fixed dataset covering both directions,
// two lanes and speeds on both sides of the common thresholds.
func SampleRecords() []core.Record {
	return []core.Record{
		{CollectionTime: "2024-03-01 07:00:00", Direction: core.DirectionNorth, Lane: 1, Speed: 48},
		{CollectionTime: "2024-03-01 07:00:10", Direction: core.DirectionSouth, Lane: 2, Speed: 71},
		{CollectionTime: "2024-03-01 07:00:20", Direction: core.DirectionNorth, Lane: 1, Speed: 62},
		{CollectionTime: "2024-03-01 07:00:30", Direction: core.DirectionNorth, Lane: 2, Speed: 57},
		{CollectionTime: "2024-03-01 07:00:40", Direction: core.DirectionSouth, Lane: 1, Speed: 44},
		{CollectionTime: "2024-03-01 07:00:50", Direction: core.DirectionNorth, Lane: 1, Speed: 66},
		{CollectionTime: "2024-03-01 07:01:00", Direction: core.DirectionSouth, Lane: 2, Speed: 53},
		{CollectionTime: "2024-03-01 07:01:10", Direction: core.DirectionNorth, Lane: 2, Speed: 39},
	}
}

// WriteTrafficCSV writes records as a traffic CSV under t.TempDir and
// returns its path.
func WriteTrafficCSV(t testing.TB, records []core.Record) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("CollectionTime,Direction,Lane,Speed\n")
	for _, r := range records {
		fmt.Fprintf(&b, "%s,%s,%d,%d\n", r.CollectionTime, r.Direction, r.Lane, r.Speed)
	}

	path := filepath.Join(t.TempDir(), "traffic.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}
