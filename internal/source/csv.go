// Package source provides record sources for the question pipeline.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/leapstack-labs/rosa/pkg/core"
)

// CSV reads records from a CSV file with a header row naming
// CollectionTime, Direction, Lane and Speed in any order.
// The file is read on every call; nothing is cached.
type CSV struct {
	Path string
}

// NewCSV creates a CSV source for path.
func NewCSV(path string) *CSV {
	return &CSV{Path: path}
}

// ReadAll implements core.RecordSource.
func (s *CSV) ReadAll(ctx context.Context) ([]core.Record, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open traffic data: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := ParseCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return records, nil
}

// RowError reports a data row that could not be converted to a Record.
// Line is the 1-based line number in the file, header included.
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("line %d: column %s: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ParseCSV converts CSV content to records. Lane and Speed must be integers.
func ParseCSV(ctx context.Context, r io.Reader) ([]core.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing CSV header")
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	for _, name := range core.VehiclesSchema.ColumnNames() {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("CSV header missing column %s", name)
		}
	}

	var records []core.Record
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec := core.Record{
			CollectionTime: strings.TrimSpace(row[index["CollectionTime"]]),
			Direction:      strings.TrimSpace(row[index["Direction"]]),
		}
		if rec.Lane, err = atoi(row[index["Lane"]]); err != nil {
			return nil, &RowError{Line: line, Column: "Lane", Err: err}
		}
		if rec.Speed, err = atoi(row[index["Speed"]]); err != nil {
			return nil, &RowError{Line: line, Column: "Speed", Err: err}
		}
		records = append(records, rec)
	}

	return records, nil
}

func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
