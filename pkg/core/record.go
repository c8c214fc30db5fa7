package core

import "context"

// Direction values observed in the dataset.
const (
	DirectionNorth = "North"
	DirectionSouth = "South"
)

// Record is one sensor observation. Records are owned by a RecordSource
// and never modified by the pipeline.
type Record struct {
	CollectionTime string `json:"CollectionTime" yaml:"CollectionTime"`
	Direction      string `json:"Direction" yaml:"Direction"`
	Lane           int    `json:"Lane" yaml:"Lane"`
	Speed          int    `json:"Speed" yaml:"Speed"`
}

// Values returns the record's fields in VehiclesSchema column order.
func (r Record) Values() []any {
	return []any{r.CollectionTime, r.Direction, r.Lane, r.Speed}
}

// RecordSource is a read-only, ordered supply of records.
// Implementations must not mutate previously returned records.
type RecordSource interface {
	ReadAll(ctx context.Context) ([]Record, error)
}
