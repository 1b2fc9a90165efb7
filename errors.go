package osmnetwork

import (
	"fmt"

	"github.com/paulmach/osm"
)

// DecodeError is returned when source or exchange data is malformed or can't be read
type DecodeError struct {
	// Record identifies the triggering record when known, e.g. "way 42" or "feature 3"
	Record string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Record == "" {
		return fmt.Sprintf("decode: %v", e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Record, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Cause makes DecodeError friendly to github.com/pkg/errors.Cause
func (e *DecodeError) Cause() error { return e.Err }

func newDecodeError(record string, err error) *DecodeError {
	return &DecodeError{Record: record, Err: err}
}

// GeometryError is returned when an edge chain can't be turned into a line
type GeometryError struct {
	Edge   EdgeID
	Node   osm.NodeID
	Reason string
}

func (e *GeometryError) Error() string {
	if e.Node != 0 {
		return fmt.Sprintf("geometry of edge %d: %s (node %d)", e.Edge, e.Reason, e.Node)
	}
	return fmt.Sprintf("geometry of edge %d: %s", e.Edge, e.Reason)
}
