// Package ids implements Stof's opaque identifiers and graph references
// (component A): SId generation and the NodeRef/DataRef path algorithms
// (child_of, child_of_distance, node_path, distance_to).
package ids

import "github.com/google/uuid"

// SId is an opaque, globally unique identifier for a node or data item.
type SId string

// NewSId mints a fresh random identifier.
func NewSId() SId {
	return SId(uuid.NewString())
}

// Empty reports whether this id was never assigned.
func (id SId) Empty() bool {
	return id == ""
}

func (id SId) String() string {
	return string(id)
}
