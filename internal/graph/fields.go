package graph

import (
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

// SetFieldValue creates or updates the field named name on node, returning
// the field Data item. This is the common write path format plugins and
// core libraries use instead of poking Node.Data/Graph.data directly.
func (g *Graph) SetFieldValue(nodeId ids.SId, name string, v value.Val) (*Data, bool) {
	n, ok := g.nodes[nodeId]
	if !ok {
		return nil, false
	}
	if existingId, ok := n.GetData(name); ok {
		if d, ok := g.data[existingId]; ok && d.Kind == KindField {
			d.Field.Value = v
			return d, true
		}
	}
	d := NewFieldData(ids.NewSId(), v)
	g.AttachData(ids.NewNodeRef(nodeId), name, d)
	return d, true
}

// GetFieldValue reads the current value of the field named name on node.
func (g *Graph) GetFieldValue(nodeId ids.SId, name string) (value.Val, bool) {
	n, ok := g.nodes[nodeId]
	if !ok {
		return value.Val{}, false
	}
	dataId, ok := n.GetData(name)
	if !ok {
		return value.Val{}, false
	}
	d, ok := g.data[dataId]
	if !ok || d.Kind != KindField {
		return value.Val{}, false
	}
	return d.Field.Value, true
}

// EachField calls fn for every field attached directly to node, in
// insertion order.
func (g *Graph) EachField(nodeId ids.SId, fn func(name string, v value.Val)) {
	n, ok := g.nodes[nodeId]
	if !ok {
		return
	}
	for pair := n.Data.Oldest(); pair != nil; pair = pair.Next() {
		d, ok := g.data[pair.Value]
		if !ok || d.Kind != KindField {
			continue
		}
		fn(string(pair.Key), d.Field.Value)
	}
}
