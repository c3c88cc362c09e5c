package graph

import "github.com/dev-formata-io/stof-sub002/internal/ids"

// protoDataName is the well-known data name a node's prototype is attached
// under, mirroring the original's single "__proto__"-style slot per node.
const protoDataName = "__proto__"

// SetProto attaches (or replaces) node's prototype, extending the new
// prototype's inheritance stack with the node's previous prototype chain
// when base is non-nil — this is upcast/set_proto's "extend the chain"
// behavior from the Supplemented Features note on typepath/typename stacks.
func (g *Graph) SetProto(nodeId ids.SId, typeName, typePath string) (*Data, bool) {
	n, ok := g.nodes[nodeId]
	if !ok {
		return nil, false
	}
	stack := []string{typeName}
	if existingId, ok := n.GetData(protoDataName); ok {
		if existing, ok := g.data[existingId]; ok && existing.Kind == KindPrototype {
			stack = append(append([]string(nil), existing.Prototype.Stack...), typeName)
		}
	}
	d := NewPrototypeData(ids.NewSId(), typeName)
	d.Prototype.TypePath = typePath
	d.Prototype.Stack = stack
	g.AttachData(ids.NewNodeRef(nodeId), protoDataName, d)
	return d, true
}

// Proto returns node's prototype data item, if any.
func (g *Graph) Proto(nodeId ids.SId) (*Data, bool) {
	n, ok := g.nodes[nodeId]
	if !ok {
		return nil, false
	}
	dataId, ok := n.GetData(protoDataName)
	if !ok {
		return nil, false
	}
	d, ok := g.data[dataId]
	if !ok || d.Kind != KindPrototype {
		return nil, false
	}
	return d, true
}

// InstanceOf reports whether node's prototype chain contains typeName
// anywhere (not just as the immediate prototype), per the full
// inheritance-stack walk the Supplemented Features note calls for.
func (g *Graph) InstanceOf(nodeId ids.SId, typeName string) bool {
	d, ok := g.Proto(nodeId)
	if !ok {
		return false
	}
	for _, t := range d.Prototype.Stack {
		if t == typeName {
			return true
		}
	}
	return false
}
