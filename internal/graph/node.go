// Package graph implements Stof's graph store (component B): Node and Data
// types, the Graph interface, dirty-symbol tracking, and the deadpool of
// recently-removed nodes/data — grounded on the teacher's bitmap-indexed
// MemoryStore (internal/graph/graph.go) generalized from a file-content
// index to Stof's node/data/attribute model.
package graph

import (
	"github.com/RoaringBitmap/roaring"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

// FieldNodeAttr marks a node as representing a single field value (created
// implicitly by some library operations, e.g. Object.schemafy).
const FieldNodeAttr = "__field__"

// Dirty-symbol bits, set on a node whenever the corresponding part of its
// state changes and cleared by Validate. Matches the original's
// INVALID_NODE_* constants, backed here by a roaring bitmap per node.
const (
	DirtyNew uint32 = iota
	DirtyName
	DirtyParent
	DirtyChildren
	DirtyData
	DirtyAttributes
)

// Node is one vertex of the graph: a name, a parent link, an ordered set of
// children, an ordered (insertion-order) mapping of name to attached data,
// a free-form attribute bag, and a dirty-symbol bitmap.
type Node struct {
	Id       ids.SId
	Name     string
	Parent   ids.SId // empty for a root
	Children []ids.SId
	Data     *orderedmap.OrderedMap[ids.SId, ids.SId] // data name -> DataRef.Id
	Attrs    map[string]value.Val
	dirty    *roaring.Bitmap
}

func NewNode(id ids.SId, name string, parent ids.SId) *Node {
	n := &Node{
		Id:     id,
		Name:   name,
		Parent: parent,
		Data:   orderedmap.New[ids.SId, ids.SId](),
		Attrs:  make(map[string]value.Val),
		dirty:  roaring.New(),
	}
	n.invalidate(DirtyNew)
	return n
}

func (n *Node) invalidate(bit uint32) { n.dirty.Add(bit) }

func (n *Node) Dirty(bit uint32) bool { return n.dirty.Contains(bit) }
func (n *Node) AnyDirty() bool        { return !n.dirty.IsEmpty() }

// ValidateClear clears every dirty-symbol bit, acknowledging all pending
// changes have been observed (by a dependency-recompute pass, a persistence
// flush, etc).
func (n *Node) ValidateClear() { n.dirty.Clear() }

func (n *Node) Validate(bit uint32) { n.dirty.Remove(bit) }

// IsField reports whether this node stands in for a single field value.
func (n *Node) IsField() bool {
	_, ok := n.Attrs[FieldNodeAttr]
	return ok
}

func (n *Node) MakeField() {
	n.Attrs[FieldNodeAttr] = value.BoolVal(true)
	n.invalidate(DirtyAttributes)
}

func (n *Node) NotField() {
	delete(n.Attrs, FieldNodeAttr)
	n.invalidate(DirtyAttributes)
}

func (n *Node) SetName(name string) {
	n.Name = name
	n.invalidate(DirtyName)
}

func (n *Node) InsertAttribute(key string, v value.Val) {
	n.Attrs[key] = v
	n.invalidate(DirtyAttributes)
}

func (n *Node) RemoveAttribute(key string) {
	delete(n.Attrs, key)
	n.invalidate(DirtyAttributes)
}

func (n *Node) HasChild(id ids.SId) bool {
	for _, c := range n.Children {
		if c == id {
			return true
		}
	}
	return false
}

func (n *Node) AddChild(id ids.SId) {
	if n.HasChild(id) {
		return
	}
	n.Children = append(n.Children, id)
	n.invalidate(DirtyChildren)
}

func (n *Node) RemoveChild(id ids.SId) bool {
	for i, c := range n.Children {
		if c == id {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			n.invalidate(DirtyChildren)
			return true
		}
	}
	return false
}

func (n *Node) HasDataNamed(name string) bool {
	_, ok := n.Data.Get(ids.SId(name))
	return ok
}

func (n *Node) HasData(id ids.SId) bool {
	for pair := n.Data.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == id {
			return true
		}
	}
	return false
}

// AddData attaches data under name, returning the previous DataRef id if
// the name was already in use (the caller is responsible for deciding what
// happens to orphaned data, matching the original's add_data contract).
func (n *Node) AddData(name string, id ids.SId) (ids.SId, bool) {
	old, existed := n.Data.Get(ids.SId(name))
	n.Data.Set(ids.SId(name), id)
	n.invalidate(DirtyData)
	return old, existed
}

func (n *Node) GetData(name string) (ids.SId, bool) {
	return n.Data.Get(ids.SId(name))
}

// RemoveDataNamed detaches the data at name, returning its id.
func (n *Node) RemoveDataNamed(name string) (ids.SId, bool) {
	v, ok := n.Data.Get(ids.SId(name))
	if ok {
		n.Data.Delete(ids.SId(name))
		n.invalidate(DirtyData)
	}
	return v, ok
}

// RemoveData detaches whichever name currently maps to id (searches by
// value, matching the original's remove_data-by-ref semantics).
func (n *Node) RemoveData(id ids.SId) bool {
	for pair := n.Data.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == id {
			n.Data.Delete(pair.Key)
			n.invalidate(DirtyData)
			return true
		}
	}
	return false
}

func (n *Node) DataNames() []string {
	names := make([]string, 0, n.Data.Len())
	for pair := n.Data.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, string(pair.Key))
	}
	return names
}
