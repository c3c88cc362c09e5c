package graph

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dev-formata-io/stof-sub002/internal/ids"
)

// deadpoolSize bounds how many recently-removed nodes/data the graph keeps
// around (for undo-ish inspection and to let in-flight DataRef/NodeRef
// holders detect "recently gone" vs "never existed"), upgrading the
// teacher's hand-rolled FIFO content cache to an LRU.
const deadpoolSize = 4096

// Graph is Stof's in-memory graph store: nodes, data, and root bookkeeping.
// It satisfies ids.NodeLookup and ids.NameResolver so the path/distance
// algorithms in internal/ids can operate directly against it.
type Graph struct {
	nodes map[ids.SId]*Node
	data  map[ids.SId]*Data
	roots []ids.SId

	deadNodes *lru.Cache[ids.SId, *Node]
	deadData  *lru.Cache[ids.SId, *Data]
}

func New() *Graph {
	deadNodes, _ := lru.New[ids.SId, *Node](deadpoolSize)
	deadData, _ := lru.New[ids.SId, *Data](deadpoolSize)
	return &Graph{
		nodes:     make(map[ids.SId]*Node),
		data:      make(map[ids.SId]*Data),
		deadNodes: deadNodes,
		deadData:  deadData,
	}
}

// --- ids.NodeLookup / ids.NameResolver ---

func (g *Graph) NodeExists(id ids.SId) bool {
	_, ok := g.nodes[id]
	return ok
}

func (g *Graph) NodeParent(id ids.SId) (ids.SId, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return "", false
	}
	return n.Parent, true
}

func (g *Graph) NodeName(id ids.SId) (string, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return "", false
	}
	return n.Name, true
}

func (g *Graph) FindChildNamed(parent ids.SId, name string) (ids.SId, bool) {
	n, ok := g.nodes[parent]
	if !ok {
		return "", false
	}
	for _, cid := range n.Children {
		if c, ok := g.nodes[cid]; ok && c.Name == name {
			return cid, true
		}
	}
	return "", false
}

func (g *Graph) Roots() []ids.SId {
	return append([]ids.SId(nil), g.roots...)
}

// --- node lifecycle ---

func (g *Graph) Node(id ids.SId) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NewRoot creates a fresh root node (no parent).
func (g *Graph) NewRoot(name string) *Node {
	n := NewNode(ids.NewSId(), name, "")
	g.nodes[n.Id] = n
	g.roots = append(g.roots, n.Id)
	return n
}

// NewChild creates a fresh node as a child of parent.
func (g *Graph) NewChild(parent ids.SId, name string) (*Node, bool) {
	p, ok := g.nodes[parent]
	if !ok {
		return nil, false
	}
	n := NewNode(ids.NewSId(), name, parent)
	g.nodes[n.Id] = n
	p.AddChild(n.Id)
	return n, true
}

// RemoveNode detaches a node from its parent (or the root list) and moves
// it, along with all of its data (if now orphaned), to the deadpool.
// Children are removed recursively.
func (g *Graph) RemoveNode(id ids.SId) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	for _, child := range append([]ids.SId(nil), n.Children...) {
		g.RemoveNode(child)
	}
	for pair := n.Data.Oldest(); pair != nil; pair = pair.Next() {
		g.DetachData(ids.NewNodeRef(id), pair.Value)
	}
	if n.Parent != "" {
		if p, ok := g.nodes[n.Parent]; ok {
			p.RemoveChild(id)
		}
	} else {
		for i, r := range g.roots {
			if r == id {
				g.roots = append(g.roots[:i], g.roots[i+1:]...)
				break
			}
		}
	}
	delete(g.nodes, id)
	g.deadNodes.Add(id, n)
	return true
}

// WasRemoved reports whether id is a node that was recently removed (still
// tracked in the deadpool) as opposed to never having existed.
func (g *Graph) WasRemoved(id ids.SId) bool {
	_, ok := g.deadNodes.Peek(id)
	return ok
}

// --- data lifecycle ---

func (g *Graph) Data(id ids.SId) (*Data, bool) {
	d, ok := g.data[id]
	return d, ok
}

// AttachData inserts d (creating it in the graph) under name on node, or
// adds node as another referrer if d already exists in the graph.
func (g *Graph) AttachData(node ids.NodeRef, name string, d *Data) bool {
	n, ok := g.nodes[node.Id]
	if !ok {
		return false
	}
	if _, exists := g.data[d.Id]; !exists {
		g.data[d.Id] = d
	}
	d.NewReference(node)
	if old, existed := n.AddData(name, d.Id); existed && old != d.Id {
		g.DetachData(node, old)
	}
	return true
}

// DetachData removes the node's reference to dataId, recycling the data
// item to the deadpool once its last referrer is gone.
func (g *Graph) DetachData(node ids.NodeRef, dataId ids.SId) bool {
	d, ok := g.data[dataId]
	if !ok {
		return false
	}
	if orphaned := d.RefRemoved(node); orphaned {
		delete(g.data, dataId)
		g.deadData.Add(dataId, d)
	}
	return true
}

func (g *Graph) WasDataRemoved(id ids.SId) bool {
	_, ok := g.deadData.Peek(id)
	return ok
}

// FindNodeNamed resolves a dotted path of node names (using sep as the
// separator, e.g. "." or "/") into a concrete node id, optionally anchored
// at start (empty means "search the roots"), grounded on
// original_source/src/model/graph.rs's find_node_named/SPath::find.
func (g *Graph) FindNodeNamed(path, sep string, start ids.SId) (ids.SId, bool) {
	segs := splitPath(path, sep)
	if len(segs) == 0 {
		return "", false
	}
	chain, ok := ids.ToIdPath(g, start, ids.SPath{Names: true, Path: segs})
	if !ok {
		return "", false
	}
	return chain[len(chain)-1], true
}

// EnsureNodes resolves path the same way FindNodeNamed does, but when a
// segment isn't found and createMissing is true, creates it (as a root for
// the first segment when start is empty, otherwise as a child of the
// current node) rather than failing — grounded on original_source/src/
// model/graph.rs's create_named_path_nodes.
func (g *Graph) EnsureNodes(path, sep string, start ids.SId, createMissing bool) (ids.SId, bool) {
	segs := splitPath(path, sep)
	if len(segs) == 0 {
		return "", false
	}

	cur := start
	idx := 0
	if cur.Empty() {
		first := segs[0]
		idx = 1
		found := false
		for _, root := range g.roots {
			if n, ok := g.nodes[root]; ok && n.Name == first {
				cur, found = root, true
				break
			}
		}
		if !found {
			if !createMissing {
				return "", false
			}
			cur = g.NewRoot(first).Id
		}
	}

	for ; idx < len(segs); idx++ {
		name := segs[idx]
		if child, ok := g.FindChildNamed(cur, name); ok {
			cur = child
			continue
		}
		if !createMissing {
			return "", false
		}
		n, ok := g.NewChild(cur, name)
		if !ok {
			return "", false
		}
		cur = n.Id
	}
	return cur, true
}

func splitPath(path, sep string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, sep)
}

// AllNodeIds returns every live node id, for diagnostics/iteration.
func (g *Graph) AllNodeIds() []ids.SId {
	out := make([]ids.SId, 0, len(g.nodes))
	for id := range g.nodes {
		out = append(out, id)
	}
	return out
}
