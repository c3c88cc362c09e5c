package ids

// NodeLookup is the minimal view into a graph that the ref algorithms below
// need: whether a node exists and who its parent is. internal/graph's Graph
// satisfies this directly, keeping this package free of a dependency on the
// graph store (which itself depends on ids).
type NodeLookup interface {
	NodeExists(id SId) bool
	NodeParent(id SId) (SId, bool)
}

// NodeRef is an opaque reference to a node in a graph.
type NodeRef struct{ Id SId }

// DataRef is an opaque reference to a data item attached to one or more nodes.
type DataRef struct{ Id SId }

func NewNodeRef(id SId) NodeRef { return NodeRef{Id: id} }
func NewDataRef(id SId) DataRef { return DataRef{Id: id} }

// NodeExists reports whether this reference resolves to a live node.
func (r NodeRef) NodeExists(g NodeLookup) bool {
	return g.NodeExists(r.Id)
}

// Root walks parent links up to the root node (the node with no parent).
// Returns the zero NodeRef if r doesn't exist.
func (r NodeRef) Root(g NodeLookup) NodeRef {
	if !g.NodeExists(r.Id) {
		return NodeRef{}
	}
	cur := r.Id
	seen := map[SId]bool{cur: true}
	for {
		parent, ok := g.NodeParent(cur)
		if !ok || parent.Empty() || seen[parent] {
			return NodeRef{Id: cur}
		}
		cur = parent
		seen[cur] = true
	}
}

// NodePath returns the chain of ids from the root down to r, inclusive.
// Detects cycles (a corrupted parent chain) and stops rather than looping
// forever, returning whatever prefix was gathered.
func (r NodeRef) NodePath(g NodeLookup) []SId {
	if !g.NodeExists(r.Id) {
		return nil
	}
	var rev []SId
	cur := r.Id
	seen := map[SId]bool{}
	for {
		rev = append(rev, cur)
		seen[cur] = true
		parent, ok := g.NodeParent(cur)
		if !ok || parent.Empty() || seen[parent] {
			break
		}
		cur = parent
	}
	path := make([]SId, len(rev))
	for i, id := range rev {
		path[len(rev)-1-i] = id
	}
	return path
}

// ChildOfDistance returns the number of parent hops from r up to other, or
// -1 if other is not an ancestor of r (including if r == other, or either
// is missing).
func (r NodeRef) ChildOfDistance(g NodeLookup, other NodeRef) int {
	if !g.NodeExists(r.Id) || !g.NodeExists(other.Id) || r.Id == other.Id {
		return -1
	}
	path := r.NodePath(g)
	for i, id := range path {
		if id == other.Id {
			return len(path) - 1 - i
		}
	}
	return -1
}

// ChildOf reports whether other is a strict ancestor of r.
func (r NodeRef) ChildOf(g NodeLookup, other NodeRef) bool {
	return r.ChildOfDistance(g, other) >= 0
}

// DistanceTo computes the graph distance between two nodes:
//
//	-2 if either node doesn't exist
//	 0 if a == b
//	-1 if a and b have different roots (unrelated trees)
//	 otherwise the number of edges from a up to the nearest common ancestor
//	 plus the number of edges from that ancestor down to b.
func (a NodeRef) DistanceTo(g NodeLookup, b NodeRef) int {
	if !g.NodeExists(a.Id) || !g.NodeExists(b.Id) {
		return -2
	}
	if a.Id == b.Id {
		return 0
	}
	pathA := a.NodePath(g)
	pathB := b.NodePath(g)
	if len(pathA) == 0 || len(pathB) == 0 || pathA[0] != pathB[0] {
		return -1
	}
	i := 0
	for i < len(pathA) && i < len(pathB) && pathA[i] == pathB[i] {
		i++
	}
	// i-1 is the index of the last shared ancestor; count edges down each branch.
	remA := len(pathA) - (i - 1)
	remB := len(pathB) - (i - 1)
	return (remA - 1) + (remB - 1)
}
