package topo

// EdgeRef is a reference to a neighboring node. During construction the
// builder only knows the neighbor's pixel coordinate; the refiner later
// resolves coordinates to node ids. The two states are explicit rather than
// inferred from a dynamic type.
type EdgeRef struct {
	resolved bool
	id       int
	x, y     int
}

// Unresolved references a neighbor by its keypoint pixel coordinate.
func Unresolved(x, y int) EdgeRef {
	return EdgeRef{x: x, y: y}
}

// Resolved references a neighbor by node id.
func Resolved(id int) EdgeRef {
	return EdgeRef{resolved: true, id: id}
}

// IsResolved reports whether the reference carries a node id.
func (e EdgeRef) IsResolved() bool { return e.resolved }

// ID returns the referenced node id; only meaningful when resolved.
func (e EdgeRef) ID() int { return e.id }

// Pixel returns the referenced coordinate; only meaningful when unresolved.
func (e EdgeRef) Pixel() (x, y int) { return e.x, e.y }

// Node is a graph node at a skeleton keypoint. X and Y stay in pixel units
// throughout construction and refinement; the world mapping happens at
// serialization time.
type Node struct {
	ID    int
	X, Y  int
	Edges []EdgeRef
}

// addEdge appends ref unless the node already holds it. Edge sets stay
// duplicate-free even though discovery runs multiple passes.
func (n *Node) addEdge(ref EdgeRef) {
	for _, e := range n.Edges {
		if e == ref {
			return
		}
	}
	n.Edges = append(n.Edges, ref)
}

// hasEdge reports whether the node references the given id.
func (n *Node) hasEdge(id int) bool {
	for _, e := range n.Edges {
		if e.resolved && e.id == id {
			return true
		}
	}
	return false
}

// clone deep-copies the node.
func (n *Node) clone() *Node {
	edges := make([]EdgeRef, len(n.Edges))
	copy(edges, n.Edges)
	return &Node{ID: n.ID, X: n.X, Y: n.Y, Edges: edges}
}

// Graph is an ordered sequence of nodes (creation order). Refinement stages
// are pure: each produces a new generation instead of mutating in place.
type Graph struct {
	Nodes []*Node
}

// clone deep-copies the graph.
func (g *Graph) clone() *Graph {
	out := &Graph{Nodes: make([]*Node, len(g.Nodes))}
	for i, n := range g.Nodes {
		out.Nodes[i] = n.clone()
	}
	return out
}

// node returns the node with the given id, or nil.
func (g *Graph) node(id int) *Node {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}
