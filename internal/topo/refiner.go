package topo

import (
	"math"

	"github.com/banshee-data/topograph/internal/skeleton"
)

// Refiner converts a raw graph into its final form: coordinate references
// resolved to ids, adjacency symmetric, spatially redundant nodes pruned,
// and no dangling neighbor ids. Every stage is a pure function producing a
// new graph generation, so neighbor sets are never mutated while iterated.
type Refiner struct {
	builder   *Builder
	pruneDist float64
}

// NewRefiner returns a refiner that prunes nodes closer than pruneDist
// pixels and uses b to rediscover adjacency after pruning.
func NewRefiner(b *Builder, pruneDist float64) *Refiner {
	return &Refiner{builder: b, pruneDist: pruneDist}
}

// Refine runs the full two-round refinement. Pruning discards edges, so the
// discovery passes rerun against the surviving node set before the second
// resolution round; the final cleanup drops any neighbor id that no longer
// names a node in the graph.
func (r *Refiner) Refine(g *Graph, skel *skeleton.Bitmap) *Graph {
	g = Resolve(g)
	g = Symmetrize(g)
	g = Prune(g, r.pruneDist)
	r.builder.Discover(g, skel)
	g = Resolve(g)
	g = Symmetrize(g)
	return CleanDangling(g)
}

// Resolve replaces coordinate edge references with node ids. Already
// resolved references pass through unchanged; a coordinate that names no
// node in the graph is dropped.
func Resolve(g *Graph) *Graph {
	ids := make(map[pixel]int, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[pixel{n.X, n.Y}] = n.ID
	}
	out := &Graph{Nodes: make([]*Node, len(g.Nodes))}
	for i, n := range g.Nodes {
		rn := &Node{ID: n.ID, X: n.X, Y: n.Y}
		for _, e := range n.Edges {
			if e.IsResolved() {
				rn.addEdge(e)
				continue
			}
			x, y := e.Pixel()
			if id, ok := ids[pixel{x, y}]; ok {
				rn.addEdge(Resolved(id))
			}
		}
		out.Nodes[i] = rn
	}
	return out
}

// Symmetrize makes adjacency mutual: for every pair of distinct nodes, if b
// is a neighbor of a then a becomes a neighbor of b. Idempotent; O(n^2) over
// the node count.
func Symmetrize(g *Graph) *Graph {
	out := g.clone()
	for _, a := range out.Nodes {
		for _, b := range out.Nodes {
			if a == b {
				continue
			}
			if a.hasEdge(b.ID) && !b.hasEdge(a.ID) {
				b.addEdge(Resolved(a.ID))
			}
		}
	}
	return out
}

// Prune removes spatially redundant nodes: walking the node list in order,
// each node not already marked for removal marks every other node closer
// than thresh pixels. Earlier-listed nodes win; distances compare against
// the full original list, not the shrinking survivor set. Survivors keep
// their relative order.
func Prune(g *Graph, thresh float64) *Graph {
	remove := make(map[int]bool)
	for _, n := range g.Nodes {
		if remove[n.ID] {
			continue
		}
		for _, other := range g.Nodes {
			if other == n {
				continue
			}
			if pixelDist(n, other) < thresh {
				remove[other.ID] = true
			}
		}
	}
	out := &Graph{}
	for _, n := range g.Nodes {
		if !remove[n.ID] {
			out.Nodes = append(out.Nodes, n.clone())
		}
	}
	return out
}

// CleanDangling drops every neighbor reference that is unresolved or names
// an id absent from the graph.
func CleanDangling(g *Graph) *Graph {
	present := make(map[int]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		present[n.ID] = true
	}
	out := &Graph{Nodes: make([]*Node, len(g.Nodes))}
	for i, n := range g.Nodes {
		rn := &Node{ID: n.ID, X: n.X, Y: n.Y}
		for _, e := range n.Edges {
			if e.IsResolved() && present[e.ID()] {
				rn.addEdge(e)
			}
		}
		out.Nodes[i] = rn
	}
	return out
}

func pixelDist(a, b *Node) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
