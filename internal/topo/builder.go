package topo

import (
	"github.com/banshee-data/topograph/internal/skeleton"
)

// Builder turns a skeleton and its keypoints into a raw graph. It owns the
// discovery pass count and shares the id sequence with the service so ids
// stay unique across repeated computations.
type Builder struct {
	seq    *Sequence
	passes int
}

// NewBuilder returns a builder drawing ids from seq. passes is the number of
// times neighbor discovery repeats per computation; a single pass
// under-connects nodes because each walk stops at the first keypoint it
// reaches.
func NewBuilder(seq *Sequence, passes int) *Builder {
	return &Builder{seq: seq, passes: passes}
}

// Build creates one node per keypoint in detection order and runs the
// configured number of discovery passes. The result holds unresolved
// coordinate references; refinement resolves them to ids.
func (b *Builder) Build(skel *skeleton.Bitmap, kps []skeleton.Keypoint) *Graph {
	g := &Graph{Nodes: make([]*Node, 0, len(kps))}
	for _, kp := range kps {
		g.Nodes = append(g.Nodes, &Node{ID: b.seq.Next(), X: kp.X, Y: kp.Y})
	}
	b.Discover(g, skel)
	return g
}

// Discover runs the configured discovery passes against the graph's current
// node set: for every node and each of its 8-adjacent skeleton pixels, a
// bounded breadth-first walk over the skeleton that stops at the first
// keypoint other than the node's own coordinate. The refiner calls this
// again after pruning, since pruning discards edges that have to be
// rediscovered against the surviving node set.
func (b *Builder) Discover(g *Graph, skel *skeleton.Bitmap) {
	kpAt := make(map[pixel]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		kpAt[pixel{n.X, n.Y}] = true
	}
	for pass := 0; pass < b.passes; pass++ {
		for _, n := range g.Nodes {
			home := pixel{n.X, n.Y}
			for _, adj := range neighbors8(home, skel.Width, skel.Height) {
				if skel.At(adj.x, adj.y) {
					walk(skel, kpAt, adj, home, n)
				}
			}
		}
	}
}

type pixel struct {
	x, y int
}

// walk runs one bounded breadth-first traversal of the skeleton from start.
// Pixels are visited at most once (seen is scoped to this walk) and the
// frontier only extends through skeleton-true pixels. The walk stops as soon
// as it reaches a keypoint other than home, linking it to the originating
// node; exhausting the skeleton links nothing.
func walk(skel *skeleton.Bitmap, kpAt map[pixel]bool, start, home pixel, origin *Node) {
	seen := map[pixel]bool{}
	queue := []pixel{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range neighbors8(cur, skel.Width, skel.Height) {
			if seen[nb] {
				continue
			}
			seen[nb] = true
			if kpAt[nb] && nb != home {
				origin.addEdge(Unresolved(nb.x, nb.y))
				return
			}
			if skel.At(nb.x, nb.y) {
				queue = append(queue, nb)
			}
		}
	}
}

// neighbors8 returns the 8-adjacent pixels of c, clamped at the raster
// boundary (no wraparound). Clamping can collapse a direction onto c itself;
// those entries are dropped so a pixel is never its own neighbor.
func neighbors8(c pixel, width, height int) []pixel {
	out := make([]pixel, 0, 8)
	for _, d := range [8]pixel{
		{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
	} {
		nb := pixel{clamp(c.x+d.x, width), clamp(c.y+d.y, height)}
		if nb != c {
			out = append(out, nb)
		}
	}
	return out
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
