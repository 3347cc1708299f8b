package topo

import (
	"encoding/json"
	"sort"

	"github.com/banshee-data/topograph/internal/grid"
)

// WorldNode is the serialization model of a refined graph node: world-frame
// coordinates and an ordered neighbor id list.
type WorldNode struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ID        int     `json:"id"`
	Neighbors []int   `json:"neighbors"`
}

// ToWorld rewrites node coordinates from pixel to world units:
// world = pixel*resolution + origin. Only the origin translation is applied;
// origin orientation is ignored, so callers using rotated maps must rotate
// the result themselves. Neighbor ids are sorted ascending so serialization
// is deterministic.
func ToWorld(g *Graph, resolution float64, origin grid.Vec3) []WorldNode {
	out := make([]WorldNode, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		neighbors := make([]int, 0, len(n.Edges))
		for _, e := range n.Edges {
			if e.IsResolved() {
				neighbors = append(neighbors, e.ID())
			}
		}
		sort.Ints(neighbors)
		out = append(out, WorldNode{
			X:         float64(n.X)*resolution + origin.X,
			Y:         float64(n.Y)*resolution + origin.Y,
			ID:        n.ID,
			Neighbors: neighbors,
		})
	}
	return out
}

// MarshalWorld serializes the world-frame graph as a JSON array.
func MarshalWorld(nodes []WorldNode) (string, error) {
	b, err := json.Marshal(nodes)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
