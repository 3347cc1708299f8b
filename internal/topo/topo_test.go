package topo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/topograph/internal/grid"
	"github.com/banshee-data/topograph/internal/skeleton"
)

// lineSkeleton builds a bitmap with a horizontal 1-pixel line at y=1
// spanning [0, length) and returns it with keypoints at the given columns.
func lineSkeleton(length int, kpCols ...int) (*skeleton.Bitmap, []skeleton.Keypoint) {
	b := skeleton.NewBitmap(length, 3)
	for x := 0; x < length; x++ {
		b.Set(x, 1, true)
	}
	kps := make([]skeleton.Keypoint, 0, len(kpCols))
	for _, c := range kpCols {
		kps = append(kps, skeleton.Keypoint{X: c, Y: 1})
	}
	return b, kps
}

func neighborIDs(n *Node) []int {
	var out []int
	for _, e := range n.Edges {
		if e.IsResolved() {
			out = append(out, e.ID())
		}
	}
	return out
}

func TestSequence_MonotonicFromZero(t *testing.T) {
	t.Parallel()

	seq := NewSequence()
	for want := 0; want < 5; want++ {
		assert.Equal(t, want, seq.Next())
	}
}

func TestBuilder_NodePerKeypointInOrder(t *testing.T) {
	t.Parallel()

	skel, kps := lineSkeleton(21, 0, 10, 20)
	g := NewBuilder(NewSequence(), 10).Build(skel, kps)

	require.Len(t, g.Nodes, 3)
	for i, n := range g.Nodes {
		assert.Equal(t, i, n.ID)
		assert.Equal(t, kps[i].X, n.X)
		assert.Equal(t, kps[i].Y, n.Y)
	}
}

func TestBuilder_IdsPersistAcrossComputations(t *testing.T) {
	t.Parallel()

	seq := NewSequence()
	b := NewBuilder(seq, 10)
	skel, kps := lineSkeleton(21, 0, 20)

	g1 := b.Build(skel, kps)
	g2 := b.Build(skel, kps)
	assert.Equal(t, []int{0, 1}, []int{g1.Nodes[0].ID, g1.Nodes[1].ID})
	assert.Equal(t, []int{2, 3}, []int{g2.Nodes[0].ID, g2.Nodes[1].ID}, "ids never reused")
}

func TestBuilder_WalkStopsAtFirstKeypoint(t *testing.T) {
	t.Parallel()

	// Chain of three keypoints on one line: the ends must link only to the
	// middle, never through it to each other.
	skel, kps := lineSkeleton(21, 0, 10, 20)
	g := NewBuilder(NewSequence(), 10).Build(skel, kps)
	g = Resolve(g)

	assert.ElementsMatch(t, []int{1}, neighborIDs(g.Nodes[0]))
	assert.ElementsMatch(t, []int{0, 2}, neighborIDs(g.Nodes[1]))
	assert.ElementsMatch(t, []int{1}, neighborIDs(g.Nodes[2]))
}

func TestBuilder_EmptyKeypointsYieldEmptyGraph(t *testing.T) {
	t.Parallel()

	skel, _ := lineSkeleton(21)
	g := NewBuilder(NewSequence(), 10).Build(skel, nil)
	assert.Empty(t, g.Nodes)
}

func TestBuilder_DisconnectedKeypointGainsNoNeighbors(t *testing.T) {
	t.Parallel()

	// Two separate line segments, one keypoint each: walks exhaust their
	// own segment without reaching the other keypoint.
	b := skeleton.NewBitmap(30, 3)
	for x := 0; x < 10; x++ {
		b.Set(x, 1, true)
	}
	for x := 20; x < 30; x++ {
		b.Set(x, 1, true)
	}
	kps := []skeleton.Keypoint{{X: 0, Y: 1}, {X: 29, Y: 1}}

	g := NewBuilder(NewSequence(), 10).Build(b, kps)
	g = Resolve(g)
	assert.Empty(t, neighborIDs(g.Nodes[0]))
	assert.Empty(t, neighborIDs(g.Nodes[1]))
}

func TestNeighbors8_ClampsWithoutSelf(t *testing.T) {
	t.Parallel()

	// In a 1x1 raster every direction clamps back onto the pixel itself, so
	// the neighbor list must come back empty.
	assert.Empty(t, neighbors8(pixel{0, 0}, 1, 1))

	// At a corner of a larger raster the distinct clamped neighbors remain.
	nbs := neighbors8(pixel{0, 0}, 5, 5)
	for _, nb := range nbs {
		assert.NotEqual(t, pixel{0, 0}, nb, "pixel must not be its own neighbor")
	}
	assert.Contains(t, nbs, pixel{1, 0})
	assert.Contains(t, nbs, pixel{0, 1})
	assert.Contains(t, nbs, pixel{1, 1})
}

func TestResolve_PassesThroughResolvedRefs(t *testing.T) {
	t.Parallel()

	g := &Graph{Nodes: []*Node{
		{ID: 0, X: 0, Y: 1, Edges: []EdgeRef{Resolved(1), Unresolved(20, 1)}},
		{ID: 1, X: 20, Y: 1},
	}}
	got := Resolve(g)
	assert.ElementsMatch(t, []int{1}, neighborIDs(got.Nodes[0]), "coordinate and id refs to the same node collapse")
}

func TestResolve_DropsUnknownCoordinates(t *testing.T) {
	t.Parallel()

	g := &Graph{Nodes: []*Node{
		{ID: 0, X: 0, Y: 0, Edges: []EdgeRef{Unresolved(99, 99)}},
	}}
	got := Resolve(g)
	assert.Empty(t, got.Nodes[0].Edges)
}

func TestSymmetrize_AddsMissingReciprocal(t *testing.T) {
	t.Parallel()

	g := &Graph{Nodes: []*Node{
		{ID: 0, Edges: []EdgeRef{Resolved(1)}},
		{ID: 1},
		{ID: 2},
	}}
	got := Symmetrize(g)
	assert.ElementsMatch(t, []int{0}, neighborIDs(got.Nodes[1]))
	assert.Empty(t, neighborIDs(got.Nodes[2]))

	// Idempotence: a second run changes nothing.
	again := Symmetrize(got)
	for i := range got.Nodes {
		assert.ElementsMatch(t, neighborIDs(got.Nodes[i]), neighborIDs(again.Nodes[i]))
	}
}

func TestSymmetrize_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	g := &Graph{Nodes: []*Node{
		{ID: 0, Edges: []EdgeRef{Resolved(1)}},
		{ID: 1},
	}}
	_ = Symmetrize(g)
	assert.Empty(t, g.Nodes[1].Edges, "refinement stages must not mutate their input generation")
}

func TestPrune_EarlierListedNodeWins(t *testing.T) {
	t.Parallel()

	g := &Graph{Nodes: []*Node{
		{ID: 0, X: 0, Y: 0},
		{ID: 1, X: 50, Y: 0},
	}}
	got := Prune(g, 100)
	require.Len(t, got.Nodes, 1)
	assert.Equal(t, 0, got.Nodes[0].ID)
}

func TestPrune_ComparesAgainstOriginalList(t *testing.T) {
	t.Parallel()

	// Nodes at x = 0, 90, 180 with threshold 100: node 0 marks node 90;
	// node 90, being marked, never gets to mark node 180, so both ends
	// survive even though 90 and 180 are within threshold of each other.
	g := &Graph{Nodes: []*Node{
		{ID: 0, X: 0, Y: 0},
		{ID: 1, X: 90, Y: 0},
		{ID: 2, X: 180, Y: 0},
	}}
	got := Prune(g, 100)
	require.Len(t, got.Nodes, 2)
	assert.Equal(t, 0, got.Nodes[0].ID)
	assert.Equal(t, 2, got.Nodes[1].ID)
}

func TestPrune_KeepsDistantNodes(t *testing.T) {
	t.Parallel()

	g := &Graph{Nodes: []*Node{
		{ID: 0, X: 0, Y: 0},
		{ID: 1, X: 100, Y: 0},
	}}
	got := Prune(g, 100)
	assert.Len(t, got.Nodes, 2, "distance equal to threshold is not pruned")
}

func TestCleanDangling_DropsAbsentIDs(t *testing.T) {
	t.Parallel()

	g := &Graph{Nodes: []*Node{
		{ID: 0, Edges: []EdgeRef{Resolved(1), Resolved(7), Unresolved(3, 3)}},
		{ID: 1},
	}}
	got := CleanDangling(g)
	assert.ElementsMatch(t, []int{1}, neighborIDs(got.Nodes[0]))
}

func TestRefine_RediscoversEdgesAfterPruning(t *testing.T) {
	t.Parallel()

	// Keypoints at 0, 5 and 20 on one line with prune threshold 10: the
	// middle node is redundant and must go, and the surviving ends must be
	// re-linked directly by the post-prune discovery passes.
	skel, kps := lineSkeleton(21, 0, 5, 20)
	b := NewBuilder(NewSequence(), 10)
	raw := b.Build(skel, kps)

	got := NewRefiner(b, 10).Refine(raw, skel)
	require.Len(t, got.Nodes, 2)
	assert.Equal(t, 0, got.Nodes[0].ID)
	assert.Equal(t, 2, got.Nodes[1].ID)
	assert.ElementsMatch(t, []int{2}, neighborIDs(got.Nodes[0]))
	assert.ElementsMatch(t, []int{0}, neighborIDs(got.Nodes[1]))
}

func TestRefine_TwoCloseKeypointsCollapseToOne(t *testing.T) {
	t.Parallel()

	// Two keypoints 50 pixels apart, below the 100-pixel threshold: exactly
	// one node survives and it carries no neighbors.
	skel, kps := lineSkeleton(60, 0, 50)
	b := NewBuilder(NewSequence(), 10)
	raw := b.Build(skel, kps)

	got := NewRefiner(b, 100).Refine(raw, skel)
	require.Len(t, got.Nodes, 1)
	assert.Equal(t, 0, got.Nodes[0].ID)
	assert.Empty(t, got.Nodes[0].Edges)
}

func TestRefine_SymmetricAndNoDangling(t *testing.T) {
	t.Parallel()

	skel, kps := lineSkeleton(61, 0, 20, 40, 60)
	b := NewBuilder(NewSequence(), 10)
	got := NewRefiner(b, 10).Refine(b.Build(skel, kps), skel)

	present := map[int]bool{}
	for _, n := range got.Nodes {
		present[n.ID] = true
	}
	for _, n := range got.Nodes {
		for _, id := range neighborIDs(n) {
			assert.True(t, present[id], "node %d references absent id %d", n.ID, id)
			other := got.node(id)
			require.NotNil(t, other)
			assert.True(t, other.hasEdge(n.ID), "adjacency %d->%d not symmetric", n.ID, id)
		}
	}
}

func TestToWorld_TranslationOnly(t *testing.T) {
	t.Parallel()

	g := &Graph{Nodes: []*Node{
		{ID: 3, X: 10, Y: 20, Edges: []EdgeRef{Resolved(4)}},
		{ID: 4, X: 0, Y: 0, Edges: []EdgeRef{Resolved(3)}},
	}}
	nodes := ToWorld(g, 0.05, grid.Vec3{X: -7.5, Y: 2.5})

	require.Len(t, nodes, 2)
	assert.InDelta(t, 10*0.05-7.5, nodes[0].X, 1e-12)
	assert.InDelta(t, 20*0.05+2.5, nodes[0].Y, 1e-12)
	assert.Equal(t, 3, nodes[0].ID)
	assert.Equal(t, []int{4}, nodes[0].Neighbors)
}

func TestToWorld_NeighborsSortedAndNonNil(t *testing.T) {
	t.Parallel()

	g := &Graph{Nodes: []*Node{
		{ID: 0, Edges: []EdgeRef{Resolved(9), Resolved(2), Resolved(5)}},
		{ID: 1},
	}}
	nodes := ToWorld(g, 1, grid.Vec3{})
	assert.Equal(t, []int{2, 5, 9}, nodes[0].Neighbors)
	assert.NotNil(t, nodes[1].Neighbors, "empty neighbor list must serialize as [], not null")
}

func TestMarshalWorld_Shape(t *testing.T) {
	t.Parallel()

	s, err := MarshalWorld([]WorldNode{{X: 1.5, Y: -2, ID: 0, Neighbors: []int{1}}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"x":1.5,"y":-2,"id":0,"neighbors":[1]}]`, s)

	s, err = MarshalWorld([]WorldNode{})
	require.NoError(t, err)
	assert.Equal(t, "[]", s)
}
