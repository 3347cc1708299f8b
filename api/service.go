// Package api owns the graph service: the latest ingested occupancy grid,
// the synchronous compute-graph operation, and the HTTP surface around both.
package api

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/topograph/internal/config"
	"github.com/banshee-data/topograph/internal/grid"
	"github.com/banshee-data/topograph/internal/monitoring"
	"github.com/banshee-data/topograph/internal/skeleton"
	"github.com/banshee-data/topograph/internal/topo"
)

// Service holds the current grid and computes topological graphs from it on
// request. It has two states: no map yet (compute requests block until the
// first ingestion) and map available (every request recomputes from scratch
// against the current grid; nothing is cached).
type Service struct {
	mu      sync.Mutex
	cond    *sync.Cond
	current *grid.Grid

	// computeMu serializes pipeline runs so id assignment and pruning stay
	// deterministic; the grid mutex is not held while computing.
	computeMu sync.Mutex
	params    config.Params
	builder   *topo.Builder
	refiner   *topo.Refiner

	// Last computed artifacts, kept for the debug endpoints only.
	debugMu   sync.Mutex
	lastSkel  *skeleton.Bitmap
	lastKps   []skeleton.Keypoint
	lastWorld []topo.WorldNode
}

// NewService builds a service drawing node ids from seq. The sequence is
// owned by the caller so tests can construct a fresh one; ids it hands out
// are never reused for the life of the process.
func NewService(seq *topo.Sequence, p config.Params) *Service {
	s := &Service{params: p}
	s.cond = sync.NewCond(&s.mu)
	s.builder = topo.NewBuilder(seq, p.NeighborPasses)
	s.refiner = topo.NewRefiner(s.builder, p.PruneDistance)
	return s
}

// Ingest replaces the current grid wholesale and wakes any compute request
// waiting for the first map.
func (s *Service) Ingest(g *grid.Grid) {
	s.mu.Lock()
	s.current = g
	s.cond.Broadcast()
	s.mu.Unlock()
	monitoring.Logf("[GraphService] ingested %dx%d grid frame=%q resolution=%.4f",
		g.Width, g.Height, g.FrameID, g.Resolution)
}

// HasMap reports whether a grid has been ingested.
func (s *Service) HasMap() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// waitForMap blocks until a grid is available and returns it. There is no
// timeout: a caller that never receives a map blocks indefinitely by design.
func (s *Service) waitForMap() *grid.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.current == nil {
		s.cond.Wait()
	}
	return s.current
}

// ComputeGraph runs the full pipeline against the current grid and returns
// the refined graph as a JSON document. It blocks until a map is available.
// A pipeline failure is returned as an error; the service and the current
// grid remain usable for the next request.
func (s *Service) ComputeGraph() (msg string, err error) {
	g := s.waitForMap()

	s.computeMu.Lock()
	defer s.computeMu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("graph computation failed: %v", r)
		}
	}()

	reqID := uuid.NewString()
	start := time.Now()
	monitoring.Logf("[GraphService] req=%s computing graph on %dx%d grid", reqID, g.Width, g.Height)

	field := grid.Preprocess(g, s.params.DilationRadius)
	skel, kps := skeleton.Extract(field, skeleton.Params{
		ThinFactor:        s.params.ThinFactor,
		CornerSensitivity: s.params.CornerSensitivity,
		GaussianSigma:     s.params.GaussianSigma,
		MinPeakDistance:   s.params.MinPeakDistance,
	})
	monitoring.Logf("[GraphService] req=%s detected %d key points", reqID, len(kps))

	raw := s.builder.Build(skel, kps)
	refined := s.refiner.Refine(raw, skel)
	world := topo.ToWorld(refined, g.Resolution, g.Origin.Position)
	out, err := topo.MarshalWorld(world)
	if err != nil {
		return "", fmt.Errorf("serialize graph: %w", err)
	}

	s.debugMu.Lock()
	s.lastSkel = skel
	s.lastKps = kps
	s.lastWorld = world
	s.debugMu.Unlock()

	monitoring.Logf("[GraphService] req=%s graph ready: %d nodes in %s", reqID, len(world), time.Since(start).Round(time.Millisecond))
	return out, nil
}

// DebugSnapshot returns the artifacts of the most recent computation, or
// ok=false if none has completed yet.
func (s *Service) DebugSnapshot() (skel *skeleton.Bitmap, kps []skeleton.Keypoint, world []topo.WorldNode, ok bool) {
	s.debugMu.Lock()
	defer s.debugMu.Unlock()
	if s.lastSkel == nil {
		return nil, nil, nil, false
	}
	return s.lastSkel, s.lastKps, s.lastWorld, true
}
