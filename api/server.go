package api

import (
	"encoding/json"
	"net/http"

	"github.com/banshee-data/topograph/internal/graphviz"
	"github.com/banshee-data/topograph/internal/httputil"
	"github.com/banshee-data/topograph/internal/monitoring"
	"github.com/banshee-data/topograph/internal/version"
)

// GraphResponse is the compute-graph wire format. On success Message holds
// the serialized graph JSON document; on failure a human-readable reason.
type GraphResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Server exposes a Service over HTTP.
type Server struct {
	svc *Service
}

// NewServer wraps svc.
func NewServer(svc *Service) *Server {
	return &Server{svc: svc}
}

// ServeMux returns the route table.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/map", s.handleIngest)
	mux.HandleFunc("/graph", s.handleGraph)
	mux.HandleFunc("/debug/skeleton.png", s.handleSkeletonPNG)
	mux.HandleFunc("/debug/graph", s.handleGraphChart)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/", s.homeHandler)
	return mux
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Welcome to the Topological Graph Server!"))
}

// handleIngest accepts a grid ingestion event. A malformed grid is rejected
// and the current grid stays unchanged.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	var msg GridMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		httputil.BadRequest(w, "invalid grid payload: "+err.Error())
		return
	}
	g, err := msg.ToGrid()
	if err != nil {
		monitoring.Logf("[GraphServer] rejected grid ingestion: %v", err)
		httputil.BadRequest(w, err.Error())
		return
	}
	s.svc.Ingest(g)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

// handleGraph runs the synchronous compute-graph operation. It blocks until
// a map is available; there is deliberately no timeout. Pipeline failures
// come back as success=false rather than a transport error.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	msg, err := s.svc.ComputeGraph()
	if err != nil {
		monitoring.Logf("[GraphServer] compute failed: %v", err)
		httputil.WriteJSON(w, http.StatusOK, GraphResponse{Success: false, Message: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, GraphResponse{Success: true, Message: msg})
}

func (s *Server) handleSkeletonPNG(w http.ResponseWriter, r *http.Request) {
	skel, kps, _, ok := s.svc.DebugSnapshot()
	if !ok {
		httputil.NotFound(w, "no graph computed yet")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := graphviz.RenderSkeletonPNG(skel, kps, w); err != nil {
		monitoring.Logf("[GraphServer] skeleton render failed: %v", err)
	}
}

func (s *Server) handleGraphChart(w http.ResponseWriter, r *http.Request) {
	_, _, world, ok := s.svc.DebugSnapshot()
	if !ok {
		httputil.NotFound(w, "no graph computed yet")
		return
	}
	if err := graphviz.RenderGraphHTML(world, w); err != nil {
		monitoring.Logf("[GraphServer] graph chart render failed: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state := "NoMap"
	if s.svc.HasMap() {
		state = "HasMap"
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"state":   state,
		"version": version.Version,
	})
}
