// Command topograph serves the occupancy-grid → topological-graph service:
// POST /map ingests a grid, GET /graph computes and returns the graph.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/topograph/api"
	"github.com/banshee-data/topograph/internal/config"
	"github.com/banshee-data/topograph/internal/topo"
	"github.com/banshee-data/topograph/internal/version"
)

var (
	listen     = flag.String("listen", ":8080", "Listen address")
	configPath = flag.String("config", "", "Optional tuning config (JSON)")
)

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	params := config.Defaults()
	if *configPath != "" {
		var err error
		params, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The sequence lives for the whole process so node ids are never reused
	// across graph computations.
	svc := api.NewService(topo.NewSequence(), params)

	server := &http.Server{
		Addr:    *listen,
		Handler: api.NewServer(svc).ServeMux(),
	}

	go func() {
		log.Printf("graph server %s (%s) listening on %s", version.Version, version.GitSHA, *listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
}
