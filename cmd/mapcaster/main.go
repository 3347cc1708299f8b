// Command mapcaster is the map broadcaster: it loads a serialized occupancy
// grid and its JSON metadata sidecar from disk and periodically re-publishes
// the grid to a graph server's ingestion endpoint. With -dilate-radius it
// publishes a dilated ("blurred") variant instead of the raw grid.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/topograph/api"
	"github.com/banshee-data/topograph/internal/grid"
	"github.com/banshee-data/topograph/internal/httputil"
)

var (
	gridPath     = flag.String("grid", "grid.cells", "Raw int8 cell file, width*height bytes row-major")
	infoPath     = flag.String("info", "grid_msg_info.json", "JSON metadata sidecar")
	target       = flag.String("target", "http://localhost:8080", "Graph server base URL")
	hz           = flag.Float64("hz", 10, "Publish frequency")
	dilateRadius = flag.Int("dilate-radius", 0, "Publish a dilated grid variant (0 disables)")
)

// mapInfo mirrors the metadata sidecar layout: the static fields of the grid
// message split into info and header sections.
type mapInfo struct {
	Info struct {
		Resolution float64 `json:"resolution"`
		Width      int     `json:"width"`
		Height     int     `json:"height"`
		Origin     struct {
			Position    api.Vec3Message `json:"position"`
			Orientation api.QuatMessage `json:"orientation"`
		} `json:"origin"`
	} `json:"info"`
	Header struct {
		FrameID string `json:"frame_id"`
	} `json:"header"`
}

// loadGrid reads the raw cell file and its sidecar into a Grid.
func loadGrid(gridPath, infoPath string) (*grid.Grid, error) {
	meta, err := os.ReadFile(infoPath)
	if err != nil {
		return nil, fmt.Errorf("read sidecar: %w", err)
	}
	var info mapInfo
	if err := json.Unmarshal(meta, &info); err != nil {
		return nil, fmt.Errorf("parse sidecar: %w", err)
	}

	raw, err := os.ReadFile(gridPath)
	if err != nil {
		return nil, fmt.Errorf("read grid: %w", err)
	}
	cells := make([]int8, len(raw))
	for i, b := range raw {
		cells[i] = int8(b)
	}

	origin := grid.Pose{
		Position: grid.Vec3{
			X: info.Info.Origin.Position.X,
			Y: info.Info.Origin.Position.Y,
			Z: info.Info.Origin.Position.Z,
		},
		Orientation: grid.Quat{
			X: info.Info.Origin.Orientation.X,
			Y: info.Info.Origin.Orientation.Y,
			Z: info.Info.Origin.Orientation.Z,
			W: info.Info.Origin.Orientation.W,
		},
	}
	return grid.New(info.Info.Width, info.Info.Height, info.Info.Resolution, origin, info.Header.FrameID, cells)
}

// dilated returns a copy of g with the obstacle mask grown by radius cells.
// Dilated obstacles are written as fully occupied; everything else is free.
func dilated(g *grid.Grid, radius int) (*grid.Grid, error) {
	mask := grid.Dilate(g.ObstacleMask(), g.Width, g.Height, radius)
	cells := make([]int8, len(mask))
	for i, m := range mask {
		if m {
			cells[i] = 100
		}
	}
	return grid.New(g.Width, g.Height, g.Resolution, g.Origin, g.FrameID, cells)
}

// publish POSTs the grid message to the server's ingestion endpoint.
func publish(client httputil.Poster, target string, msg api.GridMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal grid message: %w", err)
	}
	resp, err := client.Post(target+"/map", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server rejected grid: status %d", resp.StatusCode)
	}
	return nil
}

func main() {
	flag.Parse()

	if *hz <= 0 {
		log.Fatal("publish frequency must be positive")
	}

	g, err := loadGrid(*gridPath, *infoPath)
	if err != nil {
		log.Fatalf("failed to load map: %v", err)
	}
	if *dilateRadius > 0 {
		if g, err = dilated(g, *dilateRadius); err != nil {
			log.Fatalf("failed to dilate map: %v", err)
		}
	}
	msg := api.NewGridMessage(g)
	log.Printf("broadcasting %dx%d grid (frame %q) to %s at %.1f Hz", g.Width, g.Height, g.FrameID, *target, *hz)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := &http.Client{Timeout: 10 * time.Second}
	ticker := time.NewTicker(time.Duration(float64(time.Second) / *hz))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := publish(client, *target, msg); err != nil {
				log.Printf("publish failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("map broadcaster stopped")
			return
		}
	}
}
