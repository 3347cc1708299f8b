package api

import (
	"fmt"

	"github.com/banshee-data/topograph/internal/grid"
)

// Vec3Message is a world-frame position in meters.
type Vec3Message struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// QuatMessage is an orientation quaternion.
type QuatMessage struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// PoseMessage is the world-frame pose of grid cell (0,0).
type PoseMessage struct {
	Position    Vec3Message `json:"position"`
	Orientation QuatMessage `json:"orientation"`
}

// GridMessage is the grid ingestion payload. Cell values follow occupancy
// grid conventions: 0 free, 1..100 occupancy, negative unknown.
type GridMessage struct {
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Resolution float64     `json:"resolution"`
	Origin     PoseMessage `json:"origin"`
	Data       []int       `json:"data"`
	FrameID    string      `json:"frame_id"`
}

// ToGrid validates the message and converts it into an immutable Grid.
func (m *GridMessage) ToGrid() (*grid.Grid, error) {
	cells := make([]int8, len(m.Data))
	for i, v := range m.Data {
		if v < -128 || v > 127 {
			return nil, fmt.Errorf("cell %d value %d out of occupancy range", i, v)
		}
		cells[i] = int8(v)
	}
	origin := grid.Pose{
		Position:    grid.Vec3{X: m.Origin.Position.X, Y: m.Origin.Position.Y, Z: m.Origin.Position.Z},
		Orientation: grid.Quat{X: m.Origin.Orientation.X, Y: m.Origin.Orientation.Y, Z: m.Origin.Orientation.Z, W: m.Origin.Orientation.W},
	}
	return grid.New(m.Width, m.Height, m.Resolution, origin, m.FrameID, cells)
}

// NewGridMessage builds the ingestion payload for a grid; the map
// broadcaster uses it to publish grids it loaded from disk.
func NewGridMessage(g *grid.Grid) GridMessage {
	data := make([]int, len(g.Cells))
	for i, v := range g.Cells {
		data[i] = int(v)
	}
	return GridMessage{
		Width:      g.Width,
		Height:     g.Height,
		Resolution: g.Resolution,
		Origin: PoseMessage{
			Position:    Vec3Message{X: g.Origin.Position.X, Y: g.Origin.Position.Y, Z: g.Origin.Position.Z},
			Orientation: QuatMessage{X: g.Origin.Orientation.X, Y: g.Origin.Orientation.Y, Z: g.Origin.Orientation.Z, W: g.Origin.Orientation.W},
		},
		Data:    data,
		FrameID: g.FrameID,
	}
}
