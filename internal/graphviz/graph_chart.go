package graphviz

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/topograph/internal/topo"
)

// RenderGraphHTML writes an interactive go-echarts view of the world-frame
// graph to w. Nodes are pinned at their world coordinates; edges are drawn
// once per unordered pair (adjacency is symmetric after refinement).
func RenderGraphHTML(nodes []topo.WorldNode, w io.Writer) error {
	chartNodes := make([]opts.GraphNode, 0, len(nodes))
	var links []opts.GraphLink
	for _, n := range nodes {
		chartNodes = append(chartNodes, opts.GraphNode{
			Name: strconv.Itoa(n.ID),
			X:    float32(n.X),
			// echarts y grows downward; world y grows upward.
			Y:          -float32(n.Y),
			SymbolSize: 14,
		})
		for _, nb := range n.Neighbors {
			if n.ID < nb {
				links = append(links, opts.GraphLink{
					Source: strconv.Itoa(n.ID),
					Target: strconv.Itoa(nb),
				})
			}
		}
	}

	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Topological Graph",
			Width:     "900px",
			Height:    "900px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Topological Graph",
			Subtitle: fmt.Sprintf("%d nodes, %d edges", len(nodes), len(links)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	graph.AddSeries("graph", chartNodes, links,
		charts.WithGraphChartOpts(opts.GraphChart{
			Layout: "none",
			Roam:   opts.Bool(true),
		}),
	)
	return graph.Render(w)
}
