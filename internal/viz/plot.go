package viz

import (
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/sampling"
)

// PlotGroup draws every column of a group as one multi-series asciigraph
// chart. Names are listed in the caption.
func PlotGroup(res *sampling.Result, g sampling.Group, width, height int) string {
	series := res.Vectors(g)
	data := make([][]float64, g.Dim)
	for k := range data {
		data[k] = make([]float64, len(series))
		for i, v := range series {
			data[k][i] = v[k]
		}
	}

	labels := res.Columns[g.Offset : g.Offset+g.Dim]
	caption := g.Name + " [" + g.Units + "]: " + strings.Join(labels, ", ")

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	}
	if g.Dim > 1 {
		opts = append(opts, asciigraph.SeriesColors(seriesColors[:min(g.Dim, len(seriesColors))]...))
	}
	return asciigraph.PlotMany(data, opts...)
}

// Plot draws a single series.
func Plot(data []float64, caption string, width, height int) string {
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Blue,
	asciigraph.Green,
	asciigraph.Red,
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
