package viz

import (
	"github.com/guptarohit/asciigraph"
)

const maxPlotWidth = 80

// Plot draws one series. Series longer than the plot width are
// interpolated by asciigraph.
func Plot(data []float64, caption string, height int) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(plotWidth(len(data))),
		asciigraph.Caption(caption),
	)
}

// PlotEnergies overlays potential, kinetic and total energy.
func PlotEnergies(potential, kinetic, total []float64, height int) string {
	if len(total) == 0 {
		return ""
	}
	return asciigraph.PlotMany([][]float64{potential, kinetic, total},
		asciigraph.Height(height),
		asciigraph.Width(plotWidth(len(total))),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red, asciigraph.Green),
		asciigraph.Caption("potential (blue) kinetic (red) total (green)"),
	)
}

func plotWidth(n int) int {
	if n > maxPlotWidth {
		return maxPlotWidth
	}
	return n
}
