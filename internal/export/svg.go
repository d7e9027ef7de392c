// Package export writes particle snapshots and energy traces as SVG.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/mdforce/internal/dynamo"
)

var palette = []string{"#00ccff", "#ff6688", "#00ff88", "#ffcc00", "#aa88ff"}

// SnapshotSVG draws the particles projected onto axes u (horizontal) and
// v (vertical, growing upward), one colour per species.
func SnapshotSVG(w io.Writer, p *dynamo.Particles, box dynamo.Box, u, v int, size float64) error {
	if u < 0 || u >= dynamo.Dim || v < 0 || v >= dynamo.Dim || u == v {
		return fmt.Errorf("invalid projection axes %d, %d", u, v)
	}
	sx := size
	sy := size * box.L[v] / box.L[u]
	radius := size / 200

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, sx, sy, sx, sy)

	for s := 0; s < speciesCount(p); s++ {
		fmt.Fprintf(&sb, "<g fill=\"%s\">\n", palette[s%len(palette)])
		for i := 0; i < p.Len(); i++ {
			if p.Species[i] != s {
				continue
			}
			x := p.Pos[i*dynamo.Dim+u] / box.L[u] * sx
			y := sy - p.Pos[i*dynamo.Dim+v]/box.L[v]*sy
			fmt.Fprintf(&sb, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\"/>\n", x, y, radius)
		}
		sb.WriteString("</g>\n")
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func speciesCount(p *dynamo.Particles) int {
	n := 0
	for _, s := range p.Species {
		if s+1 > n {
			n = s + 1
		}
	}
	return n
}

// TraceSVG draws a series as a polyline scaled to width x height.
func TraceSVG(w io.Writer, times, values []float64, width, height int, strokeColor string) error {
	if len(values) < 2 || len(times) != len(values) {
		return fmt.Errorf("need at least two samples with matching times")
	}

	minX, maxX := times[0], times[len(times)-1]
	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i := range values {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
