package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/mdforce/internal/dynamo"
)

// RDF is the radial distribution function g(r) sampled at bin centres.
type RDF struct {
	R []float64
	G []float64
}

// RadialDistribution histograms minimum-image pair distances up to rmax,
// which must not exceed half the shortest box side, and normalises by the
// ideal-gas shell count.
func RadialDistribution(p *dynamo.Particles, box dynamo.Box, rmax float64, bins int) (RDF, error) {
	n := p.Len()
	if n < 2 {
		return RDF{}, errors.New("need at least two particles")
	}
	if bins < 1 || !(rmax > 0) || rmax > 0.5*box.Min() {
		return RDF{}, errors.New("rmax must be in (0, L/2] and bins positive")
	}

	dr := rmax / float64(bins)
	hist := make([]float64, bins)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var r2 float64
			for k := 0; k < dynamo.Dim; k++ {
				d := p.Pos[i*dynamo.Dim+k] - p.Pos[j*dynamo.Dim+k]
				d -= box.L[k] * math.Round(d/box.L[k])
				r2 += d * d
			}
			if r := math.Sqrt(r2); r < rmax {
				// r/dr can round up to bins just below rmax
				b := int(r / dr)
				if b >= bins {
					b = bins - 1
				}
				hist[b] += 2
			}
		}
	}

	density := float64(n) / box.Volume()
	out := RDF{R: make([]float64, bins), G: make([]float64, bins)}
	for b := range hist {
		lo, hi := float64(b)*dr, float64(b+1)*dr
		shell := 4.0 / 3.0 * math.Pi * (hi*hi*hi - lo*lo*lo)
		out.R[b] = lo + 0.5*dr
		out.G[b] = hist[b] / (float64(n) * density * shell)
	}
	return out, nil
}

// Peak returns the position and height of the highest bin.
func (g RDF) Peak() (float64, float64) {
	var r, h float64
	for i, v := range g.G {
		if v > h {
			r, h = g.R[i], v
		}
	}
	return r, h
}

// Contact is the first distance with a non-zero g(r), or zero.
func (g RDF) Contact() float64 {
	for i, v := range g.G {
		if v > 0 {
			return g.R[i]
		}
	}
	return 0
}
