package particles

import (
	"github.com/san-kum/mdforce/internal/dynamo"
)

// Wrap folds every position into [0, L). When crossings is non-nil it must
// have one entry per coordinate; each entry accumulates the signed number
// of box lengths removed from that coordinate. Wrap returns how many
// coordinates were folded.
func Wrap(p *dynamo.Particles, box dynamo.Box, crossings []int) int {
	folded := 0
	for k, x := range p.Pos {
		a := k % dynamo.Dim
		w, n := box.Wrap(a, x)
		if n == 0 && w == x {
			continue
		}
		p.Pos[k] = w
		folded++
		if crossings != nil {
			crossings[k] += n
		}
	}
	return folded
}

// Unwrapped returns positions with the recorded boundary crossings added
// back, suitable for displacement measurements. A nil crossings slice
// means no crossings.
func Unwrapped(p *dynamo.Particles, box dynamo.Box, crossings []int) []float64 {
	out := make([]float64, len(p.Pos))
	copy(out, p.Pos)
	if crossings == nil {
		return out
	}
	for k := range out {
		out[k] += float64(crossings[k]) * box.L[k%dynamo.Dim]
	}
	return out
}

// FilterDomain returns a new store with the particles strictly inside the
// open sub-domain (lo, hi). Species names are shared with p.
func FilterDomain(p *dynamo.Particles, lo, hi [dynamo.Dim]float64) *dynamo.Particles {
	var keep []int
	for i := 0; i < p.Len(); i++ {
		pos := p.Position(i)
		inside := true
		for a := 0; a < dynamo.Dim; a++ {
			if !(pos[a] > lo[a] && pos[a] < hi[a]) {
				inside = false
				break
			}
		}
		if inside {
			keep = append(keep, i)
		}
	}

	out := dynamo.NewParticles(len(keep))
	out.Names = p.Names
	hasVel := len(p.Vel) == len(p.Pos)
	for k, i := range keep {
		copy(out.Pos[k*3:k*3+3], p.Pos[i*3:i*3+3])
		copy(out.Acc[k*3:k*3+3], p.Acc[i*3:i*3+3])
		if hasVel {
			copy(out.Vel[k*3:k*3+3], p.Vel[i*3:i*3+3])
		}
		out.Mass[k] = p.Mass[i]
		out.Species[k] = p.Species[i]
	}
	return out
}
