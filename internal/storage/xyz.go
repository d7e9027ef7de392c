package storage

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/mdforce/internal/dynamo"
)

// XYZHeader names the per-particle columns of the extended XYZ dump.
const XYZHeader = "name x y z vx vy vz ax ay az"

// WriteXYZ writes p as extended XYZ: the particle count, a comment line
// carrying the lattice and column layout, then one row per particle.
func WriteXYZ(w io.Writer, p *dynamo.Particles, box dynamo.Box, comment string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", p.Len())
	fmt.Fprintf(bw, "Lattice=\"%g 0 0 0 %g 0 0 0 %g\" Properties=species:S:1:pos:R:3:vel:R:3:acc:R:3 Columns=\"%s\" %s\n",
		box.L[0], box.L[1], box.L[2], XYZHeader, comment)

	hasVel := len(p.Vel) == len(p.Pos)
	for i := 0; i < p.Len(); i++ {
		fmt.Fprintf(bw, "%s", p.SpeciesName(i))
		for a := 0; a < dynamo.Dim; a++ {
			fmt.Fprintf(bw, " %s", strconv.FormatFloat(p.Pos[i*3+a], 'g', -1, 64))
		}
		for a := 0; a < dynamo.Dim; a++ {
			v := 0.0
			if hasVel {
				v = p.Vel[i*3+a]
			}
			fmt.Fprintf(bw, " %s", strconv.FormatFloat(v, 'g', -1, 64))
		}
		for a := 0; a < dynamo.Dim; a++ {
			fmt.Fprintf(bw, " %s", strconv.FormatFloat(p.Acc[i*3+a], 'g', -1, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadXYZ parses a dump written by WriteXYZ. Species ids are assigned in
// order of first appearance and masses are set to one. It returns the
// comment line.
func ReadXYZ(r io.Reader) (*dynamo.Particles, string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	if !sc.Scan() {
		return nil, "", fmt.Errorf("xyz: missing particle count")
	}
	n, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil || n < 0 {
		return nil, "", fmt.Errorf("xyz: bad particle count %q", sc.Text())
	}
	if !sc.Scan() {
		return nil, "", fmt.Errorf("xyz: missing comment line")
	}
	comment := sc.Text()

	p := dynamo.NewParticles(n)
	ids := map[string]int{}
	for i := 0; i < n; i++ {
		if !sc.Scan() {
			return nil, "", fmt.Errorf("xyz: expected %d particles, got %d", n, i)
		}
		fields := strings.Fields(sc.Text())
		if len(fields) != 10 {
			return nil, "", fmt.Errorf("xyz: line %d: expected 10 columns, got %d", i+3, len(fields))
		}

		id, ok := ids[fields[0]]
		if !ok {
			id = len(p.Names)
			ids[fields[0]] = id
			p.Names = append(p.Names, fields[0])
		}
		p.Species[i] = id

		var vals [9]float64
		for k := range vals {
			vals[k], err = strconv.ParseFloat(fields[k+1], 64)
			if err != nil {
				return nil, "", fmt.Errorf("xyz: line %d: %w", i+3, err)
			}
		}
		copy(p.Pos[i*3:i*3+3], vals[0:3])
		copy(p.Vel[i*3:i*3+3], vals[3:6])
		copy(p.Acc[i*3:i*3+3], vals[6:9])
	}
	return p, comment, sc.Err()
}
