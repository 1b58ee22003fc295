package paths

import (
	"encoding/json"
	"fmt"
	"io"
)

// FromJSON reads a drawing in the plotter lines format: a JSON
// array of lines, each line an array of [x, y] pairs. There is no
// metadata; the bounds are tightened around the points.
func FromJSON(r io.Reader) (*Paths, error) {
	var lines [][][]float64
	dec := json.NewDecoder(r)
	if err := dec.Decode(&lines); err != nil {
		return nil, fmt.Errorf("decode lines: %w", err)
	}
	ps := &Paths{}
	for i, line := range lines {
		if len(line) == 0 {
			return nil, fmt.Errorf("line %d has no points", i)
		}
		p := Path{V: make([]Vec2, 0, len(line))}
		for j, pt := range line {
			if len(pt) != 2 {
				return nil, fmt.Errorf("line %d point %d has %d coordinates, want 2", i, j, len(pt))
			}
			p.V = append(p.V, Vec2{pt[0], pt[1]})
		}
		ps.P = append(ps.P, p)
	}
	ps.TightenBounds()
	return ps, nil
}

// WriteJSON writes the drawing in the plotter lines format.
func (ps *Paths) WriteJSON(w io.Writer) error {
	lines := make([][][2]float64, 0, len(ps.P))
	for _, p := range ps.P {
		line := make([][2]float64, 0, len(p.V))
		for _, v := range p.V {
			line = append(line, v)
		}
		lines = append(lines, line)
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(lines); err != nil {
		return fmt.Errorf("encode lines: %w", err)
	}
	return nil
}
