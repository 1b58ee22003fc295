package paths

// SortConfig controls how Sort is allowed to reorder a drawing.
type SortConfig struct {
	Split   bool // ok to split continuous paths
	Reverse bool // ok to draw paths in the reverse direction
}

// A stroke is a run of segments of one path, drawn from the start
// index to the end index (which may be in either order).
type stroke struct {
	path       int
	start, end int
}

func (s stroke) reversed() stroke {
	s.start, s.end = s.end, s.start
	return s
}

// Sort reorders the paths of the drawing to reduce the distance the
// pen travels while raised. Starting from the origin, it greedily
// picks whichever remaining stroke starts nearest to where the pen
// ended up. With cfg.Reverse, a path may be drawn back to front;
// with cfg.Split, each segment of a path may be drawn separately.
func (ps *Paths) Sort(cfg *SortConfig) {
	var strokes []stroke
	for i, p := range ps.P {
		if cfg.Split {
			if len(p.V) == 1 {
				strokes = append(strokes, stroke{i, 0, 0})
			}
			for j := 0; j < len(p.V)-1; j++ {
				strokes = append(strokes, stroke{i, j, j + 1})
			}
		} else {
			strokes = append(strokes, stroke{i, 0, len(p.V) - 1})
		}
	}

	np := &Paths{Bounds: ps.Bounds}
	var pos Vec2
	remaining := len(strokes)
	used := make([]bool, len(strokes))
	for ; remaining > 0; remaining-- {
		best := -1
		bestD := 0.0
		for i, s := range strokes {
			if used[i] {
				continue
			}
			d := vec2dist(pos, ps.P[s.path].V[s.start])
			if cfg.Reverse {
				if rd := vec2dist(pos, ps.P[s.path].V[s.end]); rd < d {
					d = rd
					s = s.reversed()
				}
			}
			if best == -1 || d < bestD {
				best, bestD = i, d
				strokes[i] = s
			}
		}
		s := strokes[best]
		used[best] = true

		if s.start == s.end {
			// a dot
			np.move(ps.P[s.path].V[s.start])
			pos = ps.P[s.path].V[s.end]
			continue
		}
		d := 1
		if s.end < s.start {
			d = -1
		}
		for i := s.start; i != s.end; i += d {
			np.move(ps.P[s.path].V[i])
			np.line(ps.P[s.path].V[i+d])
		}
		pos = ps.P[s.path].V[s.end]
	}
	*ps = *np
}
