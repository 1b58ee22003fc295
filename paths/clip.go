package paths

// clipLine clips the segment v0-v1 to the box b using the
// Liang-Barsky parametric method, from
// https://en.wikipedia.org/wiki/Liang%E2%80%93Barsky_algorithm
// It reports whether any part of the segment is inside b.
func clipLine(v0, v1 Vec2, b Bounds) (Vec2, Vec2, bool) {
	dx := v1[0] - v0[0]
	dy := v1[1] - v0[1]
	t0, t1 := 0.0, 1.0

	// p is the (negated) direction against an edge, q the distance
	// from v0 to that edge.
	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return false
			}
			if t < t1 {
				t1 = t
			}
		}
		return true
	}

	if !clip(-dx, v0[0]-b.Min[0]) ||
		!clip(dx, b.Max[0]-v0[0]) ||
		!clip(-dy, v0[1]-b.Min[1]) ||
		!clip(dy, b.Max[1]-v0[1]) {
		return v0, v1, false
	}
	c0 := Vec2{v0[0] + t0*dx, v0[1] + t0*dy}
	c1 := Vec2{v0[0] + t1*dx, v0[1] + t1*dy}
	if t0 == 0 {
		c0 = v0
	}
	if t1 == 1 {
		c1 = v1
	}
	return c0, c1, true
}

func clipPath(p Path, b Bounds) []Path {
	var parts []Path
	var curPath *Path
	var cont bool
	for i := 1; i < len(p.V); i++ {
		v0, v1, ok := clipLine(p.V[i-1], p.V[i], b)
		if !ok {
			cont = false
			continue
		}
		if v0 != p.V[i-1] || !cont {
			parts = append(parts, Path{})
			curPath = &parts[len(parts)-1]
			curPath.V = append(curPath.V, v0)
		}
		curPath.V = append(curPath.V, v1)
		cont = (v1 == p.V[i])
	}
	// remove parts with 0 or 1 vertices if any.
	j := 0
	for i := 0; i < len(parts); i++ {
		if len(parts[i].V) < 2 {
			continue
		}
		parts[j] = parts[i]
		j++
	}
	return parts[:j]
}

// Clip removes all line segments outside the given bounds.
// If a path crosses the bounds, it's broken into multiple paths.
// Single-point paths (dots) are kept if they are inside the bounds.
func (ps *Paths) Clip(b Bounds) {
	var result []Path
	for _, p := range ps.P {
		if len(p.V) == 1 {
			if b.Contains(p.V[0]) {
				result = append(result, p)
			}
			continue
		}
		parts := clipPath(p, b)
		result = append(result, parts...)
	}
	ps.P = result
}
