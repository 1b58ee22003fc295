package paths

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"
)

// moved computes the move distance of a pen (excluding draw distance).
func moved(ps *Paths) float64 {
	d := 0.0
	var last Vec2
	for _, p := range ps.P {
		d += vec2dist(last, p.V[0])
		last = p.V[len(p.V)-1]
	}
	return d
}

type testSortCase struct {
	desc        string
	paths       *Paths
	cfg         *SortConfig
	wantMaxMove float64
}

func testSortRandom(cfg *SortConfig) testSortCase {
	rng := rand.New(rand.NewSource(42))
	ps := &Paths{Bounds: Bounds{Min: Vec2{-1000, -1000}, Max: Vec2{1000, 1000}}}
	const N = 100
	for i := 0; i < N; i++ {
		randStart := Vec2{rng.Float64()*2000 - 1000, rng.Float64()*2000 - 1000}
		randEnd := Vec2{rng.Float64()*2000 - 1000, rng.Float64()*2000 - 1000}
		randLine := Path{V: []Vec2{randStart, randEnd}}
		ps.P = append(ps.P, randLine)
	}
	return testSortCase{
		desc:        fmt.Sprintf("%d random lines, cfg %+v", N, *cfg),
		paths:       ps,
		cfg:         cfg,
		wantMaxMove: 0.5,
	}
}

func TestSort(t *testing.T) {
	cases := []testSortCase{
		testSortRandom(&SortConfig{}),
		testSortRandom(&SortConfig{Reverse: true}),
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			mvd0 := moved(tc.paths)
			N := len(tc.paths.P)
			tc.paths.Sort(tc.cfg)
			mvd1 := moved(tc.paths)
			if !(mvd1 < tc.wantMaxMove*mvd0) {
				t.Errorf("got move distance %f, want at most %f", mvd1, mvd0*tc.wantMaxMove)
			}
			if len(tc.paths.P) != N {
				// In theory, we could end up with less paths than we started with if the
				// end-point of one matches the start-point of another. It's not very likely
				// though.
				t.Errorf("started with %d paths, ended with %d paths", N, len(tc.paths.P))
			}
		})
	}
}

// TestSortKeepsSegments checks that sorting only reorders (and
// possibly reverses) the drawing's segments, never invents or
// loses any.
func TestSortKeepsSegments(t *testing.T) {
	p := Path{V: []Vec2{{0, 0}, {1, 0}, {1, 1}}}
	ps := &Paths{Bounds: Bounds{Max: Vec2{1, 1}}, P: []Path{p, {V: []Vec2{{5, 5}, {6, 5}}}}}

	type seg [2]Vec2
	norm := func(s seg) seg {
		if s[1][0] < s[0][0] || (s[1][0] == s[0][0] && s[1][1] < s[0][1]) {
			s[0], s[1] = s[1], s[0]
		}
		return s
	}
	segs := func(ps *Paths) map[seg]int {
		m := map[seg]int{}
		for _, p := range ps.P {
			for i := 1; i < len(p.V); i++ {
				m[norm(seg{p.V[i-1], p.V[i]})]++
			}
		}
		return m
	}

	want := segs(ps)
	ps.Sort(&SortConfig{Split: true, Reverse: true})
	if got := segs(ps); !reflect.DeepEqual(got, want) {
		t.Errorf("segments after sort = %v, want %v", got, want)
	}
}

// A dot has no segments to split, but splitting must not lose it.
func TestSortSplitKeepsDots(t *testing.T) {
	ps := &Paths{
		Bounds: Bounds{Max: Vec2{6, 5}},
		P: []Path{
			{V: []Vec2{{5, 5}}},
			{V: []Vec2{{0, 0}, {1, 0}}},
		},
	}
	ps.Sort(&SortConfig{Split: true})
	want := []Path{
		{V: []Vec2{{0, 0}, {1, 0}}},
		{V: []Vec2{{5, 5}}},
	}
	if !reflect.DeepEqual(ps.P, want) {
		t.Errorf("Sort(Split) = %v, want %v", ps.P, want)
	}
}
