package paths

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type clipTestCase struct {
	bounds Bounds
	path   Path
	want   []Path
}

func TestClip(t *testing.T) {
	b := func(x0, y0, x1, y1 float64) Bounds {
		return Bounds{Min: Vec2{x0, y0}, Max: Vec2{x1, y1}}
	}
	p := func(args ...float64) Path {
		if len(args)%2 != 0 {
			t.Fatalf("p helper needs an even number of args, got %v", args)
		}
		path := Path{}
		for i := 0; i < len(args); i += 2 {
			path.V = append(path.V, Vec2{args[i], args[i+1]})
		}
		return path
	}

	cases := []clipTestCase{
		{
			bounds: b(0, 0, 300, 200),
			path:   p(-100, 100, 150, 100),
			want:   []Path{p(0, 100, 150, 100)},
		},
		{
			bounds: b(0, 0, 300, 200),
			path:   p(-100, 100, 400, 100),
			want:   []Path{p(0, 100, 300, 100)},
		},
		{
			bounds: b(0, 0, 300, 200),
			path:   p(150, 100, 400, 100),
			want:   []Path{p(150, 100, 300, 100)},
		},
		{
			bounds: b(0, 0, 300, 200),
			path:   p(150, 100, 150, 250),
			want:   []Path{p(150, 100, 150, 200)},
		},
		{
			bounds: b(0, 0, 300, 200),
			path:   p(150, -50, 150, 100),
			want:   []Path{p(150, 0, 150, 100)},
		},
		{
			bounds: b(0, 0, 300, 200),
			path:   p(150, -50, 150, 250),
			want:   []Path{p(150, 0, 150, 200)},
		},
		{
			bounds: b(0, 0, 200, 100),
			path:   p(-50, 0, 100, 150, 250, 0),
			want:   []Path{p(0, 50, 50, 100), p(150, 100, 200, 50)},
		},
		{
			// entirely outside
			bounds: b(0, 0, 100, 100),
			path:   p(200, 200, 300, 300),
			want:   nil,
		},
	}
	approx := cmpopts.EquateApprox(0, 1e-9)
	for _, c := range cases {
		arg := &Paths{
			Bounds: b(-1000, -1000, 1000, 1000),
			P:      []Path{c.path},
		}
		ps := &Paths{
			Bounds: arg.Bounds,
			P:      []Path{{V: append([]Vec2{}, c.path.V...)}},
		}
		ps.Clip(c.bounds)
		var got []Path
		if len(ps.P) > 0 {
			got = ps.P
		}
		if diff := cmp.Diff(c.want, got, approx); diff != "" {
			t.Errorf("%v.Clip(%v) mismatch (-want +got):\n%s", arg, c.bounds, diff)
		}
	}
}

func TestClipKeepsInsideDots(t *testing.T) {
	ps := &Paths{P: []Path{
		{V: []Vec2{{5, 5}}},
		{V: []Vec2{{50, 50}}},
	}}
	ps.Clip(Bounds{Min: Vec2{0, 0}, Max: Vec2{10, 10}})
	if len(ps.P) != 1 || ps.P[0].V[0] != (Vec2{5, 5}) {
		t.Errorf("got %v, want just the dot at (5,5)", ps.P)
	}
}

func TestTightenBounds(t *testing.T) {
	ps := &Paths{
		Bounds: Bounds{Min: Vec2{-100, -100}, Max: Vec2{100, 100}},
		P: []Path{
			{V: []Vec2{{1, 2}, {3, -4}}},
			{V: []Vec2{{-5, 6}}},
		},
	}
	ps.TightenBounds()
	want := Bounds{Min: Vec2{-5, -4}, Max: Vec2{3, 6}}
	if ps.Bounds != want {
		t.Errorf("TightenBounds = %v, want %v", ps.Bounds, want)
	}

	empty := &Paths{Bounds: want}
	empty.TightenBounds()
	if empty.Bounds != (Bounds{}) {
		t.Errorf("TightenBounds of empty drawing = %v, want zero", empty.Bounds)
	}
}
