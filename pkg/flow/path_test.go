package flow

import "testing"

func TestPathSVG(t *testing.T) {
	tests := []struct {
		name  string
		build func(p *Path)
		want  string
	}{
		{"empty", func(p *Path) {}, ""},
		{"line", func(p *Path) {
			p.MoveTo(Point{0, 0})
			p.LineTo(Point{10.5, -3})
		}, "M0 0 L10.5 -3"},
		{"rounding", func(p *Path) {
			p.MoveTo(Point{1.23456, 2.006})
			p.QuadraticTo(Point{1.0 / 3, 2.0 / 3}, Point{-0.0001, 7})
			p.ClosePath()
		}, "M1.23 2.01 Q0.33 0.67 0 7 Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Path
			tt.build(&p)
			if got := p.SVG(); got != tt.want {
				t.Errorf("SVG() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPathBounds(t *testing.T) {
	var empty Path
	if got := empty.Bounds(); got != (Rect{}) {
		t.Errorf("empty Bounds() = %+v", got)
	}

	var p Path
	p.MoveTo(Point{5, 5})
	p.QuadraticTo(Point{20, -10}, Point{30, 5})
	p.LineTo(Point{30, 15})
	p.ClosePath()

	want := Rect{MinX: 5, MinY: -10, MaxX: 30, MaxY: 15}
	if got := p.Bounds(); got != want {
		t.Errorf("Bounds() = %+v, want %+v", got, want)
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	b := Rect{5, -5, 20, 8}
	want := Rect{0, -5, 20, 10}
	if got := a.Union(b); got != want {
		t.Errorf("Union() = %+v, want %+v", got, want)
	}
}
