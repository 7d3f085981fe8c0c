package flow

import (
	"math"
	"strconv"
	"strings"
)

// Op identifies a path command.
type Op uint8

const (
	OpMoveTo Op = iota
	OpLineTo
	OpQuadraticTo
	OpClosePath
)

// Command is one recorded path operation. Ctrl is only meaningful for
// OpQuadraticTo; To is unused for OpClosePath.
type Command struct {
	Op   Op
	Ctrl Point
	To   Point
}

// Path records drawing commands so they can be replayed by any backend.
// The zero value is an empty path.
type Path struct {
	cmds []Command
}

func (p *Path) MoveTo(to Point) { p.cmds = append(p.cmds, Command{Op: OpMoveTo, To: to}) }
func (p *Path) LineTo(to Point) { p.cmds = append(p.cmds, Command{Op: OpLineTo, To: to}) }
func (p *Path) ClosePath()      { p.cmds = append(p.cmds, Command{Op: OpClosePath}) }

func (p *Path) QuadraticTo(ctrl, to Point) {
	p.cmds = append(p.cmds, Command{Op: OpQuadraticTo, Ctrl: ctrl, To: to})
}

// Commands returns the recorded commands. The slice must not be modified.
func (p *Path) Commands() []Command { return p.cmds }

// Closed reports whether the path ends with ClosePath.
func (p *Path) Closed() bool {
	return len(p.cmds) > 0 && p.cmds[len(p.cmds)-1].Op == OpClosePath
}

// SVG returns the path in SVG path-data syntax, with coordinates rounded to
// two decimals.
func (p *Path) SVG() string {
	var b strings.Builder
	for i, c := range p.cmds {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch c.Op {
		case OpMoveTo:
			b.WriteString("M")
			writePoint(&b, c.To)
		case OpLineTo:
			b.WriteString("L")
			writePoint(&b, c.To)
		case OpQuadraticTo:
			b.WriteString("Q")
			writePoint(&b, c.Ctrl)
			b.WriteByte(' ')
			writePoint(&b, c.To)
		case OpClosePath:
			b.WriteString("Z")
		}
	}
	return b.String()
}

// Bounds returns the box around every point of the path, control points
// included. A quadratic curve lies inside the triangle of its endpoints and
// control point, so this always contains the drawn shape.
func (p *Path) Bounds() Rect {
	r := Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	grow := func(pt Point) {
		r.MinX = math.Min(r.MinX, pt.X)
		r.MinY = math.Min(r.MinY, pt.Y)
		r.MaxX = math.Max(r.MaxX, pt.X)
		r.MaxY = math.Max(r.MaxY, pt.Y)
	}
	for _, c := range p.cmds {
		switch c.Op {
		case OpMoveTo, OpLineTo:
			grow(c.To)
		case OpQuadraticTo:
			grow(c.Ctrl)
			grow(c.To)
		}
	}
	if math.IsInf(r.MinX, 1) {
		return Rect{}
	}
	return r
}

func writePoint(b *strings.Builder, pt Point) {
	b.WriteString(fmtNum(pt.X))
	b.WriteByte(' ')
	b.WriteString(fmtNum(pt.Y))
}

func fmtNum(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // normalize -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
