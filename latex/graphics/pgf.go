// pgf.go -
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package graphics

// OpKind enumerates the path construction operations of the pgf
// system layer.
type OpKind int

const (
	MoveTo OpKind = iota
	LineTo
	CurveTo
	ClosePath
)

// PathOp is one path construction step.  C1 and C2 are the control
// points of a CurveTo.
type PathOp struct {
	Op     OpKind
	To     Point
	C1, C2 Point
}

// Path is a general stroked or filled path, as produced by pgf
// drawing commands.
type Path struct {
	Ops    []PathOp
	Stroke bool
	Fill   bool
	Width  float64
}

func (p *Path) Bounds() Rect {
	r := emptyRect()
	for _, op := range p.Ops {
		switch op.Op {
		case CurveTo:
			r = r.Extend(op.C1).Extend(op.C2)
			r = r.Extend(op.To)
		case ClosePath:
			// no new points
		default:
			r = r.Extend(op.To)
		}
	}
	return r
}

// PathBuilder accumulates pgf path operations until the path is used
// by a stroke or fill command.
type PathBuilder struct {
	ops []PathOp
}

// MoveTo starts a new subpath at p.
func (b *PathBuilder) MoveTo(p Point) {
	b.ops = append(b.ops, PathOp{Op: MoveTo, To: p})
}

// LineTo adds a straight segment to p.
func (b *PathBuilder) LineTo(p Point) {
	b.ops = append(b.ops, PathOp{Op: LineTo, To: p})
}

// CurveTo adds a cubic Bezier segment to p with control points c1
// and c2.
func (b *PathBuilder) CurveTo(c1, c2, p Point) {
	b.ops = append(b.ops, PathOp{Op: CurveTo, To: p, C1: c1, C2: c2})
}

// Close closes the current subpath.
func (b *PathBuilder) Close() {
	b.ops = append(b.ops, PathOp{Op: ClosePath})
}

// Rect adds an axis-aligned rectangle as a closed subpath.
func (b *PathBuilder) Rect(r Rect) {
	b.MoveTo(r.Min)
	b.LineTo(Point{r.Max.X, r.Min.Y})
	b.LineTo(r.Max)
	b.LineTo(Point{r.Min.X, r.Max.Y})
	b.Close()
}

// Use consumes the accumulated operations and returns the finished
// path.  The builder is reset for the next path.
func (b *PathBuilder) Use(stroke, fill bool, width float64) *Path {
	p := &Path{Ops: b.ops, Stroke: stroke, Fill: fill, Width: width}
	b.ops = nil
	return p
}
