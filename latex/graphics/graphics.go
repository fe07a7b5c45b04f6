// graphics.go -
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

// Package graphics holds the device-independent drawing model for
// picture environments and pgf output.  Coordinates are in TeX points
// with the y axis pointing up; output writers flip the y axis when
// they emit SVG.
package graphics

import "math"

// Point is a position in the drawing plane, in TeX points.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle.  Min is the lower left corner in
// the y-up coordinate system.
type Rect struct {
	Min, Max Point
}

// Extend grows the rectangle to include p.
func (r Rect) Extend(p Point) Rect {
	if p.X < r.Min.X {
		r.Min.X = p.X
	}
	if p.Y < r.Min.Y {
		r.Min.Y = p.Y
	}
	if p.X > r.Max.X {
		r.Max.X = p.X
	}
	if p.Y > r.Max.Y {
		r.Max.Y = p.Y
	}
	return r
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return r.Extend(other.Min).Extend(other.Max)
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

func emptyRect() Rect {
	return Rect{
		Min: Point{math.Inf(1), math.Inf(1)},
		Max: Point{math.Inf(-1), math.Inf(-1)},
	}
}

// Element is one drawing primitive.
type Element interface {
	Bounds() Rect
}

// Line is a straight line segment.  Arrow draws an arrow head at the
// To end.
type Line struct {
	From, To Point
	Arrow    bool
	Width    float64
}

func (l *Line) Bounds() Rect {
	return emptyRect().Extend(l.From).Extend(l.To)
}

// Polyline is a connected sequence of line segments.  When Closed is
// set, the last point connects back to the first.
type Polyline struct {
	Points []Point
	Closed bool
	Filled bool
	Width  float64
}

func (p *Polyline) Bounds() Rect {
	r := emptyRect()
	for _, pt := range p.Points {
		r = r.Extend(pt)
	}
	return r
}

// Circle is a circle or disk.
type Circle struct {
	Center Point
	Radius float64
	Filled bool
	Width  float64
}

func (c *Circle) Bounds() Rect {
	return Rect{
		Min: Point{c.Center.X - c.Radius, c.Center.Y - c.Radius},
		Max: Point{c.Center.X + c.Radius, c.Center.Y + c.Radius},
	}
}

// Rectangle is an axis-aligned box, framed or filled.
type Rectangle struct {
	Rect   Rect
	Framed bool
	Filled bool
	Width  float64
}

func (b *Rectangle) Bounds() Rect {
	return b.Rect
}

// Text places a string at a position.  Anchor follows the LaTeX
// \makebox convention: "" centres, and combinations of l, r, t, b
// align to the named edges.
type Text struct {
	Pos    Point
	S      string
	Anchor string
}

func (t *Text) Bounds() Rect {
	return emptyRect().Extend(t.Pos)
}

// Group shifts a list of elements by a common offset.
type Group struct {
	Offset   Point
	Elements []Element
}

func (g *Group) Bounds() Rect {
	r := emptyRect()
	for _, el := range g.Elements {
		b := el.Bounds()
		r = r.Extend(Point{b.Min.X + g.Offset.X, b.Min.Y + g.Offset.Y})
		r = r.Extend(Point{b.Max.X + g.Offset.X, b.Max.Y + g.Offset.Y})
	}
	return r
}

// Picture is a complete drawing.  BBox is the nominal size declared by
// the environment, which output writers use as the viewport; elements
// may extend beyond it.
type Picture struct {
	BBox     Rect
	Elements []Element
}

// Add appends elements to the drawing.
func (p *Picture) Add(els ...Element) {
	p.Elements = append(p.Elements, els...)
}

// ContentBounds returns the union of the bounding boxes of all
// elements and the declared BBox.
func (p *Picture) ContentBounds() Rect {
	r := p.BBox
	for _, el := range p.Elements {
		r = r.Union(el.Bounds())
	}
	return r
}
