// picture.go -
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

import (
	"errors"
	"fmt"
)

// ErrBadSlope indicates a \line or \vector slope outside the range
// supported by the picture environment.
var ErrBadSlope = errors.New("invalid line slope")

// PictureBuilder assembles a Picture from the commands of a LaTeX
// picture environment.  Positions passed to its methods are in
// \unitlength units; the builder converts them to TeX points.
type PictureBuilder struct {
	// Unit is the current \unitlength in TeX points.
	Unit float64

	pic *Picture
}

// NewPictureBuilder starts a picture of the given nominal size.  Width
// and height are in units of unit, which is in TeX points.
func NewPictureBuilder(width, height, unit float64) *PictureBuilder {
	return &PictureBuilder{
		Unit: unit,
		pic: &Picture{
			BBox: Rect{Max: Point{width * unit, height * unit}},
		},
	}
}

// Picture returns the finished drawing.
func (b *PictureBuilder) Picture() *Picture {
	return b.pic
}

func (b *PictureBuilder) scale(p Point) Point {
	return Point{p.X * b.Unit, p.Y * b.Unit}
}

// Line adds a \line or \vector placed at the given position.  The
// slope is given as an integer pair; length is the horizontal extent,
// or the vertical extent for vertical lines, in units.
func (b *PictureBuilder) Line(at Point, dx, dy int, length float64, arrow bool) error {
	limit := 6
	if arrow {
		limit = 4
	}
	if dx == 0 && dy == 0 || abs(dx) > limit || abs(dy) > limit {
		return fmt.Errorf("%w: (%d,%d)", ErrBadSlope, dx, dy)
	}

	var delta Point
	if dx == 0 {
		delta.Y = float64(sign(dy)) * length
	} else {
		delta.X = float64(sign(dx)) * length
		delta.Y = length * float64(dy) / float64(abs(dx))
	}
	from := b.scale(at)
	to := b.scale(Point{at.X + delta.X, at.Y + delta.Y})
	b.pic.Add(&Line{From: from, To: to, Arrow: arrow})
	return nil
}

// Circle adds a \circle or \circle* of the given diameter, in units,
// centred at the given position.
func (b *PictureBuilder) Circle(at Point, diameter float64, filled bool) {
	b.pic.Add(&Circle{
		Center: b.scale(at),
		Radius: diameter / 2 * b.Unit,
		Filled: filled,
	})
}

// Frame adds a \framebox of the given size, in units, with its lower
// left corner at the given position.
func (b *PictureBuilder) Frame(at Point, width, height float64) {
	min := b.scale(at)
	max := b.scale(Point{at.X + width, at.Y + height})
	b.pic.Add(&Rectangle{Rect: Rect{Min: min, Max: max}, Framed: true})
}

// Text adds text placed at the given position.  Anchor follows the
// \makebox position argument.
func (b *PictureBuilder) Text(at Point, s, anchor string) {
	b.pic.Add(&Text{Pos: b.scale(at), S: s, Anchor: anchor})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
