// graphics_test.go -
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
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPictureLine(t *testing.T) {
	testCases := []struct {
		dx, dy int
		length float64
		to     Point
	}{
		{1, 0, 10, Point{10, 0}},
		{-1, 0, 10, Point{-10, 0}},
		{0, 1, 5, Point{0, 5}},
		{0, -1, 5, Point{0, -5}},
		{1, 1, 4, Point{4, 4}},
		{2, 1, 6, Point{6, 3}},
		{-3, 2, 6, Point{-6, 4}},
	}
	for i, testCase := range testCases {
		b := NewPictureBuilder(20, 20, 1)
		err := b.Line(Point{0, 0}, testCase.dx, testCase.dy,
			testCase.length, false)
		if err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		line := b.Picture().Elements[0].(*Line)
		if !almostEqual(line.To.X, testCase.to.X) ||
			!almostEqual(line.To.Y, testCase.to.Y) {
			t.Errorf("test %d: endpoint (%g,%g), expected (%g,%g)",
				i, line.To.X, line.To.Y, testCase.to.X, testCase.to.Y)
		}
	}
}

func TestPictureBadSlope(t *testing.T) {
	b := NewPictureBuilder(10, 10, 1)
	if err := b.Line(Point{}, 0, 0, 1, false); !errors.Is(err, ErrBadSlope) {
		t.Errorf("slope (0,0): got %v", err)
	}
	if err := b.Line(Point{}, 7, 1, 1, false); !errors.Is(err, ErrBadSlope) {
		t.Errorf("slope (7,1): got %v", err)
	}
	// vectors allow slopes up to 4 only
	if err := b.Line(Point{}, 5, 1, 1, true); !errors.Is(err, ErrBadSlope) {
		t.Errorf("vector slope (5,1): got %v", err)
	}
	if err := b.Line(Point{}, 6, 1, 1, false); err != nil {
		t.Errorf("slope (6,1): got %v", err)
	}
}

func TestUnitScaling(t *testing.T) {
	b := NewPictureBuilder(10, 5, 2.5)
	b.Circle(Point{4, 2}, 2, false)

	pic := b.Picture()
	if !almostEqual(pic.BBox.Width(), 25) || !almostEqual(pic.BBox.Height(), 12.5) {
		t.Errorf("bbox %gx%g", pic.BBox.Width(), pic.BBox.Height())
	}
	c := pic.Elements[0].(*Circle)
	if !almostEqual(c.Center.X, 10) || !almostEqual(c.Center.Y, 5) {
		t.Errorf("center (%g,%g)", c.Center.X, c.Center.Y)
	}
	if !almostEqual(c.Radius, 2.5) {
		t.Errorf("radius %g", c.Radius)
	}
}

func TestContentBounds(t *testing.T) {
	pic := &Picture{BBox: Rect{Max: Point{10, 10}}}
	pic.Add(&Line{From: Point{-5, 0}, To: Point{15, 20}})
	got := pic.ContentBounds()
	want := Rect{Min: Point{-5, 0}, Max: Point{15, 20}}
	if got != want {
		t.Errorf("got %+v, expected %+v", got, want)
	}
}

func TestPathBuilder(t *testing.T) {
	var b PathBuilder
	b.MoveTo(Point{0, 0})
	b.LineTo(Point{10, 0})
	b.CurveTo(Point{10, 5}, Point{5, 10}, Point{0, 10})
	b.Close()
	p := b.Use(true, false, 0.4)

	if len(p.Ops) != 4 {
		t.Fatalf("expected 4 ops, got %d", len(p.Ops))
	}
	if !p.Stroke || p.Fill {
		t.Error("stroke/fill flags wrong")
	}
	bounds := p.Bounds()
	if !almostEqual(bounds.Max.X, 10) || !almostEqual(bounds.Max.Y, 10) {
		t.Errorf("bounds %+v", bounds)
	}

	// the builder must be reset after Use
	b.MoveTo(Point{1, 1})
	p2 := b.Use(false, true, 0)
	if len(p2.Ops) != 1 {
		t.Errorf("builder not reset: %d ops", len(p2.Ops))
	}
}
