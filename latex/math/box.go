// box.go -
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

package math

// BoxKind enumerates the node types of the box tree.
type BoxKind int

const (
	// GlyphBox renders the text in S at the font size in Size.
	GlyphBox BoxKind = iota

	// HBox places its children left to right on a common baseline.
	// A child's Dy shifts it up relative to the baseline.
	HBox

	// RuleBox is a filled rectangle.
	RuleBox

	// KernBox is empty horizontal space.
	KernBox
)

// Box is a typeset fragment.  Width, Height and Depth are in TeX
// points; Height extends above the baseline, Depth below.  Dx and Dy
// give the offset from the parent's reference point, with Dy positive
// upwards.
type Box struct {
	Kind BoxKind

	Width  float64
	Height float64
	Depth  float64

	Dx, Dy float64

	// S and Size describe a GlyphBox: the text and its font size in
	// points.  Variant selects the font shape, e.g. "it".
	S       string
	Size    float64
	Variant string

	Children []*Box
}

// Kern returns empty horizontal space of the given width.
func Kern(w float64) *Box {
	return &Box{Kind: KernBox, Width: w}
}

// Rule returns a filled rectangle.
func Rule(w, h, d float64) *Box {
	return &Box{Kind: RuleBox, Width: w, Height: h, Depth: d}
}

// HorizontalBox packs the given boxes into an HBox, assigning Dx
// offsets and accumulating the dimensions.  Each child's Dy is kept,
// so shifted children contribute their shifted extent.
func HorizontalBox(children ...*Box) *Box {
	res := &Box{Kind: HBox}
	x := 0.0
	for _, c := range children {
		if c == nil {
			continue
		}
		c.Dx = x
		x += c.Width
		if h := c.Height + c.Dy; h > res.Height {
			res.Height = h
		}
		if d := c.Depth - c.Dy; d > res.Depth {
			res.Depth = d
		}
		res.Children = append(res.Children, c)
	}
	res.Width = x
	return res
}

// Raise shifts the box up by dy and returns it.
func (b *Box) Raise(dy float64) *Box {
	b.Dy += dy
	return b
}

// Walk calls fn for b and every box below it, parents first.
func (b *Box) Walk(fn func(*Box)) {
	fn(b)
	for _, c := range b.Children {
		c.Walk(fn)
	}
}
