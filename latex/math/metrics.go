// metrics.go -
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

import "errors"

// ErrMissingGlyph is reported when the metrics have no entry for a
// glyph.  Layout continues with fallback dimensions.
var ErrMissingGlyph = errors.New("glyph not covered by font metrics")

// Glyph holds the dimensions of one glyph at size 1pt.  All values
// scale linearly with the font size.
type Glyph struct {
	Width  float64
	Height float64
	Depth  float64
	Italic float64
}

// Metrics provides the font parameters needed by the layout
// algorithm.  All dimensions are per point of font size.
type Metrics interface {
	// Glyph returns the metrics of a glyph, per point of font size.
	// The second return value is false when the glyph is not
	// covered.
	Glyph(r rune) (Glyph, bool)

	// RuleThickness is the default fraction bar thickness.
	RuleThickness() float64

	// Axis is the height of the math axis above the baseline, the
	// level fraction bars are centred on.
	Axis() float64

	// XHeight is the height of lowercase letters without ascenders.
	XHeight() float64

	// Quad is the width of an em, the unit mu spacing is based on.
	Quad() float64
}

// cmMetrics approximates the proportions of the Computer Modern math
// fonts.  Per-glyph values cover ASCII and the common math symbols;
// everything else reports a missing glyph.
type cmMetrics struct{}

// Builtin returns metrics modelled on Computer Modern.
func Builtin() Metrics {
	return cmMetrics{}
}

func (cmMetrics) RuleThickness() float64 { return 0.04 }
func (cmMetrics) Axis() float64          { return 0.25 }
func (cmMetrics) XHeight() float64       { return 0.43 }
func (cmMetrics) Quad() float64          { return 1.0 }

// glyph dimension classes, per point of font size
var (
	glyphAscender = Glyph{Width: 0.5, Height: 0.7}
	glyphXHeight  = Glyph{Width: 0.5, Height: 0.43}
	glyphDescend  = Glyph{Width: 0.5, Height: 0.43, Depth: 0.2}
	glyphDigit    = Glyph{Width: 0.5, Height: 0.65}
	glyphOperator = Glyph{Width: 0.78, Height: 0.58, Depth: 0.08}
	glyphRelation = Glyph{Width: 0.78, Height: 0.37, Depth: -0.13}
	glyphFence    = Glyph{Width: 0.39, Height: 0.75, Depth: 0.25}
)

var specialGlyphs = map[rune]Glyph{
	'(': glyphFence, ')': glyphFence,
	'[': glyphFence, ']': glyphFence,
	'{': glyphFence, '}': glyphFence,
	'|': glyphFence, '/': glyphFence, '\\': glyphFence,
	'+': glyphOperator, '−': glyphOperator,
	'±': glyphOperator, '∓': glyphOperator,
	'×': glyphOperator, '÷': glyphOperator,
	'∘': {Width: 0.44, Height: 0.37},
	'⋅': {Width: 0.28, Height: 0.31},
	'=': glyphRelation, '<': {Width: 0.78, Height: 0.54, Depth: 0.04},
	'>': {Width: 0.78, Height: 0.54, Depth: 0.04},
	'≤': glyphRelation, '≥': glyphRelation,
	'≠': {Width: 0.78, Height: 0.72, Depth: 0.22},
	'∈': {Width: 0.67, Height: 0.54, Depth: 0.04},
	'→': {Width: 1.0, Height: 0.37, Depth: -0.13},
	'←': {Width: 1.0, Height: 0.37, Depth: -0.13},
	',': {Width: 0.28, Depth: 0.12},
	';': {Width: 0.28, Height: 0.43, Depth: 0.12},
	'.': {Width: 0.28, Height: 0.1},
	'!': {Width: 0.28, Height: 0.7},
	'√': {Width: 0.83, Height: 0.8, Depth: 0.2},
	'∞': {Width: 1.0, Height: 0.43},
	'∑': {Width: 1.05, Height: 0.75, Depth: 0.25},
	'∏': {Width: 1.05, Height: 0.75, Depth: 0.25},
	'∫': {Width: 0.56, Height: 0.81, Depth: 0.31},
	'π': {Width: 0.57, Height: 0.43},
	'α': {Width: 0.64, Height: 0.43},
	'β': {Width: 0.57, Height: 0.7, Depth: 0.2},
	'γ': {Width: 0.54, Height: 0.43, Depth: 0.2},
	'′': {Width: 0.28, Height: 0.56},
	'…': {Width: 1.17, Height: 0.1},
}

func (cmMetrics) Glyph(r rune) (Glyph, bool) {
	if g, ok := specialGlyphs[r]; ok {
		return g, true
	}
	switch {
	case r >= '0' && r <= '9':
		return glyphDigit, true
	case r >= 'A' && r <= 'Z':
		g := glyphAscender
		g.Width = 0.72
		g.Italic = 0.03
		return g, true
	case r == 'b' || r == 'd' || r == 'f' || r == 'h' || r == 'k' ||
		r == 'l' || r == 't' || r == 'i' || r == 'j':
		g := glyphAscender
		g.Italic = 0.03
		return g, true
	case r == 'g' || r == 'p' || r == 'q' || r == 'y':
		g := glyphDescend
		g.Italic = 0.03
		return g, true
	case r >= 'a' && r <= 'z':
		g := glyphXHeight
		g.Italic = 0.03
		return g, true
	case r >= 0x3b1 && r <= 0x3c9: // lowercase Greek
		return glyphXHeight, true
	case r >= 0x391 && r <= 0x3a9: // uppercase Greek
		g := glyphAscender
		g.Width = 0.72
		return g, true
	}
	return Glyph{}, false
}
