// svg.go -
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

package htmlout

import (
	"encoding/hex"
	"fmt"
	"html"
	"strconv"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/seehuhn/typeset/latex/doc"
	"github.com/seehuhn/typeset/latex/graphics"
	"github.com/seehuhn/typeset/latex/math"
)

// svgRenderer converts formula boxes and drawings into inline SVG.
// Identical content is emitted once and referenced afterwards.
type svgRenderer struct {
	layout *math.Layouter

	// seen maps content keys to the element id of the first copy.
	seen map[string]string

	arrowDefsDone bool
}

// Formula typesets a formula and returns it as an <svg> element.  The
// baseline of the formula is aligned with the surrounding text.
func (r *svgRenderer) Formula(m *doc.MathNode, display bool) string {
	box := r.layout.Layout(m, display)

	var buf strings.Builder
	r.emitBox(&buf, box, 0, box.Height)

	width := box.Width
	height := box.Height + box.Depth
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	return `<svg class="` + cssPrefix + `math"` +
		` width="` + fmtF(width) + `pt"` +
		` height="` + fmtF(height) + `pt"` +
		` viewBox="0 0 ` + fmtF(width) + ` ` + fmtF(height) + `"` +
		` style="vertical-align:` + fmtF(-box.Depth) + `pt">` +
		r.dedup(buf.String()) + "</svg>"
}

// emitBox renders a box at horizontal position x with the baseline at
// y, in the y-down SVG coordinate system.
func (r *svgRenderer) emitBox(buf *strings.Builder, b *math.Box, x, y float64) {
	x += b.Dx
	y -= b.Dy
	switch b.Kind {
	case math.GlyphBox:
		attr := ""
		switch b.Variant {
		case "it":
			attr = ` font-style="italic"`
		case "bf":
			attr = ` font-weight="bold"`
		}
		fmt.Fprintf(buf,
			`<text x="%s" y="%s" font-size="%s"%s>%s</text>`,
			fmtF(x), fmtF(y), fmtF(b.Size), attr,
			html.EscapeString(b.S))
	case math.RuleBox:
		fmt.Fprintf(buf,
			`<rect x="%s" y="%s" width="%s" height="%s"/>`,
			fmtF(x), fmtF(y-b.Height), fmtF(b.Width),
			fmtF(b.Height+b.Depth))
	case math.HBox:
		for _, c := range b.Children {
			r.emitBox(buf, c, x, y)
		}
	}
	// KernBox produces no output.
}

// dedup wraps body in a reusable group.  A body seen before collapses
// into a reference to the first copy.
func (r *svgRenderer) dedup(body string) string {
	h := sha3.NewShake128()
	h.Write([]byte(body))
	var sum [8]byte
	h.Read(sum[:])
	key := hex.EncodeToString(sum[:])

	if id, ok := r.seen[key]; ok {
		return `<use href="#` + id + `"/>`
	}
	id := "g" + key
	r.seen[key] = id
	return `<g id="` + id + `">` + body + "</g>"
}

const defaultStrokeWidth = 0.4

// arrowDefs defines the arrow head marker.  It is emitted with the
// first drawing which needs it; later drawings in the same document
// can reference the marker by id.
const arrowDefs = `<defs><marker id="arrowhead" viewBox="0 0 10 10"` +
	` refX="9" refY="5" markerWidth="5" markerHeight="5"` +
	` orient="auto"><path d="M 0 0 L 10 5 L 0 10 z"/></marker></defs>`

// Picture renders a drawing as an <svg> element, flipping the y axis.
func (r *svgRenderer) Picture(pic *graphics.Picture) string {
	bb := pic.ContentBounds()
	width := bb.Width()
	height := bb.Height()
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	var buf strings.Builder
	if needsArrow(pic.Elements) && !r.arrowDefsDone {
		buf.WriteString(arrowDefs)
		r.arrowDefsDone = true
	}
	for _, el := range pic.Elements {
		r.element(&buf, el, bb, graphics.Point{})
	}

	return `<svg class="` + cssPrefix + `picture"` +
		` width="` + fmtF(width) + `pt"` +
		` height="` + fmtF(height) + `pt"` +
		` viewBox="0 0 ` + fmtF(width) + ` ` + fmtF(height) + `">` +
		r.dedup(buf.String()) + "</svg>"
}

func needsArrow(els []graphics.Element) bool {
	for _, el := range els {
		switch el := el.(type) {
		case *graphics.Line:
			if el.Arrow {
				return true
			}
		case *graphics.Group:
			if needsArrow(el.Elements) {
				return true
			}
		}
	}
	return false
}

func (r *svgRenderer) element(buf *strings.Builder, el graphics.Element, bb graphics.Rect, off graphics.Point) {
	switch el := el.(type) {
	case *graphics.Line:
		x1, y1 := flip(bb, shift(el.From, off))
		x2, y2 := flip(bb, shift(el.To, off))
		marker := ""
		if el.Arrow {
			marker = ` marker-end="url(#arrowhead)"`
		}
		fmt.Fprintf(buf,
			`<line x1="%s" y1="%s" x2="%s" y2="%s"`+
				` stroke="black" stroke-width="%s"%s/>`,
			fmtF(x1), fmtF(y1), fmtF(x2), fmtF(y2),
			fmtF(strokeWidth(el.Width)), marker)

	case *graphics.Polyline:
		var pts []string
		for _, p := range el.Points {
			x, y := flip(bb, shift(p, off))
			pts = append(pts, fmtF(x)+","+fmtF(y))
		}
		tag := "polyline"
		if el.Closed {
			tag = "polygon"
		}
		fill := "none"
		if el.Filled {
			fill = "black"
		}
		fmt.Fprintf(buf,
			`<%s points="%s" fill="%s" stroke="black"`+
				` stroke-width="%s"/>`,
			tag, strings.Join(pts, " "), fill,
			fmtF(strokeWidth(el.Width)))

	case *graphics.Circle:
		cx, cy := flip(bb, shift(el.Center, off))
		if el.Filled {
			fmt.Fprintf(buf,
				`<circle cx="%s" cy="%s" r="%s"/>`,
				fmtF(cx), fmtF(cy), fmtF(el.Radius))
		} else {
			fmt.Fprintf(buf,
				`<circle cx="%s" cy="%s" r="%s" fill="none"`+
					` stroke="black" stroke-width="%s"/>`,
				fmtF(cx), fmtF(cy), fmtF(el.Radius),
				fmtF(strokeWidth(el.Width)))
		}

	case *graphics.Rectangle:
		x, y := flip(bb, shift(graphics.Point{
			X: el.Rect.Min.X,
			Y: el.Rect.Max.Y,
		}, off))
		fill := "none"
		if el.Filled {
			fill = "black"
		}
		stroke := "none"
		if el.Framed {
			stroke = "black"
		}
		fmt.Fprintf(buf,
			`<rect x="%s" y="%s" width="%s" height="%s"`+
				` fill="%s" stroke="%s" stroke-width="%s"/>`,
			fmtF(x), fmtF(y), fmtF(el.Rect.Width()),
			fmtF(el.Rect.Height()), fill, stroke,
			fmtF(strokeWidth(el.Width)))

	case *graphics.Text:
		x, y := flip(bb, shift(el.Pos, off))
		anchor := "middle"
		if strings.Contains(el.Anchor, "l") {
			anchor = "start"
		} else if strings.Contains(el.Anchor, "r") {
			anchor = "end"
		}
		baseline := ` dominant-baseline="middle"`
		if strings.Contains(el.Anchor, "t") {
			baseline = ` dominant-baseline="hanging"`
		} else if strings.Contains(el.Anchor, "b") {
			baseline = ""
		}
		fmt.Fprintf(buf,
			`<text x="%s" y="%s" text-anchor="%s"%s>%s</text>`,
			fmtF(x), fmtF(y), anchor, baseline,
			html.EscapeString(el.S))

	case *graphics.Group:
		for _, sub := range el.Elements {
			r.element(buf, sub, bb, shift(off, el.Offset))
		}

	case *graphics.Path:
		fill := "none"
		if el.Fill {
			fill = "black"
		}
		stroke := "none"
		strokeAttr := ""
		if el.Stroke {
			stroke = "black"
			strokeAttr = ` stroke-width="` +
				fmtF(strokeWidth(el.Width)) + `"`
		}
		fmt.Fprintf(buf,
			`<path d="%s" fill="%s" stroke="%s"%s/>`,
			pathData(el, bb, off), fill, stroke, strokeAttr)
	}
}

func pathData(p *graphics.Path, bb graphics.Rect, off graphics.Point) string {
	var parts []string
	coord := func(pt graphics.Point) {
		x, y := flip(bb, shift(pt, off))
		parts = append(parts, fmtF(x), fmtF(y))
	}
	for _, op := range p.Ops {
		switch op.Op {
		case graphics.MoveTo:
			parts = append(parts, "M")
			coord(op.To)
		case graphics.LineTo:
			parts = append(parts, "L")
			coord(op.To)
		case graphics.CurveTo:
			parts = append(parts, "C")
			coord(op.C1)
			coord(op.C2)
			coord(op.To)
		case graphics.ClosePath:
			parts = append(parts, "Z")
		}
	}
	return strings.Join(parts, " ")
}

// flip converts a point from the y-up drawing plane to the y-down SVG
// viewport anchored at the content bounding box.
func flip(bb graphics.Rect, p graphics.Point) (float64, float64) {
	return p.X - bb.Min.X, bb.Max.Y - p.Y
}

func shift(p, off graphics.Point) graphics.Point {
	return graphics.Point{X: p.X + off.X, Y: p.Y + off.Y}
}

func strokeWidth(w float64) float64 {
	if w <= 0 {
		return defaultStrokeWidth
	}
	return w
}

// fmtF formats a coordinate with three decimals, dropping trailing
// zeros.
func fmtF(x float64) string {
	s := strconv.FormatFloat(x, 'f', 3, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}
