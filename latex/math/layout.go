// layout.go -
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

import (
	"github.com/seehuhn/typeset/latex/diag"
	"github.com/seehuhn/typeset/latex/doc"
)

// Layouter converts math node trees into boxes.
type Layouter struct {
	M        Metrics
	BaseSize float64

	reporter diag.Reporter
}

// NewLayouter returns a Layouter using the given metrics.  BaseSize is
// the surrounding font size in points.
func NewLayouter(m Metrics, baseSize float64) *Layouter {
	return &Layouter{
		M:        m,
		BaseSize: baseSize,
		reporter: diag.Log{},
	}
}

// SetReporter installs the reporter which receives layout
// diagnostics.
func (l *Layouter) SetReporter(r diag.Reporter) {
	l.reporter = r
}

// Layout typesets a formula.  Display selects display style instead
// of text style.
func (l *Layouter) Layout(n *doc.MathNode, display bool) *Box {
	ctx := StyledContext{Style: Text}
	if display {
		ctx.Style = Display
	}
	return l.layoutNode(n, ctx)
}

// The inter-atom spacing table from chapter 18 of the TeXbook.  Rows
// are the class of the left atom, columns of the right atom.  1, 2 and
// 3 select thin, medium and thick spaces; negative values are omitted
// in script and scriptscript styles.
var spacingTable = [8][8]int8{
	//        ord op bin rel open close punct inner
	/* ord   */ {0, 1, -2, -3, 0, 0, 0, -1},
	/* op    */ {1, 1, 0, -3, 0, 0, 0, -1},
	/* bin   */ {-2, -2, 0, 0, -2, 0, 0, -2},
	/* rel   */ {-3, -3, 0, 0, -3, 0, 0, -3},
	/* open  */ {0, 0, 0, 0, 0, 0, 0, 0},
	/* close */ {0, 1, -2, -3, 0, 0, 0, -1},
	/* punct */ {-1, -1, 0, -1, -1, -1, -1, -1},
	/* inner */ {-1, 1, -2, -3, -1, 0, -1, -1},
}

// spaceAmount converts a spacing table entry into points.  Thin,
// medium and thick spaces are 3, 4 and 5 mu, with 18 mu to an em.
func (l *Layouter) spaceAmount(entry int8, ctx StyledContext) float64 {
	if entry == 0 {
		return 0
	}
	if entry < 0 {
		if ctx.IsScript() {
			return 0
		}
		entry = -entry
	}
	mu := l.M.Quad() * l.size(ctx) / 18
	return float64(entry+2) * mu
}

func (l *Layouter) size(ctx StyledContext) float64 {
	return l.BaseSize * ctx.SizeFactor()
}

// effectiveClasses applies the binary atom conversion rules: a Bin
// atom at the start or end of the list, or adjacent to an operator-
// like atom, is treated as Ord.
func effectiveClasses(items []*doc.MathNode) []doc.MathClass {
	classes := make([]doc.MathClass, len(items))
	prev := doc.MathClass(-1)
	for i, item := range items {
		c := item.Class
		if c == doc.Bin {
			switch prev {
			case doc.MathClass(-1), doc.Bin, doc.Op, doc.Rel,
				doc.Open, doc.Punct:
				c = doc.Ord
			}
		}
		classes[i] = c
		prev = c
	}
	for i := len(items) - 1; i >= 0; i-- {
		c := classes[i]
		if c == doc.Bin {
			next := doc.MathClass(-1)
			if i+1 < len(items) {
				next = classes[i+1]
			}
			switch next {
			case doc.MathClass(-1), doc.Rel, doc.Close, doc.Punct:
				classes[i] = doc.Ord
			}
		}
	}
	return classes
}

func (l *Layouter) layoutNode(n *doc.MathNode, ctx StyledContext) *Box {
	if n == nil {
		return &Box{Kind: HBox}
	}
	switch n.Kind {
	case doc.MList:
		return l.layoutList(n.Items, ctx)
	case doc.Fraction:
		return l.withScripts(n, l.layoutFraction(n, ctx), ctx)
	case doc.Radical:
		return l.withScripts(n, l.layoutRadical(n, ctx), ctx)
	case doc.Fenced:
		return l.withScripts(n, l.layoutFenced(n, ctx), ctx)
	default:
		return l.withScripts(n, l.layoutNucleus(n, ctx), ctx)
	}
}

// layoutList typesets a horizontal list of atoms, inserting the
// inter-atom spacing.
func (l *Layouter) layoutList(items []*doc.MathNode, ctx StyledContext) *Box {
	classes := effectiveClasses(items)
	var boxes []*Box
	for i, item := range items {
		if i > 0 {
			entry := spacingTable[classes[i-1]][classes[i]]
			if s := l.spaceAmount(entry, ctx); s != 0 {
				boxes = append(boxes, Kern(s))
			}
		}
		boxes = append(boxes, l.layoutNode(item, ctx))
	}
	return HorizontalBox(boxes...)
}

// layoutNucleus typesets the symbol of an atom, without its scripts.
func (l *Layouter) layoutNucleus(n *doc.MathNode, ctx StyledContext) *Box {
	if n.Sym == "" {
		return &Box{Kind: HBox}
	}
	size := l.size(ctx)
	box := &Box{
		Kind:    GlyphBox,
		S:       n.Sym,
		Size:    size,
		Variant: n.Variant,
	}
	for _, r := range n.Sym {
		g, ok := l.M.Glyph(r)
		if !ok {
			l.reporter.Report(diag.Diagnostic{
				Severity: diag.Warning,
				Kind:     ErrMissingGlyph,
				Message: "no metrics for " + string(r) +
					", using fallback dimensions",
			})
			g = glyphXHeight
		}
		box.Width += g.Width * size
		if h := g.Height * size; h > box.Height {
			box.Height = h
		}
		if d := g.Depth * size; d > box.Depth {
			box.Depth = d
		}
	}
	return box
}

// withScripts attaches sub- and superscripts to a typeset nucleus,
// following rule 18 of appendix G.
func (l *Layouter) withScripts(n *doc.MathNode, nucleus *Box, ctx StyledContext) *Box {
	if n.Sub == nil && n.Sup == nil {
		return nucleus
	}

	size := l.size(ctx)
	theta := l.M.RuleThickness() * size
	xh := l.M.XHeight() * size

	if n.Class == doc.Op && n.Limits && ctx.Style == Display {
		return l.withLimits(n, nucleus, ctx)
	}

	var sup, sub *Box
	if n.Sup != nil {
		sup = l.layoutNode(n.Sup, ctx.Sup())
	}
	if n.Sub != nil {
		sub = l.layoutNode(n.Sub, ctx.Sub())
	}

	// shift amounts, up for the superscript and down for the
	// subscript
	u := 0.45 * size
	if ctx.Cramped {
		u = 0.35 * size
	}
	v := 0.15 * size
	if sup != nil {
		if min := sup.Depth + xh/4; min > u {
			u = min
		}
	}
	if sub != nil {
		if min := sub.Height - 4*xh/5; min > v {
			v = min
		}
	}
	if sup != nil && sub != nil {
		// enforce the minimum clearance between the scripts
		gap := (u - sup.Depth) - (sub.Height - v)
		if gap < 4*theta {
			v += 4*theta - gap
		}
	}

	scripts := &Box{Kind: HBox}
	if sup != nil {
		sup.Dx = nucleus.italic()
		sup.Dy = u
		scripts.Children = append(scripts.Children, sup)
		if w := sup.Dx + sup.Width; w > scripts.Width {
			scripts.Width = w
		}
		scripts.Height = sup.Height + u
	}
	if sub != nil {
		sub.Dy = -v
		scripts.Children = append(scripts.Children, sub)
		if sub.Width > scripts.Width {
			scripts.Width = sub.Width
		}
		scripts.Depth = sub.Depth + v
		if h := sub.Height - v; h > scripts.Height {
			scripts.Height = h
		}
	}
	scriptSize := l.size(ctx.Sup())
	return HorizontalBox(nucleus, scripts, Kern(scriptSize/6))
}

// withLimits places the scripts of a large operator above and below
// the nucleus.
func (l *Layouter) withLimits(n *doc.MathNode, nucleus *Box, ctx StyledContext) *Box {
	size := l.size(ctx)
	theta := l.M.RuleThickness() * size

	res := &Box{Kind: HBox}
	width := nucleus.Width
	var sup, sub *Box
	if n.Sup != nil {
		sup = l.layoutNode(n.Sup, ctx.Sup())
		if sup.Width > width {
			width = sup.Width
		}
	}
	if n.Sub != nil {
		sub = l.layoutNode(n.Sub, ctx.Sub())
		if sub.Width > width {
			width = sub.Width
		}
	}

	nucleus.Dx = (width - nucleus.Width) / 2
	res.Children = append(res.Children, nucleus)
	res.Width = width
	res.Height = nucleus.Height
	res.Depth = nucleus.Depth

	gap := 3 * theta
	if sup != nil {
		sup.Dx = (width - sup.Width) / 2
		sup.Dy = nucleus.Height + gap + sup.Depth
		res.Children = append(res.Children, sup)
		res.Height = sup.Dy + sup.Height
	}
	if sub != nil {
		sub.Dx = (width - sub.Width) / 2
		sub.Dy = -(nucleus.Depth + gap + sub.Height)
		res.Children = append(res.Children, sub)
		res.Depth = -sub.Dy + sub.Depth
	}
	return res
}

// layoutFraction stacks the numerator over the denominator, centred
// on the math axis.  BarThickness 0 gives \atop.
func (l *Layouter) layoutFraction(n *doc.MathNode, ctx StyledContext) *Box {
	size := l.size(ctx)
	theta := n.BarThickness * l.M.RuleThickness() * size
	axis := l.M.Axis() * size

	num := l.layoutNode(n.Num, ctx.Num())
	den := l.layoutNode(n.Den, ctx.Denom())

	// default shifts
	var u, v float64
	if ctx.Style == Display {
		u = 0.677 * size
		v = 0.686 * size
	} else {
		u = 0.394 * size
		v = 0.345 * size
	}

	// minimum clearance between the parts and the bar
	clear := theta
	if ctx.Style == Display {
		clear = 3 * theta
	}
	if theta == 0 {
		clear = 0.7 * l.M.RuleThickness() * size
		if ctx.Style == Display {
			clear = 2 * clear
		}
		// clearance is between the parts directly
		gap := (u - num.Depth) - (den.Height - v)
		if gap < clear {
			d := (clear - gap) / 2
			u += d
			v += d
		}
	} else {
		if gap := (u - num.Depth) - (axis + theta/2); gap < clear {
			u += clear - gap
		}
		if gap := (axis - theta/2) - (den.Height - v); gap < clear {
			v += clear - gap
		}
	}

	pad := 0.12 * size
	width := num.Width
	if den.Width > width {
		width = den.Width
	}
	width += 2 * pad

	res := &Box{Kind: HBox, Width: width}
	num.Dx = (width - num.Width) / 2
	num.Dy = u
	den.Dx = (width - den.Width) / 2
	den.Dy = -v
	res.Children = append(res.Children, num, den)
	if theta > 0 {
		bar := Rule(width, theta/2, theta/2)
		bar.Dy = axis
		res.Children = append(res.Children, bar)
	}
	res.Height = u + num.Height
	res.Depth = v + den.Depth
	return res
}

// layoutRadical draws a radical sign and rule over the radicand.
func (l *Layouter) layoutRadical(n *doc.MathNode, ctx StyledContext) *Box {
	size := l.size(ctx)
	theta := l.M.RuleThickness() * size

	rad := l.layoutNode(n.Radicand, ctx.CrampedVariant())

	psi := theta + theta/4
	if ctx.Style == Display {
		psi = theta + l.M.XHeight()*size/4
	}

	signHeight := rad.Height + psi + theta
	sign := &Box{
		Kind:   GlyphBox,
		S:      "√",
		Size:   size,
		Width:  0.72 * size,
		Height: signHeight,
		Depth:  rad.Depth,
	}

	bar := Rule(rad.Width, theta, 0)
	bar.Dy = rad.Height + psi

	res := &Box{Kind: HBox}
	x := 0.0
	if n.Degree != nil {
		deg := l.layoutNode(n.Degree, StyledContext{Style: ScriptScript})
		deg.Dy = 0.6 * signHeight
		res.Children = append(res.Children, deg)
		x = deg.Width + 0.1*size
		deg.Dx = 0
	}
	sign.Dx = x
	x += sign.Width
	bar.Dx = x
	rad.Dx = x
	res.Children = append(res.Children, sign, bar, rad)
	res.Width = x + rad.Width
	res.Height = rad.Height + psi + theta
	res.Depth = rad.Depth
	return res
}

// layoutFenced typesets \left...\right material, stretching the
// delimiters to cover the enclosed formula.
func (l *Layouter) layoutFenced(n *doc.MathNode, ctx StyledContext) *Box {
	size := l.size(ctx)
	axis := l.M.Axis() * size

	inner := l.layoutList(n.Items, ctx)

	// half-extent of the content measured from the axis
	delta := inner.Height - axis
	if d := inner.Depth + axis; d > delta {
		delta = d
	}

	var boxes []*Box
	if d := l.delimiter(n.Left, delta, axis, size); d != nil {
		boxes = append(boxes, d)
	}
	boxes = append(boxes, inner)
	if d := l.delimiter(n.Right, delta, axis, size); d != nil {
		boxes = append(boxes, d)
	}
	return HorizontalBox(boxes...)
}

// delimiter builds a delimiter glyph stretched to cover delta on both
// sides of the axis.  The empty string, from \left., gives no
// delimiter.
func (l *Layouter) delimiter(sym string, delta, axis, size float64) *Box {
	if sym == "" || sym == "." {
		return nil
	}
	g, ok := l.M.Glyph([]rune(sym)[0])
	if !ok {
		l.reporter.Report(diag.Diagnostic{
			Severity: diag.Warning,
			Kind:     ErrMissingGlyph,
			Message:  "no metrics for delimiter " + sym,
		})
		g = glyphFence
	}

	// never smaller than the delimiter at its natural size
	if natural := (g.Height + g.Depth) * size / 2; delta < natural {
		delta = natural
	}
	return &Box{
		Kind:   GlyphBox,
		S:      sym,
		Size:   size,
		Width:  g.Width * size,
		Height: axis + delta,
		Depth:  delta - axis,
	}
}

// italic returns the italic correction to apply before a superscript.
func (b *Box) italic() float64 {
	if b.Kind == GlyphBox {
		return 0.03 * b.Size
	}
	return 0
}
