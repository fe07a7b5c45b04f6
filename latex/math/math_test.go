// math_test.go -
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
	"errors"
	"testing"

	"github.com/seehuhn/typeset/latex/diag"
	"github.com/seehuhn/typeset/latex/doc"
)

func newTestLayouter() (*Layouter, *diag.List) {
	l := NewLayouter(Builtin(), 10)
	list := &diag.List{}
	l.SetReporter(list)
	return l, list
}

// kerns collects the widths of the kern boxes in an hbox, in order.
func kerns(b *Box) []float64 {
	var res []float64
	for _, c := range b.Children {
		if c.Kind == KernBox {
			res = append(res, c.Width)
		}
	}
	return res
}

func TestBinarySpacing(t *testing.T) {
	l, _ := newTestLayouter()

	// a + b: medium spaces on both sides of the binary operator
	formula := doc.NewMList([]*doc.MathNode{
		doc.NewAtom("a", doc.Ord),
		doc.NewAtom("+", doc.Bin),
		doc.NewAtom("b", doc.Ord),
	})
	box := l.Layout(formula, false)
	medium := 4.0 * 10 / 18
	got := kerns(box)
	if len(got) != 2 || !almost(got[0], medium) || !almost(got[1], medium) {
		t.Errorf("kerns %v, expected two medium spaces of %g", got, medium)
	}
}

func TestBinConversion(t *testing.T) {
	l, _ := newTestLayouter()

	// a leading minus sign is ordinary, not binary
	formula := doc.NewMList([]*doc.MathNode{
		doc.NewAtom("−", doc.Bin),
		doc.NewAtom("b", doc.Ord),
	})
	box := l.Layout(formula, false)
	if got := kerns(box); len(got) != 0 {
		t.Errorf("leading minus spaced as binary: kerns %v", got)
	}

	// after a relation the minus is ordinary as well
	formula = doc.NewMList([]*doc.MathNode{
		doc.NewAtom("a", doc.Ord),
		doc.NewAtom("=", doc.Rel),
		doc.NewAtom("−", doc.Bin),
		doc.NewAtom("b", doc.Ord),
	})
	box = l.Layout(formula, false)
	thick := 5.0 * 10 / 18
	got := kerns(box)
	if len(got) != 2 || !almost(got[0], thick) || !almost(got[1], thick) {
		t.Errorf("kerns %v, expected two thick spaces of %g", got, thick)
	}
}

func TestScriptStyleSuppression(t *testing.T) {
	l, _ := newTestLayouter()

	// inside a superscript, the medium spaces around + vanish
	sup := doc.NewMList([]*doc.MathNode{
		doc.NewAtom("n", doc.Ord),
		doc.NewAtom("+", doc.Bin),
		doc.NewAtom("1", doc.Ord),
	})
	atom := doc.NewAtom("x", doc.Ord)
	atom.Sup = sup
	box := l.Layout(atom, false)

	var supBox *Box
	box.Walk(func(b *Box) {
		if b.Kind == HBox && len(b.Children) == 3 {
			supBox = b
		}
	})
	if supBox == nil {
		t.Fatal("superscript list not found")
	}
	if got := kerns(supBox); len(got) != 0 {
		t.Errorf("medium spaces not suppressed in script style: %v", got)
	}
}

func TestScriptPlacement(t *testing.T) {
	l, _ := newTestLayouter()

	atom := doc.NewAtom("x", doc.Ord)
	atom.Sup = doc.NewAtom("2", doc.Ord)
	atom.Sub = doc.NewAtom("i", doc.Ord)
	box := l.Layout(atom, false)

	var sup, sub *Box
	box.Walk(func(b *Box) {
		if b.Kind == GlyphBox {
			switch b.S {
			case "2":
				sup = b
			case "i":
				sub = b
			}
		}
	})
	if sup == nil || sub == nil {
		t.Fatal("scripts not found in box tree")
	}
	if sup.Dy <= 0 {
		t.Errorf("superscript not raised: dy = %g", sup.Dy)
	}
	if sub.Dy >= 0 {
		t.Errorf("subscript not lowered: dy = %g", sub.Dy)
	}

	// scripts are set at the next smaller size
	if !almost(sup.Size, 7) || !almost(sub.Size, 7) {
		t.Errorf("script sizes %g, %g, expected 7", sup.Size, sub.Size)
	}

	// minimum clearance between the two scripts
	theta := Builtin().RuleThickness() * 10
	gap := (sup.Dy - sup.Depth) - (sub.Dy + sub.Height)
	if gap < 4*theta-1e-9 {
		t.Errorf("script clearance %g below minimum %g", gap, 4*theta)
	}
}

func TestFraction(t *testing.T) {
	l, _ := newTestLayouter()

	frac := &doc.MathNode{
		Kind:         doc.Fraction,
		Class:        doc.Inner,
		Num:          doc.NewAtom("1", doc.Ord),
		Den:          doc.NewAtom("2", doc.Ord),
		BarThickness: 1,
	}
	box := l.Layout(frac, true)

	var bar *Box
	box.Walk(func(b *Box) {
		if b.Kind == RuleBox {
			bar = b
		}
	})
	if bar == nil {
		t.Fatal("fraction bar missing")
	}
	axis := Builtin().Axis() * 10
	if !almost(bar.Dy, axis) {
		t.Errorf("bar at %g, expected the axis height %g", bar.Dy, axis)
	}

	// numerator above the bar, denominator below
	num, den := box.Children[0], box.Children[1]
	if num.Dy-num.Depth <= axis {
		t.Errorf("numerator overlaps the bar")
	}
	if den.Dy+den.Height >= axis {
		t.Errorf("denominator overlaps the bar")
	}
}

func TestAtop(t *testing.T) {
	l, _ := newTestLayouter()

	frac := &doc.MathNode{
		Kind:  doc.Fraction,
		Class: doc.Inner,
		Num:   doc.NewAtom("n", doc.Ord),
		Den:   doc.NewAtom("k", doc.Ord),
	}
	box := l.Layout(frac, false)
	box.Walk(func(b *Box) {
		if b.Kind == RuleBox {
			t.Error("\\atop must not draw a bar")
		}
	})
}

func TestFencedDelimiters(t *testing.T) {
	l, _ := newTestLayouter()

	tall := &doc.MathNode{
		Kind:         doc.Fraction,
		Class:        doc.Inner,
		Num:          doc.NewAtom("1", doc.Ord),
		Den:          doc.NewAtom("2", doc.Ord),
		BarThickness: 1,
	}
	fenced := &doc.MathNode{
		Kind:  doc.Fenced,
		Class: doc.Inner,
		Items: []*doc.MathNode{tall},
		Left:  "(",
		Right: ")",
	}
	box := l.Layout(fenced, true)

	if len(box.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(box.Children))
	}
	left, inner, right := box.Children[0], box.Children[1], box.Children[2]
	if left.Height < inner.Height || left.Depth < inner.Depth {
		t.Errorf("left delimiter %g+%g does not cover content %g+%g",
			left.Height, left.Depth, inner.Height, inner.Depth)
	}
	if right.S != ")" {
		t.Errorf("right delimiter %q", right.S)
	}

	// \left. produces no delimiter box
	fenced.Left = "."
	box = l.Layout(fenced, true)
	if len(box.Children) != 2 {
		t.Errorf("\\left. still produced a box")
	}
}

func TestMissingGlyph(t *testing.T) {
	l, list := newTestLayouter()

	box := l.Layout(doc.NewAtom("☃", doc.Ord), false)
	if box.Width <= 0 {
		t.Error("fallback box has no width")
	}
	found := false
	for _, d := range list.Items {
		if errors.Is(d.Kind, ErrMissingGlyph) {
			found = true
		}
	}
	if !found {
		t.Error("missing glyph not reported")
	}
}

func TestOperatorLimits(t *testing.T) {
	l, _ := newTestLayouter()

	sum := doc.NewAtom("∑", doc.Op)
	sum.Limits = true
	sum.Sup = doc.NewAtom("n", doc.Ord)
	sum.Sub = doc.NewAtom("k", doc.Ord)

	// display style: limits above and below
	box := l.Layout(sum, true)
	var sup, sub *Box
	box.Walk(func(b *Box) {
		if b.Kind == GlyphBox {
			switch b.S {
			case "n":
				sup = b
			case "k":
				sub = b
			}
		}
	})
	if sup == nil || sub == nil {
		t.Fatal("limits not found")
	}
	if sup.Dy-sup.Depth <= 0.75*10 {
		t.Errorf("upper limit not above the operator: dy = %g", sup.Dy)
	}
	if sub.Dy+sub.Height >= -0.25*10 {
		t.Errorf("lower limit not below the operator: dy = %g", sub.Dy)
	}
}

func almost(a, b float64) bool {
	d := a - b
	return d > -1e-9 && d < 1e-9
}
