// htmlout_test.go -
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
	"bytes"
	"strings"
	"testing"

	"github.com/seehuhn/typeset/latex/doc"
	"github.com/seehuhn/typeset/latex/graphics"
)

func render(t *testing.T, root *doc.Node, opts *Options) string {
	t.Helper()
	buf := &bytes.Buffer{}
	err := Write(buf, root, opts)
	if err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func document(children ...*doc.Node) *doc.Node {
	root := doc.NewNode(doc.Document)
	root.Append(children...)
	return root
}

func par(children ...*doc.Node) *doc.Node {
	p := doc.NewNode(doc.Paragraph)
	p.Append(children...)
	return p
}

func TestParagraph(t *testing.T) {
	root := document(par(doc.NewText("Hello, world!")))
	out := render(t, root, nil)
	if out != "<p>Hello, world!</p>\n" {
		t.Errorf("wrong output %q", out)
	}
}

func TestEscaping(t *testing.T) {
	root := document(par(doc.NewText("a < b & c")))
	out := render(t, root, nil)
	if out != "<p>a &lt; b &amp; c</p>\n" {
		t.Errorf("wrong output %q", out)
	}
}

func TestLineWrapping(t *testing.T) {
	words := strings.Repeat("lorem ipsum dolor sit amet ", 10)
	root := document(par(doc.NewText(strings.TrimSpace(words))))
	out := render(t, root, nil)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected wrapped output, got %d lines", len(lines))
	}
	for i, line := range lines {
		if len(line) > outputLineWidth {
			t.Errorf("line %d too long (%d chars): %q",
				i, len(line), line)
		}
	}
	if !strings.HasPrefix(lines[0], "<p>lorem") {
		t.Errorf("wrong first line %q", lines[0])
	}
	last := lines[len(lines)-1]
	if !strings.HasSuffix(last, "</p>") {
		t.Errorf("wrong last line %q", last)
	}
}

func TestNoBreakSpan(t *testing.T) {
	root := document(par(doc.NewText("see pp. 5 here")))
	out := render(t, root, nil)
	want := `<p>see <span class="latex-nw">pp.` + " " +
		`5</span> here</p>` + "\n"
	if out != want {
		t.Errorf("wrong output %q", out)
	}
}

func TestInlineStyles(t *testing.T) {
	type testCase struct {
		kind doc.Kind
		want string
	}
	cases := []testCase{
		{doc.Emph, "<p>a <em>b</em> c</p>\n"},
		{doc.Bold, "<p>a <b>b</b> c</p>\n"},
		{doc.Mono, "<p>a <code>b</code> c</p>\n"},
		{doc.SmallCaps,
			"<p>a <span class=\"latex-smallcaps\">b</span> c</p>\n"},
	}
	for _, test := range cases {
		styled := doc.NewNode(test.kind)
		styled.Append(doc.NewText("b"))
		root := document(par(
			doc.NewText("a "), styled, doc.NewText(" c")))
		out := render(t, root, nil)
		if out != test.want {
			t.Errorf("%s: wrong output %q", test.kind, out)
		}
	}
}

func TestSectionHeading(t *testing.T) {
	sec := doc.NewNode(doc.Section)
	sec.Level = 1
	sec.Number = "2"
	sec.Append(par(doc.NewText("Results")))
	root := document(sec, par(doc.NewText("Text.")))
	out := render(t, root, nil)

	want := `<h2 class="latex-section"><span class="latex-secno">2</span> ` +
		"Results</h2>\n<p>Text.</p>\n"
	if out != want {
		t.Errorf("wrong output %q", out)
	}
}

func TestLists(t *testing.T) {
	item := func(s string) *doc.Node {
		it := doc.NewNode(doc.Item)
		it.Append(par(doc.NewText(s)))
		return it
	}

	list := doc.NewNode(doc.List)
	list.ListKind = doc.Ordered
	list.Append(item("one"), item("two"))
	out := render(t, document(list), nil)
	want := "<ol class=\"latex-list\">\n" +
		"<li>\n<p>one</p>\n</li>\n" +
		"<li>\n<p>two</p>\n</li>\n" +
		"</ol>\n"
	if out != want {
		t.Errorf("wrong output %q", out)
	}

	dl := doc.NewNode(doc.List)
	dl.ListKind = doc.Description
	it := doc.NewNode(doc.Item)
	it.Term = "gnu"
	it.Append(par(doc.NewText("a large animal")))
	dl.Append(it)
	out = render(t, document(dl), nil)
	want = "<dl class=\"latex-list\">\n" +
		"<dt>gnu</dt>\n<dd>\n<p>a large animal</p>\n</dd>\n" +
		"</dl>\n"
	if out != want {
		t.Errorf("wrong output %q", out)
	}
}

func TestTable(t *testing.T) {
	cell := func(s string) *doc.Node {
		c := doc.NewNode(doc.Cell)
		c.Append(par(doc.NewText(s)))
		return c
	}
	row := doc.NewNode(doc.Row)
	row.Append(cell("a"), cell("b"))
	table := doc.NewNode(doc.Table)
	table.ColSpec = "lr"
	table.Append(row)

	out := render(t, document(table), nil)
	want := "<table class=\"latex-table\">\n" +
		"<tr>\n" +
		"<td class=\"latex-al\">a</td>\n" +
		"<td class=\"latex-ar\">b</td>\n" +
		"</tr>\n" +
		"</table>\n"
	if out != want {
		t.Errorf("wrong output %q", out)
	}
}

func TestVerbatimNotWrapped(t *testing.T) {
	verb := doc.NewNode(doc.Verbatim)
	verb.Text = "for i := range xs {\n\tsum += xs[i]\n}"
	out := render(t, document(verb), nil)
	if !strings.Contains(out, "<pre class=\"latex-verbatim\">for i := range xs {\n\tsum += xs[i]\n}</pre>") {
		t.Errorf("wrong output %q", out)
	}
}

func TestRefAndAnchor(t *testing.T) {
	anchor := doc.NewNode(doc.Anchor)
	anchor.Label = "eq:euler"
	ref := doc.NewNode(doc.Ref)
	ref.Target = "eq:euler"
	ref.Append(doc.NewText("1"))
	root := document(par(anchor, doc.NewText("see "), ref))
	out := render(t, root, nil)

	if !strings.Contains(out, `<span id="eq:euler"></span>`) {
		t.Errorf("missing anchor in %q", out)
	}
	if !strings.Contains(out, `<a class="latex-ref" href="#eq:euler">1</a>`) {
		t.Errorf("missing reference in %q", out)
	}
}

func TestRefID(t *testing.T) {
	type testCase struct {
		in, out string
	}
	cases := []testCase{
		{"simple", "simple"},
		{"eq:euler", "eq:euler"},
		{"sec.1", "sec.1"},
		{"a b", "a-b"},
		{"a  +  b", "a-b"},
		{"1st", "x1st"},
		{"", "x"},
		{"...", "x..."},
	}
	for _, test := range cases {
		if got := refID(test.in); got != test.out {
			t.Errorf("refID(%q) == %q, expected %q",
				test.in, got, test.out)
		}
	}
}

func TestStandalone(t *testing.T) {
	sec := doc.NewNode(doc.Section)
	sec.Level = 1
	sec.Number = "1"
	sec.Append(par(doc.NewText("Intro")))
	root := document(sec)

	out := render(t, root, &Options{
		Standalone: true,
		IncludeCSS: true,
	})

	for _, part := range []string{
		"<!DOCTYPE html>",
		`<meta charset="utf-8"/>`,
		`content="urn:uuid:`,
		"<title>Intro</title>",
		"<style>",
		".latex-nw {",
		"</body>",
		"</html>",
	} {
		if !strings.Contains(out, part) {
			t.Errorf("missing %q in output", part)
		}
	}

	// the identifier only depends on the document text
	out2 := render(t, root, &Options{Standalone: true})
	id1 := extractID(out)
	id2 := extractID(out2)
	if id1 == "" || id1 != id2 {
		t.Errorf("unstable identifiers %q and %q", id1, id2)
	}
}

func extractID(out string) string {
	_, rest, ok := strings.Cut(out, "urn:uuid:")
	if !ok {
		return ""
	}
	id, _, ok := strings.Cut(rest, `"`)
	if !ok {
		return ""
	}
	return id
}

func TestNoPrettyPrint(t *testing.T) {
	words := strings.Repeat("lorem ipsum dolor sit amet ", 10)
	root := document(par(doc.NewText(strings.TrimSpace(words))))
	out := render(t, root, &Options{})

	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected a single line, got %q", out)
	}
	if !strings.HasPrefix(out, "<p>lorem") ||
		!strings.HasSuffix(out, "</p>\n") {
		t.Errorf("malformed output %q", out)
	}
}

func TestMathML(t *testing.T) {
	sup := doc.NewAtom("x", doc.Ord)
	sup.Sup = doc.NewAtom("2", doc.Ord)

	sum := doc.NewAtom("∑", doc.Op)
	sum.Limits = true
	sum.Sub = doc.NewAtom("i", doc.Ord)
	sum.Sup = doc.NewAtom("n", doc.Ord)

	sin := doc.NewAtom("sin", doc.Op)
	sin.Variant = "rm"

	testCases := []struct {
		in  *doc.MathNode
		out string
	}{
		{doc.NewAtom("x", doc.Ord), "<mi>x</mi>"},
		{doc.NewAtom("2", doc.Ord), "<mn>2</mn>"},
		{doc.NewAtom("<", doc.Rel), "<mo>&lt;</mo>"},
		{sin, `<mi mathvariant="normal">sin</mi>`},
		{sup, "<msup><mi>x</mi><mn>2</mn></msup>"},
		{sum, "<munderover><mo>∑</mo><mi>i</mi><mi>n</mi></munderover>"},
		{&doc.MathNode{
			Kind:         doc.Fraction,
			Num:          doc.NewAtom("1", doc.Ord),
			Den:          doc.NewAtom("2", doc.Ord),
			BarThickness: 0.4,
		}, "<mfrac><mn>1</mn><mn>2</mn></mfrac>"},
		{&doc.MathNode{
			Kind: doc.Fraction,
			Num:  doc.NewAtom("n", doc.Ord),
			Den:  doc.NewAtom("k", doc.Ord),
		}, `<mfrac linethickness="0"><mi>n</mi><mi>k</mi></mfrac>`},
		{&doc.MathNode{
			Kind:     doc.Radical,
			Radicand: doc.NewAtom("2", doc.Ord),
		}, "<msqrt><mn>2</mn></msqrt>"},
		{&doc.MathNode{
			Kind:     doc.Radical,
			Radicand: doc.NewAtom("x", doc.Ord),
			Degree:   doc.NewAtom("3", doc.Ord),
		}, "<mroot><mi>x</mi><mn>3</mn></mroot>"},
		{&doc.MathNode{
			Kind:  doc.Fenced,
			Left:  "(",
			Right: ")",
			Items: []*doc.MathNode{doc.NewAtom("a", doc.Ord)},
		}, `<mrow><mo fence="true">(</mo><mi>a</mi>` +
			`<mo fence="true">)</mo></mrow>`},
	}
	for i, test := range testCases {
		buf := &strings.Builder{}
		mathML(buf, test.in)
		if got := buf.String(); got != test.out {
			t.Errorf("test %d: got %q, expected %q", i, got, test.out)
		}
	}
}

func TestMathMLOutput(t *testing.T) {
	m := doc.NewNode(doc.InlineMath)
	m.Math = doc.NewAtom("x", doc.Ord)
	d := doc.NewNode(doc.DisplayMath)
	d.Math = doc.NewAtom("y", doc.Ord)
	d.Number = "1"
	root := document(par(m), d)
	out := render(t, root, &Options{MathFormat: MathML, PrettyPrint: true})

	if !strings.Contains(out, `<math xmlns="http://www.w3.org/1998/`+
		`Math/MathML"><mi>x</mi></math>`) {
		t.Errorf("missing inline formula in %q", out)
	}
	if !strings.Contains(out, `<math xmlns="http://www.w3.org/1998/`+
		`Math/MathML" display="block"><mi>y</mi></math>`) {
		t.Errorf("missing display formula in %q", out)
	}
	if strings.Contains(out, "<svg") {
		t.Errorf("unexpected svg element in %q", out)
	}
}

func TestInlineFormula(t *testing.T) {
	m := doc.NewNode(doc.InlineMath)
	m.Math = doc.NewAtom("x", doc.Ord)
	m.Math.Variant = "it"
	root := document(par(m))
	out := render(t, root, nil)

	if !strings.Contains(out, `<svg class="latex-math"`) {
		t.Errorf("missing svg element in %q", out)
	}
	if !strings.Contains(out, ">x</text>") {
		t.Errorf("missing glyph in %q", out)
	}
	if !strings.Contains(out, `font-style="italic"`) {
		t.Errorf("letter not italic in %q", out)
	}
}

func TestFormulaDedup(t *testing.T) {
	mk := func() *doc.Node {
		m := doc.NewNode(doc.InlineMath)
		m.Math = doc.NewAtom("y", doc.Ord)
		return m
	}
	root := document(par(mk(), doc.NewText(" and "), mk()))
	out := render(t, root, nil)

	if n := strings.Count(out, ">y</text>"); n != 1 {
		t.Errorf("expected one glyph copy, got %d", n)
	}
	if !strings.Contains(out, `<use href="#g`) {
		t.Errorf("missing reuse reference in %q", out)
	}
}

func TestDisplayMathNumber(t *testing.T) {
	m := doc.NewNode(doc.DisplayMath)
	m.Math = doc.NewAtom("z", doc.Ord)
	m.Number = "3"
	out := render(t, document(m), nil)

	if !strings.Contains(out, `<div class="latex-displaymath">`) {
		t.Errorf("missing display block in %q", out)
	}
	if !strings.Contains(out, `<span class="latex-eqno">(3)</span>`) {
		t.Errorf("missing equation number in %q", out)
	}
}

func TestPictureSVG(t *testing.T) {
	pic := &graphics.Picture{
		BBox: graphics.Rect{Max: graphics.Point{X: 40, Y: 20}},
	}
	pic.Add(
		&graphics.Line{To: graphics.Point{X: 40}},
		&graphics.Circle{
			Center: graphics.Point{X: 10, Y: 10},
			Radius: 2,
		},
	)
	g := doc.NewNode(doc.Graphic)
	g.Pic = pic
	out := render(t, document(par(g)), nil)

	if !strings.Contains(out, `viewBox="0 0 40 20"`) {
		t.Errorf("wrong viewport in %q", out)
	}
	// the y axis is flipped, so the line along y=0 ends up at y=20
	if !strings.Contains(out, `<line x1="0" y1="20" x2="40" y2="20"`) {
		t.Errorf("missing or misplaced line in %q", out)
	}
	if !strings.Contains(out, `<circle cx="10" cy="10" r="2"`) {
		t.Errorf("missing or misplaced circle in %q", out)
	}
}

func TestPathSVG(t *testing.T) {
	b := &graphics.PathBuilder{}
	b.MoveTo(graphics.Point{X: 0, Y: 0})
	b.LineTo(graphics.Point{X: 10, Y: 20})
	path := b.Use(true, false, 0)

	pic := &graphics.Picture{}
	pic.Add(path)
	g := doc.NewNode(doc.Graphic)
	g.Pic = pic
	out := render(t, document(par(g)), nil)

	if !strings.Contains(out, `d="M 0 20 L 10 0"`) {
		t.Errorf("wrong path data in %q", out)
	}
	if !strings.Contains(out, `stroke="black"`) {
		t.Errorf("path not stroked in %q", out)
	}
}

func TestFmtF(t *testing.T) {
	type testCase struct {
		in  float64
		out string
	}
	cases := []testCase{
		{0, "0"},
		{1, "1"},
		{1.5, "1.5"},
		{1.25, "1.25"},
		{1.0 / 3.0, "0.333"},
		{-0.0001, "0"},
		{-2.5, "-2.5"},
	}
	for _, test := range cases {
		if got := fmtF(test.in); got != test.out {
			t.Errorf("fmtF(%g) == %q, expected %q",
				test.in, got, test.out)
		}
	}
}
