// htmlout.go -
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

// Package htmlout renders the document tree as HTML.  Formulas and
// drawings become inline SVG, so the output needs no external files.
package htmlout

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/seehuhn/typeset/latex/diag"
	"github.com/seehuhn/typeset/latex/doc"
	"github.com/seehuhn/typeset/latex/math"
)

const cssPrefix = "latex-"

const noBreakSpace = " " // U+00A0

// baseNameSpaceURL identifies documents produced by this package.  The
// document identifier in standalone mode is derived from it and from
// the document text, so that unchanged input gives an unchanged id.
const baseNameSpaceURL = "https://seehuhn.de/typeset"

// MathFormat selects the representation of formulas in the output.
type MathFormat int

const (
	// InlineSVG typesets formulas with the layout engine and embeds
	// the result as inline SVG.
	InlineSVG MathFormat = iota

	// MathML writes the formula structure as MathML elements, leaving
	// the layout to the browser.
	MathML
)

// Options control the generated HTML.
type Options struct {
	// Standalone emits a complete HTML document instead of a body
	// fragment.
	Standalone bool

	// Title is used for the <title> element in standalone mode.  When
	// empty, the text of the first section heading is used instead.
	Title string

	// IncludeCSS embeds the default style sheet in standalone mode.
	IncludeCSS bool

	// PrettyPrint wraps paragraph text to 79 columns.  When false,
	// each block is written on a single line.
	PrettyPrint bool

	// MathFormat selects how formulas are written.
	MathFormat MathFormat

	// BaseSize is the font size for formulas, in TeX points.  Zero
	// selects 10pt.
	BaseSize float64

	// Metrics provides the glyph dimensions for formula layout.  When
	// nil, the builtin table is used.
	Metrics math.Metrics

	// Reporter receives formula layout diagnostics.
	Reporter diag.Reporter
}

// Write renders the document tree rooted at root to out.
func Write(out io.Writer, root *doc.Node, opts *Options) error {
	if opts == nil {
		opts = &Options{PrettyPrint: true}
	}
	size := opts.BaseSize
	if size <= 0 {
		size = 10
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = math.Builtin()
	}
	layout := math.NewLayouter(metrics, size)
	if opts.Reporter != nil {
		layout.SetReporter(opts.Reporter)
	}

	width := 0
	if opts.PrettyPrint {
		width = outputLineWidth
	}
	e := &emitter{
		w:    newWrapWriter(out, width),
		opts: opts,
		svg: &svgRenderer{
			layout: layout,
			seen:   make(map[string]string),
		},
	}
	if opts.Standalone {
		e.writeHeader(root)
	}
	if err := e.blocks(root.Children); err != nil {
		return err
	}
	if opts.Standalone {
		e.w.WriteLine("</body>")
		e.w.WriteLine("</html>")
	}
	return e.w.Flush()
}

type emitter struct {
	w    *wrapWriter
	opts *Options
	svg  *svgRenderer
}

func (e *emitter) writeHeader(root *doc.Node) {
	title := e.opts.Title
	if title == "" {
		title = firstHeading(root)
	}
	ns := uuid.NewSHA1(uuid.NameSpaceURL, []byte(baseNameSpaceURL))
	id := uuid.NewSHA1(ns, []byte(root.PlainText()))

	w := e.w
	w.WriteLine("<!DOCTYPE html>")
	w.WriteLine("<html>")
	w.WriteLine("<head>")
	w.WriteLine(`<meta charset="utf-8"/>`)
	w.WriteLine(`<meta name="identifier" content="urn:uuid:` +
		id.String() + `"/>`)
	if title != "" {
		w.WriteLine("<title>" + escape(title) + "</title>")
	}
	if e.opts.IncludeCSS {
		w.WriteLine("<style>")
		w.WriteLine(strings.TrimSpace(defaultCSS))
		w.WriteLine("</style>")
	}
	w.WriteLine("</head>")
	w.WriteLine("<body>")
}

// firstHeading returns the text of the first section heading, for use
// as a fallback document title.
func firstHeading(root *doc.Node) string {
	var title string
	root.Walk(func(n *doc.Node) {
		if title == "" && n.Kind == doc.Section {
			title = n.PlainText()
		}
	})
	return title
}

func (e *emitter) blocks(nodes []*doc.Node) error {
	for _, n := range nodes {
		if err := e.block(n); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) block(n *doc.Node) error {
	switch n.Kind {
	case doc.Document:
		return e.blocks(n.Children)

	case doc.Paragraph:
		e.w.BeginPar("<p>", "</p>")
		err := e.inlines(n.Children)
		e.w.EndPar()
		return err

	case doc.Section:
		return e.section(n)

	case doc.List:
		return e.list(n)

	case doc.Table:
		return e.table(n)

	case doc.Quotation:
		e.w.WriteLine(`<blockquote class="` + cssPrefix + `quote">`)
		if err := e.blocks(n.Children); err != nil {
			return err
		}
		e.w.WriteLine("</blockquote>")

	case doc.Center:
		e.w.WriteLine(`<div class="` + cssPrefix + `center">`)
		if err := e.blocks(n.Children); err != nil {
			return err
		}
		e.w.WriteLine("</div>")

	case doc.Verbatim:
		e.w.WriteLine(`<pre class="` + cssPrefix + `verbatim">` +
			escape(n.Text) + "</pre>")

	case doc.Rule:
		e.w.WriteLine("<hr/>")

	case doc.DisplayMath:
		e.displayMath(n)

	default:
		return fmt.Errorf("unexpected %s node at block level", n.Kind)
	}
	return nil
}

func (e *emitter) section(n *doc.Node) error {
	level := n.Level
	if level < 1 {
		level = 1
	} else if level > 3 {
		level = 3
	}
	tag := "h" + strconv.Itoa(level+1)

	e.w.BeginPar("<"+tag+` class="`+cssPrefix+`section">`, "</"+tag+">")
	if n.Label != "" {
		e.w.WriteString(`<span id="` + refID(n.Label) + `"></span>`)
	}
	if n.Number != "" {
		e.w.WriteString(`<span class="` + cssPrefix + `secno">` +
			escape(n.Number) + "</span>")
		e.w.EndWord()
	}
	err := e.inlineBlocks(n.Children)
	e.w.EndPar()
	return err
}

// inlineBlocks renders block children as inline material, joining the
// paragraphs of a heading or table cell.
func (e *emitter) inlineBlocks(children []*doc.Node) error {
	for i, c := range children {
		if i > 0 {
			e.w.EndWord()
		}
		var err error
		if c.Kind == doc.Paragraph {
			err = e.inlines(c.Children)
		} else {
			err = e.block(c)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) list(n *doc.Node) error {
	var tag string
	switch n.ListKind {
	case doc.Ordered:
		tag = "ol"
	case doc.Description:
		tag = "dl"
	default:
		tag = "ul"
	}
	e.w.WriteLine("<" + tag + ` class="` + cssPrefix + `list">`)
	for _, item := range n.Children {
		if item.Kind != doc.Item {
			continue
		}
		if n.ListKind == doc.Description {
			e.w.WriteLine("<dt>" + escape(item.Term) + "</dt>")
			e.w.WriteLine("<dd>")
			if err := e.blocks(item.Children); err != nil {
				return err
			}
			e.w.WriteLine("</dd>")
		} else {
			e.w.WriteLine("<li>")
			if err := e.blocks(item.Children); err != nil {
				return err
			}
			e.w.WriteLine("</li>")
		}
	}
	e.w.WriteLine("</" + tag + ">")
	return nil
}

func (e *emitter) table(n *doc.Node) error {
	aligns := colAligns(n.ColSpec)
	e.w.WriteLine(`<table class="` + cssPrefix + `table">`)
	for _, row := range n.Children {
		if row.Kind != doc.Row {
			continue
		}
		e.w.WriteLine("<tr>")
		for i, cell := range row.Children {
			attr := ""
			if i < len(aligns) {
				attr = ` class="` + cssPrefix + aligns[i] + `"`
			}
			e.w.BeginPar("<td"+attr+">", "</td>")
			if err := e.inlineBlocks(cell.Children); err != nil {
				return err
			}
			e.w.EndPar()
		}
		e.w.WriteLine("</tr>")
	}
	e.w.WriteLine("</table>")
	return nil
}

// colAligns converts a tabular column specification into CSS class
// suffixes, one per column.
func colAligns(spec string) []string {
	var res []string
	for _, c := range spec {
		switch c {
		case 'l', 'p':
			res = append(res, "al")
		case 'c':
			res = append(res, "ac")
		case 'r':
			res = append(res, "ar")
		}
	}
	return res
}

func (e *emitter) displayMath(n *doc.Node) {
	e.w.WriteLine(`<div class="` + cssPrefix + `displaymath">`)
	if e.opts.MathFormat == MathML {
		e.w.WriteLine(mathMLFormula(n.Math, true))
	} else {
		e.w.WriteLine(e.svg.Formula(n.Math, true))
	}
	if n.Number != "" {
		e.w.WriteLine(`<span class="` + cssPrefix + `eqno">(` +
			escape(n.Number) + ")</span>")
	}
	e.w.WriteLine("</div>")
}

func (e *emitter) inlines(nodes []*doc.Node) error {
	for _, n := range nodes {
		if err := e.inline(n); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) inline(n *doc.Node) error {
	switch n.Kind {
	case doc.Text:
		e.text(n.Text)

	case doc.Emph:
		return e.span("em", "", n.Children)
	case doc.Bold:
		return e.span("b", "", n.Children)
	case doc.Mono:
		return e.span("code", "", n.Children)
	case doc.SmallCaps:
		return e.span("span", cssPrefix+"smallcaps", n.Children)

	case doc.InlineMath:
		if e.opts.MathFormat == MathML {
			e.w.WriteString(mathMLFormula(n.Math, false))
		} else {
			e.w.WriteString(e.svg.Formula(n.Math, false))
		}

	case doc.Image:
		e.w.WriteString(`<img class="` + cssPrefix + `image" src="` +
			escape(n.Target) + `" alt=""/>`)

	case doc.Graphic:
		e.w.WriteString(e.svg.Picture(n.Pic))

	case doc.Link:
		e.w.WriteString(`<a href="` + escape(n.Target) + `">`)
		if err := e.inlines(n.Children); err != nil {
			return err
		}
		e.w.WriteString("</a>")

	case doc.Ref:
		e.w.WriteString(`<a class="` + cssPrefix + `ref" href="#` +
			refID(n.Target) + `">`)
		if err := e.inlines(n.Children); err != nil {
			return err
		}
		e.w.WriteString("</a>")

	case doc.Anchor:
		e.w.WriteString(`<span id="` + refID(n.Label) + `"></span>`)

	default:
		return e.inlines(n.Children)
	}
	return nil
}

func (e *emitter) span(tag, class string, children []*doc.Node) error {
	open := "<" + tag + ">"
	if class != "" {
		open = "<" + tag + ` class="` + class + `">`
	}
	e.w.WriteString(open)
	if err := e.inlines(children); err != nil {
		return err
	}
	e.w.WriteString("</" + tag + ">")
	return nil
}

// text feeds a run of characters to the wrap writer, marking word
// boundaries at the spaces.
func (e *emitter) text(s string) {
	s = norm.NFC.String(s)
	for i, word := range strings.Split(s, " ") {
		if i > 0 {
			e.w.EndWord()
		}
		if word != "" {
			e.w.WriteString(html.EscapeString(word))
		}
	}
}

// escape converts a string to its HTML representation, normalising to
// NFC first.
func escape(s string) string {
	return html.EscapeString(norm.NFC.String(s))
}

// refID converts a label into a well-formed element id.  Letters,
// digits, underscore, colon and full stop are kept, everything else
// becomes a hyphen, and a leading non-letter gets an "x" prefix.
func refID(label string) string {
	var chars []byte
	hyphenSeen := false
	for i := 0; i < len(label); i++ {
		c := label[i]
		if !(isLetter(c) || isDigit(c) || c == '_' || c == ':' || c == '.') {
			c = '-'
		}
		if c == '-' && hyphenSeen {
			continue
		}
		if len(chars) == 0 && !isLetter(c) {
			chars = append(chars, 'x')
		}
		chars = append(chars, c)
		hyphenSeen = c == '-'
	}
	if len(chars) == 0 {
		return "x"
	}
	return string(chars)
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
