// mathml.go -
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
	"html"
	"strings"

	"github.com/seehuhn/typeset/latex/doc"
)

// mathMLFormula renders a formula as a MathML element, leaving the
// layout to the browser instead of the SVG renderer.
func mathMLFormula(m *doc.MathNode, display bool) string {
	buf := &strings.Builder{}
	buf.WriteString(`<math xmlns="http://www.w3.org/1998/Math/MathML"`)
	if display {
		buf.WriteString(` display="block"`)
	}
	buf.WriteString(">")
	mathML(buf, m)
	buf.WriteString("</math>")
	return buf.String()
}

func mathML(buf *strings.Builder, m *doc.MathNode) {
	if m == nil {
		buf.WriteString("<mrow></mrow>")
		return
	}
	wrap := scriptElement(m)
	if wrap != "" {
		buf.WriteString("<" + wrap + ">")
	}
	mathMLCore(buf, m)
	if m.Sub != nil {
		mathML(buf, m.Sub)
	}
	if m.Sup != nil {
		mathML(buf, m.Sup)
	}
	if wrap != "" {
		buf.WriteString("</" + wrap + ">")
	}
}

// scriptElement names the MathML script container for the node, or ""
// when the node carries no scripts.
func scriptElement(m *doc.MathNode) string {
	switch {
	case m.Sub != nil && m.Sup != nil:
		if m.Limits {
			return "munderover"
		}
		return "msubsup"
	case m.Sub != nil:
		if m.Limits {
			return "munder"
		}
		return "msub"
	case m.Sup != nil:
		if m.Limits {
			return "mover"
		}
		return "msup"
	}
	return ""
}

// mathMLCore renders the node without its scripts.
func mathMLCore(buf *strings.Builder, m *doc.MathNode) {
	switch m.Kind {
	case doc.MList:
		buf.WriteString("<mrow>")
		for _, item := range m.Items {
			mathML(buf, item)
		}
		buf.WriteString("</mrow>")

	case doc.Fraction:
		if m.BarThickness == 0 {
			buf.WriteString(`<mfrac linethickness="0">`)
		} else {
			buf.WriteString("<mfrac>")
		}
		mathML(buf, m.Num)
		mathML(buf, m.Den)
		buf.WriteString("</mfrac>")

	case doc.Radical:
		if m.Degree != nil {
			buf.WriteString("<mroot>")
			mathML(buf, m.Radicand)
			mathML(buf, m.Degree)
			buf.WriteString("</mroot>")
		} else {
			buf.WriteString("<msqrt>")
			mathML(buf, m.Radicand)
			buf.WriteString("</msqrt>")
		}

	case doc.Fenced:
		buf.WriteString("<mrow>")
		if m.Left != "" {
			buf.WriteString(`<mo fence="true">` +
				html.EscapeString(m.Left) + "</mo>")
		}
		for _, item := range m.Items {
			mathML(buf, item)
		}
		if m.Right != "" {
			buf.WriteString(`<mo fence="true">` +
				html.EscapeString(m.Right) + "</mo>")
		}
		buf.WriteString("</mrow>")

	default:
		buf.WriteString(mathMLAtom(m))
	}
}

// mathMLAtom writes a single symbol as mi, mn or mo.
func mathMLAtom(m *doc.MathNode) string {
	if m.Sym == "" {
		return "<mrow></mrow>"
	}
	var tag string
	switch {
	case isNumber(m.Sym):
		tag = "mn"
	case m.Class == doc.Ord || isFunctionName(m.Sym):
		tag = "mi"
	default:
		tag = "mo"
	}
	attr := ""
	switch {
	case m.Variant == "rm" && tag == "mi":
		attr = ` mathvariant="normal"`
	case m.Variant == "bf":
		attr = ` mathvariant="bold"`
	}
	return "<" + tag + attr + ">" + html.EscapeString(m.Sym) +
		"</" + tag + ">"
}

// isFunctionName reports whether s is a multi-letter name like "sin",
// which renders as an identifier rather than an operator.
func isFunctionName(s string) bool {
	if len(s) < 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) {
			return false
		}
	}
	return true
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
