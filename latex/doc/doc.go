// doc.go -
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

// Package doc defines the device-independent document tree produced by
// the digester and consumed by the output writers.
package doc

import "github.com/seehuhn/typeset/latex/graphics"

// Kind enumerates the node types of the document tree.
type Kind int

const (
	// Document is the root node.  Its children are block nodes.
	Document Kind = iota

	// Block-level nodes.
	Section   // a sectioning heading; Level and Number are set
	Paragraph // a paragraph of inline material
	List      // itemize, enumerate or description; ListKind is set
	Item      // one list item; Term is set for description lists
	Table     // tabular material; ColSpec is set
	Row       // one table row
	Cell      // one table cell
	Quotation // indented quoted text
	Center    // centred block
	Verbatim  // preformatted text, in Text
	Rule      // a horizontal rule
	DisplayMath

	// Inline nodes.
	Text       // a run of characters, in Text
	Emph       // emphasised text
	Bold       // bold face text
	Mono       // typewriter text, also used for \verb
	SmallCaps  // caps and small caps text
	InlineMath // math material, in Math
	Image      // an included graphic; Target is the file name
	Graphic    // a picture or pgf drawing, in Pic
	Link       // a hyperlink; Target is the URL
	Ref        // a reference to a label; Target is the label name
	Anchor     // a link target; Label is the label name
)

var kindNames = map[Kind]string{
	Document:    "document",
	Section:     "section",
	Paragraph:   "paragraph",
	List:        "list",
	Item:        "item",
	Table:       "table",
	Row:         "row",
	Cell:        "cell",
	Quotation:   "quotation",
	Center:      "center",
	Verbatim:    "verbatim",
	Rule:        "rule",
	DisplayMath: "displaymath",
	Text:        "text",
	Emph:        "emph",
	Bold:        "bold",
	Mono:        "mono",
	SmallCaps:   "smallcaps",
	InlineMath:  "inlinemath",
	Image:       "image",
	Graphic:     "graphic",
	Link:        "link",
	Ref:         "ref",
	Anchor:      "anchor",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsBlock reports whether nodes of this kind are block-level.
func (k Kind) IsBlock() bool {
	return k >= Document && k <= DisplayMath
}

// ListType distinguishes the three LaTeX list environments.
type ListType int

const (
	Unordered ListType = iota
	Ordered
	Description
)

// Node is one node of the document tree.
type Node struct {
	Kind Kind

	// Text holds the character content of Text and Verbatim nodes.
	Text string

	// Level is the sectioning level of a Section node: 1 for
	// \section, 2 for \subsection, 3 for \subsubsection.
	Level int

	// Number is the formatted counter value of a Section node, e.g.
	// "2.1".  Empty for starred sections.
	Number string

	// ListKind is set on List nodes.
	ListKind ListType

	// Term holds the formatted term of a description list Item.
	Term string

	// ColSpec is the tabular column specification, e.g. "lcr".
	ColSpec string

	// Label is the name a Section or Anchor node can be referred to
	// by.  Target is the label or URL a Ref or Link node points at.
	Label  string
	Target string

	// Math is set on InlineMath and DisplayMath nodes.
	Math *MathNode

	// Pic is set on Graphic nodes.
	Pic *graphics.Picture

	Children []*Node
}

// NewNode allocates a childless node of the given kind.
func NewNode(kind Kind) *Node {
	return &Node{Kind: kind}
}

// NewText allocates a text node.
func NewText(s string) *Node {
	return &Node{Kind: Text, Text: s}
}

// Append adds child nodes at the end of n's child list.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// PlainText returns the concatenated character content of the subtree
// rooted at n.
func (n *Node) PlainText() string {
	var res []byte
	n.Walk(func(m *Node) {
		if m.Kind == Text || m.Kind == Verbatim {
			res = append(res, m.Text...)
		}
	})
	return string(res)
}

// Walk calls fn for n and every node below it, in document order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
