// math.go -
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

package doc

// MathClass is the spacing class of a math atom, following chapter 17
// of the TeXbook.
type MathClass int

const (
	Ord MathClass = iota
	Op
	Bin
	Rel
	Open
	Close
	Punct
	Inner
)

var classNames = map[MathClass]string{
	Ord:   "ord",
	Op:    "op",
	Bin:   "bin",
	Rel:   "rel",
	Open:  "open",
	Close: "close",
	Punct: "punct",
	Inner: "inner",
}

func (c MathClass) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return "unknown"
}

// MathKind enumerates the structural variants of a math node.
type MathKind int

const (
	// Atom is a single symbol, possibly with sub- and superscripts.
	// The symbol is in Sym; scripts are in Sub and Sup.
	Atom MathKind = iota

	// MList is a horizontal list of math nodes, in Items.
	MList

	// Fraction is generalised fraction material: Num over Den,
	// separated by a bar of thickness BarThickness.
	Fraction

	// Radical is a radical sign over Radicand, with an optional
	// Degree as in \sqrt[3]{x}.
	Radical

	// Fenced is a subformula in Items bracketed by the extensible
	// delimiters Left and Right.
	Fenced
)

// MathNode is one node of a math formula.  The meaning of the fields
// depends on Kind.
type MathNode struct {
	Kind  MathKind
	Class MathClass

	// Sym is the symbol of an Atom, as a Unicode string.
	Sym string

	// Variant marks atoms which take their glyphs from a special
	// font, e.g. "it" for italic letters or "rm" for upright text.
	Variant string

	// Sub and Sup are the scripts of an Atom.  An Atom with empty
	// Sym and only scripts renders the scripts against an empty box.
	Sub *MathNode
	Sup *MathNode

	// Limits forces \limits placement of the scripts of an Op atom.
	Limits bool

	// Items holds the elements of an MList or Fenced node.
	Items []*MathNode

	// Num and Den are the parts of a Fraction.  BarThickness is in
	// units of the default rule thickness; 0 gives \atop.
	Num          *MathNode
	Den          *MathNode
	BarThickness float64

	// Radicand and Degree belong to a Radical.
	Radicand *MathNode
	Degree   *MathNode

	// Left and Right are the delimiter characters of a Fenced node.
	// An absent delimiter, as in \left., is the empty string.
	Left  string
	Right string
}

// NewAtom returns an atom node for the given symbol and class.
func NewAtom(sym string, class MathClass) *MathNode {
	return &MathNode{Kind: Atom, Class: class, Sym: sym}
}

// NewMList wraps a list of math nodes into a single node.  A list of
// length one is returned unwrapped.
func NewMList(items []*MathNode) *MathNode {
	if len(items) == 1 {
		return items[0]
	}
	return &MathNode{Kind: MList, Items: items}
}
