// token.go -
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

// Package token defines the token type shared by the mouth, the
// gullet and the stomach.
package token

import (
	"strconv"
	"strings"

	"github.com/seehuhn/typeset/latex/catcode"
)

// Type enumerates the different kinds of token.
type Type int

// The token types.  Parameter tokens occur only in macro patterns and
// replacement texts.
const (
	Char Type = iota
	ControlSequence
	Parameter
)

// Token is a single TeX token.  The zero value is not a valid token.
type Token struct {
	Type Type

	// Char and Cat are set for tokens of type Char.
	Char byte
	Cat  catcode.Category

	// Name is the control sequence name, without the leading
	// backslash.  Only set for tokens of type ControlSequence.
	Name string

	// Index is the parameter number, 1 to 9.  Only set for tokens of
	// type Parameter.
	Index int

	// NoExpand marks a control sequence which must not be expanded
	// once, as the result of \noexpand.
	NoExpand bool
}

// NewChar returns a character token.
func NewChar(c byte, cat catcode.Category) Token {
	return Token{Type: Char, Char: c, Cat: cat}
}

// NewLetter returns a character token of category letter.
func NewLetter(c byte) Token {
	return Token{Type: Char, Char: c, Cat: catcode.Letter}
}

// NewOther returns a character token of category other.
func NewOther(c byte) Token {
	return Token{Type: Char, Char: c, Cat: catcode.Other}
}

// NewSpace returns a blank space token.
func NewSpace() Token {
	return Token{Type: Char, Char: ' ', Cat: catcode.Space}
}

// NewCS returns a control sequence token for the given name.  The
// name does not include the leading backslash.
func NewCS(name string) Token {
	return Token{Type: ControlSequence, Name: name}
}

// NewParam returns a parameter token for #index.
func NewParam(index int) Token {
	return Token{Type: Parameter, Index: index}
}

// IsChar returns true if tok is a character token with the given
// character and category.
func (tok Token) IsChar(c byte, cat catcode.Category) bool {
	return tok.Type == Char && tok.Char == c && tok.Cat == cat
}

// IsCS returns true if tok is a control sequence with the given name.
func (tok Token) IsCS(name string) bool {
	return tok.Type == ControlSequence && tok.Name == name
}

// Equal compares two tokens, ignoring the NoExpand flag.
func (tok Token) Equal(other Token) bool {
	if tok.Type != other.Type {
		return false
	}
	switch tok.Type {
	case Char:
		return tok.Char == other.Char && tok.Cat == other.Cat
	case ControlSequence:
		return tok.Name == other.Name
	default:
		return tok.Index == other.Index
	}
}

func (tok Token) String() string {
	switch tok.Type {
	case Char:
		return string(rune(tok.Char))
	case ControlSequence:
		if len(tok.Name) == 1 && !isLetter(tok.Name[0]) {
			return "\\" + tok.Name
		}
		return "\\" + tok.Name + " "
	case Parameter:
		return "#" + strconv.Itoa(tok.Index)
	}
	return "<invalid token>"
}

// List is a sequence of tokens, e.g. a macro argument or a macro
// replacement text.
type List []Token

// String serialises the token list in a form close to the original
// source.  Control sequences with multi-letter names are followed by
// a space.
func (toks List) String() string {
	var res []string
	for _, tok := range toks {
		res = append(res, tok.String())
	}
	return strings.Join(res, "")
}

// PlainText returns only the character content of the token list,
// with control sequences and parameter markers omitted.  This is used
// for arguments which must be plain strings, like environment names
// and labels.
func (toks List) PlainText() string {
	var res []byte
	for _, tok := range toks {
		if tok.Type == Char {
			res = append(res, tok.Char)
		}
	}
	return string(res)
}

// Equal compares two token lists element-wise.
func (toks List) Equal(other List) bool {
	if len(toks) != len(other) {
		return false
	}
	for i, tok := range toks {
		if !tok.Equal(other[i]) {
			return false
		}
	}
	return true
}

// FromString converts plain text into a list of character tokens,
// using category other for everything except letters and spaces.
// This is the inverse of PlainText for simple strings.
func FromString(s string) List {
	var res List
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isLetter(c):
			res = append(res, NewLetter(c))
		case c == ' ':
			res = append(res, NewSpace())
		default:
			res = append(res, NewOther(c))
		}
	}
	return res
}

func isLetter(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}
