// style.go -
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

// Package math converts math node trees into boxes, following the
// rules of appendix G of the TeXbook.
package math

// Style is one of the four math styles, with a cramped variant each.
type Style int

const (
	Display Style = iota
	Text
	Script
	ScriptScript
)

// Cramped marks styles used under a bar, where superscripts are
// raised less.
type StyledContext struct {
	Style   Style
	Cramped bool
}

// Sup returns the style for superscripts.
func (c StyledContext) Sup() StyledContext {
	switch c.Style {
	case Display, Text:
		return StyledContext{Script, c.Cramped}
	default:
		return StyledContext{ScriptScript, c.Cramped}
	}
}

// Sub returns the style for subscripts, which is always cramped.
func (c StyledContext) Sub() StyledContext {
	s := c.Sup()
	s.Cramped = true
	return s
}

// Num returns the style for fraction numerators.
func (c StyledContext) Num() StyledContext {
	switch c.Style {
	case Display:
		return StyledContext{Text, c.Cramped}
	case Text:
		return StyledContext{Script, c.Cramped}
	default:
		return StyledContext{ScriptScript, c.Cramped}
	}
}

// Denom returns the style for fraction denominators, which is always
// cramped.
func (c StyledContext) Denom() StyledContext {
	s := c.Num()
	s.Cramped = true
	return s
}

// CrampedVariant returns the same style with the cramped flag set,
// for material under a radical or overline.
func (c StyledContext) CrampedVariant() StyledContext {
	c.Cramped = true
	return c
}

// IsScript reports whether inter-atom spacing marked as suppressed in
// script styles must be omitted.
func (c StyledContext) IsScript() bool {
	return c.Style == Script || c.Style == ScriptScript
}

// SizeFactor returns the font scaling of the style relative to the
// surrounding text size.
func (c StyledContext) SizeFactor() float64 {
	switch c.Style {
	case Script:
		return 0.7
	case ScriptScript:
		return 0.5
	default:
		return 1.0
	}
}
