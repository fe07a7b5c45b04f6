// numbers.go -
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

package gullet

import (
	"errors"
	"fmt"

	"github.com/seehuhn/typeset/latex/catcode"
	"github.com/seehuhn/typeset/latex/token"
)

var (
	// ErrBadNumber indicates that a number was expected but not
	// found in the input.
	ErrBadNumber = errors.New("missing number")

	// ErrBadDimension indicates a malformed dimension, e.g. a
	// missing or unknown unit.
	ErrBadDimension = errors.New("malformed dimension")
)

// peekExpanded returns the next expanded token without consuming it.
func (g *Gullet) peekExpanded() (token.Token, bool, error) {
	tok, ok, err := g.Next()
	if err != nil || !ok {
		return tok, ok, err
	}
	g.PushToken(tok)
	return tok, true, nil
}

// ScanInt reads an integer from the expanded token stream: an
// optional sign, then decimal digits, 'octal, "hex, or a `char
// constant.  One trailing space token is consumed, as TeX does.
func (g *Gullet) ScanInt() (int, error) {
	sign := 1
	var lead token.Token
	for {
		tok, ok, err := g.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, fmt.Errorf("%w: input ended", ErrBadNumber)
		}
		if tok.Type == token.Char {
			if tok.Cat == catcode.Space {
				continue
			}
			if tok.Char == '+' {
				continue
			}
			if tok.Char == '-' {
				sign = -sign
				continue
			}
		}
		lead = tok
		break
	}

	if lead.Type == token.Char {
		switch {
		case lead.Char == '`':
			tok, ok, err := g.NextRaw()
			if err != nil {
				return 0, err
			}
			if !ok {
				return 0, fmt.Errorf("%w: input ended after `", ErrBadNumber)
			}
			var val int
			switch {
			case tok.Type == token.ControlSequence && len(tok.Name) == 1:
				val = int(tok.Name[0])
			case tok.Type == token.Char:
				val = int(tok.Char)
			default:
				return 0, fmt.Errorf("%w: bad character constant", ErrBadNumber)
			}
			if err := g.skipOneOptionalSpace(); err != nil {
				return 0, err
			}
			return sign * val, nil
		case lead.Char == '\'':
			return g.scanDigits(sign, 8)
		case lead.Char == '"':
			return g.scanDigits(sign, 16)
		case isDigit(lead.Char):
			g.PushToken(lead)
			return g.scanDigits(sign, 10)
		}
	}
	g.PushToken(lead)
	return 0, fmt.Errorf("%w: found %q", ErrBadNumber, lead.String())
}

func (g *Gullet) scanDigits(sign, base int) (int, error) {
	val := 0
	seen := false
	for {
		tok, ok, err := g.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		if tok.Type != token.Char {
			g.PushToken(tok)
			break
		}
		d, isD := digitValue(tok.Char, base)
		if !isD {
			// one space ends the number and is consumed
			if tok.Cat != catcode.Space {
				g.PushToken(tok)
			}
			break
		}
		val = val*base + d
		seen = true
	}
	if !seen {
		return 0, fmt.Errorf("%w: missing digits", ErrBadNumber)
	}
	return sign * val, nil
}

func digitValue(c byte, base int) (int, bool) {
	switch {
	case c >= '0' && c <= '9' && int(c-'0') < base:
		return int(c - '0'), true
	case base == 16 && c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// dimen units in TeX points
var units = map[string]float64{
	"pt": 1,
	"pc": 12,
	"in": 72.27,
	"bp": 72.27 / 72,
	"cm": 72.27 / 2.54,
	"mm": 72.27 / 25.4,
	"dd": 1238.0 / 1157,
	"cc": 12 * 1238.0 / 1157,
	"sp": 1.0 / 65536,
	"em": 10,
	"ex": 4.3,
}

// ScanDimen reads a dimension (decimal constant plus unit) from the
// expanded token stream.  The result is in TeX points.
func (g *Gullet) ScanDimen() (float64, error) {
	sign := 1.0
	for {
		tok, ok, err := g.peekExpanded()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, fmt.Errorf("%w: input ended", ErrBadDimension)
		}
		if tok.Type == token.Char {
			if tok.Cat == catcode.Space || tok.Char == '+' {
				g.Next()
				continue
			}
			if tok.Char == '-' {
				sign = -sign
				g.Next()
				continue
			}
		}
		break
	}

	val := 0.0
	seen := false
	for {
		tok, ok, err := g.peekExpanded()
		if err != nil {
			return 0, err
		}
		if !ok || tok.Type != token.Char || !isDigit(tok.Char) {
			break
		}
		g.Next()
		val = val*10 + float64(tok.Char-'0')
		seen = true
	}

	tok, ok, err := g.peekExpanded()
	if err != nil {
		return 0, err
	}
	if ok && tok.Type == token.Char && (tok.Char == '.' || tok.Char == ',') {
		g.Next()
		frac := 0.1
		for {
			tok, ok, err := g.peekExpanded()
			if err != nil {
				return 0, err
			}
			if !ok || tok.Type != token.Char || !isDigit(tok.Char) {
				break
			}
			g.Next()
			val += float64(tok.Char-'0') * frac
			frac /= 10
			seen = true
		}
	}
	if !seen {
		return 0, fmt.Errorf("%w: missing digits", ErrBadDimension)
	}

	if err := g.SkipSpaces(); err != nil {
		return 0, err
	}
	unit, err := g.scanUnit()
	if err != nil {
		return 0, err
	}
	return sign * val * unit, nil
}

func (g *Gullet) scanUnit() (float64, error) {
	var name []byte
	for len(name) < 2 {
		tok, ok, err := g.Next()
		if err != nil {
			return 0, err
		}
		if !ok || tok.Type != token.Char {
			if ok {
				g.PushToken(tok)
			}
			break
		}
		c := tok.Char
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c < 'a' || c > 'z' {
			g.PushToken(tok)
			break
		}
		name = append(name, c)
	}
	factor, ok := units[string(name)]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrBadDimension,
			string(name))
	}
	if err := g.skipOneOptionalSpace(); err != nil {
		return 0, err
	}
	return factor, nil
}

// skipOneOptionalSpace discards a single space token, as TeX does
// after a number or dimension.
func (g *Gullet) skipOneOptionalSpace() error {
	tok, ok, err := g.NextRaw()
	if err != nil {
		return err
	}
	if ok && !(tok.Type == token.Char && tok.Cat == catcode.Space) {
		g.PushToken(tok)
	}
	return nil
}
