// mouth.go -
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

// Package mouth converts the raw input bytes into TeX tokens,
// following the rules of chapter 8 of the TeXbook.
package mouth

import (
	"errors"
	"strconv"

	"github.com/seehuhn/typeset/latex/catcode"
	"github.com/seehuhn/typeset/latex/diag"
	"github.com/seehuhn/typeset/latex/scanner"
	"github.com/seehuhn/typeset/latex/token"
)

// ErrInvalidCharacter is reported when a byte of category invalid
// occurs in the input.  The byte is skipped and scanning continues.
var ErrInvalidCharacter = errors.New("invalid character in input")

// The three states of the tokenizer, see TeXbook p. 46.
type state int

const (
	stateN state = iota // beginning a new line
	stateM              // middle of a line
	stateS              // skipping blanks
)

// Mouth is the tokenization stage of the pipeline.  It reads bytes
// from the embedded scanner and produces tokens one at a time,
// consulting the category table for every byte.
type Mouth struct {
	scanner.Scanner

	Cats *catcode.Table

	state    state
	reporter diag.Reporter
}

// New allocates a new Mouth using the given category table.  Input is
// supplied via the scanner's Include and Prepend methods.
func New(cats *catcode.Table) *Mouth {
	return &Mouth{
		Cats:     cats,
		reporter: diag.Log{},
	}
}

// SetReporter installs the reporter which receives tokenization
// diagnostics.
func (m *Mouth) SetReporter(r diag.Reporter) {
	m.reporter = r
}

// NextToken returns the next token from the input.  The second return
// value is false once the input is exhausted.
func (m *Mouth) NextToken() (token.Token, bool, error) {
	for m.Next() {
		buf, err := m.Peek()
		if err != nil {
			return token.Token{}, false, err
		}
		c := buf[0]
		cat := m.Cats.Get(c)

		if cat == catcode.Superscript && len(buf) >= 2 && buf[1] == c {
			if m.decodeCaret(buf) {
				continue
			}
		}

		switch cat {
		case catcode.Escape:
			m.Skip(1)
			return m.readControlSequence()

		case catcode.Space:
			m.Skip(1)
			if m.state == stateM {
				m.state = stateS
				return token.NewSpace(), true, nil
			}
			// leading and repeated spaces are dropped

		case catcode.EndOfLine:
			n := 1
			if c == '\r' && len(buf) >= 2 && buf[1] == '\n' {
				n = 2
			}
			m.Skip(n)
			switch m.state {
			case stateN:
				return token.NewCS("par"), true, nil
			case stateM:
				m.state = stateN
				return token.NewSpace(), true, nil
			default:
				m.state = stateN
			}

		case catcode.Comment:
			m.skipComment()
			m.state = stateN

		case catcode.Ignored:
			m.Skip(1)

		case catcode.Invalid:
			m.reporter.Report(diag.Diagnostic{
				Severity: diag.Error,
				Pos:      m.Pos().String(),
				Kind:     ErrInvalidCharacter,
				Message:  "invalid character (code " + strconv.Itoa(int(c)) + ")",
			})
			m.Skip(1)

		default:
			m.Skip(1)
			m.state = stateM
			return token.NewChar(c, cat), true, nil
		}
	}
	return token.Token{}, false, nil
}

// decodeCaret handles the ^^XX notation.  It returns true if input
// was consumed and rescanning is needed.
func (m *Mouth) decodeCaret(buf []byte) bool {
	if len(buf) >= 4 && isHexDigit(buf[2]) && isHexDigit(buf[3]) {
		c := hexValue(buf[2])<<4 | hexValue(buf[3])
		m.Skip(4)
		m.Prepend([]byte{c}, "^^ notation")
		return true
	}
	if len(buf) >= 3 && buf[2] < 128 {
		c := buf[2]
		if c < 64 {
			c += 64
		} else {
			c -= 64
		}
		m.Skip(3)
		m.Prepend([]byte{c}, "^^ notation")
		return true
	}
	m.reporter.Report(diag.Diagnostic{
		Severity: diag.Warning,
		Pos:      m.Pos().String(),
		Message:  "malformed ^^ notation",
	})
	return false
}

// readControlSequence reads the characters after an escape character.
func (m *Mouth) readControlSequence() (token.Token, bool, error) {
	if !m.Next() {
		m.reporter.Report(diag.Diagnostic{
			Severity: diag.Warning,
			Message:  "input ended after escape character",
		})
		return token.Token{}, false, nil
	}
	buf, err := m.Peek()
	if err != nil {
		return token.Token{}, false, err
	}

	c := buf[0]
	if m.Cats.Get(c) != catcode.Letter {
		m.Skip(1)
		if m.Cats.Get(c) == catcode.Other {
			m.state = stateS
		} else {
			m.state = stateM
		}
		return token.NewCS(string(rune(c))), true, nil
	}

	var name []byte
	for m.Next() {
		buf, err := m.Peek()
		if err != nil {
			return token.Token{}, false, err
		}
		pos := 0
		for pos < len(buf) && m.Cats.Get(buf[pos]) == catcode.Letter {
			pos++
		}
		name = append(name, buf[:pos]...)
		m.Skip(pos)
		if pos < len(buf) {
			break
		}
	}
	m.state = stateS
	return token.NewCS(string(name)), true, nil
}

// skipComment discards input up to and including the next end of
// line.
func (m *Mouth) skipComment() {
	for m.Next() {
		buf, err := m.Peek()
		if err != nil {
			return
		}
		pos := 0
		for pos < len(buf) {
			if m.Cats.Get(buf[pos]) == catcode.EndOfLine {
				m.Skip(pos + 1)
				return
			}
			pos++
		}
		m.Skip(pos)
	}
}

// ReadVerbatim reads raw bytes until the given delimiter byte,
// bypassing the category table.  This implements \verb and verbatim
// environments.
func (m *Mouth) ReadVerbatim(delim byte) (string, error) {
	var res []byte
	for m.Next() {
		buf, err := m.Peek()
		if err != nil {
			return "", err
		}
		pos := 0
		for pos < len(buf) {
			if buf[pos] == delim {
				res = append(res, buf[:pos]...)
				m.Skip(pos + 1)
				m.state = stateM
				return string(res), nil
			}
			pos++
		}
		res = append(res, buf...)
		m.Skip(len(buf))
	}
	return string(res), m.MakeError("unterminated verbatim text")
}

// ReadVerbatimUntil reads raw bytes until the given marker string,
// bypassing the category table.  The marker itself is consumed.
func (m *Mouth) ReadVerbatimUntil(marker string) (string, error) {
	var res []byte
	for m.Next() {
		buf, err := m.Peek()
		if err != nil {
			return "", err
		}
		for pos := 0; pos < len(buf); pos++ {
			if buf[pos] == marker[0] && hasPrefixAt(buf, pos, marker) {
				res = append(res, buf[:pos]...)
				m.Skip(pos + len(marker))
				m.state = stateM
				return string(res), nil
			}
		}
		// keep a window so markers spanning buffer boundaries match
		keep := len(marker) - 1
		if keep > len(buf) {
			keep = len(buf)
		}
		n := len(buf) - keep
		if n == 0 {
			n = len(buf)
		}
		res = append(res, buf[:n]...)
		m.Skip(n)
	}
	return string(res), m.MakeError("unterminated verbatim text")
}

func hasPrefixAt(buf []byte, pos int, marker string) bool {
	if pos+len(marker) > len(buf) {
		return false
	}
	for i := 0; i < len(marker); i++ {
		if buf[pos+i] != marker[i] {
			return false
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f'
}

func hexValue(c byte) byte {
	if c <= '9' {
		return c - '0'
	}
	return c - 'a' + 10
}
