// text.go -
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

package stomach

import "strings"

// addChar adds one character of document text, applying the standard
// TeX ligatures: runs of hyphens become dashes, runs of quote
// characters become typographic quotes, and the tie becomes a
// no-break space.
func (s *Stomach) addChar(c byte) {
	switch c {
	case '-':
		s.flushQuotes()
		s.dashes++
	case '`':
		s.flushOthers('`')
		s.backquotes++
	case '\'':
		s.flushOthers('\'')
		s.quotes++
	case '~':
		s.flushDashes()
		s.b.AddText(" ")
	default:
		s.flushDashes()
		s.b.AddText(string(rune(c)))
	}
}

// flushDashes emits all pending ligature material.
func (s *Stomach) flushDashes() {
	if s.dashes > 0 {
		var out strings.Builder
		n := s.dashes
		for n >= 3 {
			out.WriteString("—") // em dash
			n -= 3
		}
		if n == 2 {
			out.WriteString("–") // en dash
		} else if n == 1 {
			out.WriteByte('-')
		}
		s.b.AddText(out.String())
		s.dashes = 0
	}
	s.flushQuotes()
}

func (s *Stomach) flushQuotes() {
	if s.backquotes > 0 {
		s.b.AddText(quoteRun(s.backquotes, "“", "‘"))
		s.backquotes = 0
	}
	if s.quotes > 0 {
		s.b.AddText(quoteRun(s.quotes, "”", "’"))
		s.quotes = 0
	}
}

// flushOthers flushes all pending runs except the one for c, so that
// e.g. a backquote ends a run of quotes and vice versa.
func (s *Stomach) flushOthers(c byte) {
	if c != '-' && s.dashes > 0 {
		d := s.backquotes
		q := s.quotes
		s.backquotes, s.quotes = 0, 0
		s.flushDashes()
		s.backquotes, s.quotes = d, q
	}
	if c != '`' && s.backquotes > 0 {
		s.b.AddText(quoteRun(s.backquotes, "“", "‘"))
		s.backquotes = 0
	}
	if c != '\'' && s.quotes > 0 {
		s.b.AddText(quoteRun(s.quotes, "”", "’"))
		s.quotes = 0
	}
}

func quoteRun(n int, double, single string) string {
	var out strings.Builder
	for n >= 2 {
		out.WriteString(double)
		n -= 2
	}
	if n == 1 {
		out.WriteString(single)
	}
	return out.String()
}
