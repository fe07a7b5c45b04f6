// wrap.go -
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
	"bufio"
	"io"
	"strings"
)

const outputLineWidth = 79

// wrapWriter writes HTML with paragraph text wrapped to the given
// width.  Markup is glued to the neighbouring words, so line breaks
// only ever occur at word boundaries.  Width zero disables wrapping.
type wrapWriter struct {
	out   *bufio.Writer
	width int

	word       []byte
	line       []string
	lineLength int

	// open is prefixed to the first word of the current block, close
	// is appended to the last.
	open  string
	close string
}

func newWrapWriter(out io.Writer, width int) *wrapWriter {
	return &wrapWriter{out: bufio.NewWriter(out), width: width}
}

// BeginPar starts a wrapped block.  The open tag is glued to the first
// word, the close tag to the last word of the block.
func (w *wrapWriter) BeginPar(open, close string) {
	w.open = open
	w.close = close
}

// EndPar ends the current wrapped block.
func (w *wrapWriter) EndPar() {
	w.endWord(true)
	w.flushLine()
	w.open = ""
	w.close = ""
}

// WriteString adds markup or text to the current word.
func (w *wrapWriter) WriteString(s string) {
	w.word = append(w.word, s...)
}

// EndWord marks a position where the output line may be broken.
func (w *wrapWriter) EndWord() {
	w.endWord(false)
}

// WriteLine emits a line of block-level markup, flushing any pending
// wrapped material first.
func (w *wrapWriter) WriteLine(s string) {
	w.endWord(false)
	w.flushLine()
	w.out.WriteString(s)
	w.out.WriteByte('\n')
}

// Flush writes all buffered output.
func (w *wrapWriter) Flush() error {
	w.endWord(false)
	w.flushLine()
	return w.out.Flush()
}

func (w *wrapWriter) endWord(endPar bool) {
	word := string(w.word)
	w.word = w.word[:0]

	if word != "" && strings.Contains(word, noBreakSpace) {
		word = `<span class="` + cssPrefix + `nw">` + word + `</span>`
	}
	if w.open != "" && (word != "" || endPar) {
		word = w.open + word
		w.open = ""
	}
	if endPar {
		if word == "" {
			if n := len(w.line); n > 0 {
				w.line[n-1] += w.close
				return
			}
			word = w.close
		} else {
			word += w.close
		}
	}
	if word == "" {
		return
	}

	l := len(word)
	if len(w.line) == 0 {
		w.line = []string{word}
		w.lineLength = l
	} else if w.width <= 0 || w.lineLength+1+l <= w.width {
		w.line = append(w.line, word)
		w.lineLength += 1 + l
	} else {
		w.flushLine()
		w.line = []string{word}
		w.lineLength = l
	}
}

func (w *wrapWriter) flushLine() {
	if len(w.line) == 0 {
		return
	}
	w.out.WriteString(strings.Join(w.line, " "))
	w.out.WriteByte('\n')
	w.line = nil
	w.lineLength = 0
}
