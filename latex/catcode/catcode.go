// catcode.go -
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

// Package catcode implements TeX category codes and the scoped table
// which assigns a category to every input byte.
package catcode

import "errors"

// Category is one of the 16 classes TeX assigns to input characters.
type Category uint8

// The category codes, numbered as in chapter 7 of the TeXbook.
const (
	Escape      Category = iota // 0, normally backslash
	BeginGroup                  // 1, normally {
	EndGroup                    // 2, normally }
	MathShift                   // 3, normally $
	AlignTab                    // 4, normally &
	EndOfLine                   // 5, normally newline
	Parameter                   // 6, normally #
	Superscript                 // 7, normally ^
	Subscript                   // 8, normally _
	Ignored                     // 9, normally NUL
	Space                       // 10, normally blank
	Letter                      // 11, A-Z and a-z
	Other                       // 12, everything not listed elsewhere
	Active                      // 13, normally ~
	Comment                     // 14, normally %
	Invalid                     // 15, normally DEL
)

var catNames = []string{
	"escape", "begin-group", "end-group", "math-shift", "align-tab",
	"end-of-line", "parameter", "superscript", "subscript", "ignored",
	"space", "letter", "other", "active", "comment", "invalid",
}

func (cat Category) String() string {
	if int(cat) >= len(catNames) {
		return "catcode" + string(rune('0'+cat))
	}
	return catNames[cat]
}

// ErrGroupUnderflow is returned when a scope is popped from an empty
// scope stack.
var ErrGroupUnderflow = errors.New("group ended without matching begin")

// Table maps every input byte to its category code.  Assignments made
// via the .Set() method are recorded in the current scope and undone
// when the scope is popped.
type Table struct {
	cats  [256]Category
	undo  []undoRec
	marks []int
}

type undoRec struct {
	char byte
	old  Category
}

// NewTable allocates a category table with the INITeX defaults of
// chapter 8 of the TeXbook, plus the usual plain TeX assignments for
// the special printing characters.
func NewTable() *Table {
	t := &Table{}
	for i := range t.cats {
		t.cats[i] = Other
	}
	for c := byte('A'); c <= 'Z'; c++ {
		t.cats[c] = Letter
	}
	for c := byte('a'); c <= 'z'; c++ {
		t.cats[c] = Letter
	}
	t.cats['\\'] = Escape
	t.cats['{'] = BeginGroup
	t.cats['}'] = EndGroup
	t.cats['$'] = MathShift
	t.cats['&'] = AlignTab
	t.cats['\n'] = EndOfLine
	t.cats['\r'] = EndOfLine
	t.cats['#'] = Parameter
	t.cats['^'] = Superscript
	t.cats['_'] = Subscript
	t.cats[0] = Ignored
	t.cats[' '] = Space
	t.cats['\t'] = Space
	t.cats['~'] = Active
	t.cats['%'] = Comment
	t.cats[127] = Invalid
	return t
}

// Get returns the category code currently assigned to the given byte.
func (t *Table) Get(c byte) Category {
	return t.cats[c]
}

// Set assigns a new category code to the given byte.  The previous
// assignment is restored when the current scope ends.
func (t *Table) Set(c byte, cat Category) {
	if len(t.marks) > 0 {
		t.undo = append(t.undo, undoRec{char: c, old: t.cats[c]})
	}
	t.cats[c] = cat
}

// SetGlobal assigns a new category code to the given byte, bypassing
// the scope stack.  Pending undo records for the byte are dropped so
// that the assignment survives the end of all open groups.
func (t *Table) SetGlobal(c byte, cat Category) {
	out := t.undo[:0]
	mi := 0
	for i, rec := range t.undo {
		for mi < len(t.marks) && t.marks[mi] == i {
			t.marks[mi] = len(out)
			mi++
		}
		if rec.char != c {
			out = append(out, rec)
		}
	}
	for mi < len(t.marks) {
		t.marks[mi] = len(out)
		mi++
	}
	t.undo = out
	t.cats[c] = cat
}

// PushScope starts a new group.  All later .Set() calls are recorded
// and undone by the matching .PopScope().
func (t *Table) PushScope() {
	t.marks = append(t.marks, len(t.undo))
}

// PopScope ends the current group, restoring all category codes
// changed since the matching .PushScope().  The cost is proportional
// to the number of changes made in the popped scope.
func (t *Table) PopScope() error {
	if len(t.marks) == 0 {
		return ErrGroupUnderflow
	}
	mark := t.marks[len(t.marks)-1]
	t.marks = t.marks[:len(t.marks)-1]
	for i := len(t.undo) - 1; i >= mark; i-- {
		rec := t.undo[i]
		t.cats[rec.char] = rec.old
	}
	t.undo = t.undo[:mark]
	return nil
}

// Depth returns the number of open scopes.
func (t *Table) Depth() int {
	return len(t.marks)
}
