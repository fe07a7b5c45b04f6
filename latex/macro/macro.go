// macro.go -
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

// Package macro implements the scoped store of user macro
// definitions.
package macro

import (
	"github.com/seehuhn/typeset/latex/catcode"
	"github.com/seehuhn/typeset/latex/token"
)

// Def is a user macro definition.  The pattern mixes literal tokens
// and parameter tokens; parameters are delimited when literal tokens
// follow them in the pattern.
type Def struct {
	Pattern     token.List
	Replacement token.List
	Arity       int

	Long      bool
	Outer     bool
	Protected bool
}

// Equal compares two definitions, as needed by \ifx.
func (d *Def) Equal(other *Def) bool {
	if d == other {
		return true
	}
	if d == nil || other == nil {
		return false
	}
	return d.Long == other.Long &&
		d.Pattern.Equal(other.Pattern) &&
		d.Replacement.Equal(other.Replacement)
}

// Meaning is the current meaning of a control sequence name: either a
// user macro, or an alias to another token established by \let.
type Meaning struct {
	Def   *Def
	Alias *token.Token
}

// Store maps control sequence names to their meanings.  Local
// definitions are recorded in the current scope's undo list and
// rolled back when the scope ends.
type Store struct {
	table map[string]*Meaning
	undo  []undoRec
	marks []int
}

type undoRec struct {
	name string
	old  *Meaning // nil if the name was previously undefined
}

// NewStore allocates an empty macro store.
func NewStore() *Store {
	return &Store{
		table: make(map[string]*Meaning),
	}
}

// Lookup returns the current meaning of the given name, or nil if the
// name is undefined.
func (s *Store) Lookup(name string) *Meaning {
	return s.table[name]
}

// Define binds the name to a user macro.  If global is true the
// binding bypasses all open scopes.
func (s *Store) Define(name string, def *Def, global bool) {
	s.set(name, &Meaning{Def: def}, global)
}

// Let binds the name to an alias for the given token, as \let does.
// If the token is a control sequence which currently names a user
// macro, the macro definition is copied, so that later redefinition
// of the source does not affect the alias.
func (s *Store) Let(name string, tok token.Token, global bool) {
	if tok.Type == token.ControlSequence {
		if m := s.table[tok.Name]; m != nil {
			s.set(name, &Meaning{Def: m.Def, Alias: m.Alias}, global)
			return
		}
	}
	t := tok
	s.set(name, &Meaning{Alias: &t}, global)
}

func (s *Store) set(name string, m *Meaning, global bool) {
	if global {
		s.dropUndo(name)
	} else if len(s.marks) > 0 {
		s.undo = append(s.undo, undoRec{name: name, old: s.table[name]})
	}
	s.table[name] = m
}

// dropUndo removes all pending undo records for the given name, so
// that a global assignment survives the end of all open groups.
func (s *Store) dropUndo(name string) {
	out := s.undo[:0]
	mi := 0
	for i, rec := range s.undo {
		for mi < len(s.marks) && s.marks[mi] == i {
			s.marks[mi] = len(out)
			mi++
		}
		if rec.name != name {
			out = append(out, rec)
		}
	}
	for mi < len(s.marks) {
		s.marks[mi] = len(out)
		mi++
	}
	s.undo = out
}

// PushScope starts a new group.
func (s *Store) PushScope() {
	s.marks = append(s.marks, len(s.undo))
}

// PopScope ends the current group and rolls back all local
// definitions made inside it.
func (s *Store) PopScope() error {
	if len(s.marks) == 0 {
		return catcode.ErrGroupUnderflow
	}
	mark := s.marks[len(s.marks)-1]
	s.marks = s.marks[:len(s.marks)-1]
	for i := len(s.undo) - 1; i >= mark; i-- {
		rec := s.undo[i]
		if rec.old == nil {
			delete(s.table, rec.name)
		} else {
			s.table[rec.name] = rec.old
		}
	}
	s.undo = s.undo[:mark]
	return nil
}

// Depth returns the number of open scopes.
func (s *Store) Depth() int {
	return len(s.marks)
}
