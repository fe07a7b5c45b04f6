// macro_test.go -
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

package macro

import (
	"testing"

	"github.com/seehuhn/typeset/latex/token"
)

func TestScoping(t *testing.T) {
	s := NewStore()
	outer := &Def{Replacement: token.FromString("outer")}
	inner := &Def{Replacement: token.FromString("inner")}

	s.Define("x", outer, false)
	s.PushScope()
	s.Define("x", inner, false)
	s.Define("y", inner, false)
	if s.Lookup("x").Def != inner {
		t.Error("local redefinition not visible")
	}
	err := s.PopScope()
	if err != nil {
		t.Fatal(err)
	}
	if s.Lookup("x").Def != outer {
		t.Error("outer definition not restored")
	}
	if s.Lookup("y") != nil {
		t.Error("local definition survived the scope")
	}
}

func TestGlobalDefine(t *testing.T) {
	s := NewStore()
	s.PushScope()
	s.Define("x", &Def{}, false)
	global := &Def{Replacement: token.FromString("g")}
	s.PushScope()
	s.Define("z", &Def{}, false)
	s.Define("x", global, true)
	s.PopScope()
	s.PopScope()
	if m := s.Lookup("x"); m == nil || m.Def != global {
		t.Error("global definition lost")
	}
	if s.Lookup("z") != nil {
		t.Error("scoped definition survived after global write")
	}
}

func TestLet(t *testing.T) {
	s := NewStore()
	def := &Def{Replacement: token.FromString("body")}
	s.Define("orig", def, false)
	s.Let("alias", token.NewCS("orig"), false)

	// redefining the original must not affect the alias
	s.Define("orig", &Def{}, false)
	if m := s.Lookup("alias"); m == nil || m.Def != def {
		t.Error("\\let alias does not preserve the original meaning")
	}

	// \let to a character token
	s.Let("tilde", token.NewOther('~'), false)
	m := s.Lookup("tilde")
	if m == nil || m.Alias == nil || m.Alias.Char != '~' {
		t.Error("\\let to character token failed")
	}
}

func TestDefEqual(t *testing.T) {
	a := &Def{
		Pattern:     token.List{token.NewParam(1)},
		Replacement: token.FromString("x"),
	}
	b := &Def{
		Pattern:     token.List{token.NewParam(1)},
		Replacement: token.FromString("x"),
	}
	c := &Def{
		Pattern:     token.List{token.NewParam(1)},
		Replacement: token.FromString("y"),
	}
	if !a.Equal(b) {
		t.Error("equal definitions not recognised")
	}
	if a.Equal(c) {
		t.Error("different definitions compared equal")
	}
}
