// catcode_test.go -
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

package catcode

import "testing"

func TestDefaults(t *testing.T) {
	table := NewTable()
	testCases := []struct {
		char byte
		cat  Category
	}{
		{'\\', Escape},
		{'{', BeginGroup},
		{'}', EndGroup},
		{'$', MathShift},
		{'&', AlignTab},
		{'\n', EndOfLine},
		{'#', Parameter},
		{'^', Superscript},
		{'_', Subscript},
		{0, Ignored},
		{' ', Space},
		{'\t', Space},
		{'a', Letter},
		{'z', Letter},
		{'A', Letter},
		{'Z', Letter},
		{'0', Other},
		{'.', Other},
		{'~', Active},
		{'%', Comment},
		{127, Invalid},
	}
	for _, testCase := range testCases {
		got := table.Get(testCase.char)
		if got != testCase.cat {
			t.Errorf("catcode of %q: got %s, expected %s",
				testCase.char, got, testCase.cat)
		}
	}
}

func TestScopeRollback(t *testing.T) {
	table := NewTable()
	table.PushScope()
	table.Set('@', Letter)
	table.Set('%', Other)
	table.Set('@', Active)
	if table.Get('@') != Active || table.Get('%') != Other {
		t.Fatal("assignments not visible in scope")
	}
	err := table.PopScope()
	if err != nil {
		t.Fatal(err)
	}
	if table.Get('@') != Other {
		t.Error("catcode of @ not restored")
	}
	if table.Get('%') != Comment {
		t.Error("catcode of % not restored")
	}
	if table.Depth() != 0 {
		t.Error("scope stack not empty")
	}
}

func TestNestedScopes(t *testing.T) {
	table := NewTable()
	table.PushScope()
	table.Set('@', Letter)
	table.PushScope()
	table.Set('@', Active)
	table.PopScope()
	if table.Get('@') != Letter {
		t.Error("inner scope rollback failed")
	}
	table.PopScope()
	if table.Get('@') != Other {
		t.Error("outer scope rollback failed")
	}
}

func TestSetGlobal(t *testing.T) {
	table := NewTable()
	table.PushScope()
	table.Set('@', Letter)
	table.PushScope()
	table.SetGlobal('@', Active)
	table.PopScope()
	table.PopScope()
	if got := table.Get('@'); got != Active {
		t.Errorf("global assignment lost, got %s", got)
	}
	// unrelated scoped assignments must survive a global write
	table.PushScope()
	table.Set('!', Letter)
	table.SetGlobal('?', Active)
	table.PopScope()
	if table.Get('!') != Other {
		t.Error("scoped assignment not rolled back after global write")
	}
}

func TestUnderflow(t *testing.T) {
	table := NewTable()
	if err := table.PopScope(); err != ErrGroupUnderflow {
		t.Errorf("expected ErrGroupUnderflow, got %v", err)
	}
}
