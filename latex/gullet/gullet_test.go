// gullet_test.go -
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
	"testing"

	"github.com/seehuhn/typeset/latex/catcode"
	"github.com/seehuhn/typeset/latex/diag"
	"github.com/seehuhn/typeset/latex/macro"
	"github.com/seehuhn/typeset/latex/mouth"
	"github.com/seehuhn/typeset/latex/token"
)

func newTestGullet(input string) (*Gullet, *diag.List) {
	cats := catcode.NewTable()
	m := mouth.New(cats)
	m.Prepend([]byte(input), "test data")
	list := &diag.List{}
	m.SetReporter(list)
	g := New(m, macro.NewStore(), cats)
	g.SetReporter(list)
	return g, list
}

func expandAll(t *testing.T, input string) token.List {
	t.Helper()
	g, _ := newTestGullet(input)
	var res token.List
	for {
		tok, ok, err := g.Next()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		res = append(res, tok)
	}
	return res
}

func TestMacroExpansion(t *testing.T) {
	testCases := []struct {
		in  string
		out string
	}{
		{"\\def\\x#1{#1}\\x{foo}", "foo"},
		{"\\def\\greet#1{Hello, #1!}\\greet{world}", "Hello, world!"},
		{"\\def\\x{a}\\x\\x\\x", "aaa"},
		{"\\def\\pair#1,#2.{(#1|#2)}\\pair u,v.", "(u|v)"},
		{"\\def\\twice#1{#1#1}\\twice{ab}", "abab"},
		{"\\def\\x#1{[#1]}\\x y", "[y]"},
		{"\\def\\a{x}\\def\\b{\\a\\a}\\b", "xx"},
	}
	for i, testCase := range testCases {
		got := expandAll(t, testCase.in)
		if got.String() != testCase.out {
			t.Errorf("test %d: got %q, expected %q",
				i, got.String(), testCase.out)
		}
	}
}

func TestEdef(t *testing.T) {
	// \edef expands the body at definition time
	got := expandAll(t, "\\def\\a{x}\\edef\\b{\\a}\\def\\a{y}\\b")
	if got.String() != "x" {
		t.Errorf("\\edef body not expanded at definition time: %q",
			got.String())
	}

	// \noexpand defers the expansion until use
	got = expandAll(t, "\\def\\a{x}\\edef\\b{\\noexpand\\a}\\def\\a{y}\\b")
	if got.String() != "y" {
		t.Errorf("\\noexpand inside \\edef failed: %q", got.String())
	}
}

func TestExpandafter(t *testing.T) {
	got := expandAll(t, "\\def\\a{A}\\expandafter\\b\\a")
	expected := token.List{token.NewCS("b"), token.NewLetter('A')}
	if !got.Equal(expected) {
		t.Errorf("got %q, expected %q", got.String(), expected.String())
	}

	// the classic \expandafter\def\csname ...\endcsname idiom
	got = expandAll(t,
		"\\expandafter\\def\\csname hello\\endcsname{hi}\\hello")
	if got.String() != "hi" {
		t.Errorf("\\expandafter\\def\\csname failed: %q", got.String())
	}
}

func TestCsname(t *testing.T) {
	got := expandAll(t, "\\def\\xyz{ok}\\csname xyz\\endcsname")
	if got.String() != "ok" {
		t.Errorf("\\csname of defined macro: got %q", got.String())
	}

	// an unknown name becomes \relax
	got = expandAll(t, "\\csname nosuchname\\endcsname")
	expected := token.List{token.NewCS("relax")}
	if !got.Equal(expected) {
		t.Errorf("unknown \\csname: got %q", got.String())
	}
}

func TestStringNumberRoman(t *testing.T) {
	testCases := []struct {
		in  string
		out string
	}{
		{"\\string\\foo", "\\foo"},
		{"\\string a", "a"},
		{"\\number42 x", "42x"},
		{"\\number-7 x", "-7x"},
		{"\\number'17 x", "15x"},
		{"\\number\"1F x", "31x"},
		{"\\number`a x", "97x"},
		{"\\romannumeral 2026 x", "mmxxvix"},
		{"\\romannumeral 4 x", "ivx"},
	}
	for i, testCase := range testCases {
		got := expandAll(t, testCase.in)
		if got.String() != testCase.out {
			t.Errorf("test %d: got %q, expected %q",
				i, got.String(), testCase.out)
		}
	}
}

func TestLet(t *testing.T) {
	got := expandAll(t, "\\let\\a=b\\a")
	expected := token.List{token.NewLetter('b')}
	if !got.Equal(expected) {
		t.Errorf("\\let to character: got %q", got.String())
	}

	got = expandAll(t, "\\def\\orig{q}\\let\\copy\\orig\\def\\orig{r}\\copy")
	if got.String() != "q" {
		t.Errorf("\\let does not freeze the meaning: %q", got.String())
	}
}

func TestConditionals(t *testing.T) {
	testCases := []struct {
		in  string
		out string
	}{
		{"\\iftrue a\\else b\\fi", "a"},
		{"\\iffalse a\\else b\\fi", "b"},
		{"\\iffalse a\\fi b", "b"},
		{"\\ifnum 1=2 never\\else always\\fi", "always"},
		{"\\ifnum 3>2 big\\fi", "big"},
		{"\\ifnum 2<10 yes\\else no\\fi", "yes"},
		{"\\ifodd 3 odd\\else even\\fi", "odd"},
		{"\\ifodd 4 odd\\else even\\fi", "even"},
		{"\\ifdim 1in>72pt yes\\else no\\fi", "yes"},
		{"\\ifdim 1pc=12pt yes\\else no\\fi", "yes"},
		{"\\if aat\\else f\\fi", "t"},
		{"\\if abt\\else f\\fi", "f"},
		{"\\ifcat a1t\\else f\\fi", "f"},
		{"\\ifcat abt\\else f\\fi", "t"},
		{"\\ifcase 2 a\\or b\\or c\\or d\\fi", "c"},
		{"\\ifcase 0 a\\or b\\fi", "a"},
		{"\\ifcase 9 a\\or b\\else z\\fi", "z"},
		{"\\iftrue \\iffalse x\\else y\\fi z\\else w\\fi", "yz"},
		{"\\iffalse \\iftrue x\\fi \\else ok\\fi", "ok"},
		{"\\def\\a{q}\\def\\b{q}\\ifx\\a\\b y\\else n\\fi", "y"},
		{"\\def\\a{q}\\def\\b{r}\\ifx\\a\\b y\\else n\\fi", "n"},
		{"\\ifx\\undefA\\undefB y\\else n\\fi", "y"},
	}
	for i, testCase := range testCases {
		got := expandAll(t, testCase.in)
		if got.String() != testCase.out {
			t.Errorf("test %d (%q): got %q, expected %q",
				i, testCase.in, got.String(), testCase.out)
		}
	}
}

func TestConditionalBadNumber(t *testing.T) {
	// a malformed predicate is reported and the conditional is
	// skipped as if it were false
	testCases := []struct {
		in  string
		out string
	}{
		{"\\ifnum 1=a x\\fi ok", "ok"},
		{"\\ifnum x<2 a\\else b\\fi ok", "bok"},
		{"\\ifdim 1pt=x a\\fi ok", "ok"},
		{"\\ifodd q a\\else b\\fi ok", "bok"},
		{"\\ifcase x a\\or b\\fi ok", "ok"},
	}
	for i, testCase := range testCases {
		g, list := newTestGullet(testCase.in)
		var got token.List
		for {
			tok, ok, err := g.Next()
			if err != nil {
				t.Fatal(err)
			}
			if !ok {
				break
			}
			got = append(got, tok)
		}
		if got.String() != testCase.out {
			t.Errorf("test %d (%q): got %q, expected %q",
				i, testCase.in, got.String(), testCase.out)
		}
		found := false
		for _, d := range list.Items {
			if errors.Is(d.Kind, ErrBadNumber) ||
				errors.Is(d.Kind, ErrBadDimension) {
				found = true
			}
		}
		if !found {
			t.Errorf("test %d (%q): bad predicate not reported",
				i, testCase.in)
		}
	}
}

func TestNumberScanRecovery(t *testing.T) {
	g, list := newTestGullet("\\number q")
	var got token.List
	for {
		tok, ok, err := g.Next()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		got = append(got, tok)
	}
	expected := token.List{token.NewCS("relax"), token.NewLetter('q')}
	if !got.Equal(expected) {
		t.Errorf("got %q, expected %q", got.String(), expected.String())
	}
	found := false
	for _, d := range list.Items {
		if errors.Is(d.Kind, ErrBadNumber) {
			found = true
		}
	}
	if !found {
		t.Error("missing number not reported")
	}
}

func TestSkippedBranchNotExpanded(t *testing.T) {
	// a \def inside the skipped branch must not be executed
	got := expandAll(t, "\\iffalse\\def\\y{z}\\fi\\y")
	expected := token.List{token.NewCS("y")}
	if !got.Equal(expected) {
		t.Errorf("false branch was processed: %q", got.String())
	}
}

func TestExpansionDeterminism(t *testing.T) {
	const input = "\\def\\x#1{(#1)}\\x{a}\\ifnum 1<2\\x{b}\\fi"
	first := expandAll(t, input)
	second := expandAll(t, input)
	if !first.Equal(second) {
		t.Error("expansion is not deterministic")
	}
}

func TestExpansionOverflow(t *testing.T) {
	g, _ := newTestGullet("\\def\\x{\\x}\\x")
	for {
		_, ok, err := g.Next()
		if err != nil {
			if !errors.Is(err, ErrExpansionOverflow) {
				t.Errorf("expected ErrExpansionOverflow, got %v", err)
			}
			return
		}
		if !ok {
			t.Fatal("runaway macro terminated without error")
		}
	}
}

func TestParamMismatchRecovery(t *testing.T) {
	g, list := newTestGullet("\\def\\x#1.{#1}\\x a")
	var res token.List
	for {
		tok, ok, err := g.Next()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		res = append(res, tok)
	}
	found := false
	for _, tok := range res {
		if tok.IsCS("relax") {
			found = true
		}
	}
	if !found {
		t.Errorf("no \\relax placeholder emitted: %q", res.String())
	}
	errs, _ := list.Counts()
	if errs != 1 {
		t.Errorf("expected one error diagnostic, got %d", errs)
	}
}

func TestConditionalUnclosed(t *testing.T) {
	g, _ := newTestGullet("\\iffalse abc")
	for {
		_, ok, err := g.Next()
		if err != nil {
			if !errors.Is(err, ErrConditionalUnclosed) {
				t.Errorf("expected ErrConditionalUnclosed, got %v", err)
			}
			return
		}
		if !ok {
			t.Fatal("unclosed conditional not detected")
		}
	}
}

func TestScanDimen(t *testing.T) {
	testCases := []struct {
		in  string
		out float64
	}{
		{"10pt ", 10},
		{"1in ", 72.27},
		{"2.5pt ", 2.5},
		{"-1pc ", -12},
		{"72bp ", 72.27},
	}
	for i, testCase := range testCases {
		g, _ := newTestGullet(testCase.in)
		got, err := g.ScanDimen()
		if err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		diff := got - testCase.out
		if diff < -1e-6 || diff > 1e-6 {
			t.Errorf("test %d: got %g, expected %g", i, got, testCase.out)
		}
	}
}
