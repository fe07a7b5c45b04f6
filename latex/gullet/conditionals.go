// conditionals.go -
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

	"github.com/seehuhn/typeset/latex/diag"
	"github.com/seehuhn/typeset/latex/macro"
	"github.com/seehuhn/typeset/latex/token"
)

// condStarters lists the control sequences which open a conditional,
// for counting nesting while skipping.
var condStarters = map[string]bool{
	"if": true, "ifx": true, "ifnum": true, "ifdim": true,
	"ifcat": true, "ifodd": true, "iftrue": true, "iffalse": true,
	"ifcase": true,
}

// conditional processes the outcome of a two-way conditional.  When
// the predicate is false, tokens are skipped without expansion up to
// the matching \else or \fi.
func (g *Gullet) conditional(val bool) error {
	if val {
		g.conds = append(g.conds, condFrame{})
		return nil
	}
	term, err := g.skipBranch(true, false)
	if err != nil {
		return err
	}
	if term == "else" {
		g.conds = append(g.conds, condFrame{})
	}
	return nil
}

// skipBranch reads raw tokens, without expanding them, until the
// conditional branch ends.  Nested conditionals are counted so that
// only the matching \else, \or or \fi terminates the skip.
func (g *Gullet) skipBranch(stopElse, stopOr bool) (string, error) {
	depth := 0
	for {
		tok, ok, err := g.NextRaw()
		if err != nil {
			return "", err
		}
		if !ok {
			return "", ErrConditionalUnclosed
		}
		if tok.Type != token.ControlSequence {
			continue
		}
		name := tok.Name
		if m := g.macros.Lookup(name); m != nil &&
			m.Def == nil && m.Alias != nil &&
			m.Alias.Type == token.ControlSequence {
			name = m.Alias.Name
		}
		if condStarters[name] {
			depth++
			continue
		}
		switch name {
		case "fi":
			if depth == 0 {
				return "fi", nil
			}
			depth--
		case "else":
			if depth == 0 && stopElse {
				return "else", nil
			}
		case "or":
			if depth == 0 && stopOr {
				return "or", nil
			}
		}
	}
}

// parseElse is reached when the true branch of a conditional has been
// processed; the else branch is skipped.
func (g *Gullet) parseElse() error {
	if len(g.conds) == 0 {
		g.reporter.Report(diag.Diagnostic{
			Severity: diag.Warning,
			Pos:      g.Pos(),
			Message:  "extra \\else ignored",
		})
		return nil
	}
	_, err := g.skipBranch(false, false)
	if err != nil {
		return err
	}
	g.conds = g.conds[:len(g.conds)-1]
	return nil
}

// parseOr ends the selected branch of an \ifcase.
func (g *Gullet) parseOr() error {
	if len(g.conds) == 0 {
		g.reporter.Report(diag.Diagnostic{
			Severity: diag.Warning,
			Pos:      g.Pos(),
			Message:  "extra \\or ignored",
		})
		return nil
	}
	if !g.conds[len(g.conds)-1].ifcase {
		g.reporter.Report(diag.Diagnostic{
			Severity: diag.Warning,
			Pos:      g.Pos(),
			Message:  "\\or outside \\ifcase",
		})
	}
	_, err := g.skipBranch(false, false)
	if err != nil {
		return err
	}
	g.conds = g.conds[:len(g.conds)-1]
	return nil
}

func (g *Gullet) parseFi() error {
	if len(g.conds) == 0 {
		g.reporter.Report(diag.Diagnostic{
			Severity: diag.Warning,
			Pos:      g.Pos(),
			Message:  "extra \\fi ignored",
		})
		return nil
	}
	g.conds = g.conds[:len(g.conds)-1]
	return nil
}

// parseIf implements \if (comparing character codes) and \ifcat
// (comparing category codes).  The comparison tokens are expanded
// first; unexpandable control sequences compare equal to each other
// and unequal to every character.
func (g *Gullet) parseIf(byCat bool) error {
	t1, err := g.ifToken()
	if err != nil {
		return err
	}
	t2, err := g.ifToken()
	if err != nil {
		return err
	}

	var val bool
	if t1.Type == token.ControlSequence || t2.Type == token.ControlSequence {
		val = t1.Type == t2.Type
	} else if byCat {
		val = t1.Cat == t2.Cat
	} else {
		val = t1.Char == t2.Char
	}
	return g.conditional(val)
}

func (g *Gullet) ifToken() (token.Token, error) {
	tok, ok, err := g.Next()
	if err != nil {
		return token.Token{}, err
	}
	if !ok {
		return token.Token{}, ErrConditionalUnclosed
	}
	return tok, nil
}

// parseIfx compares the meanings of the next two tokens without
// expanding them.
func (g *Gullet) parseIfx() error {
	t1, ok1, err := g.NextRaw()
	if err != nil {
		return err
	}
	t2, ok2, err := g.NextRaw()
	if err != nil {
		return err
	}
	if !ok1 || !ok2 {
		return ErrConditionalUnclosed
	}
	return g.conditional(g.meaningsEqual(t1, t2))
}

func (g *Gullet) meaningsEqual(t1, t2 token.Token) bool {
	c1, d1, n1 := g.resolveMeaning(t1)
	c2, d2, n2 := g.resolveMeaning(t2)
	switch {
	case c1 != nil && c2 != nil:
		return c1.Equal(*c2)
	case c1 != nil || c2 != nil:
		return false
	case d1 != nil || d2 != nil:
		return d1.Equal(d2)
	case n1 == n2:
		return true
	default:
		// two undefined control sequences have the same meaning
		return !g.nameIsKnown(n1) && !g.nameIsKnown(n2)
	}
}

// resolveMeaning normalises a token for \ifx comparison: character
// tokens stay as they are; control sequences resolve \let aliases and
// report their macro definition, if any.
func (g *Gullet) resolveMeaning(tok token.Token) (*token.Token, *macro.Def, string) {
	if tok.Type == token.Char {
		t := tok
		return &t, nil, ""
	}
	name := tok.Name
	if m := g.macros.Lookup(name); m != nil {
		if m.Def != nil {
			return nil, m.Def, ""
		}
		if m.Alias != nil {
			if m.Alias.Type == token.Char {
				return m.Alias, nil, ""
			}
			name = m.Alias.Name
		}
	}
	return nil, nil, name
}

func (g *Gullet) nameIsKnown(name string) bool {
	if expandables[name] != nil {
		return true
	}
	if g.IsPrimitive != nil && g.IsPrimitive(name) {
		return true
	}
	return false
}

// failedPredicate reports a malformed conditional predicate and skips
// the conditional as if it were false.  Other errors pass through
// unchanged.
func (g *Gullet) failedPredicate(err error) error {
	var kind error
	switch {
	case errors.Is(err, ErrBadNumber):
		kind = ErrBadNumber
	case errors.Is(err, ErrBadDimension):
		kind = ErrBadDimension
	default:
		return err
	}
	g.reporter.Report(diag.Diagnostic{
		Severity: diag.Error,
		Pos:      g.Pos(),
		Kind:     kind,
		Message:  err.Error(),
	})
	return g.conditional(false)
}

func (g *Gullet) parseIfnum() error {
	a, err := g.ScanInt()
	if err != nil {
		return g.failedPredicate(err)
	}
	rel, err := g.scanRelation()
	if err != nil {
		return g.failedPredicate(err)
	}
	b, err := g.ScanInt()
	if err != nil {
		return g.failedPredicate(err)
	}
	return g.conditional(compareInt(a, rel, b))
}

func (g *Gullet) parseIfdim() error {
	a, err := g.ScanDimen()
	if err != nil {
		return g.failedPredicate(err)
	}
	rel, err := g.scanRelation()
	if err != nil {
		return g.failedPredicate(err)
	}
	b, err := g.ScanDimen()
	if err != nil {
		return g.failedPredicate(err)
	}
	switch rel {
	case '<':
		return g.conditional(a < b)
	case '>':
		return g.conditional(a > b)
	default:
		return g.conditional(a == b)
	}
}

func (g *Gullet) parseIfodd() error {
	n, err := g.ScanInt()
	if err != nil {
		return g.failedPredicate(err)
	}
	if n < 0 {
		n = -n
	}
	return g.conditional(n%2 == 1)
}

func (g *Gullet) parseIfcase() error {
	n, err := g.ScanInt()
	if err != nil {
		return g.failedPredicate(err)
	}
	for i := 0; i < n; i++ {
		term, err := g.skipBranch(true, true)
		if err != nil {
			return err
		}
		switch term {
		case "or":
			continue
		case "else":
			g.conds = append(g.conds, condFrame{})
			return nil
		case "fi":
			return nil
		}
	}
	g.conds = append(g.conds, condFrame{ifcase: true})
	return nil
}

func (g *Gullet) scanRelation() (byte, error) {
	if err := g.SkipSpaces(); err != nil {
		return 0, err
	}
	tok, ok, err := g.Next()
	if err != nil {
		return 0, err
	}
	if !ok || tok.Type != token.Char ||
		(tok.Char != '<' && tok.Char != '=' && tok.Char != '>') {
		return 0, fmt.Errorf("%w: missing relation for conditional",
			ErrBadNumber)
	}
	return tok.Char, nil
}

func compareInt(a int, rel byte, b int) bool {
	switch rel {
	case '<':
		return a < b
	case '>':
		return a > b
	default:
		return a == b
	}
}
