// primitives.go -
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
	"fmt"
	"strconv"
	"strings"

	"github.com/seehuhn/typeset/latex/catcode"
	"github.com/seehuhn/typeset/latex/diag"
	"github.com/seehuhn/typeset/latex/macro"
	"github.com/seehuhn/typeset/latex/token"
)

// A handler either pushes the expansion of a primitive onto the
// pushback stack (returning nil), or returns a single token to be
// emitted directly.
type handler func(g *Gullet) (*token.Token, error)

var expandables map[string]handler

func init() {
	expandables = map[string]handler{
		"def":  func(g *Gullet) (*token.Token, error) { return nil, g.parseDef(defFlags{}) },
		"gdef": func(g *Gullet) (*token.Token, error) { return nil, g.parseDef(defFlags{global: true}) },
		"edef": func(g *Gullet) (*token.Token, error) { return nil, g.parseDef(defFlags{expand: true}) },
		"xdef": func(g *Gullet) (*token.Token, error) { return nil, g.parseDef(defFlags{global: true, expand: true}) },
		"let":  func(g *Gullet) (*token.Token, error) { return nil, g.parseLet(false) },

		"global":    func(g *Gullet) (*token.Token, error) { return nil, g.parsePrefix("global") },
		"long":      func(g *Gullet) (*token.Token, error) { return nil, g.parsePrefix("long") },
		"outer":     func(g *Gullet) (*token.Token, error) { return nil, g.parsePrefix("outer") },
		"protected": func(g *Gullet) (*token.Token, error) { return nil, g.parsePrefix("protected") },

		"expandafter":  parseExpandafter,
		"noexpand":     parseNoexpand,
		"csname":       parseCsname,
		"endcsname":    parseStrayEndcsname,
		"string":       parseString,
		"number":       parseNumber,
		"romannumeral": parseRomannumeral,
		"the":          parseThe,
		"input":        parseInput,

		"if":      func(g *Gullet) (*token.Token, error) { return nil, g.parseIf(false) },
		"ifcat":   func(g *Gullet) (*token.Token, error) { return nil, g.parseIf(true) },
		"ifx":     func(g *Gullet) (*token.Token, error) { return nil, g.parseIfx() },
		"ifnum":   func(g *Gullet) (*token.Token, error) { return nil, g.parseIfnum() },
		"ifdim":   func(g *Gullet) (*token.Token, error) { return nil, g.parseIfdim() },
		"ifodd":   func(g *Gullet) (*token.Token, error) { return nil, g.parseIfodd() },
		"iftrue":  func(g *Gullet) (*token.Token, error) { return nil, g.conditional(true) },
		"iffalse": func(g *Gullet) (*token.Token, error) { return nil, g.conditional(false) },
		"ifcase":  func(g *Gullet) (*token.Token, error) { return nil, g.parseIfcase() },
		"else":    func(g *Gullet) (*token.Token, error) { return nil, g.parseElse() },
		"or":      func(g *Gullet) (*token.Token, error) { return nil, g.parseOr() },
		"fi":      func(g *Gullet) (*token.Token, error) { return nil, g.parseFi() },
	}
}

type defFlags struct {
	global    bool
	expand    bool
	long      bool
	outer     bool
	protected bool
}

// parseDef reads a macro definition: the macro name, the parameter
// pattern up to the opening brace, and the balanced replacement text.
func (g *Gullet) parseDef(flags defFlags) error {
	nameTok, ok, err := g.NextRaw()
	if err != nil {
		return err
	}
	if !ok || nameTok.Type != token.ControlSequence {
		return fmt.Errorf("%w: missing control sequence after \\def",
			ErrParamMismatch)
	}

	var pattern token.List
	arity := 0
patternLoop:
	for {
		tok, ok, err := g.NextRaw()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: input ended inside definition of \\%s",
				ErrParamMismatch, nameTok.Name)
		}
		switch {
		case tok.Type == token.Char && tok.Cat == catcode.BeginGroup:
			break patternLoop
		case tok.Type == token.Char && tok.Cat == catcode.EndGroup:
			return fmt.Errorf("%w: unexpected } in definition of \\%s",
				ErrParamMismatch, nameTok.Name)
		case tok.Type == token.Parameter:
			// already converted, e.g. inside a macro replacement
			pattern = append(pattern, tok)
			if tok.Index > arity {
				arity = tok.Index
			}
		case tok.Type == token.Char && tok.Cat == catcode.Parameter:
			next, ok, err := g.NextRaw()
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: input ended inside definition of \\%s",
					ErrParamMismatch, nameTok.Name)
			}
			if next.Type == token.Char && next.Char >= '1' && next.Char <= '9' {
				idx := int(next.Char - '0')
				if idx != arity+1 {
					return fmt.Errorf(
						"%w: parameters of \\%s must be numbered consecutively",
						ErrParamMismatch, nameTok.Name)
				}
				arity = idx
				pattern = append(pattern, token.NewParam(idx))
			} else {
				// '#{' ends the pattern with a brace delimiter
				g.PushToken(next)
				if next.Type == token.Char && next.Cat == catcode.BeginGroup {
					break patternLoop
				}
				pattern = append(pattern, tok)
			}
		default:
			pattern = append(pattern, tok)
		}
	}

	body, err := g.readReplacement(nameTok.Name)
	if err != nil {
		return err
	}
	if flags.expand {
		body, err = g.ExpandList(body)
		if err != nil {
			return err
		}
	}

	g.macros.Define(nameTok.Name, &macro.Def{
		Pattern:     pattern,
		Replacement: body,
		Arity:       arity,
		Long:        flags.long,
		Outer:       flags.outer,
		Protected:   flags.protected,
	}, flags.global)
	return nil
}

// readReplacement reads a balanced replacement text, converting #n
// into parameter tokens and ## into a literal parameter character.
func (g *Gullet) readReplacement(defName string) (token.List, error) {
	var res token.List
	depth := 0
	for {
		tok, ok, err := g.NextRaw()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: input ended inside replacement of \\%s",
				ErrParamMismatch, defName)
		}
		if tok.Type == token.Char {
			switch tok.Cat {
			case catcode.BeginGroup:
				depth++
			case catcode.EndGroup:
				if depth == 0 {
					return res, nil
				}
				depth--
			case catcode.Parameter:
				next, ok, err := g.NextRaw()
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, fmt.Errorf(
						"%w: input ended inside replacement of \\%s",
						ErrParamMismatch, defName)
				}
				switch {
				case next.Type == token.Char && next.Cat == catcode.Parameter:
					res = append(res, tok)
				case next.Type == token.Char && next.Char >= '1' && next.Char <= '9':
					res = append(res, token.NewParam(int(next.Char-'0')))
				default:
					g.PushToken(next)
					res = append(res, tok)
				}
				continue
			}
		}
		res = append(res, tok)
	}
}

// parseLet implements \let: an alias to the meaning of the next
// token, with an optional equals sign in between.
func (g *Gullet) parseLet(global bool) error {
	nameTok, ok, err := g.NextRaw()
	if err != nil {
		return err
	}
	if !ok || nameTok.Type != token.ControlSequence {
		return fmt.Errorf("%w: missing control sequence after \\let",
			ErrParamMismatch)
	}

	if err := g.SkipSpaces(); err != nil {
		return err
	}
	tok, ok, err := g.NextRaw()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: input ended after \\let", ErrParamMismatch)
	}
	if tok.IsChar('=', catcode.Other) {
		// one optional space after the equals sign
		tok, ok, err = g.NextRaw()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: input ended after \\let", ErrParamMismatch)
		}
		if tok.Type == token.Char && tok.Cat == catcode.Space {
			tok, ok, err = g.NextRaw()
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: input ended after \\let",
					ErrParamMismatch)
			}
		}
	}

	g.macros.Let(nameTok.Name, tok, global)
	return nil
}

// parsePrefix collects \global, \long, \outer and \protected
// prefixes.  A prefix chain ending in a definition applies to it;
// otherwise the prefixes are handed on to the digester unchanged, so
// that e.g. \global\catcode still works.
func (g *Gullet) parsePrefix(first string) error {
	flags := defFlags{}
	names := []string{first}
	apply := func(name string) {
		switch name {
		case "global":
			flags.global = true
		case "long":
			flags.long = true
		case "outer":
			flags.outer = true
		case "protected":
			flags.protected = true
		}
	}
	apply(first)

	for {
		tok, ok, err := g.NextRaw()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if tok.Type == token.Char && tok.Cat == catcode.Space {
			continue
		}
		if tok.Type == token.ControlSequence {
			switch tok.Name {
			case "global", "long", "outer", "protected":
				apply(tok.Name)
				names = append(names, tok.Name)
				continue
			case "def":
				return g.parseDef(flags)
			case "gdef":
				flags.global = true
				return g.parseDef(flags)
			case "edef":
				flags.expand = true
				return g.parseDef(flags)
			case "xdef":
				flags.global = true
				flags.expand = true
				return g.parseDef(flags)
			case "let":
				return g.parseLet(flags.global)
			}
		}

		// not a definition: let the digester see the prefixes.
		// The NoExpand flag keeps Next from re-entering this
		// handler for the pushed-back tokens.
		g.PushToken(tok)
		for i := len(names) - 1; i >= 0; i-- {
			pfx := token.NewCS(names[i])
			pfx.NoExpand = true
			g.PushToken(pfx)
		}
		return nil
	}
}

func parseExpandafter(g *Gullet) (*token.Token, error) {
	saved, ok, err := g.NextRaw()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: input ended after \\expandafter",
			ErrParamMismatch)
	}
	next, ok, err := g.NextRaw()
	if err != nil {
		return nil, err
	}
	if ok {
		err = g.expandOnce(next)
		if err != nil {
			return nil, err
		}
	}
	g.PushToken(saved)
	return nil, nil
}

func parseNoexpand(g *Gullet) (*token.Token, error) {
	tok, ok, err := g.NextRaw()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	if tok.Type == token.ControlSequence {
		tok.NoExpand = true
	}
	g.PushToken(tok)
	return nil, nil
}

func parseCsname(g *Gullet) (*token.Token, error) {
	var name []byte
	for {
		tok, ok, err := g.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: input ended inside \\csname",
				ErrParamMismatch)
		}
		if tok.IsCS("endcsname") {
			break
		}
		if tok.Type != token.Char {
			return nil, fmt.Errorf(
				"%w: unexpandable token \\%s inside \\csname",
				ErrParamMismatch, tok.Name)
		}
		name = append(name, tok.Char)
	}

	cs := string(name)
	if g.macros.Lookup(cs) == nil && expandables[cs] == nil &&
		(g.IsPrimitive == nil || !g.IsPrimitive(cs)) {
		// like TeX, an unknown \csname becomes \relax
		g.macros.Let(cs, token.NewCS("relax"), false)
	}
	g.PushToken(token.NewCS(cs))
	return nil, nil
}

func parseStrayEndcsname(g *Gullet) (*token.Token, error) {
	g.reporter.Report(diag.Diagnostic{
		Severity: diag.Warning,
		Pos:      g.Pos(),
		Message:  "extra \\endcsname ignored",
	})
	return nil, nil
}

func parseString(g *Gullet) (*token.Token, error) {
	tok, ok, err := g.NextRaw()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var s string
	if tok.Type == token.ControlSequence {
		s = "\\" + tok.Name
	} else {
		s = string(rune(tok.Char))
	}
	g.PushTokens(othersFromString(s))
	return nil, nil
}

func parseNumber(g *Gullet) (*token.Token, error) {
	n, err := g.ScanInt()
	if err != nil {
		return nil, err
	}
	g.PushTokens(othersFromString(strconv.Itoa(n)))
	return nil, nil
}

func parseRomannumeral(g *Gullet) (*token.Token, error) {
	n, err := g.ScanInt()
	if err != nil {
		return nil, err
	}
	g.PushTokens(othersFromString(RomanLower(n)))
	return nil, nil
}

func parseThe(g *Gullet) (*token.Token, error) {
	if err := g.SkipSpaces(); err != nil {
		return nil, err
	}
	tok, ok, err := g.NextRaw()
	if err != nil {
		return nil, err
	}
	if !ok || tok.Type != token.ControlSequence {
		return nil, fmt.Errorf("%w: missing internal quantity after \\the",
			ErrParamMismatch)
	}
	if g.Internals == nil {
		g.reporter.Report(diag.Diagnostic{
			Severity: diag.Warning,
			Pos:      g.Pos(),
			Message:  "\\the\\" + tok.Name + " has no value here",
		})
		return nil, nil
	}
	toks, err := g.Internals.TheTokens(g, tok.Name)
	if err != nil {
		return nil, err
	}
	g.PushTokens(toks)
	return nil, nil
}

func parseInput(g *Gullet) (*token.Token, error) {
	arg, err := g.ReadGroup()
	if err != nil {
		return nil, err
	}
	name := arg.PlainText()
	if !strings.Contains(name, ".") {
		name += ".tex"
	}
	err = g.mouth.Include(name)
	if err != nil {
		g.reporter.Report(diag.Diagnostic{
			Severity: diag.Error,
			Pos:      g.Pos(),
			Message:  "cannot \\input " + name + ": " + err.Error(),
		})
	}
	return nil, nil
}

// othersFromString converts plain text to character tokens of
// category other, with spaces keeping category space.  This is the
// form produced by \string, \number and \romannumeral.
func othersFromString(s string) token.List {
	var res token.List
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			res = append(res, token.NewSpace())
		} else {
			res = append(res, token.NewOther(s[i]))
		}
	}
	return res
}

// RomanLower formats n as a lowercase roman numeral.  The result is
// empty for n <= 0, matching the behaviour of \romannumeral.
func RomanLower(n int) string {
	if n <= 0 {
		return ""
	}
	var digits = []struct {
		value int
		text  string
	}{
		{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
		{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
		{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
	}
	var res []string
	for _, d := range digits {
		for n >= d.value {
			res = append(res, d.text)
			n -= d.value
		}
	}
	return strings.Join(res, "")
}
