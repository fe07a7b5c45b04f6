// gullet.go -
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

// Package gullet implements the expansion stage of the pipeline.  It
// pulls tokens from the mouth, expands user macros and expandable
// primitives, and hands the expanded stream to the digester.
package gullet

import (
	"errors"
	"fmt"

	"github.com/seehuhn/typeset/latex/catcode"
	"github.com/seehuhn/typeset/latex/diag"
	"github.com/seehuhn/typeset/latex/macro"
	"github.com/seehuhn/typeset/latex/mouth"
	"github.com/seehuhn/typeset/latex/token"
)

// MaxExpansionDepth is the default limit on nested macro expansions.
const MaxExpansionDepth = 1000

var (
	// ErrExpansionOverflow indicates that the expansion depth limit
	// was exceeded, most likely by a runaway recursive macro.  This
	// error is fatal.
	ErrExpansionOverflow = errors.New("expansion depth exceeded")

	// ErrParamMismatch indicates that the argument text of a macro
	// call did not match the macro's parameter pattern.
	ErrParamMismatch = errors.New("use of macro does not match its definition")

	// ErrConditionalUnclosed indicates that the input ended inside a
	// conditional.
	ErrConditionalUnclosed = errors.New("input ended inside a conditional")
)

// Internals gives the expander access to internal quantities owned by
// the digester, for use by \the and friends.  The name is the control
// sequence after \the, e.g. "value" for \the\value{...}.
type Internals interface {
	TheTokens(g *Gullet, name string) (token.List, error)
}

// Gullet is the expansion stage.  It augments the token stream from
// the mouth with a pushback stack, so that macro expansions and
// tokens inserted by primitives are read before fresh input.
type Gullet struct {
	MaxDepth  int
	Internals Internals

	// IsPrimitive reports whether the digester knows the given
	// control sequence name.  Used by \csname to decide whether an
	// unknown name must be bound to \relax.
	IsPrimitive func(name string) bool

	mouth    *mouth.Mouth
	macros   *macro.Store
	cats     *catcode.Table
	pushback []token.Token
	depth    int
	conds    []condFrame
	reporter diag.Reporter
}

type condFrame struct {
	// ifcase is true while executing a branch of an \ifcase, where
	// \or ends the branch as well as \else.
	ifcase bool
}

// New allocates a new Gullet reading from the given mouth.
func New(m *mouth.Mouth, macros *macro.Store, cats *catcode.Table) *Gullet {
	return &Gullet{
		MaxDepth: MaxExpansionDepth,
		mouth:    m,
		macros:   macros,
		cats:     cats,
		reporter: diag.Log{},
	}
}

// SetReporter installs the reporter which receives expansion
// diagnostics.
func (g *Gullet) SetReporter(r diag.Reporter) {
	g.reporter = r
}

// Macros returns the macro store used by the expander.
func (g *Gullet) Macros() *macro.Store {
	return g.macros
}

// Catcodes returns the category table used by the tokenizer.
func (g *Gullet) Catcodes() *catcode.Table {
	return g.cats
}

// Mouth returns the tokenization stage, for primitives which need raw
// byte access (\verb, verbatim environments, \input).
func (g *Gullet) Mouth() *mouth.Mouth {
	return g.mouth
}

// Pos reports the current input position for diagnostics.
func (g *Gullet) Pos() string {
	return g.mouth.Pos().String()
}

// PushToken pushes a single token back into the input.  It will be
// the next token read.
func (g *Gullet) PushToken(tok token.Token) {
	g.pushback = append(g.pushback, tok)
}

// PushTokens pushes a token list back into the input.  The first
// element of the list will be the next token read.
func (g *Gullet) PushTokens(toks token.List) {
	for i := len(toks) - 1; i >= 0; i-- {
		g.pushback = append(g.pushback, toks[i])
	}
}

// NextRaw returns the next token without performing any expansion.
func (g *Gullet) NextRaw() (token.Token, bool, error) {
	if n := len(g.pushback); n > 0 {
		tok := g.pushback[n-1]
		g.pushback = g.pushback[:n-1]
		return tok, true, nil
	}
	return g.mouth.NextToken()
}

// Next returns the next token of the fully expanded token stream.
// Character tokens and non-expandable control sequences are returned
// unchanged; everything else is expanded first.
func (g *Gullet) Next() (token.Token, bool, error) {
	for {
		tok, ok, err := g.NextRaw()
		if err != nil || !ok {
			return tok, ok, err
		}
		if tok.Type != token.ControlSequence {
			g.depth = 0
			return tok, true, nil
		}
		if tok.NoExpand {
			tok.NoExpand = false
			g.depth = 0
			return tok, true, nil
		}

		name := tok.Name
		if m := g.macros.Lookup(name); m != nil {
			if m.Def != nil {
				err := g.expandMacro(m.Def, name)
				if err != nil {
					if tok, ok := g.recover(err); ok {
						return tok, true, nil
					}
					return token.Token{}, false, err
				}
				continue
			}
			if m.Alias != nil {
				alias := *m.Alias
				if alias.Type == token.Char {
					g.depth = 0
					return alias, true, nil
				}
				name = alias.Name
			}
		}

		if fn := expandables[name]; fn != nil {
			g.depth++
			if g.depth > g.MaxDepth {
				return token.Token{}, false,
					fmt.Errorf("%w at \\%s", ErrExpansionOverflow, name)
			}
			emit, err := fn(g)
			if err != nil {
				if tok, ok := g.recover(err); ok {
					return tok, true, nil
				}
				return token.Token{}, false, err
			}
			if emit != nil {
				g.depth = 0
				return *emit, true, nil
			}
			continue
		}

		g.depth = 0
		if name != tok.Name {
			// alias to a primitive; hand the resolved name on
			return token.NewCS(name), true, nil
		}
		return tok, true, nil
	}
}

// recover handles recoverable expansion errors by reporting them and
// substituting \relax for the failed construct.
func (g *Gullet) recover(err error) (token.Token, bool) {
	var kind error
	switch {
	case errors.Is(err, ErrParamMismatch):
		kind = ErrParamMismatch
	case errors.Is(err, ErrBadNumber):
		kind = ErrBadNumber
	case errors.Is(err, ErrBadDimension):
		kind = ErrBadDimension
	default:
		return token.Token{}, false
	}
	g.reporter.Report(diag.Diagnostic{
		Severity: diag.Error,
		Pos:      g.Pos(),
		Kind:     kind,
		Message:  err.Error(),
	})
	return token.NewCS("relax"), true
}

// expandMacro matches the macro's parameter pattern against the input
// and pushes the substituted replacement text.
func (g *Gullet) expandMacro(def *macro.Def, name string) error {
	g.depth++
	if g.depth > g.MaxDepth {
		return fmt.Errorf("%w at \\%s", ErrExpansionOverflow, name)
	}

	args, err := g.matchParams(def, name)
	if err != nil {
		return err
	}

	var out token.List
	for _, tok := range def.Replacement {
		if tok.Type == token.Parameter {
			if tok.Index >= 1 && tok.Index <= len(args) {
				out = append(out, args[tok.Index-1]...)
			}
		} else {
			out = append(out, tok)
		}
	}
	g.PushTokens(out)
	return nil
}

// ExpandList fully expands the given token list, as needed by \edef.
func (g *Gullet) ExpandList(toks token.List) (token.List, error) {
	g.PushToken(token.NewCS(expandBoundary))
	g.PushTokens(toks)
	var res token.List
	for {
		tok, ok, err := g.Next()
		if err != nil {
			return nil, err
		}
		if !ok || tok.IsCS(expandBoundary) {
			break
		}
		res = append(res, tok)
	}
	return res, nil
}

// expandBoundary is an internal marker; the NUL byte keeps it from
// colliding with any name the tokenizer can produce.
const expandBoundary = "\x00boundary"

// expandOnce performs a single expansion step on the given token, as
// needed by \expandafter.  Unexpandable tokens are pushed back
// unchanged.
func (g *Gullet) expandOnce(tok token.Token) error {
	if tok.Type != token.ControlSequence || tok.NoExpand {
		g.PushToken(tok)
		return nil
	}
	name := tok.Name
	if m := g.macros.Lookup(name); m != nil {
		if m.Def != nil {
			return g.expandMacro(m.Def, name)
		}
		if m.Alias != nil && m.Alias.Type == token.ControlSequence {
			name = m.Alias.Name
		}
	}
	if fn := expandables[name]; fn != nil {
		emit, err := fn(g)
		if err != nil {
			return err
		}
		if emit != nil {
			g.PushToken(*emit)
		}
		return nil
	}
	g.PushToken(tok)
	return nil
}

// ReadBalanced reads raw tokens up to and including the end-group
// token matching an already consumed begin-group token.  The
// end-group token itself is not included in the result.
func (g *Gullet) ReadBalanced() (token.List, error) {
	var res token.List
	depth := 0
	for {
		tok, ok, err := g.NextRaw()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: input ended inside a group",
				ErrParamMismatch)
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
			}
		}
		res = append(res, tok)
	}
}

// ReadGroup reads a macro-style argument: either a balanced {...}
// group, or a single token.  Leading space tokens are skipped.
func (g *Gullet) ReadGroup() (token.List, error) {
	for {
		tok, ok, err := g.NextRaw()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: input ended while scanning an argument",
				ErrParamMismatch)
		}
		if tok.Type == token.Char && tok.Cat == catcode.Space {
			continue
		}
		if tok.Type == token.Char && tok.Cat == catcode.BeginGroup {
			return g.ReadBalanced()
		}
		return token.List{tok}, nil
	}
}

// ReadGroupExpanded is like ReadGroup, but tokens inside the group
// are fully expanded.
func (g *Gullet) ReadGroupExpanded() (token.List, error) {
	toks, err := g.ReadGroup()
	if err != nil {
		return nil, err
	}
	return g.ExpandList(toks)
}

// ReadOptional reads a LaTeX-style optional [...] argument.  It
// returns nil and leaves the input alone if no bracket follows.
func (g *Gullet) ReadOptional() (token.List, bool, error) {
	var skipped token.List
	for {
		tok, ok, err := g.NextRaw()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			g.PushTokens(skipped)
			return nil, false, nil
		}
		if tok.Type == token.Char && tok.Cat == catcode.Space {
			skipped = append(skipped, tok)
			continue
		}
		if !tok.IsChar('[', catcode.Other) {
			g.PushToken(tok)
			g.PushTokens(skipped)
			return nil, false, nil
		}
		break
	}

	var res token.List
	depth := 0
	for {
		tok, ok, err := g.NextRaw()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, fmt.Errorf(
				"%w: input ended inside an optional argument",
				ErrParamMismatch)
		}
		if tok.Type == token.Char {
			switch {
			case tok.Cat == catcode.BeginGroup:
				depth++
			case tok.Cat == catcode.EndGroup:
				depth--
			case depth == 0 && tok.IsChar(']', catcode.Other):
				return res, true, nil
			}
		}
		res = append(res, tok)
	}
}

// SkipSpaces discards space tokens from the raw input.
func (g *Gullet) SkipSpaces() error {
	for {
		tok, ok, err := g.NextRaw()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if tok.Type != token.Char || tok.Cat != catcode.Space {
			g.PushToken(tok)
			return nil
		}
	}
}
