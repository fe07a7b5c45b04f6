// params.go -
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

	"github.com/seehuhn/typeset/latex/catcode"
	"github.com/seehuhn/typeset/latex/macro"
	"github.com/seehuhn/typeset/latex/token"
)

// matchParams scans the input for the arguments of a macro call,
// following the macro's parameter pattern.
func (g *Gullet) matchParams(def *macro.Def, name string) ([]token.List, error) {
	var args []token.List
	pat := def.Pattern
	i := 0
	for i < len(pat) {
		p := pat[i]
		if p.Type != token.Parameter {
			tok, ok, err := g.NextRaw()
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf(
					"%w: input ended while matching \\%s",
					ErrParamMismatch, name)
			}
			if !tok.Equal(p) {
				return nil, fmt.Errorf(
					"%w: \\%s expected %q, found %q",
					ErrParamMismatch, name, p.String(), tok.String())
			}
			i++
			continue
		}

		// find the delimiter tokens following this parameter
		j := i + 1
		for j < len(pat) && pat[j].Type != token.Parameter {
			j++
		}
		delims := pat[i+1 : j]

		var arg token.List
		var err error
		if len(delims) == 0 {
			arg, err = g.readUndelimited(def, name)
			i++
		} else {
			arg, err = g.readDelimited(delims, def, name)
			i = j
		}
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

// readUndelimited reads a single undelimited macro argument: the next
// non-space token, or the next balanced group.
func (g *Gullet) readUndelimited(def *macro.Def, name string) (token.List, error) {
	for {
		tok, ok, err := g.NextRaw()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf(
				"%w: input ended while scanning argument of \\%s",
				ErrParamMismatch, name)
		}
		if tok.Type == token.Char && tok.Cat == catcode.Space {
			continue
		}
		if err := g.checkArgToken(tok, def, name); err != nil {
			return nil, err
		}
		if tok.Type == token.Char {
			switch tok.Cat {
			case catcode.BeginGroup:
				return g.ReadBalanced()
			case catcode.EndGroup:
				return nil, fmt.Errorf(
					"%w: unexpected end of group in argument of \\%s",
					ErrParamMismatch, name)
			}
		}
		return token.List{tok}, nil
	}
}

// readDelimited reads a delimited macro argument: all tokens up to
// the next occurrence of the delimiter sequence at brace depth zero.
// One pair of outer braces is stripped if the whole argument is a
// single balanced group.
func (g *Gullet) readDelimited(delims token.List, def *macro.Def, name string) (token.List, error) {
	var arg token.List
	depth := 0
	matched := 0
	for {
		tok, ok, err := g.NextRaw()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf(
				"%w: input ended while scanning argument of \\%s",
				ErrParamMismatch, name)
		}

		if depth == 0 && tok.Equal(delims[matched]) {
			matched++
			if matched == len(delims) {
				break
			}
			continue
		}
		if matched > 0 {
			// a partial delimiter match failed: its first token
			// joins the argument, the rest is rescanned
			arg = append(arg, delims[0])
			g.PushToken(tok)
			g.PushTokens(delims[1:matched])
			matched = 0
			continue
		}

		if err := g.checkArgToken(tok, def, name); err != nil {
			return nil, err
		}
		if tok.Type == token.Char {
			switch tok.Cat {
			case catcode.BeginGroup:
				depth++
			case catcode.EndGroup:
				if depth == 0 {
					return nil, fmt.Errorf(
						"%w: unexpected end of group in argument of \\%s",
						ErrParamMismatch, name)
				}
				depth--
			}
		}
		arg = append(arg, tok)
	}
	return stripOuterBraces(arg), nil
}

// checkArgToken rejects \par in arguments of non-\long macros and any
// \outer macro inside an argument.
func (g *Gullet) checkArgToken(tok token.Token, def *macro.Def, name string) error {
	if tok.Type != token.ControlSequence {
		return nil
	}
	if !def.Long && tok.Name == "par" {
		return fmt.Errorf(
			"%w: paragraph ended while scanning argument of \\%s",
			ErrParamMismatch, name)
	}
	if m := g.macros.Lookup(tok.Name); m != nil && m.Def != nil && m.Def.Outer {
		return fmt.Errorf(
			"%w: \\outer macro \\%s in argument of \\%s",
			ErrParamMismatch, tok.Name, name)
	}
	return nil
}

// stripOuterBraces removes one pair of enclosing group braces if they
// span the whole list.
func stripOuterBraces(toks token.List) token.List {
	if len(toks) < 2 {
		return toks
	}
	first, last := toks[0], toks[len(toks)-1]
	if first.Type != token.Char || first.Cat != catcode.BeginGroup ||
		last.Type != token.Char || last.Cat != catcode.EndGroup {
		return toks
	}
	depth := 0
	for _, tok := range toks[1 : len(toks)-1] {
		if tok.Type != token.Char {
			continue
		}
		switch tok.Cat {
		case catcode.BeginGroup:
			depth++
		case catcode.EndGroup:
			depth--
			if depth < 0 {
				return toks
			}
		}
	}
	return toks[1 : len(toks)-1]
}
