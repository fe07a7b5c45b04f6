// math.go -
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

package stomach

import (
	"fmt"

	"github.com/seehuhn/typeset/latex/catcode"
	"github.com/seehuhn/typeset/latex/doc"
	"github.com/seehuhn/typeset/latex/token"
)

// mathSym describes a named math symbol, e.g. \alpha or \sum.
type mathSym struct {
	sym     string
	class   doc.MathClass
	variant string
	limits  bool
}

// mathCommand builds math material, e.g. \frac.
type mathCommand func(s *Stomach, items *[]*doc.MathNode) error

// digestMath processes a formula started by a math shift character.
// A second math shift directly after the first selects display style.
func (s *Stomach) digestMath() error {
	display := false
	tok, ok, err := s.g.Next()
	if err != nil {
		return err
	}
	if ok && tok.Type == token.Char && tok.Cat == catcode.MathShift {
		display = true
	} else if ok {
		s.g.PushToken(tok)
	}

	items, err := s.parseMathList(func(tok token.Token) (bool, error) {
		if tok.Type == token.Char && tok.Cat == catcode.MathShift {
			if display {
				// expect the second closing $
				next, ok, err := s.g.Next()
				if err != nil {
					return false, err
				}
				if !ok || next.Type != token.Char ||
					next.Cat != catcode.MathShift {
					s.recoverable(ErrMathUnclosed,
						"display math closed by single $")
				}
			}
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return err
	}

	s.addFormula(items, display)
	return nil
}

// addFormula appends a finished formula to the document.
func (s *Stomach) addFormula(items []*doc.MathNode, display bool) {
	if display {
		n := doc.NewNode(doc.DisplayMath)
		n.Math = doc.NewMList(items)
		s.flushDashes()
		s.b.AddBlock(n)
		return
	}
	n := doc.NewNode(doc.InlineMath)
	n.Math = doc.NewMList(items)
	s.flushDashes()
	s.b.AddInline(n)
}

type stopFunc func(tok token.Token) (bool, error)

// parseMathList reads math material until the stop function accepts a
// token.  Input ending inside the formula is reported as an error and
// terminates the list.
func (s *Stomach) parseMathList(stop stopFunc) ([]*doc.MathNode, error) {
	var items []*doc.MathNode
	for {
		tok, ok, err := s.g.Next()
		if err != nil {
			return items, err
		}
		if !ok {
			s.recoverable(ErrMathUnclosed, "input ended inside a formula")
			return items, nil
		}
		done, err := stop(tok)
		if err != nil {
			return items, err
		}
		if done {
			return items, nil
		}

		switch {
		case tok.Type == token.ControlSequence:
			if err := s.mathControlSequence(tok.Name, &items); err != nil {
				return items, err
			}

		case tok.Cat == catcode.Space:
			// spaces are ignored in math mode

		case tok.Cat == catcode.AlignTab:
			// alignment points only matter to the align
			// environments, which split lines themselves

		case tok.Cat == catcode.BeginGroup:
			sub, err := s.parseMathGroup()
			if err != nil {
				return items, err
			}
			items = append(items, sub)

		case tok.Cat == catcode.EndGroup:
			s.recoverable(catcode.ErrGroupUnderflow,
				"extra } in math mode")

		case tok.Cat == catcode.Superscript:
			if err := s.attachScript(&items, true); err != nil {
				return items, err
			}

		case tok.Cat == catcode.Subscript:
			if err := s.attachScript(&items, false); err != nil {
				return items, err
			}

		case tok.Char == '\'':
			// prime, as a superscript
			atom := scriptTarget(&items)
			prime := doc.NewAtom("′", doc.Ord)
			if atom.Sup == nil {
				atom.Sup = prime
			} else {
				atom.Sup = doc.NewMList(
					[]*doc.MathNode{atom.Sup, prime})
			}

		default:
			items = append(items, charAtom(tok.Char))
		}
	}
}

// parseMathGroup reads a {...} subformula.
func (s *Stomach) parseMathGroup() (*doc.MathNode, error) {
	items, err := s.parseMathList(func(tok token.Token) (bool, error) {
		return tok.Type == token.Char && tok.Cat == catcode.EndGroup, nil
	})
	if err != nil {
		return nil, err
	}
	return doc.NewMList(items), nil
}

// parseMathArg reads a single math argument: a group, or one token.
func (s *Stomach) parseMathArg() (*doc.MathNode, error) {
	for {
		tok, ok, err := s.g.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			s.recoverable(ErrMathUnclosed,
				"input ended inside a formula")
			return doc.NewMList(nil), nil
		}
		switch {
		case tok.Type == token.ControlSequence:
			var items []*doc.MathNode
			err := s.mathControlSequence(tok.Name, &items)
			if err != nil {
				return nil, err
			}
			if len(items) == 0 {
				continue
			}
			return doc.NewMList(items), nil
		case tok.Cat == catcode.Space:
			continue
		case tok.Cat == catcode.BeginGroup:
			return s.parseMathGroup()
		default:
			return charAtom(tok.Char), nil
		}
	}
}

// scriptTarget returns the atom the next script attaches to, adding
// an empty atom when the list is empty or ends in a non-atom.
func scriptTarget(items *[]*doc.MathNode) *doc.MathNode {
	n := len(*items)
	if n > 0 {
		last := (*items)[n-1]
		if last.Kind == doc.Atom || last.Sub == nil && last.Sup == nil {
			return last
		}
	}
	empty := doc.NewAtom("", doc.Ord)
	*items = append(*items, empty)
	return empty
}

func (s *Stomach) attachScript(items *[]*doc.MathNode, sup bool) error {
	atom := scriptTarget(items)
	arg, err := s.parseMathArg()
	if err != nil {
		return err
	}
	if sup {
		if atom.Sup != nil {
			s.recoverable(ErrModeViolation, "double superscript")
		}
		atom.Sup = arg
	} else {
		if atom.Sub != nil {
			s.recoverable(ErrModeViolation, "double subscript")
		}
		atom.Sub = arg
	}
	return nil
}

// charAtom classifies a character token as a math atom.
func charAtom(c byte) *doc.MathNode {
	sym := string(rune(c))
	switch {
	case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
		a := doc.NewAtom(sym, doc.Ord)
		a.Variant = "it"
		return a
	case c >= '0' && c <= '9':
		return doc.NewAtom(sym, doc.Ord)
	}
	switch c {
	case '+':
		return doc.NewAtom("+", doc.Bin)
	case '-':
		return doc.NewAtom("−", doc.Bin)
	case '*':
		return doc.NewAtom("∗", doc.Bin)
	case '/':
		return doc.NewAtom("/", doc.Ord)
	case '=':
		return doc.NewAtom("=", doc.Rel)
	case '<':
		return doc.NewAtom("<", doc.Rel)
	case '>':
		return doc.NewAtom(">", doc.Rel)
	case '(':
		return doc.NewAtom("(", doc.Open)
	case '[':
		return doc.NewAtom("[", doc.Open)
	case ')':
		return doc.NewAtom(")", doc.Close)
	case ']':
		return doc.NewAtom("]", doc.Close)
	case ',', ';':
		return doc.NewAtom(sym, doc.Punct)
	case '!', '?':
		return doc.NewAtom(sym, doc.Close)
	case '.':
		return doc.NewAtom(".", doc.Ord)
	case '|':
		return doc.NewAtom("|", doc.Ord)
	}
	return doc.NewAtom(sym, doc.Ord)
}

// mathControlSequence handles a control sequence in math mode.
func (s *Stomach) mathControlSequence(name string, items *[]*doc.MathNode) error {
	if sym, ok := s.mathSyms[name]; ok {
		a := doc.NewAtom(sym.sym, sym.class)
		a.Variant = sym.variant
		a.Limits = sym.limits
		*items = append(*items, a)
		return nil
	}
	if cmd, ok := s.mathCmds[name]; ok {
		return cmd(s, items)
	}
	// commands like \label work inside equation environments
	if cmd, ok := s.cmds[name]; ok {
		switch name {
		case "label", "relax":
			return cmd(s, name)
		}
	}
	s.recoverable(ErrUnknownCS,
		fmt.Sprintf("\\%s is undefined in math mode", name))
	a := doc.NewAtom(name, doc.Ord)
	a.Variant = "rm"
	*items = append(*items, a)
	return nil
}

// parseDelimiter reads the delimiter after \left or \right.
func (s *Stomach) parseDelimiter() (string, error) {
	tok, ok, err := s.g.Next()
	if err != nil {
		return "", err
	}
	if !ok {
		s.recoverable(ErrMathUnclosed, "missing delimiter")
		return ".", nil
	}
	if tok.Type == token.ControlSequence {
		if sym, ok := s.mathSyms[tok.Name]; ok {
			return sym.sym, nil
		}
		s.recoverable(ErrUnknownCS, "bad delimiter \\"+tok.Name)
		return ".", nil
	}
	return string(rune(tok.Char)), nil
}
