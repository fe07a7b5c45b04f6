// pkg-amsmath.go -
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
	"strconv"

	"github.com/seehuhn/typeset/latex/doc"
	"github.com/seehuhn/typeset/latex/token"
)

func init() {
	packages["amsmath"] = addAmsmath
}

func addAmsmath(s *Stomach) {
	s.mathCmds["text"] = cmdMathText
	s.mathCmds["operatorname"] = cmdOperatorname
	s.mathCmds["binom"] = cmdBinom
	s.mathCmds["dfrac"] = cmdFrac
	s.mathCmds["tfrac"] = cmdFrac
	s.mathCmds["\\"] = func(*Stomach, *[]*doc.MathNode) error {
		// line breaks inside formulas are handled by the align
		// environments; elsewhere they are ignored
		return nil
	}

	extra := map[string]mathSym{
		"implies":    {sym: "⟹", class: doc.Rel},
		"iff":        {sym: "⟺", class: doc.Rel},
		"coloneqq":   {sym: "≔", class: doc.Rel},
		"lVert":      {sym: "‖", class: doc.Open},
		"rVert":      {sym: "‖", class: doc.Close},
		"varnothing": {sym: "∅", class: doc.Ord},
		"qquad":      {sym: " ", class: doc.Ord},
		"quad":       {sym: " ", class: doc.Ord},
	}
	for name, sym := range extra {
		s.mathSyms[name] = sym
	}

	s.envTable["align"] = &environment{
		begin:         func(s *Stomach) error { return envAlign(s, "align", true) },
		selfContained: true,
	}
	s.envTable["align*"] = &environment{
		begin:         func(s *Stomach) error { return envAlign(s, "align*", false) },
		selfContained: true,
	}
}

// cmdMathText embeds upright text in a formula.
func cmdMathText(s *Stomach, items *[]*doc.MathNode) error {
	text, err := s.readGroupText()
	if err != nil {
		return err
	}
	a := doc.NewAtom(text, doc.Ord)
	a.Variant = "rm"
	*items = append(*items, a)
	return nil
}

func cmdOperatorname(s *Stomach, items *[]*doc.MathNode) error {
	name, err := s.readGroupText()
	if err != nil {
		return err
	}
	a := doc.NewAtom(name, doc.Op)
	a.Variant = "rm"
	*items = append(*items, a)
	return nil
}

// cmdBinom builds a binomial coefficient: a bar-less fraction in
// parentheses.
func cmdBinom(s *Stomach, items *[]*doc.MathNode) error {
	upper, err := s.parseMathArg()
	if err != nil {
		return err
	}
	lower, err := s.parseMathArg()
	if err != nil {
		return err
	}
	frac := &doc.MathNode{
		Kind:  doc.Fraction,
		Class: doc.Inner,
		Num:   upper,
		Den:   lower,
	}
	*items = append(*items, &doc.MathNode{
		Kind:  doc.Fenced,
		Class: doc.Inner,
		Items: []*doc.MathNode{frac},
		Left:  "(",
		Right: ")",
	})
	return nil
}

// envAlign reads an align environment, emitting one display formula
// per line.  The alignment tabs are ignored.
func envAlign(s *Stomach, name string, numbered bool) error {
	for {
		lineDone := false
		envDone := false
		items, err := s.parseMathList(func(tok token.Token) (bool, error) {
			if tok.IsCS("\\") {
				lineDone = true
				return true, nil
			}
			if !tok.IsCS("end") {
				return false, nil
			}
			got, err := s.readGroupTextExpanded()
			if err != nil {
				return false, err
			}
			if got != name {
				s.recoverable(ErrEnvMismatch,
					"\\end{"+got+"} ended \\begin{"+name+"}")
			}
			envDone = true
			return true, nil
		})
		if err != nil {
			return err
		}

		if len(items) > 0 {
			n := doc.NewNode(doc.DisplayMath)
			n.Math = doc.NewMList(items)
			if numbered {
				if err := s.counters.Step("equation"); err != nil {
					return err
				}
				val, _ := s.counters.Value("equation")
				n.Number = strconv.Itoa(val)
				s.refValue = n.Number
			}
			s.flushDashes()
			s.b.AddBlock(n)
		}
		if envDone || !lineDone {
			return nil
		}
	}
}
