// pkg-texbase.go -
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
	"strings"

	"github.com/seehuhn/typeset/latex/catcode"
	"github.com/seehuhn/typeset/latex/doc"
	"github.com/seehuhn/typeset/latex/token"
)

func init() {
	packages["tex_base"] = addTexBase
}

// addTexBase installs the TeX primitives which are executed in the
// stomach.  The expandable primitives live in the gullet.
func addTexBase(s *Stomach) {
	s.cmds["relax"] = func(*Stomach, string) error { return nil }
	s.cmds["par"] = cmdPar
	s.cmds["catcode"] = cmdCatcode
	s.cmds["count"] = cmdCount
	s.cmds["char"] = cmdChar
	s.cmds["global"] = cmdGlobal
	s.cmds["long"] = cmdIgnorePrefix
	s.cmds["outer"] = cmdIgnorePrefix
	s.cmds["protected"] = cmdIgnorePrefix
	s.cmds["begingroup"] = func(s *Stomach, _ string) error {
		s.beginGroup()
		return nil
	}
	s.cmds["endgroup"] = func(s *Stomach, _ string) error {
		return s.endGroup()
	}
	s.cmds[popInlineMarker] = func(s *Stomach, _ string) error {
		s.flushDashes()
		if err := s.b.PopInline(); err != nil {
			s.recoverable(err, "unbalanced inline material")
		}
		return nil
	}
	s.cmds[popBlockMarker] = func(s *Stomach, _ string) error {
		if err := s.b.PopBlock(); err != nil {
			s.recoverable(err, "unbalanced block material")
		}
		return nil
	}

	// control symbols producing literal characters
	for _, c := range []string{"$", "&", "#", "%", "_", "{", "}"} {
		lit := c
		s.cmds[lit] = func(s *Stomach, _ string) error {
			if s.inDocument() {
				s.addChar(lit[0])
			}
			return nil
		}
	}
	s.cmds[" "] = func(s *Stomach, _ string) error {
		if s.inDocument() {
			s.flushDashes()
			s.b.AddSpace()
		}
		return nil
	}
	s.cmds["/"] = func(*Stomach, string) error { return nil }
	s.cmds["-"] = func(*Stomach, string) error { return nil }
	s.cmds["input"] = cmdInput

	addTexMathSyms(s)
}

// popBlockMarker closes the block node opened by a sectioning or
// environment command.
const popBlockMarker = "\x00pop-block"

func cmdPar(s *Stomach, _ string) error {
	s.flushDashes()
	s.b.EndParagraph()
	return nil
}

// cmdCatcode handles assignments of the form \catcode`\~=13.
func cmdCatcode(s *Stomach, _ string) error {
	code, err := s.g.ScanInt()
	if err != nil {
		return err
	}
	if err := s.skipEquals(); err != nil {
		return err
	}
	val, err := s.g.ScanInt()
	if err != nil {
		return err
	}
	if code < 0 || code > 255 || val < 0 || val > 15 {
		s.recoverable(ErrModeViolation, "\\catcode value out of range")
		return nil
	}
	if s.takeGlobal() {
		s.g.Catcodes().SetGlobal(byte(code), catcode.Category(val))
	} else {
		s.g.Catcodes().Set(byte(code), catcode.Category(val))
	}
	return nil
}

// cmdCount handles assignments to the \count registers.
func cmdCount(s *Stomach, _ string) error {
	reg, err := s.g.ScanInt()
	if err != nil {
		return err
	}
	if err := s.skipEquals(); err != nil {
		return err
	}
	val, err := s.g.ScanInt()
	if err != nil {
		return err
	}
	if !s.takeGlobal() && len(s.groups) > 0 {
		old, present := s.counts[reg]
		s.atGroupEnd(func() {
			if present {
				s.counts[reg] = old
			} else {
				delete(s.counts, reg)
			}
		})
	}
	s.counts[reg] = val
	return nil
}

func cmdChar(s *Stomach, _ string) error {
	code, err := s.g.ScanInt()
	if err != nil {
		return err
	}
	if code < 0 || code > 255 {
		s.recoverable(ErrModeViolation, "\\char value out of range")
		return nil
	}
	if s.inDocument() {
		s.addChar(byte(code))
	}
	return nil
}

// cmdInput pushes the contents of another file onto the input stack.
func cmdInput(s *Stomach, _ string) error {
	name, err := s.readGroupTextExpanded()
	if err != nil {
		return err
	}
	if !strings.Contains(name, ".") {
		name += ".tex"
	}
	if err := s.g.Mouth().Include(name); err != nil {
		s.recoverable(ErrUnknownCS, "cannot read "+name+": "+err.Error())
	}
	return nil
}

// cmdGlobal marks the next assignment as global.
func cmdGlobal(s *Stomach, _ string) error {
	s.globalNext = true
	return nil
}

func cmdIgnorePrefix(s *Stomach, name string) error {
	s.warn("prefix \\" + name + " ignored here")
	return nil
}

// takeGlobal consumes the pending \global prefix.
func (s *Stomach) takeGlobal() bool {
	g := s.globalNext
	s.globalNext = false
	return g
}

// skipEquals skips spaces and one optional equals sign.
func (s *Stomach) skipEquals() error {
	if err := s.g.SkipSpaces(); err != nil {
		return err
	}
	tok, ok, err := s.g.NextRaw()
	if err != nil {
		return err
	}
	if ok && !tok.IsChar('=', catcode.Other) {
		s.g.PushToken(tok)
	}
	return nil
}

// plain TeX math symbols
func addTexMathSyms(s *Stomach) {
	greek := map[string]string{
		"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ",
		"epsilon": "ε", "zeta": "ζ", "eta": "η", "theta": "θ",
		"iota": "ι", "kappa": "κ", "lambda": "λ", "mu": "μ",
		"nu": "ν", "xi": "ξ", "pi": "π", "rho": "ρ",
		"sigma": "σ", "tau": "τ", "upsilon": "υ", "phi": "φ",
		"chi": "χ", "psi": "ψ", "omega": "ω",
		"Gamma": "Γ", "Delta": "Δ", "Theta": "Θ", "Lambda": "Λ",
		"Xi": "Ξ", "Pi": "Π", "Sigma": "Σ", "Upsilon": "Υ",
		"Phi": "Φ", "Psi": "Ψ", "Omega": "Ω",
	}
	for name, sym := range greek {
		s.mathSyms[name] = mathSym{sym: sym, class: doc.Ord, variant: "it"}
	}

	bin := map[string]string{
		"pm": "±", "mp": "∓", "times": "×", "div": "÷",
		"cdot": "⋅", "circ": "∘", "cup": "∪", "cap": "∩",
		"setminus": "∖", "oplus": "⊕", "otimes": "⊗",
	}
	for name, sym := range bin {
		s.mathSyms[name] = mathSym{sym: sym, class: doc.Bin}
	}

	rel := map[string]string{
		"le": "≤", "leq": "≤", "ge": "≥", "geq": "≥",
		"ne": "≠", "neq": "≠", "equiv": "≡", "sim": "∼",
		"approx": "≈", "subset": "⊂", "subseteq": "⊆",
		"in": "∈", "ni": "∋", "notin": "∉",
		"to": "→", "rightarrow": "→", "leftarrow": "←",
		"mapsto": "↦", "Rightarrow": "⇒", "Leftrightarrow": "⇔",
	}
	for name, sym := range rel {
		s.mathSyms[name] = mathSym{sym: sym, class: doc.Rel}
	}

	ops := map[string]string{
		"sum": "∑", "prod": "∏", "int": "∫", "oint": "∮",
		"bigcup": "⋃", "bigcap": "⋂",
	}
	for name, sym := range ops {
		limits := name != "int" && name != "oint"
		s.mathSyms[name] = mathSym{
			sym: sym, class: doc.Op, limits: limits,
		}
	}

	// log-like functions are upright
	for _, name := range []string{
		"sin", "cos", "tan", "log", "ln", "exp", "lim",
		"min", "max", "sup", "inf", "det", "gcd",
	} {
		s.mathSyms[name] = mathSym{
			sym: name, class: doc.Op, variant: "rm",
			limits: name == "lim" || name == "min" || name == "max",
		}
	}

	ord := map[string]string{
		"infty": "∞", "partial": "∂", "nabla": "∇",
		"forall": "∀", "exists": "∃", "emptyset": "∅",
		"ldots": "…", "cdots": "⋯", "dots": "…",
		"prime": "′", "hbar": "ℏ", "ell": "ℓ",
	}
	for name, sym := range ord {
		s.mathSyms[name] = mathSym{sym: sym, class: doc.Ord}
	}

	punct := map[string]string{
		"colon": ":",
	}
	for name, sym := range punct {
		s.mathSyms[name] = mathSym{sym: sym, class: doc.Punct}
	}

	// delimiters usable after \left and \right
	s.mathSyms["langle"] = mathSym{sym: "⟨", class: doc.Open}
	s.mathSyms["rangle"] = mathSym{sym: "⟩", class: doc.Close}
	s.mathSyms["lbrace"] = mathSym{sym: "{", class: doc.Open}
	s.mathSyms["rbrace"] = mathSym{sym: "}", class: doc.Close}
	s.mathSyms["vert"] = mathSym{sym: "|", class: doc.Ord}
	s.mathSyms["|"] = mathSym{sym: "‖", class: doc.Ord}

	s.mathCmds["left"] = mathLeft
	s.mathCmds["limits"] = func(s *Stomach, items *[]*doc.MathNode) error {
		if n := len(*items); n > 0 {
			(*items)[n-1].Limits = true
		}
		return nil
	}
	s.mathCmds["nolimits"] = func(s *Stomach, items *[]*doc.MathNode) error {
		if n := len(*items); n > 0 {
			(*items)[n-1].Limits = false
		}
		return nil
	}
}

// mathLeft parses \left<delim> ... \right<delim> into a fenced
// subformula.
func mathLeft(s *Stomach, items *[]*doc.MathNode) error {
	left, err := s.parseDelimiter()
	if err != nil {
		return err
	}
	inner, err := s.parseMathList(func(tok token.Token) (bool, error) {
		return tok.IsCS("right"), nil
	})
	if err != nil {
		return err
	}
	right, err := s.parseDelimiter()
	if err != nil {
		return err
	}
	if left == "." {
		left = ""
	}
	if right == "." {
		right = ""
	}
	*items = append(*items, &doc.MathNode{
		Kind:  doc.Fenced,
		Class: doc.Inner,
		Items: inner,
		Left:  left,
		Right: right,
	})
	return nil
}
