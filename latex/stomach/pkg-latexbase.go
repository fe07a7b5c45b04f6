// pkg-latexbase.go -
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
	"strings"

	"github.com/seehuhn/typeset/latex/catcode"
	"github.com/seehuhn/typeset/latex/doc"
	"github.com/seehuhn/typeset/latex/gullet"
	"github.com/seehuhn/typeset/latex/token"
)

func init() {
	packages["latex_base"] = addLatexBase
}

type listFrame struct {
	typ      doc.ListType
	counter  string
	itemOpen bool
}

type tabState struct {
	prev *tabState
}

func addLatexBase(s *Stomach) {
	s.cmds["documentclass"] = cmdDocumentclass
	s.cmds["usepackage"] = cmdUsepackage
	s.cmds["begin"] = cmdBegin
	s.cmds["end"] = cmdEnd

	s.cmds["section"] = sectionCmd(1, "section")
	s.cmds["subsection"] = sectionCmd(2, "subsection")
	s.cmds["subsubsection"] = sectionCmd(3, "subsubsection")

	s.cmds["label"] = cmdLabel
	s.cmds["ref"] = cmdRef

	s.cmds["emph"] = styleCmd(doc.Emph)
	s.cmds["textit"] = styleCmd(doc.Emph)
	s.cmds["textbf"] = styleCmd(doc.Bold)
	s.cmds["texttt"] = styleCmd(doc.Mono)
	s.cmds["textsc"] = styleCmd(doc.SmallCaps)
	s.cmds["textrm"] = cmdTransparentGroup
	s.cmds["mbox"] = cmdTransparentGroup

	s.cmds["em"] = declCmd(doc.Emph)
	s.cmds["it"] = declCmd(doc.Emph)
	s.cmds["itshape"] = declCmd(doc.Emph)
	s.cmds["bf"] = declCmd(doc.Bold)
	s.cmds["bfseries"] = declCmd(doc.Bold)
	s.cmds["tt"] = declCmd(doc.Mono)
	s.cmds["ttfamily"] = declCmd(doc.Mono)
	s.cmds["sc"] = declCmd(doc.SmallCaps)
	s.cmds["scshape"] = declCmd(doc.SmallCaps)
	s.cmds["rm"] = func(*Stomach, string) error { return nil }

	s.cmds["item"] = cmdItem
	s.cmds["verb"] = cmdVerb
	s.cmds["\\"] = cmdLinebreak
	s.cmds["["] = cmdOpenDisplay
	s.cmds["]"] = cmdStrayCloseDisplay
	s.cmds["("] = cmdOpenInline
	s.cmds[")"] = cmdStrayCloseDisplay

	s.cmds["newcounter"] = cmdNewcounter
	s.cmds["setcounter"] = cmdSetcounter
	s.cmds["stepcounter"] = cmdStepcounter
	s.cmds["arabic"] = formatCmd("arabic")
	s.cmds["roman"] = formatCmd("roman")
	s.cmds["Roman"] = formatCmd("Roman")
	s.cmds["alph"] = formatCmd("alph")
	s.cmds["Alph"] = formatCmd("Alph")

	s.cmds["LaTeX"] = logoCmd("LaTeX")
	s.cmds["TeX"] = logoCmd("TeX")
	s.cmds["ldots"] = logoCmd("…")
	s.cmds["dots"] = logoCmd("…")

	// ignored layout commands
	for _, name := range []string{
		"noindent", "indent", "smallskip", "medskip", "bigskip",
		"pagebreak", "newpage", "clearpage", "frenchspacing",
	} {
		s.cmds[name] = func(*Stomach, string) error { return nil }
	}

	s.envTable["document"] = &environment{
		begin: func(s *Stomach) error {
			s.state = inBody
			return nil
		},
		end: func(s *Stomach) error {
			s.flushDashes()
			s.b.EndParagraph()
			s.state = afterBody
			return nil
		},
	}
	s.envTable["itemize"] = listEnv(doc.Unordered, "")
	s.envTable["enumerate"] = listEnv(doc.Ordered, "enumi")
	s.envTable["description"] = listEnv(doc.Description, "")
	s.envTable["center"] = blockEnv(doc.Center)
	s.envTable["quote"] = blockEnv(doc.Quotation)
	s.envTable["quotation"] = blockEnv(doc.Quotation)
	s.envTable["verbatim"] = &environment{
		begin:         envVerbatim,
		selfContained: true,
	}
	s.envTable["equation"] = &environment{
		begin:         func(s *Stomach) error { return envEquation(s, true) },
		selfContained: true,
	}
	s.envTable["equation*"] = &environment{
		begin:         func(s *Stomach) error { return envEquation(s, false) },
		selfContained: true,
	}
	s.envTable["displaymath"] = &environment{
		begin:         envDisplaymath,
		selfContained: true,
	}
	s.envTable["tabular"] = &environment{
		begin: envTabularBegin,
		end:   envTabularEnd,
	}

	s.mathCmds["frac"] = cmdFrac
	s.mathCmds["sqrt"] = cmdSqrt
	s.mathCmds["mathrm"] = mathStyleCmd("rm")
	s.mathCmds["mathit"] = mathStyleCmd("it")
	s.mathCmds["mathbf"] = mathStyleCmd("bf")
}

func cmdDocumentclass(s *Stomach, _ string) error {
	s.sawPreamble = true
	if _, _, err := s.g.ReadOptional(); err != nil {
		return err
	}
	_, err := s.readGroupText()
	return err
}

func cmdUsepackage(s *Stomach, _ string) error {
	if _, _, err := s.g.ReadOptional(); err != nil {
		return err
	}
	arg, err := s.readGroupText()
	if err != nil {
		return err
	}
	for _, name := range strings.Split(arg, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		bundle, ok := usepackageAliases[name]
		if !ok || !s.loadPackage(bundle) {
			s.warn("package " + name + " is not supported, ignored")
		}
	}
	return nil
}

// consumeStar checks for a * directly after a command name.
func (s *Stomach) consumeStar() (bool, error) {
	tok, ok, err := s.g.NextRaw()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if tok.IsChar('*', catcode.Other) {
		return true, nil
	}
	s.g.PushToken(tok)
	return false, nil
}

func sectionCmd(level int, counter string) Command {
	return func(s *Stomach, name string) error {
		starred, err := s.consumeStar()
		if err != nil {
			return err
		}
		arg, err := s.g.ReadGroup()
		if err != nil {
			return err
		}

		sec := doc.NewNode(doc.Section)
		sec.Level = level
		if !starred {
			if err := s.counters.Step(counter); err != nil {
				return err
			}
			sec.Number = s.sectionNumber(level)
			s.refValue = sec.Number
		}
		s.flushDashes()
		s.b.PushBlock(sec)
		s.g.PushToken(token.NewCS(popBlockMarker))
		s.g.PushTokens(arg)
		return nil
	}
}

// sectionNumber formats the compound number of a sectioning level,
// e.g. "2.1" at level 2.
func (s *Stomach) sectionNumber(level int) string {
	names := []string{"section", "subsection", "subsubsection"}
	var parts []string
	for i := 0; i < level && i < len(names); i++ {
		val, _ := s.counters.Value(names[i])
		parts = append(parts, strconv.Itoa(val))
	}
	return strings.Join(parts, ".")
}

func cmdLabel(s *Stomach, _ string) error {
	key, err := s.readGroupTextExpanded()
	if err != nil {
		return err
	}
	if old, ok := s.labels[key]; ok && old != s.refValue {
		s.warn("label " + key + " defined more than once")
	}
	s.labels[key] = s.refValue
	anchor := doc.NewNode(doc.Anchor)
	anchor.Label = key
	s.b.AddInline(anchor)
	return nil
}

func cmdRef(s *Stomach, _ string) error {
	key, err := s.readGroupTextExpanded()
	if err != nil {
		return err
	}
	ref := doc.NewNode(doc.Ref)
	ref.Target = key
	s.flushDashes()
	s.b.AddInline(ref)
	return nil
}

func styleCmd(kind doc.Kind) Command {
	return func(s *Stomach, _ string) error {
		return s.digestGroup(kind)
	}
}

// cmdTransparentGroup processes its argument without adding any
// styling, for \mbox and \textrm.
func cmdTransparentGroup(s *Stomach, _ string) error {
	arg, err := s.g.ReadGroup()
	if err != nil {
		return err
	}
	s.g.PushTokens(arg)
	return nil
}

func declCmd(kind doc.Kind) Command {
	return func(s *Stomach, _ string) error {
		s.flushDashes()
		s.b.PushInline(kind)
		s.atGroupEnd(func() {
			s.flushDashes()
			if err := s.b.PopInline(); err != nil {
				s.recoverable(err, "unbalanced font declaration")
			}
		})
		return nil
	}
}

func logoCmd(text string) Command {
	return func(s *Stomach, _ string) error {
		if s.inDocument() {
			s.flushDashes()
			s.b.AddText(text)
		}
		return nil
	}
}

func cmdItem(s *Stomach, _ string) error {
	if len(s.lists) == 0 {
		s.recoverable(ErrModeViolation, "\\item outside a list")
		return nil
	}
	frame := &s.lists[len(s.lists)-1]
	s.flushDashes()
	if frame.itemOpen {
		if err := s.b.PopBlock(); err != nil {
			return err
		}
	}
	item := doc.NewNode(doc.Item)
	if frame.typ == doc.Description {
		term, ok, err := s.g.ReadOptional()
		if err != nil {
			return err
		}
		if ok {
			item.Term = term.PlainText()
		}
	}
	if frame.counter != "" {
		if err := s.counters.Step(frame.counter); err != nil {
			return err
		}
		val, _ := s.counters.Value(frame.counter)
		s.refValue = strconv.Itoa(val)
	}
	s.b.PushBlock(item)
	frame.itemOpen = true
	return nil
}

func cmdVerb(s *Stomach, _ string) error {
	m := s.g.Mouth()
	if !m.Next() {
		s.recoverable(ErrModeViolation, "input ended after \\verb")
		return nil
	}
	buf, err := m.Peek()
	if err != nil {
		return err
	}
	delim := buf[0]
	m.Skip(1)
	text, err := m.ReadVerbatim(delim)
	if err != nil {
		return err
	}
	mono := doc.NewNode(doc.Mono)
	mono.Append(doc.NewText(text))
	s.flushDashes()
	s.b.AddInline(mono)
	return nil
}

func cmdLinebreak(s *Stomach, _ string) error {
	if _, _, err := s.g.ReadOptional(); err != nil {
		return err
	}
	if s.tab != nil {
		return s.nextRow()
	}
	s.flushDashes()
	s.b.EndParagraph()
	return nil
}

func cmdNewcounter(s *Stomach, _ string) error {
	name, err := s.readGroupText()
	if err != nil {
		return err
	}
	within, _, err := s.g.ReadOptional()
	if err != nil {
		return err
	}
	s.counters.New(name, within.PlainText())
	return nil
}

func cmdSetcounter(s *Stomach, _ string) error {
	name, err := s.readGroupText()
	if err != nil {
		return err
	}
	arg, err := s.readGroupTextExpanded()
	if err != nil {
		return err
	}
	val, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		s.recoverable(gullet.ErrBadNumber,
			"bad \\setcounter value "+arg)
		return nil
	}
	s.scopeCounters(name)
	if err := s.counters.Set(name, val); err != nil {
		s.recoverable(ErrUnknownCS, err.Error())
	}
	return nil
}

func cmdStepcounter(s *Stomach, _ string) error {
	name, err := s.readGroupText()
	if err != nil {
		return err
	}
	s.scopeCounters(s.counters.Affected(name)...)
	if err := s.counters.Step(name); err != nil {
		s.recoverable(ErrUnknownCS, err.Error())
	}
	return nil
}

func formatCmd(repr string) Command {
	return func(s *Stomach, _ string) error {
		name, err := s.readGroupText()
		if err != nil {
			return err
		}
		val, err := s.counters.Value(name)
		if err != nil {
			s.recoverable(ErrUnknownCS, err.Error())
			return nil
		}
		text, err := Format(val, repr)
		if err != nil {
			s.recoverable(gullet.ErrBadNumber, err.Error())
			return nil
		}
		if s.inDocument() {
			s.flushDashes()
			s.b.AddText(text)
		}
		return nil
	}
}

// cmdOpenDisplay handles \[ ... \].
func cmdOpenDisplay(s *Stomach, _ string) error {
	items, err := s.parseMathList(func(tok token.Token) (bool, error) {
		return tok.IsCS("]"), nil
	})
	if err != nil {
		return err
	}
	s.addFormula(items, true)
	return nil
}

// cmdOpenInline handles \( ... \).
func cmdOpenInline(s *Stomach, _ string) error {
	items, err := s.parseMathList(func(tok token.Token) (bool, error) {
		return tok.IsCS(")"), nil
	})
	if err != nil {
		return err
	}
	s.addFormula(items, false)
	return nil
}

func cmdStrayCloseDisplay(s *Stomach, name string) error {
	s.recoverable(ErrModeViolation, "stray \\"+name)
	return nil
}

func listEnv(typ doc.ListType, counter string) *environment {
	return &environment{
		begin: func(s *Stomach) error {
			ctr := counter
			if ctr == "enumi" && len(s.lists) > 0 {
				ctr = "enumii"
			}
			if ctr != "" {
				if err := s.counters.Set(ctr, 0); err != nil {
					return err
				}
			}
			s.lists = append(s.lists, listFrame{typ: typ, counter: ctr})
			list := doc.NewNode(doc.List)
			list.ListKind = typ
			s.flushDashes()
			s.b.PushBlock(list)
			return nil
		},
		end: func(s *Stomach) error {
			if len(s.lists) == 0 {
				return ErrEnvMismatch
			}
			frame := s.lists[len(s.lists)-1]
			s.lists = s.lists[:len(s.lists)-1]
			s.flushDashes()
			if frame.itemOpen {
				if err := s.b.PopBlock(); err != nil {
					return err
				}
			}
			return s.b.PopBlock()
		},
	}
}

func blockEnv(kind doc.Kind) *environment {
	return &environment{
		begin: func(s *Stomach) error {
			s.flushDashes()
			s.b.PushBlock(doc.NewNode(kind))
			return nil
		},
		end: func(s *Stomach) error {
			s.flushDashes()
			return s.b.PopBlock()
		},
	}
}

func envVerbatim(s *Stomach) error {
	text, err := s.g.Mouth().ReadVerbatimUntil("\\end{verbatim}")
	if err != nil {
		return err
	}
	// drop the newline directly after \begin{verbatim}
	text = strings.TrimPrefix(text, "\n")
	text = strings.TrimSuffix(text, "\n")
	n := doc.NewNode(doc.Verbatim)
	n.Text = text
	s.flushDashes()
	s.b.AddBlock(n)
	return nil
}

// envEquation parses the body of an equation environment up to the
// matching \end.
func envEquation(s *Stomach, numbered bool) error {
	envName := "equation"
	if !numbered {
		envName = "equation*"
	}
	number := ""
	if numbered {
		if err := s.counters.Step("equation"); err != nil {
			return err
		}
		val, _ := s.counters.Value("equation")
		number = strconv.Itoa(val)
		s.refValue = number
	}

	items, err := s.parseMathEnvBody(envName)
	if err != nil {
		return err
	}
	n := doc.NewNode(doc.DisplayMath)
	n.Math = doc.NewMList(items)
	n.Number = number
	s.flushDashes()
	s.b.AddBlock(n)
	return nil
}

func envDisplaymath(s *Stomach) error {
	items, err := s.parseMathEnvBody("displaymath")
	if err != nil {
		return err
	}
	s.addFormula(items, true)
	return nil
}

// parseMathEnvBody reads math material up to \end{name}.
func (s *Stomach) parseMathEnvBody(name string) ([]*doc.MathNode, error) {
	items, err := s.parseMathList(func(tok token.Token) (bool, error) {
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
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func envTabularBegin(s *Stomach) error {
	spec, err := s.readGroupText()
	if err != nil {
		return err
	}
	s.tab = &tabState{prev: s.tab}
	table := doc.NewNode(doc.Table)
	table.ColSpec = spec
	s.flushDashes()
	s.b.PushBlock(table)
	s.b.PushBlock(doc.NewNode(doc.Row))
	s.b.PushBlock(doc.NewNode(doc.Cell))
	return nil
}

func envTabularEnd(s *Stomach) error {
	if s.tab == nil {
		return ErrEnvMismatch
	}
	s.flushDashes()
	s.tab = s.tab.prev
	for i := 0; i < 3; i++ { // cell, row, table
		if err := s.b.PopBlock(); err != nil {
			return err
		}
	}
	s.pruneEmptyRow()
	return nil
}

// nextCell closes the current table cell and opens the next one.
func (s *Stomach) nextCell() {
	s.flushDashes()
	if err := s.b.PopBlock(); err != nil {
		s.recoverable(err, "misplaced &")
		return
	}
	s.b.PushBlock(doc.NewNode(doc.Cell))
}

// nextRow closes the current row and opens the next one.
func (s *Stomach) nextRow() error {
	s.flushDashes()
	if err := s.b.PopBlock(); err != nil { // cell
		return err
	}
	if err := s.b.PopBlock(); err != nil { // row
		return err
	}
	s.b.PushBlock(doc.NewNode(doc.Row))
	s.b.PushBlock(doc.NewNode(doc.Cell))
	return nil
}

// pruneEmptyRow drops a trailing empty row left by a final \\.
func (s *Stomach) pruneEmptyRow() {
	block := s.b.Block()
	n := len(block.Children)
	if n == 0 {
		return
	}
	table := block.Children[n-1]
	if table.Kind != doc.Table {
		return
	}
	rows := table.Children
	if len(rows) == 0 {
		return
	}
	last := rows[len(rows)-1]
	empty := true
	for _, cell := range last.Children {
		if len(cell.Children) > 0 {
			empty = false
		}
	}
	if empty {
		table.Children = rows[:len(rows)-1]
	}
}

func cmdFrac(s *Stomach, items *[]*doc.MathNode) error {
	num, err := s.parseMathArg()
	if err != nil {
		return err
	}
	den, err := s.parseMathArg()
	if err != nil {
		return err
	}
	*items = append(*items, &doc.MathNode{
		Kind:         doc.Fraction,
		Class:        doc.Inner,
		Num:          num,
		Den:          den,
		BarThickness: 1,
	})
	return nil
}

func cmdSqrt(s *Stomach, items *[]*doc.MathNode) error {
	var degree *doc.MathNode
	deg, ok, err := s.g.ReadOptional()
	if err != nil {
		return err
	}
	if ok {
		degree, err = s.parseMathTokens(deg)
		if err != nil {
			return err
		}
	}
	radicand, err := s.parseMathArg()
	if err != nil {
		return err
	}
	*items = append(*items, &doc.MathNode{
		Kind:     doc.Radical,
		Class:    doc.Ord,
		Radicand: radicand,
		Degree:   degree,
	})
	return nil
}

func mathStyleCmd(variant string) mathCommand {
	return func(s *Stomach, items *[]*doc.MathNode) error {
		arg, err := s.parseMathArg()
		if err != nil {
			return err
		}
		setVariant(arg, variant)
		*items = append(*items, arg)
		return nil
	}
}

func setVariant(n *doc.MathNode, variant string) {
	if n == nil {
		return
	}
	n.Variant = variant
	for _, item := range n.Items {
		setVariant(item, variant)
	}
}

// parseMathTokens parses an already read token list as math material.
func (s *Stomach) parseMathTokens(toks token.List) (*doc.MathNode, error) {
	s.g.PushToken(token.NewCS(mathEndMarker))
	s.g.PushTokens(toks)
	items, err := s.parseMathList(func(tok token.Token) (bool, error) {
		return tok.IsCS(mathEndMarker), nil
	})
	if err != nil {
		return nil, err
	}
	return doc.NewMList(items), nil
}

const mathEndMarker = "\x00math-end"
