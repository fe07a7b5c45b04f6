// stomach.go -
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

// Package stomach executes the expanded token stream and builds the
// document tree.  It owns the command registry, the counters and the
// environment handling.
package stomach

import (
	"errors"
	"fmt"

	"github.com/seehuhn/typeset/latex/catcode"
	"github.com/seehuhn/typeset/latex/diag"
	"github.com/seehuhn/typeset/latex/doc"
	"github.com/seehuhn/typeset/latex/gullet"
	"github.com/seehuhn/typeset/latex/token"
)

var (
	// ErrUnknownCS is reported for control sequences with no
	// definition.  The control sequence is skipped.
	ErrUnknownCS = errors.New("undefined control sequence")

	// ErrModeViolation is reported for material which is not allowed
	// in the current mode, e.g. a superscript outside math.
	ErrModeViolation = errors.New("not allowed in this mode")

	// ErrEnvMismatch is reported when \end names an environment
	// other than the innermost open one.
	ErrEnvMismatch = errors.New("environment mismatch")

	// ErrMathUnclosed is reported when the input ends inside a math
	// formula.
	ErrMathUnclosed = errors.New("math formula not closed")

	// ErrTooLong aborts processing of pathologically long documents.
	ErrTooLong = errors.New("document too long")
)

// MaxTokens is the default limit on the number of digested tokens.
const MaxTokens = 10_000_000

// docState tracks progress through the document environment.
type docState int

const (
	inPreamble docState = iota
	inBody
	afterBody
)

// Command executes one control sequence in the stomach.
type Command func(s *Stomach, name string) error

// Stomach is the digestion stage of the pipeline.
type Stomach struct {
	MaxTokens int

	g *gullet.Gullet
	b *doc.Builder

	cmds     map[string]Command
	envTable map[string]*environment
	mathSyms map[string]mathSym
	mathCmds map[string]mathCommand
	loaded   map[string]bool

	counters *Counters
	counts   map[int]int // \count registers

	envs       []string
	groups     []groupFrame
	docEnd     []func()
	lists      []listFrame
	state      docState
	trailing   int
	globalNext bool

	// sawPreamble is set by \documentclass.  Only then is text before
	// \begin{document} treated as preamble material and dropped.
	sawPreamble    bool
	preambleWarned bool

	tab *tabState
	pic *picState

	// unitlength is the picture environment scale, in TeX points.
	unitlength float64

	// pending ligature runs, see text.go
	dashes     int
	backquotes int
	quotes     int

	// refValue is the printed form of the most recently stepped
	// sectioning counter, recorded by \label.
	refValue string
	labels   map[string]string

	tokenCount int
	reporter   diag.Reporter
}

type groupFrame struct {
	// atEnd runs when the group closes, innermost first.
	atEnd []func()
}

// New allocates a Stomach reading from the given gullet.  The base
// packages are loaded; further packages are added by \usepackage.
func New(g *gullet.Gullet) *Stomach {
	s := &Stomach{
		MaxTokens: MaxTokens,
		g:         g,
		b:         doc.NewBuilder(),
		cmds:      make(map[string]Command),
		envTable:  make(map[string]*environment),
		mathSyms:  make(map[string]mathSym),
		mathCmds:  make(map[string]mathCommand),
		loaded:    make(map[string]bool),
		counters:  NewCounters(),
		counts:    make(map[int]int),
		labels:    make(map[string]string),
		reporter:  diag.Log{},
	}
	g.Internals = s
	g.IsPrimitive = func(name string) bool {
		_, ok := s.cmds[name]
		return ok
	}
	s.loadPackage("tex_base")
	s.loadPackage("latex_base")
	return s
}

// SetReporter installs the reporter which receives digestion
// diagnostics.
func (s *Stomach) SetReporter(r diag.Reporter) {
	s.reporter = r
}

func (s *Stomach) warn(msg string) {
	s.reporter.Report(diag.Diagnostic{
		Severity: diag.Warning,
		Pos:      s.g.Pos(),
		Message:  msg,
	})
}

func (s *Stomach) recoverable(kind error, msg string) {
	s.reporter.Report(diag.Diagnostic{
		Severity: diag.Error,
		Pos:      s.g.Pos(),
		Kind:     kind,
		Message:  msg,
	})
}

// Digest processes the whole token stream and returns the finished
// document tree.
func (s *Stomach) Digest() (*doc.Node, error) {
	for {
		tok, ok, err := s.g.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if err := s.digestToken(tok); err != nil {
			return nil, err
		}
	}
	if len(s.envs) > 0 {
		s.recoverable(ErrEnvMismatch,
			"input ended inside \\begin{"+s.envs[len(s.envs)-1]+"}")
	}
	for i := len(s.docEnd) - 1; i >= 0; i-- {
		s.docEnd[i]()
	}
	s.docEnd = nil
	s.flushDashes()
	root := s.b.Finish()
	s.resolveRefs(root)
	return root, nil
}

func (s *Stomach) digestToken(tok token.Token) error {
	s.tokenCount++
	if s.tokenCount > s.MaxTokens {
		return fmt.Errorf("%w: more than %d tokens", ErrTooLong, s.MaxTokens)
	}
	if s.state == afterBody {
		s.trailing++
		if s.trailing > 100 {
			return fmt.Errorf("%w: material after \\end{document}",
				ErrTooLong)
		}
		return nil
	}

	if tok.Type == token.ControlSequence {
		return s.execute(tok.Name)
	}

	switch tok.Cat {
	case catcode.BeginGroup:
		s.beginGroup()
	case catcode.EndGroup:
		return s.endGroup()
	case catcode.MathShift:
		return s.digestMath()
	case catcode.AlignTab:
		if s.tab == nil {
			s.recoverable(ErrModeViolation, "& outside tabular")
			return nil
		}
		s.nextCell()
	case catcode.Superscript, catcode.Subscript:
		s.recoverable(ErrModeViolation,
			string(rune(tok.Char))+" outside math mode")
	case catcode.Space:
		if s.state == inBody {
			s.flushDashes()
			s.b.AddSpace()
		}
	default:
		if s.inDocument() {
			s.addChar(tok.Char)
		}
	}
	return nil
}

// inDocument reports whether character material is currently
// typeset.  Input without a \documentclass preamble starts directly
// in the body; after \documentclass, text before \begin{document} is
// dropped with a warning.
func (s *Stomach) inDocument() bool {
	if s.state != inPreamble {
		return true
	}
	if s.sawPreamble {
		if !s.preambleWarned {
			s.preambleWarned = true
			s.warn("text before \\begin{document} ignored")
		}
		return false
	}
	s.state = inBody
	return true
}

func (s *Stomach) execute(name string) error {
	cmd, ok := s.cmds[name]
	if !ok {
		s.recoverable(ErrUnknownCS, "\\"+name+" is undefined")
		return nil
	}
	err := cmd(s, name)
	if errors.Is(err, gullet.ErrBadNumber) ||
		errors.Is(err, gullet.ErrBadDimension) {
		s.recoverable(err, err.Error())
		return nil
	}
	return err
}

// beginGroup opens a TeX group: category codes and macros get a new
// scope, and font changes are undone when the group ends.
func (s *Stomach) beginGroup() {
	s.g.Catcodes().PushScope()
	s.g.Macros().PushScope()
	s.groups = append(s.groups, groupFrame{})
}

func (s *Stomach) endGroup() error {
	if len(s.groups) == 0 {
		s.recoverable(catcode.ErrGroupUnderflow, "extra } ignored")
		return nil
	}
	frame := s.groups[len(s.groups)-1]
	s.groups = s.groups[:len(s.groups)-1]
	for i := len(frame.atEnd) - 1; i >= 0; i-- {
		frame.atEnd[i]()
	}
	if err := s.g.Macros().PopScope(); err != nil {
		return err
	}
	return s.g.Catcodes().PopScope()
}

// atGroupEnd registers a callback to run when the current group
// closes.  Outside any group the callback runs at the end of the
// document instead.
func (s *Stomach) atGroupEnd(fn func()) {
	if len(s.groups) == 0 {
		s.docEnd = append(s.docEnd, fn)
		return
	}
	frame := &s.groups[len(s.groups)-1]
	frame.atEnd = append(frame.atEnd, fn)
}

// scopeCounters arranges for the named counters to be restored to
// their current values when the innermost group closes.  A pending
// \global prefix makes the assignment permanent instead, and outside
// any group assignments are always permanent.
func (s *Stomach) scopeCounters(names ...string) {
	if s.takeGlobal() || len(s.groups) == 0 {
		return
	}
	for _, name := range names {
		old, err := s.counters.Value(name)
		if err != nil {
			continue
		}
		name := name
		s.atGroupEnd(func() {
			s.counters.Set(name, old)
		})
	}
}

// TheTokens implements gullet.Internals, providing the values of
// internal quantities for \the.
func (s *Stomach) TheTokens(g *gullet.Gullet, name string) (token.List, error) {
	switch name {
	case "count":
		reg, err := g.ScanInt()
		if err != nil {
			return nil, err
		}
		return token.FromString(fmt.Sprint(s.counts[reg])), nil
	case "value":
		arg, err := g.ReadGroup()
		if err != nil {
			return nil, err
		}
		val, err := s.counters.Value(arg.PlainText())
		if err != nil {
			return nil, err
		}
		return token.FromString(fmt.Sprint(val)), nil
	}
	if s.counters.Has(name) {
		val, _ := s.counters.Value(name)
		return token.FromString(fmt.Sprint(val)), nil
	}
	return nil, fmt.Errorf("%w: \\the\\%s", ErrUnknownCS, name)
}

// readGroupText reads a {...} argument and returns its character
// content.
func (s *Stomach) readGroupText() (string, error) {
	arg, err := s.g.ReadGroup()
	if err != nil {
		return "", err
	}
	return arg.PlainText(), nil
}

// readGroupTextExpanded is like readGroupText, with macro expansion.
func (s *Stomach) readGroupTextExpanded() (string, error) {
	arg, err := s.g.ReadGroupExpanded()
	if err != nil {
		return "", err
	}
	return arg.PlainText(), nil
}

// digestGroup processes a {...} argument as document material inside
// an inline node of the given kind.
func (s *Stomach) digestGroup(kind doc.Kind) error {
	arg, err := s.g.ReadGroup()
	if err != nil {
		return err
	}
	s.flushDashes()
	s.b.PushInline(kind)
	s.g.PushToken(token.NewCS(popInlineMarker))
	s.g.PushTokens(arg)
	return nil
}

// popInlineMarker closes the inline node opened by digestGroup.  The
// NUL byte keeps the name out of reach of document input.
const popInlineMarker = "\x00pop-inline"
