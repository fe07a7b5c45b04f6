// convert.go -
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

// Package latex wires the processing stages into a complete pipeline:
// the mouth tokenizes the input, the gullet expands macros, the
// stomach builds the document tree, and the HTML writer renders it.
package latex

import (
	"io"

	"github.com/seehuhn/typeset/latex/catcode"
	"github.com/seehuhn/typeset/latex/diag"
	"github.com/seehuhn/typeset/latex/doc"
	"github.com/seehuhn/typeset/latex/gullet"
	"github.com/seehuhn/typeset/latex/htmlout"
	"github.com/seehuhn/typeset/latex/macro"
	"github.com/seehuhn/typeset/latex/mouth"
	"github.com/seehuhn/typeset/latex/stomach"
)

// Config bundles the optional pipeline settings.  The zero value uses
// the builtin defaults.
type Config struct {
	// MaxTokens bounds the number of digested tokens, as a safeguard
	// against runaway input.  Zero keeps the builtin limit.
	MaxTokens int

	// HTML controls the output writer.
	HTML htmlout.Options
}

// Report collects the recoverable problems found during a conversion.
// Diagnostics of error severity indicate malformed input which was
// skipped or repaired; warnings are informational.
type Report struct {
	diag.List
}

// HasErrors reports whether any problem of error severity was found.
func (r *Report) HasErrors() bool {
	errors, _ := r.Counts()
	return errors > 0
}

// Parse reads the given LaTeX input file and returns the document
// tree.  Recoverable problems are collected in the report; the error
// return is reserved for unreadable input and pathological documents.
func Parse(inputFileName string, cfg *Config) (*doc.Node, *Report, error) {
	report := &Report{}
	s, err := pipeline(cfg, report, func(m *mouth.Mouth) error {
		return m.Include(inputFileName)
	})
	if err != nil {
		return nil, report, err
	}
	root, err := s.Digest()
	return root, report, err
}

// ParseBytes is like Parse, reading the document from memory.  The
// name is used in diagnostic positions.
func ParseBytes(data []byte, name string, cfg *Config) (*doc.Node, *Report, error) {
	report := &Report{}
	s, err := pipeline(cfg, report, func(m *mouth.Mouth) error {
		m.Prepend(data, name)
		return nil
	})
	if err != nil {
		return nil, report, err
	}
	root, err := s.Digest()
	return root, report, err
}

// Convert reads the given LaTeX input file and writes the HTML
// rendition to out.
func Convert(out io.Writer, inputFileName string, cfg *Config) (*Report, error) {
	root, report, err := Parse(inputFileName, cfg)
	if err != nil {
		return report, err
	}
	return report, write(out, root, report, cfg)
}

// ConvertBytes is like Convert, reading the document from memory.
func ConvertBytes(out io.Writer, data []byte, name string, cfg *Config) (*Report, error) {
	root, report, err := ParseBytes(data, name, cfg)
	if err != nil {
		return report, err
	}
	return report, write(out, root, report, cfg)
}

func pipeline(cfg *Config, report *Report, feed func(*mouth.Mouth) error) (*stomach.Stomach, error) {
	cats := catcode.NewTable()
	m := mouth.New(cats)
	m.SetReporter(report)
	if err := feed(m); err != nil {
		return nil, err
	}
	g := gullet.New(m, macro.NewStore(), cats)
	g.SetReporter(report)
	s := stomach.New(g)
	s.SetReporter(report)
	if cfg != nil && cfg.MaxTokens > 0 {
		s.MaxTokens = cfg.MaxTokens
	}
	return s, nil
}

func write(out io.Writer, root *doc.Node, report *Report, cfg *Config) error {
	opts := htmlout.Options{PrettyPrint: true}
	if cfg != nil {
		opts = cfg.HTML
	}
	if opts.Reporter == nil {
		opts.Reporter = report
	}
	return htmlout.Write(out, root, &opts)
}
