// convert_test.go -
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

package latex

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testDocument = `\documentclass{article}
\begin{document}
\section{Intro}\label{sec:intro}
Hello, \emph{world}!

See section~\ref{sec:intro} and the formula $E = mc^2$.
\end{document}
`

func TestConvertBytes(t *testing.T) {
	buf := &bytes.Buffer{}
	report, err := ConvertBytes(buf, []byte(testDocument), "test.tex", nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.HasErrors() {
		t.Errorf("unexpected problems: %v", report.Items)
	}

	out := buf.String()
	for _, part := range []string{
		`<h2 class="latex-section">`,
		"Intro</h2>",
		"<em>world</em>",
		`<a class="latex-ref" href="#sec:intro">1</a>`,
		`<svg class="latex-math"`,
	} {
		if !strings.Contains(out, part) {
			t.Errorf("missing %q in output", part)
		}
	}
}

func TestConvertStandalone(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := &Config{}
	cfg.HTML.Standalone = true
	cfg.HTML.IncludeCSS = true
	_, err := ConvertBytes(buf, []byte(testDocument), "test.tex", cfg)
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "<!DOCTYPE html>\n") {
		t.Errorf("missing document type declaration")
	}
	for _, part := range []string{
		"<title>Intro</title>",
		"urn:uuid:",
		"<style>",
		"</html>",
	} {
		if !strings.Contains(out, part) {
			t.Errorf("missing %q in output", part)
		}
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	mainFile := filepath.Join(dir, "main.tex")
	body := `\documentclass{article}
\begin{document}
before
\input{extra}
after
\end{document}
`
	err := os.WriteFile(mainFile, []byte(body), 0666)
	if err != nil {
		t.Fatal(err)
	}
	extra := "middle\n"
	err = os.WriteFile(filepath.Join(dir, "extra.tex"), []byte(extra), 0666)
	if err != nil {
		t.Fatal(err)
	}

	root, report, err := Parse(mainFile, nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.HasErrors() {
		t.Errorf("unexpected problems: %v", report.Items)
	}
	text := root.PlainText()
	for _, part := range []string{"before", "middle", "after"} {
		if !strings.Contains(text, part) {
			t.Errorf("missing %q in document text", part)
		}
	}
}

func TestConvertBareInput(t *testing.T) {
	// input without a preamble is processed as body material
	input := `\def\greet#1{Hello, #1!}\greet{world}`
	buf := &bytes.Buffer{}
	report, err := ConvertBytes(buf, []byte(input), "bare.tex", nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.HasErrors() {
		t.Errorf("unexpected problems: %v", report.Items)
	}
	if !strings.Contains(buf.String(), "<p>Hello, world!</p>") {
		t.Errorf("wrong output %q", buf.String())
	}
}

func TestConvertBadNumber(t *testing.T) {
	input := `\begin{document}\ifnum 1=a x\fi ok\end{document}`
	buf := &bytes.Buffer{}
	report, err := ConvertBytes(buf, []byte(input), "bad.tex", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !report.HasErrors() {
		t.Error("expected a problem report for the malformed number")
	}
	if !strings.Contains(buf.String(), "<p>ok</p>") {
		t.Errorf("output missing surviving text: %q", buf.String())
	}
}

func TestRecoverableProblems(t *testing.T) {
	input := `\documentclass{article}
\begin{document}
\nosuchmacro text
\end{document}
`
	buf := &bytes.Buffer{}
	report, err := ConvertBytes(buf, []byte(input), "bad.tex", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !report.HasErrors() {
		t.Error("expected a problem report for the unknown macro")
	}
	if !strings.Contains(buf.String(), "<p>text</p>") {
		t.Errorf("output missing surviving text: %q", buf.String())
	}
}
