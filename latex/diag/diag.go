// diag.go -
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

// Package diag collects the recoverable errors and warnings found
// while processing a document.
package diag

import "log"

// Severity distinguishes warnings from recoverable errors.
type Severity int

const (
	Warning Severity = iota
	Error
)

// Diagnostic is a single problem report.  Pos is empty when no source
// position was available.
type Diagnostic struct {
	Severity Severity
	Pos      string
	Kind     error
	Message  string
}

func (d Diagnostic) String() string {
	kind := "warning"
	if d.Severity == Error {
		kind = "error"
	}
	msg := d.Message
	if d.Pos != "" {
		return d.Pos + ": " + kind + ": " + msg
	}
	return kind + ": " + msg
}

// Reporter receives diagnostics as they are found.
type Reporter interface {
	Report(d Diagnostic)
}

// List is a Reporter which accumulates all diagnostics in memory.
type List struct {
	Items []Diagnostic
}

// Report implements the Reporter interface.
func (l *List) Report(d Diagnostic) {
	l.Items = append(l.Items, d)
}

// Counts returns the number of errors and warnings seen so far.
func (l *List) Counts() (errors, warnings int) {
	for _, d := range l.Items {
		if d.Severity == Error {
			errors++
		} else {
			warnings++
		}
	}
	return
}

// Log is a Reporter which writes diagnostics to the standard logger.
// It is used as a fallback when no other reporter is installed.
type Log struct{}

// Report implements the Reporter interface.
func (Log) Report(d Diagnostic) {
	log.Println(d.String())
}
