// counters.go -
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
	"strconv"
	"strings"

	"github.com/seehuhn/typeset/latex/gullet"
)

// Counters holds the LaTeX counters, with the reset hierarchy used
// for numbering within sections.
type Counters struct {
	values map[string]int
	within map[string][]string // parent -> counters reset by it
}

// NewCounters returns a counter store with the standard sectioning
// counters predefined.
func NewCounters() *Counters {
	c := &Counters{
		values: make(map[string]int),
		within: make(map[string][]string),
	}
	c.New("section", "")
	c.New("subsection", "section")
	c.New("subsubsection", "subsection")
	c.New("equation", "")
	c.New("enumi", "")
	c.New("enumii", "enumi")
	return c
}

// New creates a counter.  If within is non-empty, the counter is
// reset whenever the named parent counter is stepped.
func (c *Counters) New(name, within string) {
	c.values[name] = 0
	if within != "" {
		c.within[within] = append(c.within[within], name)
	}
}

// Has reports whether the counter exists.
func (c *Counters) Has(name string) bool {
	_, ok := c.values[name]
	return ok
}

// Value returns the current value of a counter.
func (c *Counters) Value(name string) (int, error) {
	val, ok := c.values[name]
	if !ok {
		return 0, fmt.Errorf("%w: counter %q", ErrUnknownCS, name)
	}
	return val, nil
}

// Set assigns a counter value.
func (c *Counters) Set(name string, val int) error {
	if !c.Has(name) {
		return fmt.Errorf("%w: counter %q", ErrUnknownCS, name)
	}
	c.values[name] = val
	return nil
}

// Step increments a counter and resets all counters numbered within
// it.
func (c *Counters) Step(name string) error {
	if !c.Has(name) {
		return fmt.Errorf("%w: counter %q", ErrUnknownCS, name)
	}
	c.values[name]++
	c.reset(name)
	return nil
}

// Affected returns name together with all counters transitively reset
// by stepping it.
func (c *Counters) Affected(name string) []string {
	res := []string{name}
	for _, child := range c.within[name] {
		res = append(res, c.Affected(child)...)
	}
	return res
}

func (c *Counters) reset(name string) {
	for _, child := range c.within[name] {
		c.values[child] = 0
		c.reset(child)
	}
}

// Format renders a counter value in the given representation, one of
// arabic, roman, Roman, alph and Alph.
func Format(val int, repr string) (string, error) {
	switch repr {
	case "arabic":
		return strconv.Itoa(val), nil
	case "roman", "Roman":
		if val <= 0 {
			return "", fmt.Errorf("%w: no roman numeral for %d",
				gullet.ErrBadNumber, val)
		}
		s := gullet.RomanLower(val)
		if repr == "Roman" {
			s = strings.ToUpper(s)
		}
		return s, nil
	case "alph", "Alph":
		if val < 1 || val > 26 {
			return "", fmt.Errorf("%w: no letter for %d",
				gullet.ErrBadNumber, val)
		}
		c := byte('a' + val - 1)
		if repr == "Alph" {
			c = byte('A' + val - 1)
		}
		return string(rune(c)), nil
	}
	return "", fmt.Errorf("%w: unknown representation %q",
		gullet.ErrBadNumber, repr)
}
