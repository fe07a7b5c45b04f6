// pkg.go -
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

// environment describes a LaTeX environment.  selfContained
// environments consume their own \end marker in begin, e.g. verbatim.
type environment struct {
	begin         func(s *Stomach) error
	end           func(s *Stomach) error
	selfContained bool
}

// packages holds the command bundles which can be loaded with
// \usepackage.  The two base bundles are loaded at startup.
var packages = map[string]func(*Stomach){}

// usepackageAliases maps the package names used in documents to
// bundles.
var usepackageAliases = map[string]string{
	"amsmath":  "amsmath",
	"amssymb":  "amsmath",
	"graphics": "graphics",
	"graphicx": "graphics",
	"pgf":      "graphics",
	"tikz":     "graphics",
}

func (s *Stomach) loadPackage(name string) bool {
	if s.loaded[name] {
		return true
	}
	fn, ok := packages[name]
	if !ok {
		return false
	}
	s.loaded[name] = true
	fn(s)
	return true
}

func cmdBegin(s *Stomach, _ string) error {
	name, err := s.readGroupTextExpanded()
	if err != nil {
		return err
	}
	env, ok := s.envTable[name]
	if !ok {
		s.recoverable(ErrUnknownCS, "unknown environment "+name)
		return nil
	}
	if env.selfContained {
		return env.begin(s)
	}
	s.envs = append(s.envs, name)
	s.beginGroup()
	return env.begin(s)
}

func cmdEnd(s *Stomach, _ string) error {
	name, err := s.readGroupTextExpanded()
	if err != nil {
		return err
	}
	if len(s.envs) == 0 {
		s.recoverable(ErrEnvMismatch, "\\end{"+name+"} without \\begin")
		return nil
	}
	top := s.envs[len(s.envs)-1]
	if top != name {
		s.recoverable(ErrEnvMismatch,
			"\\end{"+name+"} ended \\begin{"+top+"}")
		// recover by closing the open environment anyway
	}
	s.envs = s.envs[:len(s.envs)-1]
	env := s.envTable[top]
	if err := env.end(s); err != nil {
		return err
	}
	return s.endGroup()
}
