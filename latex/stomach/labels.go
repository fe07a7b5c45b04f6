// labels.go -
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

import "github.com/seehuhn/typeset/latex/doc"

// resolveRefs fills in the text of all reference nodes after the
// whole document has been seen, so that forward references work.
func (s *Stomach) resolveRefs(root *doc.Node) {
	root.Walk(func(n *doc.Node) {
		if n.Kind != doc.Ref {
			return
		}
		text, ok := s.labels[n.Target]
		if !ok {
			s.warn("reference to undefined label " + n.Target)
			text = "??"
		}
		n.Children = []*doc.Node{doc.NewText(text)}
	})
}
