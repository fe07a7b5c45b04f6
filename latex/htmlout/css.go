// css.go -
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

package htmlout

// defaultCSS is the style sheet embedded in standalone mode when
// Options.IncludeCSS is set.
const defaultCSS = `
body {
  max-width: 40em;
  margin: 0 auto;
  padding: 0 1em;
}
.latex-nw {
  white-space: nowrap;
}
.latex-secno {
  margin-right: 0.6em;
}
.latex-center {
  text-align: center;
}
.latex-quote {
  margin: 1em 2.5em;
}
.latex-verbatim {
  font-family: monospace;
  margin: 1em 0 1em 2em;
}
.latex-list dt {
  font-weight: bold;
}
.latex-table {
  border-collapse: collapse;
  margin: 1em auto;
}
.latex-table td {
  padding: 0.1em 0.5em;
}
.latex-al {
  text-align: left;
}
.latex-ac {
  text-align: center;
}
.latex-ar {
  text-align: right;
}
.latex-displaymath {
  position: relative;
  text-align: center;
  margin: 1em 0;
}
.latex-eqno {
  position: absolute;
  right: 0;
  top: 50%;
  transform: translateY(-50%);
}
.latex-smallcaps {
  font-variant: small-caps;
}
.latex-math {
  vertical-align: baseline;
}
`
