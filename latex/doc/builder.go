// builder.go -
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

package doc

import "errors"

// ErrBadNesting indicates that block or inline nodes were closed in
// the wrong order.
var ErrBadNesting = errors.New("bad nesting of document nodes")

// Builder assembles a document tree.  It keeps track of the open block
// containers and the current paragraph, so that the digester can add
// material without worrying about where paragraph boundaries fall:
// inline material added outside a paragraph opens one, block material
// closes any open paragraph first.
type Builder struct {
	root   *Node
	blocks []*Node
	par    *Node
	inline []*Node
	text   []byte
}

// NewBuilder returns a Builder holding an empty document.
func NewBuilder() *Builder {
	root := NewNode(Document)
	return &Builder{
		root:   root,
		blocks: []*Node{root},
	}
}

// Block returns the innermost open block container.
func (b *Builder) Block() *Node {
	return b.blocks[len(b.blocks)-1]
}

// InParagraph reports whether a paragraph is currently open.
func (b *Builder) InParagraph() bool {
	return b.par != nil
}

func (b *Builder) inlineTarget() *Node {
	if n := len(b.inline); n > 0 {
		return b.inline[n-1]
	}
	return b.par
}

func (b *Builder) flushText() {
	if len(b.text) == 0 {
		return
	}
	b.inlineTarget().Append(NewText(string(b.text)))
	b.text = b.text[:0]
}

// AddText adds character material to the document, starting a new
// paragraph if necessary.  Consecutive calls are merged into a single
// text node.
func (b *Builder) AddText(s string) {
	if s == "" {
		return
	}
	b.ensureParagraph()
	b.text = append(b.text, s...)
}

// AddSpace adds an inter-word space, unless the paragraph is empty or
// already ends in a space.
func (b *Builder) AddSpace() {
	if b.par == nil {
		return
	}
	if n := len(b.text); n > 0 && b.text[n-1] == ' ' {
		return
	}
	b.text = append(b.text, ' ')
}

// AddInline adds a finished inline node, e.g. a math formula or an
// image, starting a new paragraph if necessary.
func (b *Builder) AddInline(n *Node) {
	b.ensureParagraph()
	b.flushText()
	b.inlineTarget().Append(n)
}

// PushInline opens an inline style node of the given kind.  Material
// added before the matching PopInline becomes its children.
func (b *Builder) PushInline(kind Kind) {
	b.ensureParagraph()
	b.flushText()
	n := NewNode(kind)
	b.inlineTarget().Append(n)
	b.inline = append(b.inline, n)
}

// PopInline closes the innermost open inline style node.
func (b *Builder) PopInline() error {
	if len(b.inline) == 0 {
		return ErrBadNesting
	}
	b.flushText()
	b.inline = b.inline[:len(b.inline)-1]
	return nil
}

func (b *Builder) ensureParagraph() {
	if b.par != nil {
		return
	}
	b.par = NewNode(Paragraph)
	b.Block().Append(b.par)
}

// EndParagraph closes the current paragraph.  It does nothing when no
// paragraph is open.  An empty paragraph is removed again.
func (b *Builder) EndParagraph() {
	if b.par == nil {
		return
	}
	b.flushText()
	b.inline = b.inline[:0]
	if len(b.par.Children) == 0 {
		block := b.Block()
		for i, c := range block.Children {
			if c == b.par {
				block.Children = append(block.Children[:i],
					block.Children[i+1:]...)
				break
			}
		}
	}
	b.par = nil
}

// AddBlock closes the current paragraph and adds a finished block node
// to the innermost open container.
func (b *Builder) AddBlock(n *Node) {
	b.EndParagraph()
	b.Block().Append(n)
}

// PushBlock closes the current paragraph, adds n to the innermost open
// container, and makes n the new innermost container.
func (b *Builder) PushBlock(n *Node) {
	b.EndParagraph()
	b.Block().Append(n)
	b.blocks = append(b.blocks, n)
}

// PopBlock closes the current paragraph and the innermost open block
// container.
func (b *Builder) PopBlock() error {
	b.EndParagraph()
	if len(b.blocks) <= 1 {
		return ErrBadNesting
	}
	b.blocks = b.blocks[:len(b.blocks)-1]
	return nil
}

// Finish closes all open paragraphs and containers and returns the
// completed document tree.
func (b *Builder) Finish() *Node {
	b.EndParagraph()
	b.blocks = b.blocks[:1]
	return b.root
}
