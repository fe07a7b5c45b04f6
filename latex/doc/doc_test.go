// doc_test.go -
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

import "testing"

func TestBuilderParagraphs(t *testing.T) {
	b := NewBuilder()
	b.AddText("one")
	b.EndParagraph()
	b.AddText("two")
	root := b.Finish()

	if len(root.Children) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(root.Children))
	}
	for i, want := range []string{"one", "two"} {
		par := root.Children[i]
		if par.Kind != Paragraph {
			t.Errorf("child %d is %s, expected paragraph", i, par.Kind)
		}
		if got := par.PlainText(); got != want {
			t.Errorf("paragraph %d: got %q, expected %q", i, got, want)
		}
	}
}

func TestBuilderTextMerging(t *testing.T) {
	b := NewBuilder()
	b.AddText("Hello,")
	b.AddSpace()
	b.AddText("world!")
	root := b.Finish()

	par := root.Children[0]
	if len(par.Children) != 1 {
		t.Fatalf("expected one merged text node, got %d", len(par.Children))
	}
	if got := par.Children[0].Text; got != "Hello, world!" {
		t.Errorf("got %q", got)
	}
}

func TestBuilderInline(t *testing.T) {
	b := NewBuilder()
	b.AddText("a")
	b.PushInline(Emph)
	b.AddText("b")
	if err := b.PopInline(); err != nil {
		t.Fatal(err)
	}
	b.AddText("c")
	root := b.Finish()

	par := root.Children[0]
	if len(par.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(par.Children))
	}
	emph := par.Children[1]
	if emph.Kind != Emph {
		t.Errorf("middle child is %s, expected emph", emph.Kind)
	}
	if got := emph.PlainText(); got != "b" {
		t.Errorf("emph content %q", got)
	}
}

func TestBuilderEmptyParagraphDropped(t *testing.T) {
	b := NewBuilder()
	b.AddText(" ")
	b.text = nil // simulate material which vanished
	b.EndParagraph()
	root := b.Finish()
	if len(root.Children) != 0 {
		t.Errorf("empty paragraph not removed: %d children",
			len(root.Children))
	}
}

func TestBuilderBlocks(t *testing.T) {
	b := NewBuilder()
	b.AddText("before")

	list := NewNode(List)
	list.ListKind = Ordered
	b.PushBlock(list)
	b.PushBlock(NewNode(Item))
	b.AddText("first")
	if err := b.PopBlock(); err != nil {
		t.Fatal(err)
	}
	if err := b.PopBlock(); err != nil {
		t.Fatal(err)
	}
	b.AddText("after")
	root := b.Finish()

	if len(root.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(root.Children))
	}
	if root.Children[1].Kind != List {
		t.Errorf("middle child is %s, expected list", root.Children[1].Kind)
	}
	item := root.Children[1].Children[0]
	if item.Kind != Item || item.PlainText() != "first" {
		t.Errorf("unexpected item %s %q", item.Kind, item.PlainText())
	}
}

func TestBuilderUnderflow(t *testing.T) {
	b := NewBuilder()
	if err := b.PopBlock(); err != ErrBadNesting {
		t.Errorf("expected ErrBadNesting, got %v", err)
	}
	if err := b.PopInline(); err != ErrBadNesting {
		t.Errorf("expected ErrBadNesting, got %v", err)
	}
}

func TestMathNodeHelpers(t *testing.T) {
	x := NewAtom("x", Ord)
	if NewMList([]*MathNode{x}) != x {
		t.Error("singleton list not unwrapped")
	}
	lst := NewMList([]*MathNode{x, NewAtom("+", Bin)})
	if lst.Kind != MList || len(lst.Items) != 2 {
		t.Error("list not wrapped")
	}
}
