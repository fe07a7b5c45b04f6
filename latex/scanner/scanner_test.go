// scanner_test.go -
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

package scanner

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestPrependOrder(t *testing.T) {
	scan := &Scanner{}
	scan.Prepend([]byte("world"), "second")
	scan.Prepend([]byte("hello "), "first")

	var got []byte
	for scan.Next() {
		buf, err := scan.Peek()
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, buf[0])
		scan.Skip(1)
	}
	if string(got) != "hello world" {
		t.Errorf("wrong read order: %q", got)
	}
}

func TestInclude(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "test.tex")
	err := os.WriteFile(name, []byte("abc\ndef\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	scan := &Scanner{}
	err = scan.Include(name)
	if err != nil {
		t.Fatal(err)
	}
	defer scan.Close()

	var got []byte
	for scan.Next() {
		buf, err := scan.Peek()
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, buf...)
		scan.Skip(len(buf))
	}
	if !bytes.Equal(got, []byte("abc\ndef\n")) {
		t.Errorf("wrong file contents: %q", got)
	}
}

func TestPos(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "pos.tex")
	err := os.WriteFile(name, []byte("ab\ncd\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	scan := &Scanner{}
	err = scan.Include(name)
	if err != nil {
		t.Fatal(err)
	}
	defer scan.Close()

	scan.Next()
	scan.Skip(4) // after "ab\nc"
	pos := scan.Pos()
	if pos.Line != 2 || pos.Col != 2 {
		t.Errorf("wrong position %s, expected line 2, col 2", pos)
	}
	if pos.Name != "pos.tex" {
		t.Errorf("wrong file name %q", pos.Name)
	}
}

func TestMakeError(t *testing.T) {
	scan := &Scanner{}
	scan.Prepend([]byte("some input text"), "test data")
	scan.Next()
	err := scan.MakeError("test message")
	msg := err.Error()
	if msg == "" || msg == "test message" {
		t.Errorf("error message lacks context: %q", msg)
	}
}
