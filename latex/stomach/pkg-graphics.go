// pkg-graphics.go -
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

	"github.com/seehuhn/typeset/latex/catcode"
	"github.com/seehuhn/typeset/latex/doc"
	"github.com/seehuhn/typeset/latex/graphics"
	"github.com/seehuhn/typeset/latex/gullet"
	"github.com/seehuhn/typeset/latex/token"
)

func init() {
	packages["graphics"] = addGraphics
}

// picState is the state of an open picture or pgfpicture
// environment.
type picState struct {
	b    *graphics.PictureBuilder
	path graphics.PathBuilder
	pos  graphics.Point
	prev *picState
}

func addGraphics(s *Stomach) {
	s.cmds["includegraphics"] = cmdIncludegraphics
	s.cmds["unitlength"] = cmdUnitlength
	s.cmds["put"] = picCmd(cmdPut)
	s.cmds["line"] = picCmd(cmdPicLine)
	s.cmds["vector"] = picCmd(cmdPicVector)
	s.cmds["circle"] = picCmd(cmdPicCircle)
	s.cmds["framebox"] = picCmd(cmdPicFramebox)
	s.cmds["makebox"] = picCmd(cmdPicFramebox)

	s.cmds["pgfsys@moveto"] = picCmd(cmdPgfMoveto)
	s.cmds["pgfsys@lineto"] = picCmd(cmdPgfLineto)
	s.cmds["pgfsys@curveto"] = picCmd(cmdPgfCurveto)
	s.cmds["pgfsys@closepath"] = picCmd(cmdPgfClosepath)
	s.cmds["pgfsys@stroke"] = picCmd(cmdPgfStroke)
	s.cmds["pgfsys@fill"] = picCmd(cmdPgfFill)

	s.envTable["picture"] = &environment{
		begin: envPictureBegin,
		end:   envPictureEnd,
	}
	s.envTable["pgfpicture"] = &environment{
		begin: envPgfPictureBegin,
		end:   envPictureEnd,
	}

	if s.unitlength == 0 {
		s.unitlength = 1 // 1pt
	}
}

func cmdIncludegraphics(s *Stomach, _ string) error {
	if _, _, err := s.g.ReadOptional(); err != nil {
		return err
	}
	file, err := s.readGroupText()
	if err != nil {
		return err
	}
	img := doc.NewNode(doc.Image)
	img.Target = file
	s.flushDashes()
	s.b.AddInline(img)
	return nil
}

func cmdUnitlength(s *Stomach, _ string) error {
	if err := s.skipEquals(); err != nil {
		return err
	}
	val, err := s.g.ScanDimen()
	if err != nil {
		return err
	}
	s.unitlength = val
	return nil
}

// picCmd guards a drawing command against use outside a picture
// environment.
func picCmd(fn Command) Command {
	return func(s *Stomach, name string) error {
		if s.pic == nil {
			s.recoverable(ErrModeViolation,
				"\\"+name+" outside a picture environment")
			return nil
		}
		return fn(s, name)
	}
}

// parseCoords reads a coordinate pair of the form (x,y).
func (s *Stomach) parseCoords() (graphics.Point, error) {
	var text strings.Builder
	seenOpen := false
	for {
		tok, ok, err := s.g.Next()
		if err != nil {
			return graphics.Point{}, err
		}
		if !ok {
			return graphics.Point{},
				fmt.Errorf("%w: input ended inside coordinates",
					gullet.ErrBadNumber)
		}
		if tok.Type != token.Char {
			return graphics.Point{},
				fmt.Errorf("%w: bad coordinate syntax",
					gullet.ErrBadNumber)
		}
		c := tok.Char
		switch {
		case c == '(':
			seenOpen = true
		case c == ')':
			return splitCoords(text.String())
		case tok.Cat == catcode.Space:
			// ignored
		default:
			if !seenOpen {
				return graphics.Point{},
					fmt.Errorf("%w: expected (", gullet.ErrBadNumber)
			}
			text.WriteByte(c)
		}
	}
}

func splitCoords(text string) (graphics.Point, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return graphics.Point{},
			fmt.Errorf("%w: expected two coordinates, got %q",
				gullet.ErrBadNumber, text)
	}
	x, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return graphics.Point{},
			fmt.Errorf("%w: bad coordinates %q",
				gullet.ErrBadNumber, text)
	}
	return graphics.Point{X: x, Y: y}, nil
}

func envPictureBegin(s *Stomach) error {
	size, err := s.parseCoords()
	if err != nil {
		return err
	}
	// an optional second pair shifts the origin; we only need to
	// consume it
	if tok, ok, err := s.g.NextRaw(); err != nil {
		return err
	} else if ok {
		if tok.IsChar('(', catcode.Other) {
			s.g.PushToken(tok)
			if _, err := s.parseCoords(); err != nil {
				return err
			}
		} else {
			s.g.PushToken(tok)
		}
	}

	s.pic = &picState{
		b:    graphics.NewPictureBuilder(size.X, size.Y, s.unitlength),
		prev: s.pic,
	}
	return nil
}

func envPgfPictureBegin(s *Stomach) error {
	s.pic = &picState{
		b:    graphics.NewPictureBuilder(0, 0, 1),
		prev: s.pic,
	}
	return nil
}

func envPictureEnd(s *Stomach) error {
	if s.pic == nil {
		return ErrEnvMismatch
	}
	pic := s.pic.b.Picture()
	s.pic = s.pic.prev

	n := doc.NewNode(doc.Graphic)
	n.Pic = pic
	s.flushDashes()
	s.b.AddInline(n)
	return nil
}

func cmdPut(s *Stomach, _ string) error {
	pos, err := s.parseCoords()
	if err != nil {
		return err
	}
	arg, err := s.g.ReadGroup()
	if err != nil {
		return err
	}
	s.pic.pos = pos

	if len(arg) > 0 && arg[0].Type == token.ControlSequence {
		// drawing commands read their own arguments
		s.g.PushTokens(arg)
		return nil
	}
	s.pic.b.Text(pos, arg.PlainText(), "")
	return nil
}

func cmdPicLine(s *Stomach, _ string) error {
	return s.picLine(false)
}

func cmdPicVector(s *Stomach, _ string) error {
	return s.picLine(true)
}

func (s *Stomach) picLine(arrow bool) error {
	slope, err := s.parseCoords()
	if err != nil {
		return err
	}
	arg, err := s.readGroupTextExpanded()
	if err != nil {
		return err
	}
	length, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
	if err != nil {
		s.recoverable(gullet.ErrBadNumber, "bad line length "+arg)
		return nil
	}
	err = s.pic.b.Line(s.pic.pos, int(slope.X), int(slope.Y), length, arrow)
	if err != nil {
		s.recoverable(graphics.ErrBadSlope, err.Error())
	}
	return nil
}

func cmdPicCircle(s *Stomach, _ string) error {
	filled, err := s.consumeStar()
	if err != nil {
		return err
	}
	arg, err := s.readGroupTextExpanded()
	if err != nil {
		return err
	}
	diameter, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
	if err != nil {
		s.recoverable(gullet.ErrBadNumber, "bad circle diameter "+arg)
		return nil
	}
	s.pic.b.Circle(s.pic.pos, diameter, filled)
	return nil
}

func cmdPicFramebox(s *Stomach, name string) error {
	size, err := s.parseCoords()
	if err != nil {
		return err
	}
	anchor := ""
	if opt, ok, err := s.g.ReadOptional(); err != nil {
		return err
	} else if ok {
		anchor = opt.PlainText()
	}
	text, err := s.readGroupText()
	if err != nil {
		return err
	}

	if name == "framebox" {
		s.pic.b.Frame(s.pic.pos, size.X, size.Y)
	}
	if text != "" {
		center := graphics.Point{
			X: s.pic.pos.X + size.X/2,
			Y: s.pic.pos.Y + size.Y/2,
		}
		s.pic.b.Text(center, text, anchor)
	}
	return nil
}

// readDim reads one {<dimen>} argument of a pgf path command.
func (s *Stomach) readDim() (float64, error) {
	arg, err := s.g.ReadGroup()
	if err != nil {
		return 0, err
	}
	s.g.PushTokens(arg)
	return s.g.ScanDimen()
}

func (s *Stomach) readPgfPoint() (graphics.Point, error) {
	x, err := s.readDim()
	if err != nil {
		return graphics.Point{}, err
	}
	y, err := s.readDim()
	if err != nil {
		return graphics.Point{}, err
	}
	return graphics.Point{X: x, Y: y}, nil
}

func cmdPgfMoveto(s *Stomach, _ string) error {
	p, err := s.readPgfPoint()
	if err != nil {
		return err
	}
	s.pic.path.MoveTo(p)
	return nil
}

func cmdPgfLineto(s *Stomach, _ string) error {
	p, err := s.readPgfPoint()
	if err != nil {
		return err
	}
	s.pic.path.LineTo(p)
	return nil
}

func cmdPgfCurveto(s *Stomach, _ string) error {
	c1, err := s.readPgfPoint()
	if err != nil {
		return err
	}
	c2, err := s.readPgfPoint()
	if err != nil {
		return err
	}
	p, err := s.readPgfPoint()
	if err != nil {
		return err
	}
	s.pic.path.CurveTo(c1, c2, p)
	return nil
}

func cmdPgfClosepath(s *Stomach, _ string) error {
	s.pic.path.Close()
	return nil
}

func cmdPgfStroke(s *Stomach, _ string) error {
	s.pic.b.Picture().Add(s.pic.path.Use(true, false, 0.4))
	return nil
}

func cmdPgfFill(s *Stomach, _ string) error {
	s.pic.b.Picture().Add(s.pic.path.Use(false, true, 0))
	return nil
}
