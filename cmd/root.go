// root.go -
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

// Package cmd holds the subcommands of the typeset command line tool.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the bare typeset command
var rootCmd = &cobra.Command{
	Use:   "typeset",
	Short: "Convert LaTeX documents to HTML",
	Long: `Typeset reads a LaTeX source file, interprets it the way TeX does,
and writes the document as HTML with inline SVG for formulas and drawings.`,
}

// Execute runs the selected subcommand.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
