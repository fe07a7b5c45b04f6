// run.go -
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

package cmd

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seehuhn/typeset/latex"
	"github.com/seehuhn/typeset/latex/htmlout"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <input.tex>",
	Short: "Convert a LaTeX file to HTML",
	Args:  cobra.ExactArgs(1),
	Run:   runTypeset,
}

var (
	outputName string
	fragment   bool
	noCSS      bool
	compact    bool
	mathML     bool
	quiet      bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&outputName, "output", "o", "",
		"the output file name")
	runCmd.Flags().BoolVar(&fragment, "fragment", false,
		"emit an HTML fragment instead of a complete document")
	runCmd.Flags().BoolVar(&noCSS, "no-css", false,
		"omit the embedded style sheet")
	runCmd.Flags().BoolVar(&compact, "compact", false,
		"do not wrap the output to 79 columns")
	runCmd.Flags().BoolVar(&mathML, "mathml", false,
		"write formulas as MathML instead of inline SVG")
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress diagnostic messages")
}

func runTypeset(_ *cobra.Command, args []string) {
	inputName := args[0]

	outName := outputName
	if outName == "" {
		base := strings.TrimSuffix(filepath.Base(inputName), ".tex")
		outName = base + ".html"
	}

	out, err := os.Create(outName)
	if err != nil {
		log.Fatal(err)
	}

	cfg := &latex.Config{}
	cfg.HTML.Standalone = !fragment
	cfg.HTML.IncludeCSS = !fragment && !noCSS
	cfg.HTML.PrettyPrint = !compact
	if mathML {
		cfg.HTML.MathFormat = htmlout.MathML
	}

	report, err := latex.Convert(out, inputName, cfg)
	if err2 := out.Close(); err == nil {
		err = err2
	}
	if err != nil {
		log.Fatal(err)
	}

	if !quiet {
		for _, d := range report.Items {
			log.Println(d.String())
		}
	}
	if report.HasErrors() {
		os.Exit(1)
	}
}
