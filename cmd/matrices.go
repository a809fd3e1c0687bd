/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Author: Sendu Bala <sb10@sanger.ac.uk>
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/wtsi-hgi/moff/matrix"
)

// matricesCmd represents the matrices command.
var matricesCmd = &cobra.Command{
	Use:   "matrices",
	Short: "Check your M1 and M2 matrices.",
	Long: `Check your M1 and M2 matrices.

Loads the matrices given by --m1 and --m2 (or $MOFF_M1_MATRIX and
$MOFF_M2_MATRIX), reporting any problem with their files, then prints the
number of entries in each, followed by every protospacer substitution missing
from M1 (in the rX:dY,P key form) and every pair of protospacer positions
missing from M2.

Pairs with a missing mismatch can't be scored, and are skipped by the "score"
and "aggregate" sub-commands.
`,
	Run: func(_ *cobra.Command, _ []string) {
		if err := checkMatrices(); err != nil {
			die(err)
		}
	},
}

func init() {
	RootCmd.AddCommand(matricesCmd)
}

func checkMatrices() error {
	c, err := loadConfig()
	if err != nil {
		return err
	}

	m, err := loadMatrices(c)
	if err != nil {
		return err
	}

	printCoverage(m.Coverage())

	return nil
}

func printCoverage(cov matrix.Coverage) {
	cliPrintf("M1 entries: %d\nM2 entries: %d\n", cov.M1Entries, cov.M2Entries)

	for _, mm := range cov.MissingM1 {
		cliPrintf("missing M1: %s\n", matrix.M1Key(mm))
	}

	for _, pp := range cov.MissingM2 {
		cliPrintf("missing M2: %s\n", pp)
	}

	if cov.Complete() {
		infof("matrices cover every protospacer mismatch")

		return
	}

	warnf("%d M1 and %d M2 protospacer entries missing", len(cov.MissingM1), len(cov.MissingM2))
}
