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
	"io"

	"github.com/spf13/cobra"
	"github.com/wtsi-hgi/moff/table"
)

const (
	defaultScoreOutput = "MOFF_scores"
	defaultScorePrefix = "ScoreTest"
)

// options for this cmd.
var (
	scoreInput  string
	scoreOutput string
	scorePrefix string
)

// scoreCmd represents the score command.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Predict off-target effects for given guide-target pairs.",
	Long: `Predict off-target effects for given guide-target pairs.

The input file must contain one guide (20bp + PAM) and one target (20bp + PAM)
per line, without a header. Files ending .csv are comma separated; files ending
.txt or .tsv are tab separated. For example:

GAGTCCGAGCAGAAGAAGAATGG,GAGTCCAAGTAGAAGAAAAATGG
GTTGCCCCACAGGGCAGTAAAGG,GTGGACACCCCGGGCAGGAAAGG
GGGTGGGGGGAGTTTGCTCCAGG,AGGTGGGGTGAGTTTGCTCCAGG

Only mismatches are modelled: pairs of different lengths (implying an insertion
or deletion), pairs that aren't 23 nt, or that contain bases other than A, C, G
and T are skipped, as are pairs with mismatches your matrices don't cover. The
number of skipped rows is reported at the end.

Scores are written in input order to <output>/<prefix>_MOFF.score.csv, with
columns crRNA, DNA, mismatches, mde (the product of M1 penalties), ce (the
product of M2 weights) and score.
`,
	Run: func(_ *cobra.Command, _ []string) {
		if err := scorePairs(); err != nil {
			die(err)
		}
	},
}

func init() {
	RootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVarP(&scoreInput, inputFlag, "i", "",
		"input file of guide-target pairs (.csv, .txt or .tsv)")
	markFlagRequired(scoreCmd, inputFlag)
	scoreCmd.Flags().StringVarP(&scoreOutput, outputFlag, "o", defaultScoreOutput,
		"output directory")
	scoreCmd.Flags().StringVarP(&scorePrefix, prefixFlag, "p", defaultScorePrefix,
		"prefix of the output file")
}

func scorePairs() error {
	rows, err := table.ReadPairs(scoreInput)
	if err != nil {
		return err
	}

	c, err := loadConfig()
	if err != nil {
		return err
	}

	r, err := newRunner(c)
	if err != nil {
		return err
	}

	report := r.Score(rows)
	logReport(report)

	if err = report.Err(); err != nil {
		return err
	}

	if err = prepareOutputDir(scoreOutput); err != nil {
		return err
	}

	outPath := table.OutputPath(scoreOutput, scorePrefix, table.ScoreSuffix)

	if err = writeTable(outPath, func(w io.Writer) error {
		return table.WriteScores(w, report.Scored)
	}); err != nil {
		return err
	}

	infof("scores written to %s", outPath)

	return archive(c, report.Scored, nil)
}

func markFlagRequired(cmd *cobra.Command, flagName string) {
	if err := cmd.MarkFlagRequired(flagName); err != nil {
		die(err)
	}
}
