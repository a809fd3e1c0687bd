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
	"github.com/wtsi-hgi/moff/config"
	"github.com/wtsi-hgi/moff/sheets"
	"github.com/wtsi-hgi/moff/table"
	"github.com/wtsi-hgi/moff/types"
)

const (
	ErrInputChoice = Error("exactly one of --input and --sheet is required")

	defaultAggregateOutput = "MOFF_aggregation"
	defaultAggregatePrefix = "AggregateTest"
)

// options for this cmd.
var (
	aggregateInput  string
	aggregateSheet  string
	aggregateOutput string
	aggregatePrefix string
	excludePerfect  bool
	saveSiteScores  bool
)

// aggregateCmd represents the aggregate command.
var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Predict the genome-wide off-target risk of guides.",
	Long: `Predict the genome-wide off-target risk of guides.

The input is a table with a header line, containing at least a crRNA (or guide)
column and a DNA (or target) column; other columns are ignored. Each row pairs
a guide with one of its potential off-target sites. Files ending .csv are comma
separated; files ending .txt or .tsv are tab separated. For example:

crRNA,DNA
GAGTCCGAGCAGAAGAAGAATGG,GAGTCCAAGTAGAAGAAAAATGG
GAGTCCGAGCAGAAGAAGAATGG,GAGTCCGAGCAGAAGAAGAATGG

Guides and targets must be 23 nt of A, C, G and T. Search tools such as
CRISPRitz write the guide's PAM as NNN; replace it with the PAM of each
target first, or every such row will be skipped as invalid.

Alternatively, with --sheet docID:sheetName, the table is read from a Google
sheet, using the service account credentials file in $MOFF_CREDENTIALS_FILE.

Every site is scored as with the "score" sub-command, and the scores of each
guide's sites are combined as 1 - the product of (1 - score). Rows that can't be
scored are skipped, and guides with no scorable sites are reported and left
out. With --exclude-perfect, sites that exactly match their guide (normally the
intended target) don't count towards the aggregate.

Aggregates are written in order of each guide's first appearance to
<output>/<prefix>_MOFF.aggregate.csv, with columns crRNA, sites and score.
`,
	Run: func(_ *cobra.Command, _ []string) {
		if err := aggregateGuides(); err != nil {
			die(err)
		}
	},
}

func init() {
	RootCmd.AddCommand(aggregateCmd)

	aggregateCmd.Flags().StringVarP(&aggregateInput, inputFlag, "i", "",
		"input table of guides and off-target sites (.csv, .txt or .tsv)")
	aggregateCmd.Flags().StringVar(&aggregateSheet, "sheet", "",
		"read the input table from this Google sheet, as docID:sheetName")
	aggregateCmd.Flags().StringVarP(&aggregateOutput, outputFlag, "o", defaultAggregateOutput,
		"output directory")
	aggregateCmd.Flags().StringVarP(&aggregatePrefix, prefixFlag, "p", defaultAggregatePrefix,
		"prefix of the output file")
	aggregateCmd.Flags().BoolVar(&excludePerfect, "exclude-perfect", false,
		"don't count sites with no mismatches towards the aggregate")
	aggregateCmd.Flags().BoolVar(&saveSiteScores, "scores", false,
		"also write per-site scores to <output>/<prefix>_MOFF.score.csv")
}

func aggregateGuides() error {
	if (aggregateInput == "") == (aggregateSheet == "") {
		return ErrInputChoice
	}

	c, err := loadConfig()
	if err != nil {
		return err
	}

	rows, err := readAggregateInput(c)
	if err != nil {
		return err
	}

	r, err := newRunner(c)
	if err != nil {
		return err
	}

	r.ExcludePerfect = excludePerfect

	report := r.Aggregate(rows)
	logReport(report)

	if err = report.Err(); err != nil {
		return err
	}

	if err = writeAggregateOutputs(report.Scored, report.Aggregates); err != nil {
		return err
	}

	return archive(c, report.Scored, report.Aggregates)
}

func readAggregateInput(c *config.Config) ([]table.Row, error) {
	if aggregateInput != "" {
		return table.ReadTable(aggregateInput)
	}

	docID, sheetName, err := sheets.ParseLocation(aggregateSheet)
	if err != nil {
		return nil, err
	}

	sc, err := sheets.ServiceCredentialsFromConfig(c)
	if err != nil {
		return nil, err
	}

	s, err := sheets.New(sc)
	if err != nil {
		return nil, err
	}

	infof("reading sheet %s from document %s", sheetName, docID)

	sheet, err := s.Read(docID, sheetName)
	if err != nil {
		return nil, err
	}

	return sheet.Pairs()
}

func writeAggregateOutputs(scored []types.ScoredPair, aggs []types.AggregateRecord) error {
	if err := prepareOutputDir(aggregateOutput); err != nil {
		return err
	}

	outPath := table.OutputPath(aggregateOutput, aggregatePrefix, table.AggregateSuffix)

	if err := writeTable(outPath, func(w io.Writer) error {
		return table.WriteAggregates(w, aggs)
	}); err != nil {
		return err
	}

	infof("aggregates written to %s", outPath)

	if !saveSiteScores {
		return nil
	}

	scorePath := table.OutputPath(aggregateOutput, aggregatePrefix, table.ScoreSuffix)

	if err := writeTable(scorePath, func(w io.Writer) error {
		return table.WriteScores(w, scored)
	}); err != nil {
		return err
	}

	infof("site scores written to %s", scorePath)

	return nil
}
