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

package table

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/wtsi-hgi/moff/types"
)

const (
	ErrBadScoreTable = Error("not a score table")

	ScoreSuffix     = "_MOFF.score.csv"
	AggregateSuffix = "_MOFF.aggregate.csv"

	mismatchesColumn = "mismatches"
	mdeColumn        = "mde"
	ceColumn         = "ce"
	scoreColumn      = "score"
	sitesColumn      = "sites"

	floatFormat    = 'g'
	floatPrecision = -1
	floatBits      = 64
)

// ScoreHeader is the header row of a score table.
func ScoreHeader() []string {
	return []string{GuideColumn, TargetColumn, mismatchesColumn, mdeColumn, ceColumn, scoreColumn}
}

// AggregateHeader is the header row of an aggregate table.
func AggregateHeader() []string {
	return []string{GuideColumn, sitesColumn, scoreColumn}
}

// OutputPath returns the path of an output table for the given directory,
// file prefix and suffix (ScoreSuffix or AggregateSuffix).
func OutputPath(dir, prefix, suffix string) string {
	return filepath.Join(dir, prefix+suffix)
}

// WriteScores writes a comma separated score table, one row per pair in the
// given order. Floats are written with the fewest digits that read back
// exactly.
func WriteScores(w io.Writer, pairs []types.ScoredPair) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ScoreHeader()); err != nil {
		return err
	}

	for _, sp := range pairs {
		if err := cw.Write([]string{
			string(sp.Guide),
			string(sp.Target),
			strconv.Itoa(sp.Mismatches),
			formatFloat(sp.MDE),
			formatFloat(sp.CE),
			formatFloat(sp.Score),
		}); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteAggregates writes a comma separated table of one row per guide, giving
// the number of sites that contributed and the aggregate score.
func WriteAggregates(w io.Writer, recs []types.AggregateRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(AggregateHeader()); err != nil {
		return err
	}

	for _, rec := range recs {
		if err := cw.Write([]string{
			string(rec.Guide),
			strconv.Itoa(len(rec.Sites)),
			formatFloat(rec.Score),
		}); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, floatFormat, floatPrecision, floatBits)
}

// ReadScores parses a table written by WriteScores.
func ReadScores(r io.Reader) ([]types.ScoredPair, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(ScoreHeader())

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(ErrBadScoreTable, err.Error())
	}

	for i, name := range ScoreHeader() {
		if header[i] != name {
			return nil, errors.Wrapf(ErrBadScoreTable, "column %d is %q, not %q", i+1, header[i], name)
		}
	}

	var pairs []types.ScoredPair

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return pairs, nil
		} else if err != nil {
			return nil, err
		}

		sp, err := parseScoreRecord(record)
		if err != nil {
			line, _ := cr.FieldPos(0)

			return nil, errors.Wrapf(err, "line %d", line)
		}

		pairs = append(pairs, sp)
	}
}

func parseScoreRecord(record []string) (types.ScoredPair, error) {
	pair, err := types.NewSequencePair(record[0], record[1])
	if err != nil {
		return types.ScoredPair{}, err
	}

	c := converter{}
	sp := types.ScoredPair{
		SequencePair: pair,
		Mismatches:   c.ToInt(record[2]),
		MDE:          c.ToFloat(record[3]),
		CE:           c.ToFloat(record[4]),
		Score:        c.ToFloat(record[5]),
	}

	return sp, c.Err
}
