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

// Package runner scores tables of guide-target pairs, excluding and recording
// rows that can't be scored, and optionally aggregates the scores per guide.
package runner

import (
	"errors"
	"strings"

	"github.com/inconshreveable/log15"
	"github.com/wtsi-hgi/moff/score"
	"github.com/wtsi-hgi/moff/table"
	"github.com/wtsi-hgi/moff/types"
	"golang.org/x/sync/errgroup"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNothingScored = Error("no rows could be scored")

	// minParallelRows is the fewest rows worth spreading across workers.
	minParallelRows = 64
)

// PairScorer scores one validated pair. *score.Scorer satisfies it, and must
// be safe for concurrent use when Workers > 1.
type PairScorer interface {
	Score(pair types.SequencePair) (types.ScoredPair, error)
}

// Runner runs Rows through validation and scoring.
type Runner struct {
	scorer PairScorer

	// Workers is the maximum number of rows scored at once. 1 or less scores
	// rows one at a time.
	Workers int

	// ExcludePerfect leaves sites with no mismatches (usually the intended
	// on-target site) out of aggregates.
	ExcludePerfect bool

	// Logger gets a debug message for each excluded row. Defaults to
	// discarding.
	Logger log15.Logger
}

// New returns a Runner that uses the given scorer and number of workers.
func New(scorer PairScorer, workers int) *Runner {
	logger := log15.New("pkg", "runner")
	logger.SetHandler(log15.DiscardHandler())

	return &Runner{
		scorer:  scorer,
		Workers: workers,
		Logger:  logger,
	}
}

// outcome is the result of one row: a scored pair, or a failure.
type outcome struct {
	scored  types.ScoredPair
	failure *Failure
}

// Score validates and scores every row. The Report's Scored pairs are in input
// order. Rows that fail are recorded in the Report's Failures instead.
func (r *Runner) Score(rows []table.Row) *Report {
	report := &Report{Rows: len(rows)}

	for _, o := range r.scoreRows(rows) {
		r.accumulate(report, o)
	}

	return report
}

// Aggregate scores every row like Score(), then groups the scored pairs by
// guide and combines each group's scores with score.Aggregate(). Guides are
// identified by their exact (upper-cased) sequence.
func (r *Runner) Aggregate(rows []table.Row) *Report {
	report := &Report{Rows: len(rows)}
	outcomes := r.scoreRows(rows)

	var order []string

	groups := make(map[string][]types.ScoredPair)
	seen := make(map[string]bool)

	for i, o := range outcomes {
		r.accumulate(report, o)

		key := guideKey(rows[i].Guide)
		if !seen[key] {
			seen[key] = true
			order = append(order, key)
		}

		if o.failure != nil {
			continue
		}

		if _, ok := groups[key]; !ok {
			groups[key] = []types.ScoredPair{}
		}

		if r.ExcludePerfect && o.scored.Perfect() {
			report.Excluded++

			continue
		}

		groups[key] = append(groups[key], o.scored)
	}

	for _, key := range order {
		sites, ok := groups[key]
		if !ok {
			report.EmptyGuides = append(report.EmptyGuides, key)

			continue
		}

		report.Aggregates = append(report.Aggregates, score.Aggregate(types.Sequence(key), sites))
	}

	return report
}

func guideKey(guide string) string {
	return strings.ToUpper(guide)
}

func (r *Runner) accumulate(report *Report, o outcome) {
	if o.failure == nil {
		report.Scored = append(report.Scored, o.scored)

		return
	}

	f := *o.failure
	r.Logger.Debug("row skipped", "line", f.Line, "reason", f.Reason, "err", f.Err)
	report.Failures = append(report.Failures, f)
}

// scoreRows returns an outcome for each row, in row order.
func (r *Runner) scoreRows(rows []table.Row) []outcome {
	outcomes := make([]outcome, len(rows))

	if r.Workers <= 1 || len(rows) < minParallelRows {
		for i, row := range rows {
			outcomes[i] = r.scoreRow(row)
		}

		return outcomes
	}

	var g errgroup.Group

	g.SetLimit(r.Workers)

	size := chunkSize(len(rows), r.Workers)

	for start := 0; start < len(rows); start += size {
		start := start
		end := min(start+size, len(rows))

		g.Go(func() error {
			for i := start; i < end; i++ {
				outcomes[i] = r.scoreRow(rows[i])
			}

			return nil
		})
	}

	g.Wait() //nolint:errcheck

	return outcomes
}

// chunkSize splits rows so each worker gets a few chunks.
func chunkSize(rows, workers int) int {
	const chunksPerWorker = 4

	return max(1, rows/(workers*chunksPerWorker))
}

func (r *Runner) scoreRow(row table.Row) outcome {
	pair, err := types.NewSequencePair(row.Guide, row.Target)
	if err != nil {
		return failed(row, ReasonValidation, err)
	}

	sp, err := r.scorer.Score(pair)
	if err != nil {
		reason := ReasonScoring

		var verr *types.ValidationError
		if errors.As(err, &verr) {
			reason = ReasonValidation
		}

		return failed(row, reason, err)
	}

	return outcome{scored: sp}
}

func failed(row table.Row, reason Reason, err error) outcome {
	return outcome{failure: &Failure{
		Line:   row.Line,
		Guide:  row.Guide,
		Target: row.Target,
		Reason: reason,
		Err:    err,
	}}
}
