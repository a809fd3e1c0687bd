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

package runner

import (
	"github.com/wtsi-hgi/moff/types"
)

// Reason says why a row was excluded from the output.
type Reason string

const (
	// ReasonValidation is for rows whose sequences can't be compared.
	ReasonValidation Reason = "validation"

	// ReasonScoring is for valid rows the matrices don't cover.
	ReasonScoring Reason = "scoring"
)

// Failure records a row that was excluded from the output.
type Failure struct {
	Line   int
	Guide  string
	Target string
	Reason Reason
	Err    error
}

// Report accumulates the outcome of a run. Everything a caller needs to
// report on the run can be derived from it.
type Report struct {
	// Rows is the number of input rows.
	Rows int

	// Scored holds the successfully scored pairs, in input order.
	Scored []types.ScoredPair

	// Failures holds the excluded rows, in input order.
	Failures []Failure

	// Aggregates holds one record per guide with at least one scored site,
	// in order of each guide's first appearance. Only filled by Aggregate().
	Aggregates []types.AggregateRecord

	// EmptyGuides lists guides that appeared in the input but had no
	// successfully scored rows, so have no aggregate.
	EmptyGuides []string

	// Excluded counts perfectly matching sites left out of aggregates.
	Excluded int
}

// Skipped returns the number of rows that were excluded from the output.
func (r *Report) Skipped() int {
	return len(r.Failures)
}

// Counts returns the number of failures for each Reason.
func (r *Report) Counts() map[Reason]int {
	counts := make(map[Reason]int, 2)

	for _, f := range r.Failures {
		counts[f.Reason]++
	}

	return counts
}

// Err returns ErrNothingScored if no row was scored, which should be treated
// as a failed run.
func (r *Report) Err() error {
	if len(r.Scored) == 0 {
		return ErrNothingScored
	}

	return nil
}
