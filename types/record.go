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

package types

// ScoredPair is the prediction for one guide-target pair. Mismatches counts
// the mismatches that contributed to the score, MDE is the product of their
// single-mismatch penalties and CE the product of their pairwise interaction
// weights. Score is in [0, 1], 1 being a perfect match.
type ScoredPair struct {
	SequencePair
	Mismatches int
	MDE        float64
	CE         float64
	Score      float64
}

// Perfect is true if no mismatch contributed to the score.
func (s ScoredPair) Perfect() bool {
	return s.Mismatches == 0
}

// AggregateRecord is the genome-wide off-target risk for one guide, combined
// from the scores of all its Sites.
type AggregateRecord struct {
	Guide Sequence
	Sites []ScoredPair
	Score float64
}
