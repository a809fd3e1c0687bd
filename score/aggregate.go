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

package score

import "github.com/wtsi-hgi/moff/types"

// Aggregate combines the scores of all the sites of one guide, treating each
// as an independent probability of cleavage: the result is the probability
// that at least one site is cut, 1 - ∏(1 - score). No sites gives 0, and any
// site scoring 1 gives 1.
func Aggregate(guide types.Sequence, sites []types.ScoredPair) types.AggregateRecord {
	scores := make([]float64, len(sites))

	for i, site := range sites {
		scores[i] = site.Score
	}

	return types.AggregateRecord{
		Guide: guide,
		Sites: sites,
		Score: Combine(scores...),
	}
}

// Combine returns 1 - ∏(1 - s) over the given scores, each clamped to
// [0, 1] first.
func Combine(scores ...float64) float64 {
	miss := 1.0

	for _, s := range scores {
		miss *= 1 - clamp(s)
	}

	return clamp(1 - miss)
}
