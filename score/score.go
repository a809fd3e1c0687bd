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

// Package score predicts the relative cleavage efficiency of a guide at a
// target from per-mismatch penalties and pairwise mismatch interactions, and
// combines many such predictions in to a genome-wide risk for a guide.
package score

import (
	"fmt"

	"github.com/wtsi-hgi/moff/types"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrMissingM1 = Error("M1 has no penalty for mismatch")
	ErrMissingM2 = Error("M2 has no interaction weight for mismatch pair")

	// pamWildcard is the N of an NGG PAM.
	pamWildcard = types.ProtospacerLength
)

// Matrices provides the lookups needed for scoring. *matrix.Store satisfies
// it.
type Matrices interface {
	Penalty(mm types.Mismatch) (float64, bool)
	Interaction(i, j int) (float64, bool)
}

// ScoringError is returned when the matrices don't cover a mismatch or pair
// of mismatches found in a pair. It wraps ErrMissingM1 or ErrMissingM2.
type ScoringError struct {
	Pair types.SequencePair
	Key  string
	Err  error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("can't score %s vs %s: %s %s", e.Pair.Guide, e.Pair.Target, e.Err, e.Key)
}

func (e *ScoringError) Unwrap() error { return e.Err }

// Scorer scores SequencePairs. It holds no mutable state, so one Scorer can
// be used concurrently.
type Scorer struct {
	m Matrices

	// ScorePAMWildcard, when false (the default), ignores mismatches at the N
	// position of the PAM.
	ScorePAMWildcard bool
}

// New returns a Scorer that uses the given matrices.
func New(m Matrices) *Scorer {
	return &Scorer{m: m}
}

// Score predicts the cleavage efficiency at the pair's target relative to a
// perfect match: 1 for no mismatches, otherwise the product of each
// mismatch's M1 penalty, multiplied by the M2 weight of every pair of
// mismatches, clamped to [0, 1].
func (s *Scorer) Score(pair types.SequencePair) (types.ScoredPair, error) {
	mms := s.scoredMismatches(pair)

	result := types.ScoredPair{
		SequencePair: pair,
		Mismatches:   len(mms),
		MDE:          1,
		CE:           1,
		Score:        1,
	}

	if len(mms) == 0 {
		return result, nil
	}

	for _, mm := range mms {
		p, ok := s.m.Penalty(mm)
		if !ok {
			return types.ScoredPair{}, &ScoringError{Pair: pair, Key: mm.String(), Err: ErrMissingM1}
		}

		result.MDE *= p
	}

	for i := 0; i < len(mms); i++ {
		for j := i + 1; j < len(mms); j++ {
			w, ok := s.m.Interaction(mms[i].Position, mms[j].Position)
			if !ok {
				return types.ScoredPair{}, &ScoringError{
					Pair: pair,
					Key:  fmt.Sprintf("%d,%d", mms[i].Position+1, mms[j].Position+1),
					Err:  ErrMissingM2,
				}
			}

			result.CE *= w
		}
	}

	result.Score = clamp(result.MDE * result.CE)

	return result, nil
}

func (s *Scorer) scoredMismatches(pair types.SequencePair) []types.Mismatch {
	mms := pair.Mismatches()
	if s.ScorePAMWildcard {
		return mms
	}

	kept := mms[:0]

	for _, mm := range mms {
		if mm.Position != pamWildcard {
			kept = append(kept, mm)
		}
	}

	return kept
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
