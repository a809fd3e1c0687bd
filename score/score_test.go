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

import (
	"errors"
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-hgi/moff/matrix"
	"github.com/wtsi-hgi/moff/types"
)

const (
	testGuide  = "GAGTCCGAGCAGAAGAAGAATGG"
	testTarget = "GAGTCCAAGTAGAAGAAAAATGG"
	floatTol   = 1e-12
)

// fullMatrices covers every substitution at every position, and every pair of
// positions, using the given functions to choose values.
func fullMatrices(penalty func() float64, weight func() float64) (matrix.M1, matrix.M2) {
	m1 := make(matrix.M1)
	m2 := make(matrix.M2)

	for pos := 0; pos < types.SequenceLength; pos++ {
		for _, ref := range types.Bases() {
			for _, alt := range types.Bases() {
				if ref != alt {
					m1[types.Mismatch{Position: pos, Ref: ref, Alt: alt}] = penalty()
				}
			}
		}

		for j := pos + 1; j < types.SequenceLength; j++ {
			m2[matrix.PositionPair{I: pos, J: j}] = weight()
		}
	}

	return m1, m2
}

func uniformStore(penalty, weight float64) *matrix.Store {
	m1, m2 := fullMatrices(func() float64 { return penalty }, func() float64 { return weight })

	s, err := matrix.New(m1, m2)
	So(err, ShouldBeNil)

	return s
}

func mustPair(guide, target string) types.SequencePair {
	p, err := types.NewSequencePair(guide, target)
	So(err, ShouldBeNil)

	return p
}

// mutate changes the base at pos to a different one.
func mutate(seq []byte, pos int) {
	for _, b := range types.Bases() {
		if b != seq[pos] {
			seq[pos] = b

			return
		}
	}
}

func TestScore(t *testing.T) {
	Convey("Given a Scorer with uniform matrices", t, func() {
		s := New(uniformStore(0.5, 0.9))

		Convey("A perfect match scores exactly 1", func() {
			sp, err := s.Score(mustPair(testGuide, testGuide))
			So(err, ShouldBeNil)
			So(sp.Score, ShouldEqual, 1.0)
			So(sp.Mismatches, ShouldEqual, 0)
			So(sp.Perfect(), ShouldBeTrue)
		})

		Convey("Mismatches combine M1 penalties and M2 weights multiplicatively", func() {
			sp, err := s.Score(mustPair(testGuide, testTarget))
			So(err, ShouldBeNil)
			So(sp.Mismatches, ShouldEqual, 3)
			So(sp.MDE, ShouldAlmostEqual, 0.125, floatTol)
			So(sp.CE, ShouldAlmostEqual, 0.729, floatTol)
			So(sp.Score, ShouldAlmostEqual, 0.125*0.729, floatTol)
			So(sp.Score, ShouldBeGreaterThan, 0.0)
			So(sp.Score, ShouldBeLessThan, 1.0)
			So(sp.Guide, ShouldEqual, types.Sequence(testGuide))
			So(sp.Target, ShouldEqual, types.Sequence(testTarget))
		})

		Convey("A single mismatch has no interaction term", func() {
			target := []byte(testGuide)
			mutate(target, 3)

			sp, err := s.Score(mustPair(testGuide, string(target)))
			So(err, ShouldBeNil)
			So(sp.CE, ShouldEqual, 1.0)
			So(sp.Score, ShouldEqual, 0.5)
		})

		Convey("Mismatches at the PAM N are ignored by default", func() {
			target := []byte(testGuide)
			target[20] = 'A'

			sp, err := s.Score(mustPair(testGuide, string(target)))
			So(err, ShouldBeNil)
			So(sp.Score, ShouldEqual, 1.0)
			So(sp.Mismatches, ShouldEqual, 0)

			s.ScorePAMWildcard = true
			sp, err = s.Score(mustPair(testGuide, string(target)))
			So(err, ShouldBeNil)
			So(sp.Score, ShouldEqual, 0.5)
			So(sp.Mismatches, ShouldEqual, 1)
		})

		Convey("Mismatches in the GG of the PAM are scored", func() {
			target := []byte(testGuide)
			target[21] = 'A'

			sp, err := s.Score(mustPair(testGuide, string(target)))
			So(err, ShouldBeNil)
			So(sp.Score, ShouldEqual, 0.5)
		})
	})

	Convey("Scores are clamped to 1 when interactions exceed 1", t, func() {
		s := New(uniformStore(0.9, 5))

		sp, err := s.Score(mustPair(testGuide, testTarget))
		So(err, ShouldBeNil)
		So(sp.Score, ShouldEqual, 1.0)
	})

	Convey("Scores are 0 when interactions are 0", t, func() {
		s := New(uniformStore(0.9, 0))

		sp, err := s.Score(mustPair(testGuide, testTarget))
		So(err, ShouldBeNil)
		So(sp.Score, ShouldEqual, 0.0)
	})

	Convey("Missing matrix entries fail the pair with a ScoringError", t, func() {
		m1, m2 := fullMatrices(func() float64 { return 0.5 }, func() float64 { return 0.5 })

		Convey("for M1", func() {
			delete(m1, types.Mismatch{Position: 9, Ref: 'C', Alt: 'T'})
			store, err := matrix.New(m1, m2)
			So(err, ShouldBeNil)

			_, err = New(store).Score(mustPair(testGuide, testTarget))
			So(errors.Is(err, ErrMissingM1), ShouldBeTrue)

			var serr *ScoringError
			So(errors.As(err, &serr), ShouldBeTrue)
			So(serr.Key, ShouldEqual, "10:C>T")
			So(serr.Pair.Guide, ShouldEqual, types.Sequence(testGuide))
		})

		Convey("for M2", func() {
			delete(m2, matrix.PositionPair{I: 6, J: 17})
			store, err := matrix.New(m1, m2)
			So(err, ShouldBeNil)

			_, err = New(store).Score(mustPair(testGuide, testTarget))
			So(errors.Is(err, ErrMissingM2), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "7,18")
		})
	})

	Convey("Adding mismatches one at a time never increases the score", t, func() {
		rng := rand.New(rand.NewSource(42))
		unit := func() float64 { return 1 - rng.Float64()*0.99 }

		for trial := 0; trial < 20; trial++ {
			m1, m2 := fullMatrices(unit, unit)
			store, err := matrix.New(m1, m2)
			So(err, ShouldBeNil)

			s := New(store)
			target := []byte(testGuide)
			prev := 1.0

			for _, pos := range rng.Perm(types.ProtospacerLength) {
				mutate(target, pos)

				sp, err := s.Score(mustPair(testGuide, string(target)))
				So(err, ShouldBeNil)
				So(sp.Score, ShouldBeLessThanOrEqualTo, prev)
				So(sp.Score, ShouldBeBetweenOrEqual, 0.0, 1.0)

				prev = sp.Score
			}
		}
	})
}
