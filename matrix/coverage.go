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

package matrix

import "github.com/wtsi-hgi/moff/types"

// Coverage describes which protospacer mismatches and mismatch pairs a Store
// can't score.
type Coverage struct {
	M1Entries int
	M2Entries int
	MissingM1 []types.Mismatch
	MissingM2 []PositionPair
}

// Complete is true if every protospacer substitution and pair of protospacer
// positions has an entry.
func (c Coverage) Complete() bool {
	return len(c.MissingM1) == 0 && len(c.MissingM2) == 0
}

// Coverage checks the Store against all 12 substitutions at each of the 20
// protospacer positions, and all pairs of those positions. PAM positions are
// not checked, since matrices commonly leave them out.
func (s *Store) Coverage() Coverage {
	c := Coverage{M1Entries: len(s.m1), M2Entries: len(s.m2)}

	for pos := 0; pos < types.ProtospacerLength; pos++ {
		for _, ref := range types.Bases() {
			for _, alt := range types.Bases() {
				if ref == alt {
					continue
				}

				mm := types.Mismatch{Position: pos, Ref: ref, Alt: alt}
				if _, ok := s.m1[mm]; !ok {
					c.MissingM1 = append(c.MissingM1, mm)
				}
			}
		}
	}

	for i := 0; i < types.ProtospacerLength; i++ {
		for j := i + 1; j < types.ProtospacerLength; j++ {
			pp := PositionPair{I: i, J: j}
			if _, ok := s.m2[pp]; !ok {
				c.MissingM2 = append(c.MissingM2, pp)
			}
		}
	}

	return c
}
