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

import "fmt"

// Mismatch is a substitution at a 0-based Position, where the guide has Ref
// and the target has Alt.
type Mismatch struct {
	Position int
	Ref      byte
	Alt      byte
}

// String gives the 1-based position and substitution, eg. "7:G>A".
func (m Mismatch) String() string {
	return fmt.Sprintf("%d:%c>%c", m.Position+1, m.Ref, m.Alt)
}

// Mismatches returns the positions where the guide and target differ, in
// ascending order. A new slice is made on each call. Identical sequences give
// an empty result.
func (p SequencePair) Mismatches() []Mismatch {
	var mms []Mismatch

	for i := 0; i < len(p.Guide); i++ {
		if p.Guide[i] == p.Target[i] {
			continue
		}

		mms = append(mms, Mismatch{Position: i, Ref: p.Guide[i], Alt: p.Target[i]})
	}

	return mms
}
