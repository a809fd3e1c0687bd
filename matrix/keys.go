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

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wtsi-hgi/moff/types"
)

const (
	m1KeyFormat = "r%c:d%c,%d"
	m2KeyFormat = "%d,%d"
)

// PositionPair is an unordered pair of 0-based positions, stored with I < J.
type PositionPair struct {
	I int
	J int
}

// NewPositionPair orders the given positions.
func NewPositionPair(a, b int) PositionPair {
	if b < a {
		a, b = b, a
	}

	return PositionPair{I: a, J: b}
}

// String gives the M2 file key, with 1-based positions.
func (p PositionPair) String() string {
	return fmt.Sprintf(m2KeyFormat, p.I+1, p.J+1)
}

// M1Key returns the M1 file key for a mismatch, eg. a guide G facing a target
// A at position 7 is "rG:dT,7": the guide base as RNA and the target strand
// base it pairs with.
func M1Key(m types.Mismatch) string {
	return fmt.Sprintf(m1KeyFormat, toRNA(m.Ref), types.Complement(m.Alt), m.Position+1)
}

// ParseM1Key is the inverse of M1Key.
func ParseM1Key(key string) (types.Mismatch, error) {
	subst, pos, ok := strings.Cut(strings.TrimSpace(key), ",")
	if !ok {
		return types.Mismatch{}, badKey(key)
	}

	rna, dna, ok := strings.Cut(subst, ":")
	if !ok || len(rna) != 2 || len(dna) != 2 || rna[0] != 'r' || dna[0] != 'd' {
		return types.Mismatch{}, badKey(key)
	}

	ref := fromRNA(rna[1])
	alt := types.Complement(dna[1])

	if !types.IsBase(ref) || !types.IsBase(alt) || ref == alt {
		return types.Mismatch{}, badKey(key)
	}

	p, err := parsePosition(pos)
	if err != nil {
		return types.Mismatch{}, badKey(key)
	}

	return types.Mismatch{Position: p, Ref: ref, Alt: alt}, nil
}

// ParseM2Key parses "i,j" with 1-based positions, in either order.
func ParseM2Key(key string) (PositionPair, error) {
	a, b, ok := strings.Cut(strings.TrimSpace(key), ",")
	if !ok {
		return PositionPair{}, badKey(key)
	}

	i, err := parsePosition(a)
	if err != nil {
		return PositionPair{}, badKey(key)
	}

	j, err := parsePosition(b)
	if err != nil || i == j {
		return PositionPair{}, badKey(key)
	}

	return NewPositionPair(i, j), nil
}

// parsePosition converts a 1-based position string to a 0-based index within
// a sequence.
func parsePosition(s string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}

	if p < 1 || p > types.SequenceLength {
		return 0, ErrBadPosition
	}

	return p - 1, nil
}

func badKey(key string) error {
	return fmt.Errorf("%w: %q", ErrBadKey, key)
}

func toRNA(b byte) byte {
	if b == 'T' {
		return 'U'
	}

	return b
}

func fromRNA(b byte) byte {
	if b == 'U' {
		return 'T'
	}

	return b
}
